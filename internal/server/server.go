// Package server exposes the engine over HTTP.
//
// Routes:
//
//	GET  /health               liveness
//	GET  /metrics              Prometheus
//	GET  /api/v1/status        compute the stored return
//	POST /api/v1/sync          replace the stored return (optimistic version check)
//	GET  /api/v1/gap-analysis  readiness report for the stored return
//	GET  /api/v1/events        server-sent events on every accepted sync
//
// The engine itself is stateless; the only shared mutable state is the
// stored return, and the store serializes writers by version.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taxengine/internal/config"
	"taxengine/internal/core"
	"taxengine/internal/engine"
	"taxengine/internal/gap"
	"taxengine/internal/rules"
	"taxengine/internal/store"
)

const maxBodyBytes = 1 << 20

// Repository is the persistence the server needs.
type Repository interface {
	Load(ctx context.Context) (store.Snapshot, error)
	Save(ctx context.Context, tr *core.TaxReturn, expected int64) (int64, error)
	Version(ctx context.Context) (int64, error)
}

// Server wires the engine, the store and the event hub to gin.
type Server struct {
	cfg         config.ServerConfig
	defaultYear int
	engine      *engine.Engine
	repo        Repository
	hub         *Hub
	metrics     *Metrics
	log         *zap.Logger
	router      *gin.Engine
}

// New builds the server. The engine should already report to m through
// engine.WithObserver.
func New(cfg config.Config, eng *engine.Engine, repo Repository, m *Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = NewMetrics()
	}
	def := config.Default().Server
	if cfg.Server.Heartbeat <= 0 {
		cfg.Server.Heartbeat = def.Heartbeat
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = def.ShutdownTimeout
	}
	s := &Server{
		cfg:         cfg.Server,
		defaultYear: cfg.TaxYear,
		engine:      eng,
		repo:        repo,
		hub:         NewHub(16),
		metrics:     m,
		log:         log.Named("http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.log, s.metrics), securityHeaders(), cors(s.cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api/v1", rateLimit(s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst))
	api.GET("/status", s.handleStatus)
	api.POST("/sync", s.handleSync)
	api.GET("/gap-analysis", s.handleGap)
	api.GET("/events", s.handleEvents)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the event hub.
func (s *Server) Hub() *Hub { return s.hub }

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. Open
// event streams are closed first so shutdown does not wait on them.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("stopped")
		return nil
	})
	return g.Wait()
}

type statusResponse struct {
	Version   int64                 `json:"version"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Result    *engine.ComputeResult `json:"result"`
}

func (s *Server) handleStatus(c *gin.Context) {
	snap, err := s.repo.Load(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorBody("no tax return stored"))
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	res, err := s.engine.Compute(snap.Return)
	if err != nil {
		s.computeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Version: snap.Version, UpdatedAt: snap.UpdatedAt, Result: res})
}

type syncRequest struct {
	// Version is the version the client last saw; 0 for a first save.
	Version   int64           `json:"version" binding:"gte=0"`
	TaxReturn *core.TaxReturn `json:"taxReturn" binding:"required"`
}

type syncResponse struct {
	Version int64                 `json:"version"`
	Result  *engine.ComputeResult `json:"result"`
}

// handleSync computes before saving, so a return the engine cannot compute
// is never stored.
func (s *Server) handleSync(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}
	if req.TaxReturn.TaxYear == 0 {
		req.TaxReturn.TaxYear = s.defaultYear
	}

	res, err := s.engine.Compute(req.TaxReturn)
	if err != nil {
		s.computeError(c, err)
		return
	}

	version, err := s.repo.Save(c.Request.Context(), req.TaxReturn, req.Version)
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		s.metrics.saveConflicts.Inc()
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "currentVersion": conflict.Current})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}

	n := s.hub.Publish(newEvent(EventReturnUpdated, version, res.Fingerprint))
	s.log.Info("return synced",
		zap.Int64("version", version),
		zap.String("fingerprint", res.Fingerprint),
		zap.Int("notified", n),
		zap.String("request_id", c.GetString(ctxRequestID)),
	)
	c.JSON(http.StatusOK, syncResponse{Version: version, Result: res})
}

type gapResponse struct {
	Version int64 `json:"version"`
	gap.Result
}

// handleGap always answers: with nothing stored it scores an empty return,
// and a return that cannot be computed is still scored on its inputs.
func (s *Server) handleGap(c *gin.Context) {
	snap, err := s.repo.Load(c.Request.Context())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.internalError(c, err)
		return
	}
	var res *engine.ComputeResult
	if snap.Return != nil {
		if res, err = s.engine.Compute(snap.Return); err != nil {
			s.log.Warn("gap analysis without computed result", zap.Error(err))
			res = nil
		}
	}
	c.JSON(http.StatusOK, gapResponse{Version: snap.Version, Result: gap.Analyze(snap.Return, res)})
}

func (s *Server) handleEvents(c *gin.Context) {
	version, err := s.repo.Version(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	events, cancel := s.hub.Subscribe()
	defer cancel()
	s.metrics.subscribers.Inc()
	defer s.metrics.subscribers.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent("ready", newEvent("ready", version, ""))
	c.Writer.Flush()

	heartbeat := time.NewTicker(s.cfg.Heartbeat)
	defer heartbeat.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(ev.Type, ev)
			c.Writer.Flush()
		case <-heartbeat.C:
			if _, err := c.Writer.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

func (s *Server) computeError(c *gin.Context, err error) {
	if errors.Is(err, rules.ErrUnsupportedYear) || errors.Is(err, rules.ErrStateModuleMissing) {
		c.JSON(http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}
	s.internalError(c, err)
}

func (s *Server) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, errorBody("internal error"))
}
