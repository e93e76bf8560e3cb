package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taxengine/internal/engine"
	"taxengine/internal/server"
	"taxengine/internal/store"
)

func newServeCommand(a *app) *cobra.Command {
	var addr, dbPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API over the stored return",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dbPath != "" {
				cfg.Storage.Path = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return configError(err)
			}
			if !cfg.Logging.Development {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(ctx, cfg.Storage.Path, a.log.Named("store"))
			if err != nil {
				return configError(err)
			}
			defer st.Close()

			metrics := server.NewMetrics()
			eng := a.engine(engine.WithObserver(metrics))
			srv := server.New(cfg, eng, st, metrics, a.log)

			a.log.Info("starting",
				zap.String("addr", cfg.Server.Addr),
				zap.String("storage", cfg.Storage.Path),
				zap.Ints("tax_years", a.registry.Years()),
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.addr")
	cmd.Flags().StringVar(&dbPath, "db", "", "override storage.path")
	return cmd
}
