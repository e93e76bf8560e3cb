// Package engine is the single entry point for computing a return: it
// validates the input, resolves the year, runs the federal return and every
// configured state, and assembles one explanation graph.
package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/rules"
	"taxengine/internal/state"
	"taxengine/internal/trace"
	"taxengine/internal/validation"
)

// ErrNoReturn is returned for a nil TaxReturn.
var ErrNoReturn = errors.New("no tax return")

// ComputeResult is everything one compute call produces.
type ComputeResult struct {
	TaxYear           int                    `json:"taxYear"`
	Form1040          federal.Form1040Result `json:"form1040"`
	ScheduleB         federal.ScheduleB      `json:"scheduleB"`
	States            []state.Result         `json:"states"`
	Values            *trace.Values          `json:"values"`
	ExecutedSchedules []string               `json:"executedSchedules"`
	Findings          []core.Finding         `json:"findings"`
	Fingerprint       string                 `json:"fingerprint"`
}

// Warnings returns the warning-severity findings.
func (r *ComputeResult) Warnings() []core.Finding {
	var out []core.Finding
	for _, f := range r.Findings {
		if f.Severity == core.SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

// Observer receives one call per Compute. The HTTP server feeds it into
// its metrics.
type Observer interface {
	ObserveCompute(taxYear int, elapsed time.Duration, findings []core.Finding, err error)
}

// Engine computes returns against a registry. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	registry *rules.Registry
	log      *zap.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver installs a compute observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New returns an engine over registry.
func New(registry *rules.Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry exposes the registry the engine resolves years against.
func (e *Engine) Registry() *rules.Registry { return e.registry }

type stateRun struct {
	cfg    core.StateConfig
	module state.Module
}

// Compute runs the full computation.
//
// Only an unsupported year and a missing required state module are errors.
// Everything else, including input-validation problems and a trace graph
// that fails validation, is reported as a finding.
func (e *Engine) Compute(tr *core.TaxReturn) (res *ComputeResult, err error) {
	start := time.Now()
	defer func() {
		if e.observer != nil {
			year := 0
			var findings []core.Finding
			if tr != nil {
				year = tr.TaxYear
			}
			if res != nil {
				findings = res.Findings
			}
			e.observer.ObserveCompute(year, time.Since(start), findings, err)
		}
	}()

	if tr == nil {
		return nil, ErrNoReturn
	}
	log := e.log.With(zap.Int("tax_year", tr.TaxYear), zap.String("filing_status", string(tr.FilingStatus)))

	var f core.Findings
	f.Append(validation.Check(tr)...)

	ym, err := e.registry.YearModule(tr.TaxYear)
	if err != nil {
		log.Warn("year not supported", zap.Error(err))
		return nil, err
	}

	runs, err := e.resolveStates(ym, tr, &f)
	if err != nil {
		log.Warn("required state module missing", zap.Error(err))
		return nil, err
	}

	fed := ym.ComputeForm1040(tr)
	f.Append(fed.Findings...)

	vals, err := federal.CollectTracedValues(&fed)
	if err != nil {
		log.Error("federal trace rejected", zap.Error(err))
		f.Warn(core.CodeTraceGraphInvalid, "values", "federal explanation graph is incomplete: %v", err)
		vals = trace.NewValues()
	}

	states := make([]state.Result, 0, len(runs))
	for _, run := range runs {
		sr := run.module.Compute(tr, &fed, run.cfg)
		f.Append(sr.Findings...)
		states = append(states, sr)

		sv, err := run.module.CollectTracedValues(sr, vals)
		if err == nil {
			err = vals.Merge(sv)
		}
		if err != nil {
			log.Error("state trace rejected", zap.String("state", string(sr.StateCode)), zap.Error(err))
			f.Warn(core.CodeTraceGraphInvalid, "values", "%s explanation graph is incomplete: %v", sr.StateCode, err)
		}
	}

	if err := trace.Validate(vals); err != nil {
		log.Error("trace graph invalid", zap.Error(err))
		f.Warn(core.CodeTraceGraphInvalid, "values", "explanation graph is invalid: %v", err)
	}
	fp, err := trace.Fingerprint(vals)
	if err != nil {
		return nil, fmt.Errorf("fingerprint trace: %w", err)
	}

	res = &ComputeResult{
		TaxYear:           tr.TaxYear,
		Form1040:          fed,
		ScheduleB:         fed.ScheduleB,
		States:            states,
		Values:            vals,
		ExecutedSchedules: fed.ExecutedSchedules,
		Findings:          f.List(),
		Fingerprint:       fp,
	}
	if res.Findings == nil {
		res.Findings = []core.Finding{}
	}

	log.Info("return computed",
		zap.Int("states", len(states)),
		zap.Int("trace_nodes", vals.Len()),
		zap.Int("findings", len(res.Findings)),
		zap.Int64("total_tax_cents", int64(fed.TotalTax)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// resolveStates maps each configured state to its module before any work is
// done, so a fatal lookup fails fast. Unknown optional states are noted and
// skipped.
func (e *Engine) resolveStates(ym rules.YearModule, tr *core.TaxReturn, f *core.Findings) ([]stateRun, error) {
	var runs []stateRun
	for i, cfg := range tr.States {
		field := fmt.Sprintf("states[%d].stateCode", i)
		code, err := state.ParseCode(cfg.StateCode)
		if err == nil {
			if m, ok := ym.StateModule(code); ok {
				runs = append(runs, stateRun{cfg: cfg, module: m})
				continue
			}
		}
		if cfg.Required {
			return nil, &rules.LookupError{
				Kind: rules.ErrStateModuleMissing,
				Msg:  fmt.Sprintf("%q for %d", cfg.StateCode, tr.TaxYear),
			}
		}
		f.Warn(core.CodeStateModuleMissing, field, "no %d module for state %q; state return not computed", tr.TaxYear, cfg.StateCode)
	}
	return runs, nil
}
