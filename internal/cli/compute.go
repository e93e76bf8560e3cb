package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taxengine/internal/core"
	"taxengine/internal/engine"
	"taxengine/internal/gap"
	"taxengine/internal/trace"
)

type computeOptions struct {
	out     string
	explain string
	year    int
	pretty  bool
}

func newComputeCommand(a *app) *cobra.Command {
	var o computeOptions
	cmd := &cobra.Command{
		Use:   "compute RETURN.json",
		Short: "Compute a return and print the result as JSON",
		Long: `Compute reads a TaxReturn JSON document ("-" for stdin), runs the federal
return and every configured state, and prints the full result including the
explanation graph. With --explain it prints the chain of lines behind one node.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := loadReturn(cmd.InOrStdin(), args[0], o.year, a.cfg.TaxYear)
			if err != nil {
				return err
			}
			res, err := a.engine().Compute(tr)
			if err != nil {
				return &ExitError{Code: ExitComputeFailure, Err: err}
			}
			if o.explain != "" {
				return explain(cmd.OutOrStdout(), res.Values, o.explain)
			}
			return emit(a, cmd.OutOrStdout(), o.out, res, o.pretty)
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the result to this file atomically instead of stdout")
	cmd.Flags().StringVar(&o.explain, "explain", "", "print how one trace node (e.g. f1040.line11) was computed")
	cmd.Flags().IntVar(&o.year, "year", 0, "override the return's tax year")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func newGapCommand(a *app) *cobra.Command {
	var o computeOptions
	cmd := &cobra.Command{
		Use:   "gap RETURN.json",
		Short: "Report what is still missing before the return can be filed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := loadReturn(cmd.InOrStdin(), args[0], o.year, a.cfg.TaxYear)
			if err != nil {
				return err
			}
			// The readiness report is still useful for a year the engine
			// cannot compute; it is then scored on the inputs alone.
			res, err := a.engine().Compute(tr)
			if err != nil {
				a.log.Warn("gap analysis without computed result", zap.Error(err))
				res = nil
			}
			return emit(a, cmd.OutOrStdout(), o.out, gap.Analyze(tr, res), o.pretty)
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the report to this file atomically instead of stdout")
	cmd.Flags().IntVar(&o.year, "year", 0, "override the return's tax year")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func loadReturn(stdin io.Reader, path string, override, fallback int) (*core.TaxReturn, error) {
	tr, err := readReturn(stdin, path)
	if err != nil {
		return nil, invalidInvocationf("%v", err)
	}
	switch {
	case override != 0:
		tr.TaxYear = override
	case tr.TaxYear == 0:
		tr.TaxYear = fallback
	}
	return tr, nil
}

func emit(a *app, stdout io.Writer, out string, v any, pretty bool) error {
	data, err := marshalResult(v, pretty)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if out == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := writeFileAtomic(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	a.log.Info("result written", zap.String("path", out), zap.Int("bytes", len(data)))
	return nil
}

func explain(w io.Writer, vals *trace.Values, id string) error {
	chain, err := trace.Explain(vals, id)
	if err != nil {
		return invalidInvocationf("%v", err)
	}
	for _, v := range chain {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	return nil
}

// summary is the one-line rendering used by watch.
func summary(res *engine.ComputeResult) string {
	f := res.Form1040
	s := fmt.Sprintf("%d  agi %s  total tax %s  refund %s  owed %s", res.TaxYear, f.AGI, f.TotalTax, f.Refund, f.AmountOwed)
	for _, st := range res.States {
		s += fmt.Sprintf("  %s %s", st.StateCode, st.TaxAfterCredits)
	}
	return fmt.Sprintf("%s  findings %d  %s", s, len(res.Findings), shortFingerprint(res.Fingerprint))
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
