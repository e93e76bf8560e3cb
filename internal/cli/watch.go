package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCommand(a *app) *cobra.Command {
	var (
		o        computeOptions
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch RETURN.json",
		Short: "Recompute whenever the return file changes",
		Long: `Watch computes the return once, then again after every save of the file,
printing a one-line summary. With --out the full result is also rewritten
atomically on each change.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "-" {
				return invalidInvocationf("watch needs a file, not stdin")
			}
			eng := a.engine()
			w := cmd.OutOrStdout()

			recompute := func() {
				tr, err := loadReturn(nil, path, o.year, a.cfg.TaxYear)
				if err != nil {
					// Editors often leave a half-written file between saves.
					fmt.Fprintf(w, "skipped: %v\n", err)
					return
				}
				res, err := eng.Compute(tr)
				if err != nil {
					fmt.Fprintf(w, "error: %v\n", err)
					return
				}
				fmt.Fprintln(w, summary(res))
				if o.out != "" {
					if err := emit(a, w, o.out, res, o.pretty); err != nil {
						a.log.Error("write result", zap.Error(err))
					}
				}
			}

			recompute()
			return watchFile(cmd.Context(), path, debounce, a.log, recompute)
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "also write the full result to this file on every change")
	cmd.Flags().IntVar(&o.year, "year", 0, "override the return's tax year")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "indent JSON written to --out")
	cmd.Flags().DurationVar(&debounce, "debounce", 150*time.Millisecond, "quiet period before recomputing")
	return cmd
}

// watchFile calls onChange after path is written, created or replaced, once
// per burst of events separated by less than debounce. The parent directory
// is watched so rename-over-save editors keep working. Returns when ctx is
// done.
func watchFile(ctx context.Context, path string, debounce time.Duration, log *zap.Logger, onChange func()) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	log.Info("watching", zap.String("path", target))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug("file event", zap.String("op", ev.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				log.Warn("watch overflow; recomputing")
				timer.Reset(debounce)
				continue
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			onChange()
		}
	}
}
