// Package cli is the taxengine command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taxengine/internal/config"
	"taxengine/internal/engine"
	"taxengine/internal/logging"
	"taxengine/internal/rules"
)

// app is the state shared by every subcommand. cfg and log are populated in
// the root's PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string

	cfg      config.Config
	log      *zap.Logger
	registry *rules.Registry
}

func (a *app) engine(opts ...engine.Option) *engine.Engine {
	return engine.New(a.registry, append([]engine.Option{engine.WithLogger(a.log)}, opts...)...)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{registry: rules.Default(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "taxengine",
		Short:         "Federal and state individual income tax engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return invalidInvocationf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return configError(err)
			}
			if a.logLevel != "" {
				cfg.Logging.Level = a.logLevel
			}
			log, err := logging.New(cfg.Logging)
			if err != nil {
				return configError(err)
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (defaults apply when omitted)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug|info|warn|error)")

	root.AddCommand(
		newComputeCommand(a),
		newGapCommand(a),
		newYearsCommand(a),
		newServeCommand(a),
		newWatchCommand(a),
	)
	return root
}

// Execute runs the CLI with args (excluding argv[0]) and returns the exit
// code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "taxengine:", err)
	}
	return ExitCode(err)
}

// exactArgs is cobra.ExactArgs reporting an invalid invocation.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return invalidInvocationf("%v", err)
		}
		return nil
	}
}
