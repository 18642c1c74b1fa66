// Package cli provides the synthprep command line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wdm0006/synthprep/internal/config"
	"github.com/wdm0006/synthprep/internal/logging"
)

// Version information (set at build time).
var Version = "0.1.0-dev"

type settingsKey struct{}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:   "synthprep",
		Short: "Preprocess tabular data for synthesis and invert it afterwards",
		Long: `synthprep imputes, removes outliers, encodes and scales the columns of a
table before it is used to train a synthesizer, and maps synthetic output
back to the original representation, re-inserting missing values.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			s, used, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			log := logging.Setup(cmd.ErrOrStderr(), s.Log.Level, s.Log.Format).
				With("run_id", uuid.NewString(), "command", cmd.Name())
			if used != "" {
				log.Debug("using config file", "path", used)
			}
			ctx := logging.NewContext(cmd.Context(), log)
			cmd.SetContext(context.WithValue(ctx, settingsKey{}, s))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./synthprep.yaml)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (text|json)")
	pf.String("input", "", "input data file")
	pf.String("metadata", "", "metadata file (YAML, JSON or TOML); default: describe the input")
	pf.Uint64("seed", 0, "random seed for reproducible runs")
	pf.Int("sample-rows", 0, "rows sampled to infer column kinds")
	pf.Bool("strict", false, "fail on malformed rows and cells")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newProfileCommand())
	root.AddCommand(newConfigCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newRoundtripCommand())
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func settings(ctx context.Context) (*config.Settings, error) {
	s, ok := ctx.Value(settingsKey{}).(*config.Settings)
	if !ok {
		return nil, fmt.Errorf("settings not loaded")
	}
	return s, nil
}

func logger(ctx context.Context) *slog.Logger { return logging.FromContext(ctx) }

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "synthprep", Version)
			return err
		},
	}
}
