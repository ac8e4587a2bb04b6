package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/saikumarakula/HVM/internal/config"
	"github.com/saikumarakula/HVM/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Metrics    bool

	// Config is the loaded configuration, set before any command runs.
	Config config.Config

	metrics *metricsSink
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the hvm CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hvm",
		Short: "HVM - a parallel interaction-net evaluator",
		Long: `Reduce interaction-net programs to normal form on all cores, or compile
them to C and CUDA for the native runtimes.`,
		Version:       ir.RuntimeVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.metrics != nil {
				opts.metrics.dump(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("hvm {{.Version}} (book layout v%s)\n", ir.BookVersion))

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.Metrics, "metrics", false, "print run metrics to stderr when done")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewRunBackendCommand(opts, backendNative))
	cmd.AddCommand(NewRunBackendCommand(opts, backendAccelerated))
	cmd.AddCommand(NewGenerateCommand(opts, backendNative))
	cmd.AddCommand(NewGenerateCommand(opts, backendAccelerated))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// setup validates global flags, configures logging and loads the config.
func (o *RootOptions) setup() error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	o.Config = config.Default()
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		o.Config = cfg
		slog.Debug("config loaded", "path", o.ConfigPath)
	}

	if o.Metrics {
		sink, err := installMetrics()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to set up metrics", err)
		}
		o.metrics = sink
	}
	return nil
}

// formatter returns an OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
