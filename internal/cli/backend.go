package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saikumarakula/HVM/internal/codegen"
	"github.com/saikumarakula/HVM/internal/config"
)

// backend describes one external runtime.
type backend struct {
	name   string
	target codegen.Target
	pick   func(config.Config) config.Backend
}

var (
	backendNative = backend{
		name:   "native",
		target: codegen.Native,
		pick:   func(c config.Config) config.Backend { return c.Native },
	}
	backendAccelerated = backend{
		name:   "accelerated",
		target: codegen.Accelerated,
		pick:   func(c config.Config) config.Backend { return c.Accelerated },
	}
)

// BackendOptions holds flags for the run-native and run-accelerated commands.
type BackendOptions struct {
	*RootOptions
	Runner string
}

// NewRunBackendCommand creates run-native or run-accelerated.
func NewRunBackendCommand(rootOpts *RootOptions, b backend) *cobra.Command {
	opts := &BackendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run-" + b.name + " <file>",
		Short: fmt.Sprintf("Reduce a program with the external %s runtime", b.name),
		Long: fmt.Sprintf(`Compile a program to the binary Book layout, write it to a temporary
file and execute the %[1]s runner with that file's path as its only argument.
The runner's output is passed through unchanged.

The runner comes from --runner or the config file's %[1]s.runner.

Example:
  hvm run-%[1]s --runner ./bin/hvm-%[1]s examples/sum.hvm`, b.name),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackend(opts, b, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Runner, "runner", "", "path to the runner executable")

	return cmd
}

func runBackend(opts *BackendOptions, b backend, path string, cmd *cobra.Command) error {
	runner := opts.Runner
	if runner == "" {
		runner = b.pick(opts.Config).Runner
	}
	if runner == "" {
		return NewExitError(ExitCommandError, fmt.Sprintf("no %s runner configured (use --runner or %s.runner in the config file)", b.name, b.name))
	}

	book, err := loadProgram(path)
	if err != nil {
		return err
	}
	data, err := book.MarshalBinary()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode book", err)
	}

	dir, err := os.MkdirTemp("", "hvm-book-")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create temp dir", err)
	}
	defer os.RemoveAll(dir)

	bookPath := filepath.Join(dir, "book.bin")
	if err := os.WriteFile(bookPath, data, 0o600); err != nil {
		return WrapExitError(ExitCommandError, "failed to write book", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	proc := exec.CommandContext(ctx, runner, bookPath)
	proc.Stdout = cmd.OutOrStdout()
	proc.Stderr = cmd.ErrOrStderr()

	slog.Debug("starting runner", "backend", b.name, "runner", runner, "book", bookPath, "bytes", len(data))
	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return WrapExitError(ExitFailure, b.name+" runner failed", err)
		}
		return WrapExitError(ExitCommandError, "failed to start "+b.name+" runner", err)
	}
	return nil
}

// GenerateOptions holds flags for the generate-*-source commands.
type GenerateOptions struct {
	*RootOptions
	Template string
	Output   string
}

// NewGenerateCommand creates generate-native-source or
// generate-accelerated-source.
func NewGenerateCommand(rootOpts *RootOptions, b backend) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate-" + b.name + "-source <file>",
		Short: fmt.Sprintf("Emit %s runtime source specialised to a program", b.target.TemplateName()),
		Long: fmt.Sprintf(`Compile every definition of a program into a dedicated reducer and
splice them into the %[1]s runtime template.

The template comes from --template, the config file's %[1]s.template, or
the bundled %[2]s.

Example:
  hvm generate-%[1]s-source examples/sum.hvm > sum.%[3]s`, b.name, b.target.TemplateName(), filepath.Ext(b.target.TemplateName())[1:]),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSource(opts, b, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Template, "template", "", "runtime template to splice into")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func generateSource(opts *GenerateOptions, b backend, path string, cmd *cobra.Command) error {
	book, err := loadProgram(path)
	if err != nil {
		return err
	}

	tmplPath := opts.Template
	if tmplPath == "" {
		tmplPath = b.pick(opts.Config).Template
	}
	var tmpl string
	if tmplPath != "" {
		data, err := os.ReadFile(tmplPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read template", err)
		}
		tmpl = string(data)
	}

	src, err := codegen.Generate(b.target, tmpl, book)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to generate source", err)
	}

	if opts.Output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), src)
		return err
	}
	if err := os.WriteFile(opts.Output, []byte(src), 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	slog.Debug("source written", "path", opts.Output, "definitions", len(book.Defs))
	return nil
}
