package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/saikumarakula/HVM/internal/compiler"
	"github.com/saikumarakula/HVM/internal/engine"
	"github.com/saikumarakula/HVM/internal/ir"
	"github.com/saikumarakula/HVM/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Workers int
	Record  string

	// IDGenerator allows overriding the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// RunReport is the outcome of a run, as printed by the run command.
type RunReport struct {
	RunID        string  `json:"run_id,omitempty"`
	Result       string  `json:"result"`
	Interactions uint64  `json:"interactions"`
	Seconds      float64 `json:"seconds"`
	MIPS         float64 `json:"mips"`
	Workers      int     `json:"workers"`
	BookHash     string  `json:"book_hash"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Reduce a program with the built-in parallel evaluator",
		Long: `Compile a program and reduce @main to normal form.

The result is printed with the interaction count, elapsed time and
throughput. If the reduced net cannot be read back, the whole net is
dumped instead.

Example:
  hvm run examples/sum.hvm
  hvm run --workers 8 --record runs.db examples/sum.hvm`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "number of workers (default from config)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "append the run to this SQLite database")

	return cmd
}

func runProgram(opts *RunOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	book, err := loadProgram(path)
	if err != nil {
		return fail(out, err)
	}

	cfg := opts.Config
	if opts.Workers != 0 {
		cfg.Workers = opts.Workers
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid settings", err)
	}

	slog.Debug("reducing", "program", path, "definitions", len(book.Defs), "workers", cfg.Workers)
	res, err := engine.Run(book, cfg.RunOptions()...)
	if err != nil {
		return fail(out, WrapExitError(ExitFailure, "reduction failed", err))
	}

	report := RunReport{
		Interactions: res.Interactions,
		Seconds:      res.Elapsed.Seconds(),
		MIPS:         res.MIPS(),
		Workers:      res.Workers,
		BookHash:     ir.MustBookHash(book),
	}

	net, readErr := compiler.Readback(res.Net, book, res.Root)
	if readErr != nil {
		if opts.Format == "json" {
			return fail(out, WrapExitError(ExitFailure, "readback failed", readErr))
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Readback failed. Printing GNet memdump...")
		fmt.Fprint(w, res.Net.Show())
		printStats(w, report)
		return WrapExitError(ExitFailure, "readback failed", readErr)
	}
	report.Result = net.Show()

	db := opts.Record
	if db == "" {
		db = cfg.RecordDB
	}
	if db != "" {
		id, err := recordRun(cmd.Context(), db, opts.IDGenerator, path, res.Elapsed, report)
		if err != nil {
			return err
		}
		report.RunID = id
	}

	if opts.Format == "json" {
		return out.Success(report)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Result: %s\n", report.Result)
	printStats(w, report)
	if report.RunID != "" {
		out.VerboseLog("recorded run %s in %s", report.RunID, db)
	}
	return nil
}

func printStats(w io.Writer, r RunReport) {
	fmt.Fprintf(w, "- ITRS: %d\n", r.Interactions)
	fmt.Fprintf(w, "- TIME: %.2fs\n", r.Seconds)
	fmt.Fprintf(w, "- MIPS: %.2f\n", r.MIPS)
}

func recordRun(ctx context.Context, db string, gen store.IDGenerator, program string, elapsed time.Duration, r RunReport) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}

	st, err := store.Open(db)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	rec, err := st.WriteRun(ctx, ir.RunRecord{
		ID:           gen.Generate(),
		BookHash:     r.BookHash,
		Program:      program,
		Mode:         "interpreted",
		Workers:      r.Workers,
		Result:       r.Result,
		Interactions: r.Interactions,
		ElapsedNanos: elapsed.Nanoseconds(),
	})
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to record run", err)
	}
	return rec.ID, nil
}

// fail reports err in JSON mode and passes it through for the exit code.
func fail(out *OutputFormatter, err error) error {
	if out.Format == "json" {
		_ = out.Error(errorCode(err), err.Error(), runtimeDetails(err))
	}
	return err
}
