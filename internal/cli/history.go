package cli

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/saikumarakula/HVM/internal/ir"
	"github.com/saikumarakula/HVM/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Program  string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with run --record, most recent first.

With --program, only runs of a book identical to that program's are shown.

Example:
  hvm history --db runs.db
  hvm history --db runs.db --program examples/sum.hvm --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Program, "program", "", "only show runs of this program")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs (0 for all)")

	return cmd
}

func showHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	db := opts.Database
	if db == "" {
		db = opts.Config.RecordDB
	}
	if db == "" {
		return NewExitError(ExitCommandError, "no database given (use --db or record_db in the config file)")
	}

	filter := store.ListFilter{Limit: opts.Limit}
	if opts.Program != "" {
		book, err := loadProgram(opts.Program)
		if err != nil {
			return err
		}
		filter.BookHash = ir.MustBookHash(book)
	}

	st, err := store.Open(db)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := st.ListRuns(ctx, filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tPROGRAM\tMODE\tWORKERS\tITRS\tTIME\tRESULT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Seq, r.ID, r.Program, r.Mode, r.Workers, r.Interactions,
			time.Duration(r.ElapsedNanos).Round(time.Microsecond), truncate(r.Result, 40))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
