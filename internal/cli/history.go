package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cybernetics/specnaz/internal/notify"
	"github.com/cybernetics/specnaz/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
	Spec     string
	Failures bool
}

// RunDetail is a recorded run together with its results.
type RunDetail struct {
	Run     store.Run           `json:"run"`
	Results []notify.TestRecord `json:"results"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs recorded in a history database",
		Long: `History lists the runs recorded by 'specnaz run --db', oldest first.
With --run it shows the test results of a single run.

Example:
  specnaz history --db ./specnaz.db
  specnaz history --db ./specnaz.db --spec arithmetic
  specnaz history --db ./specnaz.db --run 0190a8f2-... --failures`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show results of this run")
	cmd.Flags().StringVar(&opts.Spec, "spec", "", "only list runs of this spec")
	cmd.Flags().BoolVar(&opts.Failures, "failures", false, "with --run, only show failed tests")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	dbPath := opts.config.Store.Path
	if dbPath == "" {
		return formatter.Fail(ExitCommandError, "no database", errors.New("set --db or store.path"))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.RunID != "" {
		return showRun(ctx, opts, st, formatter)
	}

	runs, err := st.ListRuns(ctx, opts.Spec)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to list runs", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		return formatter.Success("No runs recorded")
	}

	var sb strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&sb, "%s  %s  %-20s %d passed, %d failed, %d skipped",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Spec, r.Passed, r.Failed, r.Skipped)
		if r.HookFailures > 0 {
			fmt.Fprintf(&sb, ", %d hook failures", r.HookFailures)
		}
		sb.WriteString("\n")
	}
	return formatter.Success(strings.TrimRight(sb.String(), "\n"))
}

func showRun(ctx context.Context, opts *HistoryOptions, st *store.Store, formatter *OutputFormatter) error {
	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return formatter.Fail(ExitFailure, "run not found", err)
		}
		return formatter.Fail(ExitCommandError, "failed to read run", err)
	}

	read := st.ReadResults
	if opts.Failures {
		read = st.ReadFailures
	}
	results, err := read(ctx, run.ID)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to read results", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunDetail{Run: run, Results: results})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) %d tests: %d passed, %d failed, %d skipped\n",
		run.Spec, run.ID, run.Total, run.Passed, run.Failed, run.Skipped)
	for _, r := range results {
		fmt.Fprintf(&sb, "  %-7s %s", r.Status, r.Path)
		if r.Message != "" {
			fmt.Fprintf(&sb, ": %s", r.Message)
		}
		sb.WriteString("\n")
	}
	return formatter.Success(strings.TrimRight(sb.String(), "\n"))
}
