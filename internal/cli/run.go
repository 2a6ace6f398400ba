package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/notify"
	"github.com/cybernetics/specnaz/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database      string
	Filter        string
	Progress      bool
	FailOnFocused bool
}

// RunSummary tallies specs across one invocation; printed after the last
// spec in text mode when more than one ran.
type RunSummary struct {
	Specs  int
	Passed int
	Failed int
}

func (s RunSummary) String() string {
	return fmt.Sprintf("%d specs: %d passed, %d failed", s.Specs, s.Passed, s.Failed)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run specs and report results",
		Long: `Run loads scenario files and executes every spec they describe.

Every spec is planned first; if any is malformed nothing runs. Results are
printed as a tree (text) or as one JSON event per line (json). With --db,
each run and its test results are recorded in a SQLite database.

Example:
  specnaz run ./specs
  specnaz run --db ./specnaz.db --filter 'arith*' ./specs
  specnaz run --format json ./specs/division.cue`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}
			return runSpecs(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record results in this SQLite database")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run specs whose name matches this glob")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().BoolVar(&opts.FailOnFocused, "fail-on-focused", false, "fail when any test is focused")

	return cmd
}

func runSpecs(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	cfg := opts.config
	logger := opts.logger
	formatter := opts.formatter(cmd)

	specs, err := loadSpecs(opts.RootOptions, paths, formatter)
	if err != nil {
		return err
	}

	// Plan everything up front: a malformed spec stops the whole run
	// before any test body executes.
	h := opts.harness()
	fingerprints := make(map[string]string, len(specs))
	var focused []string
	for _, s := range specs {
		p, err := h.Plan(s)
		if err != nil {
			return formatter.Fail(ExitCommandError, "spec "+s.Name+" is malformed", err)
		}
		fingerprints[s.Name] = p.Fingerprint()
		if p.HasFocused() {
			focused = append(focused, s.Name)
		}
	}

	var st *store.Store
	if cfg.Store.Path != "" {
		logger.Info("opening database", "path", cfg.Store.Path)
		st, err = store.Open(cfg.Store.Path)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reporter, stream := newReporter(opts.RootOptions, cmd)
	var progress engine.Notifier
	if cfg.Output.Progress {
		progress = notify.NewProgress(cmd.ErrOrStderr())
	}
	n := notify.Tee(reporter, progress, notify.NewLogging(logger))

	total := RunSummary{Specs: len(specs)}
	for _, s := range specs {
		startedAt := opts.now()
		res, err := h.Run(s, n)
		if err != nil {
			return formatter.Fail(ExitCommandError, "spec "+s.Name+" is malformed", err)
		}
		if res.Pass {
			total.Passed++
		} else {
			total.Failed++
		}

		if st != nil {
			run := store.NewRun(s.Name, fingerprints[s.Name], startedAt, res.Summary)
			if err := st.WriteRun(ctx, run, res.Tests); err != nil {
				return formatter.Fail(ExitCommandError, "failed to record run", err)
			}
			logger.Debug("run recorded", "spec", s.Name, "run_id", run.ID)
		}
	}

	if stream != nil && stream.Err() != nil {
		return WrapExitError(ExitCommandError, "write events", stream.Err())
	}
	if formatter.Format != "json" && total.Specs > 1 {
		fmt.Fprintf(formatter.Writer, "\n%s\n", total)
	}

	if total.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d spec(s) failed", total.Failed, total.Specs))
	}
	if len(focused) > 0 && cfg.Run.FailOnFocused {
		return NewExitError(ExitFailure, fmt.Sprintf("focused tests present in %v", focused))
	}
	return nil
}

// newReporter returns the notifier that renders results on stdout. The
// JSON stream is returned separately so its write error can be checked.
func newReporter(opts *RootOptions, cmd *cobra.Command) (engine.Notifier, *notify.JSONStream) {
	if opts.config.Output.Format == "json" {
		stream := notify.NewJSONStream(cmd.OutOrStdout())
		return stream, stream
	}
	return notify.NewConsole(cmd.OutOrStdout(), opts.config.Output.Color), nil
}
