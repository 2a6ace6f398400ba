package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/notify"
	"github.com/cybernetics/specnaz/internal/plan"
)

// Harness plans and runs specs.
type Harness struct {
	logger   *slog.Logger
	executor *engine.Executor
}

// Option configures a Harness.
type Option func(*options)

type options struct {
	logger *slog.Logger
	runIDs engine.RunIDGenerator
}

// WithLogger sets the logger passed to the executor.
// Default: logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRunIDGenerator sets the run ID source, e.g. a fixed generator for
// golden comparisons.
func WithRunIDGenerator(gen engine.RunIDGenerator) Option {
	return func(o *options) {
		o.runIDs = gen
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs: engine.UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Harness{
		logger: o.logger,
		executor: engine.New(
			engine.WithLogger(o.logger),
			engine.WithRunIDGenerator(o.runIDs),
		),
	}
}

// Plan builds the plan of s without running anything.
func (h *Harness) Plan(s Spec) (*plan.Plan, error) {
	p, err := plan.Build(s.Trace)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", s.Name, err)
	}
	return p, nil
}

// Validate builds both the plan and the executable tree of s, reporting
// the first structural error.
func (h *Harness) Validate(s Spec) error {
	if _, err := h.Plan(s); err != nil {
		return err
	}
	if _, err := engine.Build(s.Trace); err != nil {
		return fmt.Errorf("build %s: %w", s.Name, err)
	}
	return nil
}

// Run executes s, reporting live to n (which may be nil) while recording
// the full event stream into the returned Result. The error is non-nil
// only for a structural problem, in which case nothing ran.
func (h *Harness) Run(s Spec, n engine.Notifier) (*Result, error) {
	rec := notify.NewRecorder()
	summary, err := h.executor.Execute(s.Trace, notify.Tee(rec, n))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", s.Name, err)
	}
	h.logger.Debug("spec finished", "spec", s.Name, "run_id", summary.RunID, "ok", summary.OK())
	return &Result{
		Spec:    s.Name,
		Pass:    summary.OK(),
		Summary: summary,
		Events:  rec.Events(),
		Tests:   rec.Results(),
	}, nil
}

// LoadSuite loads every scenario named by paths. A directory contributes
// all scenario files below it.
func LoadSuite(paths ...string) (*Suite, error) {
	suite := NewSuite()
	for _, p := range paths {
		files := []string{p}
		info, err := os.Stat(p)
		if err != nil {
			return nil, &ScenarioError{Code: ErrCodeReadFailed, Message: err.Error(), File: p}
		}
		if info.IsDir() {
			if files, err = FindScenarioFiles(p); err != nil {
				return nil, &ScenarioError{Code: ErrCodeReadFailed, Message: err.Error(), File: p}
			}
		}
		for _, f := range files {
			sc, err := LoadFile(f)
			if err != nil {
				return nil, err
			}
			if err := suite.Add(FromScenario(sc, f)); err != nil {
				return nil, err
			}
		}
	}
	return suite, nil
}
