package notify

import (
	"context"
	"log/slog"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/spec"
)

// Logging writes every event as a structured log record: entries, exits
// and starts at Debug, finishes at Info, hook failures at Warn.
type Logging struct {
	t      tracker
	logger *slog.Logger
}

var (
	_ engine.Notifier    = (*Logging)(nil)
	_ engine.RunObserver = (*Logging)(nil)
)

// NewLogging creates a Logging notifier.
func NewLogging(logger *slog.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) log(level slog.Level, msg string, e Event, attrs ...any) {
	attrs = append([]any{"seq", e.Seq, "run_id", e.RunID, "path", e.Path}, attrs...)
	l.logger.Log(context.Background(), level, msg, attrs...)
}

func (l *Logging) RunStarted(runID, root string, total int) {
	e := l.t.runStarted(runID, root, total)
	l.log(slog.LevelInfo, "run started", e, "tests", total)
}

func (l *Logging) GroupEntered(description string) {
	l.log(slog.LevelDebug, "group entered", l.t.groupEntered(description))
}

func (l *Logging) GroupExited(description string) {
	l.log(slog.LevelDebug, "group exited", l.t.groupExited(description))
}

func (l *Logging) TestStarted(description string) {
	l.log(slog.LevelDebug, "test started", l.t.testStarted(description))
}

func (l *Logging) TestFinished(description string, result spec.Result) {
	e := l.t.testFinished(description, result.Status.String(), result.Message())
	attrs := []any{"status", e.Status}
	if e.Message != "" {
		attrs = append(attrs, "message", e.Message)
	}
	l.log(slog.LevelInfo, "test finished", e, attrs...)
}

func (l *Logging) HookFailed(group string, phase spec.Phase, err error) {
	e := l.t.hookFailed(group, phase.String(), err.Error())
	l.log(slog.LevelWarn, "hook failed", e, "phase", e.Phase, "error", e.Message)
}

func (l *Logging) RunFinished(s engine.Summary) {
	l.log(slog.LevelInfo, "run finished", l.t.runFinished(s),
		"passed", s.Passed,
		"failed", s.Failed,
		"skipped", s.Skipped,
		"hook_failures", s.HookFailures,
	)
}
