package notify

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/spec"
)

// JSONStream writes each event as one line of JSON (NDJSON).
//
// Write errors do not interrupt the run; the first one is kept and
// returned by Err.
type JSONStream struct {
	t   tracker
	enc *json.Encoder
	err error
}

var (
	_ engine.Notifier    = (*JSONStream)(nil)
	_ engine.RunObserver = (*JSONStream)(nil)
)

// NewJSONStream creates a JSONStream writing to w.
func NewJSONStream(w io.Writer) *JSONStream {
	return &JSONStream{enc: json.NewEncoder(w)}
}

// Err returns the first write error, if any.
func (s *JSONStream) Err() error {
	return s.err
}

func (s *JSONStream) emit(e Event) {
	if s.err != nil {
		return
	}
	if err := s.enc.Encode(e); err != nil {
		s.err = fmt.Errorf("write %s event: %w", e.Kind, err)
	}
}

func (s *JSONStream) RunStarted(runID, root string, total int) {
	s.emit(s.t.runStarted(runID, root, total))
}

func (s *JSONStream) GroupEntered(description string) {
	s.emit(s.t.groupEntered(description))
}

func (s *JSONStream) GroupExited(description string) {
	s.emit(s.t.groupExited(description))
}

func (s *JSONStream) TestStarted(description string) {
	s.emit(s.t.testStarted(description))
}

func (s *JSONStream) TestFinished(description string, result spec.Result) {
	s.emit(s.t.testFinished(description, result.Status.String(), result.Message()))
}

func (s *JSONStream) HookFailed(group string, phase spec.Phase, err error) {
	s.emit(s.t.hookFailed(group, phase.String(), err.Error()))
}

func (s *JSONStream) RunFinished(summary engine.Summary) {
	s.emit(s.t.runFinished(summary))
}
