package harness

import (
	"fmt"
	"path"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/notify"
	"github.com/cybernetics/specnaz/internal/spec"
)

// Spec is a named trace: the unit the harness plans and runs.
type Spec struct {
	Name  string
	Trace spec.Trace

	// Source is the file the spec was loaded from, empty for Go specs.
	Source string
}

// FromScenario wraps a loaded scenario as a Spec.
func FromScenario(s *Scenario, source string) Spec {
	return Spec{Name: s.Name, Trace: s.Trace(), Source: source}
}

// Result is the outcome of running one spec.
type Result struct {
	// Spec is the spec name.
	Spec string `json:"spec"`

	// Pass is true when no test failed and no hook failed.
	Pass bool `json:"pass"`

	Summary engine.Summary      `json:"summary"`
	Events  []notify.Event      `json:"events"`
	Tests   []notify.TestRecord `json:"tests"`
}

// Suite is an ordered collection of specs with unique names.
type Suite struct {
	specs []Spec
	names map[string]bool
}

// NewSuite creates an empty suite.
func NewSuite() *Suite {
	return &Suite{names: make(map[string]bool)}
}

// Add appends s. Names must be unique within a suite.
func (su *Suite) Add(s Spec) error {
	if su.names[s.Name] {
		return &ScenarioError{
			Code:    ErrCodeDuplicate,
			Message: fmt.Sprintf("spec %q is already registered", s.Name),
			File:    s.Source,
		}
	}
	su.names[s.Name] = true
	su.specs = append(su.specs, s)
	return nil
}

// Specs returns the specs in registration order.
func (su *Suite) Specs() []Spec {
	return su.specs
}

// Len returns the number of specs.
func (su *Suite) Len() int {
	return len(su.specs)
}

// Filter returns the specs whose name matches the glob pattern (path.Match
// syntax). An empty pattern matches everything.
func (su *Suite) Filter(pattern string) ([]Spec, error) {
	if pattern == "" {
		return su.specs, nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	var matched []Spec
	for _, s := range su.specs {
		if ok, _ := path.Match(pattern, s.Name); ok {
			matched = append(matched, s)
		}
	}
	return matched, nil
}
