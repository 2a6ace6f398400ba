// Package plan computes the structure of a spec without running any of it.
//
// A plan is built by replaying a spec.Trace against a Builder that keeps
// group descriptions, test names and test modes, and throws every hook
// action and test body away unread. Nothing a trace registers is ever
// invoked here, which makes planning safe for listing and counting.
package plan

import (
	"github.com/cybernetics/specnaz/internal/spec"
	"github.com/cybernetics/specnaz/internal/tree"
)

// PlannedTest is one test as seen by the planner.
type PlannedTest struct {
	Description string
	Mode        spec.Mode
}

// PlannedGroup is one group as seen by the planner.
type PlannedGroup struct {
	Description string
	Mode        spec.Mode
	Tests       []PlannedTest

	// TestsInSubtree counts Tests plus the tests of every descendant group.
	TestsInSubtree int
}

// Builder is the side-effect-free spec.GroupBuilder.
type Builder struct {
	guard spec.Guard
	open  []*tree.Node[PlannedGroup]
	root  *tree.Node[PlannedGroup]
}

var _ spec.GroupBuilder = (*Builder)(nil)

// NewBuilder creates an empty plan builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BeginGroup implements spec.GroupBuilder.
func (b *Builder) BeginGroup(description string, mode spec.Mode) {
	if !b.guard.Begin(description) {
		return
	}
	node := tree.New(PlannedGroup{Description: description, Mode: mode.Within(b.currentMode())})
	if len(b.open) == 0 {
		b.root = node
	} else {
		b.current().Attach(node)
	}
	b.open = append(b.open, node)
}

// EndGroup implements spec.GroupBuilder. The closing group's subtree count
// is final here because all of its children closed before it.
func (b *Builder) EndGroup() {
	if !b.guard.End() {
		return
	}
	node := b.current()
	count := len(node.Value.Tests)
	for _, child := range node.Children() {
		count += child.Value.TestsInSubtree
	}
	node.Value.TestsInSubtree = count
	b.open = b.open[:len(b.open)-1]
}

// RegisterHook implements spec.GroupBuilder. The action is discarded.
func (b *Builder) RegisterHook(phase spec.Phase, action spec.Action) {
	b.guard.Register(phase.String() + " hook")
}

// RegisterTest implements spec.GroupBuilder. The body is discarded.
func (b *Builder) RegisterTest(description string, mode spec.Mode, body spec.Body) {
	b.addTest(description, mode)
}

// RegisterExpectedFailureTest implements spec.GroupBuilder. The body and
// expectation are discarded.
func (b *Builder) RegisterExpectedFailureTest(description string, mode spec.Mode, expect spec.Expectation, body spec.Body) {
	b.addTest(description, mode)
}

func (b *Builder) addTest(description string, mode spec.Mode) {
	if !b.guard.Register("test " + description) {
		return
	}
	group := &b.current().Value
	group.Tests = append(group.Tests, PlannedTest{
		Description: description,
		Mode:        mode.Within(group.Mode),
	})
}

// Tree returns the completed plan tree, or the first structural error.
func (b *Builder) Tree() (*tree.Node[PlannedGroup], error) {
	if err := b.guard.Finish(); err != nil {
		return nil, err
	}
	return b.root, nil
}

func (b *Builder) current() *tree.Node[PlannedGroup] {
	return b.open[len(b.open)-1]
}

func (b *Builder) currentMode() spec.Mode {
	if len(b.open) == 0 {
		return spec.ModeDefault
	}
	return b.current().Value.Mode
}
