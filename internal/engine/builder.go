package engine

import (
	"github.com/cybernetics/specnaz/internal/spec"
	"github.com/cybernetics/specnaz/internal/tree"
)

// Hook is a registered hook action. Hooks of one phase run in
// registration order.
type Hook struct {
	Phase  spec.Phase
	Action spec.Action
}

// ExecutableGroup is one group ready to run.
type ExecutableGroup struct {
	Description string
	Mode        spec.Mode

	BeforeAll  []Hook
	BeforeEach []Hook
	AfterEach  []Hook
	AfterAll   []Hook

	Tests []spec.TestCase

	// TestsInSubtree counts Tests plus the tests of every descendant group.
	TestsInSubtree int
}

// hooks returns the group's hook list for phase.
func (g *ExecutableGroup) hooks(phase spec.Phase) []Hook {
	switch phase {
	case spec.BeforeAll:
		return g.BeforeAll
	case spec.BeforeEach:
		return g.BeforeEach
	case spec.AfterEach:
		return g.AfterEach
	case spec.AfterAll:
		return g.AfterAll
	default:
		return nil
	}
}

// Builder is the spec.GroupBuilder that captures hooks and bodies for
// execution. It never invokes them.
type Builder struct {
	guard spec.Guard
	open  []*tree.Node[ExecutableGroup]
	root  *tree.Node[ExecutableGroup]
}

var _ spec.GroupBuilder = (*Builder)(nil)

// NewBuilder creates an empty execution builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BeginGroup implements spec.GroupBuilder.
func (b *Builder) BeginGroup(description string, mode spec.Mode) {
	if !b.guard.Begin(description) {
		return
	}
	parentMode := spec.ModeDefault
	if len(b.open) > 0 {
		parentMode = b.current().Value.Mode
	}
	node := tree.New(ExecutableGroup{Description: description, Mode: mode.Within(parentMode)})
	if len(b.open) == 0 {
		b.root = node
	} else {
		b.current().Attach(node)
	}
	b.open = append(b.open, node)
}

// EndGroup implements spec.GroupBuilder and finalizes the closing group's
// subtree count.
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

// RegisterHook implements spec.GroupBuilder.
func (b *Builder) RegisterHook(phase spec.Phase, action spec.Action) {
	if !b.guard.Register(phase.String() + " hook") {
		return
	}
	g := &b.current().Value
	hook := Hook{Phase: phase, Action: action}
	switch phase {
	case spec.BeforeAll:
		g.BeforeAll = append(g.BeforeAll, hook)
	case spec.BeforeEach:
		g.BeforeEach = append(g.BeforeEach, hook)
	case spec.AfterEach:
		g.AfterEach = append(g.AfterEach, hook)
	case spec.AfterAll:
		g.AfterAll = append(g.AfterAll, hook)
	}
}

// RegisterTest implements spec.GroupBuilder.
func (b *Builder) RegisterTest(description string, mode spec.Mode, body spec.Body) {
	b.addTest(spec.TestCase{Description: description, Mode: mode, Body: body})
}

// RegisterExpectedFailureTest implements spec.GroupBuilder.
func (b *Builder) RegisterExpectedFailureTest(description string, mode spec.Mode, expect spec.Expectation, body spec.Body) {
	b.addTest(spec.TestCase{Description: description, Mode: mode, Body: body, Expect: &expect})
}

func (b *Builder) addTest(tc spec.TestCase) {
	if !b.guard.Register("test " + tc.Description) {
		return
	}
	g := &b.current().Value
	tc.Mode = tc.Mode.Within(g.Mode)
	g.Tests = append(g.Tests, tc)
}

// Tree returns the completed executable tree, or the first structural error.
func (b *Builder) Tree() (*tree.Node[ExecutableGroup], error) {
	if err := b.guard.Finish(); err != nil {
		return nil, err
	}
	return b.root, nil
}

func (b *Builder) current() *tree.Node[ExecutableGroup] {
	return b.open[len(b.open)-1]
}

// Build replays trace against a fresh Builder. A malformed trace yields a
// spec.StructuralError and no tree.
func Build(trace spec.Trace) (*tree.Node[ExecutableGroup], error) {
	b := NewBuilder()
	if err := spec.Replay(trace, b); err != nil {
		return nil, err
	}
	return b.Tree()
}
