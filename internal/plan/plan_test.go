package plan

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybernetics/specnaz/internal/spec"
	"github.com/cybernetics/specnaz/internal/tree"
)

type arithmeticError struct{ msg string }

func (e *arithmeticError) Error() string { return e.msg }

// arithmeticTrace mirrors the nested arithmetic spec: hooks at three
// levels and a trailing subgroup without tests. calls counts every hook
// and body invocation.
func arithmeticTrace(calls *int) spec.Trace {
	return spec.Describes("arithmetic operations", func(it *spec.It) {
		two := -2
		touch := func(delta int) spec.Action {
			return func() error {
				*calls++
				two += delta
				return nil
			}
		}

		it.BeginsAll(touch(2))
		it.BeginsEach(touch(1))
		it.BeginsEach(touch(1))
		it.EndsEach(touch(-1))
		it.EndsEach(touch(-1))
		it.EndsAll(touch(-2))

		it.Should("add two numbers correctly", func() error { *calls++; return nil })
		it.Should("subtract two numbers correctly", func() error { *calls++; return nil })
		it.ShouldThrow("when dividing by zero",
			spec.Throws[*arithmeticError]().WithMessage("/ by zero").WithoutCause(),
			func() error { *calls++; return nil })

		it.Describes("with a subgroup", func(it *spec.It) {
			it.BeginsAll(touch(3))
			it.EndsAll(touch(-3))
			it.Should("run all parent 'before' callbacks", func() error { *calls++; return nil })

			it.Describes("and a third-degree subgroup", func(it *spec.It) {
				it.BeginsEach(touch(4))
				it.EndsEach(touch(-4))
				it.Should("run all ancestors 'before' callbacks", func() error { *calls++; return nil })

				it.Describes("with a subgroup without tests", func(it *spec.It) {})
			})
		})
	})
}

type shape struct {
	Description string
	Mode        spec.Mode
	Tests       []PlannedTest
	Count       int
	Children    []shape
}

func shapeOf(node *tree.Node[PlannedGroup]) shape {
	s := shape{
		Description: node.Value.Description,
		Mode:        node.Value.Mode,
		Tests:       node.Value.Tests,
		Count:       node.Value.TestsInSubtree,
	}
	for _, child := range node.Children() {
		s.Children = append(s.Children, shapeOf(child))
	}
	return s
}

func TestBuild_IdempotentPlanning(t *testing.T) {
	calls := 0
	trace := arithmeticTrace(&calls)

	first, err := Build(trace)
	require.NoError(t, err)
	second, err := Build(trace)
	require.NoError(t, err)

	if diff := cmp.Diff(shapeOf(first.Root), shapeOf(second.Root)); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestBuild_NeverInvokesHooksOrBodies(t *testing.T) {
	calls := 0

	p, err := Build(arithmeticTrace(&calls))
	require.NoError(t, err)

	assert.Equal(t, 5, p.Count())
	assert.Zero(t, calls)
}

func TestBuild_CountsBottomUp(t *testing.T) {
	calls := 0
	p, err := Build(arithmeticTrace(&calls))
	require.NoError(t, err)

	p.Root.Walk(func(node *tree.Node[PlannedGroup], _ int) bool {
		sum := len(node.Value.Tests)
		for _, child := range node.Children() {
			sum += child.Value.TestsInSubtree
		}
		assert.Equal(t, sum, node.Value.TestsInSubtree, node.Value.Description)
		return true
	})

	sub := p.Root.Children()[0]
	third := sub.Children()[0]
	empty := third.Children()[0]
	assert.Equal(t, 2, sub.Value.TestsInSubtree)
	assert.Equal(t, 1, third.Value.TestsInSubtree)
	assert.Equal(t, 0, empty.Value.TestsInSubtree)
}

func TestEntries_DeclarationOrder(t *testing.T) {
	calls := 0
	p, err := Build(arithmeticTrace(&calls))
	require.NoError(t, err)

	var ids []string
	for _, e := range p.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{
		"arithmetic operations / add two numbers correctly",
		"arithmetic operations / subtract two numbers correctly",
		"arithmetic operations / when dividing by zero",
		"arithmetic operations / with a subgroup / run all parent 'before' callbacks",
		"arithmetic operations / with a subgroup / and a third-degree subgroup / run all ancestors 'before' callbacks",
	}, ids)
	assert.Equal(t, []string{"arithmetic operations", "with a subgroup"}, p.Entries()[3].Path)
}

func TestBuild_ModesPropagate(t *testing.T) {
	trace := spec.Describes("root", func(it *spec.It) {
		it.Should("plain", nil)
		it.XDescribes("ignored group", func(it *spec.It) {
			it.FShould("focused but ignored", nil)
		})
		it.FDescribes("focused group", func(it *spec.It) {
			it.Should("inherits focus", nil)
			it.XShould("still ignored", nil)
		})
	})

	p, err := Build(trace)
	require.NoError(t, err)

	modes := map[string]string{}
	for _, e := range p.Entries() {
		modes[e.Description] = e.Mode
	}
	assert.Equal(t, map[string]string{
		"plain":               "default",
		"focused but ignored": "ignored",
		"inherits focus":      "focused",
		"still ignored":       "ignored",
	}, modes)
	assert.True(t, p.HasFocused())
}

func TestHasFocused_FalseWithoutFocus(t *testing.T) {
	calls := 0
	p, err := Build(arithmeticTrace(&calls))
	require.NoError(t, err)
	assert.False(t, p.HasFocused())
}

func TestFingerprint_SensitiveToStructure(t *testing.T) {
	a, err := Build(spec.Describes("root", func(it *spec.It) {
		it.Should("one", nil)
	}))
	require.NoError(t, err)
	b, err := Build(spec.Describes("root", func(it *spec.It) {
		it.Describes("nested", func(it *spec.It) {
			it.Should("one", nil)
		})
	}))
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestFingerprint_DescriptionsCannotForgeStructure(t *testing.T) {
	nested, err := Build(spec.Describes("r", func(it *spec.It) {
		it.Should("x", nil)
		it.Describes("g", func(it *spec.It) {
			it.Should("0", nil)
		})
	}))
	require.NoError(t, err)

	// A lone empty group whose description spells out the nested plan's
	// fields with the same separators.
	forged, err := Build(spec.Describes(
		"r\x002\x00default\nT0\x00x\x00default\nG1\x00g\x001\x00default\nT1",
		func(it *spec.It) {},
	))
	require.NoError(t, err)

	assert.NotEqual(t, nested.Fingerprint(), forged.Fingerprint())
}

func TestTestID_NormalizesUnicode(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	assert.Equal(t, TestID([]string{composed}, "x"), TestID([]string{decomposed}, "x"))
}

func TestBuild_StructuralErrorYieldsNoPlan(t *testing.T) {
	p, err := Build(func(b spec.GroupBuilder) {
		b.BeginGroup("root", spec.ModeDefault)
		b.RegisterTest("t", spec.ModeDefault, nil)
	})

	assert.Nil(t, p)
	var se *spec.StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, spec.ErrCodeUnclosedGroup, se.Code)
}
