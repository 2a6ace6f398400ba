package spec

import "fmt"

// It is the DSL handle passed to group bodies. It forwards every
// declaration to the underlying GroupBuilder and keeps nesting balanced.
type It struct {
	b GroupBuilder
}

// NewIt wraps b. Most callers use Describes instead.
func NewIt(b GroupBuilder) *It {
	return &It{b: b}
}

// Describes returns a Trace declaring one top-level group.
func Describes(description string, body func(it *It)) Trace {
	return describes(description, ModeDefault, body)
}

// XDescribes returns a Trace whose whole top-level group is ignored.
func XDescribes(description string, body func(it *It)) Trace {
	return describes(description, ModeIgnored, body)
}

// FDescribes returns a Trace whose whole top-level group is focused.
func FDescribes(description string, body func(it *It)) Trace {
	return describes(description, ModeFocused, body)
}

func describes(description string, mode Mode, body func(it *It)) Trace {
	return func(b GroupBuilder) {
		NewIt(b).group(description, mode, body)
	}
}

func (it *It) group(description string, mode Mode, body func(it *It)) {
	it.b.BeginGroup(description, mode)
	body(it)
	it.b.EndGroup()
}

// Describes declares a nested group.
func (it *It) Describes(description string, body func(it *It)) {
	it.group(description, ModeDefault, body)
}

// XDescribes declares a nested group whose tests are all ignored.
func (it *It) XDescribes(description string, body func(it *It)) {
	it.group(description, ModeIgnored, body)
}

// FDescribes declares a nested group whose tests are all focused.
func (it *It) FDescribes(description string, body func(it *It)) {
	it.group(description, ModeFocused, body)
}

// BeginsAll registers a beforeAll hook.
func (it *It) BeginsAll(action Action) {
	it.b.RegisterHook(BeforeAll, action)
}

// BeginsEach registers a beforeEach hook.
func (it *It) BeginsEach(action Action) {
	it.b.RegisterHook(BeforeEach, action)
}

// EndsEach registers an afterEach hook.
func (it *It) EndsEach(action Action) {
	it.b.RegisterHook(AfterEach, action)
}

// EndsAll registers an afterAll hook.
func (it *It) EndsAll(action Action) {
	it.b.RegisterHook(AfterAll, action)
}

// Should declares a plain test.
func (it *It) Should(description string, body Body) {
	it.b.RegisterTest(description, ModeDefault, body)
}

// XShould declares an ignored plain test.
func (it *It) XShould(description string, body Body) {
	it.b.RegisterTest(description, ModeIgnored, body)
}

// FShould declares a focused plain test.
func (it *It) FShould(description string, body Body) {
	it.b.RegisterTest(description, ModeFocused, body)
}

// ShouldThrow declares a test that passes only when body fails as expect
// describes.
func (it *It) ShouldThrow(description string, expect Expectation, body Body) {
	it.b.RegisterExpectedFailureTest(description, ModeDefault, expect, body)
}

// XShouldThrow declares an ignored expected-failure test.
func (it *It) XShouldThrow(description string, expect Expectation, body Body) {
	it.b.RegisterExpectedFailureTest(description, ModeIgnored, expect, body)
}

// FShouldThrow declares a focused expected-failure test.
func (it *It) FShouldThrow(description string, expect Expectation, body Body) {
	it.b.RegisterExpectedFailureTest(description, ModeFocused, expect, body)
}

// ShouldEach declares one plain test per param. Each test is described by
// fmt.Sprintf(format, param).
func ShouldEach[P any](it *It, format string, params []P, body func(P) error) {
	for _, p := range params {
		it.b.RegisterTest(fmt.Sprintf(format, p), ModeDefault, bind(body, p))
	}
}

// ShouldThrowEach declares one expected-failure test per param.
func ShouldThrowEach[P any](it *It, format string, expect Expectation, params []P, body func(P) error) {
	for _, p := range params {
		it.b.RegisterExpectedFailureTest(fmt.Sprintf(format, p), ModeDefault, expect, bind(body, p))
	}
}

func bind[P any](body func(P) error, p P) Body {
	return func() error {
		return body(p)
	}
}
