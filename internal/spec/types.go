package spec

// Phase identifies when a hook runs relative to the tests of its group.
type Phase int

const (
	// BeforeAll hooks run once before the first test of the group's subtree.
	BeforeAll Phase = iota
	// BeforeEach hooks run before every test in the group's subtree.
	BeforeEach
	// AfterEach hooks run after every test in the group's subtree.
	AfterEach
	// AfterAll hooks run once after the group's whole subtree finished.
	AfterAll
)

// Phases lists every phase in declaration order.
var Phases = []Phase{BeforeAll, BeforeEach, AfterEach, AfterAll}

func (p Phase) String() string {
	switch p {
	case BeforeAll:
		return "beforeAll"
	case BeforeEach:
		return "beforeEach"
	case AfterEach:
		return "afterEach"
	case AfterAll:
		return "afterAll"
	default:
		return "unknown"
	}
}

// Action is a hook procedure. A non-nil error (or a panic) is a failure.
type Action func() error

// Body is a test procedure. A non-nil error (or a panic) is a failure.
type Body func() error

// Mode controls whether a test or group is run normally, exclusively
// (focused) or not at all (ignored).
type Mode int

const (
	// ModeDefault runs the test unless focused tests exist elsewhere.
	ModeDefault Mode = iota
	// ModeFocused marks a test that runs while every unfocused test is skipped.
	ModeFocused
	// ModeIgnored marks a test that is reported skipped and never invoked.
	ModeIgnored
)

func (m Mode) String() string {
	switch m {
	case ModeFocused:
		return "focused"
	case ModeIgnored:
		return "ignored"
	default:
		return "default"
	}
}

// Within returns the effective mode of something declared with mode m
// inside a group whose effective mode is parent. Ignored wins over
// focused, and both are inherited by every descendant.
func (m Mode) Within(parent Mode) Mode {
	if m == ModeIgnored || parent == ModeIgnored {
		return ModeIgnored
	}
	if m == ModeFocused || parent == ModeFocused {
		return ModeFocused
	}
	return ModeDefault
}

// TestCase is a single declared test.
//
// Expect is nil for a plain test. For an expected-failure test it holds
// the expectation the body's error must satisfy.
type TestCase struct {
	Description string
	Mode        Mode
	Body        Body
	Expect      *Expectation
}

// ExpectsFailure reports whether the test passes only when its body fails.
func (tc TestCase) ExpectsFailure() bool {
	return tc.Expect != nil
}
