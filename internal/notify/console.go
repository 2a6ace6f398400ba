package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/spec"
)

const indent = "  "

// Console prints the run as an indented tree, one line per group and test:
//
//	arithmetic operations
//	  ✓ add two numbers correctly
//	  ✗ divide
//	      expected *harness.ArithmeticError, nothing was thrown
//	  - ignored (ignored)
type Console struct {
	w     io.Writer
	depth int

	pass  *color.Color
	fail  *color.Color
	skip  *color.Color
	warn  *color.Color
	group *color.Color
}

var (
	_ engine.Notifier    = (*Console)(nil)
	_ engine.RunObserver = (*Console)(nil)
)

// NewConsole creates a Console writing to w. With colored false no escape
// codes are written; otherwise color follows fatih/color's terminal
// detection.
func NewConsole(w io.Writer, colored bool) *Console {
	c := &Console{
		w:     w,
		pass:  color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		skip:  color.New(color.FgYellow),
		warn:  color.New(color.FgMagenta),
		group: color.New(color.Bold),
	}
	if !colored {
		for _, col := range []*color.Color{c.pass, c.fail, c.skip, c.warn, c.group} {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) prefix() string {
	return strings.Repeat(indent, c.depth)
}

func (c *Console) RunStarted(string, string, int) {
	c.depth = 0
}

func (c *Console) GroupEntered(description string) {
	c.group.Fprintf(c.w, "%s%s\n", c.prefix(), description)
	c.depth++
}

func (c *Console) GroupExited(string) {
	if c.depth > 0 {
		c.depth--
	}
}

func (c *Console) TestStarted(string) {}

func (c *Console) TestFinished(description string, result spec.Result) {
	switch result.Status {
	case spec.StatusPassed:
		c.pass.Fprintf(c.w, "%s✓ %s\n", c.prefix(), description)
	case spec.StatusSkipped:
		c.skip.Fprintf(c.w, "%s- %s (%s)\n", c.prefix(), description, result.Reason)
	default:
		c.fail.Fprintf(c.w, "%s✗ %s\n", c.prefix(), description)
		if msg := result.Message(); msg != "" {
			fmt.Fprintf(c.w, "%s%s%s%s\n", c.prefix(), indent, indent, msg)
		}
	}
}

func (c *Console) HookFailed(group string, phase spec.Phase, err error) {
	c.warn.Fprintf(c.w, "%s! %s hook of %q failed: %v\n", c.prefix(), phase, group, err)
}

func (c *Console) RunFinished(s engine.Summary) {
	line := fmt.Sprintf("%d tests: %d passed, %d failed, %d skipped", s.Total, s.Passed, s.Failed, s.Skipped)
	if s.HookFailures > 0 {
		line += fmt.Sprintf(", %d hook failures", s.HookFailures)
	}
	fmt.Fprintln(c.w)
	if s.OK() {
		c.pass.Fprintln(c.w, line)
	} else {
		c.fail.Fprintln(c.w, line)
	}
}
