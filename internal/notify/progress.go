package notify

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/spec"
)

// Progress drives a progress bar sized from the run's test count. Combine
// it with another reporter through Tee; it renders nothing else.
type Progress struct {
	engine.NopNotifier

	w      io.Writer
	bar    *progressbar.ProgressBar
	passed int
	failed int
}

var _ engine.RunObserver = (*Progress)(nil)

// NewProgress creates a Progress writing to w, usually os.Stderr.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Counts returns the passed and failed tests seen so far.
func (p *Progress) Counts() (passed, failed int) {
	return p.passed, p.failed
}

func (p *Progress) RunStarted(_ string, root string, total int) {
	p.passed, p.failed = 0, 0
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describe(root, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *Progress) TestFinished(_ string, result spec.Result) {
	switch result.Status {
	case spec.StatusPassed:
		p.passed++
	case spec.StatusFailed:
		p.failed++
	}
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *Progress) RunFinished(s engine.Summary) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(describe(s.Root, p.passed, p.failed))
	_ = p.bar.Finish()
}

func describe(root string, passed, failed int) string {
	return color.CyanString("%s: ", root) +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}
