package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cybernetics/specnaz/internal/harness"
	"github.com/cybernetics/specnaz/internal/plan"
	"github.com/cybernetics/specnaz/internal/spec"
	"github.com/cybernetics/specnaz/internal/tree"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Filter string
}

// SpecPlan is the JSON form of one planned spec.
type SpecPlan struct {
	Spec        string       `json:"spec"`
	Source      string       `json:"source,omitempty"`
	Root        string       `json:"root"`
	Tests       int          `json:"tests"`
	Focused     bool         `json:"focused"`
	Fingerprint string       `json:"fingerprint"`
	Entries     []plan.Entry `json:"entries"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <path>...",
		Short: "List the tests a spec would run, without running them",
		Long: `Plan loads scenario files and prints the tree of groups and tests each
spec declares, with test counts, modes and a structural fingerprint.

Planning never executes a hook or a test body.

Example:
  specnaz plan ./specs
  specnaz plan --format json ./specs/arithmetic.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}
			return runPlan(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only plan specs whose name matches this glob")

	return cmd
}

func runPlan(opts *PlanOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	specs, err := loadSpecs(opts.RootOptions, paths, formatter)
	if err != nil {
		return err
	}

	h := opts.harness()
	var plans []SpecPlan
	var text strings.Builder
	for _, s := range specs {
		p, err := h.Plan(s)
		if err != nil {
			return formatter.Fail(ExitCommandError, "spec "+s.Name+" is malformed", err)
		}
		plans = append(plans, SpecPlan{
			Spec:        s.Name,
			Source:      s.Source,
			Root:        p.Description(),
			Tests:       p.Count(),
			Focused:     p.HasFocused(),
			Fingerprint: p.Fingerprint(),
			Entries:     p.Entries(),
		})
		writePlanText(&text, s, p)
	}

	if formatter.Format == "json" {
		return formatter.Success(plans)
	}
	return formatter.Success(strings.TrimRight(text.String(), "\n"))
}

// writePlanText renders p as an indented tree.
func writePlanText(sb *strings.Builder, s harness.Spec, p *plan.Plan) {
	fmt.Fprintf(sb, "%s (%d tests, fingerprint %s)\n", s.Name, p.Count(), p.Fingerprint()[:12])
	p.Root.Walk(func(node *tree.Node[plan.PlannedGroup], depth int) bool {
		g := node.Value
		indent := strings.Repeat("  ", depth+1)
		fmt.Fprintf(sb, "%s%s [%d]%s\n", indent, g.Description, g.TestsInSubtree, modeSuffix(g.Mode))
		for _, t := range g.Tests {
			fmt.Fprintf(sb, "%s  - %s%s\n", indent, t.Description, modeSuffix(t.Mode))
		}
		return true
	})
}

func modeSuffix(m spec.Mode) string {
	if m == spec.ModeDefault {
		return ""
	}
	return " (" + m.String() + ")"
}

// loadSpecs loads paths into a suite and applies the configured filter.
// Load failures are reported through formatter.
func loadSpecs(opts *RootOptions, paths []string, formatter *OutputFormatter) ([]harness.Spec, error) {
	suite, err := harness.LoadSuite(paths...)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, "failed to load scenarios", err)
	}
	formatter.VerboseLog("Loaded %d spec(s) from %s", suite.Len(), strings.Join(paths, ", "))

	specs, err := suite.Filter(opts.config.Run.Filter)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, "failed to filter specs", err)
	}
	if len(specs) == 0 {
		return nil, formatter.Fail(ExitCommandError, "no specs to run", fmt.Errorf("no spec matches %q", opts.config.Run.Filter))
	}
	return specs, nil
}
