package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Specs  int               `json:"specs"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one malformed spec.
type ValidationIssue struct {
	Spec    string `json:"spec"`
	Source  string `json:"source,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Check scenarios and spec structure without running tests",
		Long: `Validate loads scenario files, checks every field, step and mode, and
replays each spec against both builders to catch structural errors such
as unbalanced groups or multiple roots.

Faster than run for authoring feedback: nothing is executed.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rootOpts.resolve(cmd); err != nil {
				return err
			}
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	specs, err := loadSpecs(opts, paths, formatter)
	if err != nil {
		return err
	}

	h := opts.harness()
	result := ValidationResult{Valid: true, Specs: len(specs)}
	for _, s := range specs {
		formatter.VerboseLog("Validating spec: %s", s.Name)
		if err := h.Validate(s); err != nil {
			code, _ := describeError(err)
			result.Valid = false
			result.Errors = append(result.Errors, ValidationIssue{
				Spec:    s.Name,
				Source:  s.Source,
				Code:    code,
				Message: err.Error(),
			})
		}
	}

	if !result.Valid {
		if formatter.Format == "json" {
			if err := formatter.Error("VALIDATION_FAILED", "validation failed", result); err != nil {
				return err
			}
		} else {
			w := formatter.Writer
			fmt.Fprintf(w, "✗ %d of %d spec(s) invalid:\n", len(result.Errors), result.Specs)
			for _, issue := range result.Errors {
				fmt.Fprintf(w, "  [%s] %s\n", issue.Code, issue.Message)
			}
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("%d spec(s) invalid", len(result.Errors)))
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("✓ All %d spec(s) valid", result.Specs))
}
