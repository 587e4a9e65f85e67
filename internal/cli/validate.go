package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tokenmeta/internal/manifest"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool             `json:"valid"`
	Issues []manifest.Issue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Check a manifest without rendering",
		Long: `Validate a metadata manifest.

Checks the manifest against the schema, then reports keys that do not
fit in 32 bytes, trait lists of mismatched length, unrecognized keys,
values that are not NFC-normalized and documents missing name or
description. Only errors fail validation; warnings are reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m, err := loadManifest(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %s: %d contract, %d default, %d entity sections",
		path, len(m.Contract), len(m.Defaults), len(m.Entities))

	issues := manifest.Lint(m)
	for _, issue := range issues {
		opts.logger().Debug("lint issue", "severity", string(issue.Severity), "path", issue.Path, "message", issue.Message)
	}

	if manifest.HasErrors(issues) {
		return outputValidationIssues(formatter, issues)
	}
	return outputValidateSuccess(formatter, issues)
}

func outputValidateSuccess(formatter *OutputFormatter, issues []manifest.Issue) error {
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Issues: issues})
	}

	var b strings.Builder
	b.WriteString("✓ Manifest is valid")
	for _, issue := range issues {
		fmt.Fprintf(&b, "\n  %s", issue)
	}
	return formatter.Success(b.String())
}

func outputValidationIssues(formatter *OutputFormatter, issues []manifest.Issue) error {
	errCount := 0
	for _, issue := range issues {
		if issue.Severity == manifest.SeverityError {
			errCount++
		}
	}
	message := fmt.Sprintf("%d validation error(s)", errCount)

	if formatter.IsJSON() {
		if err := formatter.Error(ErrCodeLint, message, ValidationResult{Valid: false, Issues: issues}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message).markReported()
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✗ %s\n", message)
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s\n", issue)
	}
	return NewExitError(ExitFailure, message).markReported()
}
