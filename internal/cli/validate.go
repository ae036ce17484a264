package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sceneforge/internal/library"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool            `json:"valid"`
	Errors   []library.Issue `json:"errors,omitempty"`
	Warnings []library.Issue `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document.json>",
		Short: "Check the library of a written scene document",
		Long: `Check the library of a scene document data file.

Reports duplicate asset ids, placements of missing assets, clashing movie
clip names, tween groups for unknown timelines and a missing stage.
Shapes that render identically are reported as warnings.`,
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
	formatter := opts.formatter(cmd)

	m, err := decodeManifest(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("document not found: %s", path), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeDecode, err.Error(), nil)
	}
	formatter.VerboseLog("Checking %d shape(s), %d timeline(s) in %s", len(m.Shapes), len(m.Timelines), path)

	report := library.Check(m)
	result := ValidationResult{
		Valid:    report.OK(),
		Errors:   report.Errors(),
		Warnings: report.Warnings(),
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func decodeManifest(path string) (library.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return library.Manifest{}, err
	}
	defer f.Close()
	return library.Decode(f)
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ Library valid")
	printIssues(formatter, result.Warnings)
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeLibrary, fmt.Sprintf("library check found %d error(s)", len(result.Errors)), result)
		return NewExitError(ExitFailure, fmt.Sprintf("library check found %d error(s)", len(result.Errors)))
	}

	fmt.Fprintf(formatter.Writer, "✗ Library check found %d error(s)\n", len(result.Errors))
	printIssues(formatter, result.Errors)
	printIssues(formatter, result.Warnings)
	return NewExitError(ExitFailure, fmt.Sprintf("library check found %d error(s)", len(result.Errors)))
}

func printIssues(formatter *OutputFormatter, issues []library.Issue) {
	for _, i := range issues {
		fmt.Fprintf(formatter.Writer, "  %s [%s] %s: %s\n", i.Severity, i.Code, i.Field, i.Message)
	}
}
