package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/assetcare/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                      `json:"valid"`
	Assets  int                       `json:"assets"`
	Sensors int                       `json:"sensors"`
	Errors  []catalog.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fleet-dir|file.cue>",
		Short: "Validate a CUE fleet without evaluating it",
		Long: `Validate CUE fleet definitions.

Performs syntax checking, schema unification and semantic checks
(cycle lengths, lifespans, warning windows, sensor references).
A single .cue file is checked on its own.

Exit codes:
  0 - Fleet is valid
  1 - Fleet has validation errors
  2 - Command error (missing directory, CUE syntax, schema violation)`,
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

	res, err := loadCatalog(path)
	if err != nil {
		return fleetError(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", res.FileCount, path)

	result := ValidationResult{
		Assets:  len(res.Fleet.Assets),
		Sensors: len(res.Fleet.Sensors),
		Errors:  catalog.Validate(res.Fleet),
	}
	result.Valid = len(result.Errors) == 0

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// loadCatalog loads a fleet directory, or a lone .cue file.
func loadCatalog(path string) (*catalog.LoadResult, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || filepath.Ext(path) != ".cue" {
		return catalog.LoadDir(path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &catalog.LoadError{Code: catalog.ErrCodeNotFound, Message: fmt.Sprintf("error reading fleet file: %v", err)}
	}
	return catalog.LoadSource(path, string(src))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Fleet valid (%d assets, %d sensors)\n", result.Assets, result.Sensors)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		if err := formatter.Outcome(result, &CLIError{Code: errs[0].Code, Message: errs[0].Message}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
