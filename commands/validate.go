package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/graphsync/validate"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the local corpus without touching the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(opts)
		},
	}
}

// runValidation runs the conformance gate over the corpus and prints the
// findings. It returns an error when the gate blocks synchronization.
func runValidation(opts *options) error {
	gate := validate.NewGate(validate.NewConventionChecker(), opts.logger)
	report, err := gate.Run(opts.config.Corpus.DataDir)
	if err != nil {
		return err
	}

	showWarnings := opts.config.Validation.ShowWarnings
	warningsAreErrors := opts.config.Validation.WarningsAreErrors
	if output := report.String(); output != "" && (showWarnings || len(report.ViolationFiles()) > 0) {
		fmt.Print(output)
	}
	if report.Failed(warningsAreErrors) {
		return fmt.Errorf("validation failed: %d invalid, %d warning datasets",
			len(report.ViolationFiles()), len(report.WarningFiles()))
	}
	return nil
}
