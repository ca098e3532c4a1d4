package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/assetcare/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportResult holds import results.
type ImportResult struct {
	Database    string `json:"database"`
	Assets      int    `json:"assets"`
	Sensors     int    `json:"sensors"`
	Maintenance int    `json:"maintenance_records"`
	Incidents   int    `json:"incidents"`
	Plans       int    `json:"plans"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <fleet-dir>",
		Short: "Write a CUE fleet into a SQLite snapshot",
		Long: `Load and validate a CUE fleet, then write it into a SQLite snapshot
database. Re-importing replaces each asset's history, incidents and plan;
assets and sensors missing from the new fleet are kept.

Examples:
  assetctl import ./fleet --db ./fleet.db
  assetctl evaluate --db ./fleet.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, fleetDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fleet, err := LoadFleet(ctx, FleetSource{Dir: fleetDir}, logger)
	if err != nil {
		return fleetError(formatter, err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if err := st.WriteFleet(ctx, fleet); err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write fleet", err)
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count rows", err)
	}
	logger.Info("fleet imported",
		"db", opts.Database,
		"assets", counts.Assets,
		"sensors", counts.Sensors)

	result := ImportResult{
		Database:    opts.Database,
		Assets:      counts.Assets,
		Sensors:     counts.Sensors,
		Maintenance: counts.Maintenance,
		Incidents:   counts.Incidents,
		Plans:       counts.Plans,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Imported %d assets, %d sensors into %s\n",
		len(fleet.Assets), len(fleet.Sensors), opts.Database)
	formatter.VerboseLog("Snapshot now holds %d assets, %d maintenance records, %d incidents, %d plans, %d sensors",
		counts.Assets, counts.Maintenance, counts.Incidents, counts.Plans, counts.Sensors)
	return nil
}
