package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/report"
	"github.com/roach88/assetcare/internal/store"
)

// EvaluateOptions holds flags for the evaluate command.
type EvaluateOptions struct {
	*RootOptions
	Database string
	Workers  int
	Record   bool // store the report in the snapshot database
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvaluateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "evaluate [fleet-dir]",
		Short: "Evaluate every asset and sensor in a fleet",
		Long: `Evaluate a whole fleet: health score, lifespan estimate and maintenance
schedule for every asset, liveness for every sensor.

The fleet is read from a CUE directory, or from a snapshot database with
--db. Assets are evaluated in parallel; an invalid plan or lifespan on
one asset is reported on that asset and does not stop the batch.

Examples:
  assetctl evaluate ./fleet
  assetctl evaluate ./fleet --now 2024-07-10 --format json
  assetctl evaluate --db ./fleet.db --record`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := FleetSource{Database: opts.Database}
			if len(args) == 1 {
				src.Dir = args[0]
			}
			return runEvaluate(opts, src, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "read the fleet from a snapshot database")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel evaluations (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "store the report in the --db snapshot")

	return cmd
}

func runEvaluate(opts *EvaluateOptions, src FleetSource, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	if (src.Dir == "") == (src.Database == "") {
		return NewExitError(ExitCommandError, "exactly one of <fleet-dir> or --db is required")
	}
	if opts.Record && src.Database == "" {
		return NewExitError(ExitCommandError, "--record requires --db")
	}
	if opts.Workers < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--workers must be >= 0, got %d", opts.Workers))
	}

	now, err := opts.evaluationTime()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fleet, err := LoadFleet(ctx, src, logger)
	if err != nil {
		return fleetError(formatter, err)
	}

	logger.Debug("evaluating fleet",
		"source", src.String(),
		"now", now,
		"workers", opts.Workers)
	res, err := engine.EvaluateFleet(ctx, *fleet, now, engine.BatchOptions{Workers: opts.Workers})
	if err != nil {
		return WrapExitError(ExitCommandError, "evaluation cancelled", err)
	}

	rep, err := report.NewBuilder(opts.IDs).Build(res, now)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build report", err)
	}
	logger.Info("fleet evaluated",
		"run_id", rep.RunID,
		"assets", rep.Summary.Assets,
		"invalid", rep.Summary.Invalid,
		"digest", rep.Digest)

	if opts.Record {
		if err := recordReport(ctx, src.Database, rep); err != nil {
			return WrapExitError(ExitCommandError, "failed to record report", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.SuccessRun(rep.RunID, rep)
	}
	return report.WriteText(formatter.Writer, rep)
}

func recordReport(ctx context.Context, path string, rep *report.EvaluationReport) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = st.WriteReport(ctx, rep)
	return err
}
