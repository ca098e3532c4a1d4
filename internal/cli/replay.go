package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
	"github.com/roach88/assetcare/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Digest   string // optional - specific report only
}

// ReplayReportResult holds the replay result for a single report.
type ReplayReportResult struct {
	Digest         string `json:"digest"`
	RunID          string `json:"run_id"`
	GeneratedAt    string `json:"generated_at"`
	ReplayedDigest string `json:"replayed_digest"`
	Match          bool   `json:"match"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Reports  []ReplayReportResult `json:"reports"`
	Total    int                  `json:"total"`
	AllMatch bool                 `json:"all_match"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-evaluate recorded reports and compare digests",
		Long: `Re-evaluate the snapshot at the instant each recorded report was
generated and compare the digests.

A mismatch means the snapshot or the scoring rules changed since the
report was recorded.

Exit codes:
  0 - Every replayed digest matches
  1 - At least one digest differs
  2 - Command error (database not found, unknown digest, etc.)

Examples:
  assetctl replay --db ./fleet.db
  assetctl replay --db ./fleet.db --digest 46b621b9...
  assetctl replay --db ./fleet.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "replay specific report only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	// Reports to replay
	var reports []*report.EvaluationReport
	if opts.Digest != "" {
		rep, err := readReport(ctx, formatter, st, opts.Digest)
		if err != nil {
			return err
		}
		reports = append(reports, rep)
	} else {
		refs, err := st.ListReports(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list reports", err)
		}
		for _, ref := range refs {
			rep, err := readReport(ctx, formatter, st, ref.Digest)
			if err != nil {
				return err
			}
			reports = append(reports, rep)
		}
	}

	result := ReplayResult{
		Reports:  make([]ReplayReportResult, 0, len(reports)),
		Total:    len(reports),
		AllMatch: true,
	}
	if len(reports) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(formatter, result)
		}
		fmt.Fprintln(formatter.Writer, "No reports recorded.")
		return nil
	}

	fleet, err := st.ReadFleet(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read fleet", err)
	}

	for _, rep := range reports {
		r, err := replayReport(ctx, fleet, rep)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay report %s", rep.Digest), err)
		}
		logger.Debug("report replayed",
			"digest", r.Digest,
			"replayed", r.ReplayedDigest,
			"match", r.Match)

		result.Reports = append(result.Reports, r)
		if !r.Match {
			result.AllMatch = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

// replayReport evaluates fleet at the instant rep was generated and
// compares digests. Run IDs do not enter the digest.
func replayReport(ctx context.Context, fleet *model.Fleet, rep *report.EvaluationReport) (ReplayReportResult, error) {
	at, err := time.Parse(time.RFC3339, rep.GeneratedAt)
	if err != nil {
		return ReplayReportResult{}, fmt.Errorf("generated_at: %w", err)
	}

	res, err := engine.EvaluateFleet(ctx, *fleet, at, engine.BatchOptions{})
	if err != nil {
		return ReplayReportResult{}, err
	}
	replayed, err := report.NewBuilder(fixedRunID(rep.RunID)).Build(res, at)
	if err != nil {
		return ReplayReportResult{}, err
	}

	return ReplayReportResult{
		Digest:         rep.Digest,
		RunID:          rep.RunID,
		GeneratedAt:    rep.GeneratedAt,
		ReplayedDigest: replayed.Digest,
		Match:          replayed.Digest == rep.Digest,
	}, nil
}

// fixedRunID reuses the recorded run ID for a replay.
type fixedRunID string

func (id fixedRunID) Generate() string { return string(id) }

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	var failure *CLIError
	if !result.AllMatch {
		failure = &CLIError{
			Code:    ErrCodeDigestDrift,
			Message: "replayed digest differs from recorded digest",
		}
	}
	if err := formatter.Outcome(result, failure); err != nil {
		return err
	}

	if !result.AllMatch {
		return NewExitError(ExitFailure, "digest drift detected")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(formatter *OutputFormatter, result ReplayResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Replay Summary: %d report(s)\n", result.Total)
	fmt.Fprintln(w)

	for _, r := range result.Reports {
		status := "✓"
		if !r.Match {
			status = "✗"
		}

		fmt.Fprintf(w, "%s %s (%s)\n", status, r.GeneratedAt, r.RunID)
		if formatter.Verbose || !r.Match {
			fmt.Fprintf(w, "  recorded: %s\n", r.Digest)
			fmt.Fprintf(w, "  replayed: %s\n", r.ReplayedDigest)
		}
	}
	fmt.Fprintln(w)

	if result.AllMatch {
		fmt.Fprintln(w, "✓ All reports reproduce")
		return nil
	}

	fmt.Fprintln(w, "✗ Digest drift detected")
	return NewExitError(ExitFailure, "digest drift detected")
}
