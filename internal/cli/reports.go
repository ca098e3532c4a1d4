package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/assetcare/internal/report"
	"github.com/roach88/assetcare/internal/store"
)

// ReportsOptions holds flags for the reports command.
type ReportsOptions struct {
	*RootOptions
	Database string
	Digest   string // optional - show one report in full
}

// NewReportsCommand creates the reports command.
func NewReportsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List or show reports recorded in a snapshot",
		Long: `List the evaluation reports recorded with 'evaluate --record', or show
one in full with --digest.

Examples:
  assetctl reports --db ./fleet.db
  assetctl reports --db ./fleet.db --digest 46b621b9...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReports(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "show the report with this digest")

	return cmd
}

func runReports(opts *ReportsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

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

	if opts.Digest != "" {
		rep, err := readReport(ctx, formatter, st, opts.Digest)
		if err != nil {
			return err
		}
		if formatter.Format == "json" {
			return formatter.SuccessRun(rep.RunID, rep)
		}
		return report.WriteText(formatter.Writer, rep)
	}

	refs, err := st.ListReports(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list reports", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(refs)
	}
	if len(refs) == 0 {
		fmt.Fprintln(formatter.Writer, "No reports recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GENERATED AT\tRUN\tDIGEST")
	for _, r := range refs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.GeneratedAt, r.RunID, r.Digest)
	}
	return tw.Flush()
}

// readReport loads one recorded report, reporting an unknown digest as a
// command error.
func readReport(ctx context.Context, formatter *OutputFormatter, st *store.Store, digest string) (*report.EvaluationReport, error) {
	rep, err := st.ReadReport(ctx, digest)
	if errors.Is(err, store.ErrNotFound) {
		msg := fmt.Sprintf("no report with digest %s", digest)
		_ = formatter.Error(ErrCodeStore, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read report", err)
	}
	return rep, nil
}
