package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Now     string // evaluation instant override, RFC 3339 or YYYY-MM-DD

	// Clock supplies the evaluation instant when --now is not set.
	// If nil, defaults to engine.SystemClock.
	Clock engine.Clock

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to report.UUIDv7Generator.
	IDs report.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the assetctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "assetctl",
		Short: "assetctl - asset health and preventive maintenance",
		Long: `Score infrastructure asset health, estimate remaining service life,
schedule preventive maintenance and classify sensor liveness.

Fleets are declared in CUE or read from a SQLite snapshot.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Now != "" {
				if _, err := model.ParseTime(opts.Now); err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Now, "now", "", "evaluate as of this instant (RFC 3339 or YYYY-MM-DD)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewEvaluateCommand(opts))
	cmd.AddCommand(NewHealthCommand(opts))
	cmd.AddCommand(NewLifespanCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewLivenessCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewReportsCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// evaluationTime returns --now if set, else the clock's time.
func (o *RootOptions) evaluationTime() (time.Time, error) {
	if o.Now != "" {
		t, err := model.ParseTime(o.Now)
		if err != nil {
			return time.Time{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid --now: %v", err))
		}
		return t, nil
	}
	clock := o.Clock
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return clock.Now().UTC(), nil
}

// logger returns a text logger on w. Debug records are only emitted with
// --verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
