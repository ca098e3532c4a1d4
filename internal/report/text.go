package report

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
)

// WriteText renders a report as aligned columns for terminals.
func WriteText(w io.Writer, rep *EvaluationReport) error {
	fmt.Fprintf(w, "Run %s at %s\n", rep.RunID, rep.GeneratedAt)
	fmt.Fprintf(w, "Assets: %d (invalid %d)  Sensors: %d  Mean health: %.1f\n",
		rep.Summary.Assets, rep.Summary.Invalid, rep.Summary.Sensors, rep.Summary.MeanHealth)
	WriteSummary(w, rep.Summary)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET\tHEALTH\tGRADE\tREMAINING\tNEXT DUE\tSTATUS")
	for _, a := range rep.Assets {
		remaining := "-"
		if a.Lifespan != nil {
			remaining = fmt.Sprintf("%dy (%d%%)", a.Lifespan.RemainingYears, a.Lifespan.RemainingPercent)
		}
		due, status := "-", "-"
		if a.Schedule != nil {
			due, status = a.Schedule.NextDueDate, string(a.Schedule.Status)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\t%s\t%s\n", a.AssetID, a.Health.Composite, a.Grade, remaining, due, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, a := range rep.Assets {
		for _, e := range a.Errors {
			fmt.Fprintf(w, "! %s: %s: %s\n", a.AssetID, e.Code, e.Message)
		}
	}

	if len(rep.Sensors) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SENSOR\tASSET\tLIVENESS")
		for _, s := range rep.Sensors {
			asset := s.AssetID
			if asset == "" {
				asset = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.SensorID, asset, s.Liveness)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\nDigest: %s\n", rep.Digest)
	return nil
}

// sortedKeys returns map keys in order, for stable text output.
func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// WriteSummary renders the summary counts only.
func WriteSummary(w io.Writer, s Summary) {
	for _, g := range sortedKeys(s.Grades) {
		fmt.Fprintf(w, "grade %-10s %d\n", g, s.Grades[g])
	}
	for _, st := range sortedKeys(s.Schedule) {
		fmt.Fprintf(w, "schedule %-8s %d\n", st, s.Schedule[st])
	}
	for _, l := range sortedKeys(s.Liveness) {
		fmt.Fprintf(w, "sensor %-10s %d\n", l, s.Liveness[l])
	}
}
