package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/assetcare/internal/report"
)

// RunWithGolden executes a scenario and compares its report against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match the golden
// file or an assertion fails.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario.Name, result.Report)
}

// AssertGolden compares a report's canonical JSON against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, name string, rep *report.EvaluationReport) error {
	t.Helper()

	data, err := report.MarshalCanonical(rep)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
