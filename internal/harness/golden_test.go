package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The golden file is hand-checked: regenerate with -update only after
// confirming the new numbers.
func TestRunWithGolden_PumpDueSoon(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/pump_due_soon.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}

func TestAssertGolden_ReusesResult(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/pump_due_soon.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "failures: %v", result.Errors)

	require.NoError(t, AssertGolden(t, "pump_due_soon", result.Report))
}
