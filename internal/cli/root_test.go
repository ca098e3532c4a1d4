package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/assetcare/internal/testutil"
)

// fleetDir is the shared CUE fleet: pump-01 with a 180-day plan and the
// vib-01 sensor. At 2024-07-10 its maintenance is due in three days.
var fleetDir = filepath.Join("..", "..", "testdata", "fleet")

// fleetDigest is the report digest of fleetDir evaluated at 2024-07-10.
const fleetDigest = "46b621b9d2e589c1f3b0992f3f38cdc8617fddceed768eaa6e1f3750b40e1335"

// testOptions returns root options with a fixed clock and run ID.
func testOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		Clock:  testutil.NewFixedClock(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)),
		IDs:    testutil.NewFixedIDGenerator("run-1"),
	}
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "assetctl", cmd.Use)
	assert.Contains(t, cmd.Long, "preventive maintenance")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"validate", "evaluate", "health", "lifespan", "schedule", "project",
		"liveness", "import", "reports", "replay", "test",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	nowFlag := cmd.PersistentFlags().Lookup("now")
	require.NotNil(t, nowFlag)
	assert.Equal(t, "", nowFlag.DefValue)
}

func TestDatabaseFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"evaluate", "health", "lifespan", "schedule", "project", "liveness", "import", "reports", "replay"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			dbFlag := sub.Flags().Lookup("db")
			require.NotNil(t, dbFlag)
			assert.Equal(t, "", dbFlag.DefValue)
		})
	}
}

func TestEvaluateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	evalCmd, _, err := cmd.Find([]string{"evaluate"})
	require.NoError(t, err)

	workersFlag := evalCmd.Flags().Lookup("workers")
	require.NotNil(t, workersFlag)
	assert.Equal(t, "0", workersFlag.DefValue)

	recordFlag := evalCmd.Flags().Lookup("record")
	require.NotNil(t, recordFlag)
	assert.Equal(t, "false", recordFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, _, err := execute(NewRootCommand(), "--format", "invalid", "validate", fleetDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestNowValidationIntegration(t *testing.T) {
	_, _, err := execute(NewRootCommand(), "--now", "yesterday", "evaluate", fleetDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --now")
}

func TestRootCommand_NowFlag(t *testing.T) {
	out, _, err := execute(NewRootCommand(), "--now", "2024-07-10", "schedule", fleetDir, "pump-01")
	require.NoError(t, err)
	assert.Contains(t, out, "next due 2024-07-13 (due_soon, 3 days)")
}

func TestEvaluationTime(t *testing.T) {
	opts := testOptions("text")
	now, err := opts.evaluationTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), now)

	opts.Now = "2025-01-02T03:04:05+02:00"
	now, err = opts.evaluationTime()
	require.NoError(t, err)
	assert.True(t, now.Equal(time.Date(2025, 1, 2, 1, 4, 5, 0, time.UTC)))

	opts.Now = "not a time"
	_, err = opts.evaluationTime()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLogger_VerboseEnablesDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	(&RootOptions{}).logger(buf).Debug("hidden")
	assert.Empty(t, buf.String())

	(&RootOptions{Verbose: true}).logger(buf).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "k=v")
}
