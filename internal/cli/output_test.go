package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, buf *bytes.Buffer) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	return resp
}

func TestOutputFormatter_JSONEnvelopes(t *testing.T) {
	tests := []struct {
		name      string
		write     func(*OutputFormatter) error
		status    string
		runID     string
		errorCode string
	}{
		{
			name:   "success",
			write:  func(f *OutputFormatter) error { return f.Success(map[string]int{"assets": 3}) },
			status: "ok",
		},
		{
			name:   "success with run",
			write:  func(f *OutputFormatter) error { return f.SuccessRun("run-7", map[string]int{"assets": 1}) },
			status: "ok",
			runID:  "run-7",
		},
		{
			name:      "error",
			write:     func(f *OutputFormatter) error { return f.Error(ErrCodeUnknownAsset, `asset "x" not found`, nil) },
			status:    "error",
			errorCode: ErrCodeUnknownAsset,
		},
		{
			name: "outcome failure",
			write: func(f *OutputFormatter) error {
				return f.Outcome(TestResult{Failed: 1, Total: 1}, &CLIError{Code: ErrCodeTestFailed, Message: "1 scenario(s) failed"})
			},
			status:    "error",
			errorCode: ErrCodeTestFailed,
		},
		{
			name:   "outcome success",
			write:  func(f *OutputFormatter) error { return f.Outcome(TestResult{Passed: 1, Total: 1}, nil) },
			status: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, tt.write(&OutputFormatter{Format: "json", Writer: buf}))

			resp := decodeResponse(t, buf)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.runID, resp.RunID)
			if tt.errorCode == "" {
				assert.Nil(t, resp.Error)
				assert.NotNil(t, resp.Data)
			} else {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.errorCode, resp.Error.Code)
			}
		})
	}
}

func TestOutputFormatter_OutcomeIsIndented(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, (&OutputFormatter{Format: "json", Writer: buf}).Outcome(map[string]bool{"valid": true}, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"status\": \"ok\""), buf.String())
}

func TestOutputFormatter_ErrorDetails(t *testing.T) {
	details := map[string]string{"field": "asset.pump-02.plan.cycle_days"}

	buf := &bytes.Buffer{}
	require.NoError(t, (&OutputFormatter{Format: "json", Writer: buf}).Error("INVALID_CYCLE", "cycle must be at least 1 day", details))
	resp := decodeResponse(t, buf)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "cycle must be at least 1 day", resp.Error.Message)
	assert.Equal(t, map[string]any{"field": "asset.pump-02.plan.cycle_days"}, resp.Error.Details)

	buf.Reset()
	require.NoError(t, (&OutputFormatter{Format: "text", Writer: buf}).Error("INVALID_CYCLE", "cycle must be at least 1 day", details))
	assert.Equal(t, "Error [INVALID_CYCLE]: cycle must be at least 1 day\n", buf.String())

	buf.Reset()
	require.NoError(t, (&OutputFormatter{Format: "text", Writer: buf, Verbose: true}).Error("INVALID_CYCLE", "cycle must be at least 1 day", details))
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, (&OutputFormatter{Format: "text", Writer: buf}).Success("3 assets evaluated"))
	assert.Equal(t, "3 assets evaluated\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		errWriter bool
		wantOut   string
		wantErr   string
	}{
		{"disabled", false, true, "", ""},
		{"stderr", true, true, "", "Found 2 CUE file(s)\n"},
		{"falls back to writer", true, false, "Found 2 CUE file(s)\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
			f := &OutputFormatter{Format: "json", Writer: out, Verbose: tt.verbose}
			if tt.errWriter {
				f.ErrWriter = errOut
			}

			f.VerboseLog("Found %d CUE file(s)", 2)
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "drift")))

	wrapped := WrapExitError(ExitCommandError, "failed to open database", errors.New("disk full"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "failed to open database: disk full", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "disk full")
}
