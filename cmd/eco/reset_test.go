package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCmd(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		wantOut   string
		args      []string
		wantCount int
	}{
		{name: "force", args: []string{"--force"}, wantOut: "Removed 2 activities", wantCount: 0},
		{name: "confirmed", stdin: "y\n", wantOut: "Removed 2 activities", wantCount: 0},
		{name: "declined", stdin: "n\n", wantOut: "Reset canceled.", wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnv(t)
			_, err := runCommand(t, addCmd(), "", "transport", "15", "km")
			require.NoError(t, err)
			_, err = runCommand(t, addCmd(), "", "energy", "3", "kwh")
			require.NoError(t, err)

			out, err := runCommand(t, resetCmd(), tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
			assert.Len(t, sessionRecords(t), tt.wantCount)
		})
	}
}

func TestResetCmd_Empty(t *testing.T) {
	setupTestEnv(t)
	_ = sessionRecords(t)

	out, err := runCommand(t, resetCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to reset")
}

func TestResetCmd_LedgerUsableAfterReset(t *testing.T) {
	setupTestEnv(t)
	_, err := runCommand(t, addCmd(), "", "transport", "15", "km")
	require.NoError(t, err)
	_, err = runCommand(t, resetCmd(), "", "--force")
	require.NoError(t, err)

	_, err = runCommand(t, addCmd(), "", "water", "100", "liter")
	require.NoError(t, err)

	records := sessionRecords(t)
	require.Len(t, records, 1)
	assert.InDelta(t, 0.1, records[0].EmissionKg, 1e-9)
}
