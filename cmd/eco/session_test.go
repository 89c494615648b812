package main

import (
	"testing"

	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCommands(t *testing.T) {
	setupTestEnv(t)

	out, err := runCommand(t, sessionCmd(), "", "start", "commute")
	require.NoError(t, err)
	assert.Contains(t, out, `Session "commute" started`)

	_, err = runCommand(t, sessionCmd(), "", "start", "commute")
	require.ErrorIs(t, err, storage.ErrSessionExists)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)

	out, err = runCommand(t, sessionCmd(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "commute")

	out, err = runCommand(t, sessionCmd(), "", "end", "commute")
	require.NoError(t, err)
	assert.Contains(t, out, `Session "commute" ended`)

	_, err = runCommand(t, sessionCmd(), "", "end", "commute")
	assert.ErrorIs(t, err, storage.ErrSessionMissing)
}

func TestSessionList_Empty(t *testing.T) {
	setupTestEnv(t)

	out, err := runCommand(t, sessionCmd(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions yet")
}

func TestSessionEnd_DiscardsActivities(t *testing.T) {
	setupTestEnv(t)

	_, err := runCommand(t, addCmd(), "", "transport", "15", "km")
	require.NoError(t, err)
	require.Len(t, sessionRecords(t), 1)

	_, err = runCommand(t, sessionCmd(), "", "end")
	require.NoError(t, err)

	assert.Empty(t, sessionRecords(t))
}
