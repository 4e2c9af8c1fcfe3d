package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/momentline/internal/storage"
)

func seedAges(t *testing.T, store *storage.SQLiteStore) {
	t.Helper()
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-400 * 24 * time.Hour), Title: "Ancient"})
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-10 * 24 * time.Hour), Title: "Recent"})
	addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "Today"})
}

func TestPruneCommand_DryRun(t *testing.T) {
	e, store := testEnv(t)
	seedAges(t, store)

	cmd := &PruneCommand{DryRun: true, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	assert.Contains(t, output, "Would prune 1 moment(s) older than 365 days")
	assert.Len(t, listAll(t, store), 3, "dry run must not delete")
}

func TestPruneCommand_ForceUsesRetention(t *testing.T) {
	e, store := testEnv(t)
	seedAges(t, store)

	cmd := &PruneCommand{Force: true, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	assert.Contains(t, output, "Pruned 1 moment(s)")
	remaining := listAll(t, store)
	require.Len(t, remaining, 2)
	assert.Equal(t, "Recent", remaining[0].Title)
}

func TestPruneCommand_OlderThanOverride(t *testing.T) {
	e, store := testEnv(t)
	seedAges(t, store)

	cmd := &PruneCommand{OlderThan: "7d", Force: true, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, float64(2), out["pruned"])
	assert.Equal(t, "2024-03-08T12:00:00Z", out["cutoff"])
	assert.Len(t, listAll(t, store), 1)
}

func TestPruneCommand_CutoffIsExclusive(t *testing.T) {
	e, store := testEnv(t)
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-7 * 24 * time.Hour), Title: "Exactly a week"})

	cmd := &PruneCommand{OlderThan: "7d", DryRun: true, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, float64(0), out["count"])
}

func TestPruneCommand_ConfirmYes(t *testing.T) {
	e, store := testEnv(t)
	seedAges(t, store)

	cmd := &PruneCommand{globals: &GlobalFlags{}, stdin: strings.NewReader("yes\n")}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	assert.Contains(t, output, "Delete 1 moment(s) older than 365 days? [y/N]")
	assert.Len(t, listAll(t, store), 2)
}

func TestPruneCommand_ConfirmNo(t *testing.T) {
	e, store := testEnv(t)
	seedAges(t, store)

	cmd := &PruneCommand{globals: &GlobalFlags{}, stdin: strings.NewReader("n\n")}
	var err error
	captureOutput(t, func() {
		err = cmd.executeWith(e)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "aborted")
	assert.Len(t, listAll(t, store), 3)
}

func TestPruneCommand_NothingToPrune(t *testing.T) {
	e, store := testEnv(t)
	addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "Today"})

	cmd := &PruneCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})
	assert.Contains(t, output, "Nothing to prune.")
}

func TestPruneCommand_RetentionDisabled(t *testing.T) {
	e, store := testEnv(t)
	seedAges(t, store)
	e.cfg.Retention.Days = 0

	cmd := &PruneCommand{Force: true, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	assert.Contains(t, output, "Retention is disabled")
	assert.Len(t, listAll(t, store), 3)
}

func TestPruneCommand_InvalidOlderThan(t *testing.T) {
	e, _ := testEnv(t)

	cmd := &PruneCommand{OlderThan: "forever", globals: &GlobalFlags{}}
	err := cmd.executeWith(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --older-than")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30d", 30 * 24 * time.Hour},
		{"24h", 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"90m", 90 * time.Minute},
		{"0d", 0},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "d", "7", "7y", "-3d", "abc"} {
		_, err := parseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatDurationHuman(t *testing.T) {
	assert.Equal(t, "1 day", formatDurationHuman(24*time.Hour))
	assert.Equal(t, "30 days", formatDurationHuman(30*24*time.Hour))
	assert.Equal(t, "5 hours", formatDurationHuman(5*time.Hour))
	assert.Equal(t, "1 hour", formatDurationHuman(time.Hour))
	assert.Equal(t, "30m0s", formatDurationHuman(30*time.Minute))
}
