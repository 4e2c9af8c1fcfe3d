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

func TestListCommand_Empty(t *testing.T) {
	e, _ := testEnv(t)
	cmd := &ListCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e, nil))
	})
	assert.Contains(t, output, "No moments found")
}

func TestListCommand_OldestFirst(t *testing.T) {
	e, store := testEnv(t)
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-1 * time.Hour), Title: "Later"})
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-3 * time.Hour), Title: "Earlier"})

	cmd := &ListCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e, nil))
	})

	assert.Contains(t, output, "Found 2 moments")
	assert.Contains(t, output, "2024-03-15 09:00 · default")
	assert.Less(t, strings.Index(output, "Earlier"), strings.Index(output, "Later"))
}

func TestListCommand_QueryFromArgs(t *testing.T) {
	e, store := testEnv(t)
	addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "Dentist appointment"})
	addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "Lunch", Note: "with the dentist's team"})
	addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "Gym"})

	cmd := &ListCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e, []string{"dentist"}))
	})

	assert.Contains(t, output, `Found 2 moments for "dentist"`)
	assert.NotContains(t, output, "Gym")
}

func TestListCommand_SinceFilter(t *testing.T) {
	e, store := testEnv(t)
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-1 * time.Hour), Title: "Recent"})
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-48 * time.Hour), Title: "Old"})

	cmd := &ListCommand{Since: "24h", globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e, nil))
	})

	assert.Contains(t, output, "Recent")
	assert.NotContains(t, output, "Old")
}

func TestListCommand_UntilFilter(t *testing.T) {
	e, store := testEnv(t)
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-1 * time.Hour), Title: "Recent"})
	addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(-48 * time.Hour), Title: "Old"})

	cmd := &ListCommand{Until: "1d", globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e, nil))
	})

	assert.Contains(t, output, "Old")
	assert.NotContains(t, output, "Recent")
}

func TestListCommand_InvalidSince(t *testing.T) {
	e, _ := testEnv(t)
	cmd := &ListCommand{Since: "soon", globals: &GlobalFlags{}}

	err := cmd.executeWith(e, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --since")
}

func TestListCommand_TimelineAndJSON(t *testing.T) {
	e, store := testEnv(t)
	end := testNow.Add(time.Hour)
	addTestMoment(t, store, storage.Moment{TimelineID: "work", Timestamp: testNow, EndTime: &end, Title: "Meeting", Y: 50})
	addTestMoment(t, store, storage.Moment{TimelineID: "home", Timestamp: testNow, Title: "Dinner"})

	cmd := &ListCommand{Timeline: "work", globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e, nil))
	})

	var out jsonListOutput
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.Equal(t, 1, out.Count)
	r := out.Results[0]
	assert.Equal(t, "Meeting", r.Title)
	assert.Equal(t, "work", r.Timeline)
	assert.Equal(t, "2024-03-15T13:00:00Z", r.End)
	assert.Equal(t, 50.0, r.Y)
}

func TestListCommand_Pagination(t *testing.T) {
	e, store := testEnv(t)
	for i := 0; i < 5; i++ {
		addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(time.Duration(i) * time.Minute), Title: "m"})
	}

	cmd := &ListCommand{Limit: 2, Offset: 3, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e, nil))
	})

	var out jsonListOutput
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "2024-03-15T12:03:00Z", out.Results[0].Timestamp)
}
