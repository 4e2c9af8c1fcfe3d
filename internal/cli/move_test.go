package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/momentline/internal/storage"
)

func yOf(t *testing.T, store *storage.SQLiteStore, id string) float64 {
	t.Helper()
	m, err := store.GetMoment(context.Background(), id)
	require.NoError(t, err)
	return m.Y
}

func TestMoveCommand_PushesCloseNeighbour(t *testing.T) {
	e, store := testEnv(t)
	a := addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "A", Y: 0})
	b := addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(30 * time.Minute), Title: "B", Y: 100})
	far := addTestMoment(t, store, storage.Moment{Timestamp: testNow.Add(3 * time.Hour), Title: "Far", Y: 100})

	cmd := &MoveCommand{ID: a.ID, Y: "80", globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	assert.Contains(t, output, "Moved "+a.ID+" to y=80.0")
	assert.Contains(t, output, "pushed "+b.ID+" to y=124.0")

	assert.Equal(t, 80.0, yOf(t, store, a.ID))
	// a spans 80..120, so b moves below it with the push margin.
	assert.Equal(t, 124.0, yOf(t, store, b.ID))
	assert.Equal(t, 100.0, yOf(t, store, far.ID), "cards outside the overlap window stay put")
}

func TestMoveCommand_UpwardPush(t *testing.T) {
	e, store := testEnv(t)
	a := addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "A", Y: 200})
	b := addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "B", Y: 100})

	cmd := &MoveCommand{ID: a.ID, Y: "120", globals: &GlobalFlags{}}
	captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	// a now sits below b's top, so b goes above a: 120 - 40 - 4.
	assert.Equal(t, 76.0, yOf(t, store, b.ID))
}

func TestMoveCommand_InvalidY(t *testing.T) {
	e, store := testEnv(t)
	a := addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "A"})

	cmd := &MoveCommand{ID: a.ID, Y: "high", globals: &GlobalFlags{}}
	err := cmd.executeWith(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --y")
}

func TestMoveCommand_NotFound(t *testing.T) {
	e, _ := testEnv(t)

	cmd := &MoveCommand{ID: "MOM-00000000", Y: "10", globals: &GlobalFlags{}}
	err := cmd.executeWith(e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestMoveCommand_JSONReportsResidualOverlap(t *testing.T) {
	e, store := testEnv(t)
	a := addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "A", Y: 0})
	b := addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "B", Y: 44})
	c := addTestMoment(t, store, storage.Moment{Timestamp: testNow, Title: "C", Y: 88})

	// Moving a to 30 pushes b to 74, onto c. The single pass leaves it there.
	cmd := &MoveCommand{ID: a.ID, Y: "30", globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(e))
	})

	var out struct {
		Placements []struct {
			ID string  `json:"id"`
			Y  float64 `json:"y"`
		} `json:"placements"`
		Overlaps [][2]string `json:"overlaps"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &out))

	require.Len(t, out.Placements, 2)
	assert.Equal(t, a.ID, out.Placements[0].ID)
	assert.Equal(t, b.ID, out.Placements[1].ID)
	assert.Equal(t, 74.0, out.Placements[1].Y)

	require.Len(t, out.Overlaps, 1)
	assert.ElementsMatch(t, []string{b.ID, c.ID}, out.Overlaps[0][:])
}
