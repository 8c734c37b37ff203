package graph

import (
	"testing"

	"mapwalker/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	s.UpsertRoom(0, dirs(core.North, core.South, core.East), core.RoomMeta{
		Title:       "A brightly lit room",
		Description: "You are standing in the center of a brightly lit room.",
		Coordinates: "(60,60)",
		Items:       []string{"small treasure"},
		Extra:       map[string]any{"players": "none"},
	})
	require.NoError(t, s.ResolveEdge(0, core.North, 10))
	s.UpsertRoom(10, dirs(core.South, core.West), core.RoomMeta{Title: "Mt. Holloway"})
	return s
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := sampleStore(t)
	data, err := s.Snapshot()
	require.NoError(t, err)

	restored := NewStore()
	require.NoError(t, restored.Restore(data))

	assert.Equal(t, s.RoomIDs(), restored.RoomIDs())
	for _, id := range s.RoomIDs() {
		want, _ := s.Room(id)
		got, _ := restored.Room(id)
		assert.Equal(t, want, got)
		assert.Equal(t, s.UnexploredExits(id), restored.UnexploredExits(id))
	}

	again, err := restored.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestRestoreIgnoresUnknownFields(t *testing.T) {
	doc := `{
		"version": 1,
		"written_by": "newer-client",
		"rooms": {
			"0": {"exits": [{"dir": "n", "to": 1, "weight": 3}, {"dir": "e", "to": null}], "meta": {"title": "Start"}, "visits": 4},
			"1": {"exits": [{"dir": "s", "to": 0}], "meta": {}}
		}
	}`
	s := NewStore()
	require.NoError(t, s.Restore([]byte(doc)))

	assert.Equal(t, 2, s.Size())
	assert.Equal(t, dirs(core.East), s.UnexploredExits(0))
	assert.Equal(t, []core.Edge{{Direction: core.South, To: 0}}, s.Neighbors(1))
}

func TestRestoreRejectsAsymmetricSnapshot(t *testing.T) {
	doc := `{"version":1,"rooms":{"0":{"exits":[{"dir":"n","to":1}],"meta":{}},"1":{"exits":[],"meta":{}}}}`
	s := NewStore()
	err := s.Restore([]byte(doc))
	require.ErrorIs(t, err, core.ErrDataInconsistency)
	assert.Equal(t, 0, s.Size())
}

func TestRestoreRejectsNewerVersion(t *testing.T) {
	s := NewStore()
	require.Error(t, s.Restore([]byte(`{"version":99,"rooms":{}}`)))
}

func TestRestoreRejectsDuplicateRooms(t *testing.T) {
	s := NewStore()
	err := s.Restore([]byte(`{"version":1,"rooms":{` +
		`"1":{"exits":[{"dir":"n","to":null}],"meta":{}},` +
		`"01":{"exits":[{"dir":"s","to":null}],"meta":{}}}}`))
	require.ErrorIs(t, err, core.ErrDataInconsistency)
	assert.Zero(t, s.Size())
}

func TestRestoreRejectsDuplicateExits(t *testing.T) {
	s := NewStore()
	err := s.Restore([]byte(`{"version":1,"rooms":{` +
		`"1":{"exits":[{"dir":"n","to":null},{"dir":"n","to":null}],"meta":{}}}}`))
	require.ErrorIs(t, err, core.ErrDataInconsistency)
	assert.Zero(t, s.Size())
}
