package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionReverse(t *testing.T) {
	for d, want := range map[Direction]Direction{North: South, South: North, East: West, West: East, Up: Down, Down: Up} {
		got, ok := d.Reverse()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := Direction("warp").Reverse()
	assert.False(t, ok)
	assert.False(t, Direction("warp").Known())
}

func TestSortDirections(t *testing.T) {
	dirs := []Direction{"z", West, Down, "a", North, East, South, Up}
	SortDirections(dirs)
	assert.Equal(t, []Direction{North, South, East, West, Up, Down, "a", "z"}, dirs)
}

func TestEdgeState(t *testing.T) {
	assert.True(t, Unknown.IsUnknown())
	assert.Equal(t, "?", Unknown.String())

	e := ResolvedTo(0)
	to, ok := e.Target()
	assert.True(t, ok)
	assert.Equal(t, RoomID(0), to)
	assert.False(t, e.IsUnknown(), "room 0 is a valid target")
	assert.Equal(t, "0", e.String())
}

func TestRoomMetaMerge(t *testing.T) {
	old := RoomMeta{Title: "Mine", Terrain: "CAVE", Items: []string{"nugget"}, Extra: map[string]any{"a": 1}}
	merged := old.Merge(RoomMeta{Description: "Dark.", Items: []string{}, Extra: map[string]any{"b": 2}})

	assert.Equal(t, "Mine", merged.Title)
	assert.Equal(t, "Dark.", merged.Description)
	assert.Equal(t, "CAVE", merged.Terrain)
	assert.Empty(t, merged.Items)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, merged.Extra)
	assert.Equal(t, map[string]any{"a": 1}, old.Extra, "receiver untouched")

	kept := old.Merge(RoomMeta{})
	assert.Equal(t, []string{"nugget"}, kept.Items)
}

func TestParseRoomID(t *testing.T) {
	id, err := ParseRoomID(" 461 ")
	require.NoError(t, err)
	assert.Equal(t, RoomID(461), id)

	_, err = ParseRoomID("shop")
	require.Error(t, err)
}
