package hooks

import (
	"fmt"
	"strings"

	"mapwalker/internal/core"
)

// Landmark is a named room worth travelling to
type Landmark struct {
	Name    string
	Room    core.RoomID
	Aliases []string
}

// Landmarks of the treasure hunt world
var Landmarks = []Landmark{
	{Name: "shop", Room: 1, Aliases: []string{"store"}},
	{Name: "peak of mt. holloway", Room: 22, Aliases: []string{"peak", "holloway"}},
	{Name: "wishing well", Room: 55, Aliases: []string{"well"}},
	{Name: "linh's shrine", Room: 461, Aliases: []string{"shrine"}},
	{Name: "pirate ry's", Room: 467, Aliases: []string{"pirate", "name changer"}},
	{Name: "transmogriphier", Room: 495, Aliases: []string{"transmogrifier"}},
	{Name: "glasowyn's grave", Room: 499, Aliases: []string{"grave"}},
}

// WishingWell is the room holding the well
const WishingWell core.RoomID = 55

// LookupRoom accepts a room id or a landmark name or alias
func LookupRoom(s string) (core.RoomID, error) {
	if id, err := core.ParseRoomID(s); err == nil {
		return id, nil
	}
	key := strings.ToLower(strings.TrimSpace(s))
	for _, l := range Landmarks {
		if key == l.Name {
			return l.Room, nil
		}
		for _, alias := range l.Aliases {
			if key == alias {
				return l.Room, nil
			}
		}
	}
	return 0, fmt.Errorf("%q is neither a room id nor a landmark: %w", s, core.ErrUnknownRoom)
}
