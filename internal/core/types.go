package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RoomID identifies a room on the remote server
type RoomID int

func (id RoomID) String() string {
	return strconv.Itoa(int(id))
}

// ParseRoomID parses a decimal room id
func ParseRoomID(s string) (RoomID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid room id %q: %w", s, err)
	}
	return RoomID(n), nil
}

// Direction is an exit token as reported by the server
type Direction string

const (
	North Direction = "n"
	South Direction = "s"
	East  Direction = "e"
	West  Direction = "w"
	Up    Direction = "u"
	Down  Direction = "d"
)

var reverseDirection = map[Direction]Direction{
	North: South,
	South: North,
	East:  West,
	West:  East,
	Up:    Down,
	Down:  Up,
}

// directionPriority fixes the expansion order used for tie-breaking
var directionPriority = map[Direction]int{
	North: 0,
	South: 1,
	East:  2,
	West:  3,
	Up:    4,
	Down:  5,
}

// Reverse returns the direction leading back through the same exit
func (d Direction) Reverse() (Direction, bool) {
	r, ok := reverseDirection[d]
	return r, ok
}

// Known reports whether the direction has a defined reverse
func (d Direction) Known() bool {
	_, ok := reverseDirection[d]
	return ok
}

// SortDirections orders directions by the fixed priority n, s, e, w, u, d;
// unrecognised tokens follow in lexical order.
func SortDirections(dirs []Direction) {
	sort.SliceStable(dirs, func(i, j int) bool {
		pi, iok := directionPriority[dirs[i]]
		pj, jok := directionPriority[dirs[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return dirs[i] < dirs[j]
		}
	})
}

// EdgeState is either Unknown or resolved to a target room
type EdgeState struct {
	target   RoomID
	resolved bool
}

// Unknown marks an exit that exists but has not been traversed yet
var Unknown = EdgeState{}

// ResolvedTo marks an exit whose destination is known
func ResolvedTo(id RoomID) EdgeState {
	return EdgeState{target: id, resolved: true}
}

// Target returns the destination room and whether the edge is resolved
func (e EdgeState) Target() (RoomID, bool) {
	return e.target, e.resolved
}

func (e EdgeState) IsUnknown() bool {
	return !e.resolved
}

func (e EdgeState) String() string {
	if !e.resolved {
		return "?"
	}
	return e.target.String()
}

// Exit is a single direction of a room together with its edge state
type Exit struct {
	Direction Direction
	State     EdgeState
}

// RoomMeta holds what the server reported about a room. It is carried for
// hooks and presentation; the exploration algorithm never reads it.
type RoomMeta struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Terrain     string         `json:"terrain,omitempty"`
	Coordinates string         `json:"coordinates,omitempty"`
	Elevation   int            `json:"elevation,omitempty"`
	Items       []string       `json:"items,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Merge overlays a newer report onto the receiver. Empty fields in the
// newer report keep the existing value; item lists are replaced wholesale
// because room contents change between visits.
func (m RoomMeta) Merge(newer RoomMeta) RoomMeta {
	out := m.Clone()
	if newer.Title != "" {
		out.Title = newer.Title
	}
	if newer.Description != "" {
		out.Description = newer.Description
	}
	if newer.Terrain != "" {
		out.Terrain = newer.Terrain
	}
	if newer.Coordinates != "" {
		out.Coordinates = newer.Coordinates
	}
	if newer.Elevation != 0 {
		out.Elevation = newer.Elevation
	}
	if newer.Items != nil {
		out.Items = append([]string(nil), newer.Items...)
	}
	for k, v := range newer.Extra {
		if out.Extra == nil {
			out.Extra = make(map[string]any, len(newer.Extra))
		}
		out.Extra[k] = v
	}
	return out
}

// Clone returns a copy that shares no slices or maps with the receiver
func (m RoomMeta) Clone() RoomMeta {
	out := m
	if m.Items != nil {
		out.Items = append([]string(nil), m.Items...)
	}
	if m.Extra != nil {
		out.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Room is a discovered node. Exits keep the order in which the server
// first reported them.
type Room struct {
	ID    RoomID
	Exits []Exit
	Meta  RoomMeta
}

// Exit looks up the edge state for a direction
func (r Room) Exit(dir Direction) (EdgeState, bool) {
	for _, e := range r.Exits {
		if e.Direction == dir {
			return e.State, true
		}
	}
	return Unknown, false
}

// Clone deep-copies the room
func (r Room) Clone() Room {
	return Room{
		ID:    r.ID,
		Exits: append([]Exit(nil), r.Exits...),
		Meta:  r.Meta.Clone(),
	}
}

// Edge is a resolved connection leaving a room
type Edge struct {
	Direction Direction
	To        RoomID
}

// RoomReport is what the remote server returns after landing in a room
type RoomReport struct {
	ID       RoomID
	Exits    []Direction
	Cooldown time.Duration
	Messages []string
	Meta     RoomMeta
}

// Examination is the result of examining an object or player
type Examination struct {
	Name        string
	Description string
	Cooldown    time.Duration
}

// PlayerStatus is the subset of the player's status used by hooks
type PlayerStatus struct {
	Name        string
	Gold        int
	Encumbrance int
	Strength    int
	Speed       int
	Inventory   []string
	Cooldown    time.Duration
	Messages    []string
}

// EventSink receives presentation events
type EventSink interface {
	RoomChanged(room Room)
	Status(message string)
}

// NopSink discards every event
type NopSink struct{}

func (NopSink) RoomChanged(Room) {}
func (NopSink) Status(string)    {}
