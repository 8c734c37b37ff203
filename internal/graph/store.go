// Package graph owns the discovered room graph.
//
// Store is the only writer of room records. Edges are resolved in pairs so
// the graph is always symmetric, and nothing is ever removed during a run.
package graph

import (
	"fmt"
	"sort"
	"sync"

	"mapwalker/internal/core"
)

// Store is an in-memory room graph with partial knowledge
type Store struct {
	mu    sync.RWMutex
	rooms map[core.RoomID]*core.Room
}

// NewStore creates an empty graph
func NewStore() *Store {
	return &Store{rooms: make(map[core.RoomID]*core.Room)}
}

// UpsertRoom inserts a room if absent. For a known room it merges the
// metadata and appends exits not seen before as Unknown; resolved edges are
// never downgraded.
func (s *Store) UpsertRoom(id core.RoomID, exits []core.Direction, meta core.RoomMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		room = &core.Room{ID: id}
		s.rooms[id] = room
	}
	for _, dir := range exits {
		if _, seen := room.Exit(dir); !seen {
			room.Exits = append(room.Exits, core.Exit{Direction: dir, State: core.Unknown})
		}
	}
	room.Meta = room.Meta.Merge(meta)
}

// ResolveEdge records that moving dir from `from` lands in `to`, and the
// reverse edge back. A repeat of an identical call is a no-op. A conflict
// with an existing resolution on either side fails with
// core.ErrDataInconsistency and leaves the store untouched.
func (s *Store) ResolveEdge(from core.RoomID, dir core.Direction, to core.RoomID) error {
	reverse, ok := dir.Reverse()
	if !ok {
		return fmt.Errorf("resolve %d %s: %w", from, dir, core.ErrUnknownDirection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEdge(from, dir, to); err != nil {
		return err
	}
	if err := s.checkEdge(to, reverse, from); err != nil {
		return err
	}

	s.setEdge(from, dir, to)
	s.setEdge(to, reverse, from)
	return nil
}

func (s *Store) checkEdge(from core.RoomID, dir core.Direction, to core.RoomID) error {
	room, ok := s.rooms[from]
	if !ok {
		return nil
	}
	state, ok := room.Exit(dir)
	if !ok {
		return nil
	}
	if target, resolved := state.Target(); resolved && target != to {
		return fmt.Errorf("room %d exit %s already leads to %d, new report says %d: %w",
			from, dir, target, to, core.ErrDataInconsistency)
	}
	return nil
}

// setEdge assumes checkEdge passed and the lock is held
func (s *Store) setEdge(from core.RoomID, dir core.Direction, to core.RoomID) {
	room, ok := s.rooms[from]
	if !ok {
		room = &core.Room{ID: from}
		s.rooms[from] = room
	}
	for i := range room.Exits {
		if room.Exits[i].Direction == dir {
			room.Exits[i].State = core.ResolvedTo(to)
			return
		}
	}
	room.Exits = append(room.Exits, core.Exit{Direction: dir, State: core.ResolvedTo(to)})
}

// UnexploredExits lists the Unknown exits of a room in reported order
func (s *Store) UnexploredExits(id core.RoomID) []core.Direction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil
	}
	var dirs []core.Direction
	for _, e := range room.Exits {
		if e.State.IsUnknown() {
			dirs = append(dirs, e.Direction)
		}
	}
	return dirs
}

// Neighbors lists the resolved edges leaving a room in reported order
func (s *Store) Neighbors(id core.RoomID) []core.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil
	}
	edges := make([]core.Edge, 0, len(room.Exits))
	for _, e := range room.Exits {
		if to, resolved := e.State.Target(); resolved {
			edges = append(edges, core.Edge{Direction: e.Direction, To: to})
		}
	}
	return edges
}

// Room returns a copy of a room record
func (s *Store) Room(id core.RoomID) (core.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return core.Room{}, false
	}
	return room.Clone(), true
}

func (s *Store) Has(id core.RoomID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok
}

// Size is the number of known rooms, stubs included
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// RoomIDs returns every known room id in ascending order
func (s *Store) RoomIDs() []core.RoomID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]core.RoomID, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stats summarises how much of the graph is resolved
type Stats struct {
	Rooms    int `json:"rooms"`
	Resolved int `json:"resolved"`
	Unknown  int `json:"unknown"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Rooms: len(s.rooms)}
	for _, room := range s.rooms {
		for _, e := range room.Exits {
			if e.State.IsUnknown() {
				stats.Unknown++
			} else {
				stats.Resolved++
			}
		}
	}
	return stats
}
