package graph

import (
	"fmt"
	"strconv"

	"mapwalker/internal/core"

	"github.com/bytedance/sonic"
)

// SnapshotVersion is written into every snapshot document
const SnapshotVersion = 1

// snapshotDoc is the persisted form of the graph. Rooms are keyed by id;
// an exit with a nil To is Unknown. Fields this version does not know are
// ignored on decode.
type snapshotDoc struct {
	Version int                     `json:"version"`
	Rooms   map[string]snapshotRoom `json:"rooms"`
}

type snapshotRoom struct {
	Exits []snapshotExit `json:"exits"`
	Meta  core.RoomMeta  `json:"meta"`
}

type snapshotExit struct {
	Dir core.Direction `json:"dir"`
	To  *core.RoomID   `json:"to"`
}

// codec sorts map keys so equal graphs encode to identical bytes
var codec = sonic.ConfigStd

// Snapshot encodes the whole graph
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := snapshotDoc{
		Version: SnapshotVersion,
		Rooms:   make(map[string]snapshotRoom, len(s.rooms)),
	}
	for id, room := range s.rooms {
		exits := make([]snapshotExit, 0, len(room.Exits))
		for _, e := range room.Exits {
			exit := snapshotExit{Dir: e.Direction}
			if to, resolved := e.State.Target(); resolved {
				exit.To = &to
			}
			exits = append(exits, exit)
		}
		doc.Rooms[id.String()] = snapshotRoom{Exits: exits, Meta: room.Meta}
	}

	data, err := codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the store contents with a decoded snapshot. It is meant
// for start-up, before any run begins.
func (s *Store) Restore(data []byte) error {
	var doc snapshotDoc
	if err := codec.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal graph snapshot: %w", err)
	}
	if doc.Version > SnapshotVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d", doc.Version, SnapshotVersion)
	}

	rooms := make(map[core.RoomID]*core.Room, len(doc.Rooms))
	for key, sr := range doc.Rooms {
		n, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid room id %q in snapshot: %w", key, err)
		}
		if _, dup := rooms[core.RoomID(n)]; dup {
			return fmt.Errorf("room %d appears twice in snapshot: %w", n, core.ErrDataInconsistency)
		}
		room := &core.Room{ID: core.RoomID(n), Meta: sr.Meta}
		for _, e := range sr.Exits {
			if _, dup := room.Exit(e.Dir); dup {
				return fmt.Errorf("room %d lists exit %s twice: %w", n, e.Dir, core.ErrDataInconsistency)
			}
			state := core.Unknown
			if e.To != nil {
				state = core.ResolvedTo(*e.To)
			}
			room.Exits = append(room.Exits, core.Exit{Direction: e.Dir, State: state})
		}
		rooms[room.ID] = room
	}

	if err := checkSymmetry(rooms); err != nil {
		return err
	}

	s.mu.Lock()
	s.rooms = rooms
	s.mu.Unlock()
	return nil
}

func checkSymmetry(rooms map[core.RoomID]*core.Room) error {
	for id, room := range rooms {
		for _, e := range room.Exits {
			to, resolved := e.State.Target()
			if !resolved {
				continue
			}
			reverse, ok := e.Direction.Reverse()
			if !ok {
				return fmt.Errorf("room %d exit %s: %w", id, e.Direction, core.ErrUnknownDirection)
			}
			target, ok := rooms[to]
			if !ok {
				return fmt.Errorf("room %d exit %s leads to missing room %d: %w", id, e.Direction, to, core.ErrDataInconsistency)
			}
			back, ok := target.Exit(reverse)
			if got, resolved := back.Target(); !ok || !resolved || got != id {
				return fmt.Errorf("room %d exit %s to %d has no matching reverse edge: %w", id, e.Direction, to, core.ErrDataInconsistency)
			}
		}
	}
	return nil
}
