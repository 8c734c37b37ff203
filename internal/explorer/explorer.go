// Package explorer discovers the room graph with an online depth-first walk
// and executes planned travel, one scheduled move at a time.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mapwalker/internal/core"
	"mapwalker/internal/graph"
	"mapwalker/internal/planner"
	"mapwalker/internal/scheduler"
	"mapwalker/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/stack"
)

// Mover issues a single move. hint, when known, is the room the move is
// expected to land in.
type Mover interface {
	Move(ctx context.Context, dir core.Direction, hint *core.RoomID) (core.RoomReport, error)
}

// MoverFunc adapts a function (e.g. a client's Move or Fly method) to Mover
type MoverFunc func(ctx context.Context, dir core.Direction, hint *core.RoomID) (core.RoomReport, error)

func (f MoverFunc) Move(ctx context.Context, dir core.Direction, hint *core.RoomID) (core.RoomReport, error) {
	return f(ctx, dir, hint)
}

// Locator reports the room the player currently stands in
type Locator interface {
	Init(ctx context.Context) (core.RoomReport, error)
}

// Hook runs before each move while exploring. Hooks perform their own
// remote actions and must not touch edge state.
type Hook interface {
	BeforeMove(ctx context.Context, room core.Room) error
}

type HookFunc func(ctx context.Context, room core.Room) error

func (f HookFunc) BeforeMove(ctx context.Context, room core.Room) error {
	return f(ctx, room)
}

// State of an exploration run
type State int

const (
	Idle State = iota
	Exploring
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Exploring:
		return "exploring"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config bounds and shapes a run
type Config struct {
	// MaxRooms aborts the run once the graph holds more rooms; zero disables the bound
	MaxRooms int
	// HubRoom is where hub hooks run
	HubRoom core.RoomID
	// CheckpointEvery saves a snapshot after this many moves; zero means only at the end
	CheckpointEvery int
}

// Result summarises a finished run
type Result struct {
	State State
	// Reason is why an aborted run stopped: core.ErrBoundsExceeded, a
	// context error or the error that ended it
	Reason     error
	Moves      int
	Rooms      int
	StackDepth int
}

// Explorer drives discovery and travel. It is not safe for concurrent use;
// one goroutine runs it while others may read the graph.
type Explorer struct {
	graph     *graph.Store
	planner   *planner.Planner
	sched     *scheduler.Scheduler
	locator   Locator
	mover     Mover
	cfg       Config
	snapshots storage.SnapshotStore
	sink      core.EventSink
	roomHooks []Hook
	hubHooks  []Hook
	logger    zerolog.Logger

	current core.RoomID
	located bool
	state   State
}

type Option func(*Explorer)

// WithSnapshots checkpoints the graph into store during runs
func WithSnapshots(store storage.SnapshotStore) Option {
	return func(e *Explorer) { e.snapshots = store }
}

func WithSink(sink core.EventSink) Option {
	return func(e *Explorer) { e.sink = sink }
}

// WithRoomHook adds a hook that runs in every room before moving on
func WithRoomHook(h Hook) Option {
	return func(e *Explorer) { e.roomHooks = append(e.roomHooks, h) }
}

// WithHubHook adds a hook that runs only in the hub room
func WithHubHook(h Hook) Option {
	return func(e *Explorer) { e.hubHooks = append(e.hubHooks, h) }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Explorer) { e.logger = logger }
}

func New(g *graph.Store, sched *scheduler.Scheduler, locator Locator, mover Mover, cfg Config, opts ...Option) *Explorer {
	e := &Explorer{
		graph:   g,
		planner: planner.New(g),
		sched:   sched,
		locator: locator,
		mover:   mover,
		cfg:     cfg,
		sink:    core.NopSink{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Current returns the room the explorer believes the player is in
func (e *Explorer) Current() (core.RoomID, bool) {
	return e.current, e.located
}

func (e *Explorer) State() State {
	return e.state
}

// Start asks the server where the player is and records that room
func (e *Explorer) Start(ctx context.Context) error {
	report, err := scheduler.Do(ctx, e.sched, "init", func(ctx context.Context) (core.RoomReport, time.Duration, error) {
		r, err := e.locator.Init(ctx)
		return r, r.Cooldown, err
	})
	if err != nil {
		return fmt.Errorf("failed to locate player: %w", err)
	}

	e.graph.UpsertRoom(report.ID, report.Exits, report.Meta)
	e.land(report)
	e.located = true

	e.logger.Info().
		Int("room_id", int(report.ID)).
		Int("known_rooms", e.graph.Size()).
		Msg("player located")
	return nil
}

// Run explores until no known room has an unexplored exit, the room bound
// is exceeded, ctx is cancelled or an action fails. When the backtrack
// stack empties while a restored graph still has unexplored exits, the
// explorer travels to the nearest such room and carries on from there.
// Cancellation is only observed between actions.
func (e *Explorer) Run(ctx context.Context) (Result, error) {
	if !e.located {
		return Result{State: e.state}, errors.New("explorer not started: call Start first")
	}
	if e.state == Exploring {
		return Result{State: e.state}, errors.New("exploration already running")
	}

	log := e.logger.With().Str("run_id", uuid.NewString()).Logger()
	e.state = Exploring
	e.sink.Status("exploring")
	log.Info().Int("room_id", int(e.current)).Int("known_rooms", e.graph.Size()).Msg("exploration started")

	backtrack := stack.New[core.Direction]()
	moves, pending := 0, 0

	finish := func(state State, reason error) Result {
		e.state = state
		if pending > 0 {
			if err := e.checkpoint(ctx); err != nil {
				log.Error().Err(err).Msg("final checkpoint failed")
				if state == Completed {
					state, reason = Aborted, err
					e.state = Aborted
				}
			}
		}
		res := Result{
			State:      state,
			Reason:     reason,
			Moves:      moves,
			Rooms:      e.graph.Size(),
			StackDepth: backtrack.Size(),
		}
		ev := log.Info()
		if reason != nil {
			ev = log.Warn().AnErr("reason", reason)
		}
		ev.Str("state", state.String()).
			Int("moves", res.Moves).
			Int("rooms", res.Rooms).
			Int("stack_depth", res.StackDepth).
			Msg("exploration finished")
		e.sink.Status(fmt.Sprintf("exploration %s after %d moves, %d rooms known", state, res.Moves, res.Rooms))
		return res
	}
	fail := func(err error) (Result, error) {
		res := finish(Aborted, err)
		return res, err
	}
	// checkpointDue saves once enough moves are pending. A failed save is
	// not retried by finish.
	checkpointDue := func() error {
		if e.cfg.CheckpointEvery <= 0 || pending < e.cfg.CheckpointEvery {
			return nil
		}
		pending = 0
		return e.checkpoint(ctx)
	}

	for {
		if e.cfg.MaxRooms > 0 && e.graph.Size() > e.cfg.MaxRooms {
			return finish(Aborted, core.ErrBoundsExceeded), nil
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		from := e.current
		room, _ := e.graph.Room(from)

		var (
			dir       core.Direction
			hint      *core.RoomID
			retreat   bool
			returnDir core.Direction
		)
		if unexplored := e.graph.UnexploredExits(from); len(unexplored) > 0 {
			dir = unexplored[len(unexplored)-1]
			reverse, ok := dir.Reverse()
			if !ok {
				return fail(fmt.Errorf("room %d exit %s: %w", from, dir, core.ErrUnknownDirection))
			}
			returnDir = reverse
		} else {
			if backtrack.Size() == 0 {
				// a resumed graph can hold unexplored exits outside this walk
				path, found, err := e.nearestFrontier(from)
				if err != nil {
					return fail(err)
				}
				if !found {
					return finish(Completed, nil), nil
				}
				log.Info().
					Int("from", int(from)).
					Int("to", int(path[len(path)-1].To)).
					Int("steps", len(path)).
					Msg("relocating to unexplored room")
				n, err := e.walk(ctx, path)
				moves += n
				pending += n
				if err != nil {
					return fail(err)
				}
				if err := checkpointDue(); err != nil {
					return fail(err)
				}
				continue
			}
			dir = backtrack.Peek()
			retreat = true
			if state, ok := room.Exit(dir); ok {
				if to, resolved := state.Target(); resolved {
					hint = &to
				}
			}
		}

		if err := e.runHooks(ctx, room); err != nil {
			return fail(fmt.Errorf("hook in room %d: %w", from, err))
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		report, err := e.move(ctx, dir, hint)
		if err != nil {
			return fail(fmt.Errorf("move %s from room %d: %w", dir, from, err))
		}
		if err := e.graph.ResolveEdge(from, dir, report.ID); err != nil {
			return fail(fmt.Errorf("move %s from room %d: %w", dir, from, err))
		}
		e.graph.UpsertRoom(report.ID, report.Exits, report.Meta)

		if retreat {
			backtrack.Pop()
		} else {
			backtrack.Push(returnDir)
		}
		moves++
		pending++
		e.land(report)

		log.Debug().
			Int("from", int(from)).
			Str("direction", string(dir)).
			Int("room_id", int(report.ID)).
			Bool("retreat", retreat).
			Int("stack_depth", backtrack.Size()).
			Dur("cooldown", report.Cooldown).
			Msg("moved")

		if err := checkpointDue(); err != nil {
			return fail(err)
		}
	}
}

// TravelTo walks the shortest known route to target. Every landing must be
// the planned room; a mismatch is a data inconsistency.
func (e *Explorer) TravelTo(ctx context.Context, target core.RoomID) (planner.Path, error) {
	if !e.located {
		return nil, errors.New("explorer not started: call Start first")
	}
	path, err := e.planner.ShortestPath(e.current, target)
	if err != nil {
		return nil, fmt.Errorf("travel from %d to %d: %w", e.current, target, err)
	}

	e.logger.Info().
		Int("from", int(e.current)).
		Int("to", int(target)).
		Int("steps", len(path)).
		Msg("travelling")

	n, err := e.walk(ctx, path)
	return path[:n], err
}

// walk follows path from the current room and returns how many steps
// completed. Every landing must be the planned room; a mismatch is a data
// inconsistency.
func (e *Explorer) walk(ctx context.Context, path planner.Path) (int, error) {
	for i, step := range path {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		to := step.To
		report, err := e.move(ctx, step.Direction, &to)
		if err != nil {
			return i, fmt.Errorf("move %s from room %d: %w", step.Direction, e.current, err)
		}
		if report.ID != step.To {
			return i, fmt.Errorf("move %s from room %d landed in %d, expected %d: %w",
				step.Direction, e.current, report.ID, step.To, core.ErrDataInconsistency)
		}
		e.graph.UpsertRoom(report.ID, report.Exits, report.Meta)
		e.land(report)
	}
	return len(path), nil
}

// nearestFrontier plans a route to the closest room that still has
// unexplored exits. Ties go to the lowest room id. Frontier rooms that no
// resolved route reaches are an error, since the walk can never finish them.
func (e *Explorer) nearestFrontier(from core.RoomID) (planner.Path, bool, error) {
	var (
		best     planner.Path
		found    bool
		stranded []core.RoomID
	)
	for _, id := range e.graph.RoomIDs() {
		if id == from || len(e.graph.UnexploredExits(id)) == 0 {
			continue
		}
		path, err := e.planner.ShortestPath(from, id)
		if errors.Is(err, core.ErrUnreachable) {
			stranded = append(stranded, id)
			continue
		}
		if err != nil {
			return nil, false, err
		}
		if !found || len(path) < len(best) {
			best, found = path, true
		}
	}
	if !found && len(stranded) > 0 {
		return nil, false, fmt.Errorf("rooms %v have unexplored exits but no known route from room %d: %w",
			stranded, from, core.ErrUnreachable)
	}
	return best, found, nil
}

func (e *Explorer) move(ctx context.Context, dir core.Direction, hint *core.RoomID) (core.RoomReport, error) {
	return scheduler.Do(ctx, e.sched, "move", func(ctx context.Context) (core.RoomReport, time.Duration, error) {
		r, err := e.mover.Move(ctx, dir, hint)
		return r, r.Cooldown, err
	})
}

func (e *Explorer) runHooks(ctx context.Context, room core.Room) error {
	for _, h := range e.roomHooks {
		if err := h.BeforeMove(ctx, room); err != nil {
			return err
		}
	}
	if room.ID != e.cfg.HubRoom {
		return nil
	}
	for _, h := range e.hubHooks {
		if err := h.BeforeMove(ctx, room); err != nil {
			return err
		}
	}
	return nil
}

// land makes report the current room and tells the sink
func (e *Explorer) land(report core.RoomReport) {
	e.current = report.ID
	if room, ok := e.graph.Room(report.ID); ok {
		e.sink.RoomChanged(room)
	}
	for _, msg := range report.Messages {
		e.sink.Status(msg)
	}
}

// checkpoint persists the graph. It outlives ctx cancellation so an
// aborted run still records what it learned.
func (e *Explorer) checkpoint(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	data, err := e.graph.Snapshot()
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	if err := e.snapshots.Save(context.WithoutCancel(ctx), data); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}
