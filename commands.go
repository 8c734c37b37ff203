package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mapwalker/internal/core"
	"mapwalker/internal/explorer"
	"mapwalker/internal/hooks"
	"mapwalker/internal/planner"
	"mapwalker/internal/scheduler"
	"mapwalker/src/logger"
)

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "explore":
		return a.explore(ctx)
	case "travel":
		if len(args) != 1 {
			return errors.New("usage: travel <room|landmark>")
		}
		return a.travel(ctx, args[0])
	case "path":
		if len(args) != 2 {
			return errors.New("usage: path <from> <to>")
		}
		return a.path(args[0], args[1])
	case "landmarks":
		a.console.Landmarks(hooks.Landmarks, a.graph.Has)
		return nil
	case "well":
		return a.well(ctx)
	case "rooms":
		a.console.Stats(a.graph.Stats())
		return nil
	case "status":
		return a.status(ctx)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) explore(ctx context.Context) error {
	if err := a.explorer.Start(ctx); err != nil {
		return err
	}
	res, err := a.explorer.Run(ctx)
	logger.Logger.Info().
		Str("state", res.State.String()).
		Int("moves", res.Moves).
		Int("rooms", res.Rooms).
		Msg("exploration ended")
	if err != nil {
		return err
	}
	if res.State == explorer.Aborted {
		a.console.Status(fmt.Sprintf("stopped early: %v", res.Reason))
	}
	a.console.Stats(a.graph.Stats())
	return nil
}

func (a *app) travel(ctx context.Context, target string) error {
	to, err := hooks.LookupRoom(target)
	if err != nil {
		return err
	}
	if err := a.explorer.Start(ctx); err != nil {
		return err
	}
	path, err := a.explorer.TravelTo(ctx, to)
	if saveErr := a.save(ctx); saveErr != nil {
		logger.Logger.Warn().Err(saveErr).Msg("failed to save snapshot after travel")
	}
	if err != nil {
		if errors.Is(err, core.ErrUnreachable) {
			return fmt.Errorf("%w (explore further and retry)", err)
		}
		return err
	}
	a.console.Status(fmt.Sprintf("arrived in room %d after %d moves", to, len(path)))
	return nil
}

func (a *app) path(fromArg, toArg string) error {
	from, err := hooks.LookupRoom(fromArg)
	if err != nil {
		return err
	}
	to, err := hooks.LookupRoom(toArg)
	if err != nil {
		return err
	}
	path, err := planner.New(a.graph).ShortestPath(from, to)
	if err != nil {
		return fmt.Errorf("path from %d to %d: %w", from, to, err)
	}
	a.console.Path(from, path)
	return nil
}

func (a *app) well(ctx context.Context) error {
	if err := a.explorer.Start(ctx); err != nil {
		return err
	}
	exam, err := hooks.ExamineWell(ctx, a.explorer, a.client, a.sched)
	if err != nil {
		return err
	}
	a.console.Examination(exam)
	return nil
}

func (a *app) status(ctx context.Context) error {
	st, err := scheduler.Do(ctx, a.sched, "status", func(ctx context.Context) (core.PlayerStatus, time.Duration, error) {
		st, err := a.client.Status(ctx)
		return st, st.Cooldown, err
	})
	if err != nil {
		return err
	}
	a.console.Status(fmt.Sprintf("%s: %d gold, encumbrance %d, strength %d, speed %d", st.Name, st.Gold, st.Encumbrance, st.Strength, st.Speed))
	for _, item := range st.Inventory {
		a.console.Status("  " + item)
	}
	return nil
}

func (a *app) save(ctx context.Context) error {
	data, err := a.graph.Snapshot()
	if err != nil {
		return err
	}
	return a.store.Save(context.WithoutCancel(ctx), data)
}
