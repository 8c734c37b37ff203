package hooks

import (
	"context"
	"fmt"
	"time"

	"mapwalker/internal/core"
	"mapwalker/internal/planner"
	"mapwalker/internal/scheduler"
)

type Traveler interface {
	TravelTo(ctx context.Context, target core.RoomID) (planner.Path, error)
}

type Examiner interface {
	Examine(ctx context.Context, name string) (core.Examination, error)
}

// ExamineWell walks to the wishing well and reads its inscription
func ExamineWell(ctx context.Context, t Traveler, x Examiner, sched *scheduler.Scheduler) (core.Examination, error) {
	if _, err := t.TravelTo(ctx, WishingWell); err != nil {
		return core.Examination{}, fmt.Errorf("travel to wishing well: %w", err)
	}
	exam, err := scheduler.Do(ctx, sched, "examine", func(ctx context.Context) (core.Examination, time.Duration, error) {
		ex, err := x.Examine(ctx, "well")
		return ex, ex.Cooldown, err
	})
	if err != nil {
		return core.Examination{}, fmt.Errorf("examine well: %w", err)
	}
	return exam, nil
}
