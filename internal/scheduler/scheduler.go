// Package scheduler serializes every remote action behind the server's
// cooldown. At most one action is in flight at any time and waiting callers
// are served in the order they arrived.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Action is one remote call. Run returns the cooldown the server imposed.
type Action struct {
	Kind string
	Run  func(ctx context.Context) (time.Duration, error)
}

// Scheduler executes actions one at a time
type Scheduler struct {
	slot    *semaphore.Weighted
	clock   Clock
	metrics *Metrics
	logger  zerolog.Logger

	// readyAt is only touched while holding slot
	readyAt time.Time
}

// Option configures a Scheduler
type Option func(*Scheduler)

func WithClock(clock Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		slot:   semaphore.NewWeighted(1),
		clock:  RealClock{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs a single action. It waits for the slot and for any cooldown
// still pending from the previous action, runs the action, and on success
// sleeps the reported cooldown before returning. A failed action returns
// immediately with no cooldown and is never retried here.
//
// Cancellation is honoured only while waiting. Once the action starts it
// runs with a context that is never cancelled, so a request already on the
// wire is not torn down; per-call timeouts belong to the action itself. If
// ctx is cancelled during the post-action cooldown the action's success is
// still reported and the next caller waits out the remainder instead.
func (s *Scheduler) Execute(ctx context.Context, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.metrics.queued(1)
	err := s.slot.Acquire(ctx, 1)
	s.metrics.queued(-1)
	if err != nil {
		return err
	}
	defer s.slot.Release(1)

	if err := s.waitUntil(ctx, s.readyAt); err != nil {
		return err
	}

	cooldown, err := action.Run(context.WithoutCancel(ctx))
	if err != nil {
		s.metrics.failed(action.Kind)
		s.logger.Debug().Err(err).Str("kind", action.Kind).Msg("action failed")
		return err
	}
	if cooldown < 0 {
		cooldown = 0
	}
	s.metrics.succeeded(action.Kind, cooldown)
	s.readyAt = s.clock.Now().Add(cooldown)

	s.logger.Debug().
		Str("kind", action.Kind).
		Dur("cooldown", cooldown).
		Msg("action completed, cooling down")

	if err := s.waitUntil(ctx, s.readyAt); err != nil {
		s.logger.Debug().Err(err).Str("kind", action.Kind).Msg("cooldown wait interrupted")
	}
	return nil
}

// Cooldown imposes a wait before the next action, e.g. the cooldown that
// came with a response obtained outside Execute.
func (s *Scheduler) Cooldown(ctx context.Context, d time.Duration) error {
	if err := s.slot.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.slot.Release(1)

	if until := s.clock.Now().Add(d); until.After(s.readyAt) {
		s.readyAt = until
	}
	return nil
}

func (s *Scheduler) waitUntil(ctx context.Context, t time.Time) error {
	d := t.Sub(s.clock.Now())
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}

// Do runs fn through the scheduler and hands back its typed result
func Do[T any](ctx context.Context, s *Scheduler, kind string, fn func(ctx context.Context) (T, time.Duration, error)) (T, error) {
	var result T
	err := s.Execute(ctx, Action{
		Kind: kind,
		Run: func(ctx context.Context) (time.Duration, error) {
			r, cooldown, err := fn(ctx)
			if err != nil {
				return 0, err
			}
			result = r
			return cooldown, nil
		},
	})
	return result, err
}
