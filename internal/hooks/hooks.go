// Package hooks holds the side effects the explorer runs before leaving a
// room: picking up items everywhere and selling them at the shop.
package hooks

import (
	"context"
	"fmt"
	"time"

	"mapwalker/internal/core"
	"mapwalker/internal/scheduler"

	"github.com/rs/zerolog"
)

// Taker picks up items in the current room
type Taker interface {
	Take(ctx context.Context, item string) (core.RoomReport, error)
}

// Seller reads the inventory and sells from it
type Seller interface {
	Status(ctx context.Context) (core.PlayerStatus, error)
	Sell(ctx context.Context, item string) (core.RoomReport, error)
}

// RoomUpdater receives refreshed room reports
type RoomUpdater interface {
	UpsertRoom(id core.RoomID, exits []core.Direction, meta core.RoomMeta)
}

// Pickup takes every item the server reported in the room
type Pickup struct {
	taker  Taker
	sched  *scheduler.Scheduler
	rooms  RoomUpdater
	sink   core.EventSink
	logger zerolog.Logger
}

func NewPickup(taker Taker, sched *scheduler.Scheduler, rooms RoomUpdater, sink core.EventSink, logger zerolog.Logger) *Pickup {
	if sink == nil {
		sink = core.NopSink{}
	}
	return &Pickup{taker: taker, sched: sched, rooms: rooms, sink: sink, logger: logger}
}

func (p *Pickup) BeforeMove(ctx context.Context, room core.Room) error {
	for _, item := range room.Meta.Items {
		report, err := scheduler.Do(ctx, p.sched, "take", func(ctx context.Context) (core.RoomReport, time.Duration, error) {
			r, err := p.taker.Take(ctx, item)
			return r, r.Cooldown, err
		})
		if err != nil {
			return fmt.Errorf("pick up %q: %w", item, err)
		}
		if p.rooms != nil {
			p.rooms.UpsertRoom(report.ID, report.Exits, report.Meta)
		}

		p.logger.Info().Int("room_id", int(room.ID)).Str("item", item).Msg("picked up item")
		p.sink.Status(fmt.Sprintf("picked up %s", item))
		for _, msg := range report.Messages {
			p.sink.Status(msg)
		}
	}
	return nil
}

// SellOff sells the whole inventory. It is meant to run in the shop.
type SellOff struct {
	seller Seller
	sched  *scheduler.Scheduler
	sink   core.EventSink
	logger zerolog.Logger
}

func NewSellOff(seller Seller, sched *scheduler.Scheduler, sink core.EventSink, logger zerolog.Logger) *SellOff {
	if sink == nil {
		sink = core.NopSink{}
	}
	return &SellOff{seller: seller, sched: sched, sink: sink, logger: logger}
}

func (s *SellOff) BeforeMove(ctx context.Context, room core.Room) error {
	status, err := scheduler.Do(ctx, s.sched, "status", func(ctx context.Context) (core.PlayerStatus, time.Duration, error) {
		st, err := s.seller.Status(ctx)
		return st, st.Cooldown, err
	})
	if err != nil {
		return fmt.Errorf("read inventory: %w", err)
	}

	for _, item := range status.Inventory {
		report, err := scheduler.Do(ctx, s.sched, "sell", func(ctx context.Context) (core.RoomReport, time.Duration, error) {
			r, err := s.seller.Sell(ctx, item)
			return r, r.Cooldown, err
		})
		if err != nil {
			return fmt.Errorf("sell %q: %w", item, err)
		}
		s.logger.Info().Int("room_id", int(room.ID)).Str("item", item).Msg("sold item")
		for _, msg := range report.Messages {
			s.sink.Status(msg)
		}
	}
	if len(status.Inventory) > 0 {
		s.sink.Status(fmt.Sprintf("sold %d items (gold before sale: %d)", len(status.Inventory), status.Gold))
	}
	return nil
}
