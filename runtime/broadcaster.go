package runtime

import (
	"breakout-lab/contract"
	"breakout-lab/domain"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// Broadcaster fans messages out to a set of rooms and drives the
// tick-synchronized countdown. Send and edit failures are not isolated:
// a failing room aborts the whole phase, because it signals the room was
// deleted or access was revoked mid-session.
type Broadcaster struct {
	platform  contract.Platform
	log       *slog.Logger
	tick      time.Duration
	verbosity int
}

func NewBroadcaster(platform contract.Platform, log *slog.Logger, tick time.Duration, verbosity int) *Broadcaster {
	if tick <= 0 {
		tick = time.Second
	}
	return &Broadcaster{platform: platform, log: log, tick: tick, verbosity: verbosity}
}

// SendToAll posts content to every room concurrently and returns the
// per-room message handles. All-or-nothing: the first failure cancels the
// batch and is returned.
func (b *Broadcaster) SendToAll(ctx context.Context, rooms []domain.RoomID, content string) ([]domain.MessageRef, error) {
	refs := make([]domain.MessageRef, len(rooms))
	g, gctx := errgroup.WithContext(ctx)
	for i, room := range rooms {
		g.Go(func() error {
			ref, err := b.platform.Send(gctx, room, content)
			if err != nil {
				return fmt.Errorf("send to room %s: %w", room, err)
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

// RunCountdown counts down from seconds to zero across all rooms in
// lock-step. When verbose, one seed message per room shows the start value
// and every tick edits all of them together. The tick sleep and the edits
// are dispatched in the same batch, so pacing is governed by wall clock,
// not edit latency; slow edits skew the display but never stretch the
// total run beyond the join of each tick.
func (b *Broadcaster) RunCountdown(ctx context.Context, rooms []domain.RoomID, seconds int, verbose bool) error {
	var refs []domain.MessageRef
	if verbose {
		var err error
		refs, err = b.SendToAll(ctx, rooms, strconv.Itoa(seconds))
		if err != nil {
			return err
		}
	}

	for s := seconds - 1; s >= 0; s-- {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			select {
			case <-time.After(b.tick):
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
		for _, ref := range refs {
			g.Go(func() error {
				if err := b.platform.Edit(gctx, ref, strconv.Itoa(s)); err != nil {
					return fmt.Errorf("countdown edit in room %s: %w", ref.Room, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// CountdownDiscussion announces the breakout and runs the discussion
// countdown. The banner and the countdown are dispatched together, the way
// every per-phase batch is.
func (b *Broadcaster) CountdownDiscussion(ctx context.Context, rooms []domain.RoomID, seconds int) error {
	b.log.Info(fmt.Sprintf("Start discussion countdown from %d", seconds))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := b.SendToAll(gctx, rooms, fmt.Sprintf("Breakout started: %d seconds", seconds))
		return err
	})
	g.Go(func() error {
		return b.RunCountdown(gctx, rooms, seconds, b.verbosity > 1)
	})
	return g.Wait()
}

// CountdownWriting warns about the remaining time, runs the writing
// countdown and closes the phase with a terminal message in every room.
func (b *Broadcaster) CountdownWriting(ctx context.Context, rooms []domain.RoomID, seconds int) error {
	b.log.Info(fmt.Sprintf("Start writing countdown from %d", seconds))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := b.SendToAll(gctx, rooms, fmt.Sprintf("%d seconds before the end of breakout", seconds))
		return err
	})
	g.Go(func() error {
		return b.RunCountdown(gctx, rooms, seconds, b.verbosity > 0)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	_, err := b.SendToAll(ctx, rooms, "Time's up!")
	return err
}
