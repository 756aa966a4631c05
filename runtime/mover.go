package runtime

import (
	"breakout-lab/contract"
	"breakout-lab/domain"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Move is one queued relocation: bring Member into the Target voice room.
type Move struct {
	Member domain.Member
	Target domain.RoomID
}

// Mover relocates members between voice rooms. Unlike the broadcaster it
// isolates failures per member: the batch is unbounded (one move per online
// member) and a single disconnected participant must never block the rest.
type Mover struct {
	platform contract.Platform
	log      *slog.Logger
}

func NewMover(platform contract.Platform, log *slog.Logger) *Mover {
	return &Mover{platform: platform, log: log}
}

// MoveAll dispatches every move concurrently and waits for all of them.
// Individual failures are logged and swallowed; siblings are never
// cancelled. MoveAll itself cannot fail.
func (m *Mover) MoveAll(ctx context.Context, moves []Move) {
	var wg sync.WaitGroup
	for _, mv := range moves {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.move(ctx, mv)
		}()
	}
	wg.Wait()
}

// move relocates one member. The move is only issued when the member is
// currently connected to voice and not already in the target room; a no-op
// move is skipped, not sent.
func (m *Mover) move(ctx context.Context, mv Move) {
	current, err := m.platform.VoiceRoom(ctx, mv.Member.ID)
	if err != nil {
		m.log.Info(fmt.Sprintf("Failed to read voice state of %s", mv.Member.DisplayName), "error", err)
		return
	}
	if current == "" {
		m.log.Info(fmt.Sprintf("Skipping %s: not connected to voice", mv.Member.DisplayName))
		return
	}
	if current == mv.Target {
		return
	}

	if err := m.platform.MoveToVoice(ctx, mv.Member.ID, mv.Target); err != nil {
		m.log.Info(fmt.Sprintf("Failed to move member %s to room %s", mv.Member.DisplayName, mv.Target), "error", err)
		return
	}
	m.log.Debug(fmt.Sprintf("Moved %s to room %s", mv.Member.DisplayName, mv.Target))
}
