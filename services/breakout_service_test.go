package services

import (
	"breakout-lab/domain"
	apperrors "breakout-lab/errors"
	"breakout-lab/infrastructure/memory"
	"breakout-lab/internal"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func testConfig() internal.Config {
	return internal.Config{
		LobbyChannel:    "__lobby",
		FacilitatorRole: "facilitator",
		CommandPrefix:   "!",
		Verbosity:       0,
		TickInterval:    5 * time.Millisecond,
	}
}

func TestBreakoutService_BreakoutRequiresSetup(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	service := NewBreakoutService(memory.NewPlatform(), log, testConfig(), nil)

	err := service.Breakout(context.Background(), 60, 0)
	req.ErrorIs(err, apperrors.ErrNotProvisioned)
}

func TestBreakoutService_SetupIsIdempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	platform := memory.NewPlatform()
	service := NewBreakoutService(platform, log, testConfig(), nil)

	req.NoError(service.Setup(ctx))
	req.NoError(service.Setup(ctx))

	// One lobby text room, one lobby voice room, no duplicates
	req.Len(platform.RoomsOfKind(domain.TextRoom), 1)
	req.Len(platform.RoomsOfKind(domain.VoiceRoom), 1)

	facilitator, err := platform.RoleByName(ctx, "facilitator")
	req.NoError(err)
	req.NotNil(facilitator)
}

func TestBreakoutService_RejectsInvalidDurations(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	service := NewBreakoutService(memory.NewPlatform(), log, testConfig(), nil)
	req.NoError(service.Setup(ctx))

	req.Error(service.Breakout(ctx, 0, 0))
	req.Error(service.Breakout(ctx, -5, 0))
	req.Error(service.Breakout(ctx, 60, -1))
}

func TestBreakoutService_DropsMessagesBeforeSetup(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	service := NewBreakoutService(memory.NewPlatform(), log, testConfig(), nil)

	err := service.OnMessage(context.Background(), domain.Message{Content: "hello"})
	req.NoError(err)
}
