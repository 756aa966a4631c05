package runtime

import (
	"breakout-lab/domain"
	"breakout-lab/mocks"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testTick = 10 * time.Millisecond

func TestBroadcaster_RunCountdown_Monotonic(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	rooms := []domain.RoomID{"room-a", "room-b"}

	// Given one seed message per room showing the start value
	platform.EXPECT().
		Send(gomock.Any(), gomock.Any(), "5").
		DoAndReturn(func(_ context.Context, room domain.RoomID, _ string) (domain.MessageRef, error) {
			return domain.MessageRef{Room: room, ID: uuid.New()}, nil
		}).Times(2)

	var mu sync.Mutex
	displayed := map[domain.RoomID][]string{}
	platform.EXPECT().
		Edit(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ref domain.MessageRef, content string) error {
			mu.Lock()
			defer mu.Unlock()
			displayed[ref.Room] = append(displayed[ref.Room], content)
			return nil
		}).Times(10)

	broadcaster := NewBroadcaster(platform, log, testTick, 2)

	// When counting down from 5
	start := time.Now()
	err := broadcaster.RunCountdown(context.Background(), rooms, 5, true)
	elapsed := time.Since(start)

	// Then every room displayed exactly 4,3,2,1,0, one value per tick
	req.NoError(err)
	want := []string{"4", "3", "2", "1", "0"}
	req.Equal(want, displayed["room-a"])
	req.Equal(want, displayed["room-b"])
	req.GreaterOrEqual(elapsed, 5*testTick)
}

func TestBroadcaster_RunCountdown_SilentWithoutVerbose(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	// No sends, no edits: the countdown only paces the phase
	broadcaster := NewBroadcaster(platform, log, testTick, 0)
	err := broadcaster.RunCountdown(context.Background(), []domain.RoomID{"room-a"}, 3, false)
	req.NoError(err)
}

func TestBroadcaster_EditFailureAbortsPhase(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	platform.EXPECT().
		Send(gomock.Any(), gomock.Any(), "3").
		Return(domain.MessageRef{Room: "room-a", ID: uuid.New()}, nil).Times(1)
	// A failing edit means the room is gone; the whole phase aborts
	platform.EXPECT().
		Edit(gomock.Any(), gomock.Any(), "2").
		Return(fmt.Errorf("room deleted")).Times(1)

	broadcaster := NewBroadcaster(platform, log, testTick, 2)
	err := broadcaster.RunCountdown(context.Background(), []domain.RoomID{"room-a"}, 3, true)

	req.Error(err)
	req.ErrorContains(err, "countdown edit")
}

func TestBroadcaster_CountdownWriting_TerminalMessage(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	rooms := []domain.RoomID{"room-a", "room-b"}
	sendRef := func(_ context.Context, room domain.RoomID, _ string) (domain.MessageRef, error) {
		return domain.MessageRef{Room: room, ID: uuid.New()}, nil
	}

	banner := platform.EXPECT().
		Send(gomock.Any(), gomock.Any(), "2 seconds before the end of breakout").
		DoAndReturn(sendRef).Times(2)
	platform.EXPECT().
		Send(gomock.Any(), gomock.Any(), "Time's up!").
		DoAndReturn(sendRef).Times(2).After(banner)

	// Verbosity 0 keeps the digits silent even in the writing phase
	broadcaster := NewBroadcaster(platform, log, testTick, 0)
	err := broadcaster.CountdownWriting(context.Background(), rooms, 2)
	req.NoError(err)
}

func TestBroadcaster_SendToAll_CollectsHandles(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	rooms := []domain.RoomID{"room-a", "room-b", "room-c"}
	platform.EXPECT().
		Send(gomock.Any(), gomock.Any(), "hello").
		DoAndReturn(func(_ context.Context, room domain.RoomID, _ string) (domain.MessageRef, error) {
			return domain.MessageRef{Room: room, ID: uuid.New()}, nil
		}).Times(3)

	broadcaster := NewBroadcaster(platform, log, testTick, 0)
	refs, err := broadcaster.SendToAll(context.Background(), rooms, "hello")

	req.NoError(err)
	req.Len(refs, 3)
	// Handles land at the index of their room
	for i, room := range rooms {
		req.Equal(room, refs[i].Room)
	}
}
