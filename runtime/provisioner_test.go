package runtime

import (
	"breakout-lab/domain"
	"breakout-lab/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProvisioner_EnsureRole_ReusesExisting(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	existing := domain.Role{ID: "role-1", Name: "group-01"}
	// Given the role already exists
	platform.EXPECT().RoleByName(gomock.Any(), "group-01").Return(&existing, nil).Times(1)

	// When ensuring it, no creation happens
	provisioner := NewProvisioner(platform, log, "facilitator")
	role, err := provisioner.EnsureRole(context.Background(), "group-01")

	req.NoError(err)
	req.Equal(existing, role)
}

func TestProvisioner_EnsureRole_CreatesWhenAbsent(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	created := domain.Role{ID: "role-1", Name: "group-01"}
	platform.EXPECT().RoleByName(gomock.Any(), "group-01").Return(nil, nil).Times(1)
	// Created roles are mentionable
	platform.EXPECT().CreateRole(gomock.Any(), "group-01", true).Return(created, nil).Times(1)

	provisioner := NewProvisioner(platform, log, "facilitator")
	role, err := provisioner.EnsureRole(context.Background(), "group-01")

	req.NoError(err)
	req.Equal(created, role)
}

func TestProvisioner_EnsureRoom_IdempotentAndReconverges(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	owner := domain.Role{ID: "role-1", Name: "group-01"}
	facilitator := domain.Role{ID: "role-f", Name: "facilitator"}
	defaultRole := domain.Role{ID: "role-e", Name: "@everyone"}
	room := domain.Room{ID: "room-1", Name: "group-01", Kind: domain.VoiceRoom}

	platform.EXPECT().DefaultRole(gomock.Any()).Return(defaultRole, nil).AnyTimes()
	platform.EXPECT().RoleByName(gomock.Any(), "facilitator").Return(&facilitator, nil).AnyTimes()

	// Given the room does not exist yet, then exists on the second pass
	gomock.InOrder(
		platform.EXPECT().RoomByName(gomock.Any(), "group-01", domain.VoiceRoom).Return(nil, nil),
		platform.EXPECT().RoomByName(gomock.Any(), "group-01", domain.VoiceRoom).Return(&room, nil),
	)

	var createdWith map[domain.RoleID]domain.Overwrite
	platform.EXPECT().
		CreateRoom(gomock.Any(), "group-01", domain.VoiceRoom, gomock.Any(), 8).
		DoAndReturn(func(_ context.Context, _ string, _ domain.RoomKind, overwrites map[domain.RoleID]domain.Overwrite, _ int) (domain.Room, error) {
			createdWith = overwrites
			return room, nil
		}).Times(1)

	var reappliedWith map[domain.RoleID]domain.Overwrite
	platform.EXPECT().
		ApplyOverwrites(gomock.Any(), room.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.RoomID, overwrites map[domain.RoleID]domain.Overwrite) error {
			reappliedWith = overwrites
			return nil
		}).Times(1)

	provisioner := NewProvisioner(platform, log, "facilitator")

	// When provisioning twice with identical inputs
	first, err := provisioner.EnsureRoom(context.Background(), owner, domain.VoiceRoom, 8, true)
	req.NoError(err)
	second, err := provisioner.EnsureRoom(context.Background(), owner, domain.VoiceRoom, 8, true)
	req.NoError(err)

	// Then exactly one room exists and the second pass re-applied the policy
	req.Equal(first, second)
	req.Equal(createdWith, reappliedWith)

	// And the overwrite invariants hold
	req.False(createdWith[defaultRole.ID].Connect)
	req.False(createdWith[defaultRole.ID].Read)
	req.True(createdWith[owner.ID].Connect)
	req.True(createdWith[owner.ID].Read)
	req.True(createdWith[facilitator.ID].MoveMembers)
}

func TestProvisioner_EnsureRoom_FailsFast(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	platform := mocks.NewMockPlatform(ctrl)

	owner := domain.Role{ID: "role-1", Name: "group-01"}
	facilitator := domain.Role{ID: "role-f", Name: "facilitator"}
	platform.EXPECT().DefaultRole(gomock.Any()).Return(domain.Role{ID: "role-e"}, nil).AnyTimes()
	platform.EXPECT().RoleByName(gomock.Any(), "facilitator").Return(&facilitator, nil).AnyTimes()
	platform.EXPECT().RoomByName(gomock.Any(), "group-01", domain.TextRoom).Return(nil, nil)
	platform.EXPECT().
		CreateRoom(gomock.Any(), "group-01", domain.TextRoom, gomock.Any(), 0).
		Return(domain.Room{}, fmt.Errorf("missing permission"))

	provisioner := NewProvisioner(platform, log, "facilitator")
	_, err := provisioner.EnsureRoom(context.Background(), owner, domain.TextRoom, 0, true)

	// Provisioning failures propagate, they are never swallowed
	req.Error(err)
	req.ErrorContains(err, "room creation")
}
