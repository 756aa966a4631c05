// Package runtime drives the breakout session: provisioning, countdown
// broadcasting, member relocation and the state machine tying them together.
// It orchestrates the platform without containing domain rules.
package runtime

import (
	"breakout-lab/contract"
	"breakout-lab/domain"
	"context"
	"fmt"
	"log/slog"
)

// Provisioner idempotently converges roles and their private rooms.
// Calling it twice with the same inputs yields the same single role/room,
// and every pass re-applies the current access policy, so a facilitator
// change propagates to already existing rooms.
type Provisioner struct {
	platform        contract.Platform
	log             *slog.Logger
	facilitatorRole string
}

func NewProvisioner(platform contract.Platform, log *slog.Logger, facilitatorRole string) *Provisioner {
	return &Provisioner{platform: platform, log: log, facilitatorRole: facilitatorRole}
}

// EnsureRole returns the role named name, creating it when absent.
// Created roles are mentionable and carry no color.
func (p *Provisioner) EnsureRole(ctx context.Context, name string) (domain.Role, error) {
	role, err := p.platform.RoleByName(ctx, name)
	if err != nil {
		return domain.Role{}, fmt.Errorf("role lookup %q: %w", name, err)
	}
	if role != nil {
		p.log.Info(fmt.Sprintf("Role %s already exists", name))
		return *role, nil
	}

	p.log.Info(fmt.Sprintf("Create role %s", name))
	created, err := p.platform.CreateRole(ctx, name, true)
	if err != nil {
		return domain.Role{}, fmt.Errorf("role creation %q: %w", name, err)
	}
	return created, nil
}

// EnsureRoom returns the private room of the given kind owned by role,
// creating it when absent. An existing room gets the current overwrites
// re-applied: overwrites are not assumed stable between runs.
func (p *Provisioner) EnsureRoom(ctx context.Context, role domain.Role, kind domain.RoomKind, userLimit int, speakingEnabled bool) (domain.Room, error) {
	overwrites, err := p.roomOverwrites(ctx, role.ID, speakingEnabled)
	if err != nil {
		return domain.Room{}, err
	}

	room, err := p.platform.RoomByName(ctx, role.Name, kind)
	if err != nil {
		return domain.Room{}, fmt.Errorf("room lookup %q (%s): %w", role.Name, kind, err)
	}
	if room == nil {
		p.log.Info(fmt.Sprintf("Creating %s room %s", kind, role.Name))
		created, err := p.platform.CreateRoom(ctx, role.Name, kind, overwrites, userLimit)
		if err != nil {
			return domain.Room{}, fmt.Errorf("room creation %q (%s): %w", role.Name, kind, err)
		}
		return created, nil
	}

	if err := p.platform.ApplyOverwrites(ctx, room.ID, overwrites); err != nil {
		return domain.Room{}, fmt.Errorf("overwrite update for %q: %w", role.Name, err)
	}
	return *room, nil
}

func (p *Provisioner) roomOverwrites(ctx context.Context, owner domain.RoleID, speakingEnabled bool) (map[domain.RoleID]domain.Overwrite, error) {
	defaultRole, err := p.platform.DefaultRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("default role lookup: %w", err)
	}
	facilitator, err := p.EnsureRole(ctx, p.facilitatorRole)
	if err != nil {
		return nil, err
	}
	return domain.Overwrites(defaultRole.ID, facilitator.ID, owner, speakingEnabled), nil
}
