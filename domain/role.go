// Package domain contains core concepts of the breakout system.
// This file defines Role entities. One role identifies one breakout group.
// No runtime, network, or UI logic should be added here.
package domain

type RoleID string

// Role identifies one breakout group inside the group space.
// The platform owns its member set; the engine only references it.
type Role struct {
	ID   RoleID
	Name string
}
