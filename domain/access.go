package domain

// Overwrite is one channel-level permission override for a role.
// The zero value denies everything.
type Overwrite struct {
	Connect         bool
	Read            bool
	SendAndSpeak    bool
	PrioritySpeaker bool
	MoveMembers     bool
	ManageRoles     bool
}

// Overwrites computes the permission set of a private room owned by one
// breakout role. The facilitator keeps full control including the ability
// to move members, the default role is locked out, and the owning role
// connects and reads, with speaking gated by speakingEnabled (a listen-only
// room is expressed by passing false).
func Overwrites(defaultRole, facilitator, owner RoleID, speakingEnabled bool) map[RoleID]Overwrite {
	return map[RoleID]Overwrite{
		facilitator: {
			Connect:         true,
			Read:            true,
			PrioritySpeaker: true,
			MoveMembers:     true,
			ManageRoles:     true,
		},
		defaultRole: {},
		owner: {
			Connect:      true,
			Read:         true,
			SendAndSpeak: speakingEnabled,
		},
	}
}
