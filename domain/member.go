package domain

type MemberID string

// Member is a participant of the group space. Voice presence is platform
// state and is queried live, never cached here.
type Member struct {
	ID          MemberID
	DisplayName string
}
