package domain

type RoomID string

type RoomKind int

const (
	TextRoom RoomKind = iota
	VoiceRoom
)

func (k RoomKind) String() string {
	switch k {
	case TextRoom:
		return "text"
	case VoiceRoom:
		return "voice"
	default:
		return "unknown"
	}
}

// Room is a channel of the group space. Private rooms are bound 1:1 to a
// role and carry its name; the lobby rooms are shared and carry no role.
type Room struct {
	ID        RoomID
	Name      string
	Kind      RoomKind
	UserLimit int // 0 means unlimited
}
