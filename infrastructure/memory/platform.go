// Package memory provides an in-process reference implementation of the
// platform collaborator: a complete group space with roles, rooms, members,
// voice presence and an editable message store. It backs the end-to-end
// tests and the simulator binary; production deployments plug a real
// platform client in instead.
package memory

import (
	"breakout-lab/contract"
	"breakout-lab/domain"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type storedMessage struct {
	ref     domain.MessageRef
	content string
	sentAt  time.Time
}

// Platform is a mutex-guarded in-memory group space.
type Platform struct {
	mu sync.Mutex

	botID       domain.MemberID
	defaultRole domain.Role

	roles       []domain.Role
	members     map[domain.MemberID]domain.Member
	memberRoles map[domain.MemberID]map[domain.RoleID]struct{}
	rooms       []domain.Room
	overwrites  map[domain.RoomID]map[domain.RoleID]domain.Overwrite
	voice       map[domain.MemberID]domain.RoomID

	messages  map[uuid.UUID]*storedMessage
	roomOrder map[domain.RoomID][]uuid.UUID
	memberSeq int
}

var _ contract.Platform = (*Platform)(nil)

// NewPlatform builds an empty group space holding only the default
// everyone role and the engine's own account.
func NewPlatform() *Platform {
	p := &Platform{
		members:     make(map[domain.MemberID]domain.Member),
		memberRoles: make(map[domain.MemberID]map[domain.RoleID]struct{}),
		overwrites:  make(map[domain.RoomID]map[domain.RoleID]domain.Overwrite),
		voice:       make(map[domain.MemberID]domain.RoomID),
		messages:    make(map[uuid.UUID]*storedMessage),
		roomOrder:   make(map[domain.RoomID][]uuid.UUID),
	}
	p.defaultRole = domain.Role{ID: domain.RoleID(uuid.NewString()), Name: "@everyone"}
	p.roles = append(p.roles, p.defaultRole)

	bot := p.addMemberLocked("breakout-engine")
	p.botID = bot.ID
	return p
}

func (p *Platform) RoleByName(_ context.Context, name string) (*domain.Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	role, ok := lo.Find(p.roles, func(r domain.Role) bool { return r.Name == name })
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (p *Platform) CreateRole(_ context.Context, name string, _ bool) (domain.Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if lo.ContainsBy(p.roles, func(r domain.Role) bool { return r.Name == name }) {
		return domain.Role{}, fmt.Errorf("role %q already exists", name)
	}
	role := domain.Role{ID: domain.RoleID(uuid.NewString()), Name: name}
	p.roles = append(p.roles, role)
	return role, nil
}

func (p *Platform) Roles(_ context.Context) ([]domain.Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Role, len(p.roles))
	copy(out, p.roles)
	return out, nil
}

func (p *Platform) DefaultRole(_ context.Context) (domain.Role, error) {
	return p.defaultRole, nil
}

func (p *Platform) RoomByName(_ context.Context, name string, kind domain.RoomKind) (*domain.Room, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	room, ok := lo.Find(p.rooms, func(r domain.Room) bool { return r.Name == name && r.Kind == kind })
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (p *Platform) CreateRoom(_ context.Context, name string, kind domain.RoomKind, overwrites map[domain.RoleID]domain.Overwrite, userLimit int) (domain.Room, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if lo.ContainsBy(p.rooms, func(r domain.Room) bool { return r.Name == name && r.Kind == kind }) {
		return domain.Room{}, fmt.Errorf("%s room %q already exists", kind, name)
	}
	room := domain.Room{
		ID:        domain.RoomID(uuid.NewString()),
		Name:      name,
		Kind:      kind,
		UserLimit: userLimit,
	}
	p.rooms = append(p.rooms, room)
	p.overwrites[room.ID] = cloneOverwrites(overwrites)
	return room, nil
}

func (p *Platform) ApplyOverwrites(_ context.Context, room domain.RoomID, overwrites map[domain.RoleID]domain.Overwrite) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !lo.ContainsBy(p.rooms, func(r domain.Room) bool { return r.ID == room }) {
		return fmt.Errorf("unknown room %s", room)
	}
	p.overwrites[room] = cloneOverwrites(overwrites)
	return nil
}

func (p *Platform) Send(_ context.Context, room domain.RoomID, content string) (domain.MessageRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, ok := lo.Find(p.rooms, func(r domain.Room) bool { return r.ID == room })
	if !ok {
		return domain.MessageRef{}, fmt.Errorf("unknown room %s", room)
	}
	if target.Kind != domain.TextRoom {
		return domain.MessageRef{}, fmt.Errorf("room %s is not a text room", target.Name)
	}

	ref := domain.MessageRef{Room: room, ID: uuid.New()}
	p.messages[ref.ID] = &storedMessage{ref: ref, content: content, sentAt: time.Now()}
	p.roomOrder[room] = append(p.roomOrder[room], ref.ID)
	return ref, nil
}

func (p *Platform) Edit(_ context.Context, ref domain.MessageRef, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg, ok := p.messages[ref.ID]
	if !ok {
		return fmt.Errorf("unknown message %s", ref.ID)
	}
	msg.content = content
	return nil
}

func (p *Platform) MembersWithRole(_ context.Context, role domain.RoleID) ([]domain.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.Member
	for id, roles := range p.memberRoles {
		if _, ok := roles[role]; ok {
			out = append(out, p.members[id])
		}
	}
	return out, nil
}

func (p *Platform) VoiceRoom(_ context.Context, member domain.MemberID) (domain.RoomID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voice[member], nil
}

func (p *Platform) MoveToVoice(_ context.Context, member domain.MemberID, room domain.RoomID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.voice[member]; !ok {
		return fmt.Errorf("member %s is not connected to voice", member)
	}
	target, ok := lo.Find(p.rooms, func(r domain.Room) bool { return r.ID == room })
	if !ok {
		return fmt.Errorf("unknown room %s", room)
	}
	if target.Kind != domain.VoiceRoom {
		return fmt.Errorf("room %s is not a voice room", target.Name)
	}
	p.voice[member] = room
	return nil
}

func (p *Platform) BotID() domain.MemberID {
	return p.botID
}

// ---- seeding and inspection helpers, used by tests and the simulator ----

// AddMember registers a new participant.
func (p *Platform) AddMember(displayName string) domain.Member {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addMemberLocked(displayName)
}

func (p *Platform) addMemberLocked(displayName string) domain.Member {
	p.memberSeq++
	member := domain.Member{
		ID:          domain.MemberID(fmt.Sprintf("member-%03d", p.memberSeq)),
		DisplayName: displayName,
	}
	p.members[member.ID] = member
	p.memberRoles[member.ID] = map[domain.RoleID]struct{}{p.defaultRole.ID: {}}
	return member
}

// AssignRole adds a role to a member's role set.
func (p *Platform) AssignRole(member domain.MemberID, role domain.RoleID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if roles, ok := p.memberRoles[member]; ok {
		roles[role] = struct{}{}
	}
}

// Connect places a member into a voice room, as if they joined it themselves.
func (p *Platform) Connect(member domain.MemberID, room domain.RoomID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.voice[member] = room
}

// Disconnect drops a member from voice entirely.
func (p *Platform) Disconnect(member domain.MemberID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.voice, member)
}

// MessagesIn snapshots the current message contents of a room in send order.
// Edits show up in place: an edited countdown message stays one message.
func (p *Platform) MessagesIn(room domain.RoomID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo.Map(p.roomOrder[room], func(id uuid.UUID, _ int) string {
		return p.messages[id].content
	})
}

// OverwritesOf snapshots the overwrite map currently applied to a room.
func (p *Platform) OverwritesOf(room domain.RoomID) map[domain.RoleID]domain.Overwrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneOverwrites(p.overwrites[room])
}

// RoomsOfKind lists all rooms of one kind, in creation order.
func (p *Platform) RoomsOfKind(kind domain.RoomKind) []domain.Room {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo.Filter(p.rooms, func(r domain.Room, _ int) bool { return r.Kind == kind })
}

// VoiceOccupants lists the members currently connected to a voice room.
func (p *Platform) VoiceOccupants(room domain.RoomID) []domain.Member {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.Member
	for member, current := range p.voice {
		if current == room {
			out = append(out, p.members[member])
		}
	}
	return out
}

func cloneOverwrites(in map[domain.RoleID]domain.Overwrite) map[domain.RoleID]domain.Overwrite {
	out := make(map[domain.RoleID]domain.Overwrite, len(in))
	for role, overwrite := range in {
		out[role] = overwrite
	}
	return out
}
