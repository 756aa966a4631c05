package runtime

import (
	"breakout-lab/contract"
	"breakout-lab/domain"
	apperrors "breakout-lab/errors"
	"breakout-lab/moderation"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Session is the breakout state machine. One session exists per group
// space; at most one run is in flight at a time. It owns the lobby rooms,
// the facilitator identity and the active-room set used for broadcast
// routing during the current run.
type Session struct {
	mu          sync.Mutex
	log         *slog.Logger
	platform    contract.Platform
	provisioner *Provisioner
	broadcaster *Broadcaster
	mover       *Mover
	censor      *moderation.Censor

	lobbyText       domain.Room
	lobbyVoice      domain.Room
	facilitatorRole string
	commandPrefix   string
	roomUserLimit   int

	state       domain.SessionState
	activeRooms []domain.RoomID
}

func NewSession(
	platform contract.Platform,
	log *slog.Logger,
	provisioner *Provisioner,
	broadcaster *Broadcaster,
	mover *Mover,
	censor *moderation.Censor,
	lobbyText, lobbyVoice domain.Room,
	facilitatorRole, commandPrefix string,
	roomUserLimit int,
) *Session {
	return &Session{
		log:             log,
		platform:        platform,
		provisioner:     provisioner,
		broadcaster:     broadcaster,
		mover:           mover,
		censor:          censor,
		lobbyText:       lobbyText,
		lobbyVoice:      lobbyVoice,
		facilitatorRole: facilitatorRole,
		commandPrefix:   commandPrefix,
		roomUserLimit:   roomUserLimit,
		state:           domain.StateIdle,
	}
}

// Run drives one full breakout: provision and disperse, discuss, optionally
// write, then return everyone to the lobby. The writing phase is skipped
// when writingSeconds is zero; the discussion phase is mandatory.
func (s *Session) Run(ctx context.Context, discussionSeconds, writingSeconds int) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.finish()

	if err := s.relocate(ctx, false); err != nil {
		return err
	}
	rooms := s.ActiveRooms()

	s.setState(domain.StateDiscussing)
	if err := s.broadcaster.CountdownDiscussion(ctx, rooms, discussionSeconds); err != nil {
		return err
	}

	if writingSeconds > 0 {
		s.setState(domain.StateWriting)
		if err := s.broadcaster.CountdownWriting(ctx, rooms, writingSeconds); err != nil {
			return err
		}
	}

	s.setState(domain.StateReturning)
	return s.relocate(ctx, true)
}

// begin rejects overlapping runs and resets the active-room set before any
// concurrent reader exists.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateIdle {
		return apperrors.ErrSessionBusy
	}
	s.state = domain.StateProvisioning
	s.activeRooms = nil
	return nil
}

// finish returns the session to Idle and drops the active-room set, so a
// finished run never routes broadcasts to stale rooms.
func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateIdle
	s.activeRooms = nil
}

func (s *Session) setState(state domain.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Debug(fmt.Sprintf("Session state %s -> %s", s.state, state))
	s.state = state
}

// State reports the current phase of the session.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveRooms returns a snapshot of the text rooms eligible for broadcasts
// during the current run.
func (s *Session) ActiveRooms() []domain.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.RoomID, len(s.activeRooms))
	copy(out, s.activeRooms)
	return out
}

func (s *Session) addActiveRoom(room domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.Contains(s.activeRooms, room) {
		return
	}
	s.activeRooms = append(s.activeRooms, room)
}

// relocate queues one move per member of every breakout role and hands the
// batch to the mover. Outbound (toLobby false) re-provisions each role's
// private rooms first, registering the text room for broadcast routing;
// inbound targets the single shared lobby voice room. Provisioning errors
// fail fast, individual move failures do not.
func (s *Session) relocate(ctx context.Context, toLobby bool) error {
	roles, err := s.platform.Roles(ctx)
	if err != nil {
		return fmt.Errorf("role listing: %w", err)
	}
	defaultRole, err := s.platform.DefaultRole(ctx)
	if err != nil {
		return fmt.Errorf("default role lookup: %w", err)
	}

	var moves []Move
	for _, role := range roles {
		if role.ID == defaultRole.ID || role.Name == s.facilitatorRole {
			continue
		}

		target := s.lobbyVoice.ID
		if !toLobby {
			voice, err := s.provisioner.EnsureRoom(ctx, role, domain.VoiceRoom, s.roomUserLimit, true)
			if err != nil {
				return err
			}
			text, err := s.provisioner.EnsureRoom(ctx, role, domain.TextRoom, 0, true)
			if err != nil {
				return err
			}
			s.addActiveRoom(text.ID)
			target = voice.ID
		}

		members, err := s.platform.MembersWithRole(ctx, role.ID)
		if err != nil {
			return fmt.Errorf("member listing for role %s: %w", role.Name, err)
		}
		for _, member := range members {
			moves = append(moves, Move{Member: member, Target: target})
		}
	}

	s.mover.MoveAll(ctx, moves)
	return nil
}

// OnInboundMessage is the single subscription point the external dispatcher
// invokes for every message it sees. A non-command message posted in the
// lobby text room is relayed verbatim, plus attachment URLs, to every
// active room, letting the facilitator address all groups at once.
// Messages authored by the engine's own account are ignored.
func (s *Session) OnInboundMessage(ctx context.Context, msg domain.Message) error {
	if msg.AuthorID == s.platform.BotID() {
		return nil
	}
	if msg.Room != s.lobbyText.ID || strings.HasPrefix(msg.Content, s.commandPrefix) {
		return nil
	}

	s.log.Info("Broadcast message")
	var sb strings.Builder
	if msg.Content != "" {
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	if len(msg.Attachments) > 0 {
		urls := lo.Map(msg.Attachments, func(a domain.Attachment, _ int) string { return a.URL })
		sb.WriteString(strings.Join(urls, "\n"))
	}

	_, err := s.broadcaster.SendToAll(ctx, s.ActiveRooms(), s.censor.Censor(sb.String()))
	return err
}
