package services

import (
	"breakout-lab/contract"
	"breakout-lab/domain"
	apperrors "breakout-lab/errors"
	"breakout-lab/internal"
	"breakout-lab/moderation"
	"breakout-lab/runtime"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
)

// IBreakoutService is the surface the external command dispatcher calls:
// `setup` maps to Setup, `breakout [d] [w]` to Breakout, and every inbound
// message to OnMessage.
type IBreakoutService interface {
	Setup(ctx context.Context) error
	Breakout(ctx context.Context, discussionSeconds, writingSeconds int) error
	OnMessage(ctx context.Context, msg domain.Message) error
}

type BreakoutService struct {
	mu       sync.Mutex
	log      *slog.Logger
	platform contract.Platform
	config   internal.Config
	censor   *moderation.Censor
	validate *validator.Validate
	session  *runtime.Session
}

func NewBreakoutService(platform contract.Platform, log *slog.Logger, config internal.Config, censor *moderation.Censor) *BreakoutService {
	return &BreakoutService{
		log:      log,
		platform: platform,
		config:   config,
		censor:   censor,
		validate: validator.New(),
	}
}

type breakoutRequest struct {
	DiscussionSeconds int `validate:"required,gte=1,lte=86400"`
	WritingSeconds    int `validate:"gte=0,lte=86400"`
}

// Setup ensures the shared lobby text and voice rooms exist and arms a
// session on them. Idempotent: a second call reuses the lobby rooms and
// replaces the idle session with an equivalent one.
func (s *BreakoutService) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Info("Setting up the breakout environment")

	lobbyText, err := s.ensureLobbyRoom(ctx, domain.TextRoom)
	if err != nil {
		return err
	}
	lobbyVoice, err := s.ensureLobbyRoom(ctx, domain.VoiceRoom)
	if err != nil {
		return err
	}

	provisioner := runtime.NewProvisioner(s.platform, s.log, s.config.FacilitatorRole)
	if _, err := provisioner.EnsureRole(ctx, s.config.FacilitatorRole); err != nil {
		return err
	}

	broadcaster := runtime.NewBroadcaster(s.platform, s.log, s.config.TickInterval, s.config.Verbosity)
	mover := runtime.NewMover(s.platform, s.log)
	s.session = runtime.NewSession(
		s.platform, s.log,
		provisioner, broadcaster, mover, s.censor,
		lobbyText, lobbyVoice,
		s.config.FacilitatorRole, s.config.CommandPrefix,
		s.config.RoomUserLimit,
	)
	return nil
}

// ensureLobbyRoom creates the shared lobby room when absent. The lobby is
// public by construction: no overwrites, no user limit.
func (s *BreakoutService) ensureLobbyRoom(ctx context.Context, kind domain.RoomKind) (domain.Room, error) {
	room, err := s.platform.RoomByName(ctx, s.config.LobbyChannel, kind)
	if err != nil {
		return domain.Room{}, fmt.Errorf("lobby lookup (%s): %w", kind, err)
	}
	if room != nil {
		return *room, nil
	}

	s.log.Info(fmt.Sprintf("Creating lobby %s room %s", kind, s.config.LobbyChannel))
	created, err := s.platform.CreateRoom(ctx, s.config.LobbyChannel, kind, nil, 0)
	if err != nil {
		return domain.Room{}, fmt.Errorf("lobby creation (%s): %w", kind, err)
	}
	return created, nil
}

// Breakout validates the requested phase durations and runs one full
// breakout on the armed session.
func (s *BreakoutService) Breakout(ctx context.Context, discussionSeconds, writingSeconds int) error {
	session := s.Session()
	if session == nil {
		s.log.Info("Please set up the environment first")
		return apperrors.ErrNotProvisioned
	}

	request := breakoutRequest{DiscussionSeconds: discussionSeconds, WritingSeconds: writingSeconds}
	if err := s.validate.Struct(request); err != nil {
		return fmt.Errorf("invalid breakout request: %w", err)
	}

	return session.Run(ctx, discussionSeconds, writingSeconds)
}

// OnMessage forwards an inbound message to the session's relay path.
// Messages arriving before Setup are dropped.
func (s *BreakoutService) OnMessage(ctx context.Context, msg domain.Message) error {
	session := s.Session()
	if session == nil {
		return nil
	}
	return session.OnInboundMessage(ctx, msg)
}

// Session exposes the armed session, nil before Setup.
func (s *BreakoutService) Session() *runtime.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}
