package main

import (
	"breakout-lab/domain"
	"breakout-lab/infrastructure/memory"
	"breakout-lab/internal"
	"breakout-lab/moderation"
	"breakout-lab/runtime/workers"
	"breakout-lab/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Breakout simulator terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run seeds an in-memory group space and drives one scripted breakout
// through the real engine: setup, dispersal, countdowns, return to lobby.
// A real deployment replaces the memory platform with a platform client
// and the scripted calls with the external command dispatcher.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	censorChar, err := internal.CensorRune(config.CensorChar)
	if err != nil {
		return exitConfig, err
	}
	censor, err := moderation.NewCensor(internal.SplitWords(config.CensoredWords), censorChar)
	if err != nil {
		return exitConfig, fmt.Errorf("censor setup: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Group space & service
	platform := memory.NewPlatform()
	service := services.NewBreakoutService(platform, log, config, censor)
	if err := service.Setup(ctx); err != nil {
		return exitRuntime, fmt.Errorf("setup failed: %w", err)
	}

	lobbyVoice, err := platform.RoomByName(ctx, config.LobbyChannel, domain.VoiceRoom)
	if err != nil {
		return exitRuntime, fmt.Errorf("lobby voice lookup: %w", err)
	}
	if lobbyVoice == nil {
		return exitRuntime, fmt.Errorf("lobby voice room missing after setup")
	}

	groups := max(config.SimulatedGroups, 2)
	groupSize := max(config.SimulatedGroupSize, 3)
	for g := 1; g <= groups; g++ {
		name := fmt.Sprintf("group-%02d", g)
		role, err := platform.CreateRole(ctx, name, true)
		if err != nil {
			return exitRuntime, err
		}
		for i := 1; i <= groupSize; i++ {
			member := platform.AddMember(fmt.Sprintf("%s-participant-%d", name, i))
			platform.AssignRole(member.ID, role.ID)
			platform.Connect(member.ID, lobbyVoice.ID)
		}
	}

	// 3. Background workers next to the session
	inbound := make(chan domain.Message, config.InboundBufferSize)
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(
		workers.NewListenerWorker(log, service, inbound),
		workers.NewHeartbeatWorker(log, config.HeartbeatInterval, func() domain.SessionState {
			if session := service.Session(); session != nil {
				return session.State()
			}
			return domain.StateIdle
		}),
	)
	go supervisor.Run(ctx)
	defer supervisor.Stop()

	// 4. One scripted breakout
	discussion := max(config.DiscussionSeconds, 1)
	writing := config.WritingSeconds
	log.Info(fmt.Sprintf("Running breakout: %ds discussion, %ds writing", discussion, writing))
	if err := service.Breakout(ctx, discussion, writing); err != nil {
		return exitRuntime, fmt.Errorf("breakout failed: %w", err)
	}

	printRoster(platform, lobbyVoice.ID)
	return exitOK, nil
}

// printRoster renders the provisioned rooms and the final voice occupancy.
func printRoster(platform *memory.Platform, lobbyVoice domain.RoomID) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room", "Kind", "User limit", "Occupants"})

	for _, room := range platform.RoomsOfKind(domain.VoiceRoom) {
		occupants := len(platform.VoiceOccupants(room.ID))
		table.Append([]string{room.Name, room.Kind.String(), strconv.Itoa(room.UserLimit), strconv.Itoa(occupants)})
	}
	for _, room := range platform.RoomsOfKind(domain.TextRoom) {
		table.Append([]string{room.Name, room.Kind.String(), strconv.Itoa(room.UserLimit), "-"})
	}
	table.Render()

	fmt.Printf("Everyone back in lobby voice: %d members\n", len(platform.VoiceOccupants(lobbyVoice)))
}
