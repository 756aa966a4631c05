package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	LobbyChannel      string        `env:"LOBBY_CHANNEL,required=true"`
	FacilitatorRole   string        `env:"FACILITATOR_ROLE,required=true"`
	CommandPrefix     string        `env:"COMMAND_PREFIX,required=true"`
	Verbosity         int           `env:"VERBOSITY,required=true"`
	TickInterval      time.Duration `env:"TICK_INTERVAL,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	RoomUserLimit     int           `env:"ROOM_USER_LIMIT"`
	InboundBufferSize int           `env:"INBOUND_BUFFER_SIZE,required=true"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,required=true"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,required=true"`

	// Broadcast moderation; empty word list disables censoring.
	CensoredWords string `env:"CENSORED_WORDS"`
	CensorChar    string `env:"CENSOR_CHARACTER"`

	// Simulator seeding
	SimulatedGroups    int `env:"SIMULATED_GROUPS"`
	SimulatedGroupSize int `env:"SIMULATED_GROUP_SIZE"`
	DiscussionSeconds  int `env:"DISCUSSION_SECONDS"`
	WritingSeconds     int `env:"WRITING_SECONDS"`
}

// CensorRune narrows CENSOR_CHARACTER down to a single rune.
func CensorRune(str string) (rune, error) {
	if str == "" {
		return '*', nil
	}
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSOR_CHARACTER must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// SplitWords turns the comma separated CENSORED_WORDS value into a clean list.
func SplitWords(csv string) []string {
	words := lo.Map(strings.Split(csv, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Filter(words, func(w string, _ int) bool { return w != "" })
}
