//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"breakout-lab/domain"
	"context"
	"reflect"
)

// Platform is the chat/voice collaborator the engine drives. It owns the
// connection, authentication and rate limiting; the engine only issues the
// calls below and caches identity, never content.
//
// Lookups return a nil pointer when the entity is absent; an error means
// the platform call itself failed.
type Platform interface {
	RoleByName(ctx context.Context, name string) (*domain.Role, error)
	CreateRole(ctx context.Context, name string, mentionable bool) (domain.Role, error)
	Roles(ctx context.Context) ([]domain.Role, error)
	DefaultRole(ctx context.Context) (domain.Role, error)

	RoomByName(ctx context.Context, name string, kind domain.RoomKind) (*domain.Room, error)
	CreateRoom(ctx context.Context, name string, kind domain.RoomKind, overwrites map[domain.RoleID]domain.Overwrite, userLimit int) (domain.Room, error)
	ApplyOverwrites(ctx context.Context, room domain.RoomID, overwrites map[domain.RoleID]domain.Overwrite) error

	Send(ctx context.Context, room domain.RoomID, content string) (domain.MessageRef, error)
	Edit(ctx context.Context, ref domain.MessageRef, content string) error

	MembersWithRole(ctx context.Context, role domain.RoleID) ([]domain.Member, error)
	// VoiceRoom returns the room the member is currently connected to,
	// or the empty RoomID when the member is not in voice at all.
	VoiceRoom(ctx context.Context, member domain.MemberID) (domain.RoomID, error)
	MoveToVoice(ctx context.Context, member domain.MemberID, room domain.RoomID) error

	// BotID identifies the engine's own platform account, used to break
	// relay feedback loops.
	BotID() domain.MemberID
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
