package workers

import (
	"breakout-lab/domain"
	"context"
	"log/slog"
)

// MessageHandler receives every message the dispatcher saw. The session's
// relay path sits behind this.
type MessageHandler interface {
	OnMessage(ctx context.Context, msg domain.Message) error
}

// ListenerWorker drains the inbound-message channel into the handler, so
// platform callbacks hand off through a buffer instead of blocking on
// relay fan-out.
type ListenerWorker struct {
	log     *slog.Logger
	handler MessageHandler
	inbound chan domain.Message
}

func NewListenerWorker(log *slog.Logger, handler MessageHandler, inbound chan domain.Message) *ListenerWorker {
	return &ListenerWorker{log: log, handler: handler, inbound: inbound}
}

func (w *ListenerWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping listener")
			return nil
		case msg, ok := <-w.inbound:
			if !ok {
				return nil
			}
			if err := w.handler.OnMessage(ctx, msg); err != nil {
				w.log.Warn("Relay failed", "room", string(msg.Room), "error", err)
			}
		}
	}
}
