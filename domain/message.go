// Package domain contains core concepts of the breakout system.
// This file defines Message values crossing the platform boundary.
// Messages are immutable once received.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is an inbound chat message as handed over by the dispatcher.
type Message struct {
	ID          uuid.UUID
	Room        RoomID
	AuthorID    MemberID
	Content     string
	Attachments []Attachment
	CreatedAt   time.Time
}

type Attachment struct {
	URL string
}

// MessageRef is the handle returned by a send, used for later edits.
type MessageRef struct {
	Room RoomID
	ID   uuid.UUID
}
