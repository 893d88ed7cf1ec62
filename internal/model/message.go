package model

import "time"

// MessageID uniquely identifies a chat message
type MessageID int64

// Message is a single chat line within a game session.
// Messages are append-only; they are never mutated or deleted.
type Message struct {
	ID        MessageID
	GameID    GameID
	SenderID  UserID
	Text      string
	Timestamp time.Time
}
