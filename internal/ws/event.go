package ws

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventType identifies the type of a socket event
type EventType string

const (
	// Inbound events
	EventJoin    EventType = "join"
	EventMessage EventType = "message"
	EventLeave   EventType = "leave"

	// Outbound events
	EventUserJoined     EventType = "user_joined"
	EventReceiveMessage EventType = "receive_message"
	EventUserLeft       EventType = "user_left"
)

// Event is the wire envelope for socket traffic in both directions.
// Which fields are meaningful depends on Type; Validate enforces the
// inbound contract at the boundary.
type Event struct {
	Type    EventType `json:"type"`
	Room    string    `json:"room,omitempty"`
	Sender  int64     `json:"sender,omitempty"`
	Text    string    `json:"text,omitempty"`
	GameID  int64     `json:"game_id,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Validation errors for inbound events
var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingRoom      = errors.New("event requires a room")
	ErrMissingText      = errors.New("message event requires text")
)

// DecodeEvent parses and validates an inbound event
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("malformed event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks that an inbound event carries the fields its type requires
func (e Event) Validate() error {
	switch e.Type {
	case EventJoin:
		if e.Room == "" {
			return ErrMissingRoom
		}
	case EventMessage:
		if e.Room == "" {
			return ErrMissingRoom
		}
		if e.Text == "" {
			return ErrMissingText
		}
	case EventLeave:
		// No payload required
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
	return nil
}
