package model

import "time"

// UserID uniquely identifies a user across the system
type UserID int64

// User represents a registered chat participant.
// Score only ever grows; updates go through increment-only storage operations.
type User struct {
	ID        UserID
	Username  string
	Score     int
	CreatedAt time.Time
}
