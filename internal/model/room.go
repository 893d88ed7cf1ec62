package model

// RoomID identifies a logical channel grouping participants for fan-out
type RoomID string

// ConnectionID is the ephemeral handle for a single client connection
type ConnectionID string
