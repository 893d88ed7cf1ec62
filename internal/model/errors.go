package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameExists  = errors.New("username already exists")
	ErrInvalidUsername = errors.New("username must not be empty")

	// Game errors
	ErrGameNotFound  = errors.New("game not found")
	ErrGameFinished  = errors.New("game is already finished")
	ErrInvalidWinner = errors.New("winner must be one of the game's players")
	ErrSamePlayer    = errors.New("a game needs two distinct players")

	// Message errors
	ErrMessageNotFound = errors.New("message not found")

	// Room errors
	ErrNotInRoom = errors.New("connection is not a member of this room")
)
