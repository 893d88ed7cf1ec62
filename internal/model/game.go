package model

import "time"

// GameID uniquely identifies a game session
type GameID int64

// GameStatus represents the lifecycle phase of a game session
type GameStatus string

const (
	GameStatusPending  GameStatus = "pending"  // Created, no winner recorded yet
	GameStatusFinished GameStatus = "finished" // Winner recorded; terminal
)

// DefaultGameDuration is the advisory game length in seconds
const DefaultGameDuration = 300

// Game represents a single two-player guessing session.
// Winner, once set, is immutable and must be one of the two players.
type Game struct {
	ID        GameID
	Player1   UserID
	Player2   UserID
	Winner    *UserID
	Secret    string // the character the players try to guess
	Duration  int    // seconds, advisory
	CreatedAt time.Time
}

// Status derives the lifecycle state from the winner field
func (g *Game) Status() GameStatus {
	if g.Winner != nil {
		return GameStatusFinished
	}
	return GameStatusPending
}

// HasPlayer reports whether the given user is one of the game's players
func (g *Game) HasPlayer(id UserID) bool {
	return id == g.Player1 || id == g.Player2
}
