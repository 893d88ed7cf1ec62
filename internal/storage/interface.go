package storage

import (
	"context"

	"github.com/guesswho/guesswho-go/internal/model"
)

// Storage defines the interface for durable persistence of users, games and
// messages. Identifiers are assigned by the backend on creation.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, username string) (*model.User, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	IncrementScore(ctx context.Context, id model.UserID, delta int) error

	// Game operations
	CreateGame(ctx context.Context, player1, player2 model.UserID, secret string, duration int) (*model.Game, error)
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	SetWinner(ctx context.Context, id model.GameID, winner model.UserID) error

	// Message operations
	AppendMessage(ctx context.Context, gameID model.GameID, sender model.UserID, text string) (*model.Message, error)
	ListMessages(ctx context.Context, gameID model.GameID) ([]*model.Message, error)
}
