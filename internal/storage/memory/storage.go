package memory

import (
	"context"
	"sync"

	"github.com/guesswho/guesswho-go/internal/dependencies/clock"
	"github.com/guesswho/guesswho-go/internal/model"
	"github.com/guesswho/guesswho-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	games         map[model.GameID]*model.Game
	messages      map[model.GameID][]*model.Message

	nextUserID    model.UserID
	nextGameID    model.GameID
	nextMessageID model.MessageID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates an in-memory storage with the given clock (for testing)
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		clock:         clk,
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		games:         make(map[model.GameID]*model.Game),
		messages:      make(map[model.GameID][]*model.Message),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernameIndex[username]; ok {
		return nil, model.ErrUsernameExists
	}

	s.nextUserID++
	user := &model.User{
		ID:        s.nextUserID,
		Username:  username,
		Score:     0,
		CreatedAt: s.clock.Now(),
	}
	s.users[user.ID] = user
	s.usernameIndex[username] = user.ID

	copied := *user
	return &copied, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.User, 0, len(s.users))
	for id := model.UserID(1); id <= s.nextUserID; id++ {
		if user, ok := s.users[id]; ok {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (s *Storage) IncrementScore(ctx context.Context, id model.UserID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.Score += delta
	return nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, player1, player2 model.UserID, secret string, duration int) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGameID++
	game := &model.Game{
		ID:        s.nextGameID,
		Player1:   player1,
		Player2:   player2,
		Secret:    secret,
		Duration:  duration,
		CreatedAt: s.clock.Now(),
	}
	s.games[game.ID] = game

	copied := *game
	return &copied, nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	copied := *game
	if game.Winner != nil {
		winner := *game.Winner
		copied.Winner = &winner
	}
	return &copied, nil
}

func (s *Storage) SetWinner(ctx context.Context, id model.GameID, winner model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok {
		return model.ErrGameNotFound
	}
	game.Winner = &winner
	return nil
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, gameID model.GameID, sender model.UserID, text string) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return nil, model.ErrGameNotFound
	}

	s.nextMessageID++
	msg := &model.Message{
		ID:        s.nextMessageID,
		GameID:    gameID,
		SenderID:  sender,
		Text:      text,
		Timestamp: s.clock.Now(),
	}
	s.messages[gameID] = append(s.messages[gameID], msg)

	copied := *msg
	return &copied, nil
}

func (s *Storage) ListMessages(ctx context.Context, gameID model.GameID) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[gameID]
	result := make([]*model.Message, 0, len(msgs))
	for _, msg := range msgs {
		copied := *msg
		result = append(result, &copied)
	}
	return result, nil
}
