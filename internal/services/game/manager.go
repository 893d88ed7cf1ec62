package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/guesswho/guesswho-go/internal/model"
	"github.com/guesswho/guesswho-go/internal/storage"
)

// Config holds configurable settings for game sessions
type Config struct {
	// WinPoints is the score awarded to the winning player
	WinPoints int
	// Duration is the advisory game length in seconds for new sessions
	Duration int
}

// DefaultConfig returns the default game configuration
func DefaultConfig() Config {
	return Config{
		WinPoints: 10,
		Duration:  model.DefaultGameDuration,
	}
}

// Manager owns the game session lifecycle: pending sessions are created
// through it and it performs the single pending -> finished transition,
// persisting the winner and awarding the win score.
type Manager struct {
	storage storage.Storage
	cfg     Config
	logger  *slog.Logger

	// Serializes RecordWinner so a session's winner is decided exactly once
	mu sync.Mutex
}

// NewManager creates a new game session manager
func NewManager(storage storage.Storage, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		storage: storage,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "game")),
	}
}

// CreateSession creates a new pending session between two players. On error
// the caller must not assume the session exists.
func (m *Manager) CreateSession(ctx context.Context, player1, player2 model.UserID, secret string) (*model.Game, error) {
	if player1 == player2 {
		return nil, model.ErrSamePlayer
	}

	game, err := m.storage.CreateGame(ctx, player1, player2, secret, m.cfg.Duration)
	if err != nil {
		m.logger.Error("failed to create game",
			slog.Int64("player1", int64(player1)),
			slog.Int64("player2", int64(player2)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	m.logger.Info("game created",
		slog.Int64("game_id", int64(game.ID)),
		slog.Int64("player1", int64(player1)),
		slog.Int64("player2", int64(player2)),
	)
	return game, nil
}

// GetSession retrieves a session by id
func (m *Manager) GetSession(ctx context.Context, id model.GameID) (*model.Game, error) {
	return m.storage.GetGame(ctx, id)
}

// RecordWinner transitions a pending session to finished, persists the
// winner and awards the win score. A finished session is rejected with
// ErrGameFinished; a winner outside the session's players with
// ErrInvalidWinner. The score increment is retried once on failure; the
// state check above ensures it is never applied twice for one session.
func (m *Manager) RecordWinner(ctx context.Context, id model.GameID, winner model.UserID) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, err := m.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if game.Status() == model.GameStatusFinished {
		return nil, model.ErrGameFinished
	}
	if !game.HasPlayer(winner) {
		return nil, model.ErrInvalidWinner
	}

	if err := m.storage.SetWinner(ctx, id, winner); err != nil {
		m.logger.Error("failed to set winner",
			slog.Int64("game_id", int64(id)),
			slog.Int64("winner", int64(winner)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	game.Winner = &winner

	if err := m.storage.IncrementScore(ctx, winner, m.cfg.WinPoints); err != nil {
		// At-least-once: one retry, then surface the failure. The winner is
		// already persisted, so a later call cannot re-award the points.
		m.logger.Warn("score increment failed, retrying",
			slog.Int64("game_id", int64(id)),
			slog.Int64("winner", int64(winner)),
			slog.String("error", err.Error()),
		)
		if err := m.storage.IncrementScore(ctx, winner, m.cfg.WinPoints); err != nil {
			m.logger.Error("score increment failed after retry",
				slog.Int64("game_id", int64(id)),
				slog.Int64("winner", int64(winner)),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
	}

	m.logger.Info("winner recorded",
		slog.Int64("game_id", int64(id)),
		slog.Int64("winner", int64(winner)),
	)
	return game, nil
}

// AppendMessage records a chat line in a session's transcript
func (m *Manager) AppendMessage(ctx context.Context, id model.GameID, sender model.UserID, text string) (*model.Message, error) {
	return m.storage.AppendMessage(ctx, id, sender, text)
}

// ListMessages returns a session's transcript, oldest first. The session
// must exist even when its transcript is empty.
func (m *Manager) ListMessages(ctx context.Context, id model.GameID) ([]*model.Message, error) {
	if _, err := m.storage.GetGame(ctx, id); err != nil {
		return nil, err
	}
	return m.storage.ListMessages(ctx, id)
}
