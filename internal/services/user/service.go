package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/guesswho/guesswho-go/internal/model"
	"github.com/guesswho/guesswho-go/internal/storage"
)

// Service manages user registration and lookups
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new user service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "user")),
	}
}

// Register creates a new user with the given username
func (s *Service) Register(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrInvalidUsername
	}

	user, err := s.storage.CreateUser(ctx, username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Get retrieves a user by id
func (s *Service) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// List returns all users
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.storage.ListUsers(ctx)
}
