package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/guesswho/guesswho-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// User tests

func (s *StorageSuite) TestCreateAndGetUser() {
	created, err := s.storage.CreateUser(s.ctx, "alice")
	s.Require().NoError(err)

	s.Equal(model.UserID(1), created.ID)
	s.Equal("alice", created.Username)
	s.Equal(0, created.Score)

	retrieved, err := s.storage.GetUser(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Username, retrieved.Username)
	s.Equal(created.Score, retrieved.Score)
}

func (s *StorageSuite) TestCreateUserDuplicateUsername() {
	_, err := s.storage.CreateUser(s.ctx, "alice")
	s.Require().NoError(err)

	_, err = s.storage.CreateUser(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, 999)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByUsername() {
	created, err := s.storage.CreateUser(s.ctx, "alice")
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, retrieved.ID)
}

func (s *StorageSuite) TestGetUserByUsernameNotFound() {
	_, err := s.storage.GetUserByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestListUsers() {
	_, err := s.storage.CreateUser(s.ctx, "alice")
	s.Require().NoError(err)
	_, err = s.storage.CreateUser(s.ctx, "bob")
	s.Require().NoError(err)

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}

func (s *StorageSuite) TestIncrementScore() {
	user, err := s.storage.CreateUser(s.ctx, "alice")
	s.Require().NoError(err)

	err = s.storage.IncrementScore(s.ctx, user.ID, 10)
	s.Require().NoError(err)
	err = s.storage.IncrementScore(s.ctx, user.ID, 5)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(15, retrieved.Score)
}

func (s *StorageSuite) TestIncrementScoreUserNotFound() {
	err := s.storage.IncrementScore(s.ctx, 999, 10)
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Game tests

func (s *StorageSuite) TestCreateAndGetGame() {
	game, err := s.storage.CreateGame(s.ctx, 1, 2, "sherlock", 300)
	s.Require().NoError(err)

	s.Equal(model.GameID(1), game.ID)
	s.Nil(game.Winner)

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.UserID(1), retrieved.Player1)
	s.Equal(model.UserID(2), retrieved.Player2)
	s.Equal("sherlock", retrieved.Secret)
	s.Equal(300, retrieved.Duration)
	s.Nil(retrieved.Winner)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, 999)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSetWinner() {
	game, err := s.storage.CreateGame(s.ctx, 1, 2, "sherlock", 300)
	s.Require().NoError(err)

	err = s.storage.SetWinner(s.ctx, game.ID, 2)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().NotNil(retrieved.Winner)
	s.Equal(model.UserID(2), *retrieved.Winner)
}

func (s *StorageSuite) TestSetWinnerGameNotFound() {
	err := s.storage.SetWinner(s.ctx, 999, 1)
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Message tests

func (s *StorageSuite) TestAppendAndListMessages() {
	game, err := s.storage.CreateGame(s.ctx, 1, 2, "sherlock", 300)
	s.Require().NoError(err)

	_, err = s.storage.AppendMessage(s.ctx, game.ID, 1, "is it a man?")
	s.Require().NoError(err)
	_, err = s.storage.AppendMessage(s.ctx, game.ID, 2, "yes")
	s.Require().NoError(err)

	msgs, err := s.storage.ListMessages(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().Len(msgs, 2)
	s.Equal("is it a man?", msgs[0].Text)
	s.Equal(model.UserID(1), msgs[0].SenderID)
	s.Equal("yes", msgs[1].Text)
}

func (s *StorageSuite) TestAppendMessageGameNotFound() {
	_, err := s.storage.AppendMessage(s.ctx, 999, 1, "hello")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestListMessagesEmptyForUnknownGame() {
	msgs, err := s.storage.ListMessages(s.ctx, 999)
	s.Require().NoError(err)
	s.Empty(msgs)
}

func (s *StorageSuite) TestIDsAreSequentialAcrossUsers() {
	u1, err := s.storage.CreateUser(s.ctx, "alice")
	s.Require().NoError(err)
	u2, err := s.storage.CreateUser(s.ctx, "bob")
	s.Require().NoError(err)

	s.Equal(model.UserID(1), u1.ID)
	s.Equal(model.UserID(2), u2.ID)
}
