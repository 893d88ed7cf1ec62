package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guesswho/guesswho-go/internal/model"
	"github.com/guesswho/guesswho-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Users are stored as hashes so score increments are atomic; games are JSON
// values and messages are JSON entries in a per-game list.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, username string) (*model.User, error) {
	id, err := s.client.Incr(ctx, userIDCounter).Result()
	if err != nil {
		return nil, err
	}

	// Claim the username; if it is already taken the id is wasted, which is fine
	claimed, err := s.client.SetNX(ctx, usernameKey(username), id, 0).Result()
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, model.ErrUsernameExists
	}

	now := time.Now()
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, userKey(model.UserID(id)),
		"username", username,
		"score", 0,
		"created_at", now.Format(time.RFC3339Nano))
	pipe.SAdd(ctx, userIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return &model.User{
		ID:        model.UserID(id),
		Username:  username,
		Score:     0,
		CreatedAt: now,
	}, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrUserNotFound
	}
	return userFromFields(id, fields)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, userIndexKey).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, err
		}
		user, err := s.GetUser(ctx, model.UserID(id))
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Storage) IncrementScore(ctx context.Context, id model.UserID, delta int) error {
	exists, err := s.client.Exists(ctx, userKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrUserNotFound
	}
	return s.client.HIncrBy(ctx, userKey(id), "score", int64(delta)).Err()
}

func userFromFields(id model.UserID, fields map[string]string) (*model.User, error) {
	score, err := strconv.Atoi(fields["score"])
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, err
	}
	return &model.User{
		ID:        id,
		Username:  fields["username"],
		Score:     score,
		CreatedAt: createdAt,
	}, nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, player1, player2 model.UserID, secret string, duration int) (*model.Game, error) {
	id, err := s.client.Incr(ctx, gameIDCounter).Result()
	if err != nil {
		return nil, err
	}

	game := &model.Game{
		ID:        model.GameID(id),
		Player1:   player1,
		Player2:   player2,
		Secret:    secret,
		Duration:  duration,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(game)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, gameKey(game.ID), data, 0).Err(); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) SetWinner(ctx context.Context, id model.GameID, winner model.UserID) error {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return err
	}

	game.Winner = &winner
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gameKey(id), data, 0).Err()
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, gameID model.GameID, sender model.UserID, text string) (*model.Message, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	id, err := s.client.Incr(ctx, messageIDCounter).Result()
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:        model.MessageID(id),
		GameID:    gameID,
		SenderID:  sender,
		Text:      text,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if err := s.client.RPush(ctx, messagesKey(gameID), data).Err(); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Storage) ListMessages(ctx context.Context, gameID model.GameID) ([]*model.Message, error) {
	entries, err := s.client.LRange(ctx, messagesKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	msgs := make([]*model.Message, 0, len(entries))
	for _, entry := range entries {
		var msg model.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}
