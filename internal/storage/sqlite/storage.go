package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/guesswho/guesswho-go/internal/model"
	"github.com/guesswho/guesswho-go/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (creating if necessary) the SQLite database at dbPath and
// initializes the schema.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = "./data/guesswho.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	s := &Storage{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player1_id INTEGER NOT NULL REFERENCES users(id),
		player2_id INTEGER NOT NULL REFERENCES users(id),
		winner_id INTEGER REFERENCES users(id),
		character_to_guess TEXT NOT NULL,
		duration INTEGER NOT NULL DEFAULT 300,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id INTEGER NOT NULL REFERENCES games(id),
		sender_id INTEGER NOT NULL,
		text TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_messages_game ON messages(game_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, username string) (*model.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username) VALUES (?)`, username)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, model.ErrUsernameExists
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, score, created_at FROM users WHERE id = ?`, id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, score, created_at FROM users WHERE username = ?`, username))
}

func (s *Storage) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Score, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, score, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Score, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Storage) IncrementScore(ctx context.Context, id model.UserID, delta int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET score = score + ? WHERE id = ?`, delta, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, player1, player2 model.UserID, secret string, duration int) (*model.Game, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games (player1_id, player2_id, character_to_guess, duration) VALUES (?, ?, ?, ?)`,
		player1, player2, secret, duration)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetGame(ctx, model.GameID(id))
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	game := &model.Game{}
	var winner sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, player1_id, player2_id, winner_id, character_to_guess, duration, created_at
		 FROM games WHERE id = ?`, id).
		Scan(&game.ID, &game.Player1, &game.Player2, &winner, &game.Secret, &game.Duration, &game.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	if winner.Valid {
		w := model.UserID(winner.Int64)
		game.Winner = &w
	}
	return game, nil
}

func (s *Storage) SetWinner(ctx context.Context, id model.GameID, winner model.UserID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET winner_id = ? WHERE id = ?`, winner, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, gameID model.GameID, sender model.UserID, text string) (*model.Message, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (game_id, sender_id, text) VALUES (?, ?, ?)`,
		gameID, sender, text)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	msg := &model.Message{}
	err = s.db.QueryRowContext(ctx,
		`SELECT id, game_id, sender_id, text, timestamp FROM messages WHERE id = ?`, id).
		Scan(&msg.ID, &msg.GameID, &msg.SenderID, &msg.Text, &msg.Timestamp)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Storage) ListMessages(ctx context.Context, gameID model.GameID) ([]*model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, sender_id, text, timestamp FROM messages WHERE game_id = ? ORDER BY id`,
		gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*model.Message, 0)
	for rows.Next() {
		msg := &model.Message{}
		if err := rows.Scan(&msg.ID, &msg.GameID, &msg.SenderID, &msg.Text, &msg.Timestamp); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
