package response

import (
	"time"

	"github.com/guesswho/guesswho-go/internal/model"
)

// User represents a user in API responses
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        int64(u.ID),
		Username:  u.Username,
		Score:     u.Score,
		CreatedAt: u.CreatedAt,
	}
}

// UsersFromModel converts a slice of model users
func UsersFromModel(users []*model.User) []User {
	result := make([]User, 0, len(users))
	for _, u := range users {
		result = append(result, UserFromModel(u))
	}
	return result
}

// Game represents a game session in API responses
type Game struct {
	ID               int64     `json:"id"`
	Player1ID        int64     `json:"player1_id"`
	Player2ID        int64     `json:"player2_id"`
	WinnerID         *int64    `json:"winner_id"`
	CharacterToGuess string    `json:"character_to_guess"`
	Duration         int       `json:"duration"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	resp := Game{
		ID:               int64(g.ID),
		Player1ID:        int64(g.Player1),
		Player2ID:        int64(g.Player2),
		CharacterToGuess: g.Secret,
		Duration:         g.Duration,
		Status:           string(g.Status()),
		CreatedAt:        g.CreatedAt,
	}
	if g.Winner != nil {
		winner := int64(*g.Winner)
		resp.WinnerID = &winner
	}
	return resp
}

// Message represents a chat message in API responses
type Message struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	SenderID  int64     `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MessagesFromModel converts a slice of model messages
func MessagesFromModel(msgs []*model.Message) []Message {
	result := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, Message{
			ID:        int64(m.ID),
			GameID:    int64(m.GameID),
			SenderID:  int64(m.SenderID),
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return result
}
