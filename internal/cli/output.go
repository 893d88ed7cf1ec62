package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case []User:
		for _, u := range v {
			o.printUser(u)
		}
	case Game:
		o.printGame(v)
	case []Message:
		for _, m := range v {
			o.printMessage(m)
		}
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printUser(u User) {
	fmt.Printf("User %d: %s (score %d)\n", u.ID, u.Username, u.Score)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game %d: %s\n", g.ID, g.Status)
	fmt.Printf("  Players: %d vs %d\n", g.Player1ID, g.Player2ID)
	fmt.Printf("  Character: %s\n", g.CharacterToGuess)
	fmt.Printf("  Duration: %ds\n", g.Duration)
	if g.WinnerID != nil {
		fmt.Printf("  Winner: %d\n", *g.WinnerID)
	}
}

func (o *Output) printMessage(m Message) {
	fmt.Printf("[%s] %d: %s\n", m.Timestamp.Format(time.TimeOnly), m.SenderID, m.Text)
}

// User response type (matches API)
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Game response type
type Game struct {
	ID               int64  `json:"id"`
	Player1ID        int64  `json:"player1_id"`
	Player2ID        int64  `json:"player2_id"`
	WinnerID         *int64 `json:"winner_id"`
	CharacterToGuess string `json:"character_to_guess"`
	Duration         int    `json:"duration"`
	Status           string `json:"status"`
}

// Message response type
type Message struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	SenderID  int64     `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}
