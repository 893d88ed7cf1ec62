package request

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username"`
}

// CreateGameRequest is the request body for creating a game session
type CreateGameRequest struct {
	Player1ID        int64  `json:"player1_id"`
	Player2ID        int64  `json:"player2_id"`
	CharacterToGuess string `json:"character_to_guess"`
}

// RecordWinnerRequest is the request body for recording a game's winner
type RecordWinnerRequest struct {
	WinnerID int64 `json:"winner_id"`
}
