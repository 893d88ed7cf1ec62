package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/guesswho/guesswho-go/internal/api/request"
	"github.com/guesswho/guesswho-go/internal/api/response"
	"github.com/guesswho/guesswho-go/internal/model"
	"github.com/guesswho/guesswho-go/internal/services/game"
)

// GameHandler handles game session endpoints
type GameHandler struct {
	gameManager *game.Manager
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameManager *game.Manager) *GameHandler {
	return &GameHandler{
		gameManager: gameManager,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Player1ID == 0 || req.Player2ID == 0 {
		WriteError(w, NewInvalidRequestError("player1_id and player2_id are required"))
		return
	}
	if req.CharacterToGuess == "" {
		WriteError(w, NewInvalidRequestError("character_to_guess is required"))
		return
	}

	created, err := h.gameManager.CreateSession(r.Context(),
		model.UserID(req.Player1ID), model.UserID(req.Player2ID), req.CharacterToGuess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(created))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	found, err := h.gameManager.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(found))
}

// RecordWinner handles POST /api/v1/games/{id}/winner
func (h *GameHandler) RecordWinner(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	var req request.RecordWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.WinnerID == 0 {
		WriteError(w, NewInvalidRequestError("winner_id is required"))
		return
	}

	finished, err := h.gameManager.RecordWinner(r.Context(), id, model.UserID(req.WinnerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(finished))
}

// ListMessages handles GET /api/v1/games/{id}/messages
func (h *GameHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	msgs, err := h.gameManager.ListMessages(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessagesFromModel(msgs))
}

func gameID(w http.ResponseWriter, r *http.Request) (model.GameID, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid game id"))
		return 0, false
	}
	return model.GameID(id), true
}
