package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guesswho/guesswho-go/internal/api"
	"github.com/guesswho/guesswho-go/internal/api/response"
	"github.com/guesswho/guesswho-go/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use the production factory with
	// in-memory storage
	app, err := factory.New(context.Background(), factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		UserService: app.UserService,
		GameManager: app.GameManager,
		Gateway:     app.Gateway,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createUser(t *testing.T, username string) response.User {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{"username": username})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) createGame(t *testing.T, player1, player2 int64, character string) response.Game {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"player1_id":         player1,
		"player2_id":         player2,
		"character_to_guess": character,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateUser(t *testing.T) {
	ts := newTestServer(t)

	user := ts.createUser(t, "alice")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 0, user.Score)
	assert.NotZero(t, user.ID)
}

func TestCreateUserDuplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "USERNAME_EXISTS")
}

func TestCreateUserEmptyUsername(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{"username": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_USERNAME")
}

func TestGetUser(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createUser(t, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/users/1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "alice", resp.Username)
}

func TestGetUserNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/users/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "USER_NOT_FOUND")
}

func TestListUsers(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice")
	ts.createUser(t, "bob")

	rr := ts.request(http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "alice", resp[0].Username)
	assert.Equal(t, "bob", resp[1].Username)
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")

	game := ts.createGame(t, alice.ID, bob.ID, "sherlock")
	assert.Equal(t, alice.ID, game.Player1ID)
	assert.Equal(t, bob.ID, game.Player2ID)
	assert.Equal(t, "sherlock", game.CharacterToGuess)
	assert.Equal(t, 300, game.Duration)
	assert.Equal(t, "pending", game.Status)
	assert.Nil(t, game.WinnerID)
}

func TestCreateGameSamePlayer(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"player1_id":         alice.ID,
		"player2_id":         alice.ID,
		"character_to_guess": "sherlock",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "SAME_PLAYER")
}

func TestCreateGameMissingFields(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"player1_id": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}

func TestGetGameNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_NOT_FOUND")
}

func TestRecordWinner(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	game := ts.createGame(t, alice.ID, bob.ID, "sherlock")

	rr := ts.request(http.MethodPost, "/api/v1/games/1/winner", map[string]int64{"winner_id": alice.ID})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.WinnerID)
	assert.Equal(t, alice.ID, *resp.WinnerID)
	assert.Equal(t, "finished", resp.Status)
	assert.Equal(t, game.ID, resp.ID)

	// The winner's score was awarded
	rr = ts.request(http.MethodGet, "/api/v1/users/1", nil)
	var winner response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &winner))
	assert.Equal(t, 10, winner.Score)
}

func TestRecordWinnerTwiceFails(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	ts.createGame(t, alice.ID, bob.ID, "sherlock")

	rr := ts.request(http.MethodPost, "/api/v1/games/1/winner", map[string]int64{"winner_id": alice.ID})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/1/winner", map[string]int64{"winner_id": bob.ID})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_FINISHED")
}

func TestRecordWinnerNonPlayer(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	carol := ts.createUser(t, "carol")
	ts.createGame(t, alice.ID, bob.ID, "sherlock")

	rr := ts.request(http.MethodPost, "/api/v1/games/1/winner", map[string]int64{"winner_id": carol.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_WINNER")
}

func TestListGameMessages(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	ts.createGame(t, alice.ID, bob.ID, "sherlock")

	rr := ts.request(http.MethodGet, "/api/v1/games/1/messages", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp)
}

func TestListGameMessagesGameNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/999/messages", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
