package e2e_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// socketEvent mirrors the gateway's wire envelope
type socketEvent struct {
	Type    string `json:"type"`
	Room    string `json:"room,omitempty"`
	Sender  int64  `json:"sender,omitempty"`
	Text    string `json:"text,omitempty"`
	GameID  int64  `json:"game_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func dialWS(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(serverURL, "http://", "ws://", 1) + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev socketEvent) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ev))
}

func readEvent(t *testing.T, conn *websocket.Conn) socketEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev socketEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestWS_JoinAndMessage(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	alice := dialWS(t, ts.addr)
	bob := dialWS(t, ts.addr)

	// Alice joins and sees her own arrival
	sendEvent(t, alice, socketEvent{Type: "join", Room: "room-1"})
	ev := readEvent(t, alice)
	assert.Equal(t, "user_joined", ev.Type)
	assert.Equal(t, "room-1", ev.Room)

	// Bob joins; both are notified
	sendEvent(t, bob, socketEvent{Type: "join", Room: "room-1"})
	ev = readEvent(t, bob)
	assert.Equal(t, "user_joined", ev.Type)
	ev = readEvent(t, alice)
	assert.Equal(t, "user_joined", ev.Type)

	// Alice sends a message; both receive it
	sendEvent(t, alice, socketEvent{Type: "message", Room: "room-1", Sender: 1, Text: "is it a man?"})
	for _, conn := range []*websocket.Conn{alice, bob} {
		ev = readEvent(t, conn)
		assert.Equal(t, "receive_message", ev.Type)
		assert.Equal(t, int64(1), ev.Sender)
		assert.Equal(t, "is it a man?", ev.Text)
	}
}

func TestWS_DisconnectNotifiesRoom(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	alice := dialWS(t, ts.addr)
	bob := dialWS(t, ts.addr)

	sendEvent(t, alice, socketEvent{Type: "join", Room: "room-1"})
	readEvent(t, alice)

	sendEvent(t, bob, socketEvent{Type: "join", Room: "room-1"})
	readEvent(t, bob)
	readEvent(t, alice)

	// Bob drops the connection; Alice is told
	require.NoError(t, bob.Close())

	ev := readEvent(t, alice)
	assert.Equal(t, "user_left", ev.Type)
	assert.Equal(t, "room-1", ev.Room)
}

func TestWS_MessagePersistedToGameTranscript(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	// Create players and a game over the REST API
	httpClient := &http.Client{Timeout: 5 * time.Second}

	alice := createUserHTTP(t, httpClient, ts.addr, "alice")
	bob := createUserHTTP(t, httpClient, ts.addr, "bob")
	game := createGameHTTP(t, httpClient, ts.addr, alice.ID, bob.ID, "sherlock")

	conn := dialWS(t, ts.addr)
	sendEvent(t, conn, socketEvent{Type: "join", Room: "room-1"})
	readEvent(t, conn)

	sendEvent(t, conn, socketEvent{
		Type:   "message",
		Room:   "room-1",
		Sender: alice.ID,
		Text:   "is it sherlock?",
		GameID: game.ID,
	})
	ev := readEvent(t, conn)
	assert.Equal(t, "receive_message", ev.Type)

	// The message shows up in the game transcript
	require.Eventually(t, func() bool {
		resp, err := httpClient.Get(ts.addr + "/api/v1/games/1/messages")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var msgs []struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
			return false
		}
		return len(msgs) == 1 && msgs[0].Text == "is it sherlock?"
	}, 2*time.Second, 50*time.Millisecond)
}

func createUserHTTP(t *testing.T, client *http.Client, serverURL, username string) userResponse {
	t.Helper()

	resp, err := client.Post(serverURL+"/api/v1/users", "application/json",
		strings.NewReader(`{"username":"`+username+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	return user
}

func createGameHTTP(t *testing.T, client *http.Client, serverURL string, player1, player2 int64, character string) gameResponse {
	t.Helper()

	body := map[string]any{
		"player1_id":         player1,
		"player2_id":         player2,
		"character_to_guess": character,
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(serverURL+"/api/v1/games", "application/json", strings.NewReader(string(data)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var game gameResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&game))
	return game
}
