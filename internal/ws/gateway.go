package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/guesswho/guesswho-go/internal/model"
	"github.com/guesswho/guesswho-go/internal/services/game"
	"github.com/guesswho/guesswho-go/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API carries no credentials, so cross-origin upgrades are allowed
		return true
	},
}

type inboundEvent struct {
	client *Client
	event  Event
}

// Gateway accepts websocket connections and routes join/message/disconnect
// events through the session store, fanning notifications out to the
// affected room. All membership mutations happen on the Run loop; fan-out
// uses participant snapshots so no lock is held while delivering.
type Gateway struct {
	sessions *session.Store
	games    *game.Manager
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent
	done       chan struct{}
}

// NewGateway creates a new broadcast gateway
func NewGateway(sessions *session.Store, games *game.Manager, logger *slog.Logger) *Gateway {
	return &Gateway{
		sessions:   sessions,
		games:      games,
		logger:     logger.With(slog.String("component", "ws")),
		clients:    make(map[model.ConnectionID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the gateway's event loop
func (g *Gateway) Run() {
	g.logger.Info("gateway started")
	for {
		select {
		case client := <-g.register:
			g.mu.Lock()
			g.clients[client.id] = client
			count := len(g.clients)
			g.mu.Unlock()
			g.logger.Info("client connected",
				slog.String("conn_id", string(client.id)),
				slog.Int64("user_id", client.userID),
				slog.Int("total_clients", count))

		case client := <-g.unregister:
			g.handleDisconnect(client)

		case in := <-g.inbound:
			switch in.event.Type {
			case EventJoin:
				g.handleJoin(in.client, in.event)
			case EventMessage:
				g.handleMessage(in.client, in.event)
			case EventLeave:
				g.handleLeave(in.client)
			}

		case <-g.done:
			g.mu.Lock()
			for id, client := range g.clients {
				close(client.send)
				delete(g.clients, id)
			}
			g.mu.Unlock()
			g.logger.Info("gateway stopped")
			return
		}
	}
}

// Register adds a connected client to the gateway
func (g *Gateway) Register(client *Client) {
	g.register <- client
}

// Unregister removes a client, leaving its room
func (g *Gateway) Unregister(client *Client) {
	g.unregister <- client
}

// Dispatch hands an inbound event to the gateway's event loop
func (g *Gateway) Dispatch(client *Client, ev Event) {
	select {
	case g.inbound <- inboundEvent{client: client, event: ev}:
	default:
		g.logger.Warn("inbound event dropped - gateway buffer full",
			slog.String("conn_id", string(client.id)))
	}
}

// Close shuts down the gateway and disconnects all clients
func (g *Gateway) Close() {
	close(g.done)
}

// ClientCount returns the number of connected clients
func (g *Gateway) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

// handleJoin registers the connection in the requested room and notifies
// the room's participants, the joiner included.
func (g *Gateway) handleJoin(client *Client, ev Event) {
	room := model.RoomID(ev.Room)
	members := g.sessions.Join(client.id, room)

	g.logger.Info("client joined room",
		slog.String("conn_id", string(client.id)),
		slog.String("room", ev.Room),
		slog.Int("participants", len(members)))

	g.deliver(members, Event{
		Type:    EventUserJoined,
		Room:    ev.Room,
		Message: fmt.Sprintf("a player joined room %s", ev.Room),
	})
}

// handleMessage fans a chat message out to the target room. Events from
// connections that are not members of the room are dropped so a client can
// never inject into a room it did not join. If the message belongs to a
// game session its text is also persisted; a persistence failure is logged
// but never suppresses the fan-out or touches membership.
func (g *Gateway) handleMessage(client *Client, ev Event) {
	room := model.RoomID(ev.Room)
	if !g.sessions.Contains(room, client.id) {
		g.logger.Warn("dropping message from non-member",
			slog.String("conn_id", string(client.id)),
			slog.String("room", ev.Room))
		return
	}

	if ev.GameID != 0 {
		_, err := g.games.AppendMessage(context.Background(),
			model.GameID(ev.GameID), model.UserID(ev.Sender), ev.Text)
		if err != nil {
			g.logger.Error("failed to persist message",
				slog.Int64("game_id", ev.GameID),
				slog.String("error", err.Error()))
		}
	}

	members := g.sessions.ParticipantsOf(room)
	g.deliver(members, Event{
		Type:   EventReceiveMessage,
		Room:   ev.Room,
		Sender: ev.Sender,
		Text:   ev.Text,
	})
}

// handleLeave removes the connection from its room and notifies the
// remaining participants of that room only.
func (g *Gateway) handleLeave(client *Client) {
	room, ok := g.sessions.RoomOf(client.id)
	g.sessions.Leave(client.id)
	if !ok {
		return
	}

	g.deliver(g.sessions.ParticipantsOf(room), Event{
		Type:    EventUserLeft,
		Room:    string(room),
		Message: "a player left the room",
	})
}

// handleDisconnect is handleLeave plus client teardown, invoked when the
// transport reports connection loss. Safe to call repeatedly.
func (g *Gateway) handleDisconnect(client *Client) {
	room, inRoom := g.sessions.RoomOf(client.id)
	g.sessions.Disconnect(client.id)

	g.mu.Lock()
	if _, ok := g.clients[client.id]; ok {
		delete(g.clients, client.id)
		close(client.send)
		g.logger.Info("client disconnected",
			slog.String("conn_id", string(client.id)),
			slog.Int("total_clients", len(g.clients)))
	}
	g.mu.Unlock()

	if inRoom {
		g.deliver(g.sessions.ParticipantsOf(room), Event{
			Type:    EventUserLeft,
			Room:    string(room),
			Message: "a player left the room",
		})
	}
}

// deliver sends an event to each connection in the snapshot. Sends are
// non-blocking; a slow client loses the event rather than stalling the loop.
func (g *Gateway) deliver(conns []model.ConnectionID, ev Event) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, id := range conns {
		client, ok := g.clients[id]
		if !ok {
			continue
		}
		select {
		case client.send <- ev:
		default:
			g.logger.Warn("event dropped - client buffer full",
				slog.String("conn_id", string(id)),
				slog.String("type", string(ev.Type)))
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and attaches
// it to the gateway. An optional user_id query parameter associates the
// connection with a user identity.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	var userID int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, _ = strconv.ParseInt(raw, 10, 64)
	}

	client := NewClient(g, conn, model.ConnectionID(uuid.NewString()), userID)
	g.Register(client)

	go client.writePump()
	go client.readPump()
}
