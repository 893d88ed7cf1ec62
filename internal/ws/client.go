package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/guesswho/guesswho-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 4096

	// Buffer size for outgoing events
	sendBufferSize = 64
)

// Client represents a single connected participant. The user identity is
// optional; anonymous connections carry userID 0.
type Client struct {
	id      model.ConnectionID
	userID  int64
	gateway *Gateway
	conn    *websocket.Conn
	send    chan Event
}

// NewClient creates a client for an accepted websocket connection
func NewClient(gateway *Gateway, conn *websocket.Conn, id model.ConnectionID, userID int64) *Client {
	return &Client{
		id:      id,
		userID:  userID,
		gateway: gateway,
		conn:    conn,
		send:    make(chan Event, sendBufferSize),
	}
}

// readPump reads inbound events from the connection and hands them to the
// gateway. It runs in its own goroutine; on exit the connection is
// unregistered, which triggers the room-scoped user_left notification.
func (c *Client) readPump() {
	defer func() {
		c.gateway.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.gateway.logger.Warn("websocket read error",
					slog.String("conn_id", string(c.id)),
					slog.String("error", err.Error()))
			}
			return
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			c.gateway.logger.Warn("dropping invalid event",
				slog.String("conn_id", string(c.id)),
				slog.String("error", err.Error()))
			continue
		}

		c.gateway.Dispatch(c, ev)
	}
}

// writePump delivers outbound events and keepalive pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Gateway closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
