package gateway

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"chatrelay/internal/domain"
)

// Client is the connection handle for one live websocket. The pointer
// itself is the handle identity the presence directory compares against.
type Client struct {
	// ID uniquely identifies this connection for logging; a user who
	// reconnects gets a new ID.
	ID     string
	UserID int64

	conn *websocket.Conn
	send chan []byte
	mu   sync.RWMutex
}

func newClient(user *domain.User, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: user.ID,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// Send queues a message for the write pump. It is safe to call on a closed
// or superseded client: the message is silently dropped, never a crash.
func (c *Client) Send(msg []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.send == nil {
		return
	}

	select {
	case c.send <- msg:
	default:
		slog.Warn("Client send channel full, dropping message",
			"client_id", c.ID, "user_id", c.UserID)
	}
}

// close shuts the send channel, terminating the write pump. Idempotent.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}
