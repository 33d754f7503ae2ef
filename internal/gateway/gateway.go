// Package gateway couples session-authenticated identity to long-lived
// websocket connections: it gates the handshake, keeps the presence
// directory current, replays history on connect, and routes chat messages
// through persistence to the live recipient.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"

	"chatrelay/internal/domain"
	"chatrelay/internal/middleware"
	"chatrelay/internal/pubsub"
)

// writeWait bounds how long a single websocket write may take.
const writeWait = 10 * time.Second

// Gateway owns the websocket side of the relay.
type Gateway struct {
	presence  *Directory
	router    *Router
	history   *HistoryLoader
	publisher pubsub.Publisher
	logger    *slog.Logger
}

// New creates a Gateway. Call Start before serving connections so the
// delivery subscription is live.
func New(presence *Directory, router *Router, history *HistoryLoader, publisher pubsub.Publisher) *Gateway {
	return &Gateway{
		presence:  presence,
		router:    router,
		history:   history,
		publisher: publisher,
		logger:    slog.Default().With("component", "gateway"),
	}
}

// Start subscribes the delivery handler to the bus.
func (g *Gateway) Start(ctx context.Context, sub pubsub.Subscriber) error {
	return sub.Subscribe(ctx, TopicMessageDelivery, g.handleDelivery)
}

// Presence exposes the directory for collaborators such as tests and the
// users handler.
func (g *Gateway) Presence() *Directory {
	return g.presence
}

// Handler returns the echo handler that upgrades an authenticated request
// to a websocket connection. It must be mounted behind the auth middleware;
// an unauthenticated request is rejected before the upgrade and never
// touches the presence directory.
func (g *Gateway) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get(middleware.UserContextKey).(*domain.User)
		if !ok || user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // In production, check origin.
		})
		if err != nil {
			g.logger.Error("Failed to upgrade connection to websocket",
				"user_id", user.ID, "error", err)
			return err
		}

		client := newClient(user, conn)
		outbound := client.send

		// Last-connection-wins: a reconnect replaces any prior entry.
		g.presence.Register(user.ID, client)
		g.logger.Info("Client connected",
			"user_id", user.ID, "client_id", client.ID)

		go g.writePump(client, outbound)

		// History replay happens exactly once, before any submission from
		// this connection can be processed.
		history := g.history.Load(c.Request().Context(), user.ID)
		client.Send(encodeChatHistory(history))

		g.publishLifecycle(TopicClientConnected, client)

		go g.readPump(client, user)

		return nil
	}
}

// readPump processes inbound frames one at a time: each submission runs to
// completion, storage round-trip included, before the next frame is read.
// That serialization is what gives a single connection its in-order
// persistence and delivery guarantee.
func (g *Gateway) readPump(client *Client, user *domain.User) {
	defer func() {
		if g.presence.Remove(user.ID, client) {
			g.publishLifecycle(TopicClientDisconnected, client)
		}
		client.close()
		client.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
		g.logger.Info("Client disconnected",
			"user_id", user.ID, "client_id", client.ID)
	}()

	for {
		_, data, err := client.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				g.logger.Info("Websocket closed by client", "user_id", user.ID)
			} else if err != io.EOF {
				g.logger.Error("Websocket read error",
					"user_id", user.ID, "error", err)
			}
			return
		}

		g.handleFrame(client, user, data)
	}
}

func (g *Gateway) handleFrame(client *Client, user *domain.User, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		g.logger.Warn("Dropping malformed frame", "user_id", user.ID, "error", err)
		return
	}

	switch frame.Type {
	case FrameChatMessage:
		var payload ChatMessagePayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			client.Send(encodeAck(frame.ID, "invalid message format"))
			return
		}

		_, err := g.router.Submit(context.Background(), user, payload)
		if err != nil {
			client.Send(encodeAck(frame.ID, err.Error()))
			return
		}
		client.Send(encodeAck(frame.ID, ""))

	default:
		g.logger.Warn("Dropping frame of unknown type",
			"user_id", user.ID, "type", frame.Type)
	}
}

// writePump drains the client's send channel onto the wire. It exits when
// the channel is closed or a write fails.
func (g *Gateway) writePump(client *Client, outbound <-chan []byte) {
	defer client.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for msg := range outbound {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := client.conn.Write(ctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			g.logger.Error("Websocket write error",
				"user_id", client.UserID, "error", err)
			return
		}
	}
}

// handleDelivery pushes a persisted record to the target user's current
// connection. An offline target, or one whose connection went away between
// lookup and push, is a safe no-op.
func (g *Gateway) handleDelivery(ctx context.Context, msg pubsub.Message) error {
	raw := msg.Metadata[MetaTargetUserID]
	targetID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		g.logger.Error("Delivery with invalid target", "target", raw)
		return nil
	}

	client, ok := g.presence.Lookup(targetID)
	if !ok {
		return nil
	}
	client.Send(encodeChatMessage(msg.Payload))
	return nil
}

func (g *Gateway) publishLifecycle(topic string, client *Client) {
	payload, _ := json.Marshal(map[string]any{
		"userId":   client.UserID,
		"clientId": client.ID,
	})
	err := g.publisher.Publish(context.Background(), pubsub.Message{
		Topic:   topic,
		Payload: payload,
	})
	if err != nil {
		g.logger.Error("Failed to publish lifecycle event",
			"topic", topic, "user_id", client.UserID, "error", err)
	}
}
