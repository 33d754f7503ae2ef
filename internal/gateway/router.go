package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"chatrelay/internal/domain"
	"chatrelay/internal/pubsub"
)

// Bus topics and metadata keys used by the gateway.
const (
	// TopicMessageDelivery carries persisted message records to the
	// delivery subscriber. The target connection is addressed through the
	// MetaTargetUserID metadata key.
	TopicMessageDelivery = "chat.message.delivery"
	// TopicClientConnected and TopicClientDisconnected announce connection
	// lifecycle changes for any interested observer.
	TopicClientConnected    = "gateway.client.connected"
	TopicClientDisconnected = "gateway.client.disconnected"
)

// MetaTargetUserID addresses a delivery to a specific user's connection.
const MetaTargetUserID = "target_user_id"

// errSendFailed is what the client sees when persistence fails; the
// underlying storage error stays in the logs.
var errSendFailed = errors.New("failed to send message")

// Router validates, persists, and queues delivery of inbound submissions.
// Persistence always completes (or fails) before anything is queued for
// delivery, so a delivered record is always storage-authoritative.
type Router struct {
	messages  domain.MessageRepository
	publisher pubsub.Publisher
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewRouter creates a Router.
func NewRouter(messages domain.MessageRepository, publisher pubsub.Publisher) *Router {
	return &Router{
		messages:  messages,
		publisher: publisher,
		validate:  validator.New(),
		logger:    slog.Default().With("component", "router"),
	}
}

// Submit handles one inbound chat message from sender. The sender identity
// comes from the connection's bound user, never from the payload. On
// success the persisted record has been queued for delivery to both the
// receiver's and the sender's connections. The returned error text is safe
// to surface to the submitting client.
func (r *Router) Submit(ctx context.Context, sender *domain.User, p ChatMessagePayload) (*domain.Message, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, errors.New("message text must not be empty")
	}
	if err := r.validate.Struct(p); err != nil {
		return nil, errors.New("a valid receiver is required")
	}

	msg, err := r.messages.Insert(ctx, sender.ID, p.ReceiverID, p.Text)
	if err != nil {
		r.logger.Error("Failed to persist message",
			"sender_id", sender.ID, "receiver_id", p.ReceiverID, "error", err)
		return nil, errSendFailed
	}

	record, err := json.Marshal(msg)
	if err != nil {
		// The record is durably stored; only live delivery is lost.
		r.logger.Error("Failed to marshal persisted message",
			"message_id", msg.ID, "error", err)
		return msg, nil
	}

	// Receiver first, then the sender's own echo copy. Both sides render
	// from the identical storage-confirmed record.
	r.deliver(ctx, msg.ReceiverID, record)
	if msg.SenderID != msg.ReceiverID {
		r.deliver(ctx, msg.SenderID, record)
	}

	return msg, nil
}

func (r *Router) deliver(ctx context.Context, targetUserID int64, record []byte) {
	err := r.publisher.Publish(ctx, pubsub.Message{
		Topic:   TopicMessageDelivery,
		Payload: record,
		Metadata: map[string]string{
			MetaTargetUserID: strconv.FormatInt(targetUserID, 10),
		},
	})
	if err != nil {
		// Persistence already succeeded; delivery is best-effort.
		r.logger.Error("Failed to queue message delivery",
			"target_user_id", targetUserID, "error", err)
	}
}
