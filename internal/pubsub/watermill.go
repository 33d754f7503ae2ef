package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus implements Publisher and Subscriber using watermill's in-process
// GoChannel. Publish order is preserved per topic, which the gateway relies
// on for per-sender delivery ordering.
type Bus struct {
	pub message.Publisher
	sub message.Subscriber
}

var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
)

// NewBus initializes the in-process bus.
//
// BlockPublishUntilSubscriberAck is what makes Publish synchronous with the
// subscriber's ack: without it GoChannel hands each message to subscribers
// on its own goroutine and two back-to-back publishes can arrive reordered.
// Blocking is safe here because handlers never block (delivery pushes are
// non-blocking channel sends) and a topic with no subscribers is acked
// immediately.
func NewBus() *Bus {
	logger := watermill.NewSlogLogger(slog.Default())
	ch := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, logger)
	return &Bus{pub: ch, sub: ch}
}

// Publish implements the Publisher interface.
func (b *Bus) Publish(ctx context.Context, msg Message) error {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	return b.pub.Publish(msg.Topic, wmMsg)
}

// Subscribe implements the Subscriber interface. Messages for the topic are
// handled sequentially on a single goroutine, preserving publish order.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := b.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			msg := Message{
				Topic:    topic,
				Payload:  wmMsg.Payload,
				Metadata: wmMsg.Metadata,
			}
			if err := handler(ctx, msg); err != nil {
				slog.Error("Failed to handle bus message",
					"topic", topic, "msg_id", wmMsg.UUID, "error", err)
				wmMsg.Nack()
				continue
			}
			wmMsg.Ack()
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts down the bus and terminates all subscriptions.
func (b *Bus) Close() error {
	return b.sub.Close()
}
