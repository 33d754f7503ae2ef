// Package pubsub carries events between the message router and the
// gateway's delivery subscriber over an in-process bus.
package pubsub

import "context"

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to
	// (e.g., "chat.message.delivery").
	Topic string
	// Payload contains the raw event data, usually JSON.
	Payload []byte
	// Metadata carries routing context such as the target user id.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts listening on the given topic, processing each message
	// with the handler. It returns once the subscription is active; handling
	// happens in the background until the context is canceled.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
