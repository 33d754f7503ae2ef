package pubsub_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/pubsub"
)

func TestBus_PublishSubscribe(t *testing.T) {
	// Per-topic publish order must hold; the gateway's per-sender delivery
	// ordering depends on it. A reordering bus fails this intermittently,
	// so run several rounds with enough messages to make a race visible.
	const (
		rounds      = 5
		perRound    = 20
		total       = rounds * perRound
		waitTimeout = 5 * time.Second
	)

	bus := pubsub.NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []pubsub.Message
	done := make(chan struct{})

	err := bus.Subscribe(ctx, "test.topic", func(_ context.Context, msg pubsub.Message) error {
		mu.Lock()
		received = append(received, msg)
		n := len(received)
		mu.Unlock()
		if n == total {
			close(done)
		}
		return nil
	})
	require.NoError(t, err)

	for round := 0; round < rounds; round++ {
		for i := 0; i < perRound; i++ {
			seq := round*perRound + i
			err := bus.Publish(ctx, pubsub.Message{
				Topic:    "test.topic",
				Payload:  []byte(fmt.Sprintf("msg-%d", seq)),
				Metadata: map[string]string{"seq": fmt.Sprintf("%d", seq)},
			})
			require.NoError(t, err)
		}
	}

	select {
	case <-done:
	case <-time.After(waitTimeout):
		mu.Lock()
		n := len(received)
		mu.Unlock()
		t.Fatalf("timed out waiting for messages, got %d of %d", n, total)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, total)
	for i, msg := range received {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), string(msg.Payload),
			"message %d arrived out of publish order", i)
		assert.Equal(t, fmt.Sprintf("%d", i), msg.Metadata["seq"])
	}
}

func TestBus_SubscribeIsTopicScoped(t *testing.T) {
	bus := pubsub.NewBus()
	defer bus.Close()

	ctx := context.Background()
	got := make(chan pubsub.Message, 1)

	err := bus.Subscribe(ctx, "topic.a", func(_ context.Context, msg pubsub.Message) error {
		got <- msg
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, pubsub.Message{Topic: "topic.b", Payload: []byte("b")}))
	require.NoError(t, bus.Publish(ctx, pubsub.Message{Topic: "topic.a", Payload: []byte("a")}))

	select {
	case msg := <-got:
		assert.Equal(t, "a", string(msg.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for topic.a message")
	}
}
