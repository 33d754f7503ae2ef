package database_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/database"
	"chatrelay/internal/domain"
	"chatrelay/internal/testutils"
)

func setupMessageStore(t *testing.T) (*database.MessageStore, *domain.User, *domain.User, *domain.User) {
	t.Helper()

	db := testutils.NewTestDB(t)
	users := database.NewUserStore(db)
	alice := testutils.CreateUser(t, users, "alice", "pw")
	bob := testutils.CreateUser(t, users, "bob", "pw")
	carol := testutils.CreateUser(t, users, "carol", "pw")
	return database.NewMessageStore(db), alice, bob, carol
}

func TestMessageStore_Insert(t *testing.T) {
	store, alice, bob, _ := setupMessageStore(t)
	ctx := context.Background()

	first, err := store.Insert(ctx, alice.ID, bob.ID, "hello")
	require.NoError(t, err)
	assert.Positive(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero(), "insert must assign a timestamp")
	assert.Equal(t, alice.ID, first.SenderID)
	assert.Equal(t, bob.ID, first.ReceiverID)

	second, err := store.Insert(ctx, alice.ID, bob.ID, "again")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestMessageStore_Conversation(t *testing.T) {
	store, alice, bob, carol := setupMessageStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, alice.ID, bob.ID, "a->b")
	require.NoError(t, err)
	_, err = store.Insert(ctx, bob.ID, alice.ID, "b->a")
	require.NoError(t, err)
	_, err = store.Insert(ctx, alice.ID, carol.ID, "a->c")
	require.NoError(t, err)

	t.Run("contains both directions, oldest first", func(t *testing.T) {
		msgs, err := store.Conversation(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "a->b", msgs[0].Text)
		assert.Equal(t, "b->a", msgs[1].Text)
	})

	t.Run("pair order does not matter", func(t *testing.T) {
		forward, err := store.Conversation(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		reverse, err := store.Conversation(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, forward, reverse)
	})

	t.Run("excludes third parties", func(t *testing.T) {
		msgs, err := store.Conversation(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		for _, m := range msgs {
			assert.NotEqual(t, carol.ID, m.SenderID)
			assert.NotEqual(t, carol.ID, m.ReceiverID)
		}
	})
}

func TestMessageStore_RecentByUser(t *testing.T) {
	store, alice, bob, carol := setupMessageStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Insert(ctx, alice.ID, bob.ID, fmt.Sprintf("msg-%d", i))
		require.NoError(t, err)
	}
	_, err := store.Insert(ctx, carol.ID, bob.ID, "c->b")
	require.NoError(t, err)

	t.Run("newest first, bounded by limit", func(t *testing.T) {
		msgs, err := store.RecentByUser(ctx, alice.ID, 3)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "msg-4", msgs[0].Text)
		assert.Equal(t, "msg-2", msgs[2].Text)
	})

	t.Run("only messages involving the user", func(t *testing.T) {
		msgs, err := store.RecentByUser(ctx, alice.ID, 50)
		require.NoError(t, err)
		require.Len(t, msgs, 5)
		for _, m := range msgs {
			involved := m.SenderID == alice.ID || m.ReceiverID == alice.ID
			assert.True(t, involved, "message %d does not involve user", m.ID)
		}
	})
}
