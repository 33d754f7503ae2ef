package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/domain"
)

func TestHistoryLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("returns messages ascending by creation", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		for i := 0; i < 5; i++ {
			_, err := repo.Insert(ctx, 1, 2, fmt.Sprintf("msg-%d", i))
			require.NoError(t, err)
		}

		loader := NewHistoryLoader(repo, 50)
		history := loader.Load(ctx, 1)

		require.Len(t, history, 5)
		assert.Equal(t, "msg-0", history[0].Text)
		assert.Equal(t, "msg-4", history[4].Text)
	})

	t.Run("bounded to the most recent limit messages", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		for i := 0; i < 10; i++ {
			_, err := repo.Insert(ctx, 1, 2, fmt.Sprintf("msg-%d", i))
			require.NoError(t, err)
		}

		loader := NewHistoryLoader(repo, 3)
		history := loader.Load(ctx, 1)

		require.Len(t, history, 3)
		// The newest three, still presented oldest first.
		assert.Equal(t, "msg-7", history[0].Text)
		assert.Equal(t, "msg-9", history[2].Text)
	})

	t.Run("contains only messages involving the user", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		_, err := repo.Insert(ctx, 1, 2, "mine")
		require.NoError(t, err)
		_, err = repo.Insert(ctx, 3, 4, "not mine")
		require.NoError(t, err)
		_, err = repo.Insert(ctx, 5, 1, "to me")
		require.NoError(t, err)

		loader := NewHistoryLoader(repo, 50)
		history := loader.Load(ctx, 1)

		require.Len(t, history, 2)
		for _, m := range history {
			involved := m.SenderID == 1 || m.ReceiverID == 1
			assert.True(t, involved)
		}
	})

	t.Run("storage failure degrades to empty history", func(t *testing.T) {
		repo := &fakeMessageRepo{recentErr: errors.New("timeout")}
		loader := NewHistoryLoader(repo, 50)

		history := loader.Load(ctx, 1)
		assert.Equal(t, []domain.Message{}, history)
	})
}
