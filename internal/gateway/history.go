package gateway

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"chatrelay/internal/domain"
)

// HistoryLoader fetches the messages replayed to a user on connect.
type HistoryLoader struct {
	messages domain.MessageRepository
	limit    int
	logger   *slog.Logger
}

// NewHistoryLoader creates a loader bounded to limit messages.
func NewHistoryLoader(messages domain.MessageRepository, limit int) *HistoryLoader {
	return &HistoryLoader{
		messages: messages,
		limit:    limit,
		logger:   slog.Default().With("component", "history"),
	}
}

// Load returns the user's most recent messages in ascending created_at
// order. Storage returns them newest-first-limited; the slice is reversed
// here for presentation. A storage failure degrades to an empty history:
// history replay must never cost the user their live connection.
func (h *HistoryLoader) Load(ctx context.Context, userID int64) []domain.Message {
	messages, err := h.messages.RecentByUser(ctx, userID, h.limit)
	if err != nil {
		h.logger.Error("Failed to load chat history",
			"user_id", userID, "error", err)
		return []domain.Message{}
	}
	return lo.Reverse(messages)
}
