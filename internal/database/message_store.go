package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"chatrelay/internal/domain"
)

// MessageStore implements domain.MessageRepository. The insert assigns the
// timestamp here rather than with a column default so that the same store
// behaves identically across drivers; the assigned value is still
// storage-authoritative from the caller's point of view because it is only
// returned once the insert has been confirmed.
type MessageStore struct {
	db *sqlx.DB
}

var _ domain.MessageRepository = (*MessageStore)(nil)

// NewMessageStore creates a new MessageStore.
func NewMessageStore(db *sqlx.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Insert persists a message and returns the stored record.
func (s *MessageStore) Insert(ctx context.Context, senderID, receiverID int64, text string) (*domain.Message, error) {
	query := s.db.Rebind(`
		INSERT INTO messages (sender_id, receiver_id, text, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`)

	createdAt := time.Now().UTC()

	var id int64
	err := s.db.QueryRowxContext(ctx, query, senderID, receiverID, text, createdAt).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	return &domain.Message{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  createdAt,
	}, nil
}

// Conversation returns all messages between the unordered pair {a, b},
// oldest first.
func (s *MessageStore) Conversation(ctx context.Context, a, b int64) ([]domain.Message, error) {
	query := s.db.Rebind(`
		SELECT id, sender_id, receiver_id, text, created_at
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?)
		   OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at ASC, id ASC`)

	messages := []domain.Message{}
	if err := s.db.SelectContext(ctx, &messages, query, a, b, b, a); err != nil {
		return nil, fmt.Errorf("failed to query conversation %d/%d: %w", a, b, err)
	}
	return messages, nil
}

// RecentByUser returns the newest messages involving a user, newest first.
func (s *MessageStore) RecentByUser(ctx context.Context, userID int64, limit int) ([]domain.Message, error) {
	query := s.db.Rebind(`
		SELECT id, sender_id, receiver_id, text, created_at
		FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	messages := []domain.Message{}
	if err := s.db.SelectContext(ctx, &messages, query, userID, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent messages for user %d: %w", userID, err)
	}
	return messages, nil
}
