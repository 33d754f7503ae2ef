package domain

import (
	"context"
	"time"
)

// Message is a single direct message between two users. ID and CreatedAt are
// assigned by storage and are only authoritative once the insert has been
// confirmed; a message is never delivered with client-guessed values.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"senderId"`
	ReceiverID int64     `db:"receiver_id" json:"receiverId"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// MessageRepository is the persistence port for messages. Implementations
// carry no routing logic; they only run the contracted queries.
type MessageRepository interface {
	// Insert persists a message and returns the stored record with its
	// storage-assigned id and timestamp.
	Insert(ctx context.Context, senderID, receiverID int64, text string) (*Message, error)

	// Conversation returns every message exchanged between the unordered
	// pair {a, b}, ordered by created_at ascending.
	Conversation(ctx context.Context, a, b int64) ([]Message, error)

	// RecentByUser returns the most recent messages where the user is sender
	// or receiver, newest first, bounded by limit. Callers wanting
	// presentation order must reverse the slice.
	RecentByUser(ctx context.Context, userID int64, limit int) ([]Message, error)
}
