package domain

import "context"

// User represents an authenticated account. The gateway only ever reads
// identity; account mutation belongs to the auth handlers.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
}

// UserRepository defines the contract for user storage. It lives in the
// domain because it's a requirement OF the domain, not of the database
// implementation.
type UserRepository interface {
	// Create stores a new user with the given password hash and returns the
	// stored record. Returns ErrUserAlreadyExists on a duplicate username.
	Create(ctx context.Context, username, passwordHash string) (*User, error)

	// GetByUsername returns the user for a username, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID returns the user for an id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)

	// ListOthers returns every user except the one identified by excludeID.
	ListOthers(ctx context.Context, excludeID int64) ([]User, error)
}
