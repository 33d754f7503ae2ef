package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chatrelay/internal/domain"
)

// UserStore implements domain.UserRepository on top of sqlx. Queries are
// written with ? placeholders and passed through Rebind so the store works
// against both Postgres and the sqlite driver used in tests.
type UserStore struct {
	db *sqlx.DB
}

var _ domain.UserRepository = (*UserStore)(nil)

// NewUserStore creates a new UserStore.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create stores a new user and returns the stored record.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	query := s.db.Rebind(`INSERT INTO users (username, password) VALUES (?, ?) RETURNING id`)

	var id int64
	err := s.db.QueryRowxContext(ctx, query, username, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &domain.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// GetByUsername returns the user for a username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := s.db.Rebind(`SELECT id, username, password FROM users WHERE username = ?`)

	var user domain.User
	if err := s.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %q: %w", username, err)
	}
	return &user, nil
}

// GetByID returns the user for an id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := s.db.Rebind(`SELECT id, username, password FROM users WHERE id = ?`)

	var user domain.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return &user, nil
}

// ListOthers returns every user except the one identified by excludeID.
func (s *UserStore) ListOthers(ctx context.Context, excludeID int64) ([]domain.User, error) {
	query := s.db.Rebind(`SELECT id, username, password FROM users WHERE id != ? ORDER BY username`)

	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, query, excludeID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// The sqlite driver used in tests exposes no typed error we can depend
	// on without importing it here.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
