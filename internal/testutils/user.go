package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"chatrelay/internal/domain"
)

// CreateUser stores a user with a real bcrypt hash (minimum cost, for
// speed) and returns the stored record.
func CreateUser(t *testing.T, users domain.UserRepository, username, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := users.Create(context.Background(), username, string(hash))
	require.NoError(t, err, "failed to create test user %q", username)
	return user
}
