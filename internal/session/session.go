// Package session is the single source of truth for resolving a request's
// session cookie to an authenticated user. Both the REST middleware and the
// websocket handshake go through Resolver, so the two channels cannot
// diverge on "who is this".
package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"chatrelay/internal/domain"
)

// Name is the session cookie name shared by every channel.
const Name = "chatrelay_session"

const userIDKey = "user_id"

// NewStore builds the cookie store used by the echo session middleware.
func NewStore(secret string) sessions.Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Resolver resolves session credentials to authenticated users.
type Resolver struct {
	users domain.UserRepository
}

// NewResolver creates a Resolver backed by the given user repository.
func NewResolver(users domain.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the authenticated user for the request's session, or
// domain.ErrInvalidCredentials when the session carries no valid identity.
// It never mutates session state.
func (r *Resolver) Resolve(c echo.Context) (*domain.User, error) {
	sess, err := session.Get(Name, c)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	raw, ok := sess.Values[userIDKey]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	userID, ok := raw.(int64)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := r.users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// SignIn binds the user's identity to the request's session.
func SignIn(c echo.Context, userID int64) error {
	sess, err := session.Get(Name, c)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	sess.Values[userIDKey] = userID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SignOut clears the session, expiring the cookie immediately.
func SignOut(c echo.Context) error {
	sess, err := session.Get(Name, c)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
