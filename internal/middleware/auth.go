package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chatrelay/internal/session"
)

// UserContextKey is the echo context key under which the authenticated user
// is stored for downstream handlers.
const UserContextKey = "user"

// RequireUser creates a middleware that protects routes requiring an
// authenticated session. Requests without a valid session are rejected with
// 401 before the handler runs, which for the websocket route means the
// connection attempt never reaches the presence directory.
func RequireUser(resolver *session.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolver.Resolve(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
