package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chatrelay/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	requireUser := middleware.RequireUser(s.resolver)

	s.E.POST("/register", s.auth.Register)
	s.E.POST("/login", s.auth.Login)
	s.E.POST("/logout", s.auth.Logout)
	s.E.GET("/auth-status", s.auth.Status(s.resolver))

	s.E.GET("/users", s.users.List, requireUser)
	s.E.GET("/messages/:friendId", s.users.Conversation, requireUser)

	// The websocket route sits behind the same middleware as the REST
	// surface, so handshake auth can never diverge from request auth.
	s.E.GET("/ws", s.gateway.Handler(), requireUser)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
