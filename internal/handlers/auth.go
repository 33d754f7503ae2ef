// Package handlers implements the JSON HTTP surface: account handling,
// the user list, and conversation history. The websocket gateway assumes
// the authenticated session these handlers establish.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"chatrelay/internal/domain"
	"chatrelay/internal/middleware"
	"chatrelay/internal/session"
)

// AuthHandler handles registration, login, logout, and auth status.
type AuthHandler struct {
	users      domain.UserRepository
	bcryptCost int
	validate   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users domain.UserRepository, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		users:      users,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
	}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

// Register creates an account and signs the new user in (POST /register).
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Message: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Message: "username and a password of at least 8 characters are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.JSON(http.StatusInternalServerError, statusResponse{Message: "server error"})
	}

	user, err := h.users.Create(c.Request().Context(), req.Username, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return c.JSON(http.StatusBadRequest, statusResponse{Message: "username already exists"})
		}
		slog.Error("Failed to create user", "username", req.Username, "error", err)
		return c.JSON(http.StatusInternalServerError, statusResponse{Message: "server error"})
	}

	if err := session.SignIn(c, user.ID); err != nil {
		slog.Error("Failed to establish session after registration",
			"user_id", user.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, statusResponse{Message: "login error"})
	}

	return c.JSON(http.StatusOK, userResponse{
		Success: true,
		Message: "registered and logged in",
		User:    user,
	})
}

// Login authenticates a username/password pair (POST /login).
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Message: "invalid request body"})
	}

	user, err := h.users.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("Failed to look up user", "username", req.Username, "error", err)
			return c.JSON(http.StatusInternalServerError, statusResponse{Message: "server error"})
		}
		return c.JSON(http.StatusUnauthorized, statusResponse{Message: "invalid credentials"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		slog.Warn("Failed login attempt", "username", req.Username)
		return c.JSON(http.StatusUnauthorized, statusResponse{Message: "invalid credentials"})
	}

	if err := session.SignIn(c, user.ID); err != nil {
		slog.Error("Failed to establish session", "user_id", user.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, statusResponse{Message: "login failed"})
	}

	return c.JSON(http.StatusOK, userResponse{
		Success: true,
		Message: "logged in successfully",
		User:    user,
	})
}

// Logout clears the session (POST /logout).
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := session.SignOut(c); err != nil {
		slog.Error("Failed to clear session", "error", err)
		return c.JSON(http.StatusInternalServerError, statusResponse{Message: "logout error"})
	}
	return c.JSON(http.StatusOK, statusResponse{Success: true, Message: "logged out successfully"})
}

// Status reports whether the request carries an authenticated session
// (GET /auth-status). It is deliberately not behind the auth middleware.
func (h *AuthHandler) Status(resolver *session.Resolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := resolver.Resolve(c)
		if err != nil {
			return c.JSON(http.StatusOK, map[string]any{
				"authenticated": false,
				"user":          nil,
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"authenticated": true,
			"user":          user,
		})
	}
}

// currentUser pulls the authenticated user set by the auth middleware.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.UserContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}
