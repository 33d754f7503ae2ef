package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"chatrelay/internal/domain"
)

// UsersHandler serves the user directory and conversation history.
type UsersHandler struct {
	users    domain.UserRepository
	messages domain.MessageRepository
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users domain.UserRepository, messages domain.MessageRepository) *UsersHandler {
	return &UsersHandler{users: users, messages: messages}
}

type userSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// List returns every user except the caller (GET /users).
func (h *UsersHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	others, err := h.users.ListOthers(c.Request().Context(), user.ID)
	if err != nil {
		slog.Error("Failed to list users", "user_id", user.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, statusResponse{Message: "server error"})
	}

	summaries := lo.Map(others, func(u domain.User, _ int) userSummary {
		return userSummary{ID: u.ID, Username: u.Username}
	})
	return c.JSON(http.StatusOK, summaries)
}

// Conversation returns the ordered message history between the caller and
// a friend (GET /messages/:friendId).
func (h *UsersHandler) Conversation(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	friendID, err := strconv.ParseInt(c.Param("friendId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Message: "invalid friend id"})
	}

	messages, err := h.messages.Conversation(c.Request().Context(), user.ID, friendID)
	if err != nil {
		slog.Error("Failed to load conversation",
			"user_id", user.ID, "friend_id", friendID, "error", err)
		return c.JSON(http.StatusInternalServerError, statusResponse{Message: "server error"})
	}

	return c.JSON(http.StatusOK, messages)
}
