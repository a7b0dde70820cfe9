package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/docchat/internal/domain"
)

// defaultHistoryLimit bounds history reads when the caller passes none.
const defaultHistoryLimit = 10

// NewSession issues a fresh session id. Sessions are implicit: nothing
// is persisted until the first message.
// GET /session/new
func (h *Handler) NewSession(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"session_id": uuid.New().String(),
	})
}

// SessionInfo reports the stored message count for a session. Unknown
// sessions are indistinguishable from empty ones.
// GET /session/:session_id/info
func (h *Handler) SessionInfo(c echo.Context) error {
	sessionID := c.Param("session_id")
	ctx := c.Request().Context()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id":    sessionID,
		"store_enabled": h.service.StoreEnabled(),
		"message_count": h.service.SessionMessageCount(ctx, sessionID),
	})
}

// SessionHistory returns recent messages for a session, oldest first.
// GET /session/:session_id/history
func (h *Handler) SessionHistory(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := historyLimit(c)

	messages := h.service.SessionHistory(c.Request().Context(), sessionID, limit)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages":   toHistoryMessages(messages),
		"session_id": sessionID,
	})
}

// UserHistory returns recent messages for a user across sessions, oldest
// first.
// GET /user/:user_id/history
func (h *Handler) UserHistory(c echo.Context) error {
	userID := c.Param("user_id")
	limit := historyLimit(c)

	messages := h.service.UserHistory(c.Request().Context(), userID, limit)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": toHistoryMessages(messages),
		"user_id":  userID,
	})
}

// ClearSession acknowledges a clear request. Stored messages are
// immutable; clients start a new session to reset context.
// POST /session/:session_id/clear
func (h *Handler) ClearSession(c echo.Context) error {
	sessionID := c.Param("session_id")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Session %s history cleared", sessionID),
		"success": true,
	})
}

func historyLimit(c echo.Context) int {
	limit := defaultHistoryLimit
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}
	return limit
}

// toHistoryMessages projects stored messages onto the read-only wire
// shape. The result is never nil so empty histories serialize as [].
func toHistoryMessages(messages []domain.Message) []domain.HistoryMessage {
	out := make([]domain.HistoryMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, domain.HistoryMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return out
}
