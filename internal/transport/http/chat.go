package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/docchat/internal/domain"
)

// Chat handles one conversation turn.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	// A started turn runs to completion even when the client goes away.
	ctx := context.WithoutCancel(c.Request().Context())

	answer, err := h.service.Chat(ctx, &req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, domain.ChatResponse{
		Response:  answer,
		SessionID: req.SessionID,
	})
}

// WarmUp primes the retrieval and completion path.
// POST /warm-up
func (h *Handler) WarmUp(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())

	if !h.service.WarmUp(ctx) {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Search index warmup did not complete successfully",
			"success": false,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Search index warmup completed successfully",
		"success": true,
	})
}
