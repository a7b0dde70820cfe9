package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/docchat/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	e.POST("/chat", h.Chat)
	e.POST("/warm-up", h.WarmUp)

	e.GET("/session/new", h.NewSession)
	e.GET("/session/:session_id/info", h.SessionInfo)
	e.GET("/session/:session_id/history", h.SessionHistory)
	e.POST("/session/:session_id/clear", h.ClearSession)
	e.GET("/user/:user_id/history", h.UserHistory)
}

// Root reports that the API is up.
// GET /
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Document Assistant API is running",
	})
}

// Health returns health status and store availability.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"store_enabled": h.service.StoreEnabled(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
