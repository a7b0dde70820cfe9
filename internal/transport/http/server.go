// Package http provides the HTTP transport for the document assistant.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/docchat/internal/service"
)

// NewServer creates and configures the HTTP server.
func NewServer(svc *service.Service, allowedOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
	}))

	// Handlers
	h := NewHandler(svc)
	h.RegisterRoutes(e)

	return e
}
