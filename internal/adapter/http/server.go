// Package http exposes the service over an Echo JSON API. It owns request
// parsing, user scoping and the mapping of domain errors onto status codes;
// all business logic lives in the usecase packages.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Server wraps the Echo instance
type Server struct {
	echo *echo.Echo
}

// New creates the Echo server with JSON defaults
func New() *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	return &Server{echo: e}
}

// Echo exposes the underlying Echo instance for startup and shutdown
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// RegisterRoutes wires the API surface. Everything under /api/v1 requires
// the caller to identify the owning user.
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	api := e.Group("/api/v1")
	api.Use(handlers.RequireUser)

	api.GET("/grid-data", handlers.GetGridData)

	api.POST("/value-entries", handlers.UpsertValueEntry)
	api.DELETE("/value-entries", handlers.DeleteEntriesByDate)
	api.POST("/value-entries/column", handlers.AddColumn)

	api.GET("/accounts", handlers.ListAccounts)
	api.POST("/accounts", handlers.CreateAccount)
	api.PATCH("/accounts/:id", handlers.UpdateAccount)
	api.POST("/accounts/:id/archive", handlers.SetAccountArchived)
	api.DELETE("/accounts/:id", handlers.DeleteAccount)
}

// HealthResponse is the /healthz payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// RegisterHealth adds the unauthenticated health endpoint
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now().UTC()})
	})
}
