package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server exposes the operational HTTP endpoint. It carries no bot
// functionality, only a liveness probe for deployments that want one.
type Server struct {
	echo    *echo.Echo
	addr    string
	version string
	started time.Time
}

// NewServer builds the ops server with its routes registered
func NewServer(addr, version string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		addr:    addr,
		version: version,
		started: time.Now(),
	}

	e.GET("/healthz", s.health)
	e.HEAD("/healthz", s.healthHead)

	return s
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) healthHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
