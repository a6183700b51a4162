// Package server exposes the frame processor over HTTP and websockets for
// camera clients that run in another process or on another host.
package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/nvr-ai/go-edgecam/images"
	edgelog "github.com/nvr-ai/go-edgecam/internal/log"
)

// Processor converts one NV21 frame. *frame.Processor implements it.
type Processor interface {
	ProcessFrame(in images.Image, showEdges bool) (images.Image, error)
}

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// BodyLimit is the largest accepted request body in bytes.
	BodyLimit int
	// Preview bounds the size suggested by the sizes endpoint.
	Preview images.Size
	Logger  *slog.Logger
}

// Server is the HTTP bridge in front of a Processor.
type Server struct {
	app    *fiber.App
	proc   Processor
	cfg    Config
	logger *slog.Logger
}

// New creates a Server and registers its routes.
func New(proc Processor, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = edgelog.Discard()
	}
	if cfg.Preview.Width <= 0 || cfg.Preview.Height <= 0 {
		cfg.Preview = images.DefaultPreviewBound
	}

	s := &Server{
		proc:   proc,
		cfg:    cfg,
		logger: cfg.Logger,
	}

	fcfg := fiber.Config{
		AppName:               "edgecam",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
		ReadTimeout:           30 * time.Second,
	}
	if cfg.BodyLimit > 0 {
		fcfg.BodyLimit = cfg.BodyLimit
	}
	app := fiber.New(fcfg)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		ExposeHeaders: "X-Frame-Width,X-Frame-Height,X-Show-Edges",
	}))

	api := app.Group("/api/v1")
	api.Get("/health", s.handleHealth)
	api.Get("/sizes", s.handleSizes)
	api.Post("/frames", s.handleProcessFrame)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the configured address and blocks.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
