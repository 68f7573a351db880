package httpserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/cristianortiz/auctionView/internal/auction/application"
	"github.com/cristianortiz/auctionView/internal/auction/domain"
	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"github.com/cristianortiz/auctionView/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Pages renders the live pages
type Pages interface {
	HasPage(pageID string) bool
	Render(pageID string, w io.Writer) error
}

type Server struct {
	app             *fiber.App
	pages           Pages
	hub             *websocket.Hub
	shutdownTimeout time.Duration
	// lifetime of the websocket pumps, set by Start
	ctx context.Context
}

func NewServer(pages Pages, hub *websocket.Hub, assetsDir string, shutdownTimeout time.Duration) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	s := &Server{
		app:             app,
		pages:           pages,
		hub:             hub,
		shutdownTimeout: shutdownTimeout,
		ctx:             context.Background(),
	}

	app.Use(func(c *fiber.Ctx) error {
		log.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
		)
		return c.Next()
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	if assetsDir != "" {
		app.Static("/assets", assetsDir)
	}
	app.Get("/pages/:page", s.renderPage)
	app.Get("/search", s.search)
	app.Use("/ws/:page", s.upgrade)
	app.Get("/ws/:page", fiberws.New(s.servePage))

	return s
}

func (s *Server) renderPage(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.pages.Render(c.Params("page"), &buf); err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "page not found")
		}
		log.Error("Failed to render page", zap.String("pageID", c.Params("page")), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// search checks the breed term before any search is run
func (s *Server) search(c *fiber.Ctx) error {
	if err := application.CheckBreed(c.Query("breed")); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"breed": c.Query("breed")})
}

// upgrade only lets websocket requests for known pages through
func (s *Server) upgrade(c *fiber.Ctx) error {
	if !s.pages.HasPage(c.Params("page")) {
		return fiber.NewError(fiber.StatusNotFound, "page not found")
	}
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("remote_addr", c.IP())
	return c.Next()
}

// servePage registers the browser on the page group and blocks on its read pump
func (s *Server) servePage(conn *fiberws.Conn) {
	remote, _ := conn.Locals("remote_addr").(string)
	client := websocket.NewClient(s.hub, conn, conn.Params("page"), uuid.NewString(), remote)
	s.hub.RegisterClient(client)

	go client.WritePump(s.ctx)
	client.ReadPump(s.ctx)
}

// Start listens on addr until ctx is cancelled, then shuts down within the configured timeout
func (s *Server) Start(ctx context.Context, addr string) error {
	s.ctx = ctx
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server started", zap.String("addr", addr))
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
