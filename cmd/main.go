package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	auctionws "github.com/cristianortiz/auctionView/internal/auction/infra/websocket"
	"github.com/cristianortiz/auctionView/internal/auction/infra/session"
	"github.com/cristianortiz/auctionView/internal/shared/config"
	"github.com/cristianortiz/auctionView/internal/shared/format"
	"github.com/cristianortiz/auctionView/internal/shared/httpserver"
	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"github.com/cristianortiz/auctionView/internal/shared/transport"
	"github.com/cristianortiz/auctionView/internal/shared/transport/kafka"
	"github.com/cristianortiz/auctionView/internal/shared/transport/memory"
	"github.com/cristianortiz/auctionView/internal/shared/transport/stomp"
	"github.com/cristianortiz/auctionView/internal/shared/websocket"
	"github.com/docopt/docopt-go"
	"go.uber.org/zap"
)

const version = "0.1.0"

const usage = `Auction live view.

Keeps the configured auction pages in sync with the auction server topics
and pushes every change to the browsers showing them.

Usage:
    auctionview [--config=<pages.yml>] [--transport=<kind>] [--addr=<addr>]
    auctionview -h | --help
    auctionview --version

Options:
    -h --help                Show this screen.
    --version                Show version.
    --config=<pages.yml>     Page list, overrides PAGES_FILE.
    --transport=<kind>       stomp, kafka or memory, overrides TRANSPORT.
    --addr=<addr>            HTTP listen address, overrides HTTP_ADDR.`

func flagOverrides(opts docopt.Opts) func(*config.Config) {
	return func(cfg *config.Config) {
		if v, err := opts.String("--config"); err == nil && v != "" {
			cfg.PagesFile = v
		}
		if v, err := opts.String("--transport"); err == nil && v != "" {
			cfg.Transport = v
		}
		if v, err := opts.String("--addr"); err == nil && v != "" {
			cfg.HTTPAddr = v
		}
	}
}

func newTransport(cfg *config.Config) (transport.Client, transport.Credentials) {
	switch cfg.Transport {
	case config.TransportKafka:
		return kafka.New(cfg.Kafka), transport.Credentials{}
	case config.TransportMemory:
		return memory.NewBroker(), transport.Credentials{}
	default:
		return stomp.New(cfg.Stomp), transport.Credentials{Login: cfg.Stomp.Login, Passcode: cfg.Stomp.Passcode}
	}
}

func main() {
	logger := logger.GetLogger()
	defer logger.Sync()

	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		logger.Fatal("Invalid arguments", zap.Error(err))
	}

	cfg, err := config.Load(flagOverrides(opts))
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Starting AuctionView server...",
		zap.String("transport", cfg.Transport),
		zap.Int("pages", len(cfg.Pages)),
	)

	formatter, err := format.NewFormatter(cfg.Locale, cfg.Timezone)
	if err != nil {
		logger.Fatal("Invalid display settings", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)
	browserHandler := auctionws.NewBrowserHandler(hub)
	go browserHandler.ListenForMessages(ctx)

	client, creds := newTransport(cfg)
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close transport", zap.Error(err))
		}
	}()

	manager, err := session.NewManager(cfg.Pages, client, formatter, auctionws.NewPatchPublisher(hub))
	if err != nil {
		logger.Fatal("Failed to load pages", zap.Error(err))
	}
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Error("Failed to release subscriptions", zap.Error(err))
		}
	}()
	go manager.Run(ctx)

	if err := client.Connect(ctx, creds, manager.OnConnected); err != nil {
		logger.Fatal("Transport connection failed", zap.String("transport", cfg.Transport), zap.Error(err))
	}

	server := httpserver.NewServer(manager, hub, cfg.AssetsDir, cfg.ShutdownTimeout)
	if err := server.Start(ctx, cfg.HTTPAddr); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
	logger.Info("AuctionView server stopped")
}
