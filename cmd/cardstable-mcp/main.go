package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/pkg/cardsrv"
	"github.com/hayloft/cardstable-mcp/pkg/client"
)

func main() {
	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration comes from environment variables, with an optional YAML
	// overlay named by CARDSTABLE_CONFIG:
	// - CARDSTABLE_ENDPOINT: catalog endpoint base URL
	// - CARDSTABLE_MIRRORS: comma-separated fallback endpoints
	// - CARDSTABLE_DOWNLOAD_DIR: where imported cards land
	// - LOG_LEVEL: debug, info, warn, error (default: info)
	// - LOG_FILE: path to log file (default: stderr only)
	// - etc. (see internal/config for all options)
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Create the catalog client
	var clientOpts []client.Option
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, client.WithBaseURL(cfg.Endpoint))
	}
	if len(cfg.Mirrors) > 0 {
		clientOpts = append(clientOpts, client.WithMirrors(cfg.Mirrors))
	}
	if cfg.HTTPClientTimeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(cfg.HTTPClientTimeout))
	}
	archive := client.New(clientOpts...)

	// Create MCP server with all builtin tools
	server, err := cardsrv.NewServer(archive, cardsrv.WithConfig(cfg))
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	// Run the server with stdio transport
	slog.Info("starting cardstable MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
