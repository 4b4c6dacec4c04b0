package cardsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/internal/cache"
	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/internal/download"
	"github.com/hayloft/cardstable-mcp/internal/importer"
	"github.com/hayloft/cardstable-mcp/internal/logging"
	"github.com/hayloft/cardstable-mcp/internal/mcp"
	"github.com/hayloft/cardstable-mcp/internal/mcp/tools"
	"github.com/hayloft/cardstable-mcp/internal/query"
	"github.com/hayloft/cardstable-mcp/internal/search"
	"github.com/hayloft/cardstable-mcp/internal/session"
	"github.com/hayloft/cardstable-mcp/internal/settings"
	"github.com/hayloft/cardstable-mcp/pkg/client"
)

// defaultDownloadDir is where the DirImporter writes when no download
// directory is configured.
const defaultDownloadDir = "cards"

// Server is the cardstable MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal      *mcp.Server
	deps          *Deps
	settingsStore settings.Store // closed on Close when opened here
	logCleanup    func() error
}

// NewServer creates a new MCP server with the builtin cardstable tools.
//
// The client parameter is required and provides access to the catalog
// endpoint. Use functional options to configure logging, swap the importer,
// add custom tools, etc.
func NewServer(c *client.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	// Build configuration from options
	sc := &serverConfig{}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		sc.config = cfg
	}

	// Setup logging
	logCfg := logging.FromConfig(sc.config)
	if sc.logLevel != "" {
		logCfg.Level = sc.logLevel
	}
	if sc.logFile != "" {
		logCfg.FilePath = sc.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Create infrastructure
	cardCache, err := cache.NewCardCache(sc.config.CardCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create card cache: %w", err)
	}

	store := catalog.NewStore(c, sc.config)

	imp := sc.importer
	if imp == nil {
		dir := sc.config.DownloadDir
		if dir == "" {
			dir = defaultDownloadDir
		}
		imp = importer.NewDirImporter(dir)
	}

	// Settings persistence: an explicitly provided store stays under the
	// caller's ownership; one opened here is closed by Close.
	settingsStore := sc.settingsStore
	var ownedStore settings.Store
	if settingsStore == nil {
		if sc.config.SettingsDB != "" {
			db, err := settings.OpenSQLite(sc.config.SettingsDB)
			if err != nil {
				return nil, fmt.Errorf("failed to open settings store: %w", err)
			}
			settingsStore = db
			ownedStore = db
		} else {
			settingsStore = settings.NewMemoryStore()
		}
	}

	mgr, err := settings.NewManager(context.Background(), settingsStore, settings.Defaults(sc.config))
	if err != nil {
		if ownedStore != nil {
			ownedStore.Close()
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// Create engines
	searchEngine := search.New(store)
	sessions := session.NewRegistry()
	downloader := download.New(c, cardCache, imp, sc.config.DownloadWorkers)
	queryEngine := query.NewEngine()

	// Create deps for internal tools and custom tools
	toolDeps := &tools.Deps{
		Client:     c,
		Store:      store,
		Search:     searchEngine,
		Sessions:   sessions,
		Downloader: downloader,
		Settings:   mgr,
		Query:      queryEngine,
		Config:     sc.config,
	}

	// Create public deps (same values, different type for public API)
	deps := &Deps{
		Client:     c,
		Store:      store,
		Cache:      cardCache,
		Config:     sc.config,
		Search:     searchEngine,
		Sessions:   sessions,
		Downloader: downloader,
		Settings:   mgr,
		Query:      queryEngine,
	}

	// Build internal server options
	var internalOpts []mcp.ServerOption
	if !sc.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !sc.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	if sc.instructions != "" {
		internalOpts = append(internalOpts, mcp.WithInstructions(sc.instructions))
	}

	// Add custom extension registration callbacks
	for _, fn := range sc.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range sc.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range sc.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Add deferred tool registrations (tools that need Deps access)
	for _, fn := range sc.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	// Create internal server
	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		if ownedStore != nil {
			ownedStore.Close()
		}
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:      internal,
		deps:          deps,
		settingsStore: ownedStore,
		logCleanup:    logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	var firstErr error
	if s.settingsStore != nil {
		firstErr = s.settingsStore.Close()
	}
	if s.logCleanup != nil {
		if err := s.logCleanup(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
