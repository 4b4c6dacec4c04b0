package cardsrv

import (
	"github.com/hayloft/cardstable-mcp/internal/cache"
	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/internal/download"
	"github.com/hayloft/cardstable-mcp/internal/query"
	"github.com/hayloft/cardstable-mcp/internal/search"
	"github.com/hayloft/cardstable-mcp/internal/session"
	"github.com/hayloft/cardstable-mcp/internal/settings"
	"github.com/hayloft/cardstable-mcp/pkg/client"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Client     *client.Client
	Store      *catalog.Store
	Cache      *cache.CardCache
	Config     *config.Config
	Search     *search.Engine
	Sessions   *session.Registry
	Downloader *download.Downloader
	Settings   *settings.Manager
	Query      *query.Engine
}
