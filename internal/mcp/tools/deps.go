package tools

import (
	"context"

	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/internal/download"
	"github.com/hayloft/cardstable-mcp/internal/query"
	"github.com/hayloft/cardstable-mcp/internal/search"
	"github.com/hayloft/cardstable-mcp/internal/session"
	"github.com/hayloft/cardstable-mcp/internal/settings"
	"github.com/hayloft/cardstable-mcp/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client     *client.Client
	Store      *catalog.Store
	Search     *search.Engine
	Sessions   *session.Registry
	Downloader *download.Downloader
	Settings   *settings.Manager
	Query      *query.Engine
	Config     *config.Config
}

// CurrentSnapshot returns a catalog snapshot honoring the cache_enabled
// setting: with caching off every call fetches fresh data.
func (d *Deps) CurrentSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	if !d.Settings.Get().CacheEnabled {
		snap, _, err := d.Store.Refresh(ctx)
		return snap, err
	}
	return d.Store.Get(ctx)
}

// SearchParams assembles the settings-derived part of a session search.
func (d *Deps) SearchParams() session.Params {
	s := d.Settings.Get()
	return session.Params{
		PageSize:    s.PageSize,
		DefaultSort: s.DefaultSort,
		NSFWVisible: s.NSFWVisible,
		Refresh:     !s.CacheEnabled,
	}
}
