// Package catalog ingests the remote card catalog and serves immutable
// snapshots of it.
package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/internal/schema"
	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// Store fetches and caches catalog snapshots with a TTL. The two source
// documents are fetched concurrently and published as one snapshot, so a
// reader never pairs records from one fetch with an index from another.
type Store struct {
	client *client.Client
	ttl    time.Duration

	group   singleflight.Group
	current atomic.Pointer[Snapshot]
}

// NewStore creates a catalog store backed by c.
func NewStore(c *client.Client, cfg *config.Config) *Store {
	return &Store{
		client: c,
		ttl:    cfg.CacheTTL,
	}
}

// Get returns the current snapshot, fetching when none is cached yet or the
// cached one has outlived the TTL. Concurrent callers share one fetch.
func (s *Store) Get(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil && s.fresh(snap) {
		return snap, nil
	}
	return s.fetch(ctx)
}

// Refresh fetches unconditionally and returns the delta against the
// previously cached snapshot. The delta is nil on a first fetch.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, *types.CatalogDelta, error) {
	prev := s.current.Load()
	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap, diffSnapshots(prev, snap), nil
}

// Current returns the cached snapshot without fetching, or nil when nothing
// has been fetched yet.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Endpoint returns the primary endpoint base the store fetches from.
func (s *Store) Endpoint() string {
	return s.client.BaseURL()
}

// TTL returns the configured cache window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// fresh reports whether snap is still within the TTL window.
func (s *Store) fresh(snap *Snapshot) bool {
	return time.Since(snap.FetchedAt) < s.ttl
}

// fetch runs one deduplicated refresh.
func (s *Store) fetch(ctx context.Context) (*Snapshot, error) {
	v, err, _ := s.group.Do("catalog", func() (any, error) {
		return s.doRefresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// doRefresh fetches both source documents concurrently, ingests them, and
// publishes the resulting snapshot.
func (s *Store) doRefresh(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	var (
		doc       *client.CatalogDocument
		fi        *client.FilterIndex
		filterRaw []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = s.client.FetchCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		fi, filterRaw, err = s.client.FetchFilterIndex(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := BuildSnapshot(doc, fi, filterRaw, s.client, time.Now())

	var violations []string
	for _, f := range schema.CheckCatalog(doc.Raw) {
		violations = append(violations, "mares.json: "+f)
	}
	for _, f := range schema.CheckFilterIndex(filterRaw) {
		violations = append(violations, "filters.json: "+f)
	}
	snap.Violations = violations

	s.current.Store(snap)

	slog.Info("catalog refreshed",
		slog.Int("records", len(snap.Records)),
		slog.Int("skipped", snap.Skipped.Total()),
		slog.Int("tags", snap.Index.TagCount()),
		slog.Int("schema_findings", len(violations)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return snap, nil
}
