// Package download fetches card images in bounded-concurrency batches and
// hands each one to the importer.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hayloft/cardstable-mcp/internal/cache"
	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/internal/importer"
	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/contenttype"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

const defaultWorkers = 4

// Downloader runs card downloads through an LRU byte cache and a bounded
// worker pool, handing each fetched card to the importer. One item failing
// never aborts the rest of the batch.
type Downloader struct {
	client  *client.Client
	cache   *cache.CardCache
	imp     importer.Importer
	workers int
}

// New creates a Downloader. The cache may be nil to download without one.
func New(c *client.Client, cc *cache.CardCache, imp importer.Importer, workers int) *Downloader {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Downloader{client: c, cache: cc, imp: imp, workers: workers}
}

// Fetch retrieves one card by canonical path, checking the cache first.
func (d *Downloader) Fetch(ctx context.Context, p catalog.Path) (*client.CardFile, error) {
	if d.cache != nil {
		if card, ok := d.cache.Get(p.String()); ok {
			return card, nil
		}
	}

	card, err := d.client.FetchCard(ctx, p.String())
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		d.cache.Put(p.String(), card)
	}
	return card, nil
}

// Run downloads the requested paths concurrently and imports each card.
// Item results keep request order regardless of completion order.
func (d *Downloader) Run(ctx context.Context, snap *catalog.Snapshot, paths []string) *types.DownloadReport {
	start := time.Now()
	items := make([]types.ItemResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, raw := range paths {
		g.Go(func() error {
			items[i] = d.one(ctx, snap, raw)
			return nil
		})
	}
	// Workers record failures in their item slot and never return an error.
	_ = g.Wait()

	report := &types.DownloadReport{Requested: len(paths), Items: items}
	for i := range items {
		if items[i].Imported {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	slog.Info("download batch finished",
		slog.Int("requested", report.Requested),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return report
}

// one fetches, verifies, and imports a single card.
func (d *Downloader) one(ctx context.Context, snap *catalog.Snapshot, raw string) types.ItemResult {
	p := catalog.NewPath(raw)
	item := types.ItemResult{Path: p.String()}

	if p.IsZero() {
		return fail(item, "empty card path", types.ErrKindNotFound)
	}

	var rec *types.CharacterRecord
	if snap != nil {
		var ok bool
		rec, ok = snap.Record(p.String())
		if !ok {
			return fail(item, "card is not in the catalog", types.ErrKindNotFound)
		}
		item.Name = rec.Name
	}

	card, err := d.Fetch(ctx, p)
	if err != nil {
		kind := types.ErrKindDownload
		if client.IsNotFound(err) {
			kind = types.ErrKindNotFound
		}
		slog.Debug("card fetch failed",
			slog.String("path", p.String()),
			slog.String("error", err.Error()),
		)
		return fail(item, err.Error(), kind)
	}

	if !contenttype.IsPNG(card.Data) {
		return fail(item, "endpoint returned a non-PNG payload", types.ErrKindBadPayload)
	}

	item.Downloaded = true
	item.Bytes = len(card.Data)
	sum := sha256.Sum256(card.Data)
	item.SHA256 = hex.EncodeToString(sum[:])

	dest, err := d.imp.Import(ctx, card, rec)
	if err != nil {
		slog.Debug("card import failed",
			slog.String("path", p.String()),
			slog.String("error", err.Error()),
		)
		return fail(item, err.Error(), types.ErrKindDownload)
	}

	item.Imported = true
	item.Dest = dest
	return item
}

func fail(item types.ItemResult, msg, kind string) types.ItemResult {
	item.Error = msg
	item.ErrorKind = kind
	return item
}
