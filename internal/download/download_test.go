package download

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/internal/cache"
	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

var pngData = []byte("\x89PNG\r\n\x1a\nfakeimage")

// cardServer serves card blobs by canonical path and counts hits.
type cardServer struct {
	mu    sync.Mutex
	hits  map[string]int
	cards map[string][]byte
	delay time.Duration
}

func newCardServer(cards map[string][]byte) *cardServer {
	return &cardServer{hits: make(map[string]int), cards: cards}
}

func (cs *cardServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cs.delay > 0 {
			time.Sleep(cs.delay)
		}
		p := strings.TrimPrefix(r.URL.Path, client.CardsPrefix)
		cs.mu.Lock()
		cs.hits[p]++
		cs.mu.Unlock()

		data, ok := cs.cards[p]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	})
}

func (cs *cardServer) hitCount(p string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.hits[p]
}

// memImporter collects imported cards in memory.
type memImporter struct {
	mu    sync.Mutex
	paths []string
	fail  bool
}

func (m *memImporter) Import(_ context.Context, card *client.CardFile, _ *types.CharacterRecord) (string, error) {
	if m.fail {
		return "", errors.New("host rejected the card")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, card.Path)
	return "mem:" + card.Path, nil
}

func testSnapshot(t *testing.T, c *client.Client, paths ...string) *catalog.Snapshot {
	t.Helper()
	doc := &client.CatalogDocument{}
	for _, p := range paths {
		doc.Rows = append(doc.Rows, client.CatalogRow{
			Key:   p,
			Value: json.RawMessage(`{"name":"` + path.Base(p) + `","author":"anon"}`),
		})
	}
	fi := &client.FilterIndex{Tags: map[string][]string{}}
	return catalog.BuildSnapshot(doc, fi, []byte(`{"tags":{}}`), c, time.Now())
}

func newTestCache(t *testing.T) *cache.CardCache {
	t.Helper()
	cc, err := cache.NewCardCache(16)
	require.NoError(t, err)
	return cc
}

func TestRun_DownloadsAndImports(t *testing.T) {
	cs := newCardServer(map[string][]byte{"ponies/a.png": pngData})
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	imp := &memImporter{}
	d := New(c, newTestCache(t), imp, 2)
	snap := testSnapshot(t, c, "ponies/a.png")

	report := d.Run(context.Background(), snap, []string{"ponies/a.png"})

	require.Len(t, report.Items, 1)
	item := report.Items[0]
	assert.Equal(t, 1, report.Requested)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.True(t, item.Downloaded)
	assert.True(t, item.Imported)
	assert.Equal(t, "ponies/a.png", item.Path)
	assert.Equal(t, "a.png", item.Name)
	assert.Equal(t, "mem:ponies/a.png", item.Dest)
	assert.Equal(t, len(pngData), item.Bytes)
	assert.Len(t, item.SHA256, 64)
	assert.Empty(t, item.Error)
	assert.Equal(t, []string{"ponies/a.png"}, imp.paths)
}

func TestRun_ContinuesPastFailures(t *testing.T) {
	cs := newCardServer(map[string][]byte{
		"a.png": pngData,
		"c.png": []byte("<html>error page</html>"),
	})
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	d := New(c, nil, &memImporter{}, 2)
	snap := testSnapshot(t, c, "a.png", "b.png", "c.png")

	report := d.Run(context.Background(), snap, []string{"a.png", "b.png", "c.png", "ghost.png"})

	require.Len(t, report.Items, 4)
	assert.Equal(t, 4, report.Requested)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 3, report.Failed)

	// Results stay in request order.
	assert.Equal(t, "a.png", report.Items[0].Path)
	assert.True(t, report.Items[0].Imported)

	assert.Equal(t, "b.png", report.Items[1].Path)
	assert.False(t, report.Items[1].Downloaded)
	assert.Equal(t, types.ErrKindNotFound, report.Items[1].ErrorKind)

	assert.Equal(t, "c.png", report.Items[2].Path)
	assert.False(t, report.Items[2].Downloaded)
	assert.Equal(t, types.ErrKindBadPayload, report.Items[2].ErrorKind)

	assert.Equal(t, "ghost.png", report.Items[3].Path)
	assert.Equal(t, types.ErrKindNotFound, report.Items[3].ErrorKind)
	assert.Equal(t, "card is not in the catalog", report.Items[3].Error)
}

func TestRun_ImportFailureIsPerItem(t *testing.T) {
	cs := newCardServer(map[string][]byte{"a.png": pngData})
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	d := New(c, nil, &memImporter{fail: true}, 2)
	snap := testSnapshot(t, c, "a.png")

	report := d.Run(context.Background(), snap, []string{"a.png"})

	require.Len(t, report.Items, 1)
	item := report.Items[0]
	assert.True(t, item.Downloaded)
	assert.False(t, item.Imported)
	assert.Equal(t, types.ErrKindDownload, item.ErrorKind)
	assert.Contains(t, item.Error, "host rejected")
	assert.Equal(t, 0, report.Succeeded)
}

func TestRun_CachesAcrossBatches(t *testing.T) {
	cs := newCardServer(map[string][]byte{"a.png": pngData})
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	d := New(c, newTestCache(t), &memImporter{}, 2)
	snap := testSnapshot(t, c, "a.png")

	first := d.Run(context.Background(), snap, []string{"a.png"})
	second := d.Run(context.Background(), snap, []string{"a.png"})

	assert.Equal(t, 1, first.Succeeded)
	assert.Equal(t, 1, second.Succeeded)
	assert.Equal(t, 1, cs.hitCount("a.png"))
}

func TestRun_CanonicalizesRequestedPaths(t *testing.T) {
	cs := newCardServer(map[string][]byte{"ponies/a.png": pngData})
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	d := New(c, nil, &memImporter{}, 2)
	snap := testSnapshot(t, c, "ponies/a.png")

	report := d.Run(context.Background(), snap, []string{`ponies\a.png`})

	require.Len(t, report.Items, 1)
	assert.Equal(t, "ponies/a.png", report.Items[0].Path)
	assert.True(t, report.Items[0].Imported)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inflight, peak := 0, 0

	mux := http.NewServeMux()
	mux.HandleFunc(client.CardsPrefix, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inflight++
		if inflight > peak {
			peak = inflight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inflight--
		mu.Unlock()
		w.Write(pngData)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	d := New(c, nil, &memImporter{}, 2)

	paths := []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"}
	snap := testSnapshot(t, c, paths...)
	report := d.Run(context.Background(), snap, paths)

	assert.Equal(t, 6, report.Succeeded)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
}

func TestFetch_ChecksCacheFirst(t *testing.T) {
	cs := newCardServer(map[string][]byte{"a.png": pngData})
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	d := New(c, newTestCache(t), &memImporter{}, 2)

	first, err := d.Fetch(context.Background(), catalog.NewPath("a.png"))
	require.NoError(t, err)
	second, err := d.Fetch(context.Background(), catalog.NewPath("a.png"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cs.hitCount("a.png"))
}

func TestRun_EmptyPathFailsFast(t *testing.T) {
	c := client.New(client.WithBaseURL("http://127.0.0.1:0"))
	d := New(c, nil, &memImporter{}, 2)

	report := d.Run(context.Background(), testSnapshot(t, c), []string{"  "})

	require.Len(t, report.Items, 1)
	assert.Equal(t, types.ErrKindNotFound, report.Items[0].ErrorKind)
	assert.Equal(t, "empty card path", report.Items[0].Error)
}
