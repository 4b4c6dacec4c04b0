package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/internal/cache"
	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/internal/download"
	"github.com/hayloft/cardstable-mcp/internal/importer"
	"github.com/hayloft/cardstable-mcp/internal/query"
	"github.com/hayloft/cardstable-mcp/internal/search"
	"github.com/hayloft/cardstable-mcp/internal/session"
	"github.com/hayloft/cardstable-mcp/internal/settings"
	"github.com/hayloft/cardstable-mcp/pkg/client"
)

// Fixture catalog: three uncategorized mares, one nsfw-listed, one eqg-listed,
// and one error row the ingester skips. The rarity tag key uses backslashes
// on purpose; canonicalization has to bridge it.
const testCatalog = `{
	"mares/applejack.png": {"name": "Applejack", "author": "anon", "description": "Honest to a fault", "personality": "stubborn, loyal", "scenario": "Sweet Apple Acres", "greetings": ["Howdy!"], "datecreate": "2023-01-15", "dateupdate": "2024-03-01"},
	"mares/rainbow.png": {"name": "Rainbow Dash", "author": "cloud_chaser", "greetings": "Hey there.", "datecreate": "2023-02-20", "dateupdate": "2024-05-10"},
	"mares/rarity.png": {"name": "Rarity", "author": "anon", "datecreate": "2023-03-05", "dateupdate": "2024-01-20"},
	"special/midnight.png": {"name": "Midnight", "author": "anon", "datecreate": "2023-04-01", "dateupdate": "2024-02-11"},
	"eqg/sunset.png": {"name": "Sunset Shimmer", "author": "canterlot", "datecreate": "2023-05-12", "dateupdate": "2024-04-02"},
	"broken.png": {"error": "upstream import failed"}
}`

const testFilters = `{
	"nsfw": ["special/midnight.png"],
	"eqg": ["eqg/sunset.png"],
	"tags": {
		"mares/applejack.png": ["earth pony", "honest"],
		"mares/rainbow.png": ["pegasus"],
		"mares\\rarity.png": ["unicorn"],
		"eqg/sunset.png": ["unicorn"]
	}
}`

var testPNG = []byte("\x89PNG\r\n\x1a\nfixture")

// archive is a stand-in catalog endpoint whose payloads tests can swap
// between calls to drive refresh deltas.
type archive struct {
	mu      sync.Mutex
	catalog string
	filters string
	cards   map[string][]byte
	srv     *httptest.Server
}

func newArchive(t *testing.T) *archive {
	t.Helper()
	a := &archive{
		catalog: testCatalog,
		filters: testFilters,
		cards:   make(map[string][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(client.CatalogPath, func(w http.ResponseWriter, _ *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		w.Write([]byte(a.catalog))
	})
	mux.HandleFunc(client.FilterIndexPath, func(w http.ResponseWriter, _ *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		w.Write([]byte(a.filters))
	})
	mux.HandleFunc(client.CardsPrefix, func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		data, ok := a.cards[strings.TrimPrefix(r.URL.Path, client.CardsPrefix)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	})

	a.srv = httptest.NewServer(mux)
	t.Cleanup(a.srv.Close)
	return a
}

func (a *archive) setCatalog(doc string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalog = doc
}

func (a *archive) addCard(path string, data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cards[path] = data
}

// newTestDeps builds the full dependency set against a fixture archive.
// Page size 2 keeps pagination observable with a three-card visible set.
func newTestDeps(t *testing.T) (*Deps, *archive) {
	t.Helper()
	a := newArchive(t)

	cfg := &config.Config{
		Endpoint:          a.srv.URL,
		CacheEnabled:      true,
		CacheTTL:          time.Hour,
		PageSize:          2,
		DefaultSort:       "dateupdate",
		ShowTagCounts:     true,
		DownloadWorkers:   2,
		CardCacheMaxItems: 16,
		MaxBatchSize:      3,
		DefaultQueryLimit: 200,
		MaxQueryResults:   10000,
		InfoTopN:          15,
	}

	c := client.New(client.WithBaseURL(a.srv.URL))
	store := catalog.NewStore(c, cfg)

	cc, err := cache.NewCardCache(cfg.CardCacheMaxItems)
	require.NoError(t, err)

	mgr, err := settings.NewManager(context.Background(), settings.NewMemoryStore(), settings.Defaults(cfg))
	require.NoError(t, err)

	d := &Deps{
		Client:     c,
		Store:      store,
		Search:     search.New(store),
		Sessions:   session.NewRegistry(),
		Downloader: download.New(c, cc, importer.NewDirImporter(t.TempDir()), cfg.DownloadWorkers),
		Settings:   mgr,
		Query:      query.NewEngine(),
		Config:     cfg,
	}
	return d, a
}

// requireCode asserts that err is a CodedError with the given code.
func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	require.Equal(t, code, coded.Code)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }
