// Package settings serves the effective user preferences and persists
// updates as one JSON document under the fixed cardstable namespace.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// MaxPageSize caps the page_size setting.
const MaxPageSize = 200

// ErrInvalid marks a patch rejected by validation; nothing was saved.
var ErrInvalid = errors.New("invalid settings")

// Store persists the marshaled settings document.
type Store interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, doc []byte) error
	Close() error
}

// Defaults derives the startup settings from the server configuration.
func Defaults(cfg *config.Config) types.Settings {
	s := types.Settings{
		PageSize:      cfg.PageSize,
		DefaultSort:   types.SortKey(cfg.DefaultSort),
		NSFWVisible:   cfg.NSFWVisible,
		CacheEnabled:  cfg.CacheEnabled,
		ShowTagCounts: cfg.ShowTagCounts,
	}
	if s.PageSize < 1 || s.PageSize > MaxPageSize {
		s.PageSize = config.DefaultPageSizeValue
	}
	if !types.ValidSortKey(s.DefaultSort) {
		s.DefaultSort = types.DefaultSort
	}
	return s
}

// Manager guards the current settings and writes updates through the store.
type Manager struct {
	store Store

	mu  sync.RWMutex
	cur types.Settings
}

// NewManager loads the stored settings over the defaults. Stored values
// that fail validation fall back to the default field by field.
func NewManager(ctx context.Context, store Store, defaults types.Settings) (*Manager, error) {
	m := &Manager{store: store, cur: defaults}
	if store == nil {
		return m, nil
	}

	doc, ok, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if ok {
		m.cur = sanitize(doc, defaults)
	}
	return m, nil
}

// Get returns the current settings.
func (m *Manager) Get() types.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Update validates and applies a partial update, persists the result, and
// returns the settings now in effect. A failed save leaves the previous
// settings in place.
func (m *Manager) Update(ctx context.Context, patch types.SettingsPatch) (types.Settings, error) {
	if patch.PageSize != nil && (*patch.PageSize < 1 || *patch.PageSize > MaxPageSize) {
		return types.Settings{}, fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalid, MaxPageSize)
	}
	if patch.DefaultSort != nil && !types.ValidSortKey(*patch.DefaultSort) {
		return types.Settings{}, fmt.Errorf("%w: unknown sort key %q", ErrInvalid, *patch.DefaultSort)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.cur
	if patch.PageSize != nil {
		next.PageSize = *patch.PageSize
	}
	if patch.DefaultSort != nil {
		next.DefaultSort = *patch.DefaultSort
	}
	if patch.NSFWVisible != nil {
		next.NSFWVisible = *patch.NSFWVisible
	}
	if patch.CacheEnabled != nil {
		next.CacheEnabled = *patch.CacheEnabled
	}
	if patch.ShowTagCounts != nil {
		next.ShowTagCounts = *patch.ShowTagCounts
	}

	if m.store != nil {
		doc, err := json.Marshal(next)
		if err != nil {
			return types.Settings{}, fmt.Errorf("marshal settings: %w", err)
		}
		if err := m.store.Save(ctx, doc); err != nil {
			return types.Settings{}, fmt.Errorf("save settings: %w", err)
		}
	}

	m.cur = next
	slog.Info("settings updated",
		slog.Int("page_size", next.PageSize),
		slog.String("default_sort", string(next.DefaultSort)),
		slog.Bool("nsfw_visible", next.NSFWVisible),
		slog.Bool("cache_enabled", next.CacheEnabled),
	)
	return next, nil
}

// sanitize decodes a stored document, keeping the default for any field
// that is absent or invalid.
func sanitize(doc []byte, defaults types.Settings) types.Settings {
	var stored types.SettingsPatch
	if err := json.Unmarshal(doc, &stored); err != nil {
		slog.Warn("stored settings are unreadable, using defaults",
			slog.String("error", err.Error()),
		)
		return defaults
	}

	s := defaults
	if stored.PageSize != nil && *stored.PageSize >= 1 && *stored.PageSize <= MaxPageSize {
		s.PageSize = *stored.PageSize
	}
	if stored.DefaultSort != nil && types.ValidSortKey(*stored.DefaultSort) {
		s.DefaultSort = *stored.DefaultSort
	}
	if stored.NSFWVisible != nil {
		s.NSFWVisible = *stored.NSFWVisible
	}
	if stored.CacheEnabled != nil {
		s.CacheEnabled = *stored.CacheEnabled
	}
	if stored.ShowTagCounts != nil {
		s.ShowTagCounts = *stored.ShowTagCounts
	}
	return s
}

// MemoryStore keeps the settings document in memory. It backs tests and
// embedding hosts that do not want a database file.
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored document, if any.
func (m *MemoryStore) Load(_ context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, false, nil
	}
	return append([]byte(nil), m.doc...), true, nil
}

// Save replaces the stored document.
func (m *MemoryStore) Save(_ context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = append([]byte(nil), doc...)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
