// Package cache provides caching utilities for the MCP server.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hayloft/cardstable-mcp/pkg/client"
)

// CardCache provides thread-safe LRU caching for downloaded card images,
// keyed by canonical catalog path. Re-downloading the same card within a
// batch (or across batches) costs one network fetch total.
type CardCache struct {
	cache *lru.Cache[string, *client.CardFile]
}

// NewCardCache creates a new LRU cache with the specified maximum number of cards.
func NewCardCache(maxItems int) (*CardCache, error) {
	c, err := lru.New[string, *client.CardFile](maxItems)
	if err != nil {
		return nil, err
	}
	return &CardCache{cache: c}, nil
}

// Get retrieves a card from the cache by its canonical path.
// Returns the card and true if found, nil and false otherwise.
func (c *CardCache) Get(path string) (*client.CardFile, bool) {
	return c.cache.Get(path)
}

// Put adds or updates a card in the cache.
func (c *CardCache) Put(path string, card *client.CardFile) {
	c.cache.Add(path, card)
}

// Len returns the current number of cached cards.
func (c *CardCache) Len() int {
	return c.cache.Len()
}
