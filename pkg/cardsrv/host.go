package cardsrv

import (
	"context"

	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// Importer receives a downloaded card and stores it somewhere useful. It
// returns a destination label for reporting, such as a file path or a host
// record id. The record is the catalog entry the card was downloaded for and
// may be nil when the card was requested by bare path.
//
// This is the host's "import a card" contract; the builtin default writes
// files into a directory.
type Importer interface {
	Import(ctx context.Context, card *client.CardFile, rec *types.CharacterRecord) (string, error)
}

// ImporterFunc adapts a function to the Importer interface.
type ImporterFunc func(ctx context.Context, card *client.CardFile, rec *types.CharacterRecord) (string, error)

// Import calls f.
func (f ImporterFunc) Import(ctx context.Context, card *client.CardFile, rec *types.CharacterRecord) (string, error) {
	return f(ctx, card, rec)
}

// SettingsStore persists the marshaled settings document. Implement it to
// keep settings in the host's own storage; the builtin defaults are an
// in-memory store and a SQLite file.
type SettingsStore interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, doc []byte) error
	Close() error
}
