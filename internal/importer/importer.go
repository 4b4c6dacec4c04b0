// Package importer delivers downloaded cards to their destination. The
// default destination is a directory on disk; embedders supply their own
// Importer to route cards into a host application instead.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// Importer receives a fetched card and stores it somewhere useful. It
// returns a destination label for reporting, such as a file path or a host
// record id. The record is the catalog entry the card was downloaded for
// and may be nil when the card was requested by bare path.
type Importer interface {
	Import(ctx context.Context, card *client.CardFile, rec *types.CharacterRecord) (string, error)
}

// Func adapts a function to the Importer interface.
type Func func(ctx context.Context, card *client.CardFile, rec *types.CharacterRecord) (string, error)

// Import calls f.
func (f Func) Import(ctx context.Context, card *client.CardFile, rec *types.CharacterRecord) (string, error) {
	return f(ctx, card, rec)
}

// DirImporter writes each card into a directory, one file per card. Writes
// go through a temp file and a rename, so a crash never leaves a partial
// card behind. Name collisions get a numeric suffix instead of clobbering
// an existing file.
type DirImporter struct {
	dir string
}

// NewDirImporter creates an importer writing into dir. The directory is
// created on first import, not here.
func NewDirImporter(dir string) *DirImporter {
	return &DirImporter{dir: dir}
}

// Dir returns the destination directory.
func (d *DirImporter) Dir() string {
	return d.dir
}

// Import writes the card into the directory and returns the final path.
func (d *DirImporter) Import(_ context.Context, card *client.CardFile, _ *types.CharacterRecord) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ".card-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(card.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write card: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	dest, err := d.claimName(fileName(card.Path))
	if err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("publish card: %w", err)
	}
	return dest, nil
}

// claimName picks the first unused destination for name, suffixing with
// " (2)", " (3)" and so on past collisions.
func (d *DirImporter) claimName(name string) (string, error) {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 1; ; n++ {
		candidate := name
		if n > 1 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		dest := filepath.Join(d.dir, candidate)
		_, err := os.Stat(dest)
		if errors.Is(err, fs.ErrNotExist) {
			return dest, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// fileName derives a safe local file name from a canonical catalog path.
func fileName(cardPath string) string {
	name := path.Base(cardPath)
	if name == "." || name == "/" || name == "" {
		name = "card"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '\\', '|', '?', '*', 0:
			return '_'
		}
		return r
	}, name)
	if path.Ext(name) == "" {
		name += ".png"
	}
	return name
}
