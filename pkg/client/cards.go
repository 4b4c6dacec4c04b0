package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// CardFile is one downloaded card image.
type CardFile struct {
	Path        string // canonical catalog path
	ContentType string // as reported by the endpoint
	Data        []byte
}

// FetchCard retrieves the card image for a catalog path. The payload is
// returned as-is; callers decide whether a non-PNG body is acceptable.
func (c *Client) FetchCard(ctx context.Context, path string) (*CardFile, error) {
	data, contentType, err := c.fetch(ctx, CardsPrefix+EscapePath(path))
	if err != nil {
		return nil, fmt.Errorf("fetching card %q: %w", path, err)
	}
	return &CardFile{Path: path, ContentType: contentType, Data: data}, nil
}

// CardURL returns the absolute download URL for a catalog path.
func (c *Client) CardURL(path string) string {
	return c.baseURL + CardsPrefix + EscapePath(path)
}

// EscapePath escapes each segment of a catalog path for use in a URL,
// preserving the slashes between segments.
func EscapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
