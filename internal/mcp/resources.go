package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/internal/mcp/tools"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// Resource URI scheme: cardstable://
// Supported URIs:
//   cardstable://catalog
//   cardstable://card/{path}
//   cardstable://schema/record

const (
	uriCatalog      = "cardstable://catalog"
	uriSchemaRecord = "cardstable://schema/record"
)

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         uriCatalog,
		Name:        "Card Catalog",
		Description: "Every ingested record of the current catalog snapshot. High context cost - search_cards already pages through this set. Only fetch for a complete dump.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceCatalog)

	// Card paths contain slashes; {+path} keeps them out of percent encoding.
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "cardstable://card/{+path}",
		Name:        "Character Card",
		Description: "One catalog record with all fields, resolved tags, and the download URL. get_card returns the same data as a tool result.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.8,
		},
	}, s.handleResourceCard)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         uriSchemaRecord,
		Name:        "Record Schema",
		Description: "JSON Schema of a catalog record, for building queries or validating exports.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceSchema)
}

// Resource handlers

func (s *Server) handleResourceCatalog(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	snap, err := s.deps.CurrentSnapshot(ctx)
	if err != nil {
		return nil, tools.WrapCatalogError(err)
	}

	content := map[string]any{
		"endpoint":   s.deps.Store.Endpoint(),
		"fetched_at": snap.FetchedAt.UTC().Format(time.RFC3339),
		"total":      len(snap.Records),
		"records":    snap.Records,
	}

	return toResourceResult(req.Params.URI, content)
}

func (s *Server) handleResourceCard(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	rawPath, err := parseCardURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	snap, err := s.deps.CurrentSnapshot(ctx)
	if err != nil {
		return nil, tools.WrapCatalogError(err)
	}

	rec, ok := snap.Record(catalog.NewPath(rawPath).String())
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	return toResourceResult(req.Params.URI, rec)
}

// recordSchema reflects the record type once; the schema cannot change while
// the process runs.
var recordSchema = sync.OnceValues(func() (string, error) {
	reflector := &jsonschema.Reflector{DoNotReference: true}
	data, err := json.MarshalIndent(reflector.Reflect(&types.CharacterRecord{}), "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing record schema: %w", err)
	}
	return string(data), nil
})

func (s *Server) handleResourceSchema(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	text, err := recordSchema()
	if err != nil {
		return nil, err
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: tools.MimeJSON,
				Text:     text,
			},
		},
	}, nil
}

// Helper functions

// parseCardURI extracts the catalog path from a cardstable://card/{path} URI.
func parseCardURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, "cardstable://")
	if !ok {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected cardstable://")
	}

	raw, ok := strings.CutPrefix(rest, "card/")
	if !ok || raw == "" {
		return "", tools.ErrInvalidInput("card URI requires a catalog path")
	}

	path, err := url.PathUnescape(raw)
	if err != nil {
		return "", tools.ErrInvalidInput(fmt.Sprintf("malformed card path %q", raw))
	}
	return path, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
