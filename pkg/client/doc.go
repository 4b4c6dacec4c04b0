// Package client provides a Go client for a static character-card archive.
//
// An archive endpoint serves three read-only resources: the catalog document
// (/mares.json, an object mapping path keys to card records), the filter
// index (/assets/filters.json, category path lists plus a path-to-tags
// mapping), and the card images themselves (/cards/{path}, PNG files with
// embedded card metadata).
//
// # Quick Start
//
// Create a client and fetch the catalog:
//
//	c := client.New(client.WithBaseURL("https://archive.example.org"))
//	doc, err := c.FetchCatalog(ctx)
//
// Use custom configuration:
//
//	c := client.New(
//	    client.WithBaseURL("https://archive.example.org"),
//	    client.WithMirrors([]string{"https://mirror.example.org"}),
//	    client.WithTimeout(10*time.Second),
//	)
//
// # Document Order
//
// The catalog document's row order is meaningful: it is the unsorted baseline
// ordering of the archive. FetchCatalog decodes with a token walker so the
// order survives; the verbatim payload is kept on CatalogDocument.Raw for
// query tooling.
//
// # Mirrors
//
// When mirrors are configured, a network error or a 5xx from the primary
// endpoint falls through to each mirror in order. A 4xx is authoritative and
// fails immediately. Mirror failover is connectivity handling, not a retry
// policy: a failed invocation is never re-run.
//
// # Errors
//
// Non-success statuses surface as *APIError:
//
//	card, err := c.FetchCard(ctx, path)
//	if client.IsNotFound(err) {
//	    // card was removed from the archive
//	}
package client
