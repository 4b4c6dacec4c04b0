// Package prompts contains the MCP prompt implementations for cardstable.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	Endpoint     string
	PageSize     int
	MaxBatchSize int
}
