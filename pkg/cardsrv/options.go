package cardsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/internal/config"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config        *config.Config
	importer      Importer
	settingsStore SettingsStore
	instructions  string

	// Logging overrides
	logLevel string
	logFile  string

	// Extension toggles
	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	// Custom extensions - registration callbacks that preserve generic type info
	toolRegistrations     []func(*mcp.Server)
	promptRegistrations   []func(*mcp.Server)
	resourceRegistrations []func(*mcp.Server)

	// Deferred tool registrations that need access to Deps
	deferredToolRegistrations []func(*mcp.Server, *Deps)
}

// Option configures the server.
type Option func(*serverConfig)

// WithConfig supplies a prebuilt configuration instead of reading the
// environment. Useful for embedding hosts that manage configuration
// themselves.
func WithConfig(cfg *config.Config) Option {
	return func(sc *serverConfig) {
		sc.config = cfg
	}
}

// WithImporter routes downloaded cards into the host instead of the default
// directory importer.
func WithImporter(imp Importer) Option {
	return func(sc *serverConfig) {
		sc.importer = imp
	}
}

// WithSettingsStore persists settings through the given store instead of the
// default (SQLite when CARDSTABLE_SETTINGS_DB is set, otherwise in-memory).
// The caller keeps ownership and closes the store.
func WithSettingsStore(store SettingsStore) Option {
	return func(sc *serverConfig) {
		sc.settingsStore = store
	}
}

// WithInstructions sets the server instructions sent to MCP clients during
// initialization.
func WithInstructions(text string) Option {
	return func(sc *serverConfig) {
		sc.instructions = text
	}
}

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(sc *serverConfig) {
		sc.logLevel = level
	}
}

// WithLogFile sets the log file path.
// If empty, logs are written to stderr only.
func WithLogFile(path string) Option {
	return func(sc *serverConfig) {
		sc.logFile = path
	}
}

// WithoutBuiltinTools disables all builtin cardstable tools and resources.
// Use this if you want to register only your own tools.
func WithoutBuiltinTools() Option {
	return func(sc *serverConfig) {
		sc.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts disables all builtin cardstable prompts.
// Use this if you want to register only your own prompts.
func WithoutBuiltinPrompts() Option {
	return func(sc *serverConfig) {
		sc.disableBuiltinPrompts = true
	}
}

// WithTool registers a custom tool with the server.
//
// The handler signature must match the MCP SDK pattern:
//
//	func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error)
//
// Where In is the input type (unmarshaled from JSON) and Out is the output
// type (marshaled to JSON).
//
// Example:
//
//	type MyInput struct {
//	    Term string `json:"term"`
//	}
//
//	type MyOutput struct {
//	    Count int `json:"count"`
//	}
//
//	func myHandler(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	    return nil, MyOutput{Count: 42}, nil
//	}
//
//	cardsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler)
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(sc *serverConfig) {
		// Store a callback that calls AddTool with output zero-value check
		sc.toolRegistrations = append(sc.toolRegistrations, func(srv *mcp.Server) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool that has access to Deps.
// Use this when your tool needs the catalog store, search engine, or other
// infrastructure.
//
// The builder receives Deps and returns a handler function.
//
// Example:
//
//	cardsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_by_author", Description: "Count cards per author"},
//	    func(d *cardsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            snap, err := d.Store.Get(ctx)
//	            if err != nil {
//	                return nil, MyOutput{}, err
//	            }
//	            return nil, MyOutput{Count: len(snap.Records)}, nil
//	        }
//	    },
//	)
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(sc *serverConfig) {
		sc.deferredToolRegistrations = append(sc.deferredToolRegistrations, func(srv *mcp.Server, deps *Deps) {
			handler := builder(deps)
			AddTool(srv, tool, handler)
		})
	}
}

// WithPrompt registers a custom prompt with the server.
//
// The handler signature matches the MCP SDK pattern:
//
//	func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(sc *serverConfig) {
		sc.promptRegistrations = append(sc.promptRegistrations, func(srv *mcp.Server) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template with the server.
//
// The handler signature matches the MCP SDK pattern:
//
//	func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(sc *serverConfig) {
		sc.resourceRegistrations = append(sc.resourceRegistrations, func(srv *mcp.Server) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
