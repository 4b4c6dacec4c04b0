// Package cardsrv provides an extensible MCP server for the cardstable
// catalog.
//
// This package exposes a high-level API for creating and running an MCP
// server with all builtin cardstable tools, prompts, and resources. Users can
// extend the server with custom tools, prompts, and resources using
// functional options, and can route downloads into their own application by
// supplying an importer.
//
// # Basic Usage
//
// Create a server against the default catalog endpoint:
//
//	server, err := cardsrv.NewServer(client.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
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
//	server, err := cardsrv.NewServer(
//	    client.New(),
//	    cardsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// # Host Integration
//
// Route downloaded cards into the host instead of a directory:
//
//	server, err := cardsrv.NewServer(
//	    client.New(client.WithBaseURL(archiveURL)),
//	    cardsrv.WithImporter(cardsrv.ImporterFunc(func(ctx context.Context, card *client.CardFile, rec *types.CharacterRecord) (string, error) {
//	        return host.AddCard(ctx, card.Data)
//	    })),
//	)
//
// # Configuration
//
// Configure logging and other options:
//
//	server, err := cardsrv.NewServer(
//	    client.New(),
//	    cardsrv.WithLogLevel("debug"),
//	    cardsrv.WithLogFile("/var/log/cardstable-mcp.log"),
//	)
package cardsrv
