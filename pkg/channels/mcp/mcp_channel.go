package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pagescope/pkg/api"
	"pagescope/pkg/utils"
)

var jsonit = jsoniter.ConfigCompatibleWithStandardLibrary

// MCPConfig holds the settings from the "mcp" channel section.
type MCPConfig struct {
	// Name and Version identify the server in the MCP handshake.
	Name    string `json:"name"`    // Default: "pagescope"
	Version string `json:"version"` // Default: "1.0.0"
}

// MCPChannel exposes the tool catalog as an MCP server speaking JSON-RPC
// over stdio. Each registered tool is advertised with its raw JSON Schema;
// calls are funneled through the gateway dispatcher like any other channel.
type MCPChannel struct {
	config MCPConfig
	server *server.MCPServer
}

// NewMCPChannel creates a new MCP stdio channel.
func NewMCPChannel(cfg MCPConfig) *MCPChannel {
	if cfg.Name == "" {
		cfg.Name = "pagescope"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	return &MCPChannel{config: cfg}
}

func (c *MCPChannel) ID() string {
	return "mcp"
}

func (c *MCPChannel) Start(ctx api.ChannelContext) error {
	s := server.NewMCPServer(
		c.config.Name,
		c.config.Version,
		server.WithToolCapabilities(false),
	)

	for _, t := range ctx.Tools() {
		schemaJSON, err := jsonit.Marshal(t.Schema().JSON())
		if err != nil {
			return fmt.Errorf("failed to marshal schema for %s: %w", t.Name(), err)
		}
		tool := mcp.NewToolWithRawSchema(t.Name(), t.Description(), json.RawMessage(schemaJSON))
		s.AddTool(tool, c.handler(ctx, t.Name()))
	}
	c.server = s

	slog.Info("MCP server ready on stdio", "name", c.config.Name, "tools", len(ctx.Tools()))

	go func() {
		if err := server.ServeStdio(s); err != nil && err != context.Canceled {
			slog.Error("MCP server stopped", "error", err)
		}
	}()

	return nil
}

// Stop is a no-op: the stdio server terminates when stdin closes.
func (c *MCPChannel) Stop() error {
	return nil
}

// handler adapts one tool into an MCP tool handler. Dispatch errors become
// protocol-level tool errors rather than transport failures, so the client
// sees them as failed tool results.
func (c *MCPChannel) handler(gw api.ChannelContext, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call := &api.ToolCall{
			Session: api.SessionContext{ChannelID: c.ID(), ClientID: "stdio"},
			CallID:  utils.GenerateID(),
			Tool:    toolName,
			Args:    req.GetArguments(),
		}

		res, err := gw.Dispatch(ctx, call)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		contents := make([]mcp.Content, 0, len(res.Content))
		for _, block := range res.Content {
			if block.Type == "image" {
				contents = append(contents, mcp.ImageContent{
					Type:     "image",
					Data:     block.Data,
					MIMEType: block.MimeType,
				})
				continue
			}
			contents = append(contents, mcp.TextContent{
				Type: "text",
				Text: block.Text,
			})
		}
		return &mcp.CallToolResult{Content: contents}, nil
	}
}
