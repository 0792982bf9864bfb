package api

import "context"

// Channel defines the standardized lifecycle interface for transports that
// expose the tool surface to clients (MCP over stdio, WebSocket, ...).
type Channel interface {
	ID() string
	Start(ctx ChannelContext) error
	Stop() error
}

// ChannelContext provides the interface for a Channel implementation to
// communicate back with the Gateway core.
type ChannelContext interface {
	// Dispatch validates and executes a single tool call, blocking until
	// the tool finishes or the gateway's call timeout expires.
	Dispatch(ctx context.Context, call *ToolCall) (*ToolResult, error)
	// Tools returns the registered tools in stable order, so channels can
	// advertise the catalog to their clients.
	Tools() []Tool
}

// ToolCall defines the standardized internal representation of a single
// tool invocation request, whichever channel it arrived on.
type ToolCall struct {
	Session SessionContext // Contextual information about the source client
	CallID  string         // Unique identifier for correlating logs and replies
	Tool    string         // Name of the tool to invoke
	Args    map[string]any // Raw decoded arguments, not yet validated
}

// SessionContext encapsulates identity and routing information for a specific
// client connection on a specific channel.
type SessionContext struct {
	ChannelID string // Identifier of the channel that originated the call (e.g., "mcp")
	ClientID  string // Channel-specific identifier for the connected client
}
