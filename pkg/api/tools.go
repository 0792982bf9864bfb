package api

import (
	"context"

	"pagescope/pkg/schema"
)

// Tool defines the structural interface for any capability the gateway can
// execute on behalf of a client. It includes metadata for tool listing
// (JSON Schema) and the execution logic itself.
type Tool interface {
	// Name returns the unique identifier the tool is invoked by.
	Name() string
	// Description returns the human-readable summary shown in tool listings.
	Description() string
	// Schema declares the tool's parameter surface. The gateway validates
	// and default-fills arguments against it before Execute runs.
	Schema() schema.Object
	// Execute performs the actual tool logic using the validated argument map.
	Execute(ctx context.Context, args map[string]any) (*ToolResult, error)
}

// ToolResult encapsulates the outcome of a tool execution.
// It can contain multiple content blocks (status lines, images) and
// arbitrary metadata for the transport channel to process.
type ToolResult struct {
	Content []ContentBlock `json:"content"`           // Ordered blocks of result data
	Details map[string]any `json:"details,omitempty"` // Arbitrary technical metadata
}

// ContentBlock is an atomic data unit within a ToolResult.
type ContentBlock struct {
	Type     string `json:"type"`                // Data format: "text" or "image"
	Text     string `json:"text,omitempty"`      // String content (for text type)
	Data     string `json:"data,omitempty"`      // Base64 encoded image data (for image type)
	MimeType string `json:"mime_type,omitempty"` // MIME type for image data (e.g., "image/jpeg")
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// ImageBlock builds an inline image content block from already base64-encoded data.
func ImageBlock(base64Data, mimeType string) ContentBlock {
	return ContentBlock{Type: "image", Data: base64Data, MimeType: mimeType}
}

// ToolRegistry defines the interface for managing and accessing tools.
type ToolRegistry interface {
	Register(tool Tool)
	Unregister(name string)
	Get(name string) (Tool, bool)
	// GetAll returns all registered tools in registration order.
	GetAll() []Tool
}
