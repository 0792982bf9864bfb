package mcp

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"pagescope/pkg/api"
	"pagescope/pkg/channels"
	"pagescope/pkg/config"
)

// MCPFactory builds MCP stdio channels from configuration.
type MCPFactory struct{}

// Create implements channels.ChannelFactory.
func (f *MCPFactory) Create(rawConfig jsoniter.RawMessage, _ *config.SystemConfig) (api.Channel, error) {
	var cfg MCPConfig
	if len(rawConfig) > 0 {
		if err := jsonit.Unmarshal(rawConfig, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse mcp config: %w", err)
		}
	}
	return NewMCPChannel(cfg), nil
}

func init() {
	channels.RegisterChannel("mcp", &MCPFactory{})
}
