package web

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"pagescope/pkg/api"
	"pagescope/pkg/channels"
	"pagescope/pkg/config"
)

// WebFactory builds WebSocket channels from configuration.
type WebFactory struct{}

// Create implements channels.ChannelFactory.
func (f *WebFactory) Create(rawConfig jsoniter.RawMessage, _ *config.SystemConfig) (api.Channel, error) {
	var cfg WebConfig
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse web config: %w", err)
		}
	}
	return NewWebChannel(cfg), nil
}

func init() {
	channels.RegisterChannel("web", &WebFactory{})
}
