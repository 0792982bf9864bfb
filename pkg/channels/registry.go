package channels

import (
	jsoniter "github.com/json-iterator/go"

	"pagescope/pkg/api"
	"pagescope/pkg/config"
)

// ChannelFactory defines the abstract interface for transport-specific
// channel creators. This allows the system to support new transports
// (e.g., SSE, TCP) without modifying the core gateway logic.
type ChannelFactory interface {
	// Create instantiates a concrete Channel implementation using the
	// provided configuration and shared system parameters.
	Create(rawConfig jsoniter.RawMessage, system *config.SystemConfig) (api.Channel, error)
}

// channelRegistry is an internal global map storing the mapping between
// transport names (e.g., "mcp") and their factory implementations.
var channelRegistry = make(map[string]ChannelFactory)

// RegisterChannel adds a new ChannelFactory to the global internal registry.
// This is typically called during the package's init() phase.
func RegisterChannel(name string, factory ChannelFactory) {
	channelRegistry[name] = factory
}

// GetChannelFactory retrieves a registered ChannelFactory by transport name.
func GetChannelFactory(name string) (ChannelFactory, bool) {
	f, ok := channelRegistry[name]
	return f, ok
}
