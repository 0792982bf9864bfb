package gateway

import (
	"fmt"
	"time"

	"pagescope/pkg/api"
	"pagescope/pkg/config"
	"pagescope/pkg/monitor"
	"pagescope/pkg/tools"
)

// GatewayBuilder provides a fluent builder pattern interface for constructing
// and initializing a GatewayManager with all its necessary dependencies.
//
// All components (channels, registry, tools) are pre-built and injected as
// instances; the Builder simply assembles and starts them.
type GatewayBuilder struct {
	gw           *GatewayManager      // The GatewayManager instance being constructed
	monitor      monitor.Monitor      // Monitoring implementation to be injected
	systemConfig *config.SystemConfig // Technical parameters for the gateway
	registry     api.ToolRegistry     // Tool registry, created on demand
	pending      []api.Tool           // Tools to register during Build
	channels     []api.Channel        // Pre-built channel instances to register
	loader       func(*GatewayManager)
}

// NewGatewayBuilder creates a fresh GatewayBuilder instance and allocates
// an internal GatewayManager to be configured.
func NewGatewayBuilder() *GatewayBuilder {
	return &GatewayBuilder{
		gw: NewGatewayManager(),
	}
}

// WithMonitor injects a monitoring implementation into the builder.
// This monitor will be started automatically during the Build() process.
func (b *GatewayBuilder) WithMonitor(m monitor.Monitor) *GatewayBuilder {
	b.monitor = m
	return b
}

// WithSystemConfig provides engine-level technical parameters to the builder,
// which are used to set up timeouts and other system behaviors.
func (b *GatewayBuilder) WithSystemConfig(cfg *config.SystemConfig) *GatewayBuilder {
	b.systemConfig = cfg
	return b
}

// WithToolRegistry injects a pre-built registry instead of the default one.
func (b *GatewayBuilder) WithToolRegistry(tr api.ToolRegistry) *GatewayBuilder {
	b.registry = tr
	return b
}

// WithTools queues tools for registration during Build.
func (b *GatewayBuilder) WithTools(tl ...api.Tool) *GatewayBuilder {
	b.pending = append(b.pending, tl...)
	return b
}

// WithChannel adds pre-built channel instances to the gateway.
func (b *GatewayBuilder) WithChannel(channels ...api.Channel) *GatewayBuilder {
	b.channels = append(b.channels, channels...)
	return b
}

// WithChannelLoader registers a callback that creates and registers channels
// from configuration (used with the channel factory registry).
func (b *GatewayBuilder) WithChannelLoader(loader func(*GatewayManager)) *GatewayBuilder {
	b.loader = loader
	return b
}

// Build finalizes the configuration, injects all dependencies into the
// GatewayManager, registers all channels, and starts everything.
// Returns the fully operational GatewayManager or an error if any stage fails.
func (b *GatewayBuilder) Build() (*GatewayManager, error) {
	// 0. Extract and apply system-level parameters
	if b.systemConfig != nil && b.systemConfig.CallTimeoutMs > 0 {
		b.gw.SetCallTimeout(time.Duration(b.systemConfig.CallTimeoutMs) * time.Millisecond)
	}

	// 1. Initialize and start the monitoring service
	if b.monitor != nil {
		b.gw.SetMonitor(b.monitor)
		if err := b.monitor.Start(); err != nil {
			return nil, fmt.Errorf("failed to start monitor: %w", err)
		}
	}

	// 2. Assemble the tool registry
	if b.registry == nil {
		b.registry = tools.NewRegistry()
	}
	for _, t := range b.pending {
		b.registry.Register(t)
	}
	b.gw.SetToolRegistry(b.registry)

	// 3. Register all pre-built channels, then the config-driven ones
	for _, c := range b.channels {
		b.gw.Register(c)
	}
	if b.loader != nil {
		b.loader(b.gw)
	}

	// 4. Start all registered channels
	if err := b.gw.StartAll(); err != nil {
		return nil, fmt.Errorf("failed to start channels: %w", err)
	}

	return b.gw, nil
}
