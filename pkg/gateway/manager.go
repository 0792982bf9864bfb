package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pagescope/pkg/api"
	"pagescope/pkg/monitor"
)

// GatewayManager owns all transport channels and routes tool calls from them
// through schema validation into the tool registry. It implements
// api.ChannelContext.
type GatewayManager struct {
	channels    map[string]api.Channel
	registry    api.ToolRegistry
	monitor     monitor.Monitor
	callTimeout time.Duration
	mu          sync.RWMutex
}

// NewGatewayManager creates a new GatewayManager.
func NewGatewayManager() *GatewayManager {
	return &GatewayManager{
		channels:    make(map[string]api.Channel),
		callTimeout: 2 * time.Minute, // default, overridden by system config
	}
}

// SetCallTimeout sets the hard per-call execution cutoff.
func (g *GatewayManager) SetCallTimeout(d time.Duration) {
	if d > 0 {
		g.callTimeout = d
	}
}

// SetToolRegistry sets the registry calls are dispatched into.
func (g *GatewayManager) SetToolRegistry(tr api.ToolRegistry) {
	g.registry = tr
}

// SetMonitor sets the traffic monitor.
func (g *GatewayManager) SetMonitor(m monitor.Monitor) {
	g.monitor = m
}

// Register registers a channel.
func (g *GatewayManager) Register(c api.Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels[c.ID()] = c
}

// GetChannel fetches a specific channel.
func (g *GatewayManager) GetChannel(id string) (api.Channel, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.channels[id]
	return c, ok
}

// StartAll starts every registered channel, handing each a reference back to
// the gateway for dispatching.
func (g *GatewayManager) StartAll() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, c := range g.channels {
		slog.Info("Starting channel", "channel", id)
		if err := c.Start(g); err != nil {
			return fmt.Errorf("failed to start channel %s: %w", id, err)
		}
	}
	return nil
}

// StopAll stops all channels.
func (g *GatewayManager) StopAll() {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, c := range g.channels {
		slog.Info("Stopping channel", "channel", id)
		if err := c.Stop(); err != nil {
			slog.Error("Error stopping channel", "channel", id, "error", err)
		}
	}
}

// Tools implements api.ChannelContext.
func (g *GatewayManager) Tools() []api.Tool {
	if g.registry == nil {
		return nil
	}
	return g.registry.GetAll()
}

// Dispatch implements api.ChannelContext. It validates the call against the
// tool's declared schema (enum membership, bounds, defaults) and executes it
// under the gateway's call timeout. Validation failures and tool errors are
// returned to the channel for protocol-level error framing; no retries happen
// here.
func (g *GatewayManager) Dispatch(ctx context.Context, call *api.ToolCall) (*api.ToolResult, error) {
	ctx = monitor.WithCallID(ctx, call.CallID)
	slog.InfoContext(ctx, "Tool call received", "channel", call.Session.ChannelID, "tool", call.Tool)
	g.observe(call, monitor.KindCall, fmt.Sprintf("args=%d", len(call.Args)))

	if g.registry == nil {
		return nil, fmt.Errorf("no tool registry configured")
	}
	tool, ok := g.registry.Get(call.Tool)
	if !ok {
		err := fmt.Errorf("tool %q not found", call.Tool)
		g.observe(call, monitor.KindError, err.Error())
		return nil, err
	}

	args, err := tool.Schema().Validate(call.Args)
	if err != nil {
		err = fmt.Errorf("invalid arguments for %s: %w", call.Tool, err)
		g.observe(call, monitor.KindError, err.Error())
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	started := time.Now()
	res, err := tool.Execute(callCtx, args)
	if err != nil {
		slog.ErrorContext(ctx, "Tool call failed", "tool", call.Tool, "error", err)
		g.observe(call, monitor.KindError, err.Error())
		return nil, err
	}

	slog.InfoContext(ctx, "Tool call finished", "tool", call.Tool, "blocks", len(res.Content), "took", time.Since(started).Round(time.Millisecond))
	g.observe(call, monitor.KindResult, summarize(res))
	return res, nil
}

// observe forwards a traffic event to the monitor, if one is attached.
func (g *GatewayManager) observe(call *api.ToolCall, kind, detail string) {
	if g.monitor == nil {
		return
	}
	g.monitor.OnMessage(monitor.MonitorMessage{
		Timestamp: time.Now(),
		Kind:      kind,
		ChannelID: call.Session.ChannelID,
		Tool:      call.Tool,
		Detail:    detail,
	})
}

// summarize renders a short human-readable digest of a result for monitoring.
func summarize(res *api.ToolResult) string {
	for _, b := range res.Content {
		if b.Type == "text" && b.Text != "" {
			return b.Text
		}
	}
	return fmt.Sprintf("%d block(s)", len(res.Content))
}
