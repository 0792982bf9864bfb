package tools

import (
	"sync"

	"pagescope/pkg/api"
)

// Registry acts as a central inventory for all tools exposed by the gateway.
// It preserves registration order so channels advertise a stable catalog.
type Registry struct {
	mu    sync.RWMutex        // Protects concurrent access to the tools map
	tools map[string]api.Tool // Internal map of tool name to implementation
	order []string            // Registration order of tool names
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]api.Tool),
	}
}

// Register adds a tool to the registry. Re-registering a name replaces the
// previous implementation but keeps its position in the catalog.
func (tr *Registry) Register(tool api.Tool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	name := tool.Name()
	if _, exists := tr.tools[name]; !exists {
		tr.order = append(tr.order, name)
	}
	tr.tools[name] = tool
}

// Unregister removes a tool from the registry.
func (tr *Registry) Unregister(name string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, exists := tr.tools[name]; !exists {
		return
	}
	delete(tr.tools, name)
	for i, n := range tr.order {
		if n == name {
			tr.order = append(tr.order[:i], tr.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a tool by name.
func (tr *Registry) Get(name string) (api.Tool, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	tool, ok := tr.tools[name]
	return tool, ok
}

// GetAll returns all registered tools in registration order.
func (tr *Registry) GetAll() []api.Tool {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	tools := make([]api.Tool, 0, len(tr.order))
	for _, name := range tr.order {
		tools = append(tools, tr.tools[name])
	}
	return tools
}
