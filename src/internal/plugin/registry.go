package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dtvem/node-plugin/src/internal/host"
)

// Factory creates a plugin instance for a tool identifier
type Factory func(toolID string, h host.Host) Plugin

// Entry is a registered plugin
type Entry struct {
	Name     string
	Matches  func(toolID string) bool // nil for the fallback entry
	Factory  Factory
	Fallback bool // Serves identifiers no other entry matches
}

// Registry manages all registered plugins
type Registry struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new plugin registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a plugin to the registry
func (r *Registry) Register(entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.Name]; exists {
		return fmt.Errorf("plugin '%s' is already registered", entry.Name)
	}

	if entry.Fallback {
		for _, existing := range r.entries {
			if existing.Fallback {
				return fmt.Errorf("plugin '%s' cannot be the fallback, '%s' already is", entry.Name, existing.Name)
			}
		}
	}

	r.entries[entry.Name] = entry
	return nil
}

// For creates the plugin serving a tool identifier. Specific matchers are
// tried before the fallback entry.
func (r *Registry) For(toolID string, h host.Host) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var fallback *Entry
	for _, name := range r.sortedNames() {
		entry := r.entries[name]
		if entry.Fallback {
			fallback = &entry
			continue
		}
		if entry.Matches != nil && entry.Matches(toolID) {
			return entry.Factory(toolID, h), nil
		}
	}

	if fallback == nil {
		return nil, fmt.Errorf("no plugin serves tool '%s'", toolID)
	}

	return fallback.Factory(toolID, h), nil
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global registry access functions

// Register adds a plugin to the global registry
func Register(entry Entry) error {
	return globalRegistry.Register(entry)
}

// For creates the plugin serving a tool identifier from the global registry
func For(toolID string, h host.Host) (Plugin, error) {
	return globalRegistry.For(toolID, h)
}
