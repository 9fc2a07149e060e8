package plugin

import (
	"strings"
	"testing"

	"github.com/dtvem/node-plugin/src/internal/alias"
	"github.com/dtvem/node-plugin/src/internal/catalog"
	"github.com/dtvem/node-plugin/src/internal/globals"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/testutil"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// mockPlugin is a minimal test implementation of the Plugin interface
type mockPlugin struct {
	name     string
	tool     string
	result   alias.Result
	catalog  *catalog.Catalog
	resolved version.Unresolved
	loaded   bool
}

func (m *mockPlugin) Name() string {
	return m.name
}

func (m *mockPlugin) Tool() string {
	return m.tool
}

func (m *mockPlugin) Register() Metadata {
	return Metadata{Name: m.tool}
}

func (m *mockPlugin) DetectVersionFiles() VersionFiles {
	return VersionFiles{}
}

func (m *mockPlugin) ParseVersionFile(file, content string) (*version.Unresolved, error) {
	return nil, nil
}

func (m *mockPlugin) LoadVersions(initial version.Unresolved) (*catalog.Catalog, error) {
	m.loaded = true
	return m.catalog, nil
}

func (m *mockPlugin) ResolveVersion(initial version.Unresolved) (alias.Result, error) {
	m.resolved = initial
	return m.result, nil
}

func (m *mockPlugin) DownloadPrebuilt(v version.Spec) (*Download, error) {
	return &Download{}, nil
}

func (m *mockPlugin) LocateExecutables(toolDir string) (*Executables, error) {
	return &Executables{}, nil
}

func (m *mockPlugin) PreRun(hook RunHook) (*globals.Action, error) {
	return nil, nil
}

func (m *mockPlugin) InstallGlobal(dep string, bin host.VirtualPath) (*GlobalResult, error) {
	return nil, nil
}

func (m *mockPlugin) UninstallGlobal(dep string, bin host.VirtualPath) (*GlobalResult, error) {
	return nil, nil
}

func (m *mockPlugin) PostInstall(hook InstallHook) error {
	return nil
}

func factory(name string) Factory {
	return func(toolID string, h host.Host) Plugin {
		return &mockPlugin{name: name, tool: toolID}
	}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if len(r.entries) != 0 {
		t.Errorf("NewRegistry() entries map has %d entries, want 0", len(r.entries))
	}
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name        string
		entries     []Entry
		expectError bool
	}{
		{
			name:        "register single plugin",
			entries:     []Entry{{Name: "node", Factory: factory("node")}},
			expectError: false,
		},
		{
			name: "register duplicate plugin",
			entries: []Entry{
				{Name: "node", Factory: factory("node")},
				{Name: "node", Factory: factory("node")},
			},
			expectError: true,
		},
		{
			name: "register two fallbacks",
			entries: []Entry{
				{Name: "depman", Factory: factory("depman"), Fallback: true},
				{Name: "other", Factory: factory("other"), Fallback: true},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			var err error
			for _, e := range tt.entries {
				err = r.Register(e)
			}

			if tt.expectError && err == nil {
				t.Error("Register() expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Register() unexpected error: %v", err)
			}
		})
	}
}

func TestRegistry_For(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Entry{Name: "depman", Factory: factory("depman"), Fallback: true}); err != nil {
		t.Fatalf("Failed to register plugin: %v", err)
	}
	if err := r.Register(Entry{
		Name:    "node",
		Matches: func(id string) bool { return id == "node" || strings.HasPrefix(id, "node-") },
		Factory: factory("node"),
	}); err != nil {
		t.Fatalf("Failed to register plugin: %v", err)
	}

	tests := []struct {
		toolID   string
		expected string
	}{
		{toolID: "node", expected: "node"},
		{toolID: "node-lts", expected: "node"},
		{toolID: "npm", expected: "depman"},
		{toolID: "yarn", expected: "depman"},
		{toolID: "nodejs", expected: "depman"},
		{toolID: "something-else", expected: "depman"},
	}

	for _, tt := range tests {
		t.Run(tt.toolID, func(t *testing.T) {
			p, err := r.For(tt.toolID, testutil.NewFakeHost())
			if err != nil {
				t.Fatalf("For() unexpected error: %v", err)
			}
			if p.Name() != tt.expected {
				t.Errorf("For(%q).Name() = %q, want %q", tt.toolID, p.Name(), tt.expected)
			}
			if p.Tool() != tt.toolID {
				t.Errorf("For(%q).Tool() = %q", tt.toolID, p.Tool())
			}
		})
	}
}

func TestRegistry_ForWithoutFallback(t *testing.T) {
	r := NewRegistry()
	if _, err := r.For("npm", testutil.NewFakeHost()); err == nil {
		t.Error("For() expected error on empty registry, got nil")
	}
}
