package plugin

import (
	"strings"
	"testing"

	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// PluginTestHarness runs a suite of contract tests against a Plugin implementation
// This ensures all plugins answer the host the same way
type PluginTestHarness struct {
	Plugin Plugin
	T      *testing.T

	// Expected values for validation
	ExpectedName  string
	ExpectedType  Type
	SampleVersion string // A version with a published prebuilt (e.g., "20.9.0")
	ToolDir       string // An install directory to locate executables in
}

// RunAllTests executes the complete test suite
func (h *PluginTestHarness) RunAllTests() {
	h.T.Run("Register", func(t *testing.T) { h.TestRegister(t) })
	h.T.Run("DetectVersionFiles", func(t *testing.T) { h.TestDetectVersionFiles(t) })
	h.T.Run("ParseMalformedPackageJSON", func(t *testing.T) { h.TestParseMalformedPackageJSON(t) })
	h.T.Run("DownloadPrebuilt", func(t *testing.T) { h.TestDownloadPrebuilt(t) })
	h.T.Run("LocateExecutables", func(t *testing.T) { h.TestLocateExecutables(t) })
	h.T.Run("PreRunPassesThrough", func(t *testing.T) { h.TestPreRunPassesThrough(t) })
}

// TestRegister verifies the plugin describes itself
func (h *PluginTestHarness) TestRegister(t *testing.T) {
	meta := h.Plugin.Register()

	if meta.Name != h.ExpectedName {
		t.Errorf("Register().Name = %q, want %q", meta.Name, h.ExpectedName)
	}
	if meta.Type != h.ExpectedType {
		t.Errorf("Register().Type = %q, want %q", meta.Type, h.ExpectedType)
	}
	if meta.PluginVersion == "" {
		t.Error("Register().PluginVersion is empty")
	}
}

// TestDetectVersionFiles verifies package.json is detected and node_modules ignored
func (h *PluginTestHarness) TestDetectVersionFiles(t *testing.T) {
	files := h.Plugin.DetectVersionFiles()

	if !contains(files.Files, "package.json") {
		t.Errorf("DetectVersionFiles().Files = %v, should contain package.json", files.Files)
	}
	if !contains(files.Ignore, "node_modules") {
		t.Errorf("DetectVersionFiles().Ignore = %v, should contain node_modules", files.Ignore)
	}
}

// TestParseMalformedPackageJSON verifies broken files declare no version
func (h *PluginTestHarness) TestParseMalformedPackageJSON(t *testing.T) {
	spec, err := h.Plugin.ParseVersionFile("package.json", `{"engines": `)
	if err != nil {
		t.Errorf("ParseVersionFile() unexpected error: %v", err)
	}
	if spec != nil {
		t.Errorf("ParseVersionFile() = %v, want nil", spec)
	}
}

// TestDownloadPrebuilt verifies the archive location mentions the version
func (h *PluginTestHarness) TestDownloadPrebuilt(t *testing.T) {
	if h.SampleVersion == "" {
		t.Skip("No sample version provided")
	}

	download, err := h.Plugin.DownloadPrebuilt(version.MustParseSpec(h.SampleVersion))
	if err != nil {
		t.Fatalf("DownloadPrebuilt() unexpected error: %v", err)
	}

	if !strings.HasPrefix(download.URL, "https://") {
		t.Errorf("DownloadPrebuilt().URL = %q, should be https", download.URL)
	}
	if !strings.Contains(download.URL, h.SampleVersion) {
		t.Errorf("DownloadPrebuilt().URL = %q, should contain %q", download.URL, h.SampleVersion)
	}
	if download.ArchivePrefix == "" {
		t.Error("DownloadPrebuilt().ArchivePrefix is empty")
	}
}

// TestLocateExecutables verifies a primary executable and the shared globals dir
func (h *PluginTestHarness) TestLocateExecutables(t *testing.T) {
	exes, err := h.Plugin.LocateExecutables(h.ToolDir)
	if err != nil {
		t.Fatalf("LocateExecutables() unexpected error: %v", err)
	}

	if exes.Primary == nil || exes.Primary.Path == "" {
		t.Error("LocateExecutables() returned no primary executable")
	}
	if !contains(exes.GlobalsLookupDirs, config.GlobalsLookupDir) {
		t.Errorf("LocateExecutables().GlobalsLookupDirs = %v, should contain %q",
			exes.GlobalsLookupDirs, config.GlobalsLookupDir)
	}
}

// TestPreRunPassesThrough verifies ordinary commands are never rewritten
func (h *PluginTestHarness) TestPreRunPassesThrough(t *testing.T) {
	action, err := h.Plugin.PreRun(RunHook{
		Args:       []string{"info", "--json", "typescript"},
		GlobalsBin: host.NewVirtualPath("/tmp/proto", "/tmp/proto/tools/node/globals/bin"),
		Settings:   config.DefaultToolSettings(),
	})
	if err != nil {
		t.Errorf("PreRun() unexpected error: %v", err)
	}
	if action != nil {
		t.Errorf("PreRun() = %+v, want nil", action)
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
