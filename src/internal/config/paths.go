// Package config manages plugin configuration including host paths and per-tool settings
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/dtvem/node-plugin/src/internal/host"
)

// Paths holds the host directories the plugin reads from or points at
type Paths struct {
	Root         string // Host root directory (~/.proto)
	Tools        string // Installed tools (~/.proto/tools)
	NodeGlobals  string // Shared globals prefix (~/.proto/tools/node/globals)
	GlobalsBin   string // Shared globals executables (~/.proto/tools/node/globals/bin)
	GlobalConfig string // Global settings file (~/.proto/.prototools)
}

// GlobalsLookupDir is the globals directory as the host expects it, relative to its root variable
const GlobalsLookupDir = "$" + host.EnvHome + "/tools/node/globals/bin"

// ConfigFileName is the name of the per-directory settings file
const ConfigFileName = ".prototools"

var (
	defaultPaths *Paths
	pathsOnce    sync.Once
)

// DefaultPaths returns the host paths.
// This function is thread-safe and guarantees single initialization.
func DefaultPaths() *Paths {
	pathsOnce.Do(func() {
		defaultPaths = NewPaths(getRootDir())
	})
	return defaultPaths
}

// NewPaths builds the directory layout below a root
func NewPaths(root string) *Paths {
	globals := filepath.Join(root, "tools", "node", "globals")
	return &Paths{
		Root:         root,
		Tools:        filepath.Join(root, "tools"),
		NodeGlobals:  globals,
		GlobalsBin:   filepath.Join(globals, "bin"),
		GlobalConfig: filepath.Join(root, ConfigFileName),
	}
}

// getRootDir returns the host root directory
func getRootDir() string {
	if root := os.Getenv(host.EnvHome); root != "" {
		return root
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".proto"
	}

	return filepath.Join(home, ".proto")
}

// ToolDir returns the install directory of a specific tool version
func ToolDir(tool, version string) string {
	return filepath.Join(DefaultPaths().Tools, tool, version)
}

// ResetPathsCache resets the cached paths, forcing reinitialization on next access.
// This is primarily useful for testing.
func ResetPathsCache() {
	pathsOnce = sync.Once{}
	defaultPaths = nil
}
