// Package host defines the services the version-manager host provides to a
// plugin: environment lookups, subprocess execution and HTTP fetches.
package host

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/constants"
)

// Environment variables supplied by the host
const (
	EnvHome          = "PROTO_HOME"
	EnvNodeVersion   = "PROTO_NODE_VERSION"
	EnvInstallGlobal = "PROTO_INSTALL_GLOBAL"
	EnvPluginID      = "PROTO_PLUGIN_ID"
)

// Host is the set of services a plugin consumes from the version manager
type Host interface {
	// Env returns the value of a host environment variable
	Env(key string) (string, bool)

	// Exec runs a command and captures its output
	Exec(cmd Command) (*ExecResult, error)

	// Fetch downloads a URL and returns the raw body
	Fetch(url string) ([]byte, error)

	// Environment describes the operating system and architecture
	Environment() Environment
}

// Command is a subprocess invocation
type Command struct {
	Name string
	Args []string
	Env  map[string]string

	// Inherit streams stdio to the terminal instead of capturing it
	Inherit bool
}

// String renders the command for logs
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// ExecResult is the outcome of a finished command
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status 0
func (r *ExecResult) Success() bool {
	return r.ExitCode == 0
}

// Environment is the host platform
type Environment struct {
	OS   string // runtime.GOOS naming
	Arch string // runtime.GOARCH naming
	Home string // the host's root directory ($PROTO_HOME)
}

// IsWindows reports whether the host runs Windows
func (e Environment) IsWindows() bool {
	return e.OS == constants.OSWindows
}

// FileName appends the platform-specific extension on Windows
func (e Environment) FileName(name, windowsExt string) string {
	if e.IsWindows() {
		return name + "." + strings.TrimPrefix(windowsExt, ".")
	}
	return name
}

// VirtualPath is a path with both the host's sandboxed view and the real
// filesystem location
type VirtualPath struct {
	Virtual string `json:"virtual"`
	Real    string `json:"real"`
}

// NewVirtualPath maps a real path under the host home into a $PROTO_HOME
// prefixed virtual path
func NewVirtualPath(home, realPath string) VirtualPath {
	virtual := realPath
	if home != "" {
		if rel, err := filepath.Rel(home, realPath); err == nil && !strings.HasPrefix(rel, "..") {
			virtual = filepath.ToSlash(filepath.Join("$"+EnvHome, rel))
		}
	}
	return VirtualPath{Virtual: virtual, Real: realPath}
}

// RealPath returns the filesystem path, failing when the host did not map one
func (p VirtualPath) RealPath() (string, error) {
	if p.Real == "" {
		return "", fmt.Errorf("no real path for %q", p.Virtual)
	}
	return p.Real, nil
}
