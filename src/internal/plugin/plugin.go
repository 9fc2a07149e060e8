// Package plugin defines the plugin interface and registry for tool plugins
package plugin

import (
	"fmt"

	"github.com/dtvem/node-plugin/src/internal/alias"
	"github.com/dtvem/node-plugin/src/internal/catalog"
	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/globals"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// Version is reported in registration metadata
var Version = "0.1.0"

// Type classifies a plugin for the host
type Type string

const (
	TypeLanguage          Type = "language"
	TypeDependencyManager Type = "dependency-manager"
)

// Metadata is returned by Register
type Metadata struct {
	Name           string `json:"name"`
	Type           Type   `json:"type"`
	DefaultVersion string `json:"default_version,omitempty"`
	PluginVersion  string `json:"plugin_version"`
}

// VersionFiles lists the files the host should look for
type VersionFiles struct {
	Files  []string `json:"files"`
	Ignore []string `json:"ignore"`
}

// ParsedVersion is the result of parsing a version file
type ParsedVersion struct {
	Version *version.Unresolved `json:"version"`
}

// Download describes where a prebuilt archive lives
type Download struct {
	ArchivePrefix string `json:"archive_prefix,omitempty"`
	URL           string `json:"download_url"`
	Name          string `json:"download_name,omitempty"`
	ChecksumURL   string `json:"checksum_url,omitempty"`
}

// Executable is one executable inside an installed tool
type Executable struct {
	Path           string   `json:"exe_path,omitempty"`
	LinkPath       string   `json:"exe_link_path,omitempty"`
	Parent         string   `json:"parent_exe_name,omitempty"`
	NoBin          bool     `json:"no_bin,omitempty"`
	ShimBeforeArgs []string `json:"shim_before_args,omitempty"`
}

// Executables is returned by LocateExecutables
type Executables struct {
	Primary           *Executable           `json:"primary,omitempty"`
	Secondary         map[string]Executable `json:"secondary,omitempty"`
	GlobalsLookupDirs []string              `json:"globals_lookup_dirs"`
}

// RunHook is the input of PreRun
type RunHook struct {
	Args       []string
	GlobalsBin host.VirtualPath
	OptOut     bool
	Settings   config.ToolSettings
}

// InstallHook is the input of PostInstall
type InstallHook struct {
	Pinned   bool
	Args     []string
	Settings config.ToolSettings
}

// GlobalResult is the outcome of installing or removing a global package
type GlobalResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Plugin defines the operations every tool plugin serves
type Plugin interface {
	// Name returns the registry name of the plugin (e.g., "node", "depman")
	Name() string

	// Tool returns the tool identifier this instance serves (e.g., "npm", "yarn")
	Tool() string

	// Register describes the tool
	Register() Metadata

	// DetectVersionFiles lists version files and ignored directories
	DetectVersionFiles() VersionFiles

	// ParseVersionFile extracts a version from a file's content
	ParseVersionFile(file, content string) (*version.Unresolved, error)

	// LoadVersions fetches published versions and aliases
	LoadVersions(initial version.Unresolved) (*catalog.Catalog, error)

	// ResolveVersion maps aliases to a candidate or a final version
	ResolveVersion(initial version.Unresolved) (alias.Result, error)

	// DownloadPrebuilt returns where the archive for a version lives
	DownloadPrebuilt(v version.Spec) (*Download, error)

	// LocateExecutables describes executables inside an install directory
	LocateExecutables(toolDir string) (*Executables, error)

	// PreRun optionally rewrites an invocation of the tool
	PreRun(hook RunHook) (*globals.Action, error)

	// InstallGlobal installs a package into the shared globals directory
	InstallGlobal(dependency string, globalsBin host.VirtualPath) (*GlobalResult, error)

	// UninstallGlobal removes a package from the shared globals directory
	UninstallGlobal(dependency string, globalsBin host.VirtualPath) (*GlobalResult, error)

	// PostInstall runs after the host installed the tool
	PostInstall(hook InstallHook) error
}

// UnsupportedCanaryError is returned when a tool has no canary builds
type UnsupportedCanaryError struct {
	Tool string
}

func (e *UnsupportedCanaryError) Error() string {
	return fmt.Sprintf("%s does not support canary/nightly versions", e.Tool)
}

// UnsupportedPlatformError is returned when no prebuilt exists for the host
type UnsupportedPlatformError struct {
	Tool string
	OS   string
	Arch string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unable to install %s, unsupported platform %s/%s", e.Tool, e.OS, e.Arch)
}
