// Package node implements the Node.js language plugin
package node

import (
	"fmt"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/alias"
	"github.com/dtvem/node-plugin/src/internal/catalog"
	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/constants"
	"github.com/dtvem/node-plugin/src/internal/globals"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/nodedist"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/ui"
	"github.com/dtvem/node-plugin/src/internal/version"
	"github.com/dtvem/node-plugin/src/internal/versionfile"
)

// Name is the registry name of the plugin
const Name = "node"

// DisplayName is the human-readable tool name
const DisplayName = "Node.js"

// NoBundledNpmFlag skips installing the bundled npm after node installs
const NoBundledNpmFlag = "--no-bundled-npm"

// Plugin implements the plugin.Plugin interface for Node.js
type Plugin struct {
	tool   string
	host   host.Host
	parser *versionfile.Parser
}

// New creates a Node.js plugin for a tool identifier
func New(toolID string, h host.Host) *Plugin {
	return &Plugin{
		tool:   toolID,
		host:   h,
		parser: versionfile.ForNode(),
	}
}

// Matches reports whether a tool identifier names Node.js
func Matches(toolID string) bool {
	return toolID == Name || strings.HasPrefix(toolID, Name+"-")
}

// Name returns the plugin name
func (p *Plugin) Name() string {
	return Name
}

// Tool returns the tool identifier
func (p *Plugin) Tool() string {
	return p.tool
}

// Register describes Node.js as a language
func (p *Plugin) Register() plugin.Metadata {
	return plugin.Metadata{
		Name:          DisplayName,
		Type:          plugin.TypeLanguage,
		PluginVersion: plugin.Version,
	}
}

// DetectVersionFiles returns .nvmrc, .node-version and package.json
func (p *Plugin) DetectVersionFiles() plugin.VersionFiles {
	return plugin.VersionFiles{
		Files:  p.parser.Files(),
		Ignore: []string{constants.NodeModulesDir},
	}
}

// ParseVersionFile extracts the node version from a file
func (p *Plugin) ParseVersionFile(file, content string) (*version.Unresolved, error) {
	return p.parser.Parse(file, content)
}

// LoadVersions reads the release index
func (p *Plugin) LoadVersions(_ version.Unresolved) (*catalog.Catalog, error) {
	releases, err := nodedist.FetchIndex(p.host, nodedist.ReleaseIndexURL)
	if err != nil {
		return nil, err
	}
	return catalog.FromNodeReleases(releases)
}

// ResolveVersion maps node and LTS aliases
func (p *Plugin) ResolveVersion(initial version.Unresolved) (alias.Result, error) {
	return alias.ResolveNode(initial), nil
}

// LocateExecutables returns bin/node (node.exe on Windows)
func (p *Plugin) LocateExecutables(_ string) (*plugin.Executables, error) {
	primary := "bin/node"
	if p.host.Environment().IsWindows() {
		primary = "node" + constants.ExtExe
	}

	return &plugin.Executables{
		Primary:           &plugin.Executable{Path: primary},
		GlobalsLookupDirs: []string{config.GlobalsLookupDir},
	}, nil
}

// PreRun never rewrites node invocations
func (p *Plugin) PreRun(_ plugin.RunHook) (*globals.Action, error) {
	return nil, nil
}

// InstallGlobal installs a package with npm into the globals prefix
func (p *Plugin) InstallGlobal(dependency string, globalsBin host.VirtualPath) (*plugin.GlobalResult, error) {
	prefix, err := globals.Prefix(p.host.Environment().OS, globalsBin)
	if err != nil {
		return nil, err
	}
	return plugin.ExecGlobal(p.host, globals.InstallCommand(dependency, prefix))
}

// UninstallGlobal removes a package with npm from the globals prefix
func (p *Plugin) UninstallGlobal(dependency string, globalsBin host.VirtualPath) (*plugin.GlobalResult, error) {
	prefix, err := globals.Prefix(p.host.Environment().OS, globalsBin)
	if err != nil {
		return nil, err
	}
	return plugin.ExecGlobal(p.host, globals.UninstallCommand(dependency, prefix))
}

// PostInstall installs the npm bundled with this node when enabled
func (p *Plugin) PostInstall(hook plugin.InstallHook) error {
	if !hook.Settings.BundledNpm {
		return nil
	}
	for _, arg := range hook.Args {
		if arg == NoBundledNpmFlag {
			return nil
		}
	}

	ui.Info("Installing npm that comes bundled with %s", ui.Highlight(DisplayName))

	cmd := BundledNpmCommand(hook.Pinned, hook.Args)
	result, err := p.host.Exec(cmd)
	if err != nil {
		return fmt.Errorf("failed to install bundled npm: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("failed to install bundled npm: %s exited with code %d", cmd.Name, result.ExitCode)
	}

	return nil
}

// BundledNpmCommand builds `proto install npm bundled [--pin] [-- args]`
func BundledNpmCommand(pinned bool, passthrough []string) host.Command {
	args := []string{"install", "npm", "bundled"}
	if pinned {
		args = append(args, "--pin")
	}

	var rest []string
	for _, arg := range passthrough {
		if arg != NoBundledNpmFlag {
			rest = append(rest, arg)
		}
	}
	if len(rest) > 0 {
		args = append(args, "--")
		args = append(args, rest...)
	}

	return host.Command{Name: "proto", Args: args, Inherit: true}
}

// init registers the Node.js plugin on package load
func init() {
	if err := plugin.Register(plugin.Entry{
		Name:    Name,
		Matches: Matches,
		Factory: func(toolID string, h host.Host) plugin.Plugin { return New(toolID, h) },
	}); err != nil {
		panic(fmt.Sprintf("failed to register Node.js plugin: %v", err))
	}
}
