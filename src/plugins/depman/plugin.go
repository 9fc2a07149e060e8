// Package depman implements the npm, pnpm and yarn dependency manager plugin
package depman

import (
	"fmt"

	"github.com/dtvem/node-plugin/src/internal/alias"
	"github.com/dtvem/node-plugin/src/internal/constants"
	"github.com/dtvem/node-plugin/src/internal/globals"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/pkgmanager"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/registry"
	"github.com/dtvem/node-plugin/src/internal/version"
	"github.com/dtvem/node-plugin/src/internal/versionfile"
)

// Name is the registry name of the plugin
const Name = "depman"

// BundledAlias is npm's default version: the npm shipped with the active node
const BundledAlias = "bundled"

// Plugin implements the plugin.Plugin interface for a package manager. The
// manager kind is fixed when the plugin is created.
type Plugin struct {
	tool     string
	kind     pkgmanager.Kind
	host     host.Host
	registry *registry.Client
	parser   *versionfile.Parser
}

// New creates a plugin for a tool identifier
func New(toolID string, h host.Host) *Plugin {
	return NewWithRegistry(toolID, h, registry.NewClient(h))
}

// NewWithRegistry creates a plugin reading from a custom registry
func NewWithRegistry(toolID string, h host.Host, client *registry.Client) *Plugin {
	kind := pkgmanager.Detect(toolID)
	return &Plugin{
		tool:     toolID,
		kind:     kind,
		host:     h,
		registry: client,
		parser:   versionfile.ForManager(kind.String()),
	}
}

// Name returns the plugin name
func (p *Plugin) Name() string {
	return Name
}

// Tool returns the tool identifier
func (p *Plugin) Tool() string {
	return p.tool
}

// Kind returns the package manager this instance serves
func (p *Plugin) Kind() pkgmanager.Kind {
	return p.kind
}

// Register describes the package manager
func (p *Plugin) Register() plugin.Metadata {
	meta := plugin.Metadata{
		Name:          p.kind.String(),
		Type:          plugin.TypeDependencyManager,
		PluginVersion: plugin.Version,
	}
	if p.kind == pkgmanager.Npm {
		meta.DefaultVersion = BundledAlias
	}
	return meta
}

// DetectVersionFiles returns package.json (and .yarnrc.yml for yarn)
func (p *Plugin) DetectVersionFiles() plugin.VersionFiles {
	return plugin.VersionFiles{
		Files:  p.parser.Files(),
		Ignore: []string{constants.NodeModulesDir},
	}
}

// ParseVersionFile extracts the manager version from a file
func (p *Plugin) ParseVersionFile(file, content string) (*version.Unresolved, error) {
	return p.parser.Parse(file, content)
}

// ResolveVersion maps bundled, berry, classic and friends
func (p *Plugin) ResolveVersion(initial version.Unresolved) (alias.Result, error) {
	return alias.ResolveManager(p.host, p.kind, initial)
}

// DownloadPrebuilt returns the registry tarball of a version
func (p *Plugin) DownloadPrebuilt(v version.Spec) (*plugin.Download, error) {
	if v.IsCanary() {
		return nil, &plugin.UnsupportedCanaryError{Tool: p.kind.String()}
	}

	pkg := p.kind.PackageName(v.Unresolved())

	return &plugin.Download{
		ArchivePrefix: ArchivePrefix(p.kind, v),
		URL:           p.registry.TarballURL(pkg, v.String()),
	}, nil
}

// ArchivePrefix returns the top-level directory inside the tarball. Yarn
// classic releases before 1.22.20 used "yarn-v<version>".
func ArchivePrefix(kind pkgmanager.Kind, v version.Spec) string {
	if kind.IsYarnClassic(v.Unresolved()) && v.Semver() != nil {
		if v.Semver().LessThan(yarnPackagePrefixSince) {
			return fmt.Sprintf("yarn-v%s", v)
		}
	}
	return "package"
}

var yarnPackagePrefixSince = version.MustParseSpec("1.22.20").Semver()

// PreRun redirects global installs into the shared globals directory
func (p *Plugin) PreRun(hook plugin.RunHook) (*globals.Action, error) {
	_, guarded := p.host.Env(host.EnvInstallGlobal)

	return globals.Redirect(globals.Invocation{
		Kind:       p.kind,
		Args:       hook.Args,
		GlobalsBin: hook.GlobalsBin,
		OS:         p.host.Environment().OS,
		Settings:   hook.Settings,
		OptOut:     hook.OptOut,
		Guarded:    guarded,
	})
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

// PostInstall has nothing to do for package managers
func (p *Plugin) PostInstall(_ plugin.InstallHook) error {
	return nil
}

// init registers the dependency manager plugin as the fallback for every
// tool identifier not claimed by another plugin
func init() {
	if err := plugin.Register(plugin.Entry{
		Name:     Name,
		Factory:  func(toolID string, h host.Host) plugin.Plugin { return New(toolID, h) },
		Fallback: true,
	}); err != nil {
		panic(fmt.Sprintf("failed to register dependency manager plugin: %v", err))
	}
}
