package depman

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/constants"
	"github.com/dtvem/node-plugin/src/internal/packagejson"
	"github.com/dtvem/node-plugin/src/internal/pkgmanager"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/ui"
)

// DefaultEntry returns the manager's entry script relative to its install dir
func DefaultEntry(kind pkgmanager.Kind) string {
	switch kind {
	case pkgmanager.Pnpm:
		return "bin/pnpm.cjs"
	case pkgmanager.Yarn:
		return "bin/yarn.js"
	default:
		return "bin/npm-cli.js"
	}
}

// LocateExecutables describes the manager's executables. All of them are
// JavaScript run through node.
func (p *Plugin) LocateExecutables(toolDir string) (*plugin.Executables, error) {
	env := p.host.Environment()
	entry := p.entryScript(toolDir)
	secondary := map[string]plugin.Executable{}

	primary := plugin.Executable{Path: entry, Parent: "node"}

	switch p.kind {
	case pkgmanager.Npm:
		primary.LinkPath = env.FileName("bin/npm", constants.ExtCmd)
		secondary["npx"] = plugin.Executable{
			Path:     "bin/npx-cli.js",
			Parent:   "node",
			LinkPath: env.FileName("bin/npx", constants.ExtCmd),
		}
		secondary["node-gyp"] = plugin.Executable{
			Path:     "node_modules/node-gyp/bin/node-gyp.js",
			Parent:   "node",
			LinkPath: env.FileName("bin/node-gyp-bin/node-gyp", constants.ExtCmd),
		}

	case pkgmanager.Pnpm:
		primary.NoBin = true
		secondary["pnpx"] = plugin.Executable{
			NoBin:          true,
			ShimBeforeArgs: []string{"dlx"},
		}

	case pkgmanager.Yarn:
		primary.LinkPath = env.FileName("bin/yarn", constants.ExtCmd)
		secondary["yarnpkg"] = primary
	}

	return &plugin.Executables{
		Primary:           &primary,
		Secondary:         secondary,
		GlobalsLookupDirs: []string{config.GlobalsLookupDir},
	}, nil
}

// entryScript reads the installed package.json: bin (string or keyed by
// manager name), then main, then the built-in default
func (p *Plugin) entryScript(toolDir string) string {
	fallback := DefaultEntry(p.kind)
	if toolDir == "" {
		return fallback
	}

	pkg, err := packagejson.ReadFile(filepath.Join(toolDir, constants.PackageJSON))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ui.Debug("Ignoring unreadable package.json in %s: %v", toolDir, err)
		}
		return fallback
	}

	candidate, ok := pkg.Bin.Lookup(p.kind.String())
	if !ok {
		candidate = pkg.Main
	}
	if candidate == "" {
		return fallback
	}

	confined, err := ConfinePath(toolDir, candidate)
	if err != nil {
		ui.Debug("Ignoring entry %q: %v", candidate, err)
		return fallback
	}
	return confined
}

// ConfinePath resolves a package-relative path inside root and returns it
// relative to root with forward slashes. Paths escaping root are clamped to it.
func ConfinePath(root, unsafePath string) (string, error) {
	joined, err := securejoin.SecureJoin(root, unsafePath)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(root, joined)
	if err != nil {
		return "", err
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", errors.New("path does not name a file inside the package")
	}

	return filepath.ToSlash(rel), nil
}
