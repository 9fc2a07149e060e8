package alias

import (
	"fmt"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/nodedist"
	"github.com/dtvem/node-plugin/src/internal/pkgmanager"
	"github.com/dtvem/node-plugin/src/internal/ui"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// Ranges the yarn lineage aliases resolve to. BerryRange tracks the current
// stable berry major and must be bumped when a new major ships.
const (
	BerryRange   = "~4"
	ClassicRange = "~1"
)

// Result is the outcome of resolving an alias. Candidate is re-resolved by
// the host against the catalog; Version is already final.
type Result struct {
	Candidate *version.Unresolved `json:"candidate,omitempty"`
	Version   *version.Spec       `json:"version,omitempty"`
}

// IsEmpty reports whether the input passes through unchanged
func (r Result) IsEmpty() bool {
	return r.Candidate == nil && r.Version == nil
}

func candidate(raw string) Result {
	spec := version.MustParse(raw)
	return Result{Candidate: &spec}
}

// ResolveNode maps node aliases: "node" to latest, LTS wildcards to stable
// and "lts-<name>" to the codename alias.
func ResolveNode(initial version.Unresolved) Result {
	a := Of(initial)

	switch a.Name {
	case Node:
		return candidate("latest")
	case LTSLatest:
		return candidate("stable")
	case LTSCodename:
		spec := version.Alias(a.Codename)
		return Result{Candidate: &spec}
	default:
		return Result{}
	}
}

// ResolveManager maps package manager aliases. npm's "bundled" needs the
// host to find the active Node.js version.
func ResolveManager(h host.Host, kind pkgmanager.Kind, initial version.Unresolved) (Result, error) {
	a := Of(initial)

	switch kind {
	case pkgmanager.Npm:
		if a.Name == Bundled {
			return resolveBundled(h)
		}

	case pkgmanager.Yarn:
		switch a.Name {
		case Berry, Latest:
			return candidate(BerryRange), nil
		case Classic:
			return candidate(ClassicRange), nil
		}
	}

	return Result{}, nil
}

func resolveBundled(h host.Host) (Result, error) {
	npm, found, err := BundledNpm(h)
	if err != nil {
		return Result{}, err
	}

	if !found {
		ui.Warning("Could not find a bundled npm version for Node.js, falling back to latest")
		return candidate("latest"), nil
	}

	return Result{Version: &npm}, nil
}

// BundledNpm looks up the npm version shipped with the active Node.js. The
// host's version hint is tried first, then the output of `node --version`.
func BundledNpm(h host.Host) (version.Spec, bool, error) {
	releases, err := nodedist.FetchIndex(h, nodedist.ReleaseIndexURL)
	if err != nil {
		return version.Spec{}, false, fmt.Errorf("failed to load Node.js releases: %w", err)
	}

	if hint, ok := h.Env(host.EnvNodeVersion); ok && hint != "" {
		if npm, found := nodedist.FindBundledNpm(releases, hint); found {
			return parseNpm(hint, npm)
		}
		ui.Debug("No npm release recorded for Node.js %s", hint)
	}

	result, err := h.Exec(host.Command{Name: "node", Args: []string{"--version"}})
	if err != nil {
		ui.Debug("Could not run node: %v", err)
		return version.Spec{}, false, nil
	}
	if !result.Success() {
		ui.Debug("node --version exited with code %d", result.ExitCode)
		return version.Spec{}, false, nil
	}

	if npm, found := nodedist.FindBundledNpm(releases, result.Stdout); found {
		return parseNpm(result.Stdout, npm)
	}

	return version.Spec{}, false, nil
}

func parseNpm(node, npm string) (version.Spec, bool, error) {
	spec, err := version.ParseSpec(npm)
	if err != nil {
		return version.Spec{}, false, fmt.Errorf("node release index: %w", err)
	}
	ui.Debug("Node.js %s bundles npm %s", strings.TrimSpace(node), npm)
	return spec, true, nil
}
