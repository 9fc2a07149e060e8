package plugin

import (
	"fmt"

	"github.com/dtvem/node-plugin/src/internal/ui"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// ResolveFully resolves a version the way the host does: the plugin's
// alias rules first, then the candidate against the loaded catalog.
func ResolveFully(p Plugin, initial version.Unresolved) (version.Spec, error) {
	result, err := p.ResolveVersion(initial)
	if err != nil {
		return version.Spec{}, err
	}

	if result.Version != nil {
		return *result.Version, nil
	}

	spec := initial
	if result.Candidate != nil {
		ui.Debug("Resolved %s to candidate %s", initial, result.Candidate)
		spec = *result.Candidate
	}

	if spec.Kind() == version.KindVersion || spec.Kind() == version.KindCanary {
		resolved, err := version.ParseSpec(spec.String())
		if err != nil {
			return version.Spec{}, err
		}
		return resolved, nil
	}

	versions, err := p.LoadVersions(spec)
	if err != nil {
		return version.Spec{}, fmt.Errorf("failed to load %s versions: %w", p.Tool(), err)
	}

	return versions.Resolve(spec)
}
