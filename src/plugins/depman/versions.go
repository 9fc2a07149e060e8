package depman

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dtvem/node-plugin/src/internal/catalog"
	"github.com/dtvem/node-plugin/src/internal/pkgmanager"
	"github.com/dtvem/node-plugin/src/internal/registry"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// LoadVersions reads the registry document of the manager. Yarn spans two
// packages whose documents are fetched together and merged classic first.
func (p *Plugin) LoadVersions(initial version.Unresolved) (*catalog.Catalog, error) {
	if p.kind == pkgmanager.Yarn {
		return p.loadYarnVersions()
	}

	pkg := p.kind.PackageName(initial)
	doc, err := p.registry.Fetch(pkg, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s versions: %w", pkg, err)
	}

	return catalog.FromDocument(doc)
}

func (p *Plugin) loadYarnVersions() (*catalog.Catalog, error) {
	var classic, berry *registry.Document

	var g errgroup.Group
	g.Go(func() error {
		doc, err := p.registry.Fetch("yarn", true)
		classic = doc
		return err
	})
	g.Go(func() error {
		doc, err := p.registry.Fetch(pkgmanager.BerryPackage, true)
		berry = doc
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load yarn versions: %w", err)
	}

	return catalog.FromYarnDocuments(classic, berry)
}
