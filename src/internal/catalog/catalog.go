// Package catalog holds the published versions and aliases of a tool
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dtvem/node-plugin/src/internal/nodedist"
	"github.com/dtvem/node-plugin/src/internal/registry"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// Well known alias names
const (
	AliasLatest = "latest"
	AliasStable = "stable"
	AliasBerry  = "berry"
)

// ErrMissingLatest is returned when fetched data has no latest version
var ErrMissingLatest = errors.New("no latest version was published")

// ErrNoMatch is returned when no published version satisfies a requirement
var ErrNoMatch = errors.New("no published version satisfies the requirement")

// UnknownAliasError is returned when an alias is not in the table
type UnknownAliasError struct {
	Alias       string
	Suggestions []string
}

func (e *UnknownAliasError) Error() string {
	msg := fmt.Sprintf("unknown version alias %q", e.Alias)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Catalog is the result of loading versions: every published version, the
// alias table and the latest version.
type Catalog struct {
	Versions []version.Spec          `json:"versions"`
	Aliases  map[string]version.Spec `json:"aliases"`
	Latest   *version.Spec           `json:"latest,omitempty"`

	seen map[string]bool
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		Aliases: make(map[string]version.Spec),
		seen:    make(map[string]bool),
	}
}

// AddVersion records a published version once
func (c *Catalog) AddVersion(v version.Spec) {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	key := v.String()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.Versions = append(c.Versions, v)
}

// SetAlias records an alias unless it already exists. Reports whether it was written.
func (c *Catalog) SetAlias(name string, v version.Spec) bool {
	if c.Aliases == nil {
		c.Aliases = make(map[string]version.Spec)
	}
	if _, ok := c.Aliases[name]; ok {
		return false
	}
	c.Aliases[name] = v
	return true
}

// MergeDocument adds the versions and dist-tags of a registry document.
// Tags listed in skip are ignored. The first "latest" tag seen seeds Latest.
func (c *Catalog) MergeDocument(doc *registry.Document, skip ...string) error {
	keys := make([]string, 0, len(doc.Versions))
	for key := range doc.Versions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := doc.Versions[key].Version
		if raw == "" {
			raw = key
		}
		v, err := version.ParseSpec(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", doc.Name, err)
		}
		c.AddVersion(v)
	}

	tags := make([]string, 0, len(doc.DistTags))
	for tag := range doc.DistTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		v, err := version.ParseSpec(doc.DistTags[tag])
		if err != nil {
			return fmt.Errorf("%s: dist-tag %s: %w", doc.Name, tag, err)
		}

		if tag == AliasLatest && c.Latest == nil {
			latest := v
			c.Latest = &latest
		}

		if contains(skip, tag) {
			continue
		}
		c.SetAlias(tag, v)
	}

	return nil
}

// Finalize sorts versions and pins the "latest" alias to Latest
func (c *Catalog) Finalize() error {
	if c.Latest == nil {
		return ErrMissingLatest
	}

	c.Aliases[AliasLatest] = *c.Latest
	sort.SliceStable(c.Versions, func(i, j int) bool {
		return less(c.Versions[i], c.Versions[j])
	})

	return nil
}

// FromDocument builds a catalog from a single registry document
func FromDocument(doc *registry.Document) (*Catalog, error) {
	c := New()
	if err := c.MergeDocument(doc); err != nil {
		return nil, err
	}
	if err := c.Finalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}
	return c, nil
}

// FromYarnDocuments merges the classic and berry lineages. Aliases from the
// classic document win, except "berry" which only the berry document can
// provide (its latest release).
func FromYarnDocuments(classic, berry *registry.Document) (*Catalog, error) {
	c := New()

	if classic != nil {
		if err := c.MergeDocument(classic, AliasBerry); err != nil {
			return nil, err
		}
	}

	if berry != nil {
		if err := c.MergeDocument(berry); err != nil {
			return nil, err
		}
		if tag, ok := berry.DistTags[AliasLatest]; ok {
			v, err := version.ParseSpec(tag)
			if err != nil {
				return nil, fmt.Errorf("%s: dist-tag %s: %w", berry.Name, AliasLatest, err)
			}
			c.Aliases[AliasBerry] = v
		}
	}

	if err := c.Finalize(); err != nil {
		return nil, fmt.Errorf("yarn: %w", err)
	}

	return c, nil
}

// FromNodeReleases builds a catalog from a Node.js release index (newest
// first). The first release is latest, the first release of each LTS line
// seeds its lowercase codename, and the first LTS release overall is stable.
func FromNodeReleases(releases []nodedist.Release) (*Catalog, error) {
	c := New()

	for index, release := range releases {
		v, err := version.ParseSpec(release.Number())
		if err != nil {
			return nil, fmt.Errorf("node release index: %w", err)
		}

		if index == 0 {
			latest := v
			c.Latest = &latest
		}

		if release.LTS.IsLTS() {
			c.SetAlias(AliasStable, v)
			c.SetAlias(strings.ToLower(release.LTS.Name), v)
		}

		c.AddVersion(v)
	}

	if err := c.Finalize(); err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}

	return c, nil
}

// AliasNames returns the alias names in sorted order
func (c *Catalog) AliasNames() []string {
	names := make([]string, 0, len(c.Aliases))
	for name := range c.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a spec into a concrete published version: aliases through
// the alias table, requirements to the highest matching version, literal
// versions verbatim.
func (c *Catalog) Resolve(spec version.Unresolved) (version.Spec, error) {
	switch spec.Kind() {
	case version.KindCanary:
		return version.CanarySpec(), nil

	case version.KindVersion:
		v, _ := spec.Version()
		return version.NewSpec(v), nil

	case version.KindAlias:
		name, _ := spec.AliasName()
		if v, ok := c.Aliases[name]; ok {
			return v, nil
		}
		return version.Spec{}, &UnknownAliasError{Alias: name, Suggestions: c.suggest(name)}

	case version.KindReq:
		req, _ := spec.Constraints()
		var best *version.Spec
		for i := range c.Versions {
			candidate := c.Versions[i]
			if candidate.IsCanary() || !req.Check(candidate.Semver()) {
				continue
			}
			if best == nil || less(*best, candidate) {
				best = &candidate
			}
		}
		if best == nil {
			return version.Spec{}, fmt.Errorf("%s: %w", spec, ErrNoMatch)
		}
		return *best, nil
	}

	return version.Spec{}, fmt.Errorf("cannot resolve an empty version")
}

func (c *Catalog) suggest(name string) []string {
	matches := fuzzy.Find(name, c.AliasNames())

	var suggestions []string
	for i, match := range matches {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}

func less(a, b version.Spec) bool {
	if a.IsCanary() || b.IsCanary() {
		return !a.IsCanary() && b.IsCanary()
	}
	return a.Semver().LessThan(b.Semver())
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
