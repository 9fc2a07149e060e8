// Package pkgmanager identifies which Node.js package manager a plugin
// instance serves and answers the manager-specific naming questions.
package pkgmanager

import (
	"path/filepath"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/constants"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// Kind is one of the supported package managers
type Kind int

const (
	Npm Kind = iota
	Pnpm
	Yarn
)

// BerryPackage is the registry package that publishes Yarn 2 and later
const BerryPackage = "@yarnpkg/cli-dist"

// Detect maps a tool identifier to a package manager. Identifiers that name
// neither yarn nor pnpm are treated as npm.
func Detect(toolID string) Kind {
	id := strings.ToLower(toolID)

	switch {
	case strings.Contains(id, "yarn"):
		return Yarn
	case strings.Contains(id, "pnpm"):
		return Pnpm
	default:
		return Npm
	}
}

// String returns the canonical manager name
func (k Kind) String() string {
	switch k {
	case Pnpm:
		return "pnpm"
	case Yarn:
		return "yarn"
	default:
		return "npm"
	}
}

// PackageName returns the registry package to query for the given version
func (k Kind) PackageName(spec version.Unresolved) string {
	if k.IsYarnBerry(spec) {
		return BerryPackage
	}
	return k.String()
}

// IsYarnClassic reports whether spec selects a Yarn 1.x release
func (k Kind) IsYarnClassic(spec version.Unresolved) bool {
	if k != Yarn {
		return false
	}

	switch spec.Kind() {
	case version.KindAlias:
		return spec.IsAlias("legacy", "classic")
	case version.KindVersion, version.KindReq:
		// A requirement that also reaches 2+ is berry
		if k.IsYarnBerry(spec) {
			return false
		}
		for _, major := range spec.Majors() {
			if major == 1 {
				return true
			}
		}
	}

	return false
}

// IsYarnBerry reports whether spec selects a Yarn 2+ release
func (k Kind) IsYarnBerry(spec version.Unresolved) bool {
	if k != Yarn {
		return false
	}

	switch spec.Kind() {
	case version.KindAlias:
		return spec.IsAlias("berry", "latest")
	case version.KindVersion, version.KindReq:
		for _, major := range spec.Majors() {
			if major > 1 {
				return true
			}
		}
	}

	return false
}

// GlobalsPrefix returns the install prefix a manager should use so that
// global binaries land in binDir. On Unix npm and yarn append "bin" to the
// prefix themselves, so the prefix is the parent directory; on Windows the
// binaries are written to the prefix root.
func GlobalsPrefix(goos, binDir string) string {
	if goos == constants.OSWindows {
		return binDir
	}
	return filepath.Dir(filepath.Clean(binDir))
}
