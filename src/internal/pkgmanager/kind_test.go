package pkgmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtvem/node-plugin/src/internal/version"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		id       string
		expected Kind
	}{
		{id: "npm", expected: Npm},
		{id: "npm-test", expected: Npm},
		{id: "pnpm", expected: Pnpm},
		{id: "PNPM-test", expected: Pnpm},
		{id: "yarn", expected: Yarn},
		{id: "Yarn-Berry", expected: Yarn},
		{id: "yarn-pnpm", expected: Yarn},
		{id: "bun", expected: Npm},
		{id: "", expected: Npm},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.id))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "npm", Npm.String())
	assert.Equal(t, "pnpm", Pnpm.String())
	assert.Equal(t, "yarn", Yarn.String())
}

func TestKind_PackageName(t *testing.T) {
	tests := []struct {
		kind     Kind
		spec     string
		expected string
	}{
		{kind: Yarn, spec: "1.22.19", expected: "yarn"},
		{kind: Yarn, spec: "2.4.2", expected: BerryPackage},
		{kind: Yarn, spec: "4.0.2", expected: BerryPackage},
		{kind: Yarn, spec: "~4", expected: BerryPackage},
		{kind: Yarn, spec: "~1", expected: "yarn"},
		{kind: Yarn, spec: "berry", expected: BerryPackage},
		{kind: Yarn, spec: "latest", expected: BerryPackage},
		{kind: Yarn, spec: "classic", expected: "yarn"},
		{kind: Npm, spec: "9.0.0", expected: "npm"},
		{kind: Pnpm, spec: "latest", expected: "pnpm"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"@"+tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.PackageName(version.MustParse(tt.spec)))
		})
	}
}

func TestKind_ClassicAndBerryAreExclusive(t *testing.T) {
	specs := []string{
		"0.27.5", "1.0.0", "1.22.19", "2.0.0", "3.6.1", "4.1.0",
		"~1", "^1 || ^4", ">=1.0.0, <2", "*", "latest", "berry", "classic", "legacy", "next", "canary",
	}

	for _, kind := range []Kind{Npm, Pnpm, Yarn} {
		for _, raw := range specs {
			spec := version.MustParse(raw)
			classic := kind.IsYarnClassic(spec)
			berry := kind.IsYarnBerry(spec)

			assert.False(t, classic && berry, "%s %q is both classic and berry", kind, raw)
			if kind != Yarn {
				assert.False(t, classic || berry, "%s %q should never be yarn", kind, raw)
			}
		}
	}
}

func TestKind_YarnLineageForConcreteVersions(t *testing.T) {
	for _, raw := range []string{"1.0.0", "1.22.19", "2.4.2", "3.6.1", "4.5.0"} {
		spec := version.MustParse(raw)
		major, _ := spec.Version()

		if major.Major() == 1 {
			assert.True(t, Yarn.IsYarnClassic(spec), raw)
			assert.False(t, Yarn.IsYarnBerry(spec), raw)
		} else {
			assert.False(t, Yarn.IsYarnClassic(spec), raw)
			assert.True(t, Yarn.IsYarnBerry(spec), raw)
		}
	}
}

func TestKind_UnrecognizedAliasIsNeither(t *testing.T) {
	spec := version.Alias("next")
	assert.False(t, Yarn.IsYarnClassic(spec))
	assert.False(t, Yarn.IsYarnBerry(spec))
	assert.Equal(t, "yarn", Yarn.PackageName(spec))
}

func TestGlobalsPrefix(t *testing.T) {
	assert.Equal(t, "/home/user/.proto/tools/node/globals", GlobalsPrefix("linux", "/home/user/.proto/tools/node/globals/bin"))
	assert.Equal(t, "/home/user/.proto/tools/node/globals", GlobalsPrefix("darwin", "/home/user/.proto/tools/node/globals/bin/"))
	assert.Equal(t, `C:\proto\tools\node\globals\bin`, GlobalsPrefix("windows", `C:\proto\tools\node\globals\bin`))
}
