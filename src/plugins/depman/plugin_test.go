package depman

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/globals"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/nodedist"
	"github.com/dtvem/node-plugin/src/internal/pkgmanager"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/testutil"
	"github.com/dtvem/node-plugin/src/internal/version"
)

const (
	npmDocument = `{
		"name": "npm",
		"dist-tags": {"latest": "10.2.0", "next-9": "9.8.1"},
		"versions": {
			"9.6.4": {"version": "9.6.4"},
			"9.8.1": {"version": "9.8.1"},
			"10.2.0": {"version": "10.2.0"}
		}
	}`

	yarnDocument = "{\"name\": \"yarn\", \"description\": \"Fast\x01 reliable\",\n" +
		`"dist-tags": {"latest": "1.22.19", "berry": "2.4.3"},
		"versions": {
			"1.22.4": {"version": "1.22.4"},
			"1.22.19": {"version": "1.22.19"}
		}
	}`

	berryDocument = `{
		"name": "@yarnpkg/cli-dist",
		"dist-tags": {"latest": "4.0.2", "canary": "4.1.0-rc.1"},
		"versions": {
			"3.6.4": {"version": "3.6.4"},
			"4.0.2": {"version": "4.0.2"},
			"4.1.0-rc.1": {"version": "4.1.0-rc.1"}
		}
	}`

	releaseIndex = `[
		{"version": "v21.1.0", "npm": "10.2.0", "lts": false},
		{"version": "v20.0.0", "npm": "9.6.4", "lts": false}
	]`
)

func newHost() *testutil.FakeHost {
	h := testutil.NewFakeHost()
	h.Responses["https://registry.npmjs.org/npm/"] = npmDocument
	h.Responses["https://registry.npmjs.org/yarn/"] = yarnDocument
	h.Responses["https://registry.npmjs.org/@yarnpkg/cli-dist/"] = berryDocument
	h.Responses[nodedist.ReleaseIndexURL] = releaseIndex
	return h
}

func TestDepmanPluginContract(t *testing.T) {
	for _, tool := range []string{"npm", "pnpm", "yarn"} {
		t.Run(tool, func(t *testing.T) {
			harness := &plugin.PluginTestHarness{
				Plugin:        New(tool, testutil.NewFakeHost()),
				T:             t,
				ExpectedName:  tool,
				ExpectedType:  plugin.TypeDependencyManager,
				SampleVersion: "9.6.4",
				ToolDir:       t.TempDir(),
			}
			harness.RunAllTests()
		})
	}
}

func TestRegisteredAsFallback(t *testing.T) {
	for _, tool := range []string{"npm", "pnpm", "yarn", "yarnpkg", "something-else"} {
		p, err := plugin.For(tool, testutil.NewFakeHost())
		require.NoError(t, err, tool)
		assert.Equal(t, Name, p.Name(), tool)
		assert.Equal(t, tool, p.Tool())
	}
}

func TestKindIsFixedAtCreation(t *testing.T) {
	assert.Equal(t, pkgmanager.Npm, New("npm", nil).Kind())
	assert.Equal(t, pkgmanager.Pnpm, New("pnpm", nil).Kind())
	assert.Equal(t, pkgmanager.Yarn, New("yarn", nil).Kind())
	assert.Equal(t, pkgmanager.Yarn, New("yarnpkg", nil).Kind())
	assert.Equal(t, pkgmanager.Npm, New("bun", nil).Kind())
}

func TestRegister(t *testing.T) {
	assert.Equal(t, BundledAlias, New("npm", nil).Register().DefaultVersion)
	assert.Empty(t, New("pnpm", nil).Register().DefaultVersion)
	assert.Empty(t, New("yarn", nil).Register().DefaultVersion)
}

func TestDetectVersionFiles(t *testing.T) {
	assert.Equal(t, []string{"package.json"}, New("npm", nil).DetectVersionFiles().Files)
	assert.Equal(t, []string{"package.json", ".yarnrc.yml"}, New("yarn", nil).DetectVersionFiles().Files)
}

func TestParseVersionFile(t *testing.T) {
	tests := []struct {
		tool     string
		file     string
		content  string
		expected string
	}{
		{tool: "pnpm", file: "package.json", content: `{"packageManager": "pnpm@8.10.0+sha256.abc"}`, expected: "8.10.0"},
		{tool: "npm", file: "package.json", content: `{"packageManager": "pnpm@8.10.0"}`, expected: ""},
		{tool: "npm", file: "package.json", content: `{"engines": {"npm": "^9"}}`, expected: "^9"},
		{tool: "yarn", file: "package.json", content: `{"volta": {"yarn": "1.22.19"}}`, expected: "1.22.19"},
		{tool: "yarn", file: ".yarnrc.yml", content: "yarnPath: .yarn/releases/yarn-4.0.2.cjs\n", expected: "4.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.file, func(t *testing.T) {
			spec, err := New(tt.tool, nil).ParseVersionFile(tt.file, tt.content)
			require.NoError(t, err)

			if tt.expected == "" {
				assert.Nil(t, spec)
				return
			}
			require.NotNil(t, spec)
			assert.Equal(t, tt.expected, spec.String())
		})
	}
}

func TestLoadVersions_Npm(t *testing.T) {
	h := newHost()

	versions, err := New("npm", h).LoadVersions(version.MustParse("latest"))
	require.NoError(t, err)

	assert.Equal(t, "10.2.0", versions.Latest.String())
	assert.Equal(t, "10.2.0", versions.Aliases["latest"].String())
	assert.Equal(t, "9.8.1", versions.Aliases["next-9"].String())
	assert.Len(t, versions.Versions, 3)
	assert.Equal(t, []string{"https://registry.npmjs.org/npm/"}, h.Fetched())
}

func TestLoadVersions_YarnMergesBothLineages(t *testing.T) {
	h := newHost()

	versions, err := New("yarn", h).LoadVersions(version.MustParse("1.22.19"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"https://registry.npmjs.org/yarn/",
		"https://registry.npmjs.org/@yarnpkg/cli-dist/",
	}, h.Fetched())

	assert.Len(t, versions.Versions, 5)
	assert.Equal(t, "1.22.4", versions.Versions[0].String())
	assert.Equal(t, "4.1.0-rc.1", versions.Versions[4].String())

	// classic's latest wins, berry only comes from the berry lineage
	assert.Equal(t, "1.22.19", versions.Aliases["latest"].String())
	assert.Equal(t, "4.0.2", versions.Aliases["berry"].String())
	assert.Equal(t, "4.1.0-rc.1", versions.Aliases["canary"].String())
}

func TestLoadVersions_YarnFetchFailure(t *testing.T) {
	h := newHost()
	delete(h.Responses, "https://registry.npmjs.org/@yarnpkg/cli-dist/")

	_, err := New("yarn", h).LoadVersions(version.MustParse("berry"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load yarn versions")
}

func TestLoadVersions_PnpmFetchFailure(t *testing.T) {
	_, err := New("pnpm", testutil.NewFakeHost()).LoadVersions(version.MustParse("latest"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load pnpm versions")
}

func TestResolveFully(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		input    string
		env      map[string]string
		expected string
	}{
		{name: "bundled from hint", tool: "npm", input: "bundled", env: map[string]string{host.EnvNodeVersion: "v20.0.0"}, expected: "9.6.4"},
		{name: "npm range", tool: "npm", input: "^9", expected: "9.8.1"},
		{name: "npm latest", tool: "npm", input: "latest", expected: "10.2.0"},
		{name: "yarn berry", tool: "yarn", input: "berry", expected: "4.0.2"},
		{name: "yarn latest is berry", tool: "yarn", input: "latest", expected: "4.0.2"},
		{name: "yarn classic", tool: "yarn", input: "classic", expected: "1.22.19"},
		{name: "exact", tool: "yarn", input: "3.6.4", expected: "3.6.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHost()
			for key, value := range tt.env {
				h.EnvVars[key] = value
			}

			resolved, err := plugin.ResolveFully(New(tt.tool, h), version.MustParse(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resolved.String())
		})
	}
}

func TestResolveFully_BundledFromNodeBinary(t *testing.T) {
	h := newHost()
	h.Results["node --version"] = &host.ExecResult{Stdout: "v20.0.0\n"}

	resolved, err := plugin.ResolveFully(New("npm", h), version.MustParse("bundled"))
	require.NoError(t, err)
	assert.Equal(t, "9.6.4", resolved.String())
}

func TestResolveFully_BundledWithoutNode(t *testing.T) {
	h := newHost()

	resolved, err := plugin.ResolveFully(New("npm", h), version.MustParse("bundled"))
	require.NoError(t, err)
	assert.Equal(t, "10.2.0", resolved.String())
}

func TestDownloadPrebuilt(t *testing.T) {
	tests := []struct {
		tool   string
		input  string
		url    string
		prefix string
	}{
		{tool: "npm", input: "9.6.4", url: "https://registry.npmjs.org/npm/-/npm-9.6.4.tgz", prefix: "package"},
		{tool: "pnpm", input: "8.10.0", url: "https://registry.npmjs.org/pnpm/-/pnpm-8.10.0.tgz", prefix: "package"},
		{tool: "yarn", input: "1.22.19", url: "https://registry.npmjs.org/yarn/-/yarn-1.22.19.tgz", prefix: "yarn-v1.22.19"},
		{tool: "yarn", input: "1.19.2", url: "https://registry.npmjs.org/yarn/-/yarn-1.19.2.tgz", prefix: "yarn-v1.19.2"},
		{tool: "yarn", input: "1.22.20", url: "https://registry.npmjs.org/yarn/-/yarn-1.22.20.tgz", prefix: "package"},
		{tool: "yarn", input: "4.0.2", url: "https://registry.npmjs.org/@yarnpkg/cli-dist/-/cli-dist-4.0.2.tgz", prefix: "package"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"@"+tt.input, func(t *testing.T) {
			download, err := New(tt.tool, nil).DownloadPrebuilt(version.MustParseSpec(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.url, download.URL)
			assert.Equal(t, tt.prefix, download.ArchivePrefix)
		})
	}
}

func TestDownloadPrebuilt_Canary(t *testing.T) {
	_, err := New("pnpm", nil).DownloadPrebuilt(version.CanarySpec())

	var canaryErr *plugin.UnsupportedCanaryError
	require.True(t, errors.As(err, &canaryErr))
	assert.Equal(t, "pnpm", canaryErr.Tool)
}

func TestLocateExecutables_Defaults(t *testing.T) {
	h := testutil.NewFakeHost()
	dir := t.TempDir()

	npm, err := New("npm", h).LocateExecutables(dir)
	require.NoError(t, err)
	assert.Equal(t, "bin/npm-cli.js", npm.Primary.Path)
	assert.Equal(t, "node", npm.Primary.Parent)
	assert.Equal(t, "bin/npm", npm.Primary.LinkPath)
	assert.Equal(t, "bin/npx-cli.js", npm.Secondary["npx"].Path)
	assert.Equal(t, "node_modules/node-gyp/bin/node-gyp.js", npm.Secondary["node-gyp"].Path)
	assert.Equal(t, []string{config.GlobalsLookupDir}, npm.GlobalsLookupDirs)

	pnpm, err := New("pnpm", h).LocateExecutables(dir)
	require.NoError(t, err)
	assert.Equal(t, "bin/pnpm.cjs", pnpm.Primary.Path)
	assert.True(t, pnpm.Primary.NoBin)
	assert.Equal(t, []string{"dlx"}, pnpm.Secondary["pnpx"].ShimBeforeArgs)

	yarn, err := New("yarn", h).LocateExecutables(dir)
	require.NoError(t, err)
	assert.Equal(t, "bin/yarn.js", yarn.Primary.Path)
	assert.Equal(t, yarn.Primary.Path, yarn.Secondary["yarnpkg"].Path)
}

func TestLocateExecutables_Windows(t *testing.T) {
	h := testutil.NewFakeHost()
	h.Platform.OS = "windows"

	npm, err := New("npm", h).LocateExecutables("")
	require.NoError(t, err)
	assert.Equal(t, "bin/npm.cmd", npm.Primary.LinkPath)
	assert.Equal(t, "bin/node-gyp-bin/node-gyp.cmd", npm.Secondary["node-gyp"].LinkPath)
}

func TestLocateExecutables_PackageJSON(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		manifest string
		expected string
	}{
		{name: "bin string", tool: "yarn", manifest: `{"bin": "./bin/yarn.cjs"}`, expected: "bin/yarn.cjs"},
		{name: "bin map", tool: "pnpm", manifest: `{"bin": {"pnpm": "bin/pnpm.mjs", "pnpx": "bin/pnpx.cjs"}}`, expected: "bin/pnpm.mjs"},
		{name: "bin map without manager", tool: "pnpm", manifest: `{"bin": {"pnpx": "bin/pnpx.cjs"}, "main": "dist/pnpm.cjs"}`, expected: "dist/pnpm.cjs"},
		{name: "main", tool: "npm", manifest: `{"main": "./lib/cli.js"}`, expected: "lib/cli.js"},
		{name: "escaping path is confined", tool: "npm", manifest: `{"bin": "../../../usr/bin/evil.js"}`, expected: "usr/bin/evil.js"},
		{name: "malformed", tool: "npm", manifest: `{"bin": `, expected: "bin/npm-cli.js"},
		{name: "empty", tool: "yarn", manifest: `{}`, expected: "bin/yarn.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(tt.manifest), 0o644))

			exes, err := New(tt.tool, testutil.NewFakeHost()).LocateExecutables(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, exes.Primary.Path)
		})
	}
}

func TestPreRun(t *testing.T) {
	const globalsBin = "/home/user/.proto/tools/node/globals/bin"

	hook := plugin.RunHook{
		Args:       []string{"install", "-g", "typescript"},
		GlobalsBin: host.NewVirtualPath("/home/user/.proto", globalsBin),
		Settings:   config.DefaultToolSettings(),
	}

	t.Run("redirects npm", func(t *testing.T) {
		action, err := New("npm", testutil.NewFakeHost()).PreRun(hook)
		require.NoError(t, err)
		require.NotNil(t, action)
		assert.Equal(t, "/home/user/.proto/tools/node/globals", action.Env[globals.PrefixEnv])
		assert.Equal(t, "1", action.Env[host.EnvInstallGlobal])
	})

	t.Run("redirects pnpm with args", func(t *testing.T) {
		pnpmHook := hook
		pnpmHook.Args = []string{"add", "--global", "typescript"}

		action, err := New("pnpm", testutil.NewFakeHost()).PreRun(pnpmHook)
		require.NoError(t, err)
		require.NotNil(t, action)
		assert.Equal(t, []string{
			"--global-dir", "/home/user/.proto/tools/node/globals",
			"--global-bin-dir", globalsBin,
		}, action.Args)
	})

	t.Run("guarded by a previous redirect", func(t *testing.T) {
		h := testutil.NewFakeHost()
		h.EnvVars[host.EnvInstallGlobal] = "1"

		action, err := New("npm", h).PreRun(hook)
		require.NoError(t, err)
		assert.Nil(t, action)
	})

	t.Run("opted out", func(t *testing.T) {
		optOut := hook
		optOut.OptOut = true

		action, err := New("npm", testutil.NewFakeHost()).PreRun(optOut)
		require.NoError(t, err)
		assert.Nil(t, action)
	})

	t.Run("shared globals disabled", func(t *testing.T) {
		blocked := hook
		blocked.Settings.SharedGlobalsDir = false

		_, err := New("npm", testutil.NewFakeHost()).PreRun(blocked)

		var policyErr *globals.PolicyError
		require.True(t, errors.As(err, &policyErr))
		assert.Equal(t, "npm", policyErr.Manager)
	})
}

func TestInstallGlobal(t *testing.T) {
	h := testutil.NewFakeHost()
	cmd := globals.InstallCommand("typescript", "/globals")
	h.Results[cmd.String()] = &host.ExecResult{}

	result, err := New("pnpm", h).InstallGlobal("typescript", host.NewVirtualPath("", "/globals/bin"))
	require.NoError(t, err)
	assert.True(t, result.Success)

	executed := h.Executed()
	require.Len(t, executed, 1)
	assert.Equal(t, "/globals", executed[0].Env[globals.PrefixEnv])
}

func TestUninstallGlobal_Failure(t *testing.T) {
	h := testutil.NewFakeHost()
	cmd := globals.UninstallCommand("typescript", "/globals")
	h.Results[cmd.String()] = &host.ExecResult{ExitCode: 1, Stderr: "not installed"}

	result, err := New("yarn", h).UninstallGlobal("typescript", host.NewVirtualPath("", "/globals/bin"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "not installed", result.Error)
}

func TestPostInstall(t *testing.T) {
	assert.NoError(t, New("npm", nil).PostInstall(plugin.InstallHook{Settings: config.DefaultToolSettings()}))
}
