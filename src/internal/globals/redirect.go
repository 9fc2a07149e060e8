// Package globals detects global install commands of the package managers
// and redirects them into the shared globals directory.
package globals

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/pkgmanager"
	"github.com/dtvem/node-plugin/src/internal/ui"
)

// PrefixEnv is read by npm and yarn as the global install prefix
const PrefixEnv = "PREFIX"

var (
	npmInstall = set("install", "add", "i", "in", "ins", "inst", "insta", "instal",
		"isnt", "isnta", "isntal", "isntall")
	npmUninstall = set("r", "remove", "rm", "un", "uninstall", "unlink")
	pnpmGlobal   = set("add", "update", "up", "upgrade", "remove", "rm", "uninstall", "un",
		"list", "ls", "outdated", "why", "root", "bin")
	yarnGlobal = set("add", "bin", "list", "remove", "upgrade")
)

// PolicyError is returned when global installs are intercepted but the
// shared globals directory is disabled
type PolicyError struct {
	Manager string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf(
		"Global binaries must be installed with `proto install-global %s`!\n\nOpt-out of this functionality with `tools.%s.%s = false`.",
		e.Manager, e.Manager, config.KeyInterceptGlobals,
	)
}

// Invocation is one package manager run as seen before it starts
type Invocation struct {
	Kind       pkgmanager.Kind
	Args       []string
	GlobalsBin host.VirtualPath // Shared globals bin directory
	OS         string
	Settings   config.ToolSettings
	OptOut     bool // Interception disabled for this run only
	Guarded    bool // Run was started by a previous redirection
}

// Action is what the host merges into the package manager's invocation
type Action struct {
	Args []string          `json:"args,omitempty"`
	Env  map[string]string `json:"env,omitempty"`
}

// Redirect decides how to rewrite an invocation. It returns nil when the
// invocation must run unmodified.
func Redirect(inv Invocation) (*Action, error) {
	if inv.OptOut || !inv.Settings.InterceptGlobals || inv.Guarded {
		return nil, nil
	}

	if !IsGlobalCommand(inv.Kind, inv.Args) {
		return nil, nil
	}

	if HasExplicitPrefix(inv.Kind, inv.Args) {
		ui.Debug("Respecting explicit global directory in %s", shellquote.Join(inv.Args...))
		return nil, nil
	}

	if !inv.Settings.SharedGlobalsDir {
		return nil, &PolicyError{Manager: inv.Kind.String()}
	}

	globalsBin, err := inv.GlobalsBin.RealPath()
	if err != nil {
		return nil, fmt.Errorf("failed to redirect %s globals: %w", inv.Kind, err)
	}

	action := &Action{
		Env: map[string]string{host.EnvInstallGlobal: "1"},
	}

	switch inv.Kind {
	case pkgmanager.Pnpm:
		bin := filepath.Clean(globalsBin)
		action.Args = []string{"--global-dir", filepath.Dir(bin), "--global-bin-dir", bin}
	default:
		action.Env[PrefixEnv] = pkgmanager.GlobalsPrefix(inv.OS, globalsBin)
	}

	ui.Debug("Redirecting %s %s into %s", inv.Kind, shellquote.Join(inv.Args...), inv.GlobalsBin.Virtual)

	return action, nil
}

// IsGlobalCommand reports whether args install, remove or inspect global packages
func IsGlobalCommand(kind pkgmanager.Kind, args []string) bool {
	args = beforeSeparator(args)
	if len(args) == 0 {
		return false
	}

	switch kind {
	case pkgmanager.Yarn:
		return len(args) > 1 && args[0] == "global" && yarnGlobal[args[1]]

	case pkgmanager.Pnpm:
		return pnpmGlobal[args[0]] && hasFlag(args, "--global", "-g")

	default:
		command := args[0]
		return (npmInstall[command] || npmUninstall[command]) &&
			hasFlag(args, "--global", "-g", "--location=global")
	}
}

// HasExplicitPrefix reports whether args already choose where globals go
func HasExplicitPrefix(kind pkgmanager.Kind, args []string) bool {
	args = beforeSeparator(args)

	if kind == pkgmanager.Pnpm {
		return hasOption(args, "--global-dir") || hasOption(args, "--global-bin-dir")
	}
	return hasOption(args, "--prefix")
}

// SplitArgs splits a shell-quoted argument string
func SplitArgs(line string) ([]string, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments %q: %w", line, err)
	}
	return args, nil
}

// Arguments after "--" belong to scripts, not to the package manager
func beforeSeparator(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args[:i]
		}
	}
	return args
}

func hasFlag(args []string, flags ...string) bool {
	for _, arg := range args {
		for _, flag := range flags {
			if arg == flag {
				return true
			}
		}
	}
	return false
}

// hasOption matches "--name value" and "--name=value"
func hasOption(args []string, name string) bool {
	for _, arg := range args {
		if arg == name || strings.HasPrefix(arg, name+"=") {
			return true
		}
	}
	return false
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
