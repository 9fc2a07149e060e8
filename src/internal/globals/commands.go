package globals

import (
	"fmt"

	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/pkgmanager"
)

// Prefix returns the npm prefix that installs executables into globalsBin
func Prefix(goos string, globalsBin host.VirtualPath) (string, error) {
	bin, err := globalsBin.RealPath()
	if err != nil {
		return "", fmt.Errorf("failed to locate globals directory: %w", err)
	}
	return pkgmanager.GlobalsPrefix(goos, bin), nil
}

// InstallCommand installs a package into the globals prefix with npm
func InstallCommand(dependency, prefix string) host.Command {
	return host.Command{
		Name: "npm",
		Args: []string{"install", "--global", "--loglevel", "warn", "--no-audit", "--no-update-notifier", dependency},
		Env:  globalEnv(prefix),
	}
}

// UninstallCommand removes a package from the globals prefix with npm
func UninstallCommand(dependency, prefix string) host.Command {
	return host.Command{
		Name: "npm",
		Args: []string{"uninstall", "--global", "--loglevel", "warn", dependency},
		Env:  globalEnv(prefix),
	}
}

func globalEnv(prefix string) map[string]string {
	return map[string]string{
		PrefixEnv:             prefix,
		host.EnvInstallGlobal: "1",
	}
}
