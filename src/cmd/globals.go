package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/globals"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/plugin"
)

var preRunCmd = &cobra.Command{
	Use:   "pre-run [-- args...]",
	Short: "Rewrite a package manager invocation before it runs",
	Long: `Rewrite a package manager invocation before it runs.

Global installs are redirected into the shared globals directory. The
response is empty when the invocation runs unmodified.

Examples:
  node-plugin --tool npm pre-run -- install -g typescript
  node-plugin --tool pnpm pre-run --args "add --global typescript"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		line, _ := cmd.Flags().GetString("args")
		noIntercept, _ := cmd.Flags().GetBool("no-intercept-globals")

		if line != "" {
			split, err := globals.SplitArgs(line)
			if err != nil {
				return err
			}
			args = append(split, args...)
		}

		settings, err := toolSettings()
		if err != nil {
			return err
		}

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		action, err := p.PreRun(plugin.RunHook{
			Args:       args,
			GlobalsBin: globalsDir(cmd),
			OptOut:     noIntercept,
			Settings:   settings,
		})
		if err != nil {
			return err
		}
		if action == nil {
			action = &globals.Action{}
		}
		return writeJSON(cmd.OutOrStdout(), action)
	},
}

var installGlobalCmd = &cobra.Command{
	Use:   "install-global <dependency>",
	Short: "Install a package into the shared globals directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := currentPlugin()
		if err != nil {
			return err
		}

		result, err := p.InstallGlobal(args[0], globalsDir(cmd))
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

var uninstallGlobalCmd = &cobra.Command{
	Use:   "uninstall-global <dependency>",
	Short: "Remove a package from the shared globals directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := currentPlugin()
		if err != nil {
			return err
		}

		result, err := p.UninstallGlobal(args[0], globalsDir(cmd))
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

// globalsDir returns --globals-dir, or the host's shared globals bin
// directory, mapped under the host root
func globalsDir(cmd *cobra.Command) host.VirtualPath {
	paths := config.DefaultPaths()
	dir, _ := cmd.Flags().GetString("globals-dir")
	if dir == "" {
		dir = paths.GlobalsBin
	}
	return host.NewVirtualPath(paths.Root, dir)
}

func init() {
	preRunCmd.Flags().String("args", "", "Invocation arguments as one shell-quoted string")
	preRunCmd.Flags().Bool("no-intercept-globals", false, "Run global installs unmodified")

	for _, c := range []*cobra.Command{preRunCmd, installGlobalCmd, uninstallGlobalCmd} {
		c.Flags().String("globals-dir", "", "Shared globals bin directory (defaults to the host's)")
		rootCmd.AddCommand(c)
	}
}
