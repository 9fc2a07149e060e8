package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/version"
)

var downloadPrebuiltCmd = &cobra.Command{
	Use:   "download-prebuilt <version>",
	Short: "Show where the archive of a version is downloaded from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := version.ParseSpec(args[0])
		if err != nil {
			return err
		}

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		download, err := p.DownloadPrebuilt(v)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), download)
	},
}

var locateExecutablesCmd = &cobra.Command{
	Use:   "locate-executables",
	Short: "Describe the executables of an installed version",
	Long: `Describe the executables of an installed version.

The install directory is --tool-dir, or the host's directory for --installed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		toolDir, _ := cmd.Flags().GetString("tool-dir")
		installed, _ := cmd.Flags().GetString("installed")

		if toolDir == "" && installed != "" {
			toolDir = config.ToolDir(toolID, installed)
		}

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		exes, err := p.LocateExecutables(toolDir)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), exes)
	},
}

var postInstallCmd = &cobra.Command{
	Use:   "post-install [-- args...]",
	Short: "Run the steps that follow installing a version",
	RunE: func(cmd *cobra.Command, args []string) error {
		pinned, _ := cmd.Flags().GetBool("pinned")

		settings, err := toolSettings()
		if err != nil {
			return err
		}

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		if err := p.PostInstall(plugin.InstallHook{Pinned: pinned, Args: args, Settings: settings}); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), struct{}{})
	},
}

func init() {
	locateExecutablesCmd.Flags().String("tool-dir", "", "Install directory of the tool")
	locateExecutablesCmd.Flags().String("installed", "", "Installed version, used when --tool-dir is not set")
	postInstallCmd.Flags().Bool("pinned", false, "The installed version was pinned")

	rootCmd.AddCommand(downloadPrebuiltCmd)
	rootCmd.AddCommand(locateExecutablesCmd)
	rootCmd.AddCommand(postInstallCmd)
}
