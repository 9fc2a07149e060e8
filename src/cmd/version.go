package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the plugin version",
	Run: func(cmd *cobra.Command, args []string) {
		content := fmt.Sprintf("node-plugin %s", tui.RenderVersion(plugin.Version))
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderInfoBox(content))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
