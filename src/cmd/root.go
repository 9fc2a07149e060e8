// Package cmd implements the plugin's CLI: one subcommand per host operation
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtvem/node-plugin/src/internal/config"
	"github.com/dtvem/node-plugin/src/internal/host"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/tui"
	"github.com/dtvem/node-plugin/src/internal/ui"
)

// DefaultTool is used when neither --tool nor PROTO_PLUGIN_ID is set
const DefaultTool = "node"

var (
	verbose bool
	toolID  string
)

// newHost creates the host services commands run against. Tests replace it.
var newHost = func() host.Host {
	return host.NewOSHost(config.DefaultPaths().Root)
}

var rootCmd = &cobra.Command{
	Use:           "node-plugin",
	Short:         "Node.js and package manager plugin",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
		ui.CheckVerboseEnv()
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	// Check for --version or -v flag before Cobra parses
	for _, arg := range os.Args[1:] {
		if arg == "--" {
			break
		}
		if arg == "--version" || arg == "-v" {
			versionCmd.Run(versionCmd, []string{})
			return
		}
	}

	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().StringVar(&toolID, "tool", defaultToolID(), "Tool identifier (node, npm, pnpm, yarn)")

	rootCmd.SetUsageFunc(customUsage)
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		_ = customUsage(cmd)
	})
}

func defaultToolID() string {
	if id := os.Getenv(host.EnvPluginID); id != "" {
		return id
	}
	return DefaultTool
}

// currentPlugin returns the plugin serving --tool
func currentPlugin() (plugin.Plugin, error) {
	p, err := plugin.For(toolID, newHost())
	if err != nil {
		return nil, err
	}
	ui.Debug("Using %s plugin for %s", p.Name(), toolID)
	return p, nil
}

// toolSettings loads the [tools.<tool>] settings visible from the working directory
func toolSettings() (config.ToolSettings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.ToolSettings{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.LoadToolSettings(toolID, cwd)
}

// writeJSON prints a protocol response on stdout
func writeJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

func customUsage(cmd *cobra.Command) error {
	const tableWidth = 80

	headerTable := tui.NewTable("")
	headerTable.SetTitle(cmd.Short)
	headerTable.HideHeader()
	headerTable.SetMinWidth(tableWidth)
	headerTable.AddRow("Resolves Node.js, npm, pnpm and yarn versions for the version manager host,")
	headerTable.AddRow("and redirects global package installs into the shared globals directory.")

	out := cmd.OutOrStderr()
	_, _ = fmt.Fprintln(out, headerTable.Render())
	_, _ = fmt.Fprintln(out)

	table := tui.NewTable("Command", "Description")
	table.SetTitle("Available Commands")
	table.SetMinWidth(tableWidth)

	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "completion" || c.Name() == "help" {
			continue
		}
		table.AddRow(c.Name(), c.Short)
	}

	_, _ = fmt.Fprintln(out, table.Render())

	return nil
}
