package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtvem/node-plugin/src/internal/catalog"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/tui"
	"github.com/dtvem/node-plugin/src/internal/ui"
	"github.com/dtvem/node-plugin/src/internal/version"
)

var loadVersionsCmd = &cobra.Command{
	Use:   "load-versions [initial]",
	Short: "List published versions and aliases",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initial, err := initialSpec(args)
		if err != nil {
			return err
		}

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		versions, err := p.LoadVersions(initial)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), versions)
	},
}

var resolveVersionCmd = &cobra.Command{
	Use:   "resolve-version <initial>",
	Short: "Resolve a version alias",
	Long: `Resolve a version alias.

Without --full the plugin's alias rules are applied and the result is either a
candidate for the host to resolve against load-versions, a final version, or
empty when the input passes through unchanged. With --full the candidate is
resolved against the published versions as well.

Examples:
  node-plugin --tool yarn resolve-version berry
  node-plugin --tool npm resolve-version bundled --full
  node-plugin resolve-version lts/hydrogen --full`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")

		initial, err := version.Parse(args[0])
		if err != nil {
			return err
		}

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		if !full {
			result, err := p.ResolveVersion(initial)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		}

		resolved, err := plugin.ResolveFully(p, initial)
		if err != nil {
			var unknown *catalog.UnknownAliasError
			if errors.As(err, &unknown) && len(unknown.Suggestions) > 0 {
				ui.Info("Known aliases include: %s", strings.Join(unknown.Suggestions, ", "))
			}
			return err
		}
		return writeJSON(cmd.OutOrStdout(), struct {
			Version version.Spec `json:"version"`
		}{resolved})
	},
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Show the version aliases of the tool",
	Long: `Show the version aliases of the tool in a table.

Examples:
  node-plugin aliases
  node-plugin --tool yarn aliases
  node-plugin aliases --filter lts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		var versions *catalog.Catalog
		err = ui.WithSpinner(fmt.Sprintf("Fetching %s versions", toolID), func() error {
			versions, err = p.LoadVersions(version.Alias(catalog.AliasLatest))
			return err
		})
		if err != nil {
			return err
		}

		table := tui.NewTable("Alias", "Version")
		table.SetTitle(p.Register().Name)

		for _, name := range versions.AliasNames() {
			if filter != "" && !strings.Contains(name, filter) {
				continue
			}
			v := versions.Aliases[name]
			if name == catalog.AliasLatest {
				table.AddActiveRow(name, v.String())
				continue
			}
			table.AddRow(name, tui.RenderVersion(v.String()))
		}

		if table.RowCount() == 0 {
			ui.Warning("No aliases match filter: %s", filter)
			return nil
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), table.Render())
		ui.Success("%d version(s) published", len(versions.Versions))
		return nil
	},
}

// initialSpec parses the optional initial version, defaulting to latest
func initialSpec(args []string) (version.Unresolved, error) {
	if len(args) == 0 || args[0] == "" {
		return version.Alias(catalog.AliasLatest), nil
	}
	return version.Parse(args[0])
}

func init() {
	resolveVersionCmd.Flags().Bool("full", false, "Resolve the candidate against published versions")
	aliasesCmd.Flags().StringP("filter", "f", "", "Only show aliases containing this text")

	rootCmd.AddCommand(loadVersionsCmd)
	rootCmd.AddCommand(resolveVersionCmd)
	rootCmd.AddCommand(aliasesCmd)
}
