package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtvem/node-plugin/src/internal/plugin"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Describe the tool served by this plugin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := currentPlugin()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), p.Register())
	},
}

var detectVersionFilesCmd = &cobra.Command{
	Use:   "detect-version-files",
	Short: "List the files a version can be declared in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := currentPlugin()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), p.DetectVersionFiles())
	},
}

var parseVersionFileCmd = &cobra.Command{
	Use:   "parse-version-file <file>",
	Short: "Extract the declared version from a version file",
	Long: `Extract the declared version from a version file.

The file content is read from --path, or from stdin when --path is not set.

Examples:
  node-plugin parse-version-file .nvmrc --path ./.nvmrc
  cat package.json | node-plugin --tool pnpm parse-version-file package.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")

		content, err := readContent(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		p, err := currentPlugin()
		if err != nil {
			return err
		}

		spec, err := p.ParseVersionFile(args[0], content)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), plugin.ParsedVersion{Version: spec})
	},
}

func readContent(stdin io.Reader, path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func init() {
	parseVersionFileCmd.Flags().String("path", "", "Read the file content from this path instead of stdin")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(detectVersionFilesCmd)
	rootCmd.AddCommand(parseVersionFileCmd)
}
