package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Setting keys under [tools.<tool>]
const (
	KeyInterceptGlobals = "intercept-globals"
	KeySharedGlobalsDir = "shared-globals-dir"
	KeyBundledNpm       = "bundled-npm"
)

// ToolSettings are the plugin toggles for one tool
type ToolSettings struct {
	InterceptGlobals bool // Redirect or block global installs
	SharedGlobalsDir bool // Redirect into the shared globals dir instead of blocking
	BundledNpm       bool // Install the npm bundled with node after node installs
}

// DefaultToolSettings returns the settings used when nothing is configured
func DefaultToolSettings() ToolSettings {
	return ToolSettings{
		InterceptGlobals: true,
		SharedGlobalsDir: true,
		BundledNpm:       false,
	}
}

type settingsFile struct {
	Tools map[string]map[string]any `toml:"tools"`
}

// LoadToolSettings layers the global settings file under every settings
// file found walking up from startDir, nearest file last.
func LoadToolSettings(tool, startDir string) (ToolSettings, error) {
	settings := DefaultToolSettings()

	files := []string{DefaultPaths().GlobalConfig}
	local := FindConfigFiles(startDir)
	for i := len(local) - 1; i >= 0; i-- {
		if local[i] != files[0] {
			files = append(files, local[i])
		}
	}

	for _, file := range files {
		if err := applyFile(&settings, tool, file); err != nil {
			return settings, err
		}
	}

	return settings, nil
}

// FindConfigFiles walks up the directory tree collecting .prototools files,
// nearest first. Stops at a git repository root or the filesystem root.
func FindConfigFiles(startDir string) []string {
	if startDir == "" {
		return nil
	}

	var files []string
	currentDir := startDir

	for {
		candidate := filepath.Join(currentDir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			files = append(files, candidate)
		}

		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return files
}

func applyFile(settings *ToolSettings, tool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ApplySettings(settings, tool, string(data))
}

// ApplySettings overlays the keys defined for tool in a TOML document
func ApplySettings(settings *ToolSettings, tool, document string) error {
	var file settingsFile
	meta, err := toml.Decode(document, &file)
	if err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}

	values := file.Tools[tool]
	targets := map[string]*bool{
		KeyInterceptGlobals: &settings.InterceptGlobals,
		KeySharedGlobalsDir: &settings.SharedGlobalsDir,
		KeyBundledNpm:       &settings.BundledNpm,
	}

	for key, target := range targets {
		if !meta.IsDefined("tools", tool, key) {
			continue
		}
		value, ok := values[key].(bool)
		if !ok {
			return fmt.Errorf("tools.%s.%s must be a boolean", tool, key)
		}
		*target = value
	}

	return nil
}
