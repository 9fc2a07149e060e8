// Package packagejson reads the package.json fields the plugin consumes
package packagejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// StringMap is an object of string values. Entries with other value types
// are dropped instead of failing the whole document.
type StringMap map[string]string

// UnmarshalJSON implements json.Unmarshaler
func (m *StringMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(StringMap, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			result[key] = s
		}
	}

	*m = result
	return nil
}

// BinField is the "bin" field: a single path or a map of command name to path
type BinField struct {
	Path     string
	Commands map[string]string
}

// UnmarshalJSON implements json.Unmarshaler
func (b *BinField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Path)
	}

	var commands StringMap
	if err := json.Unmarshal(data, &commands); err != nil {
		return fmt.Errorf("bin must be a string or an object: %w", err)
	}
	b.Commands = commands
	return nil
}

// Lookup returns the path for a command: the single path, or the map entry
func (b *BinField) Lookup(command string) (string, bool) {
	if b == nil {
		return "", false
	}
	if b.Path != "" {
		return b.Path, true
	}
	path, ok := b.Commands[command]
	return path, ok && path != ""
}

// PackageJSON is the subset of package.json used for versions and executables
type PackageJSON struct {
	Name           string    `json:"name,omitempty"`
	Version        string    `json:"version,omitempty"`
	Main           string    `json:"main,omitempty"`
	Bin            *BinField `json:"bin,omitempty"`
	PackageManager string    `json:"packageManager,omitempty"`
	Engines        StringMap `json:"engines,omitempty"`
	Volta          StringMap `json:"volta,omitempty"`
}

// Parse decodes package.json content
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return &pkg, nil
}

// ReadFile reads and decodes a package.json file
func ReadFile(path string) (*PackageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
