// Package versionfile extracts version requirements from project files
package versionfile

import (
	"fmt"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/constants"
	"github.com/dtvem/node-plugin/src/internal/packagejson"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// Strategy extracts a raw version string from a package.json
type Strategy func(pkg *packagejson.PackageJSON) (string, bool)

// Parser extracts versions for one tool
type Parser struct {
	tool       string
	strategies []Strategy
	files      map[string]func(content string) (string, bool)
}

// ForManager returns the parser for a package manager: packageManager,
// then engines, then volta.
func ForManager(name string) *Parser {
	p := &Parser{
		tool: name,
		strategies: []Strategy{
			PackageManagerField(name),
			EnginesField(name),
			VoltaField(name),
		},
		files: map[string]func(string) (string, bool){},
	}
	if name == "yarn" {
		p.files[constants.YarnrcFile] = YarnPath
	}
	return p
}

// ForNode returns the parser for Node.js: engines, then volta, plus the
// single-value .nvmrc and .node-version files.
func ForNode() *Parser {
	return &Parser{
		tool: "node",
		strategies: []Strategy{
			EnginesField("node"),
			VoltaField("node"),
		},
		files: map[string]func(string) (string, bool){
			constants.NvmrcFile:   FirstLine,
			constants.NodeVersion: FirstLine,
		},
	}
}

// Files returns the version file names this parser understands
func (p *Parser) Files() []string {
	files := []string{}
	for _, name := range []string{constants.NvmrcFile, constants.NodeVersion} {
		if _, ok := p.files[name]; ok {
			files = append(files, name)
		}
	}
	files = append(files, constants.PackageJSON)
	if _, ok := p.files[constants.YarnrcFile]; ok {
		files = append(files, constants.YarnrcFile)
	}
	return files
}

// Parse returns the version declared in a file, or nil when the file does
// not declare one. Malformed package.json content declares nothing. A
// declared value that is not a valid version is an error.
func (p *Parser) Parse(filename, content string) (*version.Unresolved, error) {
	raw, found := p.extract(filename, content)
	if !found {
		return nil, nil
	}

	spec, err := version.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s declares an invalid %s version: %w", filename, p.tool, err)
	}
	return &spec, nil
}

func (p *Parser) extract(filename, content string) (string, bool) {
	if filename == constants.PackageJSON {
		pkg, err := packagejson.Parse([]byte(content))
		if err != nil {
			return "", false
		}
		return FirstOf(pkg, p.strategies...)
	}

	if extract, ok := p.files[filename]; ok {
		return extract(content)
	}

	return "", false
}

// FirstOf runs strategies in order and returns the first success
func FirstOf(pkg *packagejson.PackageJSON, strategies ...Strategy) (string, bool) {
	for _, strategy := range strategies {
		if value, ok := strategy(pkg); ok {
			return value, true
		}
	}
	return "", false
}

// PackageManagerField reads corepack's "<name>@<version>[+<hash>]". A bare
// name yields "latest"; another manager's name yields nothing.
func PackageManagerField(name string) Strategy {
	return func(pkg *packagejson.PackageJSON) (string, bool) {
		field := strings.TrimSpace(pkg.PackageManager)
		if field == "" {
			return "", false
		}

		manager, value, hasVersion := strings.Cut(field, "@")
		if manager != name {
			return "", false
		}
		if !hasVersion || value == "" {
			return "latest", true
		}

		value, _, _ = strings.Cut(value, "+")
		return value, true
	}
}

// EnginesField reads engines.<name>
func EnginesField(name string) Strategy {
	return func(pkg *packagejson.PackageJSON) (string, bool) {
		return lookup(pkg.Engines, name)
	}
}

// VoltaField reads volta.<name>
func VoltaField(name string) Strategy {
	return func(pkg *packagejson.PackageJSON) (string, bool) {
		return lookup(pkg.Volta, name)
	}
}

func lookup(m packagejson.StringMap, key string) (string, bool) {
	value := strings.TrimSpace(m[key])
	return value, value != ""
}

// FirstLine returns the first line that is neither blank nor a # comment
func FirstLine(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}
