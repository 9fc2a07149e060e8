// Package registry reads package documents from an npm-compatible registry
package registry

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/host"
)

// DefaultURL is the public npm registry
const DefaultURL = "https://registry.npmjs.org"

// Some registry responses (notably for yarn) embed raw control characters
// that are not valid JSON.
var controlChars = regexp.MustCompile("[\x00-\x1F]+")

// VersionInfo is the per-version metadata we read from a document
type VersionInfo struct {
	Version string `json:"version"` // No v prefix
}

// Document is the subset of a registry package document we consume
type Document struct {
	Name     string                 `json:"name"`
	DistTags map[string]string      `json:"dist-tags"`
	Versions map[string]VersionInfo `json:"versions"`
}

// Parse decodes a package document. When sanitize is true, control
// characters are stripped from the body first.
func Parse(data []byte, sanitize bool) (*Document, error) {
	if sanitize {
		data = controlChars.ReplaceAll(data, nil)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry document: %w", err)
	}

	return &doc, nil
}

// Client fetches documents through the host
type Client struct {
	host    host.Host
	baseURL string
}

// NewClient creates a client against the public registry
func NewClient(h host.Host) *Client {
	return NewClientWithURL(h, DefaultURL)
}

// NewClientWithURL creates a client against a custom registry
func NewClientWithURL(h host.Host, baseURL string) *Client {
	return &Client{
		host:    h,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// BaseURL returns the registry root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PackageURL returns the document URL for a package
func (c *Client) PackageURL(pkg string) string {
	return fmt.Sprintf("%s/%s/", c.baseURL, pkg)
}

// TarballURL returns the download URL of a published package version.
// Scoped packages drop their scope from the file name.
func (c *Client) TarballURL(pkg, version string) string {
	file := pkg
	if index := strings.LastIndex(pkg, "/"); index >= 0 {
		file = pkg[index+1:]
	}
	return fmt.Sprintf("%s/%s/-/%s-%s.tgz", c.baseURL, pkg, file, version)
}

// Fetch downloads and parses a package document
func (c *Client) Fetch(pkg string, sanitize bool) (*Document, error) {
	data, err := c.host.Fetch(c.PackageURL(pkg))
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data, sanitize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pkg, err)
	}

	return doc, nil
}
