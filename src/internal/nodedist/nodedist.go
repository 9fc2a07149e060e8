// Package nodedist reads the Node.js release indexes published on nodejs.org
package nodedist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/host"
)

// Release hosts and their indexes
const (
	ReleaseHost      = "https://nodejs.org/download/release"
	NightlyHost      = "https://nodejs.org/download/nightly"
	ReleaseIndexURL  = ReleaseHost + "/index.json"
	NightlyIndexURL  = NightlyHost + "/index.json"
	ChecksumFileName = "SHASUMS256.txt"
)

// LTS is the "lts" field of a release: false, or the line's codename
type LTS struct {
	Name string
}

// IsLTS reports whether the release belongs to an LTS line
func (l LTS) IsLTS() bool {
	return l.Name != ""
}

// UnmarshalJSON accepts either a boolean or a codename string
func (l *LTS) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.Name)
	}

	var flag bool
	if err := json.Unmarshal(data, &flag); err != nil {
		return fmt.Errorf("lts must be a boolean or string: %w", err)
	}
	l.Name = ""
	return nil
}

// MarshalJSON writes the codename, or false
func (l LTS) MarshalJSON() ([]byte, error) {
	if l.Name == "" {
		return []byte("false"), nil
	}
	return json.Marshal(l.Name)
}

// Release is one entry of the index, newest first
type Release struct {
	Version string `json:"version"` // With v prefix
	Date    string `json:"date,omitempty"`
	NPM     string `json:"npm,omitempty"` // No v prefix, empty for very old releases
	LTS     LTS    `json:"lts"`
}

// Number returns the version without its "v" prefix
func (r Release) Number() string {
	return strings.TrimPrefix(r.Version, "v")
}

// ParseIndex decodes an index document
func ParseIndex(data []byte) ([]Release, error) {
	var releases []Release
	if err := json.Unmarshal(data, &releases); err != nil {
		return nil, fmt.Errorf("failed to parse release index: %w", err)
	}
	return releases, nil
}

// FetchIndex downloads and decodes an index through the host
func FetchIndex(h host.Host, url string) ([]Release, error) {
	data, err := h.Fetch(url)
	if err != nil {
		return nil, err
	}
	return ParseIndex(data)
}

// FindBundledNpm returns the npm version shipped with the given Node.js
// version. Both "v20.0.0" and "20.0.0" forms are accepted.
func FindBundledNpm(releases []Release, nodeVersion string) (string, bool) {
	wanted := strings.TrimPrefix(strings.TrimSpace(nodeVersion), "v")
	if wanted == "" {
		return "", false
	}

	for _, release := range releases {
		if release.Number() == wanted && release.NPM != "" {
			return release.NPM, true
		}
	}

	return "", false
}
