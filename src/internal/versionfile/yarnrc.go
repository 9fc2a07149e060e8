package versionfile

import (
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var yarnReleasePattern = regexp.MustCompile(`^yarn-(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)\.c?js$`)

type yarnrc struct {
	YarnPath string `yaml:"yarnPath"`
}

// YarnPath reads the release pinned by .yarnrc.yml's yarnPath
// (".yarn/releases/yarn-4.0.2.cjs" pins 4.0.2).
func YarnPath(content string) (string, bool) {
	var rc yarnrc
	if err := yaml.Unmarshal([]byte(content), &rc); err != nil || rc.YarnPath == "" {
		return "", false
	}

	match := yarnReleasePattern.FindStringSubmatch(path.Base(strings.ReplaceAll(rc.YarnPath, `\`, "/")))
	if match == nil {
		return "", false
	}
	return match[1], true
}
