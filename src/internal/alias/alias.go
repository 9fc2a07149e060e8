// Package alias classifies symbolic version inputs and maps them to
// candidate specs for each tool.
package alias

import (
	"strings"

	"github.com/dtvem/node-plugin/src/internal/version"
)

// Name is a recognized alias variant
type Name int

const (
	Unrecognized Name = iota
	Latest
	Bundled
	Berry
	Classic
	Node
	LTSLatest
	LTSCodename
)

func (n Name) String() string {
	switch n {
	case Latest:
		return "latest"
	case Bundled:
		return "bundled"
	case Berry:
		return "berry"
	case Classic:
		return "classic"
	case Node:
		return "node"
	case LTSLatest:
		return "lts"
	case LTSCodename:
		return "lts-codename"
	default:
		return "unrecognized"
	}
}

// Alias is a classified alias. Codename is set for LTSCodename only.
type Alias struct {
	Name     Name
	Raw      string
	Codename string
}

// Classify recognizes an alias string
func Classify(raw string) Alias {
	a := Alias{Raw: raw}

	switch raw {
	case "latest":
		a.Name = Latest
	case "bundled":
		a.Name = Bundled
	case "berry":
		a.Name = Berry
	case "legacy", "classic":
		a.Name = Classic
	case "node":
		a.Name = Node
	case "lts", "lts-latest", "lts-*", "lts/*":
		a.Name = LTSLatest
	default:
		if rest, ok := ltsCodename(raw); ok {
			a.Name = LTSCodename
			a.Codename = rest
		}
	}

	return a
}

// Of classifies an unresolved spec. Non-alias specs are Unrecognized.
func Of(spec version.Unresolved) Alias {
	name, ok := spec.AliasName()
	if !ok {
		return Alias{Raw: spec.String()}
	}
	return Classify(name)
}

func ltsCodename(raw string) (string, bool) {
	for _, prefix := range []string{"lts-", "lts/"} {
		if rest, found := strings.CutPrefix(raw, prefix); found && rest != "" {
			return rest, true
		}
	}
	return "", false
}
