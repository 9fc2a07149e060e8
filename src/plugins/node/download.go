package node

import (
	"fmt"

	"github.com/dtvem/node-plugin/src/internal/constants"
	"github.com/dtvem/node-plugin/src/internal/nodedist"
	"github.com/dtvem/node-plugin/src/internal/plugin"
	"github.com/dtvem/node-plugin/src/internal/version"
)

// Supported OS/architecture permutations, keyed by Go's names
var supported = map[string][]string{
	constants.OSLinux:   {constants.ArchAMD64, constants.ArchARM64, constants.ArchARM, constants.ArchPPC64, constants.ArchPPC64LE, constants.ArchS390X},
	constants.OSDarwin:  {constants.ArchAMD64, constants.ArchARM64},
	constants.OSWindows: {constants.ArchAMD64, constants.Arch386, constants.ArchARM64},
}

// Arch maps a Go architecture to Node.js archive naming
func Arch(goos, goarch string) (string, bool) {
	switch goarch {
	case constants.ArchAMD64:
		return "x64", true
	case constants.Arch386:
		return "x86", true
	case constants.ArchARM64:
		return "arm64", true
	case constants.ArchARM:
		return "armv7l", true
	case constants.ArchPPC64, constants.ArchPPC64LE:
		if goos == constants.OSLinux {
			return "ppc64le", true
		}
		return "ppc64", true
	case constants.ArchS390X:
		return "s390x", true
	default:
		return "", false
	}
}

func isSupported(goos, goarch string) bool {
	for _, arch := range supported[goos] {
		if arch == goarch {
			return true
		}
	}
	return false
}

// DownloadPrebuilt returns the nodejs.org archive for the host platform.
// Canary resolves to the newest nightly build.
func (p *Plugin) DownloadPrebuilt(v version.Spec) (*plugin.Download, error) {
	env := p.host.Environment()

	arch, ok := Arch(env.OS, env.Arch)
	if !ok || !isSupported(env.OS, env.Arch) {
		return nil, &plugin.UnsupportedPlatformError{Tool: DisplayName, OS: env.OS, Arch: env.Arch}
	}

	distHost := nodedist.ReleaseHost
	number := v.String()
	major := v.Major()

	if v.IsCanary() {
		releases, err := nodedist.FetchIndex(p.host, nodedist.NightlyIndexURL)
		if err != nil {
			return nil, err
		}
		if len(releases) == 0 {
			return nil, fmt.Errorf("nightly index is empty")
		}

		nightly, err := version.ParseSpec(releases[0].Version)
		if err != nil {
			return nil, fmt.Errorf("nightly index: %w", err)
		}

		distHost = nodedist.NightlyHost
		number = nightly.String()
		major = nightly.Major()
	}

	var prefix string
	switch env.OS {
	case constants.OSWindows:
		prefix = fmt.Sprintf("node-v%s-win-%s", number, arch)
	case constants.OSDarwin:
		// No arm64 builds before v16; Rosetta runs the x64 ones
		if env.Arch == constants.ArchARM64 && major < 16 {
			arch = "x64"
		}
		prefix = fmt.Sprintf("node-v%s-darwin-%s", number, arch)
	default:
		prefix = fmt.Sprintf("node-v%s-linux-%s", number, arch)
	}

	filename := prefix + ".tar.xz"
	if env.OS == constants.OSWindows {
		filename = prefix + ".zip"
	}

	return &plugin.Download{
		ArchivePrefix: prefix,
		URL:           fmt.Sprintf("%s/v%s/%s", distHost, number, filename),
		Name:          filename,
		ChecksumURL:   fmt.Sprintf("%s/v%s/%s", distHost, number, nodedist.ChecksumFileName),
	}, nil
}
