// Package constants defines common constants used across the plugin
package constants

// Operating systems (Go's runtime.GOOS values)
const (
	OSWindows = "windows"
	OSDarwin  = "darwin"
	OSLinux   = "linux"
)

// CPU architectures (Go's runtime.GOARCH values)
const (
	ArchAMD64   = "amd64"
	ArchARM64   = "arm64"
	Arch386     = "386"
	ArchARM     = "arm"
	ArchPPC64   = "ppc64"
	ArchPPC64LE = "ppc64le"
	ArchS390X   = "s390x"
)

// File extensions
const (
	ExtExe = ".exe"
	ExtCmd = ".cmd"
)

// Well-known file names
const (
	PackageJSON    = "package.json"
	NodeModulesDir = "node_modules"
	NvmrcFile      = ".nvmrc"
	NodeVersion    = ".node-version"
	YarnrcFile     = ".yarnrc.yml"
)
