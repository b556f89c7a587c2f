package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version is the release version. Release builds override it with
// -ldflags "-X stockprep/pkg/contracts.Version=...".
var Version = "0.1.0-alpha.1"

// DataFormatVersion identifies the layout of the exported tables. It
// changes whenever a column is added, removed or reordered.
const DataFormatVersion = "v1"

// Set by build.go through -ldflags. When left unknown, GetVersionInfo falls
// back to the VCS data the Go toolchain embeds.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version    string `json:"version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GitBranch  string `json:"git_branch"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	DataFormat string `json:"data_format"`
}

// GetVersionInfo returns the version of the running binary
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:    Version,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GitBranch:  GitBranch,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		DataFormat: DataFormatVersion,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" && len(s.Value) >= 7 {
				info.GitCommit = s.Value[:7]
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// IsPrerelease reports whether Version carries a pre-release suffix
func IsPrerelease() bool {
	return strings.Contains(Version, "-")
}

// GetVersionString returns "stockprep v<version>"
func GetVersionString() string {
	return "stockprep v" + Version
}

// GetFullVersionString adds build details to GetVersionString
func GetFullVersionString() string {
	info := GetVersionInfo()
	commit := info.GitCommit
	if info.Modified {
		commit += "-dirty"
	}
	full := fmt.Sprintf("%s (built: %s, commit: %s, go: %s, os: %s)",
		GetVersionString(), info.BuildTime, commit, info.GoVersion, info.Platform)
	if IsPrerelease() {
		full += " [pre-release]"
	}
	return full
}
