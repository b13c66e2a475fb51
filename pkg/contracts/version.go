package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	Version = "1.0.0"

	// SummaryFormatVersion tags the layout of the JSON run summary.
	SummaryFormatVersion = "v1"
)

// Set with -ldflags "-X custclean/pkg/contracts.GitCommit=...". When left
// unset they are filled from the VCS stamp of the build, if any.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo identifies the binary that produced a run summary.
type VersionInfo struct {
	Version       string `json:"version"`
	BuildTime     string `json:"build_time"`
	GitCommit     string `json:"git_commit"`
	Modified      bool   `json:"modified,omitempty"`
	GoVersion     string `json:"go_version"`
	OS            string `json:"os"`
	Architecture  string `json:"architecture"`
	SummaryFormat string `json:"summary_format"`
}

func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:       Version,
		BuildTime:     BuildTime,
		GitCommit:     GitCommit,
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Architecture:  runtime.GOARCH,
		SummaryFormat: SummaryFormatVersion,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyVCS(&info, bi.Settings)
	}
	return info
}

// applyVCS fills commit and build time from the vcs.* build settings when
// ldflags did not set them.
func applyVCS(info *VersionInfo, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// GetVersionString returns "custclean v<version>".
func GetVersionString() string {
	return "custclean v" + Version
}

// GetFullVersionString is the -version output.
func GetFullVersionString() string {
	info := GetVersionInfo()
	commit := info.GitCommit
	if info.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(), info.BuildTime, commit, info.GoVersion, info.OS, info.Architecture)
}
