// Package version exposes build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set during build time
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// BuildInfo contains build and runtime information
type BuildInfo struct {
	Version   string   `json:"version"`
	BuildDate string   `json:"build_date"`
	GitCommit string   `json:"git_commit"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	NumCPU    int      `json:"num_cpu"`
	Modified  bool     `json:"modified"`
	Deps      []Module `json:"deps"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// GetBuildInfo returns build information, falling back to the VCS stamp
// embedded by the Go toolchain when ldflags were not set.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:    runtime.NumCPU(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	for _, dep := range bi.Deps {
		info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
	}

	return info
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	info := GetBuildInfo()

	var b strings.Builder
	fmt.Fprintf(&b, "treecopy %s\n\n", info.Version)
	fmt.Fprintf(&b, "  Commit:     %s", info.GitCommit)
	if info.Modified {
		b.WriteString(" (modified)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(&b, "  Go:         %s\n", info.GoVersion)
	fmt.Fprintf(&b, "  Platform:   %s\n", info.Platform)
	fmt.Fprintf(&b, "  CPUs:       %d\n", info.NumCPU)

	if len(info.Deps) > 0 {
		b.WriteString("\nDependencies:\n")
		for _, dep := range info.Deps {
			fmt.Fprintf(&b, "  %s %s\n", dep.Path, dep.Version)
		}
	}

	return b.String()
}
