/*
Package version reports build information for movie-recommender.

Version values are set via ldflags during build:

	go build -ldflags "-X github.com/khanglvm/movie-recommender/internal/version.Version=v1.2.0 \
	  -X github.com/khanglvm/movie-recommender/internal/version.Commit=abc1234 \
	  -X github.com/khanglvm/movie-recommender/internal/version.Date=2026-10-15"

Binaries installed with 'go install module@version' carry no ldflags; the
module version and VCS revision are read from the embedded build info instead.
*/
package version

import (
	"runtime"
	"runtime/debug"
	"sync"
)

// Version information (set via ldflags during build)
var (
	// Version is the release tag (e.g., v1.2.0)
	Version = "dev"
	// Commit is the git commit hash (short form)
	Commit = "none"
	// Date is the build date in UTC (YYYY-MM-DD)
	Date = "unknown"
)

// Info is the resolved build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
}

var (
	resolved    Info
	resolveOnce sync.Once
)

// Get returns build information, falling back to the embedded build info
// for values not set via ldflags.
func Get() Info {
	resolveOnce.Do(func() {
		resolved = resolve(Version, Commit, Date, debug.ReadBuildInfo)
	})
	return resolved
}

func resolve(version, commit, date string, readBuildInfo func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: version, Commit: commit, Date: date, GoVersion: runtime.Version()}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" && s.Value != "" {
				info.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.Date == "unknown" && len(s.Value) >= len("2006-01-02") {
				info.Date = s.Value[:len("2006-01-02")]
			}
		}
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// GetVersion returns version information as a formatted string
func GetVersion() string {
	i := Get()
	return FormatVersion(i.Version, i.Commit, i.Date)
}

// FormatVersion formats version components into a display string
func FormatVersion(version, commit, date string) string {
	if version == "dev" {
		return version + " (development build)"
	}
	return version + " (commit: " + commit + ", built: " + date + ")"
}
