package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"development build", "dev", "none", "unknown", "dev (development build)"},
		{"release", "v1.2.0", "abc1234", "2026-10-15", "v1.2.0 (commit: abc1234, built: 2026-10-15)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVersion(tt.version, tt.commit, tt.date); got != tt.want {
				t.Errorf("FormatVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveFromBuildInfo(t *testing.T) {
	buildInfo := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.3.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
			},
		}, true
	}

	info := resolve("dev", "none", "unknown", buildInfo)

	if info.Version != "v0.3.1" {
		t.Errorf("Version = %q, want v0.3.1", info.Version)
	}
	if info.Commit != "0123456" {
		t.Errorf("Commit = %q, want 0123456", info.Commit)
	}
	if info.Date != "2026-09-30" {
		t.Errorf("Date = %q, want 2026-09-30", info.Date)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestResolveLdflagsWin(t *testing.T) {
	buildInfo := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main:     debug.Module{Version: "v0.3.1"},
			Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
		}, true
	}

	info := resolve("v1.0.0", "feedbee", "2026-10-01", buildInfo)

	if info.Version != "v1.0.0" || info.Commit != "feedbee" || info.Date != "2026-10-01" {
		t.Errorf("ldflags values overridden: %+v", info)
	}
}

func TestResolveDevelBuild(t *testing.T) {
	buildInfo := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}

	if info := resolve("dev", "none", "unknown", buildInfo); info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}

	noInfo := func() (*debug.BuildInfo, bool) { return nil, false }
	if info := resolve("dev", "none", "unknown", noInfo); info.Commit != "none" {
		t.Errorf("Commit = %q, want none", info.Commit)
	}
}
