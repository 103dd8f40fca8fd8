package main

import (
	"bytes"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestVersionLine(t *testing.T) {
	stamped := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}}}, true
	}
	unstamped := func() (*debug.BuildInfo, bool) { return nil, false }

	tests := []struct {
		name      string
		version   string
		build     string
		buildTime string
		info      func() (*debug.BuildInfo, bool)
		want      string
	}{
		{"dev without vcs", "dev", "unknown", "", unstamped, "treekit dev"},
		{"dev with vcs", "dev", "unknown", "", stamped, "treekit dev (0123456)"},
		{"release", "0.2.0", "abc1234", "2026-10-01_09:00:00", stamped, "treekit 0.2.0 (abc1234, 2026-10-01_09:00:00)"},
		{"release without build id", "0.2.0", "", "2026-10-01_09:00:00", stamped, "treekit 0.2.0 (2026-10-01_09:00:00)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origBuild, origBuildTime, origInfo := Version, Build, BuildTime, readBuildInfo
			t.Cleanup(func() {
				Version, Build, BuildTime, readBuildInfo = origVersion, origBuild, origBuildTime, origInfo
			})
			Version, Build, BuildTime, readBuildInfo = tt.version, tt.build, tt.buildTime, tt.info

			if got := versionLine(); got != tt.want {
				t.Fatalf("versionLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "treekit ") {
		t.Fatalf("first line = %q", lines[0])
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; !strings.Contains(lines[1], want) {
		t.Fatalf("second line %q should name %s", lines[1], want)
	}
}
