package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X main.Version=... -X main.Build=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = ""
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// versionLine is the first line of --version, e.g.
// "treekit 0.2.0 (abc1234, 2026-10-01_09:00:00)".
func versionLine() string {
	var extra []string
	if Build != "" && Build != "unknown" {
		extra = append(extra, Build)
	} else if Version == "dev" {
		if rev := vcsRevision(); rev != "" {
			extra = append(extra, rev)
		}
	}
	if BuildTime != "" {
		extra = append(extra, BuildTime)
	}

	if len(extra) == 0 {
		return "treekit " + Version
	}
	return fmt.Sprintf("treekit %s (%s)", Version, strings.Join(extra, ", "))
}

// vcsRevision is the short commit stamped by go build, if any.
func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}

func writeVersion(w io.Writer) {
	_, _ = fmt.Fprintln(w, versionLine())
	_, _ = fmt.Fprintf(w, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
