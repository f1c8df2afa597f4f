// Package version reports which bikepark build is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Commit and BuildTime are stamped by the release build, e.g.
//
//	go build -ldflags "-X github.com/example/bikepark/internal/version.Commit=$(git rev-parse HEAD)"
//
// Left unset, String falls back to the VCS data Go embeds in the binary.
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String is the text shown by `bikepark --version`.
func String() string {
	commit, built := Commit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		commit, built = fromBuildInfo(info, commit, built)
	}
	return format(commit, built)
}

func format(commit, built string) string {
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("bikepark dev (commit: %s, built: %s)", commit, built)
}

// fromBuildInfo fills whichever of commit and built is still "unknown".
func fromBuildInfo(info *debug.BuildInfo, commit, built string) (string, string) {
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "unknown" && s.Value != "" {
				commit = s.Value
			}
		case "vcs.time":
			if built == "unknown" && s.Value != "" {
				built = s.Value
			}
		}
	}
	return commit, built
}
