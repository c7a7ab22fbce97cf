package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// These variables are set at build time using -ldflags.
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Full returns a human-readable version string.
func Full() string {
	s := Version
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		s += " (" + commit + ")"
	}
	if BuildTime != "" {
		s += " built " + BuildTime
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		s = fmt.Sprintf("%s %s", s, info.GoVersion)
	}
	return s
}
