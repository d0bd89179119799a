// Package version exposes the build's version information. The variables
// are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/objkit/objkit/version.Version=1.2.0"
//
// When ldflags are absent, commit and build time fall back to the VCS
// metadata Go embeds in the binary.
package version

import (
	"runtime/debug"
	"time"
)

var (
	// Version is the semantic version, "dev" when not stamped.
	Version = "dev"
	// Commit is the short git commit hash.
	Commit = ""
	// BuildTime is the RFC 3339 build timestamp.
	BuildTime = ""
)

// Info is a snapshot of the build's version metadata.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	Dirty     bool      `json:"dirty"`
}

// Get returns the build's version info, merging ldflags values with the
// embedded VCS metadata.
func Get() Info {
	info := Info{
		Version: Version,
		Commit:  Commit,
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = shorten(s.Value)
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	return info
}

// Short returns "version-commit", with a -dirty suffix for modified trees.
func Short() string {
	info := Get()
	s := info.Version
	if info.Commit != "" {
		s += "-" + info.Commit
	}
	if info.Dirty {
		s += "-dirty"
	}
	return s
}

func shorten(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
