package version

import (
	"strings"
	"testing"
)

func stash() func() {
	v, c, b := Version, Commit, BuildTime
	return func() { Version, Commit, BuildTime = v, c, b }
}

func TestGet_Defaults(t *testing.T) {
	defer stash()()
	Version, Commit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
}

func TestGet_Stamped(t *testing.T) {
	defer stash()()
	Version, Commit, BuildTime = "1.2.0", "abc1234", "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "abc1234" {
		t.Errorf("Commit = %q", info.Commit)
	}
	if info.BuildDate.IsZero() {
		t.Error("BuildDate not parsed from BuildTime")
	}
}

func TestShort(t *testing.T) {
	defer stash()()
	Version, Commit, BuildTime = "1.2.0", "abc1234", ""

	s := Short()
	if !strings.HasPrefix(s, "1.2.0-abc1234") {
		t.Errorf("Short() = %q", s)
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("0123456789abcdef"); got != "0123456" {
		t.Errorf("shorten() = %q", got)
	}
	if got := shorten("abc"); got != "abc" {
		t.Errorf("shorten() = %q", got)
	}
}
