package version

import (
	"strings"
	"testing"
)

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456789ab" {
		t.Fatalf("shortCommit = %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Fatalf("shortCommit = %q", got)
	}
}

func TestResolvePrefersLdflags(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "v1.2.3", "deadbeefcafebabe0000"
	info := Resolve()
	if info.Version != "v1.2.3" || info.Commit != "deadbeefcafebabe0000" {
		t.Fatalf("Resolve = %+v", info)
	}
	if got := String(); !strings.HasPrefix(got, "v1.2.3 (deadbeefcafe") {
		t.Fatalf("String = %q", got)
	}
}

func TestResolveNeverEmpty(t *testing.T) {
	oldV := Version
	defer func() { Version = oldV }()

	Version = ""
	if Resolve().Version == "" {
		t.Fatal("expected a fallback version")
	}
}
