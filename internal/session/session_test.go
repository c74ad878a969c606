package session

import (
	"os"
	"path/filepath"
	"testing"

	"bytebuddy/internal/store"
	"bytebuddy/internal/users"
)

func setup(t *testing.T) (string, *users.Directory, *Tracker) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	d := users.NewDirectory(s)
	return dir, d, NewTracker(s, d)
}

func TestEstablishAndCurrent(t *testing.T) {
	_, d, tr := setup(t)
	u, err := d.Create("Ana", "ana@x.com", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := tr.Establish(u.ID); err != nil {
		t.Fatalf("establish: %v", err)
	}
	got, ok := tr.Current()
	if !ok || got.ID != u.ID {
		t.Fatalf("current: ok=%v got=%+v", ok, got)
	}

	if err := tr.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := tr.Current(); ok {
		t.Fatalf("session survived clear")
	}
}

func TestCurrentWithNoSession(t *testing.T) {
	_, _, tr := setup(t)
	if _, ok := tr.Current(); ok {
		t.Fatalf("phantom session on fresh store")
	}
}

func TestCurrentWithDanglingReference(t *testing.T) {
	_, _, tr := setup(t)
	if err := tr.Establish("no-such-user"); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if _, ok := tr.Current(); ok {
		t.Fatalf("dangling session resolved to a user")
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	dir, d, tr := setup(t)
	u, err := d.Create("Ana", "ana@x.com", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tr.Establish(u.ID); err != nil {
		t.Fatalf("establish: %v", err)
	}

	s2, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	tr2 := NewTracker(s2, users.NewDirectory(s2))
	got, ok := tr2.Current()
	if !ok || got.ID != u.ID {
		t.Fatalf("session lost across restart: ok=%v %+v", ok, got)
	}
}

func TestCorruptSessionReadsAsLoggedOut(t *testing.T) {
	dir, _, tr := setup(t)
	if err := os.WriteFile(filepath.Join(dir, store.KeySession+".json"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write corrupt session: %v", err)
	}
	if _, ok := tr.Current(); ok {
		t.Fatalf("corrupt session resolved to a user")
	}
}
