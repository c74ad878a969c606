package users

import (
	"errors"
	"testing"

	"bytebuddy/internal/store"
)

func newDirectory(t *testing.T) *Directory {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return NewDirectory(s)
}

func TestCreateAndFindByEmail(t *testing.T) {
	d := newDirectory(t)

	u, err := d.Create("Ana", "ANA@x.com", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("missing id")
	}
	if u.Email != "ana@x.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.CreatedAt.IsZero() {
		t.Fatalf("missing createdAt")
	}

	got, ok := d.FindByEmail("  Ana@X.COM ")
	if !ok || got.ID != u.ID {
		t.Fatalf("lookup failed: ok=%v got=%+v", ok, got)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	d := newDirectory(t)

	if _, err := d.Create("Ana", "ANA@x.com", "secret1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := d.Create("Bob", "ana@x.com", "other12"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
	if n := len(d.List()); n != 1 {
		t.Fatalf("directory changed by failed create: %d users", n)
	}
}

func TestSetPassword(t *testing.T) {
	d := newDirectory(t)

	if _, err := d.Create("Ana", "ana@x.com", "secret1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := d.SetPassword("ANA@x.com", "newpass1"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	u, _ := d.FindByEmail("ana@x.com")
	if u.Password != "newpass1" {
		t.Fatalf("password not updated: %q", u.Password)
	}

	if err := d.SetPassword("nobody@x.com", "whatever"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	d := newDirectory(t)

	if err := d.SeedDemo(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := d.SeedDemo(); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n := len(d.List()); n != 1 {
		t.Fatalf("demo account duplicated: %d users", n)
	}
	u, ok := d.FindByEmail(DemoEmail)
	if !ok || u.Password != DemoPassword {
		t.Fatalf("demo account wrong: ok=%v %+v", ok, u)
	}
}

func TestDirectorySurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	d := NewDirectory(s)
	u, err := d.Create("Ana", "ana@x.com", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s2, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	d2 := NewDirectory(s2)
	got, ok := d2.FindByEmail("ana@x.com")
	if !ok || got.ID != u.ID {
		t.Fatalf("record lost across restart: ok=%v %+v", ok, got)
	}
}
