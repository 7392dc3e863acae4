package itemstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func ptr(s string) *string { return &s }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "lumo.db")
	s, err := Open(context.Background(), path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "", nil); err == nil {
		t.Fatal("Open(\"\") should fail")
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lumo.db")

	s, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, CreateInput{Name: "kept"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	items, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "kept" {
		t.Fatalf("List() after reopen = %+v", items)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("List() on empty store = %#v, want empty non-nil slice", items)
	}

	a, err := s.Create(ctx, CreateInput{Name: "first", Description: ptr("hello")})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if a.ID == 0 || a.Name != "first" || a.Description == nil || *a.Description != "hello" {
		t.Fatalf("Create() = %+v", a)
	}
	if a.CreatedAt == "" || a.UpdatedAt == "" {
		t.Errorf("timestamps not set: %+v", a)
	}

	b, err := s.Create(ctx, CreateInput{Name: "second"})
	if err != nil {
		t.Fatal(err)
	}
	if b.Description == nil || *b.Description != "" {
		t.Errorf("absent description stored as %v, want empty string", b.Description)
	}

	items, err = s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != b.ID || items[1].ID != a.ID {
		t.Fatalf("List() = %+v, want newest first", items)
	}

	got, err := s.Get(ctx, a.ID)
	if err != nil || got.Name != "first" {
		t.Fatalf("Get() = %+v, %v", got, err)
	}

	upd, err := s.Update(ctx, UpdateInput{ID: a.ID, Name: ptr("renamed")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if upd.Name != "renamed" || upd.Description == nil || *upd.Description != "hello" {
		t.Errorf("Update(name) = %+v, want description untouched", upd)
	}

	upd, err = s.Update(ctx, UpdateInput{ID: a.ID, Description: ptr("")})
	if err != nil {
		t.Fatal(err)
	}
	if upd.Name != "renamed" || upd.Description == nil || *upd.Description != "" {
		t.Errorf("Update(empty description) = %+v, want empty string", upd)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, a.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Get() after Delete = %v, want ErrItemNotFound", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	tests := map[string]func() error{
		"get": func() error {
			_, err := s.Get(ctx, 404)
			return err
		},
		"update": func() error {
			_, err := s.Update(ctx, UpdateInput{ID: 404, Name: ptr("x")})
			return err
		},
		"delete": func() error {
			return s.Delete(ctx, 404)
		},
	}

	for name, call := range tests {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, ErrItemNotFound) {
				t.Errorf("%s missing id = %v, want ErrItemNotFound", name, err)
			}
		})
	}
}

func TestStore_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	long := strings.Repeat("x", MaxNameLen+1)
	longDesc := strings.Repeat("d", MaxDescriptionLen+1)

	tests := map[string]func() error{
		"empty name": func() error {
			_, err := s.Create(ctx, CreateInput{Name: ""})
			return err
		},
		"long name": func() error {
			_, err := s.Create(ctx, CreateInput{Name: long})
			return err
		},
		"long description": func() error {
			_, err := s.Create(ctx, CreateInput{Name: "ok", Description: &longDesc})
			return err
		},
		"update empty name": func() error {
			_, err := s.Update(ctx, UpdateInput{ID: 1, Name: ptr("")})
			return err
		},
	}

	for name, call := range tests {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, ErrInvalidItem) {
				t.Errorf("%s = %v, want ErrInvalidItem", name, err)
			}
		})
	}

	// Limits are in characters, not bytes.
	multibyte := strings.Repeat("é", MaxNameLen)
	if _, err := s.Create(ctx, CreateInput{Name: multibyte}); err != nil {
		t.Errorf("name of %d multibyte characters rejected: %v", MaxNameLen, err)
	}
}

func TestOpen_BacksUpBeforeMigrating(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lumo.db")

	s, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(BackupPath(path)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("a fresh database should not be backed up, stat = %v", err)
	}

	// Simulate a database from before the schema existed: a table of its
	// own and no migration history, so the migration is pending again.
	for _, q := range []string{
		"CREATE TABLE Legacy (v TEXT)",
		"INSERT INTO Legacy (v) VALUES ('keep me')",
		"DROP TABLE " + versionTable,
	} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	info, err := os.Stat(BackupPath(path))
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("backup is empty")
	}
}

func TestOpen_PathWithURIMetacharacters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, dir := range []string{"my#data", "100%20done", "with space"} {
		t.Run(dir, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			path := filepath.Join(root, dir, "lumo.db")

			s, err := Open(ctx, path, nil)
			if err != nil {
				t.Fatalf("Open(%q) error: %v", path, err)
			}
			if _, err := s.Create(ctx, CreateInput{Name: "here"}); err != nil {
				t.Fatal(err)
			}
			if err := s.Close(); err != nil {
				t.Fatal(err)
			}

			if _, err := os.Stat(path); err != nil {
				t.Fatalf("database not created at %q: %v", path, err)
			}
			entries, err := os.ReadDir(root)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 || entries[0].Name() != dir {
				names := make([]string, 0, len(entries))
				for _, e := range entries {
					names = append(names, e.Name())
				}
				t.Errorf("entries in %q = %v, want only %q", root, names, dir)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	t.Parallel()

	got := dsn("/tmp/a#b/100%/x y/lumo.db")
	want := "file:///tmp/a%23b/100%25/x%20y/lumo.db?" + pragmas
	if got != want {
		t.Errorf("dsn() = %q, want %q", got, want)
	}
}
