package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docstore-backend/internal/shared/storage/object"
)

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func mkdir(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
}

func TestSaveOpenDelete(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	name, size, err := store.Save(ctx, "report.pdf", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if name != "report.pdf" {
		t.Fatalf("expected stored name report.pdf, got %s", name)
	}
	if size != 5 {
		t.Fatalf("expected size 5, got %d", size)
	}

	rc, err := store.Open(ctx, name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rc.Close()

	if err := store.Delete(ctx, name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, name); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSaveCollisionRenames(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	first, _, err := store.Save(ctx, "report.pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, _, err := store.Save(ctx, "report.pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first == second {
		t.Fatalf("expected collision rename, both stored as %s", first)
	}
	if !strings.HasPrefix(second, "report-") || !strings.HasSuffix(second, ".pdf") {
		t.Fatalf("expected report-<ts>.pdf, got %s", second)
	}
}

func TestListSkipsHiddenAndDirs(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, _, err := store.Save(ctx, "visible.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	writeRaw(t, dir, ".hidden", "x")
	mkdir(t, dir, "subdir")

	files, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 || files[0].Name != "visible.txt" {
		t.Fatalf("expected only visible.txt, got %+v", files)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, name := range []string{"../escape", "/abs", "a/b", "."} {
		if _, err := store.Path(name); err == nil {
			t.Fatalf("expected error for %q", name)
		}
	}
}
