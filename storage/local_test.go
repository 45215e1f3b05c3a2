package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreSaveKeepsExtension(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ref, err := store.Save(context.Background(), "Cover.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Fatalf("expected .png reference, got %q", ref)
	}
	b, err := os.ReadFile(filepath.Join(dir, ref))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(b) != "png-bytes" {
		t.Fatalf("unexpected content %q", b)
	}

	other, err := store.Save(context.Background(), "Cover.PNG", strings.NewReader("again"))
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if other == ref {
		t.Fatalf("expected unique names, both were %q", ref)
	}
}

func TestLocalStoreRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ref, err := store.Save(context.Background(), "a.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(context.Background(), ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), ref)); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err=%v", err)
	}
	// removing twice is not an error
	if err := store.Remove(context.Background(), ref); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}
