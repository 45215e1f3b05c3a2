package storage

import (
	"context"
	"strings"
	"testing"
)

func TestNewPicksStore(t *testing.T) {
	dir := t.TempDir()
	store, err := New(context.Background(), map[string]string{"IMAGE_STORE": "local", "UPLOAD_DIR": dir})
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	local, ok := store.(*LocalStore)
	if !ok || local.Dir() != dir {
		t.Fatalf("expected a local store in %s, got %#v", dir, store)
	}

	if _, err := New(context.Background(), map[string]string{"IMAGE_STORE": "s3"}); err == nil {
		t.Fatalf("s3 without a bucket must fail")
	}
	if _, err := New(context.Background(), map[string]string{"IMAGE_STORE": "ftp"}); err == nil {
		t.Fatalf("unknown store must fail")
	}
}

func TestObjectName(t *testing.T) {
	name := objectName("My Cover.JPEG")
	if !strings.HasSuffix(name, ".jpeg") || strings.Contains(name, " ") {
		t.Fatalf("unexpected object name %q", name)
	}
	if objectName("a.png") == objectName("a.png") {
		t.Fatalf("object names must be unique")
	}
}
