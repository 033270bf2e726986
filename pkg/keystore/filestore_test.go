package keystore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")

	if _, err := OpenFileStore(path)(0); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("open of missing store error = %v, want ErrNotExist", err)
	}

	store, err := OpenFileStore(path)(os.O_CREATE)
	if err != nil {
		t.Fatalf("OpenFileStore returned error: %v", err)
	}
	if _, err := store.Get(SecureKeyVar); !errors.Is(err, ErrNotSet) {
		t.Fatalf("Get of unset variable error = %v, want ErrNotSet", err)
	}
	if err := store.Set(SecureKeyVar, "blob"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := OpenFileStore(path)(0)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	if v, err := reopened.Get(SecureKeyVar); err != nil || v != "blob" {
		t.Fatalf("Get = %q, %v; want blob", v, err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("store directory holds %d files, want 1", len(entries))
	}
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := OpenFileStore(path)(0); err == nil {
		t.Fatalf("open of malformed store succeeded")
	}
}
