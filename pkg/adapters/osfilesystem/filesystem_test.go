package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_MkdirAllAndExists(t *testing.T) {
	fs := New()
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := fs.MkdirAll(dir); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	exists, err := fs.Exists(dir)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("directory should exist after MkdirAll")
	}

	if err := fs.MkdirAll(""); err != nil {
		t.Errorf("MkdirAll(\"\") = %v, want nil", err)
	}
}

func TestFileSystem_Size(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.avi")
	if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}

	size, err := fs.Size(path)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 10 {
		t.Errorf("expected 10, got %d", size)
	}

	if _, err := fs.Size(dir); err == nil {
		t.Error("Size of a directory should fail")
	}
	if _, err := fs.Size(filepath.Join(dir, "missing")); err == nil {
		t.Error("Size of a missing file should fail")
	}
}

func TestFileSystem_ReadDir(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "c.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	paths, err := fs.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	want := []string{"a.png", "b.png", "c.jpg"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), paths)
	}
	for i, name := range want {
		if paths[i] != filepath.Join(dir, name) {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], name)
		}
	}
}

func TestFileSystem_RemoveAndReadFile(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "partial.mp4")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", data)
	}

	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	exists, _ := fs.Exists(path)
	if exists {
		t.Error("file should not exist after Remove")
	}
}
