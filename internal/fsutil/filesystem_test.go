package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	fsys := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "nested", "dir")

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	path := filepath.Join(dir, "camera.json")
	w, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte(`{"focal_length_mm": 15}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 23 {
		t.Errorf("expected size 23, got %d", info.Size())
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"focal_length_mm": 15}` {
		t.Errorf("unexpected content %q", data)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("hello, world")
	if err := mfs.WriteFile("/test.txt", testData, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("/test.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}

	// Returned slice must not alias the stored one.
	data[0] = 'H'
	again, _ := mfs.ReadFile("/test.txt")
	if string(again) != "hello, world" {
		t.Errorf("stored data was mutated: %q", again)
	}
}

func TestMemoryFileSystem_CreateAndStat(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/plots/../out.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := mfs.Stat("/out.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("file should not exist before Close, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := mfs.Stat("/out.png")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 3 || info.Name() != "out.png" || info.IsDir() {
		t.Errorf("unexpected file info: name=%s size=%d dir=%v", info.Name(), info.Size(), info.IsDir())
	}
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.ReadFile("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if _, err := mfs.Stat("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if err := mfs.MkdirAll("/a/b", 0755); err != nil {
		t.Errorf("MkdirAll failed: %v", err)
	}
}
