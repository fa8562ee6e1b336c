package filebase

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCreateMapRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.dat")
	content := []byte("the quick brown fox jumps over the lazy dog")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(path, ReadOnly, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Release()

	size, err := f.Size()
	if err != nil {
		t.Fatal(err)
	}

	m, err := f.CreateMap(0, int(size), true)
	if err != nil {
		t.Fatalf("CreateMap failed: %v", err)
	}
	defer m.Close()

	if diff := cmp.Diff(content, m.Data()); diff != "" {
		t.Errorf("mapped bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestWritableMapOnReadOnlyHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.dat")
	content := []byte("must stay intact")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(path, ReadOnly, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Release()

	m, err := f.CreateMap(0, len(content), false)
	if err == nil {
		m.Close()
		t.Fatal("writable map on read-only handle should fail")
	}
	if m != nil {
		t.Error("no map should be returned on failure")
	}
	if f.ErrorCode() != ErrMapFailed {
		t.Errorf("error code: got %v, want %v", f.ErrorCode(), ErrMapFailed)
	}

	// No side effects on the file.
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Error("file content changed by failed map request")
	}
}

func TestCreateMapInvalidRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "range.dat")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(path, ReadOnly, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Release()

	if _, err := f.CreateMap(-1, 4, true); err == nil {
		t.Error("negative offset should fail")
	}
	if f.ErrorCode() != ErrMapFailed {
		t.Errorf("error code: got %v, want %v", f.ErrorCode(), ErrMapFailed)
	}
	if _, err := f.CreateMap(0, 0, true); err == nil {
		t.Error("zero length should fail")
	}
	if _, err := f.CreateMap(0, -3, true); err == nil {
		t.Error("negative length should fail")
	}
}

func TestMapSurvivesHandleClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survive.dat")
	content := []byte("mapping outlives the descriptor")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(path, ReadOnly, 0)
	if err != nil {
		t.Fatal(err)
	}

	m, err := f.CreateMap(0, len(content), true)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	// POSIX: the mapping stays valid after the descriptor closes.
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(content, m.Data()); diff != "" {
		t.Errorf("mapped bytes after handle close (-want +got):\n%s", diff)
	}
}

func TestMapOnClosedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.dat")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(path, ReadOnly, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := f.CreateMap(0, 4, true); err == nil {
		t.Fatal("map on closed file should fail")
	}
	if f.ErrorCode() != ErrMapFailed {
		t.Errorf("error code: got %v, want %v", f.ErrorCode(), ErrMapFailed)
	}
}

// The write-then-map scenario: create with Write|Truncate, write ten
// bytes, close; reopen ReadOnly; size and mapped bytes must match.
func TestWriteThenMapScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	payload := []byte("0123456789")

	w, err := OpenFile(path, WriteOnly, Truncate)
	if err != nil {
		t.Fatalf("open for write: %v", err)
	}
	if n, err := w.Write(payload); err != nil || n != len(payload) {
		t.Fatalf("write: n=%d err=%v", n, err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenFile(path, ReadOnly, 0)
	if err != nil {
		t.Fatalf("reopen read-only: %v", err)
	}
	defer r.Release()

	size, err := r.Size()
	if err != nil {
		t.Fatal(err)
	}
	if size != 10 {
		t.Fatalf("size: got %d, want 10", size)
	}

	m, err := r.CreateMap(0, 10, true)
	if err != nil {
		t.Fatalf("CreateMap: %v", err)
	}
	defer m.Close()

	if diff := cmp.Diff(payload, m.Data()); diff != "" {
		t.Errorf("mapped bytes mismatch (-want +got):\n%s", diff)
	}
}
