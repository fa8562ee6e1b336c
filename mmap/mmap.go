// Package mmap provides independently owned memory-mapped views of file
// regions.
//
// A Map is decoupled from whatever descriptor produced it: per POSIX
// semantics the mapping stays valid after that descriptor is closed.
// The owner of a Map is solely responsible for releasing it with Close.
package mmap

// Map represents a memory-mapped region of a file. Unlike a raw mmap,
// the requested offset need not be page aligned: the mapping is
// established from the preceding page boundary and Data exposes exactly
// the requested window.
type Map struct {
	data     []byte // caller-visible window [offset, offset+length)
	base     []byte // page-aligned full mapping, what munmap releases
	offset   int64  // requested file offset of data[0]
	size     int64  // length of the window
	writable bool   // true if mapped with write permission
}

// Data returns the mapped byte window. It must not be accessed after
// Close.
func (m *Map) Data() []byte {
	return m.data
}

// Size returns the length of the window in bytes.
func (m *Map) Size() int64 {
	return m.size
}

// Offset returns the file offset of the first byte of Data.
func (m *Map) Offset() int64 {
	return m.offset
}

// Writable returns true if the mapping is writable.
func (m *Map) Writable() bool {
	return m.writable
}

// Error represents an mmap error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrInvalidSize   = &Error{Op: "invalid size"}
	ErrInvalidOffset = &Error{Op: "invalid offset"}
	ErrNotMapped     = &Error{Op: "not mapped"}
	ErrEmptyFile     = &Error{Op: "empty file"}
)
