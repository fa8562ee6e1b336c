//go:build unix

package filebase

import (
	"io"
	"os"
)

// AccessMode selects how the file is opened.
type AccessMode int

const (
	// ReadOnly opens the file for reading only.
	ReadOnly AccessMode = iota

	// WriteOnly opens the file for writing, creating it if absent.
	WriteOnly

	// ReadWrite opens the file for reading and writing, creating it if
	// absent.
	ReadWrite
)

// Flag is a bitset of open modifiers.
type Flag uint

const (
	// Binary marks the file as binary. A no-op on POSIX systems,
	// preserved for portability to platforms that distinguish text and
	// binary streams.
	Binary Flag = 1 << iota

	// Truncate truncates the file to zero length on open. Ignored when
	// the access mode is ReadOnly.
	Truncate
)

// createPerm is the permission used when open creates the file.
const createPerm = 0644

// File owns a single OS file descriptor together with its advisory lock
// state. The descriptor is exclusively owned: no other component may
// close or reassign it. A File is not safe for concurrent use by
// multiple goroutines.
type File struct {
	name    string
	mode    AccessMode
	flags   Flag
	osFlags int // the exact flags passed to open, reused by reopen
	file    *os.File

	// Identity of the inode the descriptor was opened from, used by the
	// integrity check to detect the path being replaced underneath us.
	dev uint64
	ino uint64

	lastErr  *Error
	lockHeld bool
}

// New builds a File for name without touching the filesystem. Call Open
// to acquire the descriptor.
func New(name string, mode AccessMode, flags Flag) *File {
	f := &File{
		name:  name,
		mode:  mode,
		flags: flags,
	}
	switch mode {
	case ReadOnly:
		f.osFlags = os.O_RDONLY
	case WriteOnly:
		f.osFlags = os.O_WRONLY | os.O_CREATE
	default:
		f.osFlags = os.O_RDWR | os.O_CREATE
	}
	if flags&Truncate != 0 && mode != ReadOnly {
		f.osFlags |= os.O_TRUNC
	}
	return f
}

// OpenFile builds a File and opens it. On failure the handle is still
// returned alongside the error so the caller can inspect Err instead of
// dealing with a nil receiver.
func OpenFile(name string, mode AccessMode, flags Flag) (*File, error) {
	f := New(name, mode, flags)
	err := f.Open()
	return f, err
}

// Open acquires the descriptor for the configured path. Calling Open on
// an already-open File is a no-op.
func (f *File) Open() error {
	f.clearErr()
	if f.file != nil {
		return nil
	}
	if err := f.open(); err != nil {
		return f.setErr(ErrOpenFailed, "open "+f.name, err)
	}
	return nil
}

// open performs the raw open and captures the inode identity. It leaves
// the sticky error untouched; callers classify failures.
func (f *File) open() error {
	file, err := os.OpenFile(f.name, f.osFlags, createPerm)
	if err != nil {
		return err
	}
	f.file = file
	if err := f.captureIdentity(); err != nil {
		file.Close()
		f.file = nil
		return err
	}
	return nil
}

// reopen closes the stale descriptor and opens the path again with the
// original flags. Callers validate the precondition; any lock tied to
// the old descriptor is gone once it closes.
func (f *File) reopen() error {
	f.lockHeld = false
	if f.file != nil {
		f.file.Close()
		f.file = nil
	}
	return f.open()
}

// Close releases the descriptor. It is idempotent: closing an
// already-closed File is a no-op. Close does not release an outstanding
// advisory lock explicitly; the OS drops a flock when its descriptor
// closes, so prefer Release (or Unlock before Close) to avoid a
// surprise lock drop.
func (f *File) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	// The OS drops a flock with its descriptor; the handle must not
	// keep reporting a lock that no longer exists.
	f.lockHeld = false
	if err != nil {
		return f.setErr(ErrIOFailed, "close "+f.name, err)
	}
	return nil
}

// Release is the recommended teardown: it unlocks if a lock is held,
// then closes the descriptor. Both steps are best effort; Release never
// panics and failures are only recorded in the sticky error.
func (f *File) Release() {
	if f.lockHeld {
		f.Unlock()
	}
	f.Close()
}

// Seek repositions the stream cursor to the absolute offset and returns
// the new offset. On failure the cursor position is whatever the
// underlying syscall left it at; no transactional guarantee is made.
func (f *File) Seek(offset int64) (int64, error) {
	f.clearErr()
	if f.file == nil {
		return 0, f.setErr(ErrIOFailed, "seek on closed file", nil)
	}
	pos, err := f.file.Seek(offset, io.SeekStart)
	if err != nil {
		return 0, f.setErr(ErrIOFailed, "seek "+f.name, err)
	}
	return pos, nil
}

// Tell reports the current stream offset without side effects.
func (f *File) Tell() (int64, error) {
	f.clearErr()
	if f.file == nil {
		return 0, f.setErr(ErrIOFailed, "tell on closed file", nil)
	}
	pos, err := f.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, f.setErr(ErrIOFailed, "tell "+f.name, err)
	}
	return pos, nil
}

// Size returns the current file size in bytes via a metadata query. The
// value is undefined when an error is returned.
func (f *File) Size() (int64, error) {
	f.clearErr()
	if f.file == nil {
		return 0, f.setErr(ErrIOFailed, "size on closed file", nil)
	}
	fi, err := f.file.Stat()
	if err != nil {
		return 0, f.setErr(ErrIOFailed, "stat "+f.name, err)
	}
	return fi.Size(), nil
}

// Read reads from the current cursor position. io.EOF is passed through
// untouched and does not set the sticky error.
func (f *File) Read(p []byte) (int, error) {
	f.clearErr()
	if f.file == nil {
		return 0, f.setErr(ErrIOFailed, "read on closed file", nil)
	}
	n, err := f.file.Read(p)
	if err != nil && err != io.EOF {
		return n, f.setErr(ErrIOFailed, "read "+f.name, err)
	}
	return n, err
}

// Write writes at the current cursor position.
func (f *File) Write(p []byte) (int, error) {
	f.clearErr()
	if f.file == nil {
		return 0, f.setErr(ErrIOFailed, "write on closed file", nil)
	}
	n, err := f.file.Write(p)
	if err != nil {
		return n, f.setErr(ErrIOFailed, "write "+f.name, err)
	}
	return n, nil
}

// Name returns the path this File was opened from.
func (f *File) Name() string {
	return f.name
}

// Fd returns the raw descriptor, or -1 when the File is closed.
func (f *File) Fd() int {
	if f.file == nil {
		return -1
	}
	return int(f.file.Fd())
}

// Locked reports whether this File currently holds an advisory lock it
// is responsible for releasing.
func (f *File) Locked() bool {
	return f.lockHeld
}

// HasError reports whether the last operation failed.
func (f *File) HasError() bool {
	return f.lastErr != nil
}

// Err returns the sticky error of the last operation, or nil on
// success. It is a convenience accessor for the immediately preceding
// call; prefer the error returned by each operation.
func (f *File) Err() *Error {
	return f.lastErr
}

// ErrorCode returns the classification of the last operation's failure,
// or Success.
func (f *File) ErrorCode() ErrorCode {
	if f.lastErr == nil {
		return Success
	}
	return f.lastErr.Code
}

// ErrorMessage returns a human-readable message for the last
// operation's failure, or "success".
func (f *File) ErrorMessage() string {
	if f.lastErr == nil {
		return "success"
	}
	return f.lastErr.Error()
}
