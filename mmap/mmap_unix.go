//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// pageSize is the system memory page size, cached at init time. Map
// offsets are aligned down to it before the mmap syscall.
var pageSize = int64(os.Getpagesize())

// New maps [offset, offset+length) of the file behind fd. The offset
// may be anywhere in the file; internally the mapping starts at the
// preceding page boundary and Data exposes the requested window.
//
// The window may extend past the current end of the file; reads beyond
// the last file-backed page then fault, matching the underlying mmap
// behaviour.
func New(fd int, offset int64, length int, writable bool) (*Map, error) {
	if length <= 0 {
		return nil, ErrInvalidSize
	}
	if offset < 0 {
		return nil, ErrInvalidOffset
	}

	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}

	// mmap requires a page-aligned file offset. Map from the page
	// containing offset and keep the delta to slice out the window.
	alignedOff := offset &^ (pageSize - 1)
	delta := int(offset - alignedOff)

	base, err := unix.Mmap(fd, alignedOff, delta+length, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, &Error{Op: "mmap", Err: err}
	}

	return &Map{
		data:     base[delta : delta+length],
		base:     base,
		offset:   offset,
		size:     int64(length),
		writable: writable,
	}, nil
}

// MapFile opens a file, maps its full content and closes the descriptor
// again before returning; the mapping does not need it.
func MapFile(path string, writable bool) (*Map, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return nil, ErrEmptyFile
	}

	return New(int(f.Fd()), 0, int(size), writable)
}

// Sync flushes changes to disk synchronously.
func (m *Map) Sync() error {
	if m.base == nil {
		return ErrNotMapped
	}
	return unix.Msync(m.base, unix.MS_SYNC)
}

// SyncAsync schedules a flush to disk without waiting for it.
func (m *Map) SyncAsync() error {
	if m.base == nil {
		return ErrNotMapped
	}
	return unix.Msync(m.base, unix.MS_ASYNC)
}

// Close releases the mapping. Accessing Data after Close is a fault.
// Double close is a no-op.
func (m *Map) Close() error {
	if m.base == nil {
		return nil
	}

	err := unix.Munmap(m.base)
	m.base = nil
	m.data = nil
	m.size = 0
	return err
}

// Advise provides hints to the kernel about memory usage patterns.
func (m *Map) Advise(advice int) error {
	if m.base == nil {
		return ErrNotMapped
	}
	return unix.Madvise(m.base, advice)
}

// AdviseSequential hints that pages will be accessed sequentially.
func (m *Map) AdviseSequential() error {
	return m.Advise(unix.MADV_SEQUENTIAL)
}

// AdviseRandom hints that pages will be accessed randomly.
func (m *Map) AdviseRandom() error {
	return m.Advise(unix.MADV_RANDOM)
}

// AdviseWillNeed hints that pages will be needed soon.
func (m *Map) AdviseWillNeed() error {
	return m.Advise(unix.MADV_WILLNEED)
}

// AdviseDontNeed hints that pages won't be needed soon.
func (m *Map) AdviseDontNeed() error {
	return m.Advise(unix.MADV_DONTNEED)
}
