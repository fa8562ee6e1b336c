//go:build unix

package filebase

import (
	"fmt"

	"github.com/Giulio2002/filebase/mmap"
)

// CreateMap maps [offset, offset+length) of the file into memory and
// returns the view. The offset need not be page aligned.
//
// The returned map is wholly owned by the caller: the File keeps no
// reference to it, and the mapping stays valid after the File is closed
// (POSIX mmap semantics). The caller must Close the map when done;
// forgetting to leaks address space, never corrupts the file.
//
// Requesting a writable map (readOnly=false) on a File opened ReadOnly
// fails with ErrMapFailed rather than silently degrading.
func (f *File) CreateMap(offset int64, length int, readOnly bool) (*mmap.Map, error) {
	f.clearErr()
	if f.file == nil {
		return nil, f.setErr(ErrMapFailed, "map on closed file", nil)
	}
	if offset < 0 || length <= 0 {
		msg := fmt.Sprintf("invalid map range [%d, %d+%d)", offset, offset, length)
		return nil, f.setErr(ErrMapFailed, msg, nil)
	}
	if !readOnly && f.mode == ReadOnly {
		return nil, f.setErr(ErrMapFailed, "writable map on read-only file "+f.name, nil)
	}
	m, err := mmap.New(f.Fd(), offset, length, !readOnly)
	if err != nil {
		return nil, f.setErr(ErrMapFailed, "mmap "+f.name, err)
	}
	return m, nil
}
