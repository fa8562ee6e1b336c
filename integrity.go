//go:build unix

package filebase

import "golang.org/x/sys/unix"

// captureIdentity records the device and inode the descriptor refers
// to. Called right after every successful open.
func (f *File) captureIdentity() error {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.file.Fd()), &st); err != nil {
		return err
	}
	f.dev = uint64(st.Dev)
	f.ino = uint64(st.Ino)
	return nil
}

// checkIntegrity reports whether the path still names the inode this
// descriptor was opened from. Another process may have removed and
// recreated the path since open; in that case the descriptor is stale
// and operations against it no longer touch the file at name.
//
// Best effort only: a TOCTOU window remains between this check and any
// subsequent use of the descriptor.
func (f *File) checkIntegrity() bool {
	var st unix.Stat_t
	if err := unix.Stat(f.name, &st); err != nil {
		// Path gone or unreadable; the descriptor cannot match it.
		return false
	}
	return uint64(st.Dev) == f.dev && uint64(st.Ino) == f.ino
}

// Stale reports whether the on-disk identity at Name no longer matches
// the open descriptor. A closed File is never stale.
func (f *File) Stale() bool {
	return f.file != nil && !f.checkIntegrity()
}
