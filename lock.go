//go:build unix

package filebase

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// LockMode selects shared (read) or exclusive (write) locking.
type LockMode int

const (
	// ReadLock is shared: any number of handles may hold it at once.
	ReadLock LockMode = iota

	// WriteLock is exclusive: no concurrent ReadLock or WriteLock
	// holder is allowed.
	WriteLock
)

// Default configuration for Lock.
const (
	// DefaultMaxRetry is the number of additional nonblocking attempts
	// after the first one fails with a would-block.
	DefaultMaxRetry = 4

	// DefaultRetryInterval is the sleep between nonblocking attempts.
	DefaultRetryInterval = 200 * time.Millisecond
)

// Lock acquires a whole-file advisory lock (flock) on the descriptor in
// the given mode.
//
// When nonblocking is true each attempt returns immediately; on a
// would-block failure Lock sleeps retryInterval and tries again, up to
// maxRetry additional attempts (at most maxRetry+1 in total). When all
// attempts fail the error code is ErrLockFailed and the lock is not
// held. When nonblocking is false the call blocks on the OS primitive
// until the lock is obtainable.
//
// Before taking a fresh lock, Lock verifies that the path still names
// the inode behind the descriptor; a lock on a stale inode would not
// exclude anyone touching the current file at Name, so the descriptor
// is reopened first.
//
// Only genuine files may be locked. Callers guarantee that the path is
// not a pipe or socket; it is not re-validated here.
func (f *File) Lock(mode LockMode, nonblocking bool, maxRetry int, retryInterval time.Duration) error {
	f.clearErr()
	if f.file == nil {
		return f.setErr(ErrLockFailed, "lock on closed file", nil)
	}
	if !f.checkIntegrity() {
		if err := f.reopen(); err != nil {
			return f.setErr(ErrIntegrityMismatch, "reopen "+f.name+" after stale descriptor", err)
		}
	}

	op := unix.LOCK_SH
	if mode == WriteLock {
		op = unix.LOCK_EX
	}

	if !nonblocking {
		if err := flockRetryEINTR(f.Fd(), op); err != nil {
			return f.setErr(ErrLockFailed, "flock "+f.name, err)
		}
		f.lockHeld = true
		return nil
	}

	op |= unix.LOCK_NB
	reopened := false
	var lastErr error
	for attempt := 0; attempt <= maxRetry; attempt++ {
		err := flockRetryEINTR(f.Fd(), op)
		if err == nil {
			f.lockHeld = true
			return nil
		}
		lastErr = err

		if err == unix.EWOULDBLOCK || err == unix.EAGAIN {
			// Held by someone else; wait out the interval unless this
			// was the final attempt.
			if attempt == maxRetry {
				break
			}
			time.Sleep(retryInterval)
			continue
		}

		// Unexpected flock failure. The path may have been replaced
		// underneath us; reopen once and retry against the fresh
		// descriptor.
		if !reopened && !f.checkIntegrity() {
			if rerr := f.reopen(); rerr != nil {
				return f.setErr(ErrIntegrityMismatch, "reopen "+f.name+" after stale descriptor", rerr)
			}
			reopened = true
			continue
		}
		return f.setErr(ErrLockFailed, "flock "+f.name, err)
	}
	msg := fmt.Sprintf("lock %s not acquired after %d attempts", f.name, maxRetry+1)
	return f.setErr(ErrLockFailed, msg, lastErr)
}

// LockDefault acquires a nonblocking lock with the default retry
// configuration.
func (f *File) LockDefault(mode LockMode) error {
	return f.Lock(mode, true, DefaultMaxRetry, DefaultRetryInterval)
}

// Unlock releases the advisory lock if held. It is idempotent and best
// effort: a release failure is recorded in the sticky error but the
// lock is considered dropped either way.
func (f *File) Unlock() error {
	if !f.lockHeld || f.file == nil {
		// Idempotent no-op; deliberately leaves the sticky error of the
		// preceding operation readable.
		return nil
	}
	f.clearErr()
	f.lockHeld = false
	if err := flockRetryEINTR(f.Fd(), unix.LOCK_UN); err != nil {
		return f.setErr(ErrLockFailed, "flock unlock "+f.name, err)
	}
	return nil
}

// flockRetryEINTR issues flock, restarting if a signal interrupts the
// syscall.
func flockRetryEINTR(fd int, op int) error {
	for {
		err := unix.Flock(fd, op)
		if err != unix.EINTR {
			return err
		}
	}
}
