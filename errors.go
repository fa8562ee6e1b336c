//go:build unix

package filebase

import "fmt"

// Error represents a filebase error with an error code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // wrapped error (usually the underlying errno)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("filebase: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("filebase: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode classifies the failure of the last operation on a File.
type ErrorCode int

const (
	// Success indicates the operation completed successfully
	Success ErrorCode = 0

	// ErrOpenFailed indicates the file could not be opened or reopened
	ErrOpenFailed ErrorCode = -1

	// ErrLockFailed indicates the advisory lock could not be acquired
	// (retries exhausted) or released
	ErrLockFailed ErrorCode = -2

	// ErrIntegrityMismatch indicates the path no longer names the file
	// the descriptor was opened from and reopening also failed
	ErrIntegrityMismatch ErrorCode = -3

	// ErrMapFailed indicates an invalid mapping range or an OS mapping
	// failure
	ErrMapFailed ErrorCode = -4

	// ErrIOFailed indicates a seek, tell, size, read or write failure
	ErrIOFailed ErrorCode = -5
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case Success:
		return "success"
	case ErrOpenFailed:
		return "open failed"
	case ErrLockFailed:
		return "lock failed"
	case ErrIntegrityMismatch:
		return "integrity mismatch"
	case ErrMapFailed:
		return "map failed"
	case ErrIOFailed:
		return "I/O failed"
	default:
		return fmt.Sprintf("unknown error code %d", int(c))
	}
}

// setErr records err as the sticky last error and returns it.
func (f *File) setErr(code ErrorCode, msg string, err error) error {
	e := &Error{Code: code, Message: msg, Err: err}
	f.lastErr = e
	return e
}

// clearErr resets the sticky error at the start of an operation so that
// a successful call overwrites the previous failure.
func (f *File) clearErr() {
	f.lastErr = nil
}
