//go:build linux || darwin

package posixipc

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned when an operation is attempted through a handle
// that has already been closed.
var ErrClosed = errors.New("posixipc: handle is closed")

// NameError reports a name that cannot be represented as a C string.
// It is detected before any system call is made, so a failed construction
// with a NameError leaves no resource behind.
type NameError struct {
	// Name is the rejected name.
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("posixipc: invalid name %q: embedded NUL byte", e.Name)
}

// SysError reports a failed system call on a named IPC object. The
// operating system's error code is preserved verbatim in Errno so that
// callers can branch on the cause:
//
//	if errors.Is(err, unix.EEXIST) {
//	    // exclusive creation lost the race
//	}
type SysError struct {
	// Op is the call that failed, e.g. "sem_open".
	Op string

	// Name is the object name the call was made with.
	Name string

	// Errno is the error code reported by the operating system.
	Errno syscall.Errno
}

func (e *SysError) Error() string {
	return fmt.Sprintf("posixipc: %s %s: %v", e.Op, e.Name, e.Errno)
}

// Unwrap exposes the errno so that errors.Is matches against the
// golang.org/x/sys/unix error constants.
func (e *SysError) Unwrap() error {
	return e.Errno
}

// checkName validates a caller-supplied object name before it crosses
// the system-call boundary. Only the NUL check lives here; OS-specific
// naming restrictions surface as SysErrors at call time.
func checkName(name string) error {
	if strings.IndexByte(name, 0) >= 0 {
		return &NameError{Name: name}
	}
	return nil
}

// sysError builds a *SysError from the error value of a failed system or
// C library call. A cause that carries no errno maps to EINVAL so that a
// reported failure never yields a nil error.
func sysError(op, name string, cause error) error {
	var errno syscall.Errno
	if !errors.As(cause, &errno) {
		errno = unix.EINVAL
	}
	return &SysError{Op: op, Name: name, Errno: errno}
}
