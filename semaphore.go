//go:build linux || darwin

package posixipc

import (
	"errors"

	"golang.org/x/sys/unix"
)

// NamedSemaphore is an exclusively owned handle over a kernel-managed
// counting semaphore identified by a name. Any number of processes may
// hold their own handles to the same name and operate on the same count;
// each handle belongs to exactly one owner and must be closed exactly
// once by that owner.
//
// Post, Wait, TryWait, and GetValue are safe to call from multiple
// goroutines on the same handle; the kernel serializes the count
// updates. Close must not run concurrently with any other operation on
// the handle.
//
// Closing a handle only detaches this process from the semaphore. The
// named object persists in the kernel namespace until removed with
// UnlinkSemaphore.
type NamedSemaphore struct {
	// s is the platform handle; nil once the handle has been closed.
	s *sema

	// name is the name the handle was obtained with.
	name string
}

// CreateSemaphore creates a named semaphore with the given permission
// mode and initial value, returning a live handle to it. Unless exclusive
// is set, a semaphore that already exists under the name is attached to
// instead, and mode and value are ignored by the system. With exclusive
// set, an existing name fails with EEXIST.
//
// Names should begin with a slash, e.g. "/my_sem"; OS-specific naming
// restrictions are reported as a *SysError at call time. A name with an
// embedded NUL byte fails with *NameError before any system call.
func CreateSemaphore(name string, mode Mode, value uint, exclusive bool) (*NamedSemaphore, error) {
	s, err := semCreate(name, openFlags(true, exclusive), mode, value)
	if err != nil {
		return nil, err
	}
	return &NamedSemaphore{s: s, name: name}, nil
}

// OpenSemaphore attaches to an existing named semaphore. It never
// creates: a name that does not exist fails with ENOENT, and no
// permission mode or initial value is sent with the request.
func OpenSemaphore(name string) (*NamedSemaphore, error) {
	s, err := semOpen(name)
	if err != nil {
		return nil, err
	}
	return &NamedSemaphore{s: s, name: name}, nil
}

// OpenOrCreateSemaphore attaches to the named semaphore if it exists,
// and otherwise creates it with the given mode and initial value. The
// open is attempted first so that attaching never disturbs an existing
// semaphore's mode or count; creation is the fallback, taken only when
// the open failed with ENOENT. Any other open failure is returned as is.
//
// The two steps race with other processes: the fallback create can still
// fail with EEXIST if another process creates the name in between.
func OpenOrCreateSemaphore(name string, mode Mode, value uint, exclusive bool) (*NamedSemaphore, error) {
	sem, err := OpenSemaphore(name)
	if err == nil {
		return sem, nil
	}
	if !errors.Is(err, unix.ENOENT) {
		return nil, err
	}
	return CreateSemaphore(name, mode, value, exclusive)
}

// UnlinkSemaphore removes a semaphore name from the system namespace.
// Handles already attached to the semaphore remain usable; the object is
// destroyed once the last of them is closed. Unlinking is deliberately
// separate from Close, mirroring the underlying facility.
func UnlinkSemaphore(name string) error {
	return semUnlink(name)
}

// Name returns the name the handle was obtained with.
func (ns *NamedSemaphore) Name() string {
	return ns.name
}

// Post atomically increments the semaphore's count, potentially
// unblocking one waiter. No upper bound is enforced at this layer;
// exceeding the system's maximum is reported as a *SysError (EOVERFLOW),
// never silently clamped.
func (ns *NamedSemaphore) Post() error {
	if ns.s == nil {
		return ErrClosed
	}
	return ns.s.post()
}

// Wait blocks until the semaphore's count is greater than zero, then
// atomically decrements it. This is the one blocking operation on the
// handle; interruption by a signal is reported as a *SysError carrying
// EINTR.
func (ns *NamedSemaphore) Wait() error {
	if ns.s == nil {
		return ErrClosed
	}
	return ns.s.wait()
}

// TryWait attempts the decrement without blocking. It reports whether
// the decrement happened; a zero count yields (false, nil) rather than
// an error.
func (ns *NamedSemaphore) TryWait() (bool, error) {
	if ns.s == nil {
		return false, ErrClosed
	}
	return ns.s.tryWait()
}

// GetValue reads the semaphore's current count without modifying it.
// The value is passed through from the system unmodified: some systems
// report a negative count encoding the number of blocked waiters, and
// this layer does not normalize that.
func (ns *NamedSemaphore) GetValue() (int, error) {
	if ns.s == nil {
		return 0, ErrClosed
	}
	return ns.s.getValue()
}

// Close detaches the handle from the semaphore. The underlying
// sem_close result is intentionally discarded: a failure to release has
// no actionable recovery and must not unwind through cleanup paths.
// Close is a no-op on an already-closed handle.
func (ns *NamedSemaphore) Close() {
	if ns.s == nil {
		return
	}
	ns.s.close()
	ns.s = nil
}
