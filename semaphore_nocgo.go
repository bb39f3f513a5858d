//go:build (linux || darwin) && !cgo

package posixipc

import "errors"

// ErrSemaphoresNotAvailable is returned when named-semaphore operations
// are attempted but CGO is disabled. POSIX named semaphores require CGO
// on Unix platforms; there is no emulated fallback.
var ErrSemaphoresNotAvailable = errors.New("posixipc: named semaphores require CGO; rebuild with CGO_ENABLED=1")

// sema is a stub for when CGO is disabled. Constructors fail, so no
// method on it is ever reached through a live handle.
type sema struct {
	name string
}

func semCreate(name string, oflag int, mode Mode, value uint) (*sema, error) {
	return nil, ErrSemaphoresNotAvailable
}

func semOpen(name string) (*sema, error) {
	return nil, ErrSemaphoresNotAvailable
}

func semUnlink(name string) error {
	return ErrSemaphoresNotAvailable
}

func (s *sema) post() error {
	return ErrSemaphoresNotAvailable
}

func (s *sema) wait() error {
	return ErrSemaphoresNotAvailable
}

func (s *sema) tryWait() (bool, error) {
	return false, ErrSemaphoresNotAvailable
}

func (s *sema) getValue() (int, error) {
	return 0, ErrSemaphoresNotAvailable
}

func (s *sema) close() {}
