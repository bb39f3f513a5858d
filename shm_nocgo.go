//go:build (linux || darwin) && !cgo

package posixipc

import "errors"

// ErrSharedMemoryNotAvailable is returned when shared memory operations
// are attempted but CGO is disabled. Shared memory requires CGO on Unix
// platforms; there is no emulated fallback.
var ErrSharedMemoryNotAvailable = errors.New("posixipc: shared memory requires CGO; rebuild with CGO_ENABLED=1")

// shmi is a stub for when CGO is disabled. Constructors fail, so no
// live SharedMemory ever holds one.
type shmi struct {
	name string
	data []byte
}

func shmOpen(name string, oflag int, mode Mode, size int) (*shmi, error) {
	return nil, ErrSharedMemoryNotAvailable
}

func shmUnlink(name string) error {
	return ErrSharedMemoryNotAvailable
}

func (o *shmi) close() error {
	return ErrSharedMemoryNotAvailable
}
