//go:build (linux || darwin) && cgo

package posixipc

/*
#include <stdlib.h>
#include <sys/mman.h>
#include <fcntl.h>

static int posixipc_shm_open(const char* name, int oflag, unsigned int mode) {
	return shm_open(name, oflag, (mode_t)mode);
}

static int posixipc_shm_unlink(const char* name) {
	return shm_unlink(name);
}
*/
import "C"

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// shmi holds the file descriptor and mapping for one shared memory
// region. shm_open goes through the C library (its name resolution is a
// libc concern, not a stable syscall); sizing and mapping use
// golang.org/x/sys/unix against the returned descriptor.
type shmi struct {
	name string
	fd   int
	data []byte
}

func shmOpen(name string, oflag int, mode Mode, size int) (*shmi, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	fd, err := C.posixipc_shm_open(cName, C.int(oflag|unix.O_RDWR), C.uint(mode))
	if fd < 0 {
		return nil, sysError("shm_open", name, err)
	}

	// A freshly created region has zero length and must be sized before
	// mapping. An already-sized region is left alone: Darwin rejects a
	// second ftruncate on a shm object, and pure opens trust the creator.
	if oflag&unix.O_CREAT != 0 {
		var st unix.Stat_t
		if err := unix.Fstat(int(fd), &st); err != nil {
			unix.Close(int(fd))
			return nil, sysError("fstat", name, err)
		}
		if st.Size < int64(size) {
			if err := unix.Ftruncate(int(fd), int64(size)); err != nil {
				unix.Close(int(fd))
				if oflag&unix.O_EXCL != 0 {
					// Exclusively created, so known to be ours.
					C.posixipc_shm_unlink(cName)
				}
				return nil, sysError("ftruncate", name, err)
			}
		}
	}

	data, err := unix.Mmap(int(fd), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(int(fd))
		return nil, sysError("mmap", name, err)
	}
	return &shmi{name: name, fd: int(fd), data: data}, nil
}

func shmUnlink(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	ret, err := C.posixipc_shm_unlink(cName)
	if ret != 0 {
		return sysError("shm_unlink", name, err)
	}
	return nil
}

func (o *shmi) close() error {
	var first error
	if o.data != nil {
		first = unix.Munmap(o.data)
		o.data = nil
	}
	if o.fd >= 0 {
		if err := unix.Close(o.fd); err != nil && first == nil {
			first = err
		}
		o.fd = -1
	}
	return first
}
