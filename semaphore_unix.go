//go:build (linux || darwin) && cgo

package posixipc

/*
#include <stdlib.h>
#include <fcntl.h>
#include <semaphore.h>

// sem_open is variadic, which cgo cannot call directly, so expose
// fixed-arity wrappers. The two-argument form backs open-only requests,
// which must not carry a mode or an initial value.
static sem_t* posixipc_sem_open(const char* name, int oflag) {
	return sem_open(name, oflag);
}

static sem_t* posixipc_sem_create(const char* name, int oflag, unsigned int mode, unsigned int value) {
	return sem_open(name, oflag, (mode_t)mode, value);
}

// SEM_FAILED expands to a cast expression cgo cannot evaluate as a constant.
static sem_t* posixipc_sem_failed() {
	return SEM_FAILED;
}
*/
import "C"

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sema wraps the raw sem_t pointer. The pointer is never handed out;
// every call site on it lives in this file.
type sema struct {
	sem  *C.sem_t
	name string
}

func semCreate(name string, oflag int, mode Mode, value uint) (*sema, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	sem, err := C.posixipc_sem_create(cName, C.int(oflag), C.uint(mode), C.uint(value))
	if sem == C.posixipc_sem_failed() {
		return nil, sysError("sem_open", name, err)
	}
	return &sema{sem: sem, name: name}, nil
}

func semOpen(name string) (*sema, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	sem, err := C.posixipc_sem_open(cName, 0)
	if sem == C.posixipc_sem_failed() {
		return nil, sysError("sem_open", name, err)
	}
	return &sema{sem: sem, name: name}, nil
}

func semUnlink(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	ret, err := C.sem_unlink(cName)
	if ret != 0 {
		return sysError("sem_unlink", name, err)
	}
	return nil
}

func (s *sema) post() error {
	ret, err := C.sem_post(s.sem)
	if ret != 0 {
		return sysError("sem_post", s.name, err)
	}
	return nil
}

func (s *sema) wait() error {
	ret, err := C.sem_wait(s.sem)
	if ret != 0 {
		return sysError("sem_wait", s.name, err)
	}
	return nil
}

func (s *sema) tryWait() (bool, error) {
	ret, err := C.sem_trywait(s.sem)
	if ret == 0 {
		return true, nil
	}
	if errors.Is(err, unix.EAGAIN) {
		return false, nil
	}
	return false, sysError("sem_trywait", s.name, err)
}

func (s *sema) getValue() (int, error) {
	var val C.int
	ret, err := C.sem_getvalue(s.sem, &val)
	if ret != 0 {
		return 0, sysError("sem_getvalue", s.name, err)
	}
	return int(val), nil
}

func (s *sema) close() {
	// Result discarded; see NamedSemaphore.Close.
	C.sem_close(s.sem)
}
