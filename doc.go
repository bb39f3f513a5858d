// Package posixipc provides named POSIX IPC primitives for coordinating
// independent processes that agree on a shared name: counting semaphores,
// shared memory, and a shared-memory message queue built from the two.
//
// # Named Semaphores
//
// NamedSemaphore is an exclusively owned handle over a kernel-managed
// counting semaphore. Processes that open the same name operate on the
// same count:
//
//	sem, err := posixipc.CreateSemaphore("/my_sem", posixipc.ModeAll, 0, true)
//	if err != nil {
//	    // handle err
//	}
//	defer sem.Close()
//
//	sem.Post() // increment, potentially unblocking a waiter
//	sem.Wait() // block until the count is positive, then decrement
//
// Closing a handle detaches this process from the semaphore; the named
// object itself persists in the kernel namespace until removed with
// UnlinkSemaphore.
//
// Creation semantics follow the underlying facility: CreateSemaphore
// attaches to an existing semaphore unless exclusive creation is
// requested, OpenSemaphore never creates, and OpenOrCreateSemaphore
// opens first and only falls back to creation when the name does not
// exist, so an existing semaphore's mode and count are never disturbed.
//
// # Shared Memory
//
// SharedMemory is a named memory region mapped into the process. It
// implements io.Reader, io.Writer, io.Seeker, io.ReaderAt, and
// io.WriterAt for flexible access patterns:
//
//	shm, err := posixipc.CreateSharedMemory("/my_shm", posixipc.ModeUser, 1<<20, false)
//	if err != nil {
//	    // handle err
//	}
//	defer shm.Close()
//	shm.Write([]byte("hello"))
//
// # Message Queues
//
// Queue combines a shared memory ring with two named semaphores to pass
// MessagePack-encoded messages between a producer process and a
// consumer process, blocking on the semaphores rather than polling:
//
//	q, _ := posixipc.CreateQueue("/my_q", posixipc.ModeUser, 4096, 16)
//	defer q.Close()
//	q.Send(map[string]any{"op": "resize", "w": 640})
//
// # Errors
//
// Failed system calls are reported as *SysError, which preserves the
// operating system's error code verbatim. Callers branch on the cause
// with errors.Is and the golang.org/x/sys/unix constants:
//
//	if errors.Is(err, unix.EEXIST) {
//	    // the name is already taken
//	}
//
// A name containing an embedded NUL byte is rejected with *NameError
// before any system call is made.
//
// # Platform Support
//
// Linux and macOS are supported. Named semaphores and shared memory
// reach the C library through CGO; when CGO is disabled their
// constructors return ErrSemaphoresNotAvailable or
// ErrSharedMemoryNotAvailable. There is no emulated fallback.
package posixipc
