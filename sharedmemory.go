//go:build linux || darwin

package posixipc

import (
	"fmt"
	"io"
)

// SharedMemory is a named POSIX shared memory region mapped into this
// process. It implements io.Reader, io.Writer, io.Seeker, io.ReaderAt,
// and io.WriterAt for flexible access patterns, plus Bytes for zero-copy
// access to the mapping.
//
// Every process attaching to the region must agree on the name and the
// size. As with semaphores, Close only detaches this process; the named
// region persists until removed with UnlinkSharedMemory.
type SharedMemory struct {
	// m is the platform mapping; nil once the region has been closed.
	m *shmi

	// pos is the current read/write position.
	pos int64

	// name is the name the region was obtained with.
	name string
}

// CreateSharedMemory creates a named shared memory region of the given
// size and maps it. Unless exclusive is set, an existing region under
// the name is attached to instead (its contents are preserved; it is
// still truncated to size). Names should begin with a slash.
func CreateSharedMemory(name string, mode Mode, size int, exclusive bool) (*SharedMemory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("posixipc: invalid shared memory size %d", size)
	}
	m, err := shmOpen(name, openFlags(true, exclusive), mode, size)
	if err != nil {
		return nil, err
	}
	return &SharedMemory{m: m, name: name}, nil
}

// OpenSharedMemory attaches to an existing named shared memory region
// and maps size bytes of it. It never creates: a name that does not
// exist fails with ENOENT.
func OpenSharedMemory(name string, size int) (*SharedMemory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("posixipc: invalid shared memory size %d", size)
	}
	m, err := shmOpen(name, openFlags(false, false), 0, size)
	if err != nil {
		return nil, err
	}
	return &SharedMemory{m: m, name: name}, nil
}

// UnlinkSharedMemory removes a shared memory name from the system
// namespace. Existing mappings remain valid until their owners close
// them.
func UnlinkSharedMemory(name string) error {
	return shmUnlink(name)
}

// Name returns the name the region was obtained with.
func (o *SharedMemory) Name() string {
	return o.name
}

// Size returns the mapped size in bytes, or 0 after Close.
func (o *SharedMemory) Size() int {
	if o.m == nil {
		return 0
	}
	return len(o.m.data)
}

// Bytes returns the mapped region as a byte slice. Writes through the
// slice are immediately visible to other processes. The slice is only
// valid until Close; Bytes returns nil afterwards.
func (o *SharedMemory) Bytes() []byte {
	if o.m == nil {
		return nil
	}
	return o.m.data
}

// Close unmaps the region and releases the file descriptor. It is a
// no-op on an already-closed region.
func (o *SharedMemory) Close() error {
	if o.m == nil {
		return nil
	}
	err := o.m.close()
	o.m = nil
	return err
}

// Read reads up to len(p) bytes from the current position. Implements
// io.Reader.
func (o *SharedMemory) Read(p []byte) (int, error) {
	n, err := o.ReadAt(p, o.pos)
	if err != nil {
		return 0, err
	}
	o.pos += int64(n)
	return n, nil
}

// ReadAt reads from the region starting at offset off. Implements
// io.ReaderAt.
func (o *SharedMemory) ReadAt(p []byte, off int64) (int, error) {
	if o.m == nil {
		return 0, ErrClosed
	}
	size := int64(len(o.m.data))
	if off < 0 || off >= size {
		return 0, io.EOF
	}
	return copy(p, o.m.data[off:]), nil
}

// Write writes len(p) bytes at the current position. Implements
// io.Writer.
func (o *SharedMemory) Write(p []byte) (int, error) {
	n, err := o.WriteAt(p, o.pos)
	if err != nil {
		return 0, err
	}
	o.pos += int64(n)
	return n, nil
}

// WriteAt writes to the region starting at offset off. Implements
// io.WriterAt.
func (o *SharedMemory) WriteAt(p []byte, off int64) (int, error) {
	if o.m == nil {
		return 0, ErrClosed
	}
	size := int64(len(o.m.data))
	if off < 0 || off >= size {
		return 0, io.EOF
	}
	return copy(o.m.data[off:], p), nil
}

// Seek sets the position for the next Read or Write. Implements
// io.Seeker.
func (o *SharedMemory) Seek(offset int64, whence int) (int64, error) {
	if o.m == nil {
		return 0, ErrClosed
	}
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += o.pos
	case io.SeekEnd:
		offset += int64(len(o.m.data))
	}
	if offset < 0 || offset >= int64(len(o.m.data)) {
		return 0, fmt.Errorf("posixipc: seek offset %d out of range", offset)
	}
	o.pos = offset
	return offset, nil
}
