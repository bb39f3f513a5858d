//go:build (linux || darwin) && cgo

package posixipc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func shmTestName(t *testing.T, tag string) string {
	t.Helper()
	name := fmt.Sprintf("/posixipc_shm_%s_%d", tag, os.Getpid())
	t.Cleanup(func() { UnlinkSharedMemory(name) })
	return name
}

func TestSharedMemoryCreateWriteRead(t *testing.T) {
	name := shmTestName(t, "rw")

	shm, err := CreateSharedMemory(name, ModeUser, 4096, true)
	if err != nil {
		t.Fatalf("CreateSharedMemory: %v", err)
	}
	defer shm.Close()

	msg := []byte("hello from the creator")
	if _, err := shm.Write(msg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// A second handle to the same name must observe the write.
	other, err := OpenSharedMemory(name, 4096)
	if err != nil {
		t.Fatalf("OpenSharedMemory: %v", err)
	}
	defer other.Close()

	got := make([]byte, len(msg))
	if _, err := other.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("read %q, want %q", got, msg)
	}
}

func TestSharedMemoryExclusiveCreate(t *testing.T) {
	name := shmTestName(t, "excl")

	shm, err := CreateSharedMemory(name, ModeUser, 1024, true)
	if err != nil {
		t.Fatalf("CreateSharedMemory: %v", err)
	}
	defer shm.Close()

	if _, err := CreateSharedMemory(name, ModeUser, 1024, true); !errors.Is(err, unix.EEXIST) {
		t.Errorf("second exclusive create: got %v, want EEXIST", err)
	}
}

func TestSharedMemoryOpenMissing(t *testing.T) {
	name := shmTestName(t, "missing")

	if _, err := OpenSharedMemory(name, 1024); !errors.Is(err, unix.ENOENT) {
		t.Errorf("open of missing region: got %v, want ENOENT", err)
	}
}

func TestSharedMemorySeek(t *testing.T) {
	name := shmTestName(t, "seek")

	shm, err := CreateSharedMemory(name, ModeUser, 64, true)
	if err != nil {
		t.Fatalf("CreateSharedMemory: %v", err)
	}
	defer shm.Close()

	if _, err := shm.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := shm.Seek(4, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, 3)
	if _, err := shm.Read(got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "456" {
		t.Errorf("read after seek = %q, want \"456\"", got)
	}

	if _, err := shm.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative seek succeeded, want error")
	}
	if _, err := shm.Seek(0, io.SeekEnd); err == nil {
		t.Error("seek to end of region succeeded, want error")
	}
}

func TestSharedMemoryBoundsAndEOF(t *testing.T) {
	name := shmTestName(t, "bounds")

	shm, err := CreateSharedMemory(name, ModeUser, 16, true)
	if err != nil {
		t.Fatalf("CreateSharedMemory: %v", err)
	}
	defer shm.Close()

	if _, err := shm.ReadAt(make([]byte, 4), 16); err != io.EOF {
		t.Errorf("ReadAt past the end: got %v, want io.EOF", err)
	}
	if _, err := shm.WriteAt([]byte("x"), 16); err != io.EOF {
		t.Errorf("WriteAt past the end: got %v, want io.EOF", err)
	}

	// A write straddling the end is truncated to the region.
	n, err := shm.WriteAt(bytes.Repeat([]byte("a"), 8), 12)
	if err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if n != 4 {
		t.Errorf("straddling write wrote %d bytes, want 4", n)
	}
}

func TestSharedMemoryClose(t *testing.T) {
	name := shmTestName(t, "close")

	shm, err := CreateSharedMemory(name, ModeUser, 16, true)
	if err != nil {
		t.Fatalf("CreateSharedMemory: %v", err)
	}

	if err := shm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := shm.Close(); err != nil {
		t.Errorf("second Close: got %v, want nil no-op", err)
	}
	if shm.Bytes() != nil {
		t.Error("Bytes after Close is non-nil")
	}
	if _, err := shm.ReadAt(make([]byte, 1), 0); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadAt after Close: got %v, want ErrClosed", err)
	}
}

func TestSharedMemoryNameWithEmbeddedNUL(t *testing.T) {
	_, err := CreateSharedMemory("/bad\x00shm", ModeUser, 16, true)
	var nameErr *NameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("expected *NameError, got %v", err)
	}
}
