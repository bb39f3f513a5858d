//go:build linux || darwin

package posixipc

import "golang.org/x/sys/unix"

// Mode describes who may access a named IPC object, as the conventional
// owner/group/other permission triad. Each facet grants full
// read/write/execute access for its category; this layer exposes no
// partial grants.
type Mode uint32

const (
	// ModeUser grants full access to the owning user. Equal to 0700.
	ModeUser Mode = 0o700

	// ModeGroup grants full access to the owning group. Equal to 0070.
	ModeGroup Mode = 0o070

	// ModeOther grants full access to everyone else. Equal to 0007.
	ModeOther Mode = 0o007

	// ModeAll grants full access to all three categories. Equal to 0777.
	ModeAll Mode = ModeUser | ModeGroup | ModeOther
)

// openFlags encodes the open policy for sem_open and shm_open. Open-only
// is the empty flag set, relying on the system's default attach-to-existing
// behavior. Exclusive creation is always the create bit plus O_EXCL; it is
// never a flag of its own.
func openFlags(create, exclusive bool) int {
	if !create {
		return 0
	}
	flags := unix.O_CREAT
	if exclusive {
		flags |= unix.O_EXCL
	}
	return flags
}
