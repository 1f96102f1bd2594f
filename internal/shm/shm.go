// Package shm contains the platform helpers behind the detection
// segment: create-or-open, open-existing, map, unmap and unlink of a
// named file-backed region under a shared-memory directory.
package shm

import "path/filepath"

// DefaultDir is where named segments live on Linux. Other unixes fall
// back to it too; callers may point Dir somewhere else (tests use a
// temp dir).
const DefaultDir = "/dev/shm"

// Region is a mapped shared-memory segment. Data stays valid until
// Close. Created reports whether this process created the backing
// object rather than reusing an existing one.
type Region struct {
	Data    []byte
	Created bool

	fd   int
	path string
}

// Path returns the filesystem path backing the segment name.
func Path(dir, name string) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, name)
}
