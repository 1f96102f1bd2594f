package shm

import (
	"errors"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

var (
	// ErrNoSpace reports that the shared-memory filesystem has no room
	// for the requested segment.
	ErrNoSpace = errors.New("shared memory has not left space")

	// ErrShortSegment reports an existing segment smaller than the
	// layout the caller expects.
	ErrShortSegment = errors.New("segment smaller than requested mapping")

	// ErrMmap marks mapping failures so callers can tell them apart
	// from open/create failures; the OS error stays wrapped alongside.
	ErrMmap = errors.New("mmap failed")
)

// PathExists reports whether a segment file is present.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CanCreateOn reports whether creating a segment of the given size on
// the path's filesystem would fit. Only /dev/shm is checked; any other
// location always passes.
func CanCreateOn(size uint64, path string) bool {
	if !strings.HasPrefix(path, DefaultDir) {
		return true
	}
	stat, err := disk.Usage(DefaultDir)
	if err != nil {
		return true
	}
	return stat.Free >= size
}
