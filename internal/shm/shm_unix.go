//go:build unix

package shm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CreateOrOpen opens the named segment, creating it when absent, and
// maps it read-write at exactly size bytes. An existing larger segment
// is never shrunk; an existing smaller one is grown to size.
func CreateOrOpen(dir, name string, size int) (*Region, error) {
	path := Path(dir, name)
	created := true
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, 0o600)
	if err == unix.EEXIST {
		created = false
		fd, err = unix.Open(path, unix.O_RDWR, 0o600)
	}
	if err != nil {
		return nil, fmt.Errorf("create segment %s: %w", path, err)
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("stat segment %s: %w", path, err)
	}
	if st.Size < int64(size) {
		if created && !CanCreateOn(uint64(size), path) {
			_ = unix.Close(fd)
			_ = unix.Unlink(path)
			return nil, fmt.Errorf("create segment %s (%d bytes): %w", path, size, ErrNoSpace)
		}
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			_ = unix.Close(fd)
			if created {
				_ = unix.Unlink(path)
			}
			return nil, fmt.Errorf("truncate segment %s to %d bytes: %w", path, size, err)
		}
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("map segment %s (%d bytes): %w: %w", path, size, ErrMmap, err)
	}
	return &Region{Data: data, Created: created, fd: fd, path: path}, nil
}

// OpenExisting opens and maps a segment that must already exist. The
// mapping is read-only. ENOENT propagates so callers can treat a
// missing segment as "not ready yet" (errors.Is(err, fs.ErrNotExist)).
func OpenExisting(dir, name string, size int) (*Region, error) {
	path := Path(dir, name)
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open segment %s: %w", path, err)
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("stat segment %s: %w", path, err)
	}
	if st.Size < int64(size) {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("segment %s is %d bytes, need %d: %w", path, st.Size, size, ErrShortSegment)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("map segment %s (%d bytes): %w: %w", path, size, ErrMmap, err)
	}
	return &Region{Data: data, fd: fd, path: path}, nil
}

// Close unmaps the region and closes its descriptor. Safe to call on
// a nil region and idempotent.
func (r *Region) Close() error {
	if r == nil || r.Data == nil {
		return nil
	}
	err := unix.Munmap(r.Data)
	r.Data = nil
	if cerr := unix.Close(r.fd); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("close segment %s: %w", r.path, err)
	}
	return nil
}

// Unlink removes the named segment. Removing an absent segment is a
// no-op, not an error.
func Unlink(dir, name string) error {
	path := Path(dir, name)
	if err := unix.Unlink(path); err != nil && err != unix.ENOENT {
		return fmt.Errorf("unlink segment %s: %w", path, err)
	}
	return nil
}
