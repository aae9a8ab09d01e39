//go:build unix

package npy

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile memory-maps path read-only. The returned release func unmaps it;
// callers must copy anything they keep before calling release.
func mapFile(path string, size int64) ([]byte, func(), error) {
	//nolint:gosec // G304: dataset path comes from the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := unix.Mmap(
		int(f.Fd()), //nolint:gosec // G115: file descriptor fits in int
		0,
		int(size), //nolint:gosec // G115: file size comes from Stat
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, nil, err
	}
	return data, func() { _ = unix.Munmap(data) }, nil
}
