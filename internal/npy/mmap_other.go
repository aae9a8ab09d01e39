//go:build !unix

package npy

import "os"

// mapFile falls back to reading the whole file where mmap is unavailable.
func mapFile(path string, _ int64) ([]byte, func(), error) {
	//nolint:gosec // G304: dataset path comes from the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() {}, nil
}
