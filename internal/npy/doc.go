// Package npy reads and writes NumPy .npy array files.
//
// The .npy format stores a single n-dimensional array:
//
//	Format Structure:
//	  [6 bytes: Magic "\x93NUMPY"]
//	  [2 bytes: Version (major, minor)]
//	  [2 bytes (v1) or 4 bytes (v2, v3): Header length (LE)]
//	  [Header: Python dict literal with descr, fortran_order and shape]
//	  [Array data: raw elements, no padding]
//
// Header parsing and typed decoding are delegated to github.com/sbinet/npyio.
// Float16 arrays, which npyio does not decode, are converted with
// github.com/x448/float16. Fortran-ordered data is reordered to row-major so
// every returned tensor is C-contiguous.
//
// Failures are classified into two kinds, tested with errors.Is:
//   - ErrNotFound: the path does not resolve to a readable file
//   - ErrMalformed: the bytes are not a valid .npy array
//
// Example usage:
//
//	raw, hdr, err := npy.Load("32-50K.npy", npy.ReadOptions{})
//	if errors.Is(err, npy.ErrNotFound) {
//	    log.Fatal("dataset missing")
//	}
//	fmt.Println(hdr.Descr, raw.Shape())
package npy
