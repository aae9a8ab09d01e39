// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package npy reads and writes NumPy .npy array files.
//
// Example:
//
//	raw, hdr, err := npy.Load("32-50K.npy", npy.ReadOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s %v\n", hdr.Descr, raw.Shape())
//
//	if err := npy.Save("copy.npy", raw); err != nil {
//	    log.Fatal(err)
//	}
package npy

import (
	"io"

	"github.com/born-ml/dataset/internal/npy"
	"github.com/born-ml/dataset/tensor"
)

// Error kinds, tested with errors.Is.
var (
	ErrNotFound  = npy.ErrNotFound
	ErrMalformed = npy.ErrMalformed
)

// LoadError carries the failure kind and path.
type LoadError = npy.LoadError

// Header describes the array stored in a .npy file.
type Header = npy.Header

// ReadOptions configures how Load reads the file.
type ReadOptions = npy.ReadOptions

// Load reads the .npy file at path into a new row-major tensor.
func Load(path string, opts ReadOptions) (*tensor.RawTensor, Header, error) {
	return npy.Load(path, opts)
}

// Read decodes a .npy stream.
func Read(r io.Reader) (*tensor.RawTensor, Header, error) {
	return npy.Read(r)
}

// Save writes raw to path in .npy format.
func Save(path string, raw *tensor.RawTensor) error {
	return npy.Save(path, raw)
}

// Write encodes raw as a .npy stream.
func Write(w io.Writer, raw *tensor.RawTensor) error {
	return npy.Write(w, raw)
}
