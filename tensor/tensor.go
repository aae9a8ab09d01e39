// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/dataset/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for the Go element types a RawTensor can hold.
type DType = tensor.DType

// DataType represents the element type of an array.
type DataType = tensor.DataType

// Data type constants.
const (
	Float16 DataType = tensor.Float16
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Uint16  DataType = tensor.Uint16
	Uint32  DataType = tensor.Uint32
	Uint64  DataType = tensor.Uint64
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of an array.
type Shape = tensor.Shape

// NewRaw creates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a RawTensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Cast converts src to dst. When the dtypes already match the result shares
// src's buffer; otherwise a new buffer is allocated.
func Cast(src *RawTensor, dst DataType) *RawTensor {
	return tensor.Cast(src, dst)
}

// ParsePrecision converts "float16", "float32" or "float64" into a DataType.
func ParsePrecision(name string) (DataType, error) {
	return tensor.ParsePrecision(name)
}
