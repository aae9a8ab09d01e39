// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the array types returned by the dataset loader.
//
// # Overview
//
// A RawTensor is a contiguous, row-major buffer with a Shape and a DataType.
// Loading never returns strided or Fortran-ordered views: what you get is
// always C-contiguous and owned by the caller.
//
// # Basic Usage
//
//	raw, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	fmt.Println(raw.Shape(), raw.DType()) // [2 2] float32
//
//	f64 := tensor.Cast(raw, tensor.Float64)
//	fmt.Println(f64.AsFloat64())          // [1 2 3 4]
//
// # Precision
//
// Shared handles are cast to a floating-point precision chosen by the
// consuming runtime. ParsePrecision accepts the runtime's names:
//
//	p, err := tensor.ParsePrecision("float32")
package tensor
