// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/dataset/internal/tensor"
)

// RawTensor is a contiguous row-major array.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), NumElements()
//   - Typed zero-copy access via AsFloat32(), AsInt64(), etc.
//   - Element values as float64 via Float64s()
//   - View() to share and Copy() to duplicate the buffer
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32()  // Type-safe access
//	dup := raw.Copy()        // Independent buffer
type RawTensor = tensor.RawTensor
