// Package arrowshare shares loaded arrays as Apache Arrow tensors.
//
// The Arrow tensor wraps the array's buffer without copying it, so any
// Arrow-aware consumer can read the dataset in place.
package arrowshare

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	arrowtensor "github.com/apache/arrow-go/v18/arrow/tensor"

	"github.com/born-ml/dataset/internal/dataset"
	"github.com/born-ml/dataset/internal/tensor"
)

var _ dataset.ShareStrategy = (*Strategy)(nil)

// Strategy is a dataset.ShareStrategy producing Arrow tensor handles.
type Strategy struct {
	precision tensor.DataType
}

// New returns a Strategy for float32 or float64 precision.
func New(precision tensor.DataType) (*Strategy, error) {
	if _, err := arrowType(precision); err != nil {
		return nil, err
	}
	return &Strategy{precision: precision}, nil
}

// Precision implements dataset.ShareStrategy.
func (s *Strategy) Precision() tensor.DataType {
	return s.precision
}

// Share implements dataset.ShareStrategy.
// A scalar array is exposed as a one-element vector.
func (s *Strategy) Share(arr *tensor.RawTensor, borrow bool) (dataset.SharedHandle, error) {
	if arr.DType() != s.precision {
		return nil, fmt.Errorf("array dtype %s does not match precision %s", arr.DType(), s.precision)
	}
	if !borrow {
		arr = arr.Copy()
	}

	dt, err := arrowType(s.precision)
	if err != nil {
		return nil, err
	}

	shape := make([]int64, len(arr.Shape()))
	for i, d := range arr.Shape() {
		shape[i] = int64(d)
	}
	if len(shape) == 0 {
		shape = []int64{1}
	}

	buf := memory.NewBufferBytes(arr.Data()[:arr.ByteSize()])
	data := array.NewData(dt, arr.NumElements(), []*memory.Buffer{nil, buf}, nil, 0, 0)
	defer data.Release()

	var t arrowtensor.Interface
	switch s.precision {
	case tensor.Float32:
		t = arrowtensor.NewFloat32(data, shape, nil, nil)
	default:
		t = arrowtensor.NewFloat64(data, shape, nil, nil)
	}

	return &Handle{array: arr, tensor: t, borrowed: borrow}, nil
}

// Handle is the dataset.SharedHandle produced by Strategy.
type Handle struct {
	array    *tensor.RawTensor
	tensor   arrowtensor.Interface
	borrowed bool
}

// Tensor returns the Arrow view of the array.
func (h *Handle) Tensor() arrowtensor.Interface { return h.tensor }

// Release drops the handle's reference to the Arrow tensor.
func (h *Handle) Release() { h.tensor.Release() }

// Array implements dataset.SharedHandle.
func (h *Handle) Array() *tensor.RawTensor { return h.array }

// Precision implements dataset.SharedHandle.
func (h *Handle) Precision() tensor.DataType { return h.array.DType() }

// Borrowed implements dataset.SharedHandle.
func (h *Handle) Borrowed() bool { return h.borrowed }

// Value implements dataset.SharedHandle.
func (h *Handle) Value(borrow bool) *tensor.RawTensor {
	if borrow {
		return h.array
	}
	return h.array.Copy()
}

func arrowType(precision tensor.DataType) (arrow.DataType, error) {
	switch precision {
	case tensor.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case tensor.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, fmt.Errorf("arrow tensors support float32 and float64, not %s", precision)
	}
}
