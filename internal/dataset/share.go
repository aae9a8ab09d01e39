package dataset

import (
	"fmt"

	"github.com/born-ml/dataset/internal/tensor"
)

// DefaultPrecision is the floating-point width used when no strategy is configured.
const DefaultPrecision = tensor.Float64

// SharedHandle is an array boxed for use by an external numerical runtime.
type SharedHandle interface {
	// Array returns the handle's storage. For a borrowed handle this is the
	// array given to Share; it must be treated as read-only.
	Array() *tensor.RawTensor

	// Precision returns the element type of the storage.
	Precision() tensor.DataType

	// Borrowed reports whether the handle aliases the array it was built from.
	Borrowed() bool

	// Value returns the storage itself when borrow is true and a private
	// deep copy otherwise.
	Value(borrow bool) *tensor.RawTensor
}

// ShareStrategy is the capability an external runtime provides to the loader:
// a configured precision plus a primitive that turns an array already cast to
// that precision into a handle.
type ShareStrategy interface {
	Precision() tensor.DataType
	Share(array *tensor.RawTensor, borrow bool) (SharedHandle, error)
}

// HostStrategy shares arrays as in-process handles.
type HostStrategy struct {
	precision tensor.DataType
}

// NewHostStrategy returns a HostStrategy for a floating-point precision.
func NewHostStrategy(precision tensor.DataType) (*HostStrategy, error) {
	if !precision.IsFloat() {
		return nil, fmt.Errorf("precision must be a float type, got %s", precision)
	}
	return &HostStrategy{precision: precision}, nil
}

// Precision implements ShareStrategy.
func (s *HostStrategy) Precision() tensor.DataType {
	return s.precision
}

// Share implements ShareStrategy. Without borrow the handle owns a copy.
func (s *HostStrategy) Share(array *tensor.RawTensor, borrow bool) (SharedHandle, error) {
	if array.DType() != s.precision {
		return nil, fmt.Errorf("array dtype %s does not match precision %s", array.DType(), s.precision)
	}
	if !borrow {
		array = array.Copy()
	}
	return &HostHandle{array: array, borrowed: borrow}, nil
}

// HostHandle is the SharedHandle produced by HostStrategy.
type HostHandle struct {
	array    *tensor.RawTensor
	borrowed bool
}

// Array implements SharedHandle.
func (h *HostHandle) Array() *tensor.RawTensor { return h.array }

// Precision implements SharedHandle.
func (h *HostHandle) Precision() tensor.DataType { return h.array.DType() }

// Borrowed implements SharedHandle.
func (h *HostHandle) Borrowed() bool { return h.borrowed }

// Value implements SharedHandle.
func (h *HostHandle) Value(borrow bool) *tensor.RawTensor {
	if borrow {
		return h.array
	}
	return h.array.Copy()
}
