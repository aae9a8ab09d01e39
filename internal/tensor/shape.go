package tensor

import (
	"fmt"
	"math"
)

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of elements in the array.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid.
// Zero-length dimensions are allowed: .npy files may hold empty arrays.
// The element count must fit in an int.
func (s Shape) Validate() error {
	_, err := s.CheckedBytes(1, math.MaxInt)
	return err
}

// CheckedBytes returns the byte size of an array of this shape holding
// itemSize-byte elements. It fails if a dimension is negative or the size
// exceeds limit, without overflowing on the way.
func (s Shape) CheckedBytes(itemSize, limit int) (int, error) {
	empty := false
	for i, dim := range s {
		if dim < 0 {
			return 0, fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
		empty = empty || dim == 0
	}
	if empty {
		return 0, nil
	}
	if itemSize > limit {
		return 0, fmt.Errorf("shape %v of %d-byte elements exceeds %d bytes", s, itemSize, limit)
	}

	total := itemSize
	for _, dim := range s {
		if total > limit/dim {
			return 0, fmt.Errorf("shape %v of %d-byte elements exceeds %d bytes", s, itemSize, limit)
		}
		total *= dim
	}
	return total, nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// ComputeFortranStrides calculates column-major strides for the shape.
func (s Shape) ComputeFortranStrides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := range s {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}
