package tensor

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/x448/float16"
)

// RawTensor is the in-memory array produced by the loader.
// Data is stored contiguously in row-major (C) order with host byte order.
type RawTensor struct {
	data  []byte   // Backing buffer, possibly shared with views
	shape Shape    // Array dimensions
	dtype DataType // Runtime type information
}

// NewRaw creates a new zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	size, err := shape.CheckedBytes(dtype.Size(), math.MaxInt)
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:  make([]byte, size),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// FromBytes wraps an existing row-major buffer without copying it.
// The caller must not retain data for other uses.
func FromBytes(shape Shape, dtype DataType, data []byte) (*RawTensor, error) {
	want, err := shape.CheckedBytes(dtype.Size(), math.MaxInt)
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != want {
		return nil, fmt.Errorf("shape %v of %s requires %d bytes, got %d", shape, dtype, want, len(data))
	}

	return &RawTensor{
		data:  data,
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// Shape returns the array's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the array's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// View returns a RawTensor that shares this tensor's buffer.
// Writes through either tensor are visible in both.
func (r *RawTensor) View() *RawTensor {
	return &RawTensor{
		data:  r.data,
		shape: r.shape.Clone(),
		dtype: r.dtype,
	}
}

// Copy returns a deep copy that shares no storage with r.
func (r *RawTensor) Copy() *RawTensor {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:  data,
		shape: r.shape.Clone(),
		dtype: r.dtype,
	}
}

// SharesMemory reports whether r and other are backed by the same buffer.
// Empty tensors never share memory.
func (r *RawTensor) SharesMemory(other *RawTensor) bool {
	if other == nil || len(r.data) == 0 || len(other.data) == 0 {
		return false
	}
	return &r.data[0] == &other.data[0]
}

func (r *RawTensor) mustBe(dt DataType) {
	if r.dtype != dt {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dt))
	}
}

// asSlice reinterprets the buffer as n elements of E.
func asSlice[E any](data []byte, n int) []E {
	if n == 0 {
		return []E{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*E)(unsafe.Pointer(&data[0])), n)
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	r.mustBe(Float16)
	return asSlice[float16.Float16](r.data, r.NumElements())
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	r.mustBe(Float32)
	return asSlice[float32](r.data, r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	r.mustBe(Float64)
	return asSlice[float64](r.data, r.NumElements())
}

// AsInt8 interprets the data as []int8.
func (r *RawTensor) AsInt8() []int8 {
	r.mustBe(Int8)
	return asSlice[int8](r.data, r.NumElements())
}

// AsInt16 interprets the data as []int16.
func (r *RawTensor) AsInt16() []int16 {
	r.mustBe(Int16)
	return asSlice[int16](r.data, r.NumElements())
}

// AsInt32 interprets the data as []int32.
func (r *RawTensor) AsInt32() []int32 {
	r.mustBe(Int32)
	return asSlice[int32](r.data, r.NumElements())
}

// AsInt64 interprets the data as []int64.
func (r *RawTensor) AsInt64() []int64 {
	r.mustBe(Int64)
	return asSlice[int64](r.data, r.NumElements())
}

// AsUint8 interprets the data as []uint8.
func (r *RawTensor) AsUint8() []uint8 {
	r.mustBe(Uint8)
	return r.data[:r.NumElements()] // Already []byte = []uint8
}

// AsUint16 interprets the data as []uint16.
func (r *RawTensor) AsUint16() []uint16 {
	r.mustBe(Uint16)
	return asSlice[uint16](r.data, r.NumElements())
}

// AsUint32 interprets the data as []uint32.
func (r *RawTensor) AsUint32() []uint32 {
	r.mustBe(Uint32)
	return asSlice[uint32](r.data, r.NumElements())
}

// AsUint64 interprets the data as []uint64.
func (r *RawTensor) AsUint64() []uint64 {
	r.mustBe(Uint64)
	return asSlice[uint64](r.data, r.NumElements())
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	r.mustBe(Bool)
	return asSlice[bool](r.data, r.NumElements())
}
