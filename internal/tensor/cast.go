package tensor

import (
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/born-ml/dataset/internal/parallel"
)

// DType is a constraint for the Go element types a RawTensor can hold.
type DType interface {
	float16.Float16 | float32 | float64 |
		int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		bool
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float16.Float16:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case bool:
		return Bool
	default:
		panic("unsupported type")
	}
}

// FromSlice creates a RawTensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		return nil, err
	}
	copy(asSlice[T](raw.data, len(data)), data)
	return raw, nil
}

// Float64s returns every element converted to float64, in row-major order.
// Bool elements become 0 or 1.
//
//nolint:gocyclo,cyclop // one case per dtype
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	switch r.dtype {
	case Float16:
		for i, v := range r.AsFloat16() {
			out[i] = float64(v.Float32())
		}
	case Float32:
		for i, v := range r.AsFloat32() {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, r.AsFloat64())
	case Int8:
		for i, v := range r.AsInt8() {
			out[i] = float64(v)
		}
	case Int16:
		for i, v := range r.AsInt16() {
			out[i] = float64(v)
		}
	case Int32:
		for i, v := range r.AsInt32() {
			out[i] = float64(v)
		}
	case Int64:
		for i, v := range r.AsInt64() {
			out[i] = float64(v)
		}
	case Uint8:
		for i, v := range r.AsUint8() {
			out[i] = float64(v)
		}
	case Uint16:
		for i, v := range r.AsUint16() {
			out[i] = float64(v)
		}
	case Uint32:
		for i, v := range r.AsUint32() {
			out[i] = float64(v)
		}
	case Uint64:
		for i, v := range r.AsUint64() {
			out[i] = float64(v)
		}
	case Bool:
		for i, v := range r.AsBool() {
			if v {
				out[i] = 1
			}
		}
	}
	return out
}

// castConfig splits casts of large arrays across CPUs.
var castConfig = parallel.DefaultConfig()

// number is the set of element types with Go numeric conversions between them.
type number interface {
	float32 | float64 |
		int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64
}

// Cast converts src to dtype dst.
//
// When src already has dtype dst the result is a View of src and no data is
// copied. Otherwise a new buffer is allocated and every element is converted
// once, directly from its stored type, with Go conversion rules. Float16
// targets are rounded to nearest even from the exact source value.
//
//nolint:gocyclo,cyclop // one case per dtype
func Cast(src *RawTensor, dst DataType) *RawTensor {
	if src.dtype == dst {
		return src.View()
	}

	out, err := NewRaw(src.shape, dst)
	if err != nil {
		panic(err) // src shape was already validated
	}

	switch dst {
	case Float16:
		castFloat16(out.AsFloat16(), src)
	case Float32:
		castNumeric(out.AsFloat32(), src)
	case Float64:
		castNumeric(out.AsFloat64(), src)
	case Int8:
		castNumeric(out.AsInt8(), src)
	case Int16:
		castNumeric(out.AsInt16(), src)
	case Int32:
		castNumeric(out.AsInt32(), src)
	case Int64:
		castNumeric(out.AsInt64(), src)
	case Uint8:
		castNumeric(out.AsUint8(), src)
	case Uint16:
		castNumeric(out.AsUint16(), src)
	case Uint32:
		castNumeric(out.AsUint32(), src)
	case Uint64:
		castNumeric(out.AsUint64(), src)
	case Bool:
		s := out.AsBool()
		for i, v := range src.Float64s() {
			s[i] = v != 0
		}
	}
	return out
}

// castNumeric converts every element of src into dst.
//
//nolint:gocyclo,cyclop // one case per dtype
func castNumeric[D number](dst []D, src *RawTensor) {
	switch src.dtype {
	case Float16:
		s := src.AsFloat16()
		parallel.Chunks(len(s), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = D(s[i].Float32())
			}
		}, castConfig)
	case Float32:
		convert(dst, src.AsFloat32())
	case Float64:
		convert(dst, src.AsFloat64())
	case Int8:
		convert(dst, src.AsInt8())
	case Int16:
		convert(dst, src.AsInt16())
	case Int32:
		convert(dst, src.AsInt32())
	case Int64:
		convert(dst, src.AsInt64())
	case Uint8:
		convert(dst, src.AsUint8())
	case Uint16:
		convert(dst, src.AsUint16())
	case Uint32:
		convert(dst, src.AsUint32())
	case Uint64:
		convert(dst, src.AsUint64())
	case Bool:
		for i, v := range src.AsBool() {
			if v {
				dst[i] = 1
			}
		}
	}
}

func convert[S, D number](dst []D, src []S) {
	parallel.Chunks(len(src), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = D(src[i])
		}
	}, castConfig)
}

// castFloat16 rounds every element of src to half precision.
// Float64s is exact for every value a float16 can resolve: integers beyond
// 2^53 overflow to Inf either way.
func castFloat16(dst []float16.Float16, src *RawTensor) {
	vals := src.Float64s()
	parallel.Chunks(len(vals), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = float16.Fromfloat32(roundToOddFloat32(vals[i]))
		}
	}, castConfig)
}

// roundToOddFloat32 narrows v to float32, truncating toward zero and forcing
// the last mantissa bit to 1 when the result is inexact. A second rounding
// of the result to float16 then matches rounding v directly.
func roundToOddFloat32(v float64) float32 {
	f := float32(v)
	if math.IsNaN(v) || math.IsInf(float64(f), 0) || float64(f) == v {
		return f
	}
	bits := math.Float32bits(f)
	if math.Abs(float64(f)) > math.Abs(v) {
		bits-- // rounded away from zero; step back toward it
	}
	return math.Float32frombits(bits | 1)
}
