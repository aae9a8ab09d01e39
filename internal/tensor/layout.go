package tensor

import "fmt"

// FromFortranBytes builds a row-major RawTensor from column-major (Fortran
// order) element bytes. The input buffer is not retained.
func FromFortranBytes(shape Shape, dtype DataType, data []byte) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) != raw.ByteSize() {
		return nil, fmt.Errorf("shape %v of %s requires %d bytes, got %d", shape, dtype, raw.ByteSize(), len(data))
	}

	size := dtype.Size()
	cstrides := shape.ComputeStrides()
	fstrides := shape.ComputeFortranStrides()
	idx := make([]int, len(shape))

	for i := 0; i < raw.NumElements(); i++ {
		src, dst := 0, 0
		for d, v := range idx {
			src += v * fstrides[d]
			dst += v * cstrides[d]
		}
		copy(raw.data[dst*size:(dst+1)*size], data[src*size:(src+1)*size])

		// Advance the row-major multi-index, last dimension fastest.
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}

	return raw, nil
}
