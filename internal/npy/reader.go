package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sbinet/npyio"
	"github.com/x448/float16"

	"github.com/born-ml/dataset/internal/tensor"
)

// ReadOptions configures how Load reads the file.
type ReadOptions struct {
	UseMmap bool // Map the file instead of reading it (unix only, falls back to a plain read elsewhere)
}

// Load reads the .npy file at path into a new row-major tensor.
//
// The returned tensor never aliases the file contents or any earlier result:
// two Loads of the same path yield independent buffers.
func Load(path string, opts ReadOptions) (*tensor.RawTensor, Header, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Header{}, notFound(path, err)
	}
	if info.IsDir() {
		return nil, Header{}, notFound(path, errors.New("is a directory"))
	}

	var data []byte
	release := func() {}
	if opts.UseMmap && info.Size() > 0 {
		data, release, err = mapFile(path, info.Size())
	} else {
		//nolint:gosec // G304: dataset path comes from the caller
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, Header{}, notFound(path, err)
	}
	defer release()

	raw, hdr, err := decode(data)
	if err != nil {
		return nil, Header{}, malformed(path, err)
	}
	return raw, hdr, nil
}

// Read decodes a .npy stream. Every failure, including read errors, is ErrMalformed.
func Read(r io.Reader) (*tensor.RawTensor, Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Header{}, malformed("", fmt.Errorf("failed to read stream: %w", err))
	}
	raw, hdr, err := decode(data)
	if err != nil {
		return nil, Header{}, malformed("", err)
	}
	return raw, hdr, nil
}

// decode parses a complete .npy image held in memory.
// The result is always copied out of data.
func decode(data []byte) (*tensor.RawTensor, Header, error) {
	start, end, err := headerBounds(data)
	if err != nil {
		return nil, Header{}, err
	}
	dict, err := parseHeader(string(data[start:end]))
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse header: %w", err)
	}

	dtype, order, err := parseDescr(dict.descr)
	if err != nil {
		return nil, Header{}, err
	}
	size, err := dict.shape.CheckedBytes(dtype.Size(), len(data)-end)
	if err != nil {
		return nil, Header{}, fmt.Errorf("data section truncated: %w", err)
	}

	hdr := Header{
		Major:   data[6],
		Minor:   data[7],
		Descr:   dict.descr,
		DType:   dtype,
		Fortran: dict.fortran,
		Shape:   dict.shape,
	}

	n := size / dtype.Size()
	body := data[end : end+size]

	var flat *tensor.RawTensor
	if dtype == tensor.Float16 {
		flat, err = decodeFloat16(body, n, order)
	} else {
		flat, err = readTyped(body, descrFor(dtype, order), dtype, n)
	}
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to read %s data: %w", dtype, err)
	}

	var raw *tensor.RawTensor
	if hdr.Fortran && len(hdr.Shape) > 1 {
		raw, err = tensor.FromFortranBytes(hdr.Shape, dtype, flat.Data())
	} else {
		raw, err = tensor.FromBytes(hdr.Shape, dtype, flat.Data())
	}
	if err != nil {
		return nil, Header{}, err
	}
	return raw, hdr, nil
}

// readTyped decodes n elements of dtype through npyio, which handles byte order.
// npyio is given a flat version 1.0 image with a canonical header, whatever
// the layout and version of the source file.
//
//nolint:gocyclo,cyclop // one case per dtype
func readTyped(body []byte, descr string, dtype tensor.DataType, n int) (*tensor.RawTensor, error) {
	var image bytes.Buffer
	if err := writeHeader(&image, dictLiteral(descr, false, tensor.Shape{n})); err != nil {
		return nil, err
	}
	image.Write(body)

	rdr, err := npyio.NewReader(&image)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	switch dtype {
	case tensor.Float32:
		return readInto[float32](rdr, n)
	case tensor.Float64:
		return readInto[float64](rdr, n)
	case tensor.Int8:
		return readInto[int8](rdr, n)
	case tensor.Int16:
		return readInto[int16](rdr, n)
	case tensor.Int32:
		return readInto[int32](rdr, n)
	case tensor.Int64:
		return readInto[int64](rdr, n)
	case tensor.Uint8:
		return readInto[uint8](rdr, n)
	case tensor.Uint16:
		return readInto[uint16](rdr, n)
	case tensor.Uint32:
		return readInto[uint32](rdr, n)
	case tensor.Uint64:
		return readInto[uint64](rdr, n)
	case tensor.Bool:
		return readInto[bool](rdr, n)
	default:
		return nil, fmt.Errorf("unsupported dtype %s", dtype)
	}
}

func readInto[T tensor.DType](rdr *npyio.Reader, n int) (*tensor.RawTensor, error) {
	vals := make([]T, n)
	if n > 0 {
		if err := rdr.Read(&vals); err != nil {
			return nil, err
		}
	}
	if len(vals) != n {
		return nil, fmt.Errorf("decoded %d elements, want %d", len(vals), n)
	}
	return tensor.FromSlice(vals, tensor.Shape{n})
}

// decodeFloat16 converts n half-precision elements in the given byte order.
func decodeFloat16(data []byte, n int, order binary.ByteOrder) (*tensor.RawTensor, error) {
	raw, err := tensor.NewRaw(tensor.Shape{n}, tensor.Float16)
	if err != nil {
		return nil, err
	}
	out := raw.AsFloat16()
	for i := range out {
		out[i] = float16.Frombits(order.Uint16(data[2*i:]))
	}
	return raw, nil
}
