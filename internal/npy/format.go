package npy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/dataset/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "\x93NUMPY"
	HeaderAlignment = 64    // Total preamble + header length is a multiple of 64
	MaxHeaderLenV1  = 65535 // Header length limit of format version 1.0
	preambleV1      = 10    // magic + version + uint16 header length
	preambleV2      = 12    // magic + version + uint32 header length
)

// Header describes the array stored in a .npy file.
type Header struct {
	Major   byte            // Format major version
	Minor   byte            // Format minor version
	Descr   string          // Element descriptor, e.g. "<f8"
	DType   tensor.DataType // Element type decoded from Descr
	Fortran bool            // Column-major data on disk
	Shape   tensor.Shape    // Array shape
}

// ByteSize returns the size of the data section.
func (h Header) ByteSize() int {
	return h.Shape.NumElements() * h.DType.Size()
}

// hostOrder is the descriptor byte-order character for this machine.
var hostOrder = func() byte {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return '<'
	}
	return '>'
}()

// descrCodes maps NumPy type codes (without the byte-order prefix) to data types.
var descrCodes = map[string]tensor.DataType{
	"b1": tensor.Bool,
	"?":  tensor.Bool,
	"i1": tensor.Int8,
	"i2": tensor.Int16,
	"i4": tensor.Int32,
	"i8": tensor.Int64,
	"u1": tensor.Uint8,
	"u2": tensor.Uint16,
	"u4": tensor.Uint32,
	"u8": tensor.Uint64,
	"f2": tensor.Float16,
	"f4": tensor.Float32,
	"f8": tensor.Float64,
}

// parseDescr splits a descriptor such as "<f4" into its data type and byte order.
// '|' (not applicable) and '=' (native) both resolve to the host order.
func parseDescr(descr string) (tensor.DataType, binary.ByteOrder, error) {
	code := descr
	var order binary.ByteOrder = binary.NativeEndian
	if descr != "" {
		switch descr[0] {
		case '<':
			order = binary.LittleEndian
			code = descr[1:]
		case '>':
			order = binary.BigEndian
			code = descr[1:]
		case '|', '=':
			code = descr[1:]
		}
	}

	dt, ok := descrCodes[code]
	if !ok {
		return 0, nil, fmt.Errorf("unsupported dtype descriptor %q", descr)
	}
	return dt, order, nil
}

// descrFor returns the descriptor for dt stored in the given byte order.
func descrFor(dt tensor.DataType, order binary.ByteOrder) string {
	switch dt {
	case tensor.Bool:
		return "|b1"
	case tensor.Int8:
		return "|i1"
	case tensor.Uint8:
		return "|u1"
	}
	kind := "i"
	switch {
	case dt.IsFloat():
		kind = "f"
	case dt == tensor.Uint16 || dt == tensor.Uint32 || dt == tensor.Uint64:
		kind = "u"
	}
	prefix := hostOrder
	switch order {
	case binary.LittleEndian:
		prefix = '<'
	case binary.BigEndian:
		prefix = '>'
	}
	return fmt.Sprintf("%c%s%d", prefix, kind, dt.Size())
}

// shapeLiteral renders a shape as a Python tuple literal.
func shapeLiteral(shape tensor.Shape) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return fmt.Sprintf("(%d,)", shape[0])
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// dictLiteral renders the header dictionary in the key order NumPy writes.
func dictLiteral(descr string, fortran bool, shape tensor.Shape) string {
	order := "False"
	if fortran {
		order = "True"
	}
	return fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", descr, order, shapeLiteral(shape))
}

// headerBounds returns the byte range of the header text that follows the
// preamble. The end of the range is the offset of the array data.
func headerBounds(data []byte) (start, end int, err error) {
	if len(data) < preambleV1 || string(data[:len(MagicBytes)]) != MagicBytes {
		return 0, 0, fmt.Errorf("missing %q magic", MagicBytes)
	}
	switch data[6] {
	case 1:
		start, end = preambleV1, preambleV1+int(binary.LittleEndian.Uint16(data[8:10]))
	case 2, 3:
		if len(data) < preambleV2 {
			return 0, 0, fmt.Errorf("truncated preamble: %d bytes", len(data))
		}
		n := binary.LittleEndian.Uint32(data[8:12])
		if uint64(n) > uint64(len(data)-preambleV2) {
			return 0, 0, fmt.Errorf("header extends beyond file: header_len=%d, file_size=%d", n, len(data))
		}
		start, end = preambleV2, preambleV2+int(n)
	default:
		return 0, 0, fmt.Errorf("unsupported format version %d.%d", data[6], data[7])
	}
	if end > len(data) {
		return 0, 0, fmt.Errorf("header extends beyond file: header_end=%d, file_size=%d", end, len(data))
	}
	return start, end, nil
}

// headerDict holds the three keys of a .npy header.
type headerDict struct {
	descr   string
	fortran bool
	shape   tensor.Shape
}

var headerKeys = []string{"descr", "fortran_order", "shape"}

// parseHeader parses the header text: a Python dict literal with exactly the
// keys descr, fortran_order and shape in any order, terminated by a newline.
//
//nolint:gocyclo,cyclop // one branch per token
func parseHeader(text string) (headerDict, error) {
	var h headerDict
	if !strings.HasSuffix(text, "\n") {
		return h, errors.New("header is not newline-terminated")
	}

	p := &headerParser{s: text}
	if err := p.expect('{'); err != nil {
		return h, err
	}

	seen := make(map[string]bool, len(headerKeys))
	for closed := false; !closed; {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			break
		}

		key, err := p.str()
		if err != nil {
			return h, err
		}
		if seen[key] {
			return h, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true
		if err := p.expect(':'); err != nil {
			return h, err
		}

		switch key {
		case "descr":
			h.descr, err = p.str()
		case "fortran_order":
			h.fortran, err = p.boolean()
		case "shape":
			h.shape, err = p.tuple()
		default:
			err = fmt.Errorf("unexpected key %q", key)
		}
		if err != nil {
			return h, err
		}

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			closed = true
		default:
			return h, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}

	if rest := strings.TrimSpace(p.s[p.pos:]); rest != "" {
		return h, fmt.Errorf("unexpected %q after header dict", rest)
	}
	for _, key := range headerKeys {
		if !seen[key] {
			return h, fmt.Errorf("missing key %q", key)
		}
	}
	return h, nil
}

// headerParser scans the literal tokens a .npy header may contain.
type headerParser struct {
	s   string
	pos int
}

func (p *headerParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

func (p *headerParser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *headerParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *headerParser) str() (string, error) {
	p.skipSpace()
	q := p.peek()
	if q != '\'' && q != '"' {
		return "", fmt.Errorf("expected string at offset %d", p.pos)
	}
	n := strings.IndexByte(p.s[p.pos+1:], q)
	if n < 0 {
		return "", fmt.Errorf("unterminated string at offset %d", p.pos)
	}
	v := p.s[p.pos+1 : p.pos+1+n]
	p.pos += n + 2
	return v, nil
}

func (p *headerParser) boolean() (bool, error) {
	p.skipSpace()
	switch rest := p.s[p.pos:]; {
	case strings.HasPrefix(rest, "True"):
		p.pos += len("True")
		return true, nil
	case strings.HasPrefix(rest, "False"):
		p.pos += len("False")
		return false, nil
	}
	return false, fmt.Errorf("expected True or False at offset %d", p.pos)
}

func (p *headerParser) tuple() (tensor.Shape, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	shape := tensor.Shape{}
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			return shape, nil
		}

		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
		dim, err := strconv.Atoi(p.s[start:p.pos])
		if err != nil {
			return nil, fmt.Errorf("invalid dimension at offset %d: %w", start, err)
		}
		if p.peek() == 'L' {
			p.pos++ // Python 2 long suffix
		}
		shape = append(shape, dim)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return shape, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d", p.pos)
		}
	}
}
