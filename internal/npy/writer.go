package npy

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/born-ml/dataset/internal/tensor"
)

// Write encodes raw as a .npy stream in C order and host byte order.
// Version 1.0 is used unless the header is too long for it.
func Write(w io.Writer, raw *tensor.RawTensor) error {
	dict := dictLiteral(descrFor(raw.DType(), binary.NativeEndian), false, raw.Shape())
	if err := writeHeader(w, dict); err != nil {
		return err
	}
	if _, err := w.Write(raw.Data()[:raw.ByteSize()]); err != nil {
		return fmt.Errorf("failed to write array data: %w", err)
	}
	return nil
}

// writeHeader writes the preamble and the padded, newline-terminated dict.
func writeHeader(w io.Writer, dict string) error {
	major := byte(1)
	preamble := preambleV1
	if padded(preambleV1, len(dict)) > MaxHeaderLenV1 {
		major = 2
		preamble = preambleV2
	}
	headerLen := padded(preamble, len(dict))
	header := dict + strings.Repeat(" ", headerLen-len(dict)-1) + "\n"

	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if _, err := w.Write([]byte{major, 0}); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}

	var err error
	if major == 1 {
		err = binary.Write(w, binary.LittleEndian, uint16(headerLen)) //nolint:gosec // G115: bounded by MaxHeaderLenV1
	} else {
		err = binary.Write(w, binary.LittleEndian, uint32(headerLen)) //nolint:gosec // G115: header is a few KB at most
	}
	if err != nil {
		return fmt.Errorf("failed to write header length: %w", err)
	}

	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// Save writes raw to path, replacing any existing file.
func Save(path string, raw *tensor.RawTensor) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for dataset saving
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := Write(bw, raw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush: %w", err)
	}
	return f.Close()
}

// padded returns the header length (dict plus padding and trailing newline)
// that aligns preamble+header to HeaderAlignment.
func padded(preamble, dictLen int) int {
	total := preamble + dictLen + 1
	total += (HeaderAlignment - total%HeaderAlignment) % HeaderAlignment
	return total - preamble
}
