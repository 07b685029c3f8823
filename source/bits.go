// Package source reads demodulated bit streams and network captures and
// turns them into DMR frames.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/op/go-logging"

	"github.com/pd0mz/go-trunk/bit"
)

var log = logging.MustGetLogger("source")

// Format of a demodulated bit stream.
type Format uint8

const (
	// Packed holds eight bits per byte, MSB first.
	Packed Format = iota
	// Unpacked holds one bit per byte.
	Unpacked
	// Text holds ASCII '0' and '1', white space is ignored.
	Text
	// Symbols holds one signed 4FSK symbol (+3, +1, -1 or -3) per byte.
	Symbols
)

var formatName = map[Format]string{
	Packed:   "packed",
	Unpacked: "unpacked",
	Text:     "text",
	Symbols:  "symbols",
}

func (f Format) String() string {
	if s, ok := formatName[f]; ok {
		return s
	}
	return fmt.Sprintf("format %d", uint8(f))
}

// ParseFormat returns the Format by its name.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatName {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("source: unknown bit stream format %q", s)
}

// BitWriter consumes unpacked bits, such as a dmr.Framer.
type BitWriter interface {
	WriteBits(bit.Bits)
}

// InputError reports an invalid byte in a bit stream.
type InputError struct {
	Format Format
	Offset int64
	Value  byte
}

func (e *InputError) Error() string {
	return fmt.Sprintf("source: invalid %s input 0x%02x at offset %d", e.Format, e.Value, e.Offset)
}

const chunkSize = 4096

// CopyBits decodes r in the given format and feeds the bits to w until r is
// exhausted or ctx is done. It returns the number of bits written.
func CopyBits(ctx context.Context, w BitWriter, r io.Reader, format Format) (int64, error) {
	if _, ok := formatName[format]; !ok {
		return 0, fmt.Errorf("source: unknown bit stream format %d", format)
	}

	var (
		br     = bufio.NewReaderSize(r, chunkSize)
		chunk  = make([]byte, chunkSize)
		bits   = make(bit.Bits, 0, chunkSize*8)
		offset int64
		total  int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := br.Read(chunk)
		if n > 0 {
			bits = bits[:0]
			var derr error
			if bits, derr = appendBits(bits, chunk[:n], format, offset); derr != nil {
				return total, derr
			}
			offset += int64(n)
			total += int64(len(bits))
			w.WriteBits(bits)
		}
		if errors.Is(err, io.EOF) {
			log.Debugf("%s stream: %d bytes, %d bits", format, offset, total)
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

func appendBits(bits bit.Bits, p []byte, format Format, offset int64) (bit.Bits, error) {
	switch format {
	case Packed:
		return append(bits, bit.NewBits(p)...), nil

	case Unpacked:
		for i, b := range p {
			if b > 1 {
				return bits, &InputError{Format: format, Offset: offset + int64(i), Value: b}
			}
			bits = append(bits, bit.Bit(b))
		}

	case Text:
		for i, b := range p {
			switch b {
			case '0', '1':
				bits = append(bits, bit.Bit(b-'0'))
			case ' ', '\t', '\r', '\n':
			default:
				return bits, &InputError{Format: format, Offset: offset + int64(i), Value: b}
			}
		}

	case Symbols:
		var dibits = make(bit.Debits, 0, len(p))
		for i, b := range p {
			d, ok := bit.DebitFromSymbol(int8(b))
			if !ok {
				return bits, &InputError{Format: format, Offset: offset + int64(i), Value: b}
			}
			dibits = append(dibits, d)
		}
		bits = append(bits, dibits.Bits()...)
	}
	return bits, nil
}
