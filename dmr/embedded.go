package dmr

import (
	"errors"
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
	"github.com/pd0mz/go-trunk/lc"
)

// The embedded Link Control is spread over the embedded signalling of voice
// bursts B to E, as a variable length BPTC of 8 rows by 16 columns. Rows 0
// to 6 are Hamming(16,11,4) code words, row 7 holds the column parity.
const (
	embeddedRows      = 8
	embeddedColumns   = 16
	embeddedDataBits  = 11
	EmbeddedLCBits    = embeddedRows * embeddedColumns
	EmbeddedFragments = EmbeddedLCBits / EMBSignallingLCFragmentBits

	embeddedChecksumBits = 5
	embeddedChecksumRow  = 2
)

var (
	ErrEmbeddedParity   = errors.New("dmr: embedded LC column parity error")
	ErrEmbeddedChecksum = errors.New("dmr: embedded LC checksum error")
)

// The matrix is filled column by column.
func embeddedCell(row, col int) int { return col*embeddedRows + row }

func embeddedRow(bits bit.Bits, row int) bit.Bits {
	var out = make(bit.Bits, embeddedColumns)
	for c := range out {
		out[c] = bits[embeddedCell(row, c)]
	}
	return out
}

// embeddedLCCells lists the 72 LC bit positions, followed by the 5 checksum
// bits, in transmission order.
func embeddedLCCells() (data, checksum []int) {
	for r := 0; r < embeddedRows-1; r++ {
		for c := 0; c < embeddedDataBits; c++ {
			if r >= embeddedChecksumRow && c == embeddedDataBits-1 {
				checksum = append(checksum, embeddedCell(r, c))
				continue
			}
			data = append(data, embeddedCell(r, c))
		}
	}
	return
}

func embeddedChecksum(data []byte) uint64 {
	var sum int
	for _, b := range data {
		sum += int(b)
	}
	return uint64(sum % 31)
}

// DecodeEmbeddedLC repairs and decodes the 128 bits of a complete embedded
// Link Control. It returns the number of corrected bits.
func DecodeEmbeddedLC(bits bit.Bits) (*lc.LC, int, error) {
	if len(bits) != EmbeddedLCBits {
		return nil, 0, fmt.Errorf("dmr: expected %d embedded LC bits, got %d", EmbeddedLCBits, len(bits))
	}

	var (
		m     = append(bit.Bits(nil), bits...)
		fixed int
	)
	for r := 0; r < embeddedRows-1; r++ {
		word := embeddedRow(m, r)
		f, ok := fec.Hamming16114.Correct(word)
		if !ok {
			return nil, fixed, fmt.Errorf("dmr: embedded LC row %d: %w", r, fec.ErrUncorrectable)
		}
		for c := range word {
			m[embeddedCell(r, c)] = word[c]
		}
		fixed += f
	}
	for c := 0; c < embeddedColumns; c++ {
		var parity bit.Bit
		for r := 0; r < embeddedRows; r++ {
			parity ^= m[embeddedCell(r, c)]
		}
		if parity != 0 {
			return nil, fixed, fmt.Errorf("%w in column %d", ErrEmbeddedParity, c)
		}
	}

	var (
		dataCells, checksumCells = embeddedLCCells()
		data                     = make(bit.Bits, len(dataCells))
		checksum                 = make(bit.Bits, len(checksumCells))
	)
	for i, p := range dataCells {
		data[i] = m[p]
	}
	for i, p := range checksumCells {
		checksum[i] = m[p]
	}
	packed := data.Bytes()
	if embeddedChecksum(packed) != checksum.Uint() {
		return nil, fixed, ErrEmbeddedChecksum
	}

	l, err := lc.ParseLC(packed)
	return l, fixed, err
}

// EncodeEmbeddedLC returns the 128 bits carrying l in the embedded signalling
// of a voice superframe.
func EncodeEmbeddedLC(l *lc.LC) bit.Bits {
	packed := l.Bytes()
	return encodeEmbedded(packed, embeddedChecksum(packed))
}

func encodeEmbedded(packed []byte, sum uint64) bit.Bits {
	var (
		data                     = bit.NewBits(packed)
		checksum                 = bit.UintBits(sum, embeddedChecksumBits)
		dataCells, checksumCells = embeddedLCCells()
		m                        = make(bit.Bits, EmbeddedLCBits)
	)
	for i, p := range dataCells {
		m[p] = data[i]
	}
	for i, p := range checksumCells {
		m[p] = checksum[i]
	}
	for r := 0; r < embeddedRows-1; r++ {
		var word = make(bit.Bits, embeddedDataBits)
		for c := range word {
			word[c] = m[embeddedCell(r, c)]
		}
		for c, v := range fec.Hamming16114.Encode(word) {
			m[embeddedCell(r, c)] = v
		}
	}
	for c := 0; c < embeddedColumns; c++ {
		var parity bit.Bit
		for r := 0; r < embeddedRows-1; r++ {
			parity ^= m[embeddedCell(r, c)]
		}
		m[embeddedCell(embeddedRows-1, c)] = parity
	}
	return m
}

// EmbeddedLC collects the embedded signalling fragments of voice bursts B to
// E. The zero value is ready for use.
type EmbeddedLC struct {
	bits bit.Bits
}

// Add stores the fragment carried by a voice burst. Once the last fragment
// arrives the Link Control is decoded and returned, together with the number
// of corrected bits. Fragments received out of sequence discard the partial
// Link Control.
func (e *EmbeddedLC) Add(emb EMB, fragment bit.Bits) (*lc.LC, int, error) {
	if len(fragment) != EMBSignallingLCFragmentBits {
		return nil, 0, fmt.Errorf("dmr: expected %d fragment bits, got %d", EMBSignallingLCFragmentBits, len(fragment))
	}

	switch emb.LCSS {
	case FirstFragment:
		e.bits = append(e.bits[:0], fragment...)
	case Continuation:
		if len(e.bits) == 0 || len(e.bits) >= EmbeddedLCBits-EMBSignallingLCFragmentBits {
			e.Reset()
			return nil, 0, nil
		}
		e.bits = append(e.bits, fragment...)
	case LastFragment:
		if len(e.bits) != EmbeddedLCBits-EMBSignallingLCFragmentBits {
			e.Reset()
			return nil, 0, nil
		}
		bits := append(e.bits, fragment...)
		e.Reset()
		return DecodeEmbeddedLC(bits)
	default:
		// Single fragments carry reverse channel or null signalling.
	}
	return nil, 0, nil
}

// Pending is the number of fragments collected so far.
func (e *EmbeddedLC) Pending() int {
	return len(e.bits) / EMBSignallingLCFragmentBits
}

func (e *EmbeddedLC) Reset() {
	e.bits = e.bits[:0]
}

// SplitEmbeddedLC spreads the embedded Link Control bits over four voice
// bursts, each fragment tagged with its LCSS.
func SplitEmbeddedLC(bits bit.Bits) ([EmbeddedFragments]bit.Bits, [EmbeddedFragments]LCSS) {
	var (
		out  [EmbeddedFragments]bit.Bits
		lcss = [EmbeddedFragments]LCSS{FirstFragment, Continuation, Continuation, LastFragment}
	)
	for i := range out {
		out[i] = fixed(bits[i*EMBSignallingLCFragmentBits:], EMBSignallingLCFragmentBits)
	}
	return out, lcss
}
