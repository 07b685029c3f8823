package bit

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

var (
	ErrFrozen       = errors.New("bit: buffer is frozen")
	ErrVerdictFinal = errors.New("bit: verdict is final")
)

// IndexError is returned for a bit index outside of the buffer.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("bit: index %d out of range [0,%d)", e.Index, e.Len)
}

// RangeError is returned for an inclusive bit range that is empty, falls
// outside of the buffer or does not fit the requested integer width.
type RangeError struct {
	Start, End int
	Len        int
	Width      int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("bit: range [%d,%d] invalid for %d bit buffer and %d bit value", e.Start, e.End, e.Len, e.Width)
}

// Buffer is a fixed capacity bit sequence as received over the air, with the
// bookkeeping of the error detection and correction applied to it.
//
// A Buffer is owned by a single goroutine until Freeze is called, after which
// it may be shared with any number of readers.
type Buffer struct {
	words     []uint64
	size      int
	corrected int
	verdict   Verdict
	frozen    bool
}

// NewBuffer returns an all zero buffer of size bits.
func NewBuffer(size int) *Buffer {
	if size < 0 {
		size = 0
	}
	return &Buffer{
		words: make([]uint64, (size+63)/64),
		size:  size,
	}
}

// FromBytes returns a buffer holding the bits of data, MSB first.
func FromBytes(data []byte) *Buffer {
	b := NewBuffer(len(data) * 8)
	for i, v := range data {
		for j := 0; j < 8; j++ {
			if v&(0x80>>uint(j)) != 0 {
				b.set(i*8 + j)
			}
		}
	}
	return b
}

// FromBits returns a buffer holding a copy of in.
func FromBits(in Bits) *Buffer {
	b := NewBuffer(len(in))
	for i, v := range in {
		if v&0x01 == 0x01 {
			b.set(i)
		}
	}
	return b
}

// Len is the capacity of the buffer in bits.
func (b *Buffer) Len() int { return b.size }

func (b *Buffer) check(i int) error {
	if i < 0 || i >= b.size {
		return &IndexError{Index: i, Len: b.size}
	}
	return nil
}

func (b *Buffer) test(i int) bool { return b.words[i>>6]&(1<<(uint(i)&63)) != 0 }
func (b *Buffer) set(i int)       { b.words[i>>6] |= 1 << (uint(i) & 63) }
func (b *Buffer) clear(i int)     { b.words[i>>6] &^= 1 << (uint(i) & 63) }
func (b *Buffer) flip(i int)      { b.words[i>>6] ^= 1 << (uint(i) & 63) }

func (b *Buffer) mutable(i int) error {
	if b.frozen {
		return ErrFrozen
	}
	return b.check(i)
}

// Get returns bit i.
func (b *Buffer) Get(i int) (bool, error) {
	if err := b.check(i); err != nil {
		return false, err
	}
	return b.test(i), nil
}

// Bit returns bit i. Like indexing a slice it panics, with an *IndexError,
// when i is out of range.
func (b *Buffer) Bit(i int) bool {
	if err := b.check(i); err != nil {
		panic(err)
	}
	return b.test(i)
}

func (b *Buffer) Set(i int) error {
	if err := b.mutable(i); err != nil {
		return err
	}
	b.set(i)
	return nil
}

func (b *Buffer) Clear(i int) error {
	if err := b.mutable(i); err != nil {
		return err
	}
	b.clear(i)
	return nil
}

func (b *Buffer) Flip(i int) error {
	if err := b.mutable(i); err != nil {
		return err
	}
	b.flip(i)
	return nil
}

// SetUint writes the width least significant bits of v at start, MSB first.
func (b *Buffer) SetUint(start, width int, v uint64) error {
	if b.frozen {
		return ErrFrozen
	}
	end := start + width - 1
	if start < 0 || width < 1 || width > 64 || end >= b.size {
		return &RangeError{Start: start, End: end, Len: b.size, Width: 64}
	}
	for i := 0; i < width; i++ {
		if v>>uint(width-1-i)&0x01 == 0x01 {
			b.set(start + i)
		} else {
			b.clear(start + i)
		}
	}
	return nil
}

// NextSetBit returns the index of the first set bit at or after from, or -1
// if there is none.
func (b *Buffer) NextSetBit(from int) int {
	if from < 0 {
		from = 0
	}
	if from >= b.size {
		return -1
	}
	w := from >> 6
	word := b.words[w] & (^uint64(0) << (uint(from) & 63))
	for {
		if word != 0 {
			i := w<<6 + bits.TrailingZeros64(word)
			if i >= b.size {
				return -1
			}
			return i
		}
		if w++; w >= len(b.words) {
			return -1
		}
		word = b.words[w]
	}
}

// SetBits iterates the indexes of the set bits in [from, to), in order. The
// sequence is lazy and may be ranged over any number of times.
func (b *Buffer) SetBits(from, to int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := b.NextSetBit(from); i >= 0 && i < to; i = b.NextSetBit(i + 1) {
			if !yield(i) {
				return
			}
		}
	}
}

// Count returns the number of set bits.
func (b *Buffer) Count() int {
	var n int
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b *Buffer) uint(start, end, width int) (uint64, error) {
	if start < 0 || end < start || end >= b.size || end-start+1 > width {
		return 0, &RangeError{Start: start, End: end, Len: b.size, Width: width}
	}
	var v uint64
	for i := start; i <= end; i++ {
		v <<= 1
		if b.test(i) {
			v |= 1
		}
	}
	return v, nil
}

// Uint returns the inclusive range [start, end] as an unsigned integer, MSB
// first.
func (b *Buffer) Uint(start, end int) (uint64, error) {
	return b.uint(start, end, 64)
}

func (b *Buffer) Uint32(start, end int) (uint32, error) {
	v, err := b.uint(start, end, 32)
	return uint32(v), err
}

func (b *Buffer) Uint16(start, end int) (uint16, error) {
	v, err := b.uint(start, end, 16)
	return uint16(v), err
}

// Slice copies the bits in [start, end).
func (b *Buffer) Slice(start, end int) (Bits, error) {
	if start < 0 || end < start || end > b.size {
		return nil, &RangeError{Start: start, End: end - 1, Len: b.size, Width: end - start}
	}
	var o = make(Bits, end-start)
	for i := range o {
		if b.test(start + i) {
			o[i] = 1
		}
	}
	return o, nil
}

// Bits copies the whole buffer.
func (b *Buffer) Bits() Bits {
	o, _ := b.Slice(0, b.size)
	return o
}

// Bytes packs the buffer MSB first, zero padding the last byte.
func (b *Buffer) Bytes() []byte {
	return b.Bits().Bytes()
}

// Clone returns an unfrozen copy including the correction bookkeeping.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		words:     make([]uint64, len(b.words)),
		size:      b.size,
		corrected: b.corrected,
		verdict:   b.verdict,
	}
	copy(c.words, b.words)
	return c
}

// Equal compares the bits of two buffers, ignoring bookkeeping.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.size != other.size {
		return false
	}
	for i := range b.words {
		if b.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// IncrementCorrected adds n to the correction counter. The counter never
// decreases.
func (b *Buffer) IncrementCorrected(n int) error {
	if b.frozen {
		return ErrFrozen
	}
	if n < 0 {
		return fmt.Errorf("bit: negative correction count %d", n)
	}
	b.corrected += n
	return nil
}

// Corrected is the number of bits flipped by error correction, where 2 also
// denotes an uncorrectable error.
func (b *Buffer) Corrected() int { return b.corrected }

// SetVerdict records the outcome of a validation pass. Passed and Failed are
// final.
func (b *Buffer) SetVerdict(v Verdict) error {
	switch {
	case b.frozen:
		return ErrFrozen
	case b.verdict.Final():
		return ErrVerdictFinal
	case v == Unchecked || v > Failed:
		return fmt.Errorf("bit: invalid verdict %s", v)
	}
	b.verdict = v
	return nil
}

func (b *Buffer) Verdict() Verdict { return b.verdict }

// Freeze turns the buffer read-only.
func (b *Buffer) Freeze() { b.frozen = true }

func (b *Buffer) Frozen() bool { return b.frozen }

func (b *Buffer) String() string {
	var s strings.Builder
	s.Grow(b.size)
	for i := 0; i < b.size; i++ {
		if b.test(i) {
			s.WriteByte('1')
		} else {
			s.WriteByte('0')
		}
	}
	return s.String()
}
