// Package crc implements table driven checksum validation and single bit error
// correction for the trunked radio protocols.
//
// A syndrome table holds, for every protected bit position, the checksum
// contribution of that bit. The checksum of a message is the XOR of the table
// entries of its set bits, and the XOR of the calculated and the transmitted
// checksum (the residual) of a message with one bit error equals the table
// entry of the erroneous bit.
//
// Tables are immutable after package initialization and safe for concurrent
// use. Buffers are not; validate each Buffer from one goroutine.
package crc

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
)

// Table is a syndrome table for a checksum of Width bits.
type Table struct {
	width   int
	mask    uint32
	entries []uint32
	index   map[uint32]int
}

// NewTable checks and indexes the syndromes. Every entry must be unique, fit
// the width and differ from both no-error residuals (zero and all ones).
func NewTable(width int, entries []uint32) (*Table, error) {
	if width < 1 || width > 32 {
		return nil, fmt.Errorf("crc: unsupported width %d", width)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("crc: empty %d bit table", width)
	}

	var t = &Table{
		width:   width,
		mask:    uint32(1)<<uint(width-1)<<1 - 1,
		entries: make([]uint32, len(entries)),
		index:   make(map[uint32]int, len(entries)),
	}
	for i, e := range entries {
		if e&^t.mask != 0 || t.pass(e) {
			return nil, fmt.Errorf("crc: entry %d (%#x) invalid for a %d bit table", i, e, width)
		}
		if j, dup := t.index[e]; dup {
			return nil, fmt.Errorf("crc: entries %d and %d share syndrome %#x", j, i, e)
		}
		t.index[e] = i
	}
	copy(t.entries, entries)
	return t, nil
}

// MustTable is like NewTable but panics on a malformed table. A process must
// not run with a corrupted table.
func MustTable(width int, entries []uint32) *Table {
	t, err := NewTable(width, entries)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Width() int { return t.width }
func (t *Table) Len() int   { return len(t.entries) }

// At returns the syndrome of bit position p.
func (t *Table) At(p int) uint32 { return t.entries[p] }

// Locate returns the bit position whose syndrome equals residual.
func (t *Table) Locate(residual uint32) (int, bool) {
	p, ok := t.index[residual]
	return p, ok
}

// pass reports whether residual is in the no-error class.
func (t *Table) pass(residual uint32) bool {
	return residual == 0 || residual == t.mask
}

// Syndromes generates the syndromes x^(width+n-1-i) mod g(x) of an n bit
// message, for i in [0, n). The polynomial is given without its x^width term.
func Syndromes(poly uint32, width, n int) []uint32 {
	var (
		top  = uint32(1) << uint(width-1)
		mask = top<<1 - 1
		out  = make([]uint32, n)
		r    = poly & mask
	)
	for i := n - 1; i >= 0; i-- {
		out[i] = r
		if r&top != 0 {
			r = (r<<1)&mask ^ poly
		} else {
			r = (r << 1) & mask
		}
	}
	return out
}

func validatable(b *bit.Buffer) error {
	switch {
	case b.Frozen():
		return bit.ErrFrozen
	case b.Verdict().Final():
		return bit.ErrVerdictFinal
	}
	return nil
}

// correct applies the residual of a single validation pass to a message
// starting at messageStart.
func (t *Table) correct(b *bit.Buffer, residual uint32, messageStart int) (bit.Verdict, error) {
	if t.pass(residual) {
		return bit.Passed, b.SetVerdict(bit.Passed)
	}

	if p, ok := t.Locate(residual); ok {
		if err := b.Flip(messageStart + p); err != nil {
			return bit.Unchecked, err
		}
		if err := b.IncrementCorrected(1); err != nil {
			return bit.Unchecked, err
		}
		return bit.Corrected, b.SetVerdict(bit.Corrected)
	}

	// Two or more bit errors, which this code can not correct.
	if err := b.IncrementCorrected(2); err != nil {
		return bit.Unchecked, err
	}
	return bit.Failed, b.SetVerdict(bit.Failed)
}
