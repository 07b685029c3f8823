// Package bptc implements the BPTC(196,96) Block Product Turbo Code.
//
// The 96 data bits are placed in a 13 by 15 matrix, following a reserved bit
// R(3). Rows 0 to 8 are Hamming(15,11) codewords, all 15 columns are
// Hamming(13,9) codewords. The matrix is interleaved for transmission.
package bptc

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
)

const (
	Size     = 196
	DataSize = 96

	rows    = 13
	columns = 15

	// Passes of alternating column and row correction.
	passes = 4
)

// Deinterleave reorders 196 received bits into matrix order.
func Deinterleave(r bit.Bits) bit.Bits {
	var d = make(bit.Bits, Size)
	for a := range d {
		d[a] = r[(a*181)%Size]
	}
	return d
}

// Interleave reorders 196 matrix bits into transmission order.
func Interleave(d bit.Bits) bit.Bits {
	var r = make(bit.Bits, Size)
	for a := range d[:Size] {
		r[(a*181)%Size] = d[a]
	}
	return r
}

// Position 0 is R(3), the matrix starts at 1.
func row(r int) (start, end int) { return r*columns + 1, r*columns + columns + 1 }

func cell(r, c int) int { return r*columns + c + 1 }

func column(m bit.Bits, c int) bit.Bits {
	var o = make(bit.Bits, rows)
	for r := range o {
		o[r] = m[cell(r, c)]
	}
	return o
}

// Extract the data bits from a deinterleaved matrix. The first row starts
// after the reserved bits R(2), R(1) and R(0).
func Extract(m bit.Bits) bit.Bits {
	var o = make(bit.Bits, 0, DataSize)
	o = append(o, m[4:12]...)
	for r := 1; r < 9; r++ {
		start, _ := row(r)
		o = append(o, m[start:start+11]...)
	}
	return o
}

// Encode 96 data bits to 196 interleaved bits.
func Encode(data bit.Bits) bit.Bits {
	if len(data) < DataSize {
		panic(fmt.Sprintf("bptc: expected %d data bits, got %d", DataSize, len(data)))
	}

	var m = make(bit.Bits, Size)
	copy(m[4:12], data[:8])
	for r, p := 1, 8; r < 9; r, p = r+1, p+11 {
		start, _ := row(r)
		copy(m[start:start+11], data[p:p+11])
	}
	for r := 0; r < 9; r++ {
		start, end := row(r)
		copy(m[start:end], fec.Hamming15113.Encode(m[start:end]))
	}
	for c := 0; c < columns; c++ {
		word := fec.Hamming1393.Encode(column(m, c))
		for r := 9; r < rows; r++ {
			m[cell(r, c)] = word[r]
		}
	}
	return Interleave(m)
}

// Decode deinterleaves 196 received bits and repairs bit errors. It returns
// the data bits and the number of repaired bits.
func Decode(bits bit.Bits) (bit.Bits, int, error) {
	if len(bits) != Size {
		return nil, 0, fmt.Errorf("bptc: expected %d bits, got %d", Size, len(bits))
	}

	var (
		m     = Deinterleave(bits)
		fixed int
	)
	for pass := 0; pass < passes; pass++ {
		var n int
		for c := 0; c < columns; c++ {
			word := column(m, c)
			if f, ok := fec.Hamming1393.Correct(word); ok && f > 0 {
				for r := range word {
					m[cell(r, c)] = word[r]
				}
				n += f
			}
		}
		for r := 0; r < 9; r++ {
			start, end := row(r)
			if f, ok := fec.Hamming15113.Correct(m[start:end]); ok {
				n += f
			}
		}
		if fixed += n; n == 0 {
			break
		}
	}

	for c := 0; c < columns; c++ {
		if !fec.Hamming1393.Check(column(m, c)) {
			return nil, fixed, fmt.Errorf("bptc: column %d: %w", c, fec.ErrUncorrectable)
		}
	}
	for r := 0; r < 9; r++ {
		start, end := row(r)
		if !fec.Hamming15113.Check(m[start:end]) {
			return nil, fixed, fmt.Errorf("bptc: row %d: %w", r, fec.ErrUncorrectable)
		}
	}

	return Extract(m), fixed, nil
}
