// Package trellis implements the rate 3/4 trellis code of DMR confirmed data
// blocks: 144 bits (18 bytes) are coded as 48 tribits plus a flushing tribit,
// mapped onto 49 constellation points of two dibits each.
package trellis

import (
	"fmt"
	"math/bits"

	"github.com/pd0mz/go-trunk/bit"
)

const (
	Size     = 196
	DataSize = 18

	tribits = 48
	points  = tribits + 1
	dibits  = points * 2
)

var (
	// Dibit order on the air, see ETSI TS 102 361-1 page 130.
	interleaveMatrix = [dibits]uint8{
		0, 1, 8, 9, 16, 17, 24, 25, 32, 33, 40, 41, 48, 49, 56, 57, 64, 65, 72, 73, 80, 81, 88, 89, 96, 97,
		2, 3, 10, 11, 18, 19, 26, 27, 34, 35, 42, 43, 50, 51, 58, 59, 66, 67, 74, 75, 82, 83, 90, 91,
		4, 5, 12, 13, 20, 21, 28, 29, 36, 37, 44, 45, 52, 53, 60, 61, 68, 69, 76, 77, 84, 85, 92, 93,
		6, 7, 14, 15, 22, 23, 30, 31, 38, 39, 46, 47, 54, 55, 62, 63, 70, 71, 78, 79, 86, 87, 94, 95,
	}

	// Constellation point for [state*8+tribit], where the state is the
	// previous tribit. See ETSI TS 102 361-1 page 129.
	encoderStateTransition = [64]uint8{
		0, 8, 4, 12, 2, 10, 6, 14,
		4, 12, 2, 10, 6, 14, 0, 8,
		1, 9, 5, 13, 3, 11, 7, 15,
		5, 13, 3, 11, 7, 15, 1, 9,
		3, 11, 7, 15, 1, 9, 5, 13,
		7, 15, 1, 9, 5, 13, 3, 11,
		2, 10, 6, 14, 0, 8, 4, 12,
		6, 14, 0, 8, 4, 12, 2, 10,
	}

	// Deviation symbol pair of each constellation point.
	constellation = [16][2]int8{
		{+1, -1}, {-1, -1}, {+3, -3}, {-3, -3},
		{-3, -1}, {+3, -1}, {-1, -3}, {+1, -3},
		{-3, +3}, {+3, +3}, {-1, +1}, {+1, +1},
		{+1, +3}, {-1, +3}, {+3, +1}, {-3, +1},
	}

	// pointDebits is the constellation as two dibits packed in a nibble.
	pointDebits [16]uint8
)

func init() {
	for p, pair := range constellation {
		a, okA := bit.DebitFromSymbol(pair[0])
		b, okB := bit.DebitFromSymbol(pair[1])
		if !okA || !okB {
			panic(fmt.Sprintf("trellis: invalid constellation point %d", p))
		}
		pointDebits[p] = uint8(a)<<2 | uint8(b)
	}
}

// Encode 18 bytes into 196 bits.
func Encode(data []byte) (bit.Bits, error) {
	if len(data) != DataSize {
		return nil, fmt.Errorf("trellis: expected %d bytes, got %d", DataSize, len(data))
	}

	var (
		in    = bit.NewBits(data)
		d     = make(bit.Debits, dibits)
		state uint8
	)
	for i := 0; i < points; i++ {
		var tribit uint8
		if i < tribits {
			tribit = uint8(in[i*3 : i*3+3].Uint())
		}
		p := pointDebits[encoderStateTransition[state*8+tribit]]
		d[i*2] = bit.Debit(p >> 2)
		d[i*2+1] = bit.Debit(p & 0x03)
		state = tribit
	}

	var out = make(bit.Debits, dibits)
	for i := range out {
		out[i] = d[interleaveMatrix[i]]
	}
	return out.Bits(), nil
}

// Decode 196 bits into 18 bytes. The most likely tribit path is picked, so
// dibit errors are repaired where the code allows; distance is the number of
// received bits that differ from the re-encoded path. Callers must check the
// block CRC.
func Decode(in bit.Bits) (data []byte, distance int, err error) {
	if len(in) != Size {
		return nil, 0, fmt.Errorf("trellis: expected %d bits, got %d", Size, len(in))
	}

	var (
		received = bit.NewDebits(in)
		d        = make(bit.Debits, dibits)
	)
	for i := range received {
		d[interleaveMatrix[i]] = received[i]
	}

	const inf = 1 << 30
	var (
		metric [8]int
		back   [points][8]uint8
	)
	for s := 1; s < 8; s++ {
		metric[s] = inf
	}
	for i := 0; i < points; i++ {
		var (
			got  = uint8(d[i*2])<<2 | uint8(d[i*2+1])
			next [8]int
		)
		for s := range next {
			next[s] = inf
		}
		for s := 0; s < 8; s++ {
			if metric[s] == inf {
				continue
			}
			for t := 0; t < 8; t++ {
				if i == tribits && t != 0 {
					// Flushing tribit.
					break
				}
				p := pointDebits[encoderStateTransition[s*8+t]]
				m := metric[s] + bits.OnesCount8(p^got)
				if m < next[t] {
					next[t] = m
					back[i][t] = uint8(s)
				}
			}
		}
		metric = next
	}

	var (
		path  [tribits]uint8
		state uint8
	)
	for i := points - 1; i > 0; i-- {
		state = back[i][state]
		path[i-1] = state
	}

	var out = make(bit.Bits, 0, DataSize*8)
	for _, t := range path {
		out = append(out, bit.UintBits(uint64(t), 3)...)
	}
	return out.Bytes(), metric[0], nil
}
