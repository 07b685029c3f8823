// Package bit contains bit level containers used by the decoders.
package bit

import "strings"

type Bit byte

func (b *Bit) Flip() {
	(*b) ^= 0x01
}

// Bits is an unpacked bit sequence, one bit per element, MSB first.
type Bits []Bit

func toBits(b byte) Bits {
	var o = make(Bits, 8)
	for bit, mask := 0, byte(128); bit < 8; bit, mask = bit+1, mask>>1 {
		if b&mask != 0 {
			o[bit] = 1
		}
	}
	return o
}

func NewBits(bytes []byte) Bits {
	var o = make(Bits, 0, len(bytes)*8)
	for _, b := range bytes {
		o = append(o, toBits(b)...)
	}
	return o
}

// UintBits returns the n least significant bits of v, MSB first.
func UintBits(v uint64, n int) Bits {
	var o = make(Bits, n)
	for i := 0; i < n; i++ {
		o[i] = Bit(v>>uint(n-1-i)) & 0x01
	}
	return o
}

// Uint packs the bits into an integer, MSB first. Only the last 64 bits count.
func (bits Bits) Uint() uint64 {
	var v uint64
	for _, b := range bits {
		v = v<<1 | uint64(b&0x01)
	}
	return v
}

func (bits Bits) Bytes() []byte {
	var o = make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b&0x01 == 0x01 {
			o[i/8] |= (1 << byte(7-(i%8)))
		}
	}
	return o
}

func (bits Bits) Equal(other Bits) bool {
	if len(bits) != len(other) {
		return false
	}
	for i := range bits {
		if bits[i]&0x01 != other[i]&0x01 {
			return false
		}
	}
	return true
}

func (bits Bits) String() string {
	var s strings.Builder
	s.Grow(len(bits))
	for _, b := range bits {
		if b&0x01 == 0x01 {
			s.WriteByte('1')
		} else {
			s.WriteByte('0')
		}
	}
	return s.String()
}
