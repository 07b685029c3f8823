package fec

import "fmt"

// Reed-Solomon (12,9) over GF(2^8), generator x^3+0x0e*x^2+0x38*x+0x40 with
// roots a, a^2 and a^3. It protects the full link control.
const (
	RS129DataSize     = 9
	RS129ChecksumSize = 3
	RS129Size         = RS129DataSize + RS129ChecksumSize
)

var (
	gfExp [512]uint8
	gfLog [256]uint8
)

func init() {
	// Field polynomial x^8+x^4+x^3+x^2+1.
	var x uint16 = 1
	for i := 0; i < 255; i++ {
		gfExp[i] = uint8(x)
		gfLog[x] = uint8(i)
		if x <<= 1; x&0x100 != 0 {
			x ^= 0x11d
		}
	}
	for i := 255; i < len(gfExp); i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b uint8) uint8 {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

func gfDiv(a, b uint8) uint8 {
	if a == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+255-int(gfLog[b])]
}

// RS129Checksum computes the 3 checksum bytes of 9 data bytes by simulating
// the encoder shift register.
func RS129Checksum(data []byte) [RS129ChecksumSize]byte {
	var c [RS129ChecksumSize]byte
	for i := 0; i < RS129DataSize; i++ {
		f := data[i] ^ c[0]
		c[0] = c[1] ^ gfMul(0x0e, f)
		c[1] = c[2] ^ gfMul(0x38, f)
		c[2] = gfMul(0x40, f)
	}
	return c
}

func rs129Syndromes(word []byte) (s [RS129ChecksumSize]uint8) {
	for j := range s {
		root := gfExp[j+1]
		for _, c := range word[:RS129Size] {
			s[j] = gfMul(s[j], root) ^ c
		}
	}
	return
}

// RS129Correct checks a 12 byte codeword and repairs a single erroneous byte
// in place. Two byte errors are always detected.
func RS129Correct(word []byte) (fixed int, err error) {
	if len(word) != RS129Size {
		return 0, fmt.Errorf("fec: RS(12,9) expected %d bytes, got %d", RS129Size, len(word))
	}

	s := rs129Syndromes(word)
	if s[0] == 0 && s[1] == 0 && s[2] == 0 {
		return 0, nil
	}
	if s[0] == 0 || s[1] == 0 || gfMul(s[2], s[0]) != gfMul(s[1], s[1]) {
		return 0, ErrUncorrectable
	}

	// A single error of value v at power i gives s[j] = v * a^(i*(j+1)).
	var (
		x = gfDiv(s[1], s[0])
		i = int(gfLog[x])
	)
	if i >= RS129Size {
		return 0, ErrUncorrectable
	}
	word[RS129Size-1-i] ^= gfDiv(s[0], x)
	return 1, nil
}
