package crc

import "github.com/pd0mz/go-trunk/bit"

// crc8Poly is x^8+x^2+x+1, highest power first.
var crc8Poly = [9]bool{true, false, false, false, false, false, true, true, true}

// CRC8 divides the first n bits of the buffer by x^8+x^2+x+1 and returns the
// remainder, MSB first. The caller compares it against the expected value.
func CRC8(b *bit.Buffer, n int) (uint8, error) {
	if n < 0 || n > b.Len() {
		return 0, &bit.RangeError{Start: 0, End: n - 1, Len: b.Len(), Width: n}
	}

	// Message followed by 8 zero bits, reduced in place.
	var work = make([]bool, n+8)
	for i := range b.SetBits(0, n) {
		work[i] = true
	}
	for i := 0; i < n; i++ {
		if !work[i] {
			continue
		}
		for j, p := range crc8Poly {
			if p {
				work[i+j] = !work[i+j]
			}
		}
	}

	var crc uint8
	for _, v := range work[n:] {
		crc <<= 1
		if v {
			crc |= 1
		}
	}
	return crc, nil
}
