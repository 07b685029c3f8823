package crc

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
)

const (
	CCITT80MessageBits = 80
	CCITT80Bits        = 16
)

// CCITT80 holds the syndromes of x^16+x^12+x^5+1 for an 80 bit message
// followed by its 16 checksum bits.
var CCITT80 = MustTable(CCITT80Bits, []uint32{
	0xe434, 0x721a, 0x390d, 0x9496, 0x4a4b, 0xad35, 0xde8a, 0x6f45,
	0xbfb2, 0x5fd9, 0xa7fc, 0x53fe, 0x29ff, 0x9cef, 0xc667, 0xeb23,
	0xfd81, 0xf6d0, 0x7b68, 0x3db4, 0x1eda, 0x0f6d, 0x8fa6, 0x47d3,
	0xabf9, 0xddec, 0x6ef6, 0x377b, 0x93ad, 0xc1c6, 0x60e3, 0xb861,
	0xd420, 0x6a10, 0x3508, 0x1a84, 0x0d42, 0x06a1, 0x8b40, 0x45a0,
	0x22d0, 0x1168, 0x08b4, 0x045a, 0x022d, 0x8906, 0x4483, 0xaa51,
	0xdd38, 0x6e9c, 0x374e, 0x1ba7, 0x85c3, 0xcaf1, 0xed68, 0x76b4,
	0x3b5a, 0x1dad, 0x86c6, 0x4363, 0xa9a1, 0xdcc0, 0x6e60, 0x3730,
	0x1b98, 0x0dcc, 0x06e6, 0x0373, 0x89a9, 0xccc4, 0x6662, 0x3331,
	0x9188, 0x48c4, 0x2462, 0x1231, 0x8108, 0x4084, 0x2042, 0x1021,
	// Checksum bits.
	0x8000, 0x4000, 0x2000, 0x1000, 0x0800, 0x0400, 0x0200, 0x0100,
	0x0080, 0x0040, 0x0020, 0x0010, 0x0008, 0x0004, 0x0002, 0x0001,
})

// CCITT80Seed returns the accumulator seed for blocks carrying the inverted
// checksum XOR-ed with a CRC mask, as transmitted over the air.
func CCITT80Seed(mask uint16) uint16 { return ^mask }

// CCITT80Checksum returns the accumulated syndrome of the 80 bit message at
// messageStart.
func CCITT80Checksum(b *bit.Buffer, messageStart int, seed uint16) (uint16, error) {
	end := messageStart + CCITT80MessageBits
	if messageStart < 0 || end > b.Len() {
		return 0, &bit.RangeError{Start: messageStart, End: end - 1, Len: b.Len(), Width: CCITT80MessageBits}
	}

	var acc = uint32(seed)
	for i := range b.SetBits(messageStart, end) {
		acc ^= CCITT80.entries[i-messageStart]
	}
	return uint16(acc), nil
}

// CorrectCCITT80 validates the 80 bit message at messageStart against the
// checksum at crcStart, which must directly follow the message. A single bit
// error, in the message or in the checksum, is corrected in place. Residuals
// of zero and all ones both pass.
func CorrectCCITT80(b *bit.Buffer, messageStart, crcStart int, seed uint16) (bit.Verdict, error) {
	if crcStart-messageStart != CCITT80MessageBits {
		return bit.Unchecked, fmt.Errorf("crc: CCITT-80 checksum at %d does not follow message at %d", crcStart, messageStart)
	}
	if err := validatable(b); err != nil {
		return bit.Unchecked, err
	}

	acc, err := CCITT80Checksum(b, messageStart, seed)
	if err != nil {
		return bit.Unchecked, err
	}
	sum, err := b.Uint16(crcStart, crcStart+CCITT80Bits-1)
	if err != nil {
		return bit.Unchecked, err
	}

	return CCITT80.correct(b, uint32(acc^sum), messageStart)
}
