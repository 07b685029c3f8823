package crc

import "github.com/pd0mz/go-trunk/bit"

const (
	CRC9BlockBits = 144
	CRC9Bits      = 9

	// crc9Offset is the position of the checksum within the block, it
	// follows the 7 bit data block serial number.
	crc9Offset = 7
)

// CRC9 holds the complemented syndromes of x^9+x^6+x^4+x^3+1 for the 135
// message bits of a rate 3/4 confirmed data block.
var CRC9 = MustTable(CRC9Bits, []uint32{
	0x1e7, 0x1f3, 0x1f9, 0x1fc, 0x0d2, 0x045, 0x122, 0x0bd, 0x15e, 0x083,
	0x141, 0x1a0, 0x0fc, 0x052, 0x005, 0x102, 0x0ad, 0x156, 0x087, 0x143,
	0x1a1, 0x1d0, 0x0c4, 0x04e, 0x00b, 0x105, 0x182, 0x0ed, 0x176, 0x097,
	0x14b, 0x1a5, 0x1d2, 0x0c5, 0x162, 0x09d, 0x14e, 0x08b, 0x145, 0x1a2,
	0x0fd, 0x17e, 0x093, 0x149, 0x1a4, 0x0fe, 0x053, 0x129, 0x194, 0x0e6,
	0x05f, 0x12f, 0x197, 0x1cb, 0x1e5, 0x1f2, 0x0d5, 0x16a, 0x099, 0x14c,
	0x08a, 0x069, 0x134, 0x0b6, 0x077, 0x13b, 0x19d, 0x1ce, 0x0cb, 0x165,
	0x1b2, 0x0f5, 0x17a, 0x091, 0x148, 0x088, 0x068, 0x018, 0x020, 0x03c,
	0x032, 0x035, 0x11a, 0x0a1, 0x150, 0x084, 0x06e, 0x01b, 0x10d, 0x186,
	0x0ef, 0x177, 0x1bb, 0x1dd, 0x1ee, 0x0db, 0x16d, 0x1b6, 0x0f7, 0x17b,
	0x1bd, 0x1de, 0x0c3, 0x161, 0x1b0, 0x0f4, 0x056, 0x007, 0x103, 0x181,
	0x1c0, 0x0cc, 0x04a, 0x009, 0x104, 0x0ae, 0x07b, 0x13d, 0x19e, 0x0e3,
	0x171, 0x1b8, 0x0f0, 0x054, 0x006, 0x02f, 0x117, 0x18b, 0x1c5, 0x1e2,
	0x0dd, 0x16e, 0x09b, 0x14d, 0x1a6,
})

func crc9Block(b *bit.Buffer, messageStart int) error {
	if end := messageStart + CRC9BlockBits; messageStart < 0 || end > b.Len() {
		return &bit.RangeError{Start: messageStart, End: end - 1, Len: b.Len(), Width: CRC9BlockBits}
	}
	return nil
}

// CRC9Checksum accumulates the syndromes of the block at messageStart,
// skipping the embedded checksum field.
func CRC9Checksum(b *bit.Buffer, messageStart int) (uint16, error) {
	if err := crc9Block(b, messageStart); err != nil {
		return 0, err
	}

	var (
		acc      uint32
		crcStart = messageStart + crc9Offset
		crcEnd   = crcStart + CRC9Bits
	)
	for i := range b.SetBits(messageStart, crcStart) {
		acc ^= CRC9.entries[i-messageStart]
	}
	for i := range b.SetBits(crcEnd, messageStart+CRC9BlockBits) {
		acc ^= CRC9.entries[i-messageStart-CRC9Bits]
	}
	return uint16(acc), nil
}

// CheckCRC9 validates a 144 bit rate 3/4 confirmed data block. Errors are
// detected, never corrected: the bits and the correction counter are left
// untouched.
func CheckCRC9(b *bit.Buffer, messageStart int) (bit.Verdict, error) {
	if err := validatable(b); err != nil {
		return bit.Unchecked, err
	}

	acc, err := CRC9Checksum(b, messageStart)
	if err != nil {
		return bit.Unchecked, err
	}
	crcStart := messageStart + crc9Offset
	sum, err := b.Uint16(crcStart, crcStart+CRC9Bits-1)
	if err != nil {
		return bit.Unchecked, err
	}

	verdict := bit.Failed
	if CRC9.pass(uint32(acc ^ sum)) {
		verdict = bit.Passed
	}
	return verdict, b.SetVerdict(verdict)
}

// SetCRC9 fills in the checksum field of the block at messageStart.
func SetCRC9(b *bit.Buffer, messageStart int) error {
	acc, err := CRC9Checksum(b, messageStart)
	if err != nil {
		return err
	}
	return b.SetUint(messageStart+crc9Offset, CRC9Bits, uint64(acc))
}
