package dmr

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/bptc"
	"github.com/pd0mz/go-trunk/crc"
	"github.com/pd0mz/go-trunk/crc/crc16"
)

// InfoSize is the size in bytes of a BPTC(196,96) protected payload.
const InfoSize = bptc.DataSize / 8

// decodeInfo returns the BPTC(196,96) payload of a data burst, with the
// corrections made recorded in the buffer.
func decodeInfo(f *Frame) (*bit.Buffer, error) {
	data, fixed, err := bptc.Decode(f.Info())
	if err != nil {
		return nil, fmt.Errorf("dmr: %w", err)
	}
	buf := bit.FromBits(data)
	if err := buf.IncrementCorrected(fixed); err != nil {
		return nil, err
	}
	return buf, nil
}

// checkCCITT validates the masked CCITT checksum of a BPTC payload, repairing
// a single bit error.
func checkCCITT(buf *bit.Buffer, dt DataType) (bit.Verdict, error) {
	mask, ok := dt.CRCMask()
	if !ok {
		return bit.Unchecked, fmt.Errorf("dmr: %s has no CCITT checksum", dt)
	}
	return crc.CorrectCCITT80(buf, 0, crc.CCITT80MessageBits, crc.CCITT80Seed(mask))
}

// sealInfo writes the masked CCITT checksum of dt over the first 10 bytes of
// data.
func sealInfo(data []byte, dt DataType) error {
	if len(data) != InfoSize {
		return fmt.Errorf("dmr: expected %d info bytes, got %d", InfoSize, len(data))
	}
	mask, ok := dt.CRCMask()
	if !ok {
		return fmt.Errorf("dmr: %s has no CCITT checksum", dt)
	}
	sum := crc16.Masked(data[:10], mask)
	data[10] = uint8(sum >> 8)
	data[11] = uint8(sum)
	return nil
}

// EncodeInfo returns the 196 info bits carrying 12 payload bytes.
func EncodeInfo(data []byte) (bit.Bits, error) {
	if len(data) != InfoSize {
		return nil, fmt.Errorf("dmr: expected %d info bytes, got %d", InfoSize, len(data))
	}
	return bptc.Encode(bit.NewBits(data)), nil
}

func parseIDs(data []byte) (dst, src uint32) {
	dst = uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
	src = uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5])
	return
}

func putIDs(data []byte, dst, src uint32) {
	data[0] = uint8(dst >> 16)
	data[1] = uint8(dst >> 8)
	data[2] = uint8(dst)
	data[3] = uint8(src >> 16)
	data[4] = uint8(src >> 8)
	data[5] = uint8(src)
}
