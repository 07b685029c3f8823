package dmr

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/crc"
	"github.com/pd0mz/go-trunk/trellis"
)

// Rate 3/4 and rate 1/2 data blocks carry 18 and 12 bytes. Confirmed blocks
// spend the first two on a 7 bit serial number and a 9 bit CRC.
const (
	Rate34BlockSize = trellis.DataSize
	Rate12BlockSize = InfoSize
	confirmedHeader = 2
)

// DataBlock is a single packet data block.
type DataBlock struct {
	Header
	DataType  DataType
	Confirmed bool
	Serial    uint8
	CRC       uint16
	Data      []byte

	// Distance is the trellis path metric of rate 3/4 blocks.
	Distance int

	// Packet is set on the last block of a packet.
	Packet *DataPacket
}

func (b *DataBlock) String() string {
	if b.Confirmed {
		return fmt.Sprintf("%s %s, serial %d, crc %#03x [ % x ]", b.prefix(), b.DataType, b.Serial, b.CRC, b.Data)
	}
	return fmt.Sprintf("%s %s [ % x ]", b.prefix(), b.DataType, b.Data)
}

// Bytes packs the block. Confirmed rate 3/4 blocks get their CRC-9 filled in.
func (b *DataBlock) Bytes() ([]byte, error) {
	size, err := blockSize(b.DataType)
	if err != nil {
		return nil, err
	}
	if !b.Confirmed {
		if len(b.Data) != size {
			return nil, fmt.Errorf("dmr: expected %d block bytes, got %d", size, len(b.Data))
		}
		return append([]byte(nil), b.Data...), nil
	}
	if len(b.Data) != size-confirmedHeader {
		return nil, fmt.Errorf("dmr: expected %d block bytes, got %d", size-confirmedHeader, len(b.Data))
	}

	buf := bit.FromBytes(append(make([]byte, confirmedHeader), b.Data...))
	if err := buf.SetUint(0, 7, uint64(b.Serial)); err != nil {
		return nil, err
	}
	if b.DataType == Rate34Data {
		if err := crc.SetCRC9(buf, 0); err != nil {
			return nil, err
		}
	} else if err := buf.SetUint(7, crc.CRC9Bits, uint64(b.CRC)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blockSize(dt DataType) (int, error) {
	switch dt {
	case Rate34Data:
		return Rate34BlockSize, nil
	case Rate12Data:
		return Rate12BlockSize, nil
	}
	return 0, fmt.Errorf("dmr: %s is not a data block", dt)
}

// parseBlock splits a confirmed block into serial, CRC and payload.
func (b *DataBlock) parseBlock(buf *bit.Buffer) error {
	data := buf.Bytes()
	if !b.Confirmed {
		b.Data = data
		return nil
	}
	serial, err := buf.Uint(0, 6)
	if err != nil {
		return err
	}
	sum, err := buf.Uint16(7, 7+crc.CRC9Bits-1)
	if err != nil {
		return err
	}
	b.Serial, b.CRC, b.Data = uint8(serial), sum, data[confirmedHeader:]
	return nil
}

func checkDataSlotType(f *Frame, dt DataType) (SlotType, error) {
	st, err := f.SlotType()
	if err != nil {
		return st, err
	}
	if st.DataType != dt {
		return st, fmt.Errorf("dmr: expected %s burst, got %s", dt, st.DataType)
	}
	return st, nil
}

// DecodeRate34Block decodes a trellis coded rate 3/4 data block. The CRC-9 of
// confirmed blocks is checked, never corrected; unconfirmed blocks stay
// Unchecked until the packet CRC is verified by the caller.
func DecodeRate34Block(f *Frame, confirmed bool) (*DataBlock, error) {
	st, err := checkDataSlotType(f, Rate34Data)
	if err != nil {
		return nil, err
	}

	data, distance, err := trellis.Decode(f.Info())
	if err != nil {
		return nil, fmt.Errorf("dmr: %w", err)
	}
	buf := bit.FromBytes(data)

	b := &DataBlock{
		Header:    newHeader(f),
		DataType:  Rate34Data,
		Confirmed: confirmed,
		Distance:  distance,
	}
	b.ColorCode = st.ColorCode
	b.Corrected = st.Corrected
	if confirmed {
		if b.Verdict, err = crc.CheckCRC9(buf, 0); err != nil {
			return nil, err
		}
	}
	buf.Freeze()

	if err := b.parseBlock(buf); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeRate12Block decodes a BPTC(196,96) protected rate 1/2 data block.
// The block CRC-9 of confirmed rate 1/2 blocks covers fewer bits than the
// syndrome table holds, so it is reported without checking.
func DecodeRate12Block(f *Frame, confirmed bool) (*DataBlock, error) {
	st, err := checkDataSlotType(f, Rate12Data)
	if err != nil {
		return nil, err
	}

	buf, err := decodeInfo(f)
	if err != nil {
		return nil, err
	}
	buf.Freeze()

	b := &DataBlock{
		Header:    newHeader(f),
		DataType:  Rate12Data,
		Confirmed: confirmed,
	}
	b.ColorCode = st.ColorCode
	b.Corrected = buf.Corrected() + st.Corrected
	if err := b.parseBlock(buf); err != nil {
		return nil, err
	}
	return b, nil
}

// EncodeRate34Block returns the 196 info bits of a rate 3/4 block.
func EncodeRate34Block(data []byte) (bit.Bits, error) {
	return trellis.Encode(data)
}
