package dmr

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pd0mz/go-trunk/bit"
)

func testDataHeader(want *DataHeader, t *testing.T) *DataHeader {
	want.SrcID = 2042214
	want.DstID = 2043044

	t.Logf("encode:\n%s", want.String())

	data, err := want.Bytes()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	t.Logf("encoded:\n%s", hex.Dump(data))

	test, err := ParseDataHeader(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if test.SrcID != want.SrcID || test.DstID != want.DstID {
		t.Fatal("decode failed, ID wrong")
	}
	t.Logf("decoded:\n%s", test.String())

	return test
}

func TestDataHeaderUDT(t *testing.T) {
	want := &DataHeader{
		PacketFormat: PacketFormatUDT,
		Data: &UDTData{
			Format:         UDTFormatIPAddress,
			PadNibble:      2,
			AppendedBlocks: 3,
			Opcode:         4,
		},
	}
	test := testDataHeader(want, t)

	d, ok := test.Data.(*UDTData)
	switch {
	case !ok:
		t.Fatalf("decode failed: expected UDTData, got %T", test.Data)

	case d.Format != UDTFormatIPAddress:
		t.Fatalf("decode failed: format wrong")

	case d.PadNibble != 2:
		t.Fatalf("decode failed: pad nibble wrong")

	case d.AppendedBlocks != 3:
		t.Fatalf("decode failed: appended blocks wrong")

	case d.Opcode != 4:
		t.Fatalf("decode failed: opcode wrong")
	}
}

func TestDataHeaderResponse(t *testing.T) {
	want := &DataHeader{
		PacketFormat: PacketFormatResponse,
		Data: &ResponseData{
			BlocksToFollow: 0x10,
			ClassType:      ResponseTypeSelectiveACK,
		},
	}
	test := testDataHeader(want, t)

	d, ok := test.Data.(*ResponseData)
	switch {
	case !ok:
		t.Fatalf("decode failed: expected ResponseData, got %T", test.Data)

	case d.BlocksToFollow != 0x10:
		t.Fatalf("decode failed: wrong blocks %d, expected 16", d.BlocksToFollow)

	case d.ClassType != ResponseTypeSelectiveACK:
		t.Fatalf("decode failed: wrong type %s (%d), expected selective ACK", ResponseTypeName[d.ClassType], d.ClassType)
	}
}

func TestDataHeaderUnconfirmedData(t *testing.T) {
	want := &DataHeader{
		PacketFormat: PacketFormatUnconfirmedData,
		Data: &UnconfirmedData{
			PadOctetCount:          2,
			FullMessage:            true,
			BlocksToFollow:         5,
			FragmentSequenceNumber: 3,
		},
	}
	test := testDataHeader(want, t)

	d, ok := test.Data.(*UnconfirmedData)
	switch {
	case !ok:
		t.Fatalf("decode failed: expected UnconfirmedData, got %T", test.Data)

	case d.PadOctetCount != 2:
		t.Fatalf("decode failed: pad octet count wrong")

	case !d.FullMessage:
		t.Fatalf("decode failed: full message bit wrong")

	case d.BlocksToFollow != 5:
		t.Fatalf("decode failed: blocks to follow wrong")

	case d.FragmentSequenceNumber != 3:
		t.Fatalf("decode failed: fragment sequence number wrong")
	}
}

func TestDataHeaderConfirmedData(t *testing.T) {
	want := &DataHeader{
		PacketFormat: PacketFormatConfirmedData,
		Data: &ConfirmedData{
			PadOctetCount:          2,
			FullMessage:            true,
			BlocksToFollow:         5,
			SendSequenceNumber:     4,
			FragmentSequenceNumber: 3,
		},
	}
	test := testDataHeader(want, t)

	d, ok := test.Data.(*ConfirmedData)
	switch {
	case !ok:
		t.Fatalf("decode failed: expected ConfirmedData, got %T", test.Data)

	case d.PadOctetCount != 2:
		t.Fatalf("decode failed: pad octet count wrong")

	case !d.FullMessage:
		t.Fatalf("decode failed: full message bit wrong")

	case d.Resync:
		t.Fatalf("decode failed: resync bit wrong")

	case d.BlocksToFollow != 5:
		t.Fatalf("decode failed: blocks to follow wrong")

	case d.SendSequenceNumber != 4:
		t.Fatalf("decode failed: send sequence number wrong")

	case d.FragmentSequenceNumber != 3:
		t.Fatalf("decode failed: fragment sequence number wrong")
	}
}

func TestDataHeaderShortDataRaw(t *testing.T) {
	want := &DataHeader{
		PacketFormat: PacketFormatShortDataRaw,
		Data: &ShortDataRawData{
			AppendedBlocks: 3,
			SrcPort:        4,
			DstPort:        5,
			FullMessage:    true,
			BitPadding:     2,
		},
	}
	test := testDataHeader(want, t)

	d, ok := test.Data.(*ShortDataRawData)
	switch {
	case !ok:
		t.Fatalf("decode failed: expected ShortDataRawData, got %T", test.Data)

	case d.AppendedBlocks != 3:
		t.Fatalf("decode failed: appended blocks wrong")

	case d.SrcPort != 4:
		t.Fatalf("decode failed: src port wrong")

	case d.DstPort != 5:
		t.Fatalf("decode failed: dst port wrong")

	case d.Resync:
		t.Fatalf("decode failed: resync bit wrong")

	case !d.FullMessage:
		t.Fatalf("decode failed: full message bit wrong")

	case d.BitPadding != 2:
		t.Fatalf("decode failed: bit padding wrong")
	}
}

func TestDataHeaderShortDataDefined(t *testing.T) {
	want := &DataHeader{
		PacketFormat: PacketFormatShortDataDefined,
		Data: &ShortDataDefinedData{
			AppendedBlocks: 3,
			DDFormat:       DDFormatUTF16,
			FullMessage:    true,
			BitPadding:     2,
		},
	}
	test := testDataHeader(want, t)

	d, ok := test.Data.(*ShortDataDefinedData)
	switch {
	case !ok:
		t.Fatalf("decode failed: expected ShortDataDefinedData, got %T", test.Data)

	case d.AppendedBlocks != 3:
		t.Fatalf("decode failed: appended blocks wrong")

	case d.DDFormat != DDFormatUTF16:
		t.Fatalf("decode failed: dd format wrong, expected UTF-16, got %s", DDFormatName[d.DDFormat])

	case d.Resync:
		t.Fatalf("decode failed: resync bit wrong")

	case !d.FullMessage:
		t.Fatalf("decode failed: full message bit wrong")

	case d.BitPadding != 2:
		t.Fatalf("decode failed: bit padding wrong")
	}
}

func TestDataHeaderProprietary(t *testing.T) {
	want := &DataHeader{
		PacketFormat:       PacketFormatProprietaryData,
		ServiceAccessPoint: ServiceAccessPointProprietaryData,
		Data:               &ProprietaryData{ManufacturerID: 0x10},
	}
	data, err := want.Bytes()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	test, err := ParseDataHeader(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	d, ok := test.Data.(*ProprietaryData)
	switch {
	case !ok:
		t.Fatalf("decode failed: expected ProprietaryData, got %T", test.Data)

	case test.ServiceAccessPoint != ServiceAccessPointProprietaryData:
		t.Fatalf("decode failed: service access point wrong")

	case d.ManufacturerID != 0x10:
		t.Fatalf("decode failed: manufacturer wrong")

	case test.CRC != want.CRC:
		t.Fatalf("decode failed: CRC %#04x, expected %#04x", test.CRC, want.CRC)

	default:
		t.Logf("decoded:\n%s", test.String())
	}
}

func TestDataHeaderUnknownFormat(t *testing.T) {
	data := make([]byte, InfoSize)
	data[0] = 0x05
	_, err := ParseDataHeader(data)
	assert.ErrorIs(t, err, ErrUnknownPacketFormat)

	_, err = ParseDataHeader(data[:10])
	assert.Error(t, err)
}

func TestDataHeaderBlocksToFollow(t *testing.T) {
	for _, test := range []struct {
		header    DataHeader
		blocks    int
		confirmed bool
	}{
		{DataHeader{PacketFormat: PacketFormatUDT, Data: &UDTData{AppendedBlocks: 2}}, 3, false},
		{DataHeader{PacketFormat: PacketFormatResponse, Data: &ResponseData{BlocksToFollow: 1}}, 1, false},
		{DataHeader{PacketFormat: PacketFormatUnconfirmedData, Data: &UnconfirmedData{BlocksToFollow: 7}}, 7, false},
		{DataHeader{PacketFormat: PacketFormatConfirmedData, Data: &ConfirmedData{BlocksToFollow: 9}}, 9, true},
		{DataHeader{PacketFormat: PacketFormatShortDataRaw, Data: &ShortDataRawData{AppendedBlocks: 4}}, 4, false},
		{DataHeader{PacketFormat: PacketFormatShortDataDefined, Data: &ShortDataDefinedData{AppendedBlocks: 5}}, 5, false},
		{DataHeader{PacketFormat: PacketFormatProprietaryData, Data: &ProprietaryData{}}, 0, false},
	} {
		assert.Equal(t, test.blocks, test.header.BlocksToFollow(), "format %d", test.header.PacketFormat)
		assert.Equal(t, test.confirmed, test.header.Confirmed(), "format %d", test.header.PacketFormat)
	}
}

func TestDecodeDataHeader(t *testing.T) {
	want := &DataHeader{
		PacketFormat:       PacketFormatConfirmedData,
		DstIsGroup:         true,
		ServiceAccessPoint: ServiceAccessPointIPBasedPacketData,
		SrcID:              2042214,
		DstID:              9,
		Data:               &ConfirmedData{BlocksToFollow: 3, FullMessage: true},
	}
	data, err := want.Bytes()
	require.NoError(t, err)
	info, err := EncodeInfo(data)
	require.NoError(t, err)

	h, err := DecodeDataHeader(dataFrame(t, Data, info))
	require.NoError(t, err)
	assert.Equal(t, bit.Passed, h.Verdict)
	assert.Equal(t, uint8(testColorCode), h.ColorCode)
	assert.Equal(t, want.CRC, h.CRC)
	assert.True(t, h.Confirmed())
	assert.Equal(t, 3, h.BlocksToFollow())
	assert.Equal(t, uint32(2042214), h.SrcID)

	// A reserved packet format in a block failing its checksum still yields
	// the addressing.
	data[0] = data[0]&0xf0 | 0x05
	info, err = EncodeInfo(data)
	require.NoError(t, err)
	h, err = DecodeDataHeader(dataFrame(t, Data, info))
	require.NoError(t, err)
	assert.Equal(t, bit.Failed, h.Verdict)
	assert.Nil(t, h.Data)
	assert.Equal(t, uint32(9), h.DstID)

	_, err = DecodeDataHeader(dataFrame(t, CSBK, info))
	assert.Error(t, err)
}
