package dmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pd0mz/go-trunk/bit"
)

func countingBytes(n int, seed byte) []byte {
	var out = make([]byte, n)
	for i := range out {
		out[i] = seed + byte(i)*3
	}
	return out
}

func rate34Frame(t *testing.T, b *DataBlock, corrupt func([]byte)) *Frame {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)
	if corrupt != nil {
		corrupt(data)
	}
	info, err := EncodeRate34Block(data)
	require.NoError(t, err)
	return dataFrame(t, Rate34Data, info)
}

func TestRate34Block(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		want := &DataBlock{
			DataType:  Rate34Data,
			Confirmed: true,
			Serial:    0x55,
			Data:      countingBytes(Rate34BlockSize-2, 0x10),
		}
		b, err := DecodeRate34Block(rate34Frame(t, want, nil), true)
		require.NoError(t, err)
		assert.Equal(t, bit.Passed, b.Verdict)
		assert.Equal(t, uint8(0x55), b.Serial)
		assert.Equal(t, want.Data, b.Data)
		assert.Equal(t, 0, b.Distance)
		assert.Equal(t, uint8(testColorCode), b.ColorCode)
	})

	t.Run("confirmed crc failure", func(t *testing.T) {
		want := &DataBlock{
			DataType:  Rate34Data,
			Confirmed: true,
			Serial:    3,
			Data:      countingBytes(Rate34BlockSize-2, 0x20),
		}
		b, err := DecodeRate34Block(rate34Frame(t, want, func(data []byte) { data[9] ^= 0x04 }), true)
		require.NoError(t, err)
		assert.Equal(t, bit.Failed, b.Verdict)
		assert.Equal(t, 0, b.Corrected, "CRC-9 does not correct")
		assert.False(t, b.IsValid())
	})

	t.Run("unconfirmed", func(t *testing.T) {
		want := &DataBlock{
			DataType: Rate34Data,
			Data:     countingBytes(Rate34BlockSize, 0x30),
		}
		b, err := DecodeRate34Block(rate34Frame(t, want, nil), false)
		require.NoError(t, err)
		assert.Equal(t, bit.Unchecked, b.Verdict)
		assert.Equal(t, want.Data, b.Data)
		assert.Contains(t, b.String(), "rate ¾ packet data")
	})

	t.Run("wrong size", func(t *testing.T) {
		_, err := (&DataBlock{DataType: Rate34Data, Data: []byte{1}}).Bytes()
		assert.Error(t, err)
		_, err = (&DataBlock{DataType: CSBK}).Bytes()
		assert.Error(t, err)
	})
}

func TestRate12Block(t *testing.T) {
	want := &DataBlock{
		DataType:  Rate12Data,
		Confirmed: true,
		Serial:    0x21,
		CRC:       0x123,
		Data:      countingBytes(Rate12BlockSize-2, 0x40),
	}
	data, err := want.Bytes()
	require.NoError(t, err)
	info, err := EncodeInfo(data)
	require.NoError(t, err)

	f := flipped(t, dataFrame(t, Rate12Data, info), infoPosition(100))
	b, err := DecodeRate12Block(f, true)
	require.NoError(t, err)
	assert.Equal(t, bit.Unchecked, b.Verdict)
	assert.Equal(t, 1, b.Corrected)
	assert.Equal(t, uint8(0x21), b.Serial)
	assert.Equal(t, uint16(0x123), b.CRC)
	assert.Equal(t, want.Data, b.Data)

	_, err = DecodeRate34Block(f, true)
	assert.Error(t, err)
}
