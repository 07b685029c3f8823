package source

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/dmr"
)

// controlBlockFrame is a base station preamble CSBK on the given timeslot.
func controlBlockFrame(t *testing.T, ts uint8) *dmr.Frame {
	t.Helper()
	cb := &dmr.ControlBlock{
		Last:   true,
		Opcode: dmr.PreambleOpcode,
		SrcID:  2042214,
		DstID:  2043044,
		Data:   &dmr.Preamble{DataFollows: true, DstIsGroup: true, Blocks: 2},
	}
	data, err := cb.Bytes()
	require.NoError(t, err)
	info, err := dmr.EncodeInfo(data)
	require.NoError(t, err)

	b := &dmr.Burst{
		TACT:     dmr.TACT{Timeslot: ts},
		Sync:     dmr.SyncBSSourcedData,
		SlotType: dmr.SlotType{ColorCode: 1, DataType: dmr.CSBK},
		Info:     info,
	}
	f, err := b.Frame()
	require.NoError(t, err)
	return f
}

type bitRecorder struct {
	bits bit.Bits
}

func (r *bitRecorder) WriteBits(bits bit.Bits) { r.bits = append(r.bits, bits...) }

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{Packed, Unpacked, Text, Symbols} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("wav")
	assert.Error(t, err)
	assert.Equal(t, "format 9", Format(9).String())
}

func TestCopyBits(t *testing.T) {
	var (
		want     = controlBlockFrame(t, 1).Buffer().Bits()
		unpacked = make([]byte, len(want))
		text     strings.Builder
		symbols  []byte
	)
	for i, b := range want {
		unpacked[i] = byte(b)
		text.WriteByte('0' + byte(b))
		if i%64 == 63 {
			text.WriteString("\r\n")
		}
	}
	for _, d := range bit.NewDebits(want) {
		symbols = append(symbols, byte(d.Symbol()))
	}

	for _, test := range []struct {
		format Format
		input  []byte
	}{
		{Packed, want.Bytes()},
		{Unpacked, unpacked},
		{Text, []byte(text.String())},
		{Symbols, symbols},
	} {
		t.Run(test.format.String(), func(t *testing.T) {
			r := &bitRecorder{}
			n, err := CopyBits(context.Background(), r, bytes.NewReader(test.input), test.format)
			require.NoError(t, err)
			assert.Equal(t, int64(len(want)), n)
			assert.True(t, want.Equal(r.bits))
		})
	}
}

func TestCopyBitsFramer(t *testing.T) {
	var (
		frames []*dmr.Frame
		stream = append(controlBlockFrame(t, 0).Buffer().Bits(), controlBlockFrame(t, 1).Buffer().Bits()...)
	)
	fr, err := dmr.NewFramer(dmr.DefaultMaxSyncErrors, func(f *dmr.Frame) { frames = append(frames, f) })
	require.NoError(t, err)

	_, err = CopyBits(context.Background(), fr, bytes.NewReader(stream.Bytes()), Packed)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	for i, f := range frames {
		ts, ok := f.Timeslot()
		require.True(t, ok)
		assert.Equal(t, uint8(i), ts)
	}
}

func TestCopyBitsErrors(t *testing.T) {
	var inputErr *InputError

	_, err := CopyBits(context.Background(), &bitRecorder{}, bytes.NewReader([]byte{0, 1, 2}), Unpacked)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, int64(2), inputErr.Offset)
	assert.Equal(t, byte(2), inputErr.Value)

	_, err = CopyBits(context.Background(), &bitRecorder{}, strings.NewReader("0101x"), Text)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, int64(4), inputErr.Offset)

	_, err = CopyBits(context.Background(), &bitRecorder{}, bytes.NewReader([]byte{3, 0}), Symbols)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, int64(1), inputErr.Offset)

	_, err = CopyBits(context.Background(), &bitRecorder{}, strings.NewReader("01"), Format(9))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CopyBits(ctx, &bitRecorder{}, strings.NewReader("01"), Text)
	assert.ErrorIs(t, err, context.Canceled)
}
