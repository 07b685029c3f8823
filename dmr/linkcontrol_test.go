package dmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
	"github.com/pd0mz/go-trunk/lc"
	"github.com/pd0mz/go-trunk/lc/serviceoptions"
)

func testLC(src, dst uint32) *lc.LC {
	return &lc.LC{
		CallType: lc.CallTypeGroup,
		Opcode:   lc.GroupVoiceChannelUser,
		VoiceChannelUser: &lc.VoiceChannelUserPDU{
			ServiceOptions: serviceoptions.ServiceOptions{Priority: 2},
			SrcID:          src,
			DstID:          dst,
		},
	}
}

func linkControlFrame(t *testing.T, dt DataType, data []byte) *Frame {
	t.Helper()
	info, err := EncodeInfo(data)
	require.NoError(t, err)
	return dataFrame(t, dt, info)
}

func TestDecodeLinkControl(t *testing.T) {
	for _, dt := range []DataType{VoiceLC, TerminatorWithLC} {
		t.Run(dt.String(), func(t *testing.T) {
			info, err := EncodeLinkControl(testLC(2042214, 204), dt)
			require.NoError(t, err)

			m, err := DecodeLinkControl(dataFrame(t, dt, info))
			require.NoError(t, err)
			assert.Equal(t, bit.Passed, m.Verdict)
			assert.Equal(t, 0, m.Corrected)
			assert.Equal(t, dt, m.DataType)
			require.NotNil(t, m.LC)
			require.NotNil(t, m.LC.VoiceChannelUser)
			assert.Equal(t, uint32(2042214), m.LC.VoiceChannelUser.SrcID)
			assert.Equal(t, uint32(204), m.LC.VoiceChannelUser.DstID)
			assert.Equal(t, uint8(2), m.LC.VoiceChannelUser.ServiceOptions.Priority)
			assert.Equal(t, lc.CallTypeGroup, m.LC.CallType)
		})
	}
}

func TestDecodeLinkControlErrors(t *testing.T) {
	mask, _ := VoiceLC.RSMask()

	t.Run("symbol repair", func(t *testing.T) {
		data := testLC(1, 2).FullBytes(mask)
		data[4] ^= 0x5a
		m, err := DecodeLinkControl(linkControlFrame(t, VoiceLC, data))
		require.NoError(t, err)
		assert.Equal(t, bit.Corrected, m.Verdict)
		assert.Equal(t, 1, m.Corrected)
		require.NotNil(t, m.LC)
		assert.Equal(t, uint32(2), m.LC.VoiceChannelUser.DstID)
	})

	t.Run("uncorrectable", func(t *testing.T) {
		data := testLC(1, 2).FullBytes(mask)
		data[2] ^= 0x01
		data[7] ^= 0x80
		m, err := DecodeLinkControl(linkControlFrame(t, VoiceLC, data))
		require.NoError(t, err)
		assert.Equal(t, bit.Failed, m.Verdict)
		assert.Equal(t, 2, m.Corrected)
		assert.Nil(t, m.LC)
		assert.False(t, m.IsValid())
	})

	t.Run("protected", func(t *testing.T) {
		data := testLC(1, 2).Bytes()
		data[0] |= 0x80
		for _, c := range fec.RS129Checksum(data) {
			data = append(data, c^mask)
		}
		m, err := DecodeLinkControl(linkControlFrame(t, VoiceLC, data))
		require.NoError(t, err)
		assert.True(t, m.Protect)
		assert.Nil(t, m.LC)
		assert.Contains(t, m.String(), "protected")
	})

	t.Run("no link control", func(t *testing.T) {
		_, err := DecodeLinkControl(dataFrame(t, Idle, testInfo()))
		assert.Error(t, err)
		_, err = EncodeLinkControl(testLC(1, 2), CSBK)
		assert.Error(t, err)
	})
}

func addEmbedded(t *testing.T, e *EmbeddedLC, bits bit.Bits) (*lc.LC, int, error) {
	t.Helper()
	var (
		fragments, lcss = SplitEmbeddedLC(bits)
		l               *lc.LC
		fixed           int
		err             error
	)
	for i, fragment := range fragments {
		l, fixed, err = e.Add(EMB{ColorCode: 1, LCSS: lcss[i]}, fragment)
		if i < len(fragments)-1 {
			require.NoError(t, err)
			require.Nil(t, l)
			assert.Equal(t, i+1, e.Pending())
		}
	}
	assert.Equal(t, 0, e.Pending())
	return l, fixed, err
}

func TestEmbeddedLC(t *testing.T) {
	var e EmbeddedLC

	l, fixed, err := addEmbedded(t, &e, EncodeEmbeddedLC(testLC(2042214, 91)))
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)
	require.NotNil(t, l.VoiceChannelUser)
	assert.Equal(t, uint32(2042214), l.VoiceChannelUser.SrcID)
	assert.Equal(t, uint32(91), l.VoiceChannelUser.DstID)
}

func TestEmbeddedLCRepair(t *testing.T) {
	var e EmbeddedLC

	bits := EncodeEmbeddedLC(testLC(3, 4))
	bits[embeddedCell(3, 5)].Flip()
	l, fixed, err := addEmbedded(t, &e, bits)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.Equal(t, uint32(3), l.VoiceChannelUser.SrcID)

	bits = EncodeEmbeddedLC(testLC(3, 4))
	bits[embeddedCell(0, 0)].Flip()
	bits[embeddedCell(0, 1)].Flip()
	_, _, err = addEmbedded(t, &e, bits)
	assert.ErrorIs(t, err, fec.ErrUncorrectable)
}

func TestEmbeddedLCChecksum(t *testing.T) {
	var (
		e      EmbeddedLC
		packed = testLC(3, 4).Bytes()
	)
	_, _, err := addEmbedded(t, &e, encodeEmbedded(packed, embeddedChecksum(packed)^0x01))
	assert.ErrorIs(t, err, ErrEmbeddedChecksum)
}

func TestEmbeddedLCParity(t *testing.T) {
	bits := EncodeEmbeddedLC(testLC(3, 4))
	bits[embeddedCell(embeddedRows-1, 7)].Flip()
	_, _, err := DecodeEmbeddedLC(bits)
	assert.ErrorIs(t, err, ErrEmbeddedParity)

	_, _, err = DecodeEmbeddedLC(bits[:EmbeddedLCBits-1])
	assert.Error(t, err)
}

func TestEmbeddedLCSequence(t *testing.T) {
	var (
		e               EmbeddedLC
		fragments, lcss = SplitEmbeddedLC(EncodeEmbeddedLC(testLC(3, 4)))
	)
	assert.Equal(t, [EmbeddedFragments]LCSS{FirstFragment, Continuation, Continuation, LastFragment}, lcss)

	// Continuation without a first fragment.
	l, _, err := e.Add(EMB{LCSS: Continuation}, fragments[1])
	assert.NoError(t, err)
	assert.Nil(t, l)
	assert.Equal(t, 0, e.Pending())

	// A missed continuation drops the partial Link Control.
	_, _, _ = e.Add(EMB{LCSS: FirstFragment}, fragments[0])
	_, _, _ = e.Add(EMB{LCSS: Continuation}, fragments[1])
	l, _, err = e.Add(EMB{LCSS: LastFragment}, fragments[3])
	assert.NoError(t, err)
	assert.Nil(t, l)
	assert.Equal(t, 0, e.Pending())

	// Single fragments are ignored.
	_, _, _ = e.Add(EMB{LCSS: FirstFragment}, fragments[0])
	l, _, err = e.Add(EMB{LCSS: SingleFragment}, fragments[1])
	assert.NoError(t, err)
	assert.Nil(t, l)
	assert.Equal(t, 1, e.Pending())

	_, _, err = e.Add(EMB{LCSS: Continuation}, fragments[1][:8])
	assert.Error(t, err)
}
