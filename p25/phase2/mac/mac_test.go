package mac

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	trunk "github.com/pd0mz/go-trunk"
	"github.com/pd0mz/go-trunk/opcode"
)

func TestFromValue(t *testing.T) {
	op := FromValue(17)
	assert.Equal(t, IndirectGroupPaging, op)
	assert.True(t, op.IsVariableLength())

	op = FromValue(70)
	assert.Equal(t, UnitToUnitVoiceChannelGrantUpdateAbbreviated, op)
	assert.False(t, op.IsVariableLength())
	assert.Equal(t, 9, op.Length())

	op = FromValue(60)
	assert.Equal(t, UnknownTDMA, op)
	assert.Equal(t, "UNKNOWN TDMA OPCODE", op.String())
	assert.True(t, op.IsUnknown())

	var tests = map[int]Opcode{
		0:   NullInformation,
		4:   UnknownTDMA,
		67:  UnknownPhase1,
		128: UnknownVendor,
		191: UnknownVendor,
		200: UnknownExtendedPhase1,
		252: AdjacentStatusBroadcastExtended,
		256: Unknown,
		-1:  Unknown,
	}
	for v, want := range tests {
		assert.Equal(t, want, FromValue(v), "value %d", v)
	}

	assert.Equal(t, "UNIT-TO-UNIT VOICE CHANNEL GRANT EXTENDED", FromValue(196).Label())
	assert.Equal(t, "UNIT-TO-UNIT VOICE CHANNEL GRANT UPDATE EXTENDED", FromValue(198).Label())
	assert.Equal(t, LengthUnknown, FromValue(200).Length(), "unknown extended opcodes stop a split")
}

func TestFromValueTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int().Draw(t, "v")
		op := FromValue(v)
		if v < 0 || v > 255 {
			if op != Unknown {
				t.Fatalf("%d resolved to %s", v, op)
			}
			return
		}
		if op == Unknown || op.Partition() == PartitionNone {
			t.Fatalf("%d resolved to %s", v, op)
		}
		if !op.IsUnknown() && op.Value() != v {
			t.Fatalf("%d resolved to %#v", v, op)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	var n int
	for _, op := range All() {
		if op.Value() == opcode.NoValue {
			continue
		}
		n++
		assert.Equal(t, op, FromValue(op.Value()), "%#v", op)
	}
	assert.Equal(t, 60, n)
}

func TestPartition(t *testing.T) {
	assert.Equal(t, PartitionTDMA, MACRelease.Partition())
	assert.Equal(t, PartitionPhase1, IdentifierUpdate.Partition())
	assert.Equal(t, PartitionVendor, UnknownVendor.Partition())
	assert.Equal(t, PartitionExtendedPhase1, CallAlertExtended.Partition())
	assert.Equal(t, PartitionNone, PushToTalk.Partition())
	assert.Equal(t, PartitionNone, Unknown.Partition())
	assert.Equal(t, "extended Phase 1", PartitionExtendedPhase1.String())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Group Voice Service Request", GroupVoiceServiceRequest.Title())
	assert.Equal(t, "Mac Release", MACRelease.Title())
}

func TestSplit(t *testing.T) {
	payload := []byte{
		// MAC release, 7 octets.
		49, 0x00, 0x00, 0x01, 0x02, 0x03, 0x04,
		// Indirect group paging for two groups.
		17, 0x01, 0x00, 0x64, 0x00, 0x65,
		// Vendor message of 4 octets.
		0x80, 0x90, 0x04, 0xff,
		// Null information pads the rest.
		0, 0, 0,
	}

	messages, err := Split(payload)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, MACRelease, messages[0].Opcode)
	assert.Len(t, messages[0].Data, 7)
	assert.Equal(t, IndirectGroupPaging, messages[1].Opcode)
	assert.Equal(t, []byte{17, 0x01, 0x00, 0x64, 0x00, 0x65}, messages[1].Data)
	assert.Equal(t, UnknownVendor, messages[2].Opcode)
	assert.Equal(t, []byte{0x80, 0x90, 0x04, 0xff}, messages[2].Data)
}

func TestSplitUnknownLength(t *testing.T) {
	messages, err := Split([]byte{48, 1, 2, 3, 4, 60, 9, 9})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, PowerControlSignalQuality, messages[0].Opcode)
	assert.Equal(t, UnknownTDMA, messages[1].Opcode)
	assert.Equal(t, []byte{60, 9, 9}, messages[1].Data)
}

func TestSplitTruncated(t *testing.T) {
	messages, err := Split([]byte{48, 1, 2, 3, 4, 64, 1, 2})
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Len(t, messages, 1)

	assert.Equal(t, 2+3*4, MessageLength([]byte{18, 0x03}))
	assert.Equal(t, LengthUnknown, MessageLength([]byte{17}))
	assert.Equal(t, LengthUnknown, MessageLength(nil))
}

func TestParsePDU(t *testing.T) {
	now := time.Unix(1500000000, 0)

	p := ParsePDU([]byte{48, 1, 2, 3, 4, 0, 0}, now)
	assert.True(t, p.IsValid())
	assert.Equal(t, trunk.P25Phase2, p.Protocol())
	assert.Equal(t, now, p.Timestamp())
	require.Len(t, p.Messages, 1)
	assert.Equal(t, "MAC "+PowerControlSignalQuality.String()+" [30 01 02 03 04]", p.String())

	p = ParsePDU([]byte{48, 1, 2, 3, 4, 64, 1, 2}, now)
	assert.False(t, p.IsValid())
	assert.Contains(t, p.String(), "truncated")

	assert.Equal(t, "MAC null information", ParsePDU([]byte{0, 0}, now).String())
}
