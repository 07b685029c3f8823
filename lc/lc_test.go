package lc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pd0mz/go-trunk/fec"
	"github.com/pd0mz/go-trunk/lc/serviceoptions"
)

func testVoiceLC() *LC {
	return &LC{
		Opcode:   GroupVoiceChannelUser,
		CallType: CallTypeGroup,
		VoiceChannelUser: &VoiceChannelUserPDU{
			ServiceOptions: serviceoptions.ServiceOptions{Emergency: true, Priority: 2},
			DstID:          2043044,
			SrcID:          2042214,
		},
	}
}

func TestParseLC(t *testing.T) {
	want := testVoiceLC()
	data := want.Bytes()
	require.Len(t, data, Size)

	got, err := ParseLC(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Contains(t, got.String(), "2042214->2043044")
	assert.Contains(t, got.String(), "call type group")

	data[0] |= 0x80
	_, err = ParseLC(data)
	assert.ErrorIs(t, err, ErrProtected)

	_, err = ParseLC(data[:8])
	assert.Error(t, err)
}

func TestParseLCUnknown(t *testing.T) {
	got, err := ParseLC([]byte{0x30, 0x00, 1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7}, got.Raw)
	assert.Nil(t, got.VoiceChannelUser)

	// Manufacturer specific messages are never parsed.
	got, err = ParseLC([]byte{0x00, 0x10, 1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), got.FeatureSetID)
	assert.Nil(t, got.VoiceChannelUser)
	assert.Equal(t, []byte{0x00, 0x10, 1, 2, 3, 4, 5, 6, 7}, got.Bytes())
}

func TestParseFullLC(t *testing.T) {
	want := testVoiceLC()
	data := want.FullBytes(0x96)
	require.Len(t, data, FullSize)

	got, fixed, err := ParseFullLC(data, 0x96)
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)
	assert.Equal(t, want, got)

	// Wrong mask.
	_, _, err = ParseFullLC(data, 0x99)
	assert.True(t, errors.Is(err, fec.ErrUncorrectable))

	data[3] ^= 0x5a
	got, fixed, err = ParseFullLC(data, 0x96)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.Equal(t, want, got)
	assert.Equal(t, byte(0x5a), data[3]^want.Bytes()[3], "input is left untouched")
}

func TestParseFullLCProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		want := &LC{
			Opcode:   UnitToUnitVoiceChannelUser,
			CallType: CallTypePrivate,
			VoiceChannelUser: &VoiceChannelUserPDU{
				ServiceOptions: serviceoptions.ParseServiceOptions(rapid.Byte().Draw(t, "options")),
				DstID:          rapid.Uint32Range(0, 1<<24-1).Draw(t, "dst"),
				SrcID:          rapid.Uint32Range(0, 1<<24-1).Draw(t, "src"),
			},
		}
		data := want.FullBytes(0x99)
		data[rapid.IntRange(0, FullSize-1).Draw(t, "p")] ^= rapid.ByteRange(1, 255).Draw(t, "e")

		got, fixed, err := ParseFullLC(data, 0x99)
		if err != nil || fixed != 1 {
			t.Fatalf("fixed %d: %v", fixed, err)
		}
		if *got.VoiceChannelUser != *want.VoiceChannelUser {
			t.Fatalf("got %v, want %v", got, want)
		}
	})
}

func TestGpsInfo(t *testing.T) {
	want := &LC{
		Opcode: GpsInfo,
		GpsInfo: &GpsInfoPDU{
			PositionError: ErrorLT20m,
			Longitude:     0x1c00000,
			Latitude:      0x400000,
		},
	}
	got, err := ParseLC(want.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want.GpsInfo, got.GpsInfo)

	lat, lon := got.GpsInfo.Position()
	assert.InDelta(t, 45.0, lat, 1e-9)
	assert.InDelta(t, -45.0, lon, 1e-9)
	assert.Contains(t, got.String(), "< 20m")
}

func TestTalkerAlias(t *testing.T) {
	var tests = []struct {
		Text   string
		Format uint8
		Parts  int
	}{
		{"PD0MZ Maarten", Format7Bit, 2},
		{"PD0MZ", Format7Bit, 1},
		{"Zoë Ærø", FormatISO8Bit, 2},
		{"héllo wörld", FormatUTF8, 2},
		{"PD0MZ ✓ 7", FormatUTF16BE, 3},
	}
	for _, test := range tests {
		t.Run(DataFormatName[test.Format], func(t *testing.T) {
			ta, err := NewTalkerAlias(test.Text, test.Format)
			require.NoError(t, err)

			lcs := ta.LCs()
			require.Len(t, lcs, test.Parts)

			var got TalkerAlias
			for i, l := range lcs {
				assert.False(t, got.Complete(), "complete after %d parts", i)
				parsed, err := ParseLC(l.Bytes())
				require.NoError(t, err)
				require.True(t, got.Add(parsed))
			}
			assert.True(t, got.Complete())

			text, err := got.Text()
			require.NoError(t, err)
			assert.Equal(t, test.Text, text)
		})
	}
}

func TestTalkerAliasInvalid(t *testing.T) {
	_, err := NewTalkerAlias("✓", Format7Bit)
	assert.Error(t, err)
	_, err = NewTalkerAlias("this alias is far too long to fit in a talker alias", FormatISO8Bit)
	assert.Error(t, err)
	_, err = NewTalkerAlias("x", 7)
	assert.Error(t, err)

	var ta TalkerAlias
	_, err = ta.Text()
	assert.Error(t, err)
	assert.False(t, ta.Add(testVoiceLC()))
}
