package dmr

import (
	"errors"
	"math/bits"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
)

const testColorCode = 7

func testShortLC() bit.Bits {
	return bit.UintBits(0x15a5a, CACHFragmentBits)
}

// dataFrame builds a base station data burst on TS2.
func dataFrame(tb testing.TB, dt DataType, info bit.Bits) *Frame {
	tb.Helper()
	b := &Burst{
		TACT:     TACT{Timeslot: 1, LCSS: FirstFragment},
		ShortLC:  testShortLC(),
		Sync:     SyncBSSourcedData,
		SlotType: SlotType{ColorCode: testColorCode, DataType: dt},
		Info:     info,
	}
	f, err := b.Frame()
	require.NoError(tb, err)
	return f
}

// flipped returns a copy of f with the given frame bits inverted.
func flipped(tb testing.TB, f *Frame, positions ...int) *Frame {
	tb.Helper()
	buf := f.Buffer().Clone()
	for _, p := range positions {
		require.NoError(tb, buf.Flip(p))
	}
	g, err := newFrame(buf, f.Sync(), f.HasCACH())
	require.NoError(tb, err)
	return g
}

// infoPosition maps info bit i to its frame position.
func infoPosition(i int) int {
	if i < InfoHalfBits {
		return Payload1Start + i
	}
	return Payload2Start + SlotTypeHalfBits + i - InfoHalfBits
}

func testInfo() bit.Bits {
	var info = make(bit.Bits, InfoBits)
	for i := range info {
		info[i] = bit.Bit(i * 7 % 5 % 2)
	}
	return info
}

func TestMatchSync(t *testing.T) {
	for _, p := range SyncPatterns() {
		got, distance := MatchSync(p.Value(), 0)
		assert.Equal(t, p, got)
		assert.Equal(t, 0, distance)
	}

	rapid.Check(t, func(t *rapid.T) {
		var (
			patterns = SyncPatterns()
			p        = patterns[rapid.IntRange(0, len(patterns)-1).Draw(t, "pattern")]
			flips    = rapid.SliceOfNDistinct(rapid.IntRange(0, SyncBits-1), 0, 5, rapid.ID[int]).Draw(t, "flips")
			value    = p.Value()
		)
		for _, i := range flips {
			value ^= 1 << uint(i)
		}

		got, distance := MatchSync(value, 4)
		if len(flips) <= 4 {
			assert.Equal(t, p, got)
			assert.Equal(t, len(flips), distance)
		} else {
			assert.Equal(t, SyncNone, got)
		}
	})
}

func TestSyncPatternDistance(t *testing.T) {
	patterns := SyncPatterns()
	for i, a := range patterns {
		for _, b := range patterns[i+1:] {
			assert.GreaterOrEqual(t, bits.OnesCount64(a.Value()^b.Value()), 10, "%s and %s", a, b)
		}
	}
}

func TestSyncPattern(t *testing.T) {
	for _, p := range SyncPatterns() {
		assert.False(t, p.IsVoice() && p.IsData(), p.String())
		assert.Equal(t, p == SyncBSSourcedVoice || p == SyncBSSourcedData, p.HasCACH(), p.String())
	}
	ts, ok := SyncDirectDataTS2.Timeslot()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), ts)
	_, ok = SyncBSSourcedVoice.Timeslot()
	assert.False(t, ok)
	assert.Equal(t, "sync pattern 42", SyncPattern(42).String())
}

func TestFrameLayout(t *testing.T) {
	info := testInfo()
	f := dataFrame(t, CSBK, info)

	assert.True(t, f.HasCACH())
	assert.True(t, f.Info().Equal(info))
	assert.Equal(t, SyncBSSourcedData.Value(), f.SyncBits().Uint())

	st, err := f.SlotType()
	require.NoError(t, err)
	assert.Equal(t, SlotType{ColorCode: testColorCode, DataType: CSBK}, st)

	c, err := f.CACH()
	require.NoError(t, err)
	assert.True(t, c.Valid())
	assert.Equal(t, TACT{Timeslot: 1, LCSS: FirstFragment}, c.TACT)
	assert.True(t, c.Fragment().Equal(testShortLC()))

	again, err := f.CACH()
	require.NoError(t, err)
	assert.Same(t, c, again, "CACH is decoded once")

	ts, ok := f.Timeslot()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), ts)
	assert.Equal(t, "TS2 BS sourced data", f.String())

	_, err = f.EMB()
	assert.ErrorIs(t, err, ErrNoEMB)
}

func TestFrameCACHConcurrent(t *testing.T) {
	const readers = 16
	var (
		f     = dataFrame(t, CSBK, testInfo())
		start = make(chan struct{})
		got   = make([]*CACH, readers)
		errs  = make([]error, readers)
		wg    sync.WaitGroup
	)
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			got[i], errs[i] = f.CACH()
			f.Timeslot()
		}()
	}
	close(start)
	wg.Wait()

	for i := range readers {
		require.NoError(t, errs[i])
		assert.Same(t, got[0], got[i], "reader %d", i)
	}
	assert.Equal(t, uint8(1), got[0].Timeslot)
}

func TestFrameWithoutCACH(t *testing.T) {
	b := &Burst{
		Sync:     SyncMSSourcedData,
		SlotType: SlotType{ColorCode: 1, DataType: Idle},
		Info:     testInfo(),
	}
	f, err := b.Frame()
	require.NoError(t, err)

	_, err = f.CACH()
	assert.ErrorIs(t, err, ErrNoCACH)
	_, ok := f.Timeslot()
	assert.False(t, ok)

	b.Sync = SyncDirectDataTS2
	f, err = b.Frame()
	require.NoError(t, err)
	ts, ok := f.Timeslot()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), ts)
}

func TestNewFrame(t *testing.T) {
	_, err := NewFrame(bit.NewBuffer(FrameBits-1), SyncBSSourcedData)
	assert.Error(t, err)

	buf := bit.NewBuffer(FrameBits)
	_, err = NewFrame(buf, SyncBSSourcedData)
	require.NoError(t, err)
	assert.True(t, buf.Frozen())
	assert.ErrorIs(t, buf.Set(0), bit.ErrFrozen)
}

func TestNewBurstFrame(t *testing.T) {
	f := dataFrame(t, Idle, testInfo())
	burst := f.Buffer().Bits()[CACHBits:].Bytes()
	require.Len(t, burst, 33)

	g, err := NewBurstFrame(burst, SyncBSSourcedData, 0)
	require.NoError(t, err)
	assert.False(t, g.HasCACH())
	ts, ok := g.Timeslot()
	assert.True(t, ok)
	assert.Equal(t, uint8(0), ts)
	assert.True(t, g.Info().Equal(f.Info()))

	_, err = NewBurstFrame(burst[:32], SyncBSSourcedData, 0)
	assert.Error(t, err)
}

func TestFrameOutOfRange(t *testing.T) {
	f := dataFrame(t, Idle, testInfo())
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		var ie *bit.IndexError
		assert.True(t, errors.As(err, &ie))
	}()
	f.bits(FrameBits-8, 16)
}

func TestCACHCorrection(t *testing.T) {
	f := dataFrame(t, Idle, testInfo())
	g := flipped(t, f, CACHStart+tactPositions[2])

	c, err := g.CACH()
	require.NoError(t, err)
	assert.True(t, c.Valid())
	assert.Equal(t, 1, c.Corrected())
	assert.Equal(t, TACT{Timeslot: 1, LCSS: FirstFragment}, c.TACT)
}

func TestTACT(t *testing.T) {
	for ts := uint8(0); ts < 2; ts++ {
		for lcss := SingleFragment; lcss <= Continuation; lcss++ {
			want := TACT{AccessType: ts == 1, Timeslot: ts, LCSS: lcss}
			out := encodeCACH(want, nil)
			c, err := newCACH(bit.FromBits(out), 0)
			require.NoError(t, err)
			assert.True(t, c.Valid())
			assert.Equal(t, want, c.TACT)
		}
	}
}

func TestSlotType(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var (
			want = SlotType{
				ColorCode: rapid.Uint8Range(0, 15).Draw(t, "cc"),
				DataType:  DataType(rapid.Uint8Range(0, 15).Draw(t, "dt")),
			}
			flips = rapid.SliceOfNDistinct(rapid.IntRange(0, SlotTypeBits-1), 0, fec.Golay2087.T(), rapid.ID[int]).Draw(t, "flips")
			word  = want.Bits()
		)
		for _, i := range flips {
			word[i].Flip()
		}
		got, err := DecodeSlotType(word)
		require.NoError(t, err)
		assert.Equal(t, len(flips), got.Corrected)
		got.Corrected = 0
		assert.Equal(t, want, got)
	})
}

func TestDataTypeMasks(t *testing.T) {
	mask, ok := CSBK.CRCMask()
	assert.True(t, ok)
	assert.Equal(t, uint16(0xa5a5), mask)
	mask, ok = Data.CRCMask()
	assert.True(t, ok)
	assert.Equal(t, uint16(0xcccc), mask)
	_, ok = Rate34Data.CRCMask()
	assert.False(t, ok)

	rs, ok := VoiceLC.RSMask()
	assert.True(t, ok)
	assert.Equal(t, byte(0x96), rs)
	rs, ok = TerminatorWithLC.RSMask()
	assert.True(t, ok)
	assert.Equal(t, byte(0x99), rs)

	assert.Equal(t, "reserved (13)", DataType(13).String())
}

func TestEMB(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var (
			want = EMB{
				ColorCode: rapid.Uint8Range(0, 15).Draw(t, "cc"),
				PI:        rapid.Bool().Draw(t, "pi"),
				LCSS:      LCSS(rapid.Uint8Range(0, 3).Draw(t, "lcss")),
			}
			flips = rapid.SliceOfNDistinct(rapid.IntRange(0, EMBBits-1), 0, fec.QR1676.T(), rapid.ID[int]).Draw(t, "flips")
			word  = want.Bits()
		)
		for _, i := range flips {
			word[i].Flip()
		}
		got, err := DecodeEMB(word)
		require.NoError(t, err)
		assert.Equal(t, len(flips), got.Corrected)
		got.Corrected = 0
		assert.Equal(t, want, got)
	})
}

func TestVoiceFrame(t *testing.T) {
	var (
		emb      = EMB{ColorCode: 3, LCSS: Continuation}
		embedded = bit.UintBits(0xdeadbeef, EMBSignallingLCFragmentBits)
		voice    = make(bit.Bits, VoiceBits)
	)
	for i := range voice {
		voice[i] = bit.Bit(i % 2)
	}
	b := &Burst{
		TACT:     TACT{Timeslot: 0},
		Outbound: true,
		Sync:     SyncNone,
		EMB:      emb,
		Embedded: embedded,
		Voice:    voice,
	}
	f, err := b.Frame()
	require.NoError(t, err)

	assert.True(t, f.HasCACH())
	got, err := f.EMB()
	require.NoError(t, err)
	assert.Equal(t, emb, got)
	assert.True(t, f.EmbeddedFragment().Equal(embedded))
	assert.True(t, f.Voice().Equal(voice))

	_, err = f.SlotType()
	assert.ErrorIs(t, err, ErrNoSlotType)

	b.Outbound = false
	f, err = b.Frame()
	require.NoError(t, err)
	assert.False(t, f.HasCACH())
}
