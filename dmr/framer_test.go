package dmr

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pd0mz/go-trunk/bit"
)

func noise(r *rand.Rand, n int) bit.Bits {
	var out = make(bit.Bits, n)
	for i := range out {
		out[i] = bit.Bit(r.IntN(2))
	}
	return out
}

type frameCollector struct {
	frames []*Frame
}

func (c *frameCollector) add(f *Frame) { c.frames = append(c.frames, f) }

func newTestFramer(t *testing.T, maxSyncErrors int) (*Framer, *frameCollector) {
	t.Helper()
	c := &frameCollector{}
	fr, err := NewFramer(maxSyncErrors, c.add)
	require.NoError(t, err)
	fr.now = func() time.Time { return time.Unix(1500000000, 0) }
	return fr, c
}

func TestNewFramer(t *testing.T) {
	_, err := NewFramer(-1, nil)
	assert.Error(t, err)
	_, err = NewFramer(5, nil)
	assert.Error(t, err)
	_, err = NewFramer(DefaultMaxSyncErrors, nil)
	assert.NoError(t, err)
}

func TestFramer(t *testing.T) {
	var (
		r      = rand.New(rand.NewPCG(1, 2))
		data   = csbkFrame(t)
		voice  = superframe(t, 0, testLC(5, 6))
		want   = append([]*Frame{data}, voice...)
		stream = noise(r, 40)
	)
	for _, f := range want {
		stream = append(stream, f.Buffer().Bits()...)
	}
	// Two SYNC errors in the control block.
	stream[40+SyncStart+3].Flip()
	stream[40+SyncStart+30].Flip()
	stream = append(stream, noise(r, 96)...)
	require.Zero(t, len(stream)%8)

	fr, c := newTestFramer(t, DefaultMaxSyncErrors)
	n, err := fr.Write(stream.Bytes())
	require.NoError(t, err)
	assert.Equal(t, len(stream)/8, n)

	require.Len(t, c.frames, len(want))
	for i, f := range c.frames {
		assert.Equal(t, want[i].Sync(), f.Sync(), "frame %d", i)
		assert.Equal(t, want[i].HasCACH(), f.HasCACH(), "frame %d", i)
		assert.Equal(t, time.Unix(1500000000, 0), f.Time)
		if i > 0 {
			assert.True(t, want[i].Buffer().Equal(f.Buffer()), "frame %d", i)
		}
	}

	stats := fr.Stats()
	assert.Equal(t, len(stream), stats.Bits)
	assert.Equal(t, len(want), stats.Frames)
	assert.Equal(t, VoiceSuperframe-1, stats.Flywheel)
	assert.Equal(t, 2, stats.SyncErrors)

	// The framed bursts decode like the originals.
	d := NewDecoder()
	for i, f := range c.frames {
		m, err := d.Decode(f)
		require.NoError(t, err)
		switch m := m.(type) {
		case *ControlBlock:
			assert.Equal(t, 0, i)
			assert.Equal(t, bit.Passed, m.Verdict)
		case *Voice:
			assert.Equal(t, burstLetter(i-1), m.Burst)
			if m.Burst == 'E' {
				require.NotNil(t, m.LC)
				assert.Equal(t, uint32(5), m.LC.VoiceChannelUser.SrcID)
			}
		default:
			t.Fatalf("frame %d decoded to %T", i, m)
		}
	}
}

func TestFramerFlywheel(t *testing.T) {
	var (
		r      = rand.New(rand.NewPCG(3, 4))
		voice  = superframe(t, 1, testLC(5, 6))
		stream = voice[0].Buffer().Bits()
	)
	// Bursts B to F of both timeslots follow burst A, after that the
	// flywheel stops.
	stream = append(stream, noise(r, (flywheelBursts+2)*FrameBits)...)

	fr, c := newTestFramer(t, 0)
	fr.WriteBits(stream)
	require.Len(t, c.frames, 1+flywheelBursts)
	for _, f := range c.frames[1:] {
		assert.Equal(t, SyncNone, f.Sync())
		assert.True(t, f.HasCACH(), "outbound bursts carry a CACH")
	}
	assert.Equal(t, flywheelBursts, fr.Stats().Flywheel)

	// Mobile station voice has no CACH.
	b := &Burst{Sync: SyncMSSourcedVoice, Voice: testVoiceBits(0)}
	f, err := b.Frame()
	require.NoError(t, err)
	fr.Reset()
	c.frames = nil
	fr.WriteBits(append(f.Buffer().Bits(), noise(r, FrameBits)...))
	require.Len(t, c.frames, 2)
	assert.Equal(t, SyncMSSourcedVoice, c.frames[0].Sync())
	assert.False(t, c.frames[1].HasCACH())
}

func TestFramerFlywheelInterleaved(t *testing.T) {
	var (
		r      = rand.New(rand.NewPCG(7, 8))
		voice  = superframe(t, 0, testLC(5, 6))
		data   = csbkFrame(t)
		stream bit.Bits
		want   []SyncPattern
	)
	// Voice on one timeslot, control blocks on the other. The control
	// blocks use up half of the flywheel.
	stream = append(stream, voice[0].Buffer().Bits()...)
	want = append(want, SyncBSSourcedVoice)
	for _, f := range voice[1:] {
		stream = append(stream, data.Buffer().Bits()...)
		stream = append(stream, f.Buffer().Bits()...)
		want = append(want, SyncBSSourcedData, SyncNone)
	}
	stream = append(stream, noise(r, flywheelBursts*FrameBits)...)

	fr, c := newTestFramer(t, 0)
	fr.WriteBits(stream)
	require.Len(t, c.frames, len(want), "no frames after burst F")
	for i, f := range c.frames {
		assert.Equal(t, want[i], f.Sync(), "frame %d", i)
	}
	assert.Equal(t, VoiceSuperframe-1, fr.Stats().Flywheel)

	// A new voice SYNC arms the flywheel again.
	fr.WriteBits(voice[0].Buffer().Bits())
	fr.WriteBits(noise(r, (flywheelBursts+1)*FrameBits))
	assert.Len(t, c.frames, len(want)+1+flywheelBursts)
}

func TestFramerNoise(t *testing.T) {
	var r = rand.New(rand.NewPCG(5, 6))
	fr, c := newTestFramer(t, 0)
	fr.WriteBits(noise(r, 20*FrameBits))
	assert.Empty(t, c.frames)
	assert.Equal(t, 20*FrameBits, fr.Stats().Bits)
}
