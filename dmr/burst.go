package dmr

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
)

// Burst contains data for a single burst, see 4.2.2 Burst and frame
// structure. It assembles the frames the decoder consumes.
type Burst struct {
	// CACH contents, sent with base station SYNC patterns and, when Outbound
	// is set, with voice bursts B to F.
	TACT     TACT
	ShortLC  bit.Bits
	Outbound bool

	// Sync is SyncNone for voice bursts B to F, which carry the EMB and an
	// embedded signalling fragment instead.
	Sync     SyncPattern
	EMB      EMB
	Embedded bit.Bits

	// Data bursts carry a slot type and 196 info bits, voice bursts 216 voice
	// bits.
	SlotType SlotType
	Info     bit.Bits
	Voice    bit.Bits
}

// Bits lays out the 288 bit frame.
func (b *Burst) Bits() (bit.Bits, error) {
	var out = make(bit.Bits, 0, FrameBits)
	if b.hasCACH() {
		out = append(out, encodeCACH(b.TACT, b.ShortLC)...)
	} else {
		out = append(out, make(bit.Bits, CACHBits)...)
	}

	var sync bit.Bits
	if b.Sync == SyncNone {
		sync = append(sync, b.EMB.Bits()[:EMBHalfBits]...)
		sync = append(sync, fixed(b.Embedded, EMBSignallingLCFragmentBits)...)
		sync = append(sync, b.EMB.Bits()[EMBHalfBits:]...)
	} else {
		sync = bit.UintBits(b.Sync.Value(), SyncBits)
	}

	if b.Sync.IsData() {
		if len(b.Info) != InfoBits {
			return nil, fmt.Errorf("dmr: expected %d info bits, got %d", InfoBits, len(b.Info))
		}
		st := b.SlotType.Bits()
		out = append(out, b.Info[:InfoHalfBits]...)
		out = append(out, st[:SlotTypeHalfBits]...)
		out = append(out, sync...)
		out = append(out, st[SlotTypeHalfBits:]...)
		out = append(out, b.Info[InfoHalfBits:]...)
		return out, nil
	}

	voice := fixed(b.Voice, VoiceBits)
	out = append(out, voice[:VoiceHalfBits]...)
	out = append(out, sync...)
	out = append(out, voice[VoiceHalfBits:]...)
	return out, nil
}

func (b *Burst) hasCACH() bool {
	return b.Sync.HasCACH() || (b.Outbound && b.Sync == SyncNone)
}

// Frame returns the burst as a received frame.
func (b *Burst) Frame() (*Frame, error) {
	bits, err := b.Bits()
	if err != nil {
		return nil, err
	}
	return newFrame(bit.FromBits(bits), b.Sync, b.hasCACH())
}

// fixed copies bits into a zero padded slice of n bits.
func fixed(bits bit.Bits, n int) bit.Bits {
	var o = make(bit.Bits, n)
	copy(o, bits)
	return o
}
