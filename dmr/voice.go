package dmr

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/lc"
)

// VoiceSuperframe is the number of bursts in a voice superframe, A to F.
const VoiceSuperframe = 6

// Voice is a single voice burst.
type Voice struct {
	Header

	// Burst is the position in the superframe, 'A' to 'F', or '?' when
	// the burst A was missed.
	Burst byte
	EMB   *EMB

	// Bits holds the three AMBE frames.
	Bits bit.Bits

	// LC is the embedded Link Control completed by this burst.
	LC *lc.LC
}

func (v *Voice) String() string {
	var s = fmt.Sprintf("%s voice burst %c", v.prefix(), v.Burst)
	if v.EMB != nil {
		s += fmt.Sprintf(", %s", v.EMB.LCSS)
	}
	if v.LC != nil {
		s += fmt.Sprintf(", embedded LC %s", v.LC)
	}
	return s
}

// AMBE returns the three 72 bit AMBE frames of the burst.
func (v *Voice) AMBE() [3]bit.Bits {
	var out [3]bit.Bits
	for i := range out {
		out[i] = fixed(v.Bits[i*72:], 72)
	}
	return out
}

// burstLetter maps the index in the superframe to its letter.
func burstLetter(i int) byte {
	if i < 0 || i >= VoiceSuperframe {
		return '?'
	}
	return 'A' + byte(i)
}

// DecodeVoice decodes a voice burst. Burst A carries a SYNC pattern, bursts
// B to F carry the EMB; the letter of the latter is set by the caller.
func DecodeVoice(f *Frame) (*Voice, error) {
	v := &Voice{
		Header: newHeader(f),
		Bits:   f.Voice(),
	}
	switch {
	case f.Sync().IsVoice():
		v.Burst = 'A'
		v.Verdict = bit.Passed
		return v, nil
	case f.Sync() != SyncNone:
		return nil, fmt.Errorf("dmr: %s frame is not a voice burst", f.Sync())
	}

	v.Burst = '?'
	emb, err := f.EMB()
	if err != nil {
		v.Verdict = bit.Failed
		v.Corrected = 2
		return v, nil
	}
	v.EMB = &emb
	v.ColorCode = emb.ColorCode
	v.Corrected = emb.Corrected
	v.Verdict = fixedVerdict(emb.Corrected)
	return v, nil
}
