package dmr

import (
	"errors"
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
	"github.com/pd0mz/go-trunk/lc"
)

// LinkControl is a full Link Control message, carried by voice LC headers,
// terminators and the embedded signalling of voice superframes.
type LinkControl struct {
	Header
	DataType DataType
	Embedded bool
	Protect  bool
	LC       *lc.LC

	// Alias is the talker alias, once all of its parts were received.
	Alias string
}

func (m *LinkControl) String() string {
	var source = m.DataType.String()
	if m.Embedded {
		source = "embedded LC"
	}
	switch {
	case m.Protect:
		return fmt.Sprintf("%s %s, protected", m.prefix(), source)
	case m.LC == nil:
		return fmt.Sprintf("%s %s", m.prefix(), source)
	case m.Alias != "":
		return fmt.Sprintf("%s %s, %s, alias %q", m.prefix(), source, m.LC, m.Alias)
	}
	return fmt.Sprintf("%s %s, %s", m.prefix(), source, m.LC)
}

func fixedVerdict(fixed int) bit.Verdict {
	if fixed > 0 {
		return bit.Corrected
	}
	return bit.Passed
}

// DecodeLinkControl decodes the Reed-Solomon protected Link Control of a voice
// LC header or terminator. An uncorrectable message is returned with a Failed
// verdict and no LC.
func DecodeLinkControl(f *Frame) (*LinkControl, error) {
	st, err := f.SlotType()
	if err != nil {
		return nil, err
	}
	mask, ok := st.DataType.RSMask()
	if !ok {
		return nil, fmt.Errorf("dmr: %s burst carries no full LC", st.DataType)
	}

	buf, err := decodeInfo(f)
	if err != nil {
		return nil, err
	}
	buf.Freeze()

	m := &LinkControl{
		Header:   newHeader(f),
		DataType: st.DataType,
	}
	m.ColorCode = st.ColorCode

	l, fixed, err := lc.ParseFullLC(buf.Bytes(), mask)
	switch {
	case errors.Is(err, fec.ErrUncorrectable):
		m.Verdict = bit.Failed
		fixed = 2
	case errors.Is(err, lc.ErrProtected):
		m.Protect = true
		m.Verdict = fixedVerdict(fixed)
	case err != nil:
		return nil, err
	default:
		m.LC = l
		m.Verdict = fixedVerdict(fixed)
	}
	m.Corrected = buf.Corrected() + st.Corrected + fixed
	return m, nil
}

// EncodeLinkControl returns the 196 info bits of a voice LC header or
// terminator carrying l.
func EncodeLinkControl(l *lc.LC, dt DataType) (bit.Bits, error) {
	mask, ok := dt.RSMask()
	if !ok {
		return nil, fmt.Errorf("dmr: %s burst carries no full LC", dt)
	}
	return EncodeInfo(l.FullBytes(mask))
}
