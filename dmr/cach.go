package dmr

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
)

// LCSS is the Link Control Start/Stop of a signalling fragment.
type LCSS uint8

// EMB LCSS fragments.
const (
	SingleFragment LCSS = iota
	FirstFragment
	LastFragment
	Continuation
)

var lcssName = [...]string{
	SingleFragment: "single fragment",
	FirstFragment:  "first fragment",
	LastFragment:   "last fragment",
	Continuation:   "continuation",
}

func (l LCSS) String() string {
	if int(l) < len(lcssName) {
		return lcssName[l]
	}
	return fmt.Sprintf("LCSS %d", uint8(l))
}

// CACH interleaving: the Hamming(7,4) protected TACT bits sit at fixed
// positions, the short LC fragment fills the rest.
var (
	tactPositions     = [7]int{0, 4, 8, 12, 14, 18, 22}
	fragmentPositions [CACHFragmentBits]int
)

// CACHFragmentBits is the size of the short LC fragment in a CACH.
const CACHFragmentBits = CACHBits - 7

func init() {
	var (
		n    int
		tact = 0
	)
	for i := 0; i < CACHBits; i++ {
		if tact < len(tactPositions) && tactPositions[tact] == i {
			tact++
			continue
		}
		fragmentPositions[n] = i
		n++
	}
}

// TACT is the TDMA Access Channel Type of a CACH.
type TACT struct {
	// AccessType is set when the inbound channel of the timeslot is busy.
	AccessType bool
	Timeslot   uint8
	LCSS       LCSS
}

// Bits returns the Hamming(7,4) encoded TACT.
func (t TACT) Bits() bit.Bits {
	var data = bit.Bits{0, bit.Bit(t.Timeslot & 0x01)}
	if t.AccessType {
		data[0] = 1
	}
	return fec.Hamming743.Encode(append(data, bit.UintBits(uint64(t.LCSS), 2)...))
}

// CACH is a view on the Common Announcement Channel of a frame.
type CACH struct {
	TACT

	buf    *bit.Buffer
	offset int
	fixed  int
	valid  bool
}

func newCACH(buf *bit.Buffer, offset int) (*CACH, error) {
	var tact = make(bit.Bits, len(tactPositions))
	for i, p := range tactPositions {
		v, err := buf.Get(offset + p)
		if err != nil {
			return nil, err
		}
		if v {
			tact[i] = 1
		}
	}

	c := &CACH{buf: buf, offset: offset}
	c.fixed, c.valid = fec.Hamming743.Correct(tact)
	c.AccessType = tact[0] == 1
	c.Timeslot = uint8(tact[1])
	c.LCSS = LCSS(tact[2:4].Uint())
	return c, nil
}

// Valid reports whether the TACT passed its Hamming check, possibly after
// correction.
func (c *CACH) Valid() bool { return c.valid }

// Corrected returns the number of TACT bits corrected.
func (c *CACH) Corrected() int { return c.fixed }

// Fragment returns the 17 bit short LC fragment.
func (c *CACH) Fragment() bit.Bits {
	var o = make(bit.Bits, CACHFragmentBits)
	for i, p := range fragmentPositions {
		if c.buf.Bit(c.offset + p) {
			o[i] = 1
		}
	}
	return o
}

func (c *CACH) String() string {
	if !c.valid {
		return "CACH invalid"
	}
	return fmt.Sprintf("CACH TS%d, access type %t, %s", c.Timeslot+1, c.AccessType, c.LCSS)
}

// encodeCACH interleaves a TACT and short LC fragment.
func encodeCACH(t TACT, fragment bit.Bits) bit.Bits {
	var (
		out  = make(bit.Bits, CACHBits)
		tact = t.Bits()
	)
	for i, p := range tactPositions {
		out[p] = tact[i]
	}
	for i, p := range fragmentPositions {
		if i < len(fragment) {
			out[p] = fragment[i]
		}
	}
	return out
}
