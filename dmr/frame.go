package dmr

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pd0mz/go-trunk/bit"
)

var (
	ErrNoCACH     = errors.New("dmr: frame has no CACH")
	ErrNoSlotType = errors.New("dmr: frame has no slot type")
	ErrNoEMB      = errors.New("dmr: frame has no embedded signalling")
)

// Frame is a received 288 bit frame. The underlying buffer is frozen, so a
// Frame can be shared between goroutines.
type Frame struct {
	// Time of reception.
	Time time.Time

	buf      *bit.Buffer
	sync     SyncPattern
	withCACH bool
	timeslot int8

	cachOnce sync.Once
	cach     *CACH
	cachErr  error
}

// NewFrame wraps a 288 bit frame buffer, freezing it. Frames with a base
// station SYNC pattern carry a CACH.
func NewFrame(buf *bit.Buffer, pattern SyncPattern) (*Frame, error) {
	return newFrame(buf, pattern, pattern.HasCACH())
}

// NewOutboundVoiceFrame wraps voice bursts B to F of a base station, which
// carry a CACH but no SYNC pattern.
func NewOutboundVoiceFrame(buf *bit.Buffer) (*Frame, error) {
	return newFrame(buf, SyncNone, true)
}

func newFrame(buf *bit.Buffer, pattern SyncPattern, withCACH bool) (*Frame, error) {
	if buf.Len() != FrameBits {
		return nil, fmt.Errorf("dmr: expected %d bits, got %d", FrameBits, buf.Len())
	}
	buf.Freeze()
	return &Frame{
		Time:     time.Now(),
		buf:      buf,
		sync:     pattern,
		withCACH: withCACH,
		timeslot: -1,
	}, nil
}

// NewBurstFrame wraps a 264 bit burst received without CACH, as relayed by
// repeater networks. The timeslot is known out of band.
func NewBurstFrame(burst []byte, pattern SyncPattern, timeslot uint8) (*Frame, error) {
	if len(burst)*8 != PayloadBits {
		return nil, fmt.Errorf("dmr: expected %d bits, got %d", PayloadBits, len(burst)*8)
	}
	f, err := newFrame(bit.FromBits(append(make(bit.Bits, CACHBits), bit.NewBits(burst)...)), pattern, false)
	if err != nil {
		return nil, err
	}
	f.timeslot = int8(timeslot & 0x01)
	return f, nil
}

// Buffer returns the frozen frame buffer.
func (f *Frame) Buffer() *bit.Buffer { return f.buf }

func (f *Frame) Sync() SyncPattern { return f.sync }

// HasCACH reports whether the frame was received with a CACH.
func (f *Frame) HasCACH() bool { return f.withCACH }

// CACH decodes the CACH on first use.
func (f *Frame) CACH() (*CACH, error) {
	if !f.HasCACH() {
		return nil, ErrNoCACH
	}
	f.cachOnce.Do(func() {
		f.cach, f.cachErr = newCACH(f.buf, CACHStart)
	})
	return f.cach, f.cachErr
}

// Timeslot returns the timeslot (0 or 1) of the burst, if it can be told.
func (f *Frame) Timeslot() (uint8, bool) {
	if f.timeslot >= 0 {
		return uint8(f.timeslot), true
	}
	if c, err := f.CACH(); err == nil && c.Valid() {
		return c.Timeslot, true
	}
	return f.sync.Timeslot()
}

// bits copies n bits at start. Out of range access panics with a
// *bit.IndexError.
func (f *Frame) bits(start, n int) bit.Bits {
	var o = make(bit.Bits, n)
	for i := range o {
		if f.buf.Bit(start + i) {
			o[i] = 1
		}
	}
	return o
}

func (f *Frame) Payload1() bit.Bits { return f.bits(Payload1Start, PayloadHalfBits) }
func (f *Frame) Payload2() bit.Bits { return f.bits(Payload2Start, PayloadHalfBits) }
func (f *Frame) SyncBits() bit.Bits { return f.bits(SyncStart, SyncBits) }

// Info returns the 196 info bits of a data burst, which surround the slot
// type.
func (f *Frame) Info() bit.Bits {
	return append(
		f.bits(Payload1Start, InfoHalfBits),
		f.bits(Payload2Start+SlotTypeHalfBits, InfoHalfBits)...)
}

// Voice returns the 216 bits of the three AMBE frames of a voice burst.
func (f *Frame) Voice() bit.Bits {
	return append(f.Payload1(), f.Payload2()...)
}

// SlotType decodes the slot type of a data burst.
func (f *Frame) SlotType() (SlotType, error) {
	if !f.sync.IsData() {
		return SlotType{}, ErrNoSlotType
	}
	return DecodeSlotType(append(
		f.bits(Payload1Start+InfoHalfBits, SlotTypeHalfBits),
		f.bits(Payload2Start, SlotTypeHalfBits)...))
}

// EMB decodes the embedded signalling of voice bursts B to F, which carry it
// in place of the SYNC pattern.
func (f *Frame) EMB() (EMB, error) {
	if f.sync != SyncNone {
		return EMB{}, ErrNoEMB
	}
	return DecodeEMB(append(
		f.bits(SyncStart, EMBHalfBits),
		f.bits(SyncStart+EMBHalfBits+EMBSignallingLCFragmentBits, EMBHalfBits)...))
}

// EmbeddedFragment returns the 32 embedded signalling bits between the EMB
// halves.
func (f *Frame) EmbeddedFragment() bit.Bits {
	return f.bits(SyncStart+EMBHalfBits, EMBSignallingLCFragmentBits)
}

func (f *Frame) String() string {
	if ts, ok := f.Timeslot(); ok {
		return fmt.Sprintf("TS%d %s", ts+1, f.sync)
	}
	return f.sync.String()
}
