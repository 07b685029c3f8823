package dmr

import (
	"fmt"
	"time"

	"github.com/pd0mz/go-trunk/bit"
)

// DefaultMaxSyncErrors is the number of bit errors tolerated in a SYNC
// pattern.
const DefaultMaxSyncErrors = 2

// flywheelBursts is the number of voice bursts, on both timeslots, framed
// without SYNC pattern after a voice SYNC: bursts B to F of a superframe,
// interleaved with those of the other timeslot.
const flywheelBursts = 2 * (VoiceSuperframe - 1)

// FramerStats counts framing events.
type FramerStats struct {
	Bits       int
	Frames     int
	Flywheel   int
	SyncErrors int
}

// Framer locates frames in a stream of bits by their SYNC pattern and hands
// them to a handler. Voice bursts B to F, which carry no SYNC pattern, are
// framed by timing after a voice SYNC. A Framer is not safe for concurrent
// use.
type Framer struct {
	maxSyncErrors int
	handler       func(*Frame)
	now           func() time.Time

	ring    [FrameBits]bit.Bit
	head    int
	filled  int
	sync    uint64
	holdoff int
	since   int

	flywheel int
	outbound bool

	stats FramerStats
}

// NewFramer returns a framer calling handler for every frame found.
func NewFramer(maxSyncErrors int, handler func(*Frame)) (*Framer, error) {
	if maxSyncErrors < 0 || maxSyncErrors > 4 {
		return nil, fmt.Errorf("dmr: max sync errors %d out of range 0-4", maxSyncErrors)
	}
	return &Framer{
		maxSyncErrors: maxSyncErrors,
		handler:       handler,
		now:           time.Now,
	}, nil
}

// Stats returns the counters so far.
func (fr *Framer) Stats() FramerStats { return fr.stats }

// Write feeds packed bits, MSB first. It implements io.Writer.
func (fr *Framer) Write(p []byte) (int, error) {
	for _, b := range p {
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if b&mask != 0 {
				fr.Push(1)
			} else {
				fr.Push(0)
			}
		}
	}
	return len(p), nil
}

// WriteBits feeds unpacked bits.
func (fr *Framer) WriteBits(bits bit.Bits) {
	for _, b := range bits {
		fr.Push(b)
	}
}

// Push feeds a single bit.
func (fr *Framer) Push(b bit.Bit) {
	fr.stats.Bits++
	fr.ring[fr.head] = b & 0x01
	fr.head = (fr.head + 1) % FrameBits
	if fr.filled < FrameBits {
		fr.filled++
	}
	// The register follows the SYNC position of the frame window, so a
	// pattern matches exactly when the window holds the whole frame.
	fr.sync = (fr.sync<<1 | uint64(fr.window(SyncStart+SyncBits-1))) & syncMask

	fr.since++
	if fr.holdoff > 0 {
		fr.holdoff--
	}
	if fr.filled < FrameBits {
		return
	}

	if fr.holdoff == 0 {
		if p, distance := MatchSync(fr.sync, fr.maxSyncErrors); p != SyncNone {
			fr.stats.SyncErrors += distance
			fr.emit(p)
			if p.IsVoice() {
				fr.flywheel = flywheelBursts
				fr.outbound = p.HasCACH()
			}
			return
		}
	}
	if fr.flywheel > 0 && fr.since >= FrameBits {
		fr.stats.Flywheel++
		fr.emit(SyncNone)
	}
}

// window returns bit k of the current frame window.
func (fr *Framer) window(k int) bit.Bit {
	return fr.ring[(fr.head+k)%FrameBits]
}

// emit hands the current window to the handler. Every burst slot, with or
// without SYNC, uses up one flywheel burst.
func (fr *Framer) emit(p SyncPattern) {
	if fr.flywheel > 0 {
		fr.flywheel--
	}

	var bits = make(bit.Bits, FrameBits)
	for k := range bits {
		bits[k] = fr.window(k)
	}

	var (
		f   *Frame
		err error
	)
	if p == SyncNone && fr.outbound {
		f, err = NewOutboundVoiceFrame(bit.FromBits(bits))
	} else {
		f, err = NewFrame(bit.FromBits(bits), p)
	}
	if err != nil {
		log.Errorf("framer: %v", err)
		return
	}
	f.Time = fr.now()

	fr.stats.Frames++
	fr.since = 0
	fr.holdoff = SyncBits
	if fr.handler != nil {
		fr.handler(f)
	}
}

// Reset drops all buffered bits and framing state.
func (fr *Framer) Reset() {
	fr.ring = [FrameBits]bit.Bit{}
	fr.head, fr.filled, fr.sync = 0, 0, 0
	fr.holdoff, fr.since, fr.flywheel = 0, 0, 0
	fr.outbound = false
}
