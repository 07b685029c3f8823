package dmr

import (
	"errors"
	"fmt"
	"time"

	"github.com/op/go-logging"

	trunk "github.com/pd0mz/go-trunk"
	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/lc"
)

var log = logging.MustGetLogger("dmr")

// ErrUnsupported is returned for frames without a decoder, such as reverse
// channel bursts.
var ErrUnsupported = errors.New("dmr: unsupported frame")

type slotState struct {
	call struct {
		start time.Time
		end   time.Time
	}
	srcID, dstID uint32
	inCall       bool

	// Voice superframe position, -1 until burst A is seen.
	burst    int
	embedded EmbeddedLC
	alias    lc.TalkerAlias

	data struct {
		header         *DataHeader
		confirmed      bool
		blocksExpected int
		blocks         []*DataBlock
	}
}

func (s *slotState) reset() {
	*s = slotState{burst: -1}
}

// DecoderStats counts the outcome of decoded frames.
type DecoderStats struct {
	Frames    int
	Valid     int
	Corrected int
	Failed    int
	Errors    int
}

// Decoder turns frames into messages, tracking call state per timeslot. It is
// not safe for concurrent use: use one Decoder per frame stream.
type Decoder struct {
	slot  [2]slotState
	stats DecoderStats
}

func NewDecoder() *Decoder {
	d := &Decoder{}
	for i := range d.slot {
		d.slot[i].reset()
	}
	return d
}

// Stats returns the counters so far.
func (d *Decoder) Stats() DecoderStats { return d.stats }

// Reset forgets the call state of both timeslots.
func (d *Decoder) Reset() {
	for i := range d.slot {
		d.slot[i].reset()
	}
}

type headed interface {
	MessageHeader() *Header
}

// Decode decodes a single frame. Frames that fail their checksum still
// produce a message, with a Failed verdict; an error means the frame could not
// be interpreted at all.
func (d *Decoder) Decode(f *Frame) (msg trunk.Message, err error) {
	d.stats.Frames++
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*bit.IndexError)
			if !ok {
				panic(r)
			}
			msg, err = nil, fmt.Errorf("dmr: malformed frame: %w", ie)
		}
		d.count(msg, err)
	}()

	ts, _ := f.Timeslot()
	slot := &d.slot[ts&0x01]

	switch {
	case f.Sync().IsData():
		return d.decodeData(f, slot)
	case f.Sync().IsVoice(), f.Sync() == SyncNone:
		return d.decodeVoice(f, slot)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, f.Sync())
}

func (d *Decoder) count(msg trunk.Message, err error) {
	if err != nil || msg == nil {
		d.stats.Errors++
		return
	}
	hm, ok := msg.(headed)
	if !ok {
		return
	}
	h := hm.MessageHeader()
	switch {
	case h.Verdict == bit.Failed:
		d.stats.Failed++
	case h.Verdict.OK():
		d.stats.Valid++
	}
	if h.Corrected > 0 {
		d.stats.Corrected++
	}
}

func (d *Decoder) decodeData(f *Frame, slot *slotState) (trunk.Message, error) {
	st, err := f.SlotType()
	if err != nil {
		return nil, err
	}

	switch st.DataType {
	case CSBK:
		cb, err := DecodeCSBK(f)
		if err != nil {
			return nil, err
		}
		if cb.Verdict.OK() {
			log.Debugf("TS%d [%d->%d] control block %s", cb.Timeslot+1, cb.SrcID, cb.DstID, cb.Opcode)
		}
		return cb, nil

	case VoiceLC, TerminatorWithLC:
		m, err := DecodeLinkControl(f)
		if err != nil {
			return nil, err
		}
		if st.DataType == VoiceLC {
			d.callStart(slot, m)
		} else {
			d.callEnd(slot, m)
		}
		return m, nil

	case Data:
		h, err := DecodeDataHeader(f)
		if err != nil {
			return nil, err
		}
		slot.data.header = nil
		slot.data.blocks = slot.data.blocks[:0]
		slot.data.blocksExpected = 0
		if h.Verdict.OK() {
			slot.data.header = h
			slot.data.confirmed = h.Confirmed()
			slot.data.blocksExpected = h.BlocksToFollow()
			log.Debugf("TS%d [%d->%d] data header, expecting %d blocks", h.Timeslot+1, h.SrcID, h.DstID, slot.data.blocksExpected)
		} else {
			log.Warningf("TS%d data header %s", h.Timeslot+1, h.Verdict)
		}
		return h, nil

	case Rate34Data, Rate12Data:
		var b *DataBlock
		if st.DataType == Rate34Data {
			b, err = DecodeRate34Block(f, slot.data.confirmed)
		} else {
			b, err = DecodeRate12Block(f, slot.data.confirmed)
		}
		if err != nil {
			return nil, err
		}
		d.collect(slot, b)
		return b, nil

	case Idle:
		m := &IdleBurst{Header: newHeader(f)}
		m.ColorCode = st.ColorCode
		m.Corrected = st.Corrected
		m.Verdict = fixedVerdict(st.Corrected)
		return m, nil
	}

	m, err := decodeRaw(f, st)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// collect adds a block to the packet announced by the last data header.
func (d *Decoder) collect(slot *slotState, b *DataBlock) {
	h := slot.data.header
	if h == nil {
		return
	}
	slot.data.blocks = append(slot.data.blocks, b)
	if len(slot.data.blocks) < slot.data.blocksExpected {
		return
	}

	p, err := NewDataPacket(h, slot.data.blocks)
	if err != nil {
		log.Warningf("TS%d [%d->%d] %v", b.Timeslot+1, h.SrcID, h.DstID, err)
	} else {
		b.Packet = p
		log.Debugf("TS%d [%d->%d] %s", b.Timeslot+1, h.SrcID, h.DstID, p)
	}
	slot.data.header = nil
	slot.data.blocks = nil
}

// decodeRaw keeps the payload of data types without a dedicated decoder.
// BPTC protected types are repaired and their CCITT checksum checked.
func decodeRaw(f *Frame, st SlotType) (*Raw, error) {
	m := &Raw{
		Header:   newHeader(f),
		DataType: st.DataType,
	}
	m.ColorCode = st.ColorCode
	m.Corrected = st.Corrected

	if _, ok := st.DataType.CRCMask(); !ok {
		// Rate 1 data and reserved types are not protected.
		m.Data = f.Info()[:InfoBits/8*8].Bytes()
		return m, nil
	}

	buf, err := decodeInfo(f)
	if err != nil {
		return nil, err
	}
	if m.Verdict, err = checkCCITT(buf, st.DataType); err != nil {
		return nil, err
	}
	buf.Freeze()
	m.Data = buf.Bytes()
	m.Corrected += buf.Corrected()
	return m, nil
}

func (d *Decoder) decodeVoice(f *Frame, slot *slotState) (trunk.Message, error) {
	v, err := DecodeVoice(f)
	if err != nil {
		return nil, err
	}

	if v.Burst == 'A' {
		slot.burst = 0
		slot.embedded.Reset()
		if !slot.inCall {
			slot.inCall = true
			slot.call.start = v.Time
		}
		return v, nil
	}

	if slot.burst >= 0 && slot.burst < VoiceSuperframe-1 {
		slot.burst++
		v.Burst = burstLetter(slot.burst)
	} else {
		slot.burst = -1
	}
	if v.EMB == nil {
		log.Warningf("TS%d voice burst %c: EMB lost", v.Timeslot+1, v.Burst)
		slot.embedded.Reset()
		return v, nil
	}

	l, fixed, err := slot.embedded.Add(*v.EMB, f.EmbeddedFragment())
	switch {
	case err != nil:
		log.Warningf("TS%d embedded LC: %v", v.Timeslot+1, err)
	case l != nil:
		v.LC = l
		v.Corrected += fixed
		if slot.alias.Add(l) && slot.alias.Complete() {
			if text := aliasText(v.Timeslot, &slot.alias); text != "" {
				log.Infof("TS%d talker alias %q", v.Timeslot+1, text)
			}
		}
	}
	return v, nil
}

func aliasText(ts uint8, a *lc.TalkerAlias) string {
	text, err := a.Text()
	if err != nil {
		log.Warningf("TS%d talker alias: %v", ts+1, err)
	}
	return text
}

func (d *Decoder) callStart(slot *slotState, m *LinkControl) {
	slot.burst = -1
	slot.embedded.Reset()
	if m.LC == nil || m.LC.VoiceChannelUser == nil {
		return
	}
	u := m.LC.VoiceChannelUser
	if slot.inCall && slot.srcID == u.SrcID && slot.dstID == u.DstID {
		return
	}
	slot.inCall = true
	slot.srcID, slot.dstID = u.SrcID, u.DstID
	slot.call.start = m.Time
	slot.call.end = time.Time{}
	slot.alias.Reset()
	log.Debugf("TS%d [%d->%d] voice call started", m.Timeslot+1, u.SrcID, u.DstID)
}

func (d *Decoder) callEnd(slot *slotState, m *LinkControl) {
	if m.LC != nil {
		slot.alias.Add(m.LC)
	}
	if slot.alias.Complete() {
		m.Alias = aliasText(m.Timeslot, &slot.alias)
	}
	if slot.inCall {
		slot.call.end = m.Time
		log.Debugf("TS%d [%d->%d] voice call ended after %s", m.Timeslot+1, slot.srcID, slot.dstID,
			slot.call.end.Sub(slot.call.start).Round(time.Millisecond))
	}
	slot.reset()
}
