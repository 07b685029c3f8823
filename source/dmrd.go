package source

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/dmr"
)

// DMRD packet layout, as relayed by Homebrew/MMDVM repeater networks.
const (
	DMRDSize     = 53
	DMRDSizeRSSI = 55 // with trailing BER and RSSI
	dmrdBurst    = 20
)

var dmrdSignature = []byte("DMRD")

// Frame types in the flags byte.
const (
	FrameVoice     uint8 = 0x00
	FrameVoiceSync uint8 = 0x01
	FrameDataSync  uint8 = 0x02
)

// DMRD is a single burst relayed by a repeater network.
type DMRD struct {
	Sequence   uint8
	SrcID      uint32
	DstID      uint32
	RepeaterID uint32
	Timeslot   uint8 // 0 or 1
	Private    bool
	FrameType  uint8

	// DataType is the slot type data type for data sync frames, or the
	// voice burst (0 for A to 5 for F) for voice frames.
	DataType uint8
	StreamID uint32
	Burst    [dmr.PayloadBits / 8]byte
}

// IsDMRD reports whether data starts with the DMRD signature.
func IsDMRD(data []byte) bool {
	return bytes.HasPrefix(data, dmrdSignature)
}

// ParseDMRD decodes a DMRD packet.
func ParseDMRD(data []byte) (*DMRD, error) {
	if len(data) != DMRDSize && len(data) != DMRDSizeRSSI {
		return nil, fmt.Errorf("source: invalid DMRD length %d, expected %d bytes", len(data), DMRDSize)
	}
	if !IsDMRD(data) {
		return nil, fmt.Errorf("source: invalid DMRD signature %q", data[:4])
	}

	p := &DMRD{
		Sequence:   data[4],
		SrcID:      uint32(data[5])<<16 | uint32(data[6])<<8 | uint32(data[7]),
		DstID:      uint32(data[8])<<16 | uint32(data[9])<<8 | uint32(data[10]),
		RepeaterID: binary.BigEndian.Uint32(data[11:15]),
		Timeslot:   (data[15] & 0x80) >> 7,
		Private:    data[15]&0x40 != 0,
		FrameType:  (data[15] & 0x30) >> 4,
		DataType:   data[15] & 0x0f,
		StreamID:   binary.BigEndian.Uint32(data[16:20]),
	}
	if p.FrameType > FrameDataSync {
		return nil, fmt.Errorf("source: invalid DMRD frame type %d", p.FrameType)
	}
	copy(p.Burst[:], data[dmrdBurst:DMRDSize])
	return p, nil
}

// Bytes encodes the packet.
func (p *DMRD) Bytes() []byte {
	var data = make([]byte, DMRDSize)
	copy(data, dmrdSignature)
	data[4] = p.Sequence
	data[5] = byte(p.SrcID >> 16)
	data[6] = byte(p.SrcID >> 8)
	data[7] = byte(p.SrcID)
	data[8] = byte(p.DstID >> 16)
	data[9] = byte(p.DstID >> 8)
	data[10] = byte(p.DstID)
	binary.BigEndian.PutUint32(data[11:15], p.RepeaterID)
	data[15] = (p.Timeslot&0x01)<<7 | (p.FrameType&0x03)<<4 | p.DataType&0x0f
	if p.Private {
		data[15] |= 0x40
	}
	binary.BigEndian.PutUint32(data[16:20], p.StreamID)
	copy(data[dmrdBurst:], p.Burst[:])
	return data
}

// Frame wraps the burst in a frame. The SYNC pattern is taken from the
// burst if it matches within maxSyncErrors, else it follows the frame type.
func (p *DMRD) Frame(maxSyncErrors int) (*dmr.Frame, error) {
	pattern := dmr.SyncNone
	if p.FrameType != FrameVoice {
		const start = dmr.SyncStart - dmr.CACHBits
		value := bit.NewBits(p.Burst[:])[start : start+dmr.SyncBits].Uint()
		matched, _ := dmr.MatchSync(value, maxSyncErrors)
		switch {
		case p.FrameType == FrameVoiceSync && matched.IsVoice():
			pattern = matched
		case p.FrameType == FrameDataSync && matched.IsData():
			pattern = matched
		case p.FrameType == FrameVoiceSync:
			pattern = dmr.SyncBSSourcedVoice
		default:
			pattern = dmr.SyncBSSourcedData
		}
	}
	return dmr.NewBurstFrame(p.Burst[:], pattern, p.Timeslot)
}

func (p *DMRD) String() string {
	var call = "group"
	if p.Private {
		call = "private"
	}
	var kind string
	switch p.FrameType {
	case FrameVoice:
		kind = fmt.Sprintf("voice %c", 'A'+p.DataType)
	case FrameVoiceSync:
		kind = "voice sync"
	default:
		kind = dmr.DataType(p.DataType).String()
	}
	return fmt.Sprintf("DMRD seq %d, TS%d %s call %d->%d via %d, stream %08x, %s",
		p.Sequence, p.Timeslot+1, call, p.SrcID, p.DstID, p.RepeaterID, p.StreamID, kind)
}
