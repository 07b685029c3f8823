package lc

import (
	"fmt"

	"github.com/pd0mz/go-trunk/lc/serviceoptions"
)

// VoiceChannelUserPDU is the payload of group and unit to unit voice channel
// user link control, ETSI TS 102 361-2 7.1.1.1 and 7.1.1.2.
type VoiceChannelUserPDU struct {
	ServiceOptions serviceoptions.ServiceOptions
	DstID          uint32
	SrcID          uint32
}

// pduSize is the length of the opcode specific part of a message.
const pduSize = Size - 2

func ParseVoiceChannelUserPDU(data []byte) (*VoiceChannelUserPDU, error) {
	if len(data) != pduSize {
		return nil, fmt.Errorf("lc: voice channel user needs %d octets, got %d", pduSize, len(data))
	}
	return &VoiceChannelUserPDU{
		ServiceOptions: serviceoptions.ParseServiceOptions(data[0]),
		DstID:          uint24(data[1:4]),
		SrcID:          uint24(data[4:7]),
	}, nil
}

// Bytes encodes the PDU to its 7 octets.
func (v *VoiceChannelUserPDU) Bytes() []byte {
	data := make([]byte, pduSize)
	data[0] = v.ServiceOptions.Byte()
	putUint24(data[1:], v.DstID)
	putUint24(data[4:], v.SrcID)
	return data
}

func (v *VoiceChannelUserPDU) String() string {
	return fmt.Sprintf("voice channel user %d->%d (%s)", v.SrcID, v.DstID, v.ServiceOptions)
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func putUint24(b []byte, v uint32) {
	b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
}
