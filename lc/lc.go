// Package lc decodes DMR Link Control messages, as carried by voice headers,
// terminators and the embedded signalling of voice superframes.
package lc

import (
	"errors"
	"fmt"

	"github.com/pd0mz/go-trunk/fec"
)

// Full Link Control Opcode
const (
	GroupVoiceChannelUser      uint8 = 0x00 // B000000
	UnitToUnitVoiceChannelUser uint8 = 0x03 // B000011
	TalkerAliasHeader          uint8 = 0x04 // B000100
	TalkerAliasBlk1            uint8 = 0x05 // B000101
	TalkerAliasBlk2            uint8 = 0x06 // B000110
	TalkerAliasBlk3            uint8 = 0x07 // B000111
	GpsInfo                    uint8 = 0x08 // B001000
)

// Call Type
const (
	CallTypePrivate uint8 = iota
	CallTypeGroup
)

var CallTypeName = map[uint8]string{
	CallTypePrivate: "private",
	CallTypeGroup:   "group",
}

// Size of a packed Link Control message, without checksum.
const Size = 9

// FullSize is the size of a Link Control message protected by RS(12,9).
const FullSize = fec.RS129Size

// ErrProtected is returned for messages with the protect flag set.
var ErrProtected = errors.New("dmr/lc: protect flag is not 0")

// LC is a Link Control message.
type LC struct {
	CallType          uint8
	Opcode            uint8
	FeatureSetID      uint8
	VoiceChannelUser  *VoiceChannelUserPDU
	GpsInfo           *GpsInfoPDU
	TalkerAliasHeader *TalkerAliasHeaderPDU
	TalkerAliasBlocks [3]*TalkerAliasBlockPDU

	// Raw holds the PDU of opcodes without a parser, including all
	// manufacturer specific messages.
	Raw []byte
}

// Bytes packs the Link Control message to bytes.
func (lc *LC) Bytes() []byte {
	var (
		lcHeader = []byte{
			lc.Opcode & 0x3f,
			lc.FeatureSetID,
		}
		innerPdu []byte
	)

	switch {
	case lc.VoiceChannelUser != nil:
		innerPdu = lc.VoiceChannelUser.Bytes()
	case lc.TalkerAliasHeader != nil:
		innerPdu = lc.TalkerAliasHeader.Bytes()
	case lc.GpsInfo != nil:
		innerPdu = lc.GpsInfo.Bytes()
	case lc.Opcode >= TalkerAliasBlk1 && lc.Opcode <= TalkerAliasBlk3 && lc.TalkerAliasBlocks[lc.Opcode-TalkerAliasBlk1] != nil:
		innerPdu = lc.TalkerAliasBlocks[lc.Opcode-TalkerAliasBlk1].Bytes()
	default:
		innerPdu = lc.Raw
	}

	out := make([]byte, Size)
	copy(out, append(lcHeader, innerPdu...))
	return out
}

// FullBytes packs the message and appends the RS(12,9) checksum XOR-ed with
// mask.
func (lc *LC) FullBytes(mask byte) []byte {
	data := lc.Bytes()
	sum := fec.RS129Checksum(data)
	for i := range sum {
		data = append(data, sum[i]^mask)
	}
	return data
}

func (lc *LC) String() string {
	var header = fmt.Sprintf("opcode %d, feature set id %d", lc.Opcode, lc.FeatureSetID)
	if lc.FeatureSetID == 0 && (lc.Opcode == GroupVoiceChannelUser || lc.Opcode == UnitToUnitVoiceChannelUser) {
		header = fmt.Sprintf("%s, call type %s", header, CallTypeName[lc.CallType])
	}

	switch {
	case lc.VoiceChannelUser != nil:
		return fmt.Sprintf("%s %v", header, lc.VoiceChannelUser)
	case lc.GpsInfo != nil:
		return fmt.Sprintf("%s %v", header, lc.GpsInfo)
	case lc.TalkerAliasHeader != nil:
		return fmt.Sprintf("%s %v", header, lc.TalkerAliasHeader)
	}
	for _, b := range lc.TalkerAliasBlocks {
		if b != nil {
			return fmt.Sprintf("%s %v", header, b)
		}
	}
	return fmt.Sprintf("%s unknown [ % x ]", header, lc.Raw)
}

// ParseLC parses a packed Link Control message.
func ParseLC(data []byte) (*LC, error) {
	if data == nil {
		return nil, errors.New("dmr/lc: data can't be nil")
	}
	if len(data) != Size {
		return nil, fmt.Errorf("dmr/lc: expected %d LC bytes, got %d", Size, len(data))
	}

	if data[0]&0x80 > 0 {
		return nil, ErrProtected
	}

	var (
		err  error
		flco = data[0] & 0x3f
		lc   = &LC{
			Opcode:       flco,
			FeatureSetID: data[1],
		}
		pdu = data[2:Size]
	)
	if lc.FeatureSetID != 0 {
		lc.Raw = append([]byte(nil), pdu...)
		return lc, nil
	}

	switch flco {
	case GroupVoiceChannelUser:
		lc.CallType = CallTypeGroup
		lc.VoiceChannelUser, err = ParseVoiceChannelUserPDU(pdu)
	case UnitToUnitVoiceChannelUser:
		lc.CallType = CallTypePrivate
		lc.VoiceChannelUser, err = ParseVoiceChannelUserPDU(pdu)
	case TalkerAliasHeader:
		lc.TalkerAliasHeader, err = ParseTalkerAliasHeaderPDU(pdu)
	case TalkerAliasBlk1, TalkerAliasBlk2, TalkerAliasBlk3:
		lc.TalkerAliasBlocks[flco-TalkerAliasBlk1], err = ParseTalkerAliasBlockPDU(pdu)
	case GpsInfo:
		lc.GpsInfo, err = ParseGpsInfoPDU(pdu)
	default:
		lc.Raw = append([]byte(nil), pdu...)
	}

	if err != nil {
		return nil, fmt.Errorf("dmr/lc: error parsing opcode %d pdu: %w", flco, err)
	}

	return lc, nil
}

// ParseFullLC parses a packed Link Control message and checks/corrects the
// Reed-Solomon check data, after removing the checksum mask. The number of
// corrected bytes is returned.
func ParseFullLC(data []byte, mask byte) (*LC, int, error) {
	if data == nil {
		return nil, 0, errors.New("dmr/full lc: data can't be nil")
	}
	if len(data) != FullSize {
		return nil, 0, fmt.Errorf("dmr/full lc: expected %d bytes, got %d", FullSize, len(data))
	}

	var word = make([]byte, FullSize)
	copy(word, data)
	for i := Size; i < FullSize; i++ {
		word[i] ^= mask
	}

	fixed, err := fec.RS129Correct(word)
	if err != nil {
		return nil, 0, fmt.Errorf("dmr/full lc: %w", err)
	}

	lc, err := ParseLC(word[:Size])
	return lc, fixed, err
}
