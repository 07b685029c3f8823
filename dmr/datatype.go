package dmr

import "fmt"

// DataType is the data type information element of the slot type, DMR Air
// Interface (AI) protocol, Table 6.1.
type DataType uint8

const (
	PrivacyIndicator              DataType = iota // Privacy Indicator information in a standalone burst
	VoiceLC                                       // Indicates the beginning of voice transmission, carries addressing information
	TerminatorWithLC                              // Indicates the end of transmission, carries LC information
	CSBK                                          // Carries a control block
	MultiBlockControl                             // Header for multi-block control
	MultiBlockControlContinuation                 // Follow-on blocks for multi-block control
	Data                                          // Carries addressing and numbering of packet data blocks
	Rate12Data                                    // Payload for rate 1/2 packet data
	Rate34Data                                    // Payload for rate 3/4 packet data
	Idle                                          // Fills channel when no info to transmit
	Rate1Data                                     // Payload for rate 1 packet data
	UnifiedSingleBlockData                        // Single burst data for location and system information
)

var dataTypeName = map[DataType]string{
	PrivacyIndicator:              "privacy indicator",
	VoiceLC:                       "voice LC",
	TerminatorWithLC:              "terminator with LC",
	CSBK:                          "control block",
	MultiBlockControl:             "multi-block control",
	MultiBlockControlContinuation: "multi-block control follow-on",
	Data:                          "data",
	Rate12Data:                    "rate ½ packet data",
	Rate34Data:                    "rate ¾ packet data",
	Idle:                          "idle",
	Rate1Data:                     "rate 1 packet data",
	UnifiedSingleBlockData:        "unified single block data",
}

func (dt DataType) String() string {
	if s, ok := dataTypeName[dt]; ok {
		return s
	}
	return fmt.Sprintf("reserved (%d)", uint8(dt))
}

// CRCMask returns the mask applied to the CCITT checksum of BPTC protected
// single block data types, see ETSI TS 102 361-1 page 143.
func (dt DataType) CRCMask() (uint16, bool) {
	switch dt {
	case PrivacyIndicator:
		return 0x6969, true
	case CSBK:
		return 0xa5a5, true
	case MultiBlockControl, MultiBlockControlContinuation:
		return 0xaaaa, true
	case Data:
		return 0xcccc, true
	case UnifiedSingleBlockData:
		return 0x3333, true
	}
	return 0, false
}

// RSMask returns the mask applied to the Reed-Solomon checksum of full link
// control data types.
func (dt DataType) RSMask() (byte, bool) {
	switch dt {
	case VoiceLC:
		return 0x96, true
	case TerminatorWithLC:
		return 0x99, true
	}
	return 0, false
}
