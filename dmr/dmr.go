// Package dmr decodes Digital Mobile Radio (ETSI TS 102 361) bursts from a
// demodulated bitstream.
//
// A frame is 288 bits: the 24 bit Common Announcement Channel (CACH) of the
// base station outbound channel, followed by the 264 bit burst. The burst
// carries two 108 bit payload halves around the 48 bit SYNC or embedded
// signalling field:
//
//	  0..23   CACH
//	 24..131  payload 1 (98 info bits, 10 slot type bits)
//	132..179  SYNC / EMB + embedded signalling
//	180..287  payload 2 (10 slot type bits, 98 info bits)
package dmr

const (
	FrameBits = CACHBits + PayloadBits

	CACHStart     = 0
	CACHBits      = 24
	Payload1Start = CACHStart + CACHBits
	SyncStart     = Payload1Start + PayloadHalfBits
	Payload2Start = SyncStart + SyncBits

	PayloadHalfBits = InfoHalfBits + SlotTypeHalfBits
	PayloadBits     = 2*PayloadHalfBits + SyncBits

	InfoHalfBits     = 98
	InfoBits         = 2 * InfoHalfBits
	SlotTypeHalfBits = 10
	SlotTypeBits     = 2 * SlotTypeHalfBits
	SyncBits         = 48

	VoiceHalfBits = PayloadHalfBits
	VoiceBits     = 2 * VoiceHalfBits

	EMBHalfBits                 = 8
	EMBBits                     = 2 * EMBHalfBits
	EMBSignallingLCFragmentBits = 32
)
