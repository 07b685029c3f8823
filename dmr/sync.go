package dmr

import (
	"fmt"
	"math/bits"
)

// SyncPattern is one of the SYNC patterns of Table 9.2.
type SyncPattern uint8

const (
	SyncNone SyncPattern = iota
	SyncBSSourcedVoice
	SyncBSSourcedData
	SyncMSSourcedVoice
	SyncMSSourcedData
	SyncMSSourcedRC
	SyncDirectVoiceTS1
	SyncDirectDataTS1
	SyncDirectVoiceTS2
	SyncDirectDataTS2
	SyncReserved
)

const syncMask = 1<<SyncBits - 1

var syncPatterns = [...]struct {
	value uint64
	name  string
}{
	SyncNone:           {0, "none"},
	SyncBSSourcedVoice: {0x755fd7df75f7, "BS sourced voice"},
	SyncBSSourcedData:  {0xdff57d75df5d, "BS sourced data"},
	SyncMSSourcedVoice: {0x7f7d5dd57dfd, "MS sourced voice"},
	SyncMSSourcedData:  {0xd5d7f77fd757, "MS sourced data"},
	SyncMSSourcedRC:    {0x77d55f7dfd77, "MS sourced RC"},
	SyncDirectVoiceTS1: {0x5d577f7757ff, "direct mode TS1 voice"},
	SyncDirectDataTS1:  {0xf7fdd5ddfd55, "direct mode TS1 data"},
	SyncDirectVoiceTS2: {0x7dffd5f55d5f, "direct mode TS2 voice"},
	SyncDirectDataTS2:  {0xd7557f5ff7f5, "direct mode TS2 data"},
	SyncReserved:       {0xdd7ff5d757dd, "reserved"},
}

// SyncPatterns returns all defined patterns.
func SyncPatterns() []SyncPattern {
	var out = make([]SyncPattern, 0, len(syncPatterns)-1)
	for p := SyncBSSourcedVoice; p <= SyncReserved; p++ {
		out = append(out, p)
	}
	return out
}

// Value returns the 48 bit pattern.
func (p SyncPattern) Value() uint64 {
	if int(p) < len(syncPatterns) {
		return syncPatterns[p].value
	}
	return 0
}

func (p SyncPattern) String() string {
	if int(p) < len(syncPatterns) {
		return syncPatterns[p].name
	}
	return fmt.Sprintf("sync pattern %d", uint8(p))
}

// HasCACH reports whether frames with this pattern are preceded by a CACH,
// which is only sent on the base station outbound channel.
func (p SyncPattern) HasCACH() bool {
	return p == SyncBSSourcedVoice || p == SyncBSSourcedData
}

func (p SyncPattern) IsVoice() bool {
	switch p {
	case SyncBSSourcedVoice, SyncMSSourcedVoice, SyncDirectVoiceTS1, SyncDirectVoiceTS2:
		return true
	}
	return false
}

func (p SyncPattern) IsData() bool {
	switch p {
	case SyncBSSourcedData, SyncMSSourcedData, SyncDirectDataTS1, SyncDirectDataTS2:
		return true
	}
	return false
}

// Timeslot returns the timeslot of direct mode patterns.
func (p SyncPattern) Timeslot() (uint8, bool) {
	switch p {
	case SyncDirectVoiceTS1, SyncDirectDataTS1:
		return 0, true
	case SyncDirectVoiceTS2, SyncDirectDataTS2:
		return 1, true
	}
	return 0, false
}

// MatchSync returns the pattern nearest to the 48 bit value and its bit
// distance. SyncNone is returned when no pattern is within maxErrors bits.
// The patterns are at least 10 bits apart, so up to 4 errors are
// unambiguous.
func MatchSync(value uint64, maxErrors int) (SyncPattern, int) {
	var (
		best     = SyncNone
		distance = SyncBits + 1
	)
	value &= syncMask
	for p := SyncBSSourcedVoice; p <= SyncReserved; p++ {
		if d := bits.OnesCount64(value ^ syncPatterns[p].value); d < distance {
			best, distance = p, d
		}
	}
	if distance > maxErrors {
		return SyncNone, distance
	}
	return best, distance
}
