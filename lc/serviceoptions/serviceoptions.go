// Package serviceoptions handles the service options octet of voice channel
// user link control, ETSI TS 102 361-2 7.2.1.
package serviceoptions

import (
	"fmt"
	"strings"
)

// Priority levels, Priority3 is the highest.
const (
	NoPriority uint8 = iota
	Priority1
	Priority2
	Priority3
)

const (
	emergency = 0x80
	privacy   = 0x40
	reserved  = 0x30
	broadcast = 0x08
	ovcm      = 0x04
	priority  = 0x03
)

// ServiceOptions of a voice call.
type ServiceOptions struct {
	Emergency bool
	Privacy   bool
	// Broadcast is only defined for group calls.
	Broadcast bool
	// OpenVoiceCallMode lets any radio join the call without a header.
	OpenVoiceCallMode bool
	Priority          uint8
	// Reserved holds bits 5 and 4 as received.
	Reserved uint8
}

// ParseServiceOptions decodes the service options octet.
func ParseServiceOptions(b byte) ServiceOptions {
	return ServiceOptions{
		Emergency:         b&emergency != 0,
		Privacy:           b&privacy != 0,
		Broadcast:         b&broadcast != 0,
		OpenVoiceCallMode: b&ovcm != 0,
		Priority:          b & priority,
		Reserved:          (b & reserved) >> 4,
	}
}

// Byte encodes the service options octet.
func (so ServiceOptions) Byte() byte {
	b := so.Priority&priority | (so.Reserved<<4)&reserved
	for _, flag := range []struct {
		set  bool
		mask byte
	}{
		{so.Emergency, emergency},
		{so.Privacy, privacy},
		{so.Broadcast, broadcast},
		{so.OpenVoiceCallMode, ovcm},
	} {
		if flag.set {
			b |= flag.mask
		}
	}
	return b
}

func (so ServiceOptions) String() string {
	var part []string
	if so.Emergency {
		part = append(part, "emergency")
	}
	if so.Privacy {
		part = append(part, "privacy")
	}
	if so.Broadcast {
		part = append(part, "broadcast")
	}
	if so.OpenVoiceCallMode {
		part = append(part, "OVCM")
	}
	if so.Priority == NoPriority {
		part = append(part, "no priority")
	} else {
		part = append(part, fmt.Sprintf("priority %d", so.Priority))
	}
	return strings.Join(part, ", ")
}
