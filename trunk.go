// Package trunk contains the protocol independent message types shared by the
// DMR and P25 decoders.
package trunk

import (
	"fmt"
	"time"
)

// Protocol identifies the air interface a message was decoded from.
type Protocol uint8

const (
	UnknownProtocol Protocol = iota
	DMR
	P25Phase1
	P25Phase2
)

var protocolName = map[Protocol]string{
	UnknownProtocol: "unknown",
	DMR:             "DMR",
	P25Phase1:       "P25 Phase 1",
	P25Phase2:       "P25 Phase 2",
}

func (p Protocol) String() string {
	if s, ok := protocolName[p]; ok {
		return s
	}
	return fmt.Sprintf("protocol %d", uint8(p))
}

// Message is a decoded over the air message.
type Message interface {
	Protocol() Protocol
	Timestamp() time.Time

	// IsValid reports whether the message passed its error detection,
	// possibly after correction.
	IsValid() bool

	String() string
}
