package mac

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when a message runs past the end of the PDU.
var ErrTruncated = errors.New("mac: message truncated")

// Message is one opcode and its octets, as carried in a MAC PDU.
type Message struct {
	Opcode Opcode
	// Data holds the message octets starting with the opcode.
	Data []byte
}

func (m Message) String() string {
	return fmt.Sprintf("%s [% x]", m.Opcode, m.Data)
}

// MessageLength returns the length in octets of the message at the start of
// data, or LengthUnknown.
func MessageLength(data []byte) int {
	if len(data) == 0 {
		return LengthUnknown
	}

	op := FromValue(int(data[0]))
	switch {
	case op.Length() > 0:
		return op.Length()

	case op.IsVariableLength():
		if len(data) < 2 {
			return LengthUnknown
		}
		// The low two bits of the second octet count the targets, minus one.
		count := int(data[1]&0x03) + 1
		if op == IndividualPagingWithPriority {
			return 2 + 3*count
		}
		return 2 + 2*count

	case op.Partition() == PartitionVendor:
		// Manufacturer specific: opcode, MFID, length in the low six bits.
		if len(data) < 3 || data[2]&0x3f < 3 {
			return LengthUnknown
		}
		return int(data[2] & 0x3f)
	}

	return LengthUnknown
}

// Split walks the messages of a MAC PDU payload. It stops at null
// information, at the end of the payload or at a message of unknown length,
// which is returned with all remaining octets.
func Split(payload []byte) ([]Message, error) {
	var messages []Message
	for offset := 0; offset < len(payload); {
		var (
			rest = payload[offset:]
			op   = FromValue(int(rest[0]))
		)
		if op == NullInformation {
			break
		}

		n := MessageLength(rest)
		if n == LengthUnknown {
			messages = append(messages, Message{Opcode: op, Data: rest})
			break
		}
		if n > len(rest) {
			return messages, fmt.Errorf("%w: %s needs %d octets at offset %d, %d left", ErrTruncated, op, n, offset, len(rest))
		}

		messages = append(messages, Message{Opcode: op, Data: rest[:n]})
		offset += n
	}
	return messages, nil
}
