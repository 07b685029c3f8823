package dmr

import (
	"fmt"
	"time"

	trunk "github.com/pd0mz/go-trunk"
	"github.com/pd0mz/go-trunk/bit"
)

// Header is shared by all messages decoded from a frame.
type Header struct {
	Time      time.Time
	Sync      SyncPattern
	Timeslot  uint8
	ColorCode uint8

	// Verdict of the message checksum and the total number of bits (or
	// Reed-Solomon symbols) corrected by all decoding stages.
	Verdict   bit.Verdict
	Corrected int
}

func newHeader(f *Frame) Header {
	ts, _ := f.Timeslot()
	return Header{
		Time:     f.Time,
		Sync:     f.Sync(),
		Timeslot: ts,
	}
}

func (h *Header) Protocol() trunk.Protocol { return trunk.DMR }
func (h *Header) Timestamp() time.Time     { return h.Time }
func (h *Header) IsValid() bool            { return h.Verdict.OK() }

// MessageHeader gives access to the header of any DMR message.
func (h *Header) MessageHeader() *Header { return h }

func (h *Header) prefix() string {
	return fmt.Sprintf("TS%d CC%d [%s]", h.Timeslot+1, h.ColorCode, h.Verdict)
}

// IdleBurst fills the channel when there is nothing to transmit.
type IdleBurst struct {
	Header
}

func (m *IdleBurst) String() string { return m.prefix() + " idle" }

// Raw is a data burst of a type without a dedicated decoder.
type Raw struct {
	Header
	DataType DataType
	Data     []byte
}

func (m *Raw) String() string {
	return fmt.Sprintf("%s %s [ % x ]", m.prefix(), m.DataType, m.Data)
}

var (
	_ trunk.Message = (*IdleBurst)(nil)
	_ trunk.Message = (*Raw)(nil)
	_ trunk.Message = (*ControlBlock)(nil)
	_ trunk.Message = (*DataHeader)(nil)
	_ trunk.Message = (*DataBlock)(nil)
	_ trunk.Message = (*LinkControl)(nil)
	_ trunk.Message = (*Voice)(nil)
)
