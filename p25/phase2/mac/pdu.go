package mac

import (
	"fmt"
	"strings"
	"time"

	trunk "github.com/pd0mz/go-trunk"
)

// PDU is the split payload of a received MAC PDU.
type PDU struct {
	Time     time.Time
	Messages []Message

	// Err is set when the payload ended inside a message.
	Err error
}

// ParsePDU splits a MAC PDU payload received at t.
func ParsePDU(payload []byte, t time.Time) *PDU {
	messages, err := Split(payload)
	return &PDU{Time: t, Messages: messages, Err: err}
}

func (p *PDU) Protocol() trunk.Protocol { return trunk.P25Phase2 }
func (p *PDU) Timestamp() time.Time     { return p.Time }
func (p *PDU) IsValid() bool            { return p.Err == nil }

func (p *PDU) String() string {
	if len(p.Messages) == 0 && p.Err == nil {
		return "MAC null information"
	}
	var part = make([]string, 0, len(p.Messages)+1)
	for _, m := range p.Messages {
		part = append(part, m.String())
	}
	if p.Err != nil {
		part = append(part, p.Err.Error())
	}
	return fmt.Sprintf("MAC %s", strings.Join(part, "; "))
}

var _ trunk.Message = (*PDU)(nil)
