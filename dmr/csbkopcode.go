package dmr

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pd0mz/go-trunk/opcode"
)

// CSBKOpcode is a control block opcode of the standard feature set.
type CSBKOpcode uint8

// Control Block Opcode
const (
	UnitToUnitVoiceServiceRequestOpcode CSBKOpcode = iota
	UnitToUnitVoiceServiceAnswerResponseOpcode
	ChannelTimingOpcode
	AlohaOpcode
	AhoyOpcode
	RandomAccessOpcode
	NegativeAcknowledgeResponseOpcode
	BroadcastOpcode
	OutboundActivationOpcode
	PreambleOpcode
	UnknownCSBKOpcode
)

var csbkOpcodes = [...]struct {
	value int
	label string
}{
	UnitToUnitVoiceServiceRequestOpcode:        {0x04, "UNIT TO UNIT VOICE SERVICE REQUEST"},
	UnitToUnitVoiceServiceAnswerResponseOpcode: {0x05, "UNIT TO UNIT VOICE SERVICE ANSWER RESPONSE"},
	ChannelTimingOpcode:                        {0x07, "CHANNEL TIMING"},
	AlohaOpcode:                                {0x19, "ALOHA"},
	AhoyOpcode:                                 {0x1c, "AHOY"},
	RandomAccessOpcode:                         {0x1f, "RANDOM ACCESS SERVICE REQUEST"},
	NegativeAcknowledgeResponseOpcode:          {0x24, "NEGATIVE ACKNOWLEDGE RESPONSE"},
	BroadcastOpcode:                            {0x28, "BROADCAST"},
	OutboundActivationOpcode:                   {0x38, "BS OUTBOUND ACTIVATION"},
	PreambleOpcode:                             {0x3d, "PREAMBLE"},
	UnknownCSBKOpcode:                          {opcode.NoValue, "UNKNOWN CSBK"},
}

var csbkRegistry = func() *opcode.Registry[CSBKOpcode] {
	var all = make([]CSBKOpcode, len(csbkOpcodes))
	for i := range all {
		all[i] = CSBKOpcode(i)
	}
	return opcode.MustNew(all, nil, UnknownCSBKOpcode)
}()

// CSBKOpcodeFromValue resolves a 6 bit opcode, unassigned codes resolve to
// UnknownCSBKOpcode.
func CSBKOpcodeFromValue(v int) CSBKOpcode {
	return csbkRegistry.Lookup(v)
}

// CSBKOpcodes returns all opcodes in declaration order.
func CSBKOpcodes() []CSBKOpcode {
	return csbkRegistry.All()
}

func (o CSBKOpcode) Value() int {
	if int(o) < len(csbkOpcodes) {
		return csbkOpcodes[o].value
	}
	return opcode.NoValue
}

func (o CSBKOpcode) Label() string {
	if int(o) < len(csbkOpcodes) {
		return csbkOpcodes[o].label
	}
	return csbkOpcodes[UnknownCSBKOpcode].label
}

func (o CSBKOpcode) IsUnknown() bool { return csbkRegistry.IsFallback(o) }

// Title is the label for display.
func (o CSBKOpcode) Title() string {
	return cases.Title(language.English).String(o.Label())
}

func (o CSBKOpcode) String() string {
	if o.IsUnknown() {
		return o.Label()
	}
	return fmt.Sprintf("%s (%#02x)", o.Label(), o.Value())
}
