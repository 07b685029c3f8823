package dmr

import (
	"fmt"
	"strings"
)

// ControlBlock is a Control Signalling Block (CSBK).
type ControlBlock struct {
	Header
	Last         bool
	Protect      bool
	Opcode       CSBKOpcode
	Code         uint8
	FeatureSetID uint8
	SrcID, DstID uint32
	Data         ControlBlockData
}

func (cb *ControlBlock) String() string {
	var part = []string{
		cb.prefix(),
		fmt.Sprintf("CSBK, last %t, %d->%d", cb.Last, cb.SrcID, cb.DstID),
	}
	switch {
	case cb.FeatureSetID != 0:
		part = append(part, fmt.Sprintf("feature set %#02x, opcode %#02x", cb.FeatureSetID, cb.Code))
	case cb.Data != nil:
		part = append(part, fmt.Sprintf("%s (opcode %#02x)", cb.Data, cb.Code))
	default:
		part = append(part, cb.Opcode.Title())
	}
	return strings.Join(part, ", ")
}

// ControlBlockData is the opcode specific part of a control block.
type ControlBlockData interface {
	String() string
	Write([]byte) error
	Parse([]byte) error
}

func checkInfoSize(data []byte) error {
	if len(data) != InfoSize {
		return fmt.Errorf("dmr: expected %d info bytes, got %d", InfoSize, len(data))
	}
	return nil
}

type OutboundActivation struct{}

func (d *OutboundActivation) String() string { return "outbound activation" }

func (d *OutboundActivation) Parse(data []byte) error { return checkInfoSize(data) }

func (d *OutboundActivation) Write(data []byte) error { return checkInfoSize(data) }

type UnitToUnitVoiceServiceRequest struct {
	Options uint8
}

func (d *UnitToUnitVoiceServiceRequest) String() string {
	return fmt.Sprintf("unit to unit voice service request, options %d", d.Options)
}

func (d *UnitToUnitVoiceServiceRequest) Parse(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	d.Options = data[2]
	return nil
}

func (d *UnitToUnitVoiceServiceRequest) Write(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	data[2] = d.Options
	return nil
}

type UnitToUnitVoiceServiceAnswerResponse struct {
	Options  uint8
	Response uint8
}

func (d *UnitToUnitVoiceServiceAnswerResponse) String() string {
	return fmt.Sprintf("unit to unit voice service answer response, options %d, response %d", d.Options, d.Response)
}

func (d *UnitToUnitVoiceServiceAnswerResponse) Parse(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	d.Options = data[2]
	d.Response = data[3]
	return nil
}

func (d *UnitToUnitVoiceServiceAnswerResponse) Write(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	data[2] = d.Options
	data[3] = d.Response
	return nil
}

type NegativeAcknowledgeResponse struct {
	SourceType  bool
	ServiceType uint8
	Reason      uint8
}

func (d *NegativeAcknowledgeResponse) String() string {
	return fmt.Sprintf("negative ACK response, source %t, service %d, reason %d", d.SourceType, d.ServiceType, d.Reason)
}

func (d *NegativeAcknowledgeResponse) Parse(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	d.SourceType = (data[2] & 0x40) > 0
	d.ServiceType = (data[2] & 0x1f)
	d.Reason = data[3]
	return nil
}

func (d *NegativeAcknowledgeResponse) Write(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	data[2] = d.ServiceType & 0x1f
	if d.SourceType {
		data[2] |= 0x40
	}
	data[3] = d.Reason
	return nil
}

type Preamble struct {
	DataFollows bool
	DstIsGroup  bool
	Blocks      uint8
}

func (d *Preamble) String() string {
	var part = []string{"preamble"}
	if d.DataFollows {
		part = append(part, "data follows")
	}
	if d.DstIsGroup {
		part = append(part, "group")
	} else {
		part = append(part, "unit")
	}
	part = append(part, fmt.Sprintf("%d blocks", d.Blocks))
	return strings.Join(part, ", ")
}

func (d *Preamble) Parse(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	d.DataFollows = (data[2] & 0x80) > 0
	d.DstIsGroup = (data[2] & 0x40) > 0
	d.Blocks = data[3]
	return nil
}

func (d *Preamble) Write(data []byte) error {
	if err := checkInfoSize(data); err != nil {
		return err
	}
	if d.DataFollows {
		data[2] |= 0x80
	}
	if d.DstIsGroup {
		data[2] |= 0x40
	}
	data[3] = d.Blocks
	return nil
}

var (
	_ ControlBlockData = (*OutboundActivation)(nil)
	_ ControlBlockData = (*UnitToUnitVoiceServiceRequest)(nil)
	_ ControlBlockData = (*UnitToUnitVoiceServiceAnswerResponse)(nil)
	_ ControlBlockData = (*NegativeAcknowledgeResponse)(nil)
	_ ControlBlockData = (*Preamble)(nil)
)

// Bytes packs the control block, including its masked checksum.
func (cb *ControlBlock) Bytes() ([]byte, error) {
	var data = make([]byte, InfoSize)

	if cb.Data != nil {
		if err := cb.Data.Write(data); err != nil {
			return nil, err
		}
	}
	code := cb.Code
	if v := cb.Opcode.Value(); cb.FeatureSetID == 0 && v >= 0 {
		code = uint8(v)
	}
	data[0] |= code & 0x3f
	if cb.Last {
		data[0] |= 0x80
	}
	if cb.Protect {
		data[0] |= 0x40
	}
	data[1] = cb.FeatureSetID
	putIDs(data[4:], cb.DstID, cb.SrcID)

	if err := sealInfo(data, CSBK); err != nil {
		return nil, err
	}
	return data, nil
}

// ParseControlBlock parses the 12 bytes of a control block. The checksum is not
// checked here.
func ParseControlBlock(data []byte) (*ControlBlock, error) {
	if err := checkInfoSize(data); err != nil {
		return nil, err
	}

	cb := &ControlBlock{
		Last:         (data[0] & 0x80) > 0,
		Protect:      (data[0] & 0x40) > 0,
		Code:         (data[0] & 0x3f),
		FeatureSetID: data[1],
		Opcode:       UnknownCSBKOpcode,
	}
	cb.DstID, cb.SrcID = parseIDs(data[4:])
	if cb.FeatureSetID != 0 {
		return cb, nil
	}

	cb.Opcode = CSBKOpcodeFromValue(int(cb.Code))
	if cb.Protect {
		return cb, nil
	}

	switch cb.Opcode {
	case OutboundActivationOpcode:
		cb.Data = &OutboundActivation{}
	case UnitToUnitVoiceServiceRequestOpcode:
		cb.Data = &UnitToUnitVoiceServiceRequest{}
	case UnitToUnitVoiceServiceAnswerResponseOpcode:
		cb.Data = &UnitToUnitVoiceServiceAnswerResponse{}
	case NegativeAcknowledgeResponseOpcode:
		cb.Data = &NegativeAcknowledgeResponse{}
	case PreambleOpcode:
		cb.Data = &Preamble{}
	default:
		return cb, nil
	}

	if err := cb.Data.Parse(data); err != nil {
		return nil, err
	}
	return cb, nil
}

// DecodeCSBK decodes the control block carried by a CSBK data burst. A block
// failing its checksum is returned with a Failed verdict.
func DecodeCSBK(f *Frame) (*ControlBlock, error) {
	st, err := f.SlotType()
	if err != nil {
		return nil, err
	}
	if st.DataType != CSBK {
		return nil, fmt.Errorf("dmr: expected %s burst, got %s", CSBK, st.DataType)
	}

	buf, err := decodeInfo(f)
	if err != nil {
		return nil, err
	}
	verdict, err := checkCCITT(buf, CSBK)
	if err != nil {
		return nil, err
	}
	buf.Freeze()

	cb, err := ParseControlBlock(buf.Bytes())
	if err != nil {
		return nil, err
	}
	cb.Header = newHeader(f)
	cb.ColorCode = st.ColorCode
	cb.Verdict = verdict
	cb.Corrected = buf.Corrected() + st.Corrected
	return cb, nil
}
