package dmr

import (
	"errors"
	"fmt"
	"strings"
)

// Data Header Packet Format
const (
	PacketFormatUDT              uint8 = iota // 0b0000
	PacketFormatResponse                      // 0b0001
	PacketFormatUnconfirmedData               // 0b0010
	PacketFormatConfirmedData                 // 0b0011
	_                                         // 0b0100
	_                                         // 0b0101
	_                                         // 0b0110
	_                                         // 0b0111
	_                                         // 0b1000
	_                                         // 0b1001
	_                                         // 0b1010
	_                                         // 0b1011
	_                                         // 0b1100
	PacketFormatShortDataDefined              // 0b1101
	PacketFormatShortDataRaw                  // 0b1110
	PacketFormatProprietaryData               // 0b1111
)

// Service Access Point
const (
	ServiceAccessPointUDT                    uint8 = iota // 0b0000
	_                                                     // 0b0001
	ServiceAccessPointTCPIPHeaderCompression              // 0b0010
	ServiceAccessPointUDPIPHeaderCompression              // 0b0011
	ServiceAccessPointIPBasedPacketData                   // 0b0100
	ServiceAccessPointARP                                 // 0b0101
	_                                                     // 0b0110
	_                                                     // 0b0111
	_                                                     // 0b1000
	ServiceAccessPointProprietaryData                     // 0b1001
	ServiceAccessPointShortData                           // 0b1010
)

var ServiceAccessPointName = map[uint8]string{
	ServiceAccessPointUDT:                    "UDT",
	ServiceAccessPointTCPIPHeaderCompression: "TCP/IP header compression",
	ServiceAccessPointUDPIPHeaderCompression: "UDP/IP header compression",
	ServiceAccessPointIPBasedPacketData:      "IP based packet data",
	ServiceAccessPointARP:                    "ARP",
	ServiceAccessPointProprietaryData:        "proprietary data",
	ServiceAccessPointShortData:              "short data",
}

// Response Data Header Response Type, encodes class and type
const (
	ResponseTypeACK             uint8 = 0x01 // Class 0b00, Type 0b001
	ResponseTypeIllegalFormat   uint8 = 0x08 // Class 0b01, Type 0b000
	ResponseTypePacketCRCFailed uint8 = 0x09 // Class 0b01, Type 0b001
	ResponseTypeMemoryFull      uint8 = 0x0a // Class 0b01, Type 0b010
	ResponseTypeRecvFSNOutOfSeq uint8 = 0x0b // Class 0b01, Type 0b011
	ResponseTypeUndeliverable   uint8 = 0x0c // Class 0b01, Type 0b100
	ResponseTypeRecvPktOutOfSeq uint8 = 0x0d // Class 0b01, Type 0b101
	ResponseTypeDisallowed      uint8 = 0x0e // Class 0b01, Type 0b110
	ResponseTypeSelectiveACK    uint8 = 0x10 // Class 0b10, Type 0b000
)

var ResponseTypeName = map[uint8]string{
	ResponseTypeACK:             "ACK",
	ResponseTypeIllegalFormat:   "illegal format",
	ResponseTypePacketCRCFailed: "packet CRC failed",
	ResponseTypeMemoryFull:      "memory full",
	ResponseTypeRecvFSNOutOfSeq: "recv FSN out of sequence",
	ResponseTypeUndeliverable:   "undeliverable",
	ResponseTypeRecvPktOutOfSeq: "recv PKT out of sequence",
	ResponseTypeDisallowed:      "disallowed",
	ResponseTypeSelectiveACK:    "selective ACK",
}

// UDT Format
const (
	UDTFormatBinary uint8 = iota
	UDTFormatMSAddress
	UDTFormat4BitBCD
	UDTFormatISO7BitChars
	UDTFormatISO8BitChars
	UDTFormatNMEALocation
	UDTFormatIPAddress
	UDTFormat16BitUnicodeChars
	UDTFormatCustomCodeD1
	UDTFormatCustomCodeD2
)

var UDTFormatName = map[uint8]string{
	UDTFormatBinary:            "binary",
	UDTFormatMSAddress:         "MS address",
	UDTFormat4BitBCD:           "4-bit BCD",
	UDTFormatISO7BitChars:      "ISO 7-bit characters",
	UDTFormatISO8BitChars:      "ISO 8-bit characters",
	UDTFormatNMEALocation:      "NMEA location",
	UDTFormatIPAddress:         "IP address",
	UDTFormat16BitUnicodeChars: "16-bit Unicode characters",
	UDTFormatCustomCodeD1:      "custom code D1",
	UDTFormatCustomCodeD2:      "custom code D2",
}

// Short Data Defined Data Format
const (
	DDFormatBinary uint8 = iota
	DDFormatBCD
	DDFormat7BitChar
	DDFormat8BitISO8859_1
	DDFormat8BitISO8859_2
	DDFormat8BitISO8859_3
	DDFormat8BitISO8859_4
	DDFormat8BitISO8859_5
	DDFormat8BitISO8859_6
	DDFormat8BitISO8859_7
	DDFormat8BitISO8859_8
	DDFormat8BitISO8859_9
	DDFormat8BitISO8859_10
	DDFormat8BitISO8859_11
	DDFormat8BitISO8859_13
	DDFormat8BitISO8859_14
	DDFormat8BitISO8859_15
	DDFormat8BitISO8859_16
	DDFormatUTF8
	DDFormatUTF16
	DDFormatUTF16BE
	DDFormatUTF16LE
	DDFormatUTF32
	DDFormatUTF32BE
	DDFormatUTF32LE
)

var DDFormatName = map[uint8]string{
	DDFormatBinary:         "binary",
	DDFormatBCD:            "BCD",
	DDFormat7BitChar:       "7-bit characters",
	DDFormat8BitISO8859_1:  "8-bit ISO 8859-1",
	DDFormat8BitISO8859_2:  "8-bit ISO 8859-2",
	DDFormat8BitISO8859_3:  "8-bit ISO 8859-3",
	DDFormat8BitISO8859_4:  "8-bit ISO 8859-4",
	DDFormat8BitISO8859_5:  "8-bit ISO 8859-5",
	DDFormat8BitISO8859_6:  "8-bit ISO 8859-6",
	DDFormat8BitISO8859_7:  "8-bit ISO 8859-7",
	DDFormat8BitISO8859_8:  "8-bit ISO 8859-8",
	DDFormat8BitISO8859_9:  "8-bit ISO 8859-9",
	DDFormat8BitISO8859_10: "8-bit ISO 8859-10",
	DDFormat8BitISO8859_11: "8-bit ISO 8859-11",
	DDFormat8BitISO8859_13: "8-bit ISO 8859-13",
	DDFormat8BitISO8859_14: "8-bit ISO 8859-14",
	DDFormat8BitISO8859_15: "8-bit ISO 8859-15",
	DDFormat8BitISO8859_16: "8-bit ISO 8859-16",
	DDFormatUTF8:           "UTF-8",
	DDFormatUTF16:          "UTF-16",
	DDFormatUTF16BE:        "UTF-16 big endian",
	DDFormatUTF16LE:        "UTF-16 little endian",
	DDFormatUTF32:          "UTF-32",
	DDFormatUTF32BE:        "UTF-32 big endian",
	DDFormatUTF32LE:        "UTF-32 little endian",
}

// http://www.etsi.org/images/files/DMRcodes/dmrs-mfid.xls
var ManufacturerName = map[uint8]string{
	0x04: "Flyde Micro Ltd.",
	0x05: "PROD-EL SPA",
	0x06: "Trident Datacom DBA Trident Micro Systems",
	0x07: "RADIODATA GmbH",
	0x08: "HYT science tech",
	0x09: "ASELSAN Elektronik Sanayi ve Ticaret A.S.",
	0x0a: "Kirisun Communications Co. Ltd",
	0x0b: "DMR Association Ltd.",
	0x10: "Motorola Ltd.",
	0x13: "EMC S.p.A. (Electronic Marketing Company)",
	0x1c: "EMC S.p.A. (Electronic Marketing Company)",
	0x20: "JVCKENWOOD Corporation",
	0x33: "Radio Activity Srl",
	0x3c: "Radio Activity Srl",
	0x58: "Tait Electronics Ltd",
	0x68: "HYT science tech",
	0x77: "Vertex Standard",
}

// ErrUnknownPacketFormat is returned for data headers with a reserved packet
// format.
var ErrUnknownPacketFormat = errors.New("dmr: unknown data header packet format")

// DataHeaderData is the packet format specific part of a data header.
type DataHeaderData interface {
	String() string
	Write([]byte) error
}

// DataHeader announces a packet data transfer.
type DataHeader struct {
	Header
	PacketFormat       uint8
	DstIsGroup         bool
	ResponseRequested  bool
	HeaderCompression  bool
	ServiceAccessPoint uint8
	DstID              uint32
	SrcID              uint32
	CRC                uint16
	Data               DataHeaderData
}

// Bytes packs the data header, including its masked checksum.
func (h *DataHeader) Bytes() ([]byte, error) {
	var data = make([]byte, InfoSize)

	data[0] = h.PacketFormat & 0x0f
	if h.PacketFormat == PacketFormatProprietaryData {
		data[0] |= h.ServiceAccessPoint << 4
		return h.seal(data)
	}
	if h.DstIsGroup {
		data[0] |= 0x80
	}
	if h.ResponseRequested {
		data[0] |= 0x40
	}
	if h.HeaderCompression {
		data[0] |= 0x20
	}
	data[1] = (h.ServiceAccessPoint << 4) & 0xf0
	putIDs(data[2:], h.DstID, h.SrcID)

	return h.seal(data)
}

func (h *DataHeader) seal(data []byte) ([]byte, error) {
	if h.Data != nil {
		if err := h.Data.Write(data); err != nil {
			return nil, err
		}
	}
	if err := sealInfo(data, Data); err != nil {
		return nil, err
	}
	h.CRC = uint16(data[10])<<8 | uint16(data[11])
	return data, nil
}

// Confirmed reports whether the blocks that follow carry a serial number and
// CRC-9.
func (h *DataHeader) Confirmed() bool {
	return h.PacketFormat == PacketFormatConfirmedData
}

// BlocksToFollow returns the number of data blocks announced by the header.
func (h *DataHeader) BlocksToFollow() int {
	switch d := h.Data.(type) {
	case *UDTData:
		return int(d.AppendedBlocks) + 1
	case *ResponseData:
		return int(d.BlocksToFollow)
	case *UnconfirmedData:
		return int(d.BlocksToFollow)
	case *ConfirmedData:
		return int(d.BlocksToFollow)
	case *ShortDataRawData:
		return int(d.AppendedBlocks)
	case *ShortDataDefinedData:
		return int(d.AppendedBlocks)
	}
	return 0
}

func (h *DataHeader) String() string {
	var part = []string{h.prefix() + " data header"}
	if h.DstIsGroup {
		part = append(part, "group")
	} else {
		part = append(part, "unit")
	}
	part = append(part, fmt.Sprintf("response %t, sap %s (%d), %d->%d",
		h.ResponseRequested, ServiceAccessPointName[h.ServiceAccessPoint], h.ServiceAccessPoint,
		h.SrcID, h.DstID))
	if h.Data != nil {
		part = append(part, h.Data.String())
	}
	return strings.Join(part, ", ")
}

type UDTData struct {
	Format            uint8
	PadNibble         uint8
	AppendedBlocks    uint8
	SupplementaryFlag bool
	Opcode            uint8
}

func (d *UDTData) String() string {
	return fmt.Sprintf("UDT, format %s (%d), pad nibble %d, appended blocks %d, supplementary %t, opcode %d",
		UDTFormatName[d.Format], d.Format, d.PadNibble, d.AppendedBlocks, d.SupplementaryFlag, d.Opcode)
}

func (d *UDTData) Write(data []byte) error {
	data[1] |= d.Format & 0x0f
	data[8] = (d.AppendedBlocks & 0x03) | (d.PadNibble << 3)
	data[9] = d.Opcode & 0x3f
	if d.SupplementaryFlag {
		data[9] |= 0x80
	}
	return nil
}

type UnconfirmedData struct {
	PadOctetCount          uint8
	FullMessage            bool
	BlocksToFollow         uint8
	FragmentSequenceNumber uint8
}

func (d *UnconfirmedData) String() string {
	return fmt.Sprintf("unconfirmed, pad octet %d, full %t, blocks %d, sequence %d",
		d.PadOctetCount, d.FullMessage, d.BlocksToFollow, d.FragmentSequenceNumber)
}

func (d *UnconfirmedData) Write(data []byte) error {
	data[0] |= d.PadOctetCount & 0x10
	data[1] |= d.PadOctetCount & 0x0f
	data[8] = d.BlocksToFollow & 0x7f
	if d.FullMessage {
		data[8] |= 0x80
	}
	data[9] = d.FragmentSequenceNumber & 0x0f
	return nil
}

type ConfirmedData struct {
	PadOctetCount          uint8
	FullMessage            bool
	BlocksToFollow         uint8
	Resync                 bool
	SendSequenceNumber     uint8
	FragmentSequenceNumber uint8
}

func (d *ConfirmedData) String() string {
	return fmt.Sprintf("confirmed, pad octet %d, full %t, blocks %d, resync %t, send sequence %d, sequence %d",
		d.PadOctetCount, d.FullMessage, d.BlocksToFollow, d.Resync, d.SendSequenceNumber, d.FragmentSequenceNumber)
}

func (d *ConfirmedData) Write(data []byte) error {
	data[0] |= d.PadOctetCount & 0x10
	data[1] |= d.PadOctetCount & 0x0f
	data[8] = d.BlocksToFollow & 0x7f
	if d.FullMessage {
		data[8] |= 0x80
	}
	data[9] = d.FragmentSequenceNumber&0x0f | (d.SendSequenceNumber&0x07)<<4
	if d.Resync {
		data[9] |= 0x80
	}
	return nil
}

type ResponseData struct {
	BlocksToFollow uint8
	ClassType      uint8 // See ResponseType constants
	Status         uint8
}

func (d *ResponseData) String() string {
	return fmt.Sprintf("response, blocks %d, type %s (%02b %03b), status %d",
		d.BlocksToFollow, ResponseTypeName[d.ClassType], d.ClassType>>3, d.ClassType&0x07, d.Status)
}

func (d *ResponseData) Write(data []byte) error {
	data[8] = d.BlocksToFollow & 0x7f
	data[9] = d.Status&0x07 | d.ClassType<<3
	return nil
}

type ProprietaryData struct {
	ManufacturerID uint8
}

func (d *ProprietaryData) String() string {
	name, ok := ManufacturerName[d.ManufacturerID]
	if !ok {
		name = "reserved"
	}
	return fmt.Sprintf("proprietary, manufacturer %s (%d)", name, d.ManufacturerID)
}

func (d *ProprietaryData) Write(data []byte) error {
	data[1] = d.ManufacturerID
	return nil
}

type ShortDataRawData struct {
	AppendedBlocks uint8
	SrcPort        uint8
	DstPort        uint8
	Resync         bool
	FullMessage    bool
	BitPadding     uint8
}

func (d *ShortDataRawData) String() string {
	return fmt.Sprintf("short data raw, blocks %d, src port %d, dst port %d, resync %t, full %t, padding %d",
		d.AppendedBlocks, d.SrcPort, d.DstPort, d.Resync, d.FullMessage, d.BitPadding)
}

func (d *ShortDataRawData) Write(data []byte) error {
	data[0] |= d.AppendedBlocks & 0x30
	data[1] |= d.AppendedBlocks & 0x0f
	data[8] = (d.SrcPort&0x07)<<5 | (d.DstPort&0x07)<<2
	if d.Resync {
		data[8] |= 0x02
	}
	if d.FullMessage {
		data[8] |= 0x01
	}
	data[9] = d.BitPadding
	return nil
}

type ShortDataDefinedData struct {
	AppendedBlocks uint8
	DDFormat       uint8
	Resync         bool
	FullMessage    bool
	BitPadding     uint8
}

func (d *ShortDataDefinedData) String() string {
	return fmt.Sprintf("short data defined, blocks %d, dd format %s (%d), resync %t, full %t, padding %d",
		d.AppendedBlocks, DDFormatName[d.DDFormat], d.DDFormat, d.Resync, d.FullMessage, d.BitPadding)
}

func (d *ShortDataDefinedData) Write(data []byte) error {
	data[0] |= d.AppendedBlocks & 0x30
	data[1] |= d.AppendedBlocks & 0x0f
	data[8] = (d.DDFormat & 0x3f) << 2
	if d.Resync {
		data[8] |= 0x02
	}
	if d.FullMessage {
		data[8] |= 0x01
	}
	data[9] = d.BitPadding
	return nil
}

var (
	_ DataHeaderData = (*UDTData)(nil)
	_ DataHeaderData = (*UnconfirmedData)(nil)
	_ DataHeaderData = (*ConfirmedData)(nil)
	_ DataHeaderData = (*ResponseData)(nil)
	_ DataHeaderData = (*ProprietaryData)(nil)
	_ DataHeaderData = (*ShortDataRawData)(nil)
	_ DataHeaderData = (*ShortDataDefinedData)(nil)
)

func parseDataHeaderFields(data []byte) *DataHeader {
	if data[0]&0x0f == PacketFormatProprietaryData {
		// Proprietary headers carry no addressing.
		return &DataHeader{
			PacketFormat:       PacketFormatProprietaryData,
			ServiceAccessPoint: data[0] >> 4,
			CRC:                uint16(data[10])<<8 | uint16(data[11]),
		}
	}
	h := &DataHeader{
		DstIsGroup:         (data[0] & 0x80) > 0,
		ResponseRequested:  (data[0] & 0x40) > 0,
		HeaderCompression:  (data[0] & 0x20) > 0,
		PacketFormat:       (data[0] & 0x0f),
		ServiceAccessPoint: (data[1] & 0xf0) >> 4,
		CRC:                uint16(data[10])<<8 | uint16(data[11]),
	}
	h.DstID, h.SrcID = parseIDs(data[2:])
	return h
}

// ParseDataHeader parses the 12 bytes of a data header. The checksum is not
// checked here.
func ParseDataHeader(data []byte) (*DataHeader, error) {
	if err := checkInfoSize(data); err != nil {
		return nil, err
	}

	h := parseDataHeaderFields(data)
	switch h.PacketFormat {
	case PacketFormatUDT:
		h.Data = &UDTData{
			Format:            (data[1] & 0x0f),
			PadNibble:         (data[8] & 0xf8) >> 3,
			AppendedBlocks:    (data[8] & 0x03),
			SupplementaryFlag: (data[9] & 0x80) > 0,
			Opcode:            (data[9] & 0x3f),
		}

	case PacketFormatResponse:
		h.Data = &ResponseData{
			BlocksToFollow: (data[8] & 0x7f),
			ClassType:      (data[9] & 0xf8) >> 3,
			Status:         (data[9] & 0x07),
		}

	case PacketFormatUnconfirmedData:
		h.Data = &UnconfirmedData{
			PadOctetCount:          (data[0] & 0x10) | (data[1] & 0x0f),
			FullMessage:            (data[8] & 0x80) > 0,
			BlocksToFollow:         (data[8] & 0x7f),
			FragmentSequenceNumber: (data[9] & 0x0f),
		}

	case PacketFormatConfirmedData:
		h.Data = &ConfirmedData{
			PadOctetCount:          (data[0] & 0x10) | (data[1] & 0x0f),
			FullMessage:            (data[8] & 0x80) > 0,
			BlocksToFollow:         (data[8] & 0x7f),
			Resync:                 (data[9] & 0x80) > 0,
			SendSequenceNumber:     (data[9] & 0x70) >> 4,
			FragmentSequenceNumber: (data[9] & 0x0f),
		}

	case PacketFormatShortDataRaw:
		h.Data = &ShortDataRawData{
			AppendedBlocks: (data[0] & 0x30) | (data[1] & 0x0f),
			SrcPort:        (data[8] & 0xe0) >> 5,
			DstPort:        (data[8] & 0x1c) >> 2,
			Resync:         (data[8] & 0x02) > 0,
			FullMessage:    (data[8] & 0x01) > 0,
			BitPadding:     (data[9]),
		}

	case PacketFormatShortDataDefined:
		h.Data = &ShortDataDefinedData{
			AppendedBlocks: (data[0] & 0x30) | (data[1] & 0x0f),
			DDFormat:       (data[8] & 0xfc) >> 2,
			Resync:         (data[8] & 0x02) > 0,
			FullMessage:    (data[8] & 0x01) > 0,
			BitPadding:     (data[9]),
		}

	case PacketFormatProprietaryData:
		h.Data = &ProprietaryData{
			ManufacturerID: data[1],
		}

	default:
		return nil, fmt.Errorf("%w %#02x", ErrUnknownPacketFormat, h.PacketFormat)
	}

	return h, nil
}

// DecodeDataHeader decodes the header carried by a data header burst. A header
// failing its checksum is returned with a Failed verdict and, when its packet
// format is unreadable, without format specific data.
func DecodeDataHeader(f *Frame) (*DataHeader, error) {
	st, err := f.SlotType()
	if err != nil {
		return nil, err
	}
	if st.DataType != Data {
		return nil, fmt.Errorf("dmr: expected %s burst, got %s", Data, st.DataType)
	}

	buf, err := decodeInfo(f)
	if err != nil {
		return nil, err
	}
	verdict, err := checkCCITT(buf, Data)
	if err != nil {
		return nil, err
	}
	buf.Freeze()

	data := buf.Bytes()
	h, err := ParseDataHeader(data)
	if err != nil {
		if verdict.OK() {
			return nil, err
		}
		h = parseDataHeaderFields(data)
	}
	h.Header = newHeader(f)
	h.ColorCode = st.ColorCode
	h.Verdict = verdict
	h.Corrected = buf.Corrected() + st.Corrected
	return h, nil
}
