package dmr

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// packetCRCSize is the size of the CRC-32 trailing the last block of a packet.
const packetCRCSize = 4

type binaryCoder struct{ transform.NopResetter }

func (e binaryCoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	n := len(src)
	if len(dst) < n {
		err = transform.ErrShortDst
		n = len(dst)
	}
	copy(dst[:n], src[:n])
	return n, n, err
}

type binaryEncoding struct{}

func (e binaryEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: binaryCoder{}}
}

func (e binaryEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: binaryCoder{}}
}

var encodingMap = map[uint8]encoding.Encoding{
	DDFormatBinary:         binaryEncoding{},
	DDFormat7BitChar:       binaryEncoding{},
	DDFormat8BitISO8859_1:  charmap.ISO8859_1,
	DDFormat8BitISO8859_2:  charmap.ISO8859_2,
	DDFormat8BitISO8859_3:  charmap.ISO8859_3,
	DDFormat8BitISO8859_4:  charmap.ISO8859_4,
	DDFormat8BitISO8859_5:  charmap.ISO8859_5,
	DDFormat8BitISO8859_6:  charmap.ISO8859_6,
	DDFormat8BitISO8859_7:  charmap.ISO8859_7,
	DDFormat8BitISO8859_8:  charmap.ISO8859_8,
	DDFormat8BitISO8859_9:  charmap.ISO8859_9,
	DDFormat8BitISO8859_10: charmap.ISO8859_10,
	DDFormat8BitISO8859_13: charmap.ISO8859_13,
	DDFormat8BitISO8859_14: charmap.ISO8859_14,
	DDFormat8BitISO8859_15: charmap.ISO8859_15,
	DDFormat8BitISO8859_16: charmap.ISO8859_16,
	DDFormatUTF8:           unicode.UTF8,
	DDFormatUTF16:          unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	DDFormatUTF16BE:        unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	DDFormatUTF16LE:        unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	DDFormatUTF32:          utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
	DDFormatUTF32BE:        utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	DDFormatUTF32LE:        utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
}

// DDFormatEncoding returns the text encoding of a defined data format.
func DDFormatEncoding(format uint8) (encoding.Encoding, bool) {
	e, ok := encodingMap[format]
	return e, ok
}

// BuildMessageData encodes text in a defined data format, NUL terminated.
func BuildMessageData(text string, format uint8) ([]byte, error) {
	e, ok := encodingMap[format]
	if !ok {
		return nil, fmt.Errorf("dmr: unsupported dd format %s (%d)", DDFormatName[format], format)
	}
	data, err := e.NewEncoder().Bytes(append([]byte(text), 0))
	if err != nil {
		return nil, fmt.Errorf("dmr: %w", err)
	}
	return data, nil
}

// DataPacket is a packet reassembled from the blocks following a data
// header. The trailing CRC-32 is reported as received.
type DataPacket struct {
	Header *DataHeader
	Blocks []*DataBlock
	Data   []byte
	CRC    uint32
}

// NewDataPacket joins the block payloads, dropping pad octets and the CRC-32.
func NewDataPacket(h *DataHeader, blocks []*DataBlock) (*DataPacket, error) {
	var data []byte
	for _, b := range blocks {
		data = append(data, b.Data...)
	}
	if len(data) < packetCRCSize {
		return nil, fmt.Errorf("dmr: packet of %d bytes has no CRC", len(data))
	}

	var (
		end = len(data) - packetCRCSize
		p   = &DataPacket{Header: h, Blocks: blocks}
	)
	p.CRC = uint32(data[end])<<24 | uint32(data[end+1])<<16 | uint32(data[end+2])<<8 | uint32(data[end+3])

	var pad int
	switch d := h.Data.(type) {
	case *UnconfirmedData:
		pad = int(d.PadOctetCount)
	case *ConfirmedData:
		pad = int(d.PadOctetCount)
	case *ShortDataDefinedData:
		pad = int(d.BitPadding) / 8
	case *ShortDataRawData:
		pad = int(d.BitPadding) / 8
	}
	if pad > end {
		return nil, fmt.Errorf("dmr: %d pad octets exceed packet of %d bytes", pad, end)
	}
	p.Data = data[:end-pad]
	return p, nil
}

// Text decodes short data defined packets carrying text.
func (p *DataPacket) Text() (string, error) {
	d, ok := p.Header.Data.(*ShortDataDefinedData)
	if !ok {
		return "", fmt.Errorf("dmr: %T packet carries no text", p.Header.Data)
	}
	e, ok := encodingMap[d.DDFormat]
	if !ok || d.DDFormat == DDFormatBinary {
		return "", fmt.Errorf("dmr: dd format %s (%d) is not text", DDFormatName[d.DDFormat], d.DDFormat)
	}
	out, err := e.NewDecoder().Bytes(p.Data)
	if err != nil {
		return "", fmt.Errorf("dmr: %w", err)
	}
	for i, c := range out {
		if c == 0 {
			return string(out[:i]), nil
		}
	}
	return string(out), nil
}

func (p *DataPacket) String() string {
	return fmt.Sprintf("packet of %d blocks, %d bytes, crc %#08x", len(p.Blocks), len(p.Data), p.CRC)
}
