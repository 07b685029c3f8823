package lc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/pd0mz/go-trunk/bit"
)

// Data Format
// ref: ETSI TS 102 361-2 7.2.18
const (
	Format7Bit uint8 = iota
	FormatISO8Bit
	FormatUTF8
	FormatUTF16BE
)

// DataFormatName is a map of data format to string.
var DataFormatName = map[uint8]string{
	Format7Bit:    "7 bit",
	FormatISO8Bit: "ISO 8 bit",
	FormatUTF8:    "unicode utf-8",
	FormatUTF16BE: "unicode utf-16be",
}

const (
	talkerAliasHeaderBits = 49
	talkerAliasBlockBits  = 56
	talkerAliasMaxLength  = 31
)

// TalkerAliasHeaderPDU Conforms to ETSI TS 102 361-2 7.1.1.4
type TalkerAliasHeaderPDU struct {
	DataFormat uint8
	Length     uint8

	// Data holds the first 49 bits of the alias.
	Data bit.Bits
}

// TalkerAliasBlockPDU Conforms to ETSI TS 102 361-2 7.1.1.5
type TalkerAliasBlockPDU struct {
	Data []byte
}

// ParseTalkerAliasHeaderPDU parses TalkerAliasHeader PDU from bytes
func ParseTalkerAliasHeaderPDU(data []byte) (*TalkerAliasHeaderPDU, error) {
	if len(data) != pduSize {
		return nil, fmt.Errorf("dmr/lc/talkeralias: expected 7 bytes, got %d", len(data))
	}

	bits := bit.NewBits(data)
	return &TalkerAliasHeaderPDU{
		DataFormat: (data[0] & 0xc0) >> 6,
		Length:     (data[0] & 0x3e) >> 1,
		Data:       bits[7:],
	}, nil
}

// Bytes returns object as bytes
func (t *TalkerAliasHeaderPDU) Bytes() []byte {
	var bits = append(bit.UintBits(uint64(t.DataFormat), 2), bit.UintBits(uint64(t.Length), 5)...)
	bits = append(bits, padBits(t.Data, talkerAliasHeaderBits)...)
	return bits.Bytes()
}

func (t *TalkerAliasHeaderPDU) String() string {
	return fmt.Sprintf("TalkerAliasHeader: [ format: %s, length: %d ]",
		DataFormatName[t.DataFormat], t.Length)
}

// ParseTalkerAliasBlockPDU parse talker alias block pdu
func ParseTalkerAliasBlockPDU(data []byte) (*TalkerAliasBlockPDU, error) {
	if len(data) != pduSize {
		return nil, fmt.Errorf("dmr/lc/talkeralias: expected 7 bytes, got %d", len(data))
	}

	return &TalkerAliasBlockPDU{
		Data: append([]byte(nil), data...),
	}, nil
}

// Bytes returns object as bytes
func (t *TalkerAliasBlockPDU) Bytes() []byte {
	return t.Data
}

func (t *TalkerAliasBlockPDU) String() string {
	return fmt.Sprintf("TalkerAliasBlock: [ data: % x ]", t.Data)
}

func padBits(bits bit.Bits, n int) bit.Bits {
	var out = make(bit.Bits, n)
	copy(out, bits)
	return out
}

func charBits(format uint8) int {
	switch format {
	case Format7Bit:
		return 7
	case FormatUTF16BE:
		return 16
	default:
		return 8
	}
}

// TalkerAlias collects the header and blocks of a talker alias, which are
// sent as separate Link Control messages.
type TalkerAlias struct {
	Header *TalkerAliasHeaderPDU
	Blocks [3]*TalkerAliasBlockPDU
}

// Add stores the talker alias part carried by lc. It reports false for any
// other Link Control message.
func (ta *TalkerAlias) Add(lc *LC) bool {
	switch {
	case lc.TalkerAliasHeader != nil:
		if ta.Header != nil && (ta.Header.DataFormat != lc.TalkerAliasHeader.DataFormat || ta.Header.Length != lc.TalkerAliasHeader.Length) {
			ta.Blocks = [3]*TalkerAliasBlockPDU{}
		}
		ta.Header = lc.TalkerAliasHeader
		return true
	case lc.Opcode >= TalkerAliasBlk1 && lc.Opcode <= TalkerAliasBlk3 && lc.FeatureSetID == 0:
		ta.Blocks[lc.Opcode-TalkerAliasBlk1] = lc.TalkerAliasBlocks[lc.Opcode-TalkerAliasBlk1]
		return true
	}
	return false
}

// Reset forgets all collected parts.
func (ta *TalkerAlias) Reset() {
	*ta = TalkerAlias{}
}

func (ta *TalkerAlias) bits() bit.Bits {
	if ta.Header == nil {
		return nil
	}
	var out = append(bit.Bits(nil), padBits(ta.Header.Data, talkerAliasHeaderBits)...)
	for _, b := range ta.Blocks {
		if b == nil {
			break
		}
		out = append(out, bit.NewBits(b.Data)...)
	}
	return out
}

// Complete reports whether all parts announced by the header were received.
func (ta *TalkerAlias) Complete() bool {
	if ta.Header == nil {
		return false
	}
	return len(ta.bits()) >= int(ta.Header.Length)*charBits(ta.Header.DataFormat)
}

// Text decodes the alias received so far.
func (ta *TalkerAlias) Text() (string, error) {
	if ta.Header == nil {
		return "", fmt.Errorf("dmr/lc/talkeralias: no header")
	}

	var (
		bits = ta.bits()
		size = charBits(ta.Header.DataFormat)
		n    = min(int(ta.Header.Length), len(bits)/size)
	)
	bits = bits[:n*size]

	switch ta.Header.DataFormat {
	case Format7Bit:
		var s strings.Builder
		for i := 0; i < n; i++ {
			s.WriteByte(byte(bits[i*7 : i*7+7].Uint()))
		}
		return s.String(), nil
	case FormatISO8Bit:
		return decodeAlias(charmap.ISO8859_1, bits.Bytes())
	case FormatUTF16BE:
		return decodeAlias(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), bits.Bytes())
	default:
		return strings.ToValidUTF8(string(bits.Bytes()), string(utf8.RuneError)), nil
	}
}

func decodeAlias(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("dmr/lc/talkeralias: %w", err)
	}
	return string(out), nil
}

// NewTalkerAlias encodes text as a talker alias header and as many blocks as
// needed.
func NewTalkerAlias(text string, format uint8) (*TalkerAlias, error) {
	var (
		data   []byte
		length int
		err    error
	)
	switch format {
	case Format7Bit:
		var bits bit.Bits
		for _, r := range text {
			if r > 0x7f {
				return nil, fmt.Errorf("dmr/lc/talkeralias: %q is not 7 bit", r)
			}
			bits = append(bits, bit.UintBits(uint64(r), 7)...)
			length++
		}
		return newTalkerAlias(format, length, bits)
	case FormatISO8Bit:
		data, err = charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
		length = len(data)
	case FormatUTF16BE:
		data, err = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(text))
		length = len(data) / 2
	case FormatUTF8:
		data, length = []byte(text), len(text)
	default:
		return nil, fmt.Errorf("dmr/lc/talkeralias: unknown data format %d", format)
	}
	if err != nil {
		return nil, fmt.Errorf("dmr/lc/talkeralias: %w", err)
	}
	return newTalkerAlias(format, length, bit.NewBits(data))
}

func newTalkerAlias(format uint8, length int, bits bit.Bits) (*TalkerAlias, error) {
	if length > talkerAliasMaxLength || len(bits) > talkerAliasHeaderBits+3*talkerAliasBlockBits {
		return nil, fmt.Errorf("dmr/lc/talkeralias: alias of %d characters too long", length)
	}

	ta := &TalkerAlias{
		Header: &TalkerAliasHeaderPDU{
			DataFormat: format,
			Length:     uint8(length),
			Data:       padBits(bits, talkerAliasHeaderBits),
		},
	}
	for i, o := 0, talkerAliasHeaderBits; o < len(bits); i, o = i+1, o+talkerAliasBlockBits {
		ta.Blocks[i] = &TalkerAliasBlockPDU{
			Data: padBits(bits[o:], talkerAliasBlockBits).Bytes(),
		}
	}
	return ta, nil
}

// LCs returns the Link Control messages carrying the alias.
func (ta *TalkerAlias) LCs() []*LC {
	if ta.Header == nil {
		return nil
	}
	var out = []*LC{{Opcode: TalkerAliasHeader, TalkerAliasHeader: ta.Header}}
	for i, b := range ta.Blocks {
		if b == nil {
			break
		}
		l := &LC{Opcode: TalkerAliasBlk1 + uint8(i)}
		l.TalkerAliasBlocks[i] = b
		out = append(out, l)
	}
	return out
}
