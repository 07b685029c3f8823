package dmr

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
)

// SlotType is the Golay(20,8) protected color code and data type of a data
// burst.
type SlotType struct {
	ColorCode uint8
	DataType  DataType

	// Corrected is the number of bits repaired while decoding.
	Corrected int
}

// DecodeSlotType decodes 20 slot type bits.
func DecodeSlotType(bits bit.Bits) (SlotType, error) {
	if len(bits) != SlotTypeBits {
		return SlotType{}, fmt.Errorf("dmr: expected %d slot type bits, got %d", SlotTypeBits, len(bits))
	}

	word := append(bit.Bits(nil), bits...)
	fixed, ok := fec.Golay2087.Correct(word)
	if !ok {
		return SlotType{}, fmt.Errorf("dmr: slot type: %w", fec.ErrUncorrectable)
	}
	return SlotType{
		ColorCode: uint8(word[0:4].Uint()),
		DataType:  DataType(word[4:8].Uint()),
		Corrected: fixed,
	}, nil
}

// Bits returns the encoded slot type.
func (st SlotType) Bits() bit.Bits {
	return fec.Golay2087.Encode(append(
		bit.UintBits(uint64(st.ColorCode), 4),
		bit.UintBits(uint64(st.DataType), 4)...))
}

func (st SlotType) String() string {
	return fmt.Sprintf("color code %d, %s", st.ColorCode, st.DataType)
}
