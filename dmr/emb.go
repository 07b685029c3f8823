package dmr

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
	"github.com/pd0mz/go-trunk/fec"
)

// EMB contains embedded signalling.
type EMB struct {
	ColorCode uint8
	PI        bool
	LCSS      LCSS

	// Corrected is the number of bits repaired while decoding.
	Corrected int
}

func (emb EMB) String() string {
	return fmt.Sprintf("color code %d, pi %t, %s (%d)", emb.ColorCode, emb.PI, emb.LCSS, emb.LCSS)
}

// DecodeEMB decodes the 16 QR(16,7) protected EMB bits.
func DecodeEMB(bits bit.Bits) (EMB, error) {
	if len(bits) != EMBBits {
		return EMB{}, fmt.Errorf("dmr/emb: expected %d bits, got %d", EMBBits, len(bits))
	}

	word := append(bit.Bits(nil), bits...)
	fixed, ok := fec.QR1676.Correct(word)
	if !ok {
		return EMB{}, fmt.Errorf("dmr/emb: %w", fec.ErrUncorrectable)
	}

	return EMB{
		ColorCode: uint8(word[0:4].Uint()),
		PI:        word[4] == 1,
		LCSS:      LCSS(word[5:7].Uint()),
		Corrected: fixed,
	}, nil
}

// Bits returns the encoded EMB.
func (emb EMB) Bits() bit.Bits {
	var data = bit.UintBits(uint64(emb.ColorCode), 4)
	if emb.PI {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	return fec.QR1676.Encode(append(data, bit.UintBits(uint64(emb.LCSS), 2)...))
}
