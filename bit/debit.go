package bit

// Debit is a two bit symbol as transmitted on a 4FSK channel.
type Debit uint8

type Debits []Debit

// Deviation symbols, see ETSI TS 102 361-1 page 129.
var debitSymbol = [4]int8{
	0x00: +1,
	0x01: +3,
	0x02: -1,
	0x03: -3,
}

// Symbol returns the 4FSK deviation symbol (+3, +1, -1 or -3) of the dibit.
func (d Debit) Symbol() int8 {
	return debitSymbol[d&0x03]
}

// DebitFromSymbol is the inverse of Symbol, ok is false for anything but
// +3, +1, -1 and -3.
func DebitFromSymbol(s int8) (d Debit, ok bool) {
	for i, v := range debitSymbol {
		if v == s {
			return Debit(i), true
		}
	}
	return 0, false
}

// NewDebits pairs up bits into dibits, a trailing odd bit is dropped.
func NewDebits(bits Bits) Debits {
	var o = make(Debits, len(bits)/2)
	for i := range o {
		o[i] = Debit(bits[i*2]&0x01)<<1 | Debit(bits[i*2+1]&0x01)
	}
	return o
}

// Bits unpacks the dibits back to bits.
func (d Debits) Bits() Bits {
	var o = make(Bits, len(d)*2)
	for i, v := range d {
		o[i*2] = Bit(v>>1) & 0x01
		o[i*2+1] = Bit(v) & 0x01
	}
	return o
}
