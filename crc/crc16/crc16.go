// Package crc16 implements the byte oriented CRC-CCITT (x^16+x^12+x^5+1, zero
// initial value) used to fill the checksum of DMR CCITT-80 protected blocks.
package crc16

import sigurn "github.com/sigurn/crc16"

var table = sigurn.MakeTable(sigurn.CRC16_XMODEM)

// Checksum returns the CRC-CCITT of data.
func Checksum(data []byte) uint16 {
	return sigurn.Checksum(data, table)
}

// Masked returns the checksum as transmitted: inverted and XOR-ed with the
// data type specific CRC mask.
func Masked(data []byte, mask uint16) uint16 {
	return ^Checksum(data) ^ mask
}
