package crc16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tests := map[uint16][]byte{
		0x0000: []byte{},
		0x1021: []byte{0x00, 0x01},
		0x3be4: []byte("hello world"),
		0x31c3: []byte("123456789"),
	}

	for want, test := range tests {
		assert.Equal(t, want, Checksum(test), "checksum of %q", test)
	}
}

func TestMasked(t *testing.T) {
	assert.Equal(t, uint16(0xffff), Masked(nil, 0))
	assert.Equal(t, ^uint16(0x3be4)^0xa5a5, Masked([]byte("hello world"), 0xa5a5))
}
