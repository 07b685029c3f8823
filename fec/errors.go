package fec

import "errors"

// ErrUncorrectable is returned when a codeword holds more errors than the code
// can repair.
var ErrUncorrectable = errors.New("fec: uncorrectable errors")
