// Package fec implements the forward error correction block codes used by DMR.
//
// The binary codes are systematic: a codeword holds K data bits followed by
// N-K parity bits. Each parity bit is the XOR of a set of data bits, given as
// parity equations in the same form as the generator matrices of ETSI TS 102
// 361-1. Decoding looks the syndrome up in a table of all
// error patterns the code can correct.
package fec

import (
	"fmt"

	"github.com/pd0mz/go-trunk/bit"
)

// Code is a systematic binary block code.
type Code struct {
	name string
	n, k int
	t    int

	// columns holds the syndrome of a single error at each codeword
	// position, with the first parity bit as most significant bit.
	columns []uint32
	errors  map[uint32][]int
}

// New builds an (n, n-len(equations)) code correcting up to t bit errors.
// equations[j] lists the data bits that make up parity bit j.
func New(name string, n int, equations [][]int, t int) (*Code, error) {
	var (
		m = len(equations)
		k = n - m
	)
	if m < 1 || m > 32 || k < 1 {
		return nil, fmt.Errorf("fec: %s: invalid size (%d, %d)", name, n, k)
	}

	c := &Code{
		name:    name,
		n:       n,
		k:       k,
		t:       t,
		columns: make([]uint32, n),
		errors:  make(map[uint32][]int),
	}
	for j, eq := range equations {
		for _, d := range eq {
			if d < 0 || d >= k {
				return nil, fmt.Errorf("fec: %s: parity %d refers to data bit %d", name, j, d)
			}
			c.columns[d] |= 1 << uint(m-1-j)
		}
	}
	for j := 0; j < m; j++ {
		c.columns[k+j] = 1 << uint(m-1-j)
	}

	// Every correctable error pattern must have its own syndrome.
	var pattern []int
	var walk func(from int) error
	walk = func(from int) error {
		if len(pattern) > 0 {
			var s uint32
			for _, p := range pattern {
				s ^= c.columns[p]
			}
			if s == 0 {
				return fmt.Errorf("fec: %s: error pattern %v is a codeword", name, pattern)
			}
			if other, dup := c.errors[s]; dup {
				return fmt.Errorf("fec: %s: error patterns %v and %v share syndrome %#x", name, other, pattern, s)
			}
			c.errors[s] = append([]int(nil), pattern...)
		}
		if len(pattern) == t {
			return nil
		}
		for p := from; p < n; p++ {
			pattern = append(pattern, p)
			if err := walk(p + 1); err != nil {
				return err
			}
			pattern = pattern[:len(pattern)-1]
		}
		return nil
	}
	if err := walk(0); err != nil {
		return nil, err
	}

	return c, nil
}

// MustNew is like New but panics if the code can not correct t errors.
func MustNew(name string, n int, equations [][]int, t int) *Code {
	c, err := New(name, n, equations, t)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Code) N() int { return c.n }
func (c *Code) K() int { return c.k }

// T is the number of bit errors the code corrects.
func (c *Code) T() int { return c.t }

func (c *Code) String() string {
	return fmt.Sprintf("%s(%d,%d)", c.name, c.n, c.k)
}

func (c *Code) parity(data bit.Bits) uint32 {
	var p uint32
	for i := 0; i < c.k; i++ {
		if data[i]&0x01 == 0x01 {
			p ^= c.columns[i]
		}
	}
	return p
}

// Parity returns the N-K parity bits of the first K data bits.
func (c *Code) Parity(data bit.Bits) bit.Bits {
	return bit.UintBits(uint64(c.parity(data)), c.n-c.k)
}

// Encode returns the codeword for the first K data bits.
func (c *Code) Encode(data bit.Bits) bit.Bits {
	word := make(bit.Bits, 0, c.n)
	word = append(word, data[:c.k]...)
	return append(word, c.Parity(data)...)
}

// Syndrome of the first N bits of word, zero for a codeword.
func (c *Code) Syndrome(word bit.Bits) uint32 {
	s := c.parity(word)
	for j := c.k; j < c.n; j++ {
		if word[j]&0x01 == 0x01 {
			s ^= c.columns[j]
		}
	}
	return s
}

// Check reports whether word is a codeword.
func (c *Code) Check(word bit.Bits) bool {
	return c.Syndrome(word) == 0
}

// Correct repairs up to T bit errors in word in place and returns the number
// of bits flipped. It reports false, leaving word untouched, when the errors
// are beyond repair.
func (c *Code) Correct(word bit.Bits) (fixed int, ok bool) {
	s := c.Syndrome(word)
	if s == 0 {
		return 0, true
	}
	pattern, ok := c.errors[s]
	if !ok {
		return 0, false
	}
	for _, p := range pattern {
		word[p].Flip()
	}
	return len(pattern), true
}
