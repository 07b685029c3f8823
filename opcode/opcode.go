// Package opcode implements total lookup of protocol opcodes.
//
// A Registry resolves a numeric code to the descriptor defined for it, to the
// fallback descriptor of the numeric band it falls in, or to a universal
// unknown descriptor. Registries are built once and are safe for concurrent
// use.
package opcode

import (
	"fmt"
	"slices"
)

// NoValue is the code of descriptors that have no number of their own, such as
// fallbacks and pseudo opcodes.
const NoValue = -1

// Descriptor is an opcode of a closed opcode set.
type Descriptor interface {
	comparable
	Value() int
}

// Band is an inclusive range of codes sharing a fallback descriptor.
type Band[T Descriptor] struct {
	Low, High int
	Fallback  T
}

func (b Band[T]) contains(v int) bool { return b.Low <= v && v <= b.High }

type Registry[T Descriptor] struct {
	all     []T
	index   map[int]T
	bands   []Band[T]
	unknown T
}

// New indexes the descriptors of all that have a real code. It fails on
// duplicate codes, on empty or overlapping bands and on defined codes outside
// of all bands, when bands are given.
func New[T Descriptor](all []T, bands []Band[T], unknown T) (*Registry[T], error) {
	r := &Registry[T]{
		all:     slices.Clone(all),
		index:   make(map[int]T, len(all)),
		bands:   slices.Clone(bands),
		unknown: unknown,
	}

	slices.SortFunc(r.bands, func(a, b Band[T]) int { return a.Low - b.Low })
	for i, b := range r.bands {
		if b.Low > b.High {
			return nil, fmt.Errorf("opcode: empty band [%d,%d]", b.Low, b.High)
		}
		if i > 0 && r.bands[i-1].High >= b.Low {
			return nil, fmt.Errorf("opcode: band [%d,%d] overlaps [%d,%d]", b.Low, b.High, r.bands[i-1].Low, r.bands[i-1].High)
		}
	}

	for _, d := range all {
		v := d.Value()
		if v == NoValue {
			continue
		}
		if other, dup := r.index[v]; dup {
			return nil, fmt.Errorf("opcode: %v and %v share code %d", other, d, v)
		}
		if len(r.bands) > 0 && r.band(v) < 0 {
			return nil, fmt.Errorf("opcode: %v code %d outside of all bands", d, v)
		}
		r.index[v] = d
	}

	return r, nil
}

// MustNew is like New but panics on an inconsistent opcode set.
func MustNew[T Descriptor](all []T, bands []Band[T], unknown T) *Registry[T] {
	r, err := New(all, bands, unknown)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry[T]) band(v int) int {
	for i, b := range r.bands {
		if b.contains(v) {
			return i
		}
	}
	return -1
}

// Lookup resolves a code. It never fails.
func (r *Registry[T]) Lookup(v int) T {
	if d, ok := r.index[v]; ok {
		return d
	}
	if i := r.band(v); i >= 0 {
		return r.bands[i].Fallback
	}
	return r.unknown
}

// Defined reports whether v has a descriptor of its own.
func (r *Registry[T]) Defined(v int) bool {
	_, ok := r.index[v]
	return ok
}

// IsFallback reports whether d is a band fallback or the unknown descriptor.
func (r *Registry[T]) IsFallback(d T) bool {
	if d == r.unknown {
		return true
	}
	for _, b := range r.bands {
		if d == b.Fallback {
			return true
		}
	}
	return false
}

// All returns every descriptor in declaration order.
func (r *Registry[T]) All() []T { return slices.Clone(r.all) }

// Unknown is the descriptor of codes outside of all bands.
func (r *Registry[T]) Unknown() T { return r.unknown }
