// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/ssz-tree/ssz/tree"
)

// LengthBounds is the range of encoded lengths of a type, in bytes. Bounds too
// large for a uint64 saturate at math.MaxUint64.
type LengthBounds struct {
	Min uint64
	Max uint64
}

// Contains reports whether an encoding of the given length could be valid.
func (b LengthBounds) Contains(size uint64) bool {
	return size >= b.Min && size <= b.Max
}

// add returns the bounds of two values encoded back to back.
func (b LengthBounds) add(o LengthBounds) LengthBounds {
	return LengthBounds{Min: addSat(b.Min, o.Min), Max: addSat(b.Max, o.Max)}
}

// addBytes extends both bounds with a fixed number of bytes.
func (b LengthBounds) addBytes(n uint64) LengthBounds {
	return LengthBounds{Min: addSat(b.Min, n), Max: addSat(b.Max, n)}
}

// mul returns the bounds of n values encoded back to back.
func (b LengthBounds) mul(n uint64) LengthBounds {
	return LengthBounds{Min: mulSat(b.Min, n), Max: mulSat(b.Max, n)}
}

// String implements fmt.Stringer.
func (b LengthBounds) String() string {
	return fmt.Sprintf("[%d, %d]", b.Min, b.Max)
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// Size returns the length of the SSZ encoding of a value.
func Size(v Value) (uint32, error) {
	return sizeOf(v.Schema(), v.Node())
}

// sizeOf returns the length of the encoding of the value backed by node.
func sizeOf(s Schema, node tree.Node) (uint32, error) {
	if s.IsFixedSize() {
		return s.FixedPartSize(), nil
	}
	variable, err := s.VariablePartSize(node)
	if err != nil {
		return 0, err
	}
	size := uint64(s.FixedPartSize()) + uint64(variable)
	if size > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bytes", ErrMaxLengthExceeded, size)
	}
	return uint32(size), nil
}

// sumSizes accumulates encoding lengths, failing once they leave the range of
// 4-byte offsets.
type sumSizes uint64

func (s *sumSizes) add(n uint64) error {
	*s += sumSizes(n)
	if *s > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrMaxLengthExceeded, uint64(*s))
	}
	return nil
}
