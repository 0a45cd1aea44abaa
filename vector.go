// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/ssz-tree/ssz/tree"
)

// VectorSchema is the schema of a fixed length homogeneous collection. Vectors
// of bits are bitvectors.
type VectorSchema struct {
	collection

	name string
	def  tree.Node
}

// NewVectorSchema creates the schema of a vector of length elements.
func NewVectorSchema(elem Schema, length uint64) (*VectorSchema, error) {
	if length == 0 {
		return nil, fmt.Errorf("%w: zero length vector", ErrInvalidSchema)
	}
	c, err := newCollection(elem, length)
	if err != nil {
		return nil, err
	}
	s := &VectorSchema{collection: c}
	if c.isBits() {
		s.name = fmt.Sprintf("Bitvector[%d]", length)
	} else {
		s.name = fmt.Sprintf("Vector[%s, %d]", elem, length)
	}
	if depth := s.leafDepth(); depth > tree.MaxDepth {
		return nil, fmt.Errorf("%w: %s needs tree depth %d", ErrInvalidSchema, s.name, depth)
	}
	if elem.IsFixedSize() {
		hi, lo := bits.Mul64(length, uint64(elem.BitsSize()))
		if hi != 0 || (lo+7)/8 > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %s exceeds the addressable size", ErrInvalidSchema, s.name)
		}
	} else if length > math.MaxUint32/4 {
		return nil, fmt.Errorf("%w: %s offsets exceed the addressable size", ErrInvalidSchema, s.name)
	}
	if c.packed != nil {
		s.def = tree.ZeroNode(c.depth)
	} else {
		s.def = tree.Default(elem.DefaultTree(), length, c.depth)
	}
	return s, nil
}

// MustVectorSchema is like NewVectorSchema but panics on error, simplifying the
// declaration of package level schemas.
func MustVectorSchema(elem Schema, length uint64) *VectorSchema {
	s, err := NewVectorSchema(elem, length)
	if err != nil {
		panic(err)
	}
	return s
}

// NewBitvectorSchema creates the schema of a bitvector of n bits.
func NewBitvectorSchema(n uint64) (*VectorSchema, error) {
	return NewVectorSchema(BitSchema, n)
}

// NewByteVectorSchema creates the schema of an opaque byte vector of n bytes.
func NewByteVectorSchema(n uint64) (*VectorSchema, error) {
	return NewVectorSchema(Uint8Schema, n)
}

// Elem returns the element schema.
func (s *VectorSchema) Elem() Schema { return s.elem }

// Length returns the number of elements.
func (s *VectorSchema) Length() uint64 { return s.length }

// Kind implements Schema.
func (s *VectorSchema) Kind() Kind {
	if s.isBits() {
		return KindBitvector
	}
	return KindVector
}

// String implements Schema.
func (s *VectorSchema) String() string { return s.name }

// TreeDepth implements Schema.
func (s *VectorSchema) TreeDepth() int { return s.depth }

// MaxChunks implements Schema.
func (s *VectorSchema) MaxChunks() uint64 { return s.chunks }

// BitsSize implements Schema.
func (s *VectorSchema) BitsSize() int {
	if !s.IsFixedSize() {
		return 32
	}
	return int(s.FixedPartSize()) * 8
}

// IsFixedSize implements Schema.
func (s *VectorSchema) IsFixedSize() bool { return s.elem.IsFixedSize() }

// FixedPartSize implements Schema. Variable size elements contribute their
// offsets.
func (s *VectorSchema) FixedPartSize() uint32 {
	bitsPerElem := uint64(32)
	if s.elem.IsFixedSize() {
		bitsPerElem = uint64(s.elem.BitsSize())
	}
	return uint32((s.length*bitsPerElem + 7) / 8)
}

// VariablePartSize implements Schema.
func (s *VectorSchema) VariablePartSize(node tree.Node) (uint32, error) {
	if s.IsFixedSize() {
		return 0, nil
	}
	size, err := s.elementsSize(node, s.length)
	if err != nil {
		return 0, err
	}
	return size - s.FixedPartSize(), nil
}

// SizeBounds implements Schema.
func (s *VectorSchema) SizeBounds() LengthBounds {
	if s.isBits() {
		n := s.bytesOf(s.length)
		return LengthBounds{Min: n, Max: n}
	}
	bounds := s.elem.SizeBounds()
	if !s.elem.IsFixedSize() {
		bounds = bounds.addBytes(4)
	}
	return bounds.mul(s.length)
}

// DefaultTree implements Schema.
func (s *VectorSchema) DefaultTree() tree.Node { return s.def }

// Default implements Schema.
func (s *VectorSchema) Default() Value { return &VectorView{schema: s, node: s.def} }

// FromNode implements Schema.
func (s *VectorSchema) FromNode(node tree.Node) (Value, error) {
	return s.view(node)
}

func (s *VectorSchema) view(node tree.Node) (*VectorView, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil tree backing %s", ErrSchemaMismatch, s.name)
	}
	return &VectorView{schema: s, node: node}, nil
}

// Of creates a vector from its elements.
func (s *VectorSchema) Of(values ...Value) (*VectorView, error) {
	if uint64(len(values)) != s.length {
		return nil, fmt.Errorf("%w: %d elements for %s", ErrIndexOutOfBounds, len(values), s.name)
	}
	node, err := s.buildChunks(values)
	if err != nil {
		return nil, err
	}
	return s.view(node)
}

func (s *VectorSchema) encode(buf []byte, node tree.Node) ([]byte, error) {
	return s.encodeElements(buf, node, s.length)
}

func (s *VectorSchema) decode(blob []byte) (tree.Node, error) {
	if !s.elem.IsFixedSize() {
		if len(blob) < 4 {
			return nil, fmt.Errorf("%w: have %d bytes, want at least 4", ErrUnexpectedEOF, len(blob))
		}
		if first := binary.LittleEndian.Uint32(blob); first != s.FixedPartSize() && first%4 == 0 {
			return nil, fmt.Errorf("%w: have %d items, want %d", ErrVectorLengthMismatch, first/4, s.length)
		}
		nodes, err := decodeParts(blob, func(int) Schema { return s.elem }, int(s.length))
		if err != nil {
			return nil, err
		}
		return tree.Build(nodes, s.depth, tree.ZeroNode(0)), nil
	}
	size := int(s.FixedPartSize())
	switch {
	case len(blob) < size:
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrUnexpectedEOF, len(blob), size)
	case len(blob) > size:
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrVectorLengthMismatch, len(blob), size)
	}
	if s.isBits() && s.length%8 != 0 {
		if last := blob[len(blob)-1]; last>>(s.length%8) != 0 {
			return nil, fmt.Errorf("%w: last byte %#08b, length %d", ErrTrailingBits, last, s.length)
		}
	}
	node, _, err := s.decodeFixed(blob)
	return node, err
}

func (s *VectorSchema) appendTemplate(leaves []tree.TemplateLeaf, base tree.GIndex, offset int) []tree.TemplateLeaf {
	return s.appendChunkTemplate(leaves, base, offset, s.length)
}

func (s *VectorSchema) leafDepth() int { return s.depth + s.elemLeafDepth() }

// VectorView is a vector value backed by a tree. Elements are materialized on
// first access and cached for the lifetime of the view.
type VectorView struct {
	schema *VectorSchema
	node   tree.Node
	cache  elemCache
}

// Schema implements Value.
func (v *VectorView) Schema() Schema { return v.schema }

// Node implements Value.
func (v *VectorView) Node() tree.Node { return v.node }

// Len returns the number of elements.
func (v *VectorView) Len() uint64 { return v.schema.length }

// Get returns the i-th element.
func (v *VectorView) Get(i uint64) (Value, error) {
	if i >= v.schema.length {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, v.schema.length)
	}
	return v.cache.load(i, func() (Value, error) {
		return v.schema.element(v.node, tree.Root, i)
	})
}

// Set returns a new vector with the i-th element replaced. The receiver is not
// modified.
func (v *VectorView) Set(i uint64, val Value) (*VectorView, error) {
	if i >= v.schema.length {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, v.schema.length)
	}
	node, err := v.schema.withElement(v.node, tree.Root, i, val)
	if err != nil {
		return nil, err
	}
	return &VectorView{schema: v.schema, node: node}, nil
}

// Elements returns all the elements in order.
func (v *VectorView) Elements() ([]Value, error) {
	return elements(v, v.schema.length)
}

// Bytes returns the encoding of the vector, which for byte vectors and
// bitvectors is their raw content.
func (v *VectorView) Bytes() ([]byte, error) {
	return v.schema.encode(nil, v.node)
}
