// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/ssz-tree/ssz/tree"
)

// PrimitiveSchema is the schema of a basic type occupying at most one chunk.
// Basic types narrower than a chunk are packed side by side when they are the
// elements of a collection.
type PrimitiveSchema struct {
	name string
	bits int

	read  func(b []byte) (Value, error) // Parses exactly size bytes
	write func(dst []byte, v Value)     // Serializes into exactly size bytes
}

var (
	// BitSchema is the element type of bitvectors and bitlists.
	BitSchema = &PrimitiveSchema{name: "bit", bits: 1, read: readBit, write: writeBit}

	// BoolSchema is the type of booleans.
	BoolSchema = &PrimitiveSchema{name: "bool", bits: 8, read: readBool, write: writeBool}

	Uint8Schema = &PrimitiveSchema{
		name: "uint8", bits: 8,
		read:  func(b []byte) (Value, error) { return Uint8(b[0]), nil },
		write: func(dst []byte, v Value) { dst[0] = byte(v.(Uint8)) },
	}
	Uint16Schema = &PrimitiveSchema{
		name: "uint16", bits: 16,
		read:  func(b []byte) (Value, error) { return Uint16(binary.LittleEndian.Uint16(b)), nil },
		write: func(dst []byte, v Value) { binary.LittleEndian.PutUint16(dst, uint16(v.(Uint16))) },
	}
	Uint32Schema = &PrimitiveSchema{
		name: "uint32", bits: 32,
		read:  func(b []byte) (Value, error) { return Uint32(binary.LittleEndian.Uint32(b)), nil },
		write: func(dst []byte, v Value) { binary.LittleEndian.PutUint32(dst, uint32(v.(Uint32))) },
	}
	Uint64Schema = &PrimitiveSchema{
		name: "uint64", bits: 64,
		read:  func(b []byte) (Value, error) { return Uint64(binary.LittleEndian.Uint64(b)), nil },
		write: func(dst []byte, v Value) { binary.LittleEndian.PutUint64(dst, uint64(v.(Uint64))) },
	}
	Uint256Schema = &PrimitiveSchema{name: "uint256", bits: 256, read: readUint256, write: writeUint256}

	Bytes4Schema = &PrimitiveSchema{
		name: "bytes4", bits: 32,
		read:  func(b []byte) (Value, error) { return Bytes4(b), nil },
		write: func(dst []byte, v Value) { b := v.(Bytes4); copy(dst, b[:]) },
	}
	Bytes32Schema = &PrimitiveSchema{
		name: "bytes32", bits: 256,
		read:  func(b []byte) (Value, error) { return Bytes32(b), nil },
		write: func(dst []byte, v Value) { b := v.(Bytes32); copy(dst, b[:]) },
	}
)

// Kind implements Schema.
func (s *PrimitiveSchema) Kind() Kind { return KindPrimitive }

// String implements Schema.
func (s *PrimitiveSchema) String() string { return s.name }

// TreeDepth implements Schema.
func (s *PrimitiveSchema) TreeDepth() int { return 0 }

// MaxChunks implements Schema.
func (s *PrimitiveSchema) MaxChunks() uint64 { return 1 }

// BitsSize implements Schema.
func (s *PrimitiveSchema) BitsSize() int { return s.bits }

// IsFixedSize implements Schema.
func (s *PrimitiveSchema) IsFixedSize() bool { return true }

// FixedPartSize implements Schema. A standalone bit takes a whole byte.
func (s *PrimitiveSchema) FixedPartSize() uint32 { return uint32(s.size()) }

// VariablePartSize implements Schema.
func (s *PrimitiveSchema) VariablePartSize(tree.Node) (uint32, error) { return 0, nil }

// SizeBounds implements Schema.
func (s *PrimitiveSchema) SizeBounds() LengthBounds {
	return LengthBounds{Min: uint64(s.size()), Max: uint64(s.size())}
}

// DefaultTree implements Schema.
func (s *PrimitiveSchema) DefaultTree() tree.Node { return tree.ZeroLeaf(s.size()) }

// Default implements Schema.
func (s *PrimitiveSchema) Default() Value {
	v, _ := s.read(make([]byte, s.size()))
	return v
}

// FromNode implements Schema.
func (s *PrimitiveSchema) FromNode(node tree.Node) (Value, error) {
	leaf, ok := node.(*tree.LeafNode)
	if !ok {
		return nil, fmt.Errorf("%w: %T backing %s", ErrSchemaMismatch, node, s.name)
	}
	chunk := leaf.Chunk()
	return s.read(chunk[:s.size()])
}

// size returns the number of bytes of a standalone encoding.
func (s *PrimitiveSchema) size() int {
	return (s.bits + 7) / 8
}

// perChunk returns the number of values packed into a single chunk.
func (s *PrimitiveSchema) perChunk() uint64 {
	return uint64(256 / s.bits)
}

// packed reports whether collections of the type share chunks between values.
func (s *PrimitiveSchema) packed() bool {
	return s.bits < 256
}

// marshal returns the standalone encoding of a value.
func (s *PrimitiveSchema) marshal(v Value) []byte {
	buf := make([]byte, s.size())
	s.write(buf, v)
	return buf
}

// leaf creates the standalone tree of a value.
func (s *PrimitiveSchema) leaf(v Value) *tree.LeafNode {
	return tree.NewLeaf(s.marshal(v))
}

func (s *PrimitiveSchema) encode(buf []byte, node tree.Node) ([]byte, error) {
	leaf, ok := node.(*tree.LeafNode)
	if !ok {
		return nil, fmt.Errorf("%w: %T backing %s", ErrSchemaMismatch, node, s.name)
	}
	chunk := leaf.Chunk()
	return append(buf, chunk[:s.size()]...), nil
}

func (s *PrimitiveSchema) decode(blob []byte) (tree.Node, error) {
	if err := checkFixedSlot(blob, s.size()); err != nil {
		return nil, err
	}
	if _, err := s.read(blob); err != nil {
		return nil, err
	}
	return tree.NewLeaf(blob), nil
}

func (s *PrimitiveSchema) appendTemplate(leaves []tree.TemplateLeaf, base tree.GIndex, offset int) []tree.TemplateLeaf {
	return append(leaves, tree.TemplateLeaf{GIndex: base, Offset: offset, Length: s.size()})
}

func (s *PrimitiveSchema) leafDepth() int { return 0 }

// unpack extracts the i-th packed value of a chunk.
func (s *PrimitiveSchema) unpack(leaf *tree.LeafNode, i uint64) (Value, error) {
	chunk := leaf.Chunk()
	if s.bits == 1 {
		return Bit(chunk[i/8]>>(i%8)&1 == 1), nil
	}
	size := uint64(s.size())
	return s.read(chunk[i*size : (i+1)*size])
}

// pack returns a copy of the chunk with the i-th packed value replaced.
func (s *PrimitiveSchema) pack(leaf *tree.LeafNode, i uint64, v Value) *tree.LeafNode {
	if s.bits == 1 {
		chunk := leaf.Chunk()
		b := chunk[i/8]
		if v.(Bit) {
			b |= 1 << (i % 8)
		} else {
			b &^= 1 << (i % 8)
		}
		return leaf.WithBytes(int(i/8), []byte{b})
	}
	return leaf.WithBytes(int(i)*s.size(), s.marshal(v))
}

// validate checks that a run of packed values is well formed.
func (s *PrimitiveSchema) validate(blob []byte) error {
	if s != BoolSchema {
		return nil
	}
	for _, b := range blob {
		if b > 1 {
			return fmt.Errorf("%w: found %#x", ErrInvalidBoolean, b)
		}
	}
	return nil
}

// checkFixedSlot verifies that a blob spans exactly one fixed size encoding.
func checkFixedSlot(blob []byte, size int) error {
	switch {
	case len(blob) < size:
		return fmt.Errorf("%w: have %d bytes, want %d", ErrUnexpectedEOF, len(blob), size)
	case len(blob) > size:
		return fmt.Errorf("%w: have %d bytes, want %d", ErrObjectSlotSizeMismatch, len(blob), size)
	}
	return nil
}

// Bit is a single bit of a bitvector or bitlist.
type Bit bool

// Schema implements Value.
func (b Bit) Schema() Schema { return BitSchema }

// Node implements Value.
func (b Bit) Node() tree.Node { return BitSchema.leaf(b) }

func readBit(b []byte) (Value, error) {
	switch b[0] {
	case 0:
		return Bit(false), nil
	case 1:
		return Bit(true), nil
	}
	return nil, fmt.Errorf("%w: found %#x", ErrInvalidBoolean, b[0])
}

func writeBit(dst []byte, v Value) {
	dst[0] = 0
	if v.(Bit) {
		dst[0] = 1
	}
}

// Bool is an SSZ boolean.
type Bool bool

// Schema implements Value.
func (b Bool) Schema() Schema { return BoolSchema }

// Node implements Value.
func (b Bool) Node() tree.Node { return BoolSchema.leaf(b) }

func readBool(b []byte) (Value, error) {
	switch b[0] {
	case 0:
		return Bool(false), nil
	case 1:
		return Bool(true), nil
	}
	return nil, fmt.Errorf("%w: found %#x", ErrInvalidBoolean, b[0])
}

func writeBool(dst []byte, v Value) {
	dst[0] = 0
	if v.(Bool) {
		dst[0] = 1
	}
}

// Uint8 is an 8 bit unsigned integer.
type Uint8 uint8

// Schema implements Value.
func (n Uint8) Schema() Schema { return Uint8Schema }

// Node implements Value.
func (n Uint8) Node() tree.Node { return Uint8Schema.leaf(n) }

// Uint16 is a 16 bit unsigned integer.
type Uint16 uint16

// Schema implements Value.
func (n Uint16) Schema() Schema { return Uint16Schema }

// Node implements Value.
func (n Uint16) Node() tree.Node { return Uint16Schema.leaf(n) }

// Uint32 is a 32 bit unsigned integer.
type Uint32 uint32

// Schema implements Value.
func (n Uint32) Schema() Schema { return Uint32Schema }

// Node implements Value.
func (n Uint32) Node() tree.Node { return Uint32Schema.leaf(n) }

// Uint64 is a 64 bit unsigned integer.
type Uint64 uint64

// Schema implements Value.
func (n Uint64) Schema() Schema { return Uint64Schema }

// Node implements Value.
func (n Uint64) Node() tree.Node { return Uint64Schema.leaf(n) }

// Uint256 is a 256 bit unsigned integer.
type Uint256 struct {
	uint256.Int
}

// NewUint256 wraps a 256 bit integer into an SSZ value. A nil integer is zero.
func NewUint256(n *uint256.Int) Uint256 {
	if n == nil {
		return Uint256{}
	}
	return Uint256{Int: *n}
}

// Schema implements Value.
func (n Uint256) Schema() Schema { return Uint256Schema }

// Node implements Value.
func (n Uint256) Node() tree.Node { return Uint256Schema.leaf(n) }

func readUint256(b []byte) (Value, error) {
	var n Uint256
	if err := n.UnmarshalSSZ(b); err != nil {
		return nil, err
	}
	return n, nil
}

// writeUint256 fills the first 32 bytes of dst, appending into its capacity.
func writeUint256(dst []byte, v Value) {
	n := v.(Uint256)
	n.MarshalSSZAppend(dst[:0])
}

// Bytes4 is a 4 byte opaque value, such as a fork version.
type Bytes4 [4]byte

// Schema implements Value.
func (b Bytes4) Schema() Schema { return Bytes4Schema }

// Node implements Value.
func (b Bytes4) Node() tree.Node { return tree.NewLeaf(b[:]) }

// Bytes32 is a 32 byte opaque value, such as a hash.
type Bytes32 [32]byte

// Schema implements Value.
func (b Bytes32) Schema() Schema { return Bytes32Schema }

// Node implements Value.
func (b Bytes32) Node() tree.Node { return tree.NewChunkLeaf(b) }
