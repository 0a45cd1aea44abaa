// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ssz is a tree-backed SSZ engine.
//
// Every value is a view over an immutable Merkle tree shaped by its schema.
// Values can be serialized to and parsed from the canonical SSZ encoding, they
// can be hashed into their hash tree root, and they can be updated by deriving
// new views which share all unchanged subtrees with the original.
package ssz

import (
	"fmt"
	"math/bits"

	"github.com/ssz-tree/ssz/tree"
)

// Kind is the category of an SSZ type.
type Kind int

const (
	KindPrimitive Kind = iota
	KindVector
	KindList
	KindBitvector
	KindBitlist
	KindContainer
	KindUnion
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindVector:
		return "vector"
	case KindList:
		return "list"
	case KindBitvector:
		return "bitvector"
	case KindBitlist:
		return "bitlist"
	case KindContainer:
		return "container"
	case KindUnion:
		return "union"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Schema is the immutable description of an SSZ type and of the tree shape
// backing its values. The set of implementations is closed, they are all the
// schema types of this package.
type Schema interface {
	// Kind returns the category of the type.
	Kind() Kind

	// String returns the canonical description of the type.
	String() string

	// TreeDepth returns the number of tree levels between the root of a value
	// and its chunk layer.
	TreeDepth() int

	// MaxChunks returns the number of chunks of the type before padding to a
	// power of two.
	MaxChunks() uint64

	// BitsSize returns the number of bits the type occupies within the fixed
	// part of an enclosing encoding.
	BitsSize() int

	// IsFixedSize reports whether every value of the type has the same encoded
	// length.
	IsFixedSize() bool

	// FixedPartSize returns the length of the part of an encoding that does not
	// depend on the content. For fixed size types it is the full length.
	FixedPartSize() uint32

	// VariablePartSize returns the length of the content dependent part of the
	// encoding of the value backed by the given tree.
	VariablePartSize(node tree.Node) (uint32, error)

	// SizeBounds returns the smallest and largest possible encoded lengths.
	SizeBounds() LengthBounds

	// DefaultTree returns the shared tree of the type's default value.
	DefaultTree() tree.Node

	// Default returns a view over the default tree.
	Default() Value

	// FromNode wraps a backing tree into a view. The tree is not inspected
	// until the view is accessed.
	FromNode(node tree.Node) (Value, error)

	// encode appends the SSZ encoding of the value backed by node to buf.
	encode(buf []byte, node tree.Node) ([]byte, error)

	// decode parses an encoding which spans exactly the given blob.
	decode(blob []byte) (tree.Node, error)

	// appendTemplate appends the leaves of a fixed size value, rooted at base
	// and starting at the given byte offset of its encoding.
	appendTemplate(leaves []tree.TemplateLeaf, base tree.GIndex, offset int) []tree.TemplateLeaf

	// leafDepth returns the depth of the deepest node in the type's tree.
	leafDepth() int
}

// Value is a typed view over a backing tree.
type Value interface {
	// Schema returns the type of the value.
	Schema() Schema

	// Node returns the backing tree of the value.
	Node() tree.Node
}

// SchemaEqual reports whether two schemas describe the same type.
func SchemaEqual(a, b Schema) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || a.String() == b.String()
}

// checkValue verifies that a value has the expected schema.
func checkValue(want Schema, v Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil value for %s", ErrSchemaMismatch, want)
	}
	if !SchemaEqual(want, v.Schema()) {
		return fmt.Errorf("%w: have %s, want %s", ErrSchemaMismatch, v.Schema(), want)
	}
	return nil
}

// mustConcat joins generalized indices whose depth was already validated when
// the schema was created.
func mustConcat(parent, child tree.GIndex) tree.GIndex {
	g, err := parent.Concat(child)
	if err != nil {
		panic(err)
	}
	return g
}

// mustChild returns the index of the index-th node at the given depth, which
// was already validated when the schema was created.
func mustChild(depth int, index uint64) tree.GIndex {
	g, err := tree.ChildGIndex(depth, index)
	if err != nil {
		panic(err)
	}
	return g
}

// ceilLog2 returns the depth of the smallest tree with at least n bottom nodes.
func ceilLog2(n uint64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(n - 1)
}
