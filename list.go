// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/ssz-tree/ssz/tree"
)

// Hints are optional representation choices for a schema's trees. They never
// affect encodings or hash tree roots.
type Hints struct {
	// SuperNodeDepth stores every run of 2^SuperNodeDepth chunk positions of a
	// decoded list in a single flat super node instead of a subtree of nodes.
	// Zero disables super nodes. Only lists of fixed size elements support it.
	SuperNodeDepth int
}

const (
	listChunksGIndex tree.GIndex = 2 // Position of the chunk tree within a list
	listLengthGIndex tree.GIndex = 3 // Position of the length leaf within a list
)

// ListSchema is the schema of a bounded variable length homogeneous collection.
// Lists of bits are bitlists. The tree of a list joins the chunk tree sized for
// the limit with a leaf holding the current length.
type ListSchema struct {
	collection

	hints Hints
	tmpl  *tree.Template // Layout of chunk positions stored in super nodes

	name string
	def  tree.Node
}

// NewListSchema creates the schema of a list of up to limit elements.
func NewListSchema(elem Schema, limit uint64) (*ListSchema, error) {
	return NewListSchemaWithHints(elem, limit, Hints{})
}

// NewListSchemaWithHints creates the schema of a list of up to limit elements,
// with custom tree representation hints.
func NewListSchemaWithHints(elem Schema, limit uint64, hints Hints) (*ListSchema, error) {
	c, err := newCollection(elem, limit)
	if err != nil {
		return nil, err
	}
	s := &ListSchema{collection: c, hints: hints}
	if c.isBits() {
		s.name = fmt.Sprintf("Bitlist[%d]", limit)
	} else {
		s.name = fmt.Sprintf("List[%s, %d]", elem, limit)
	}
	if depth := s.leafDepth(); depth > tree.MaxDepth {
		return nil, fmt.Errorf("%w: %s needs tree depth %d", ErrInvalidSchema, s.name, depth)
	}
	if d := hints.SuperNodeDepth; d != 0 {
		if d < 0 || d > c.depth {
			return nil, fmt.Errorf("%w: super node depth %d for %s", ErrInvalidSchema, d, s.name)
		}
		if !elem.IsFixedSize() {
			return nil, fmt.Errorf("%w: super nodes of variable size %s", ErrInvalidSchema, elem)
		}
		s.tmpl = c.template()
	}
	s.def = tree.NewBranch(tree.ZeroNode(c.depth), lengthLeaf(0))
	return s, nil
}

// MustListSchema is like NewListSchema but panics on error, simplifying the
// declaration of package level schemas.
func MustListSchema(elem Schema, limit uint64) *ListSchema {
	s, err := NewListSchema(elem, limit)
	if err != nil {
		panic(err)
	}
	return s
}

// NewBitlistSchema creates the schema of a bitlist of up to n bits.
func NewBitlistSchema(n uint64) (*ListSchema, error) {
	return NewListSchema(BitSchema, n)
}

// NewByteListSchema creates the schema of an opaque byte list of up to n bytes.
func NewByteListSchema(n uint64) (*ListSchema, error) {
	return NewListSchema(Uint8Schema, n)
}

// lengthLeaf creates the length leaf of a list.
func lengthLeaf(n uint64) tree.Node {
	if n == 0 {
		return tree.ZeroLeaf(8)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	return tree.NewLeaf(buf[:])
}

// Elem returns the element schema.
func (s *ListSchema) Elem() Schema { return s.elem }

// Limit returns the maximum number of elements.
func (s *ListSchema) Limit() uint64 { return s.length }

// Hints returns the tree representation hints.
func (s *ListSchema) Hints() Hints { return s.hints }

// Kind implements Schema.
func (s *ListSchema) Kind() Kind {
	if s.isBits() {
		return KindBitlist
	}
	return KindList
}

// String implements Schema.
func (s *ListSchema) String() string { return s.name }

// TreeDepth implements Schema. The extra level holds the length.
func (s *ListSchema) TreeDepth() int { return s.depth + 1 }

// MaxChunks implements Schema.
func (s *ListSchema) MaxChunks() uint64 { return s.chunks }

// BitsSize implements Schema.
func (s *ListSchema) BitsSize() int { return 32 }

// IsFixedSize implements Schema.
func (s *ListSchema) IsFixedSize() bool { return false }

// FixedPartSize implements Schema.
func (s *ListSchema) FixedPartSize() uint32 { return 0 }

// VariablePartSize implements Schema.
func (s *ListSchema) VariablePartSize(node tree.Node) (uint32, error) {
	chunks, count, err := s.unwrap(node)
	if err != nil {
		return 0, err
	}
	if s.isBits() {
		return uint32(count/8 + 1), nil
	}
	return s.elementsSize(chunks, count)
}

// SizeBounds implements Schema.
func (s *ListSchema) SizeBounds() LengthBounds {
	if s.isBits() {
		return LengthBounds{Min: 1, Max: s.length/8 + 1}
	}
	bounds := s.elem.SizeBounds()
	if !s.elem.IsFixedSize() {
		bounds = bounds.addBytes(4)
	}
	return LengthBounds{Max: bounds.mul(s.length).Max}
}

// DefaultTree implements Schema.
func (s *ListSchema) DefaultTree() tree.Node { return s.def }

// Default implements Schema.
func (s *ListSchema) Default() Value { return &ListView{schema: s, node: s.def} }

// FromNode implements Schema. Only the length of the list is read.
func (s *ListSchema) FromNode(node tree.Node) (Value, error) {
	return s.view(node)
}

func (s *ListSchema) view(node tree.Node) (*ListView, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil tree backing %s", ErrSchemaMismatch, s.name)
	}
	_, count, err := s.unwrap(node)
	if err != nil {
		return nil, err
	}
	return &ListView{schema: s, node: node, length: count}, nil
}

// Of creates a list from its elements.
func (s *ListSchema) Of(values ...Value) (*ListView, error) {
	if uint64(len(values)) > s.length {
		return nil, fmt.Errorf("%w: %d elements for %s", ErrListFull, len(values), s.name)
	}
	chunks, err := s.buildChunks(values)
	if err != nil {
		return nil, err
	}
	count := uint64(len(values))
	return &ListView{schema: s, node: tree.NewBranch(chunks, lengthLeaf(count)), length: count}, nil
}

// unwrap splits the tree of a list into its chunk tree and length.
func (s *ListSchema) unwrap(node tree.Node) (tree.Node, uint64, error) {
	chunks, err := node.Get(listChunksGIndex)
	if err != nil {
		return nil, 0, err
	}
	child, err := node.Get(listLengthGIndex)
	if err != nil {
		return nil, 0, err
	}
	leaf, ok := child.(*tree.LeafNode)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %T as list length", ErrSchemaMismatch, child)
	}
	chunk := leaf.Chunk()
	count := binary.LittleEndian.Uint64(chunk[:8])
	if count > s.length {
		return nil, 0, fmt.Errorf("%w: length %d beyond limit %d", ErrIndexOutOfBounds, count, s.length)
	}
	return chunks, count, nil
}

func (s *ListSchema) encode(buf []byte, node tree.Node) ([]byte, error) {
	chunks, count, err := s.unwrap(node)
	if err != nil {
		return nil, err
	}
	if buf, err = s.encodeElements(buf, chunks, count); err != nil {
		return nil, err
	}
	if s.isBits() {
		// Mark the length with a single set bit after the content
		if count%8 == 0 {
			buf = append(buf, 0x01)
		} else {
			buf[len(buf)-1] |= 1 << (count % 8)
		}
	}
	return buf, nil
}

func (s *ListSchema) decode(blob []byte) (tree.Node, error) {
	var (
		chunks tree.Node
		count  uint64
		err    error
	)
	switch {
	case s.isBits():
		chunks, count, err = s.decodeBits(blob)

	case s.elem.IsFixedSize():
		size := uint64(s.elem.FixedPartSize())
		if uint64(len(blob))%size != 0 {
			return nil, fmt.Errorf("%w: %d bytes, item size %d", ErrDynamicStaticsIndivisible, len(blob), size)
		}
		if count = uint64(len(blob)) / size; count > s.length {
			return nil, fmt.Errorf("%w: %d items, limit %d", ErrMaxItemsExceeded, count, s.length)
		}
		if s.tmpl != nil {
			chunks, err = s.decodeSuper(blob, count)
		} else {
			chunks, _, err = s.decodeFixed(blob)
		}
	default:
		chunks, count, err = s.decodeVariable(blob)
	}
	if err != nil {
		return nil, err
	}
	return tree.NewBranch(chunks, lengthLeaf(count)), nil
}

// decodeBits parses the content of a bitlist, stripping the delimiting bit.
func (s *ListSchema) decodeBits(blob []byte) (tree.Node, uint64, error) {
	if len(blob) == 0 {
		return nil, 0, fmt.Errorf("%w: empty encoding", ErrMissingBitlistSentinel)
	}
	last := blob[len(blob)-1]
	if last == 0 {
		return nil, 0, fmt.Errorf("%w: last byte zero", ErrMissingBitlistSentinel)
	}
	count := uint64(len(blob)-1)*8 + uint64(bits.Len8(last)-1)
	if count > s.length {
		return nil, 0, fmt.Errorf("%w: %d bits, limit %d", ErrMaxItemsExceeded, count, s.length)
	}
	data := bytes.Clone(blob[:(count+7)/8])
	if count%8 != 0 {
		data[len(data)-1] &^= 1 << (count % 8)
	}
	if s.tmpl != nil {
		chunks, err := s.decodeSuper(data, count)
		return chunks, count, err
	}
	return s.buildPacked(data), count, nil
}

// decodeSuper parses a run of fixed size elements into a chunk tree made of
// super nodes.
func (s *ListSchema) decodeSuper(blob []byte, count uint64) (tree.Node, error) {
	var flat []byte
	if s.packed != nil {
		if err := s.packed.validate(blob); err != nil {
			return nil, err
		}
		flat = make([]byte, s.chunksOf(count)*32)
		copy(flat, blob)
	} else {
		size := int(s.elem.FixedPartSize())
		for i := 0; i < len(blob); i += size {
			if _, err := s.elem.decode(blob[i : i+size]); err != nil {
				return nil, err
			}
		}
		flat = bytes.Clone(blob)
	}
	var (
		depth     = s.hints.SuperNodeDepth
		size      = s.tmpl.Size()
		positions = len(flat) / size
		nodes     []tree.Node
	)
	for start := 0; start < positions; start += 1 << depth {
		end := min(start+1<<depth, positions)
		nodes = append(nodes, tree.NewSuperNode(depth, s.tmpl, flat[start*size:end*size]))
	}
	return tree.Build(nodes, s.depth-depth, tree.ZeroNode(depth)), nil
}

func (s *ListSchema) appendTemplate(leaves []tree.TemplateLeaf, _ tree.GIndex, _ int) []tree.TemplateLeaf {
	panic(fmt.Sprintf("ssz: template of variable size %s", s.name))
}

func (s *ListSchema) leafDepth() int { return 1 + s.depth + s.elemLeafDepth() }

// ListView is a list value backed by a tree. Elements are materialized on
// first access and cached for the lifetime of the view.
type ListView struct {
	schema *ListSchema
	node   tree.Node
	length uint64
	cache  elemCache
}

// Schema implements Value.
func (v *ListView) Schema() Schema { return v.schema }

// Node implements Value.
func (v *ListView) Node() tree.Node { return v.node }

// Len returns the number of elements.
func (v *ListView) Len() uint64 { return v.length }

// Get returns the i-th element.
func (v *ListView) Get(i uint64) (Value, error) {
	if i >= v.length {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, v.length)
	}
	return v.cache.load(i, func() (Value, error) {
		return v.schema.element(v.node, listChunksGIndex, i)
	})
}

// Set returns a new list with the i-th element replaced. The receiver is not
// modified.
func (v *ListView) Set(i uint64, val Value) (*ListView, error) {
	if i >= v.length {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, v.length)
	}
	node, err := v.schema.withElement(v.node, listChunksGIndex, i, val)
	if err != nil {
		return nil, err
	}
	return &ListView{schema: v.schema, node: node, length: v.length}, nil
}

// Append returns a new list with an element added to the end. The receiver is
// not modified.
func (v *ListView) Append(val Value) (*ListView, error) {
	if v.length >= v.schema.length {
		return nil, fmt.Errorf("%w: limit %d", ErrListFull, v.schema.length)
	}
	node, err := v.schema.withElement(v.node, listChunksGIndex, v.length, val)
	if err != nil {
		return nil, err
	}
	if node, err = node.Updated(listLengthGIndex, lengthLeaf(v.length+1)); err != nil {
		return nil, err
	}
	return &ListView{schema: v.schema, node: node, length: v.length + 1}, nil
}

// Elements returns all the elements in order.
func (v *ListView) Elements() ([]Value, error) {
	return elements(v, v.length)
}

// Bytes returns the encoding of the list, which for byte lists is their raw
// content.
func (v *ListView) Bytes() ([]byte, error) {
	return v.schema.encode(nil, v.node)
}

// Bitlist returns the content of a bitlist in its delimited bitfield form.
func (v *ListView) Bitlist() (bitfield.Bitlist, error) {
	if !v.schema.isBits() {
		return nil, fmt.Errorf("%w: bitlist of %s", ErrSchemaMismatch, v.schema.name)
	}
	blob, err := v.schema.encode(nil, v.node)
	if err != nil {
		return nil, err
	}
	return bitfield.Bitlist(blob), nil
}

// BitlistOf creates a bitlist value from its delimited bitfield form.
func BitlistOf(s *ListSchema, bits bitfield.Bitlist) (*ListView, error) {
	if !s.isBits() {
		return nil, fmt.Errorf("%w: bitlist for %s", ErrSchemaMismatch, s.name)
	}
	if n := bits.Len(); n > s.length {
		return nil, fmt.Errorf("%w: %d bits, limit %d", ErrMaxItemsExceeded, n, s.length)
	}
	node, err := s.decode(bits)
	if err != nil {
		return nil, err
	}
	return s.view(node)
}

// BitvectorOf creates a bitvector value from its raw bytes.
func BitvectorOf(s *VectorSchema, bits []byte) (*VectorView, error) {
	if !s.isBits() {
		return nil, fmt.Errorf("%w: bitvector for %s", ErrSchemaMismatch, s.name)
	}
	node, err := s.decode(bits)
	if err != nil {
		return nil, err
	}
	return s.view(node)
}
