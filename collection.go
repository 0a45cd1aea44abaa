// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ssz-tree/ssz/tree"
)

// collection is the layout shared by vectors and lists: a homogeneous sequence
// of elements stored along the bottom of a chunk tree. Basic elements narrower
// than a chunk are packed together, anything else takes a subtree per element.
type collection struct {
	elem   Schema
	length uint64 // Vector length or list limit

	packed   *PrimitiveSchema // Element schema if elements share chunks
	perChunk uint64           // Number of elements per chunk
	chunks   uint64           // Number of chunks at full length
	depth    int              // Depth of the chunk tree
}

func newCollection(elem Schema, length uint64) (collection, error) {
	if elem == nil {
		return collection{}, fmt.Errorf("%w: nil element schema", ErrInvalidSchema)
	}
	c := collection{elem: elem, length: length, perChunk: 1}
	if p, ok := elem.(*PrimitiveSchema); ok && p.packed() {
		c.packed, c.perChunk = p, p.perChunk()
	}
	c.chunks = length / c.perChunk
	if length%c.perChunk != 0 {
		c.chunks++
	}
	c.depth = ceilLog2(c.chunks)
	return c, nil
}

// isBits reports whether the collection is a sequence of bits.
func (c *collection) isBits() bool {
	return c.elem == BitSchema
}

// elemLeafDepth returns the depth of the deepest node below a chunk.
func (c *collection) elemLeafDepth() int {
	if c.packed != nil {
		return 0
	}
	return c.elem.leafDepth()
}

// bytesOf returns the encoded length of count fixed size elements.
func (c *collection) bytesOf(count uint64) uint64 {
	if c.isBits() {
		return (count + 7) / 8
	}
	return count * uint64(c.elem.FixedPartSize())
}

// chunksOf returns the number of chunks holding count elements.
func (c *collection) chunksOf(count uint64) uint64 {
	return (count + c.perChunk - 1) / c.perChunk
}

// position returns the generalized index of the chunk or subtree holding the
// i-th element, relative to the collection root whose chunk tree hangs at base.
func (c *collection) position(base tree.GIndex, i uint64) tree.GIndex {
	return mustConcat(base, mustChild(c.depth, i/c.perChunk))
}

// element returns the i-th element of a collection.
func (c *collection) element(node tree.Node, base tree.GIndex, i uint64) (Value, error) {
	child, err := node.Get(c.position(base, i))
	if err != nil {
		return nil, err
	}
	if c.packed == nil {
		return c.elem.FromNode(child)
	}
	leaf, ok := child.(*tree.LeafNode)
	if !ok {
		return nil, fmt.Errorf("%w: %T as packed chunk", ErrSchemaMismatch, child)
	}
	return c.packed.unpack(leaf, i%c.perChunk)
}

// withElement returns the tree of a collection with its i-th element replaced.
func (c *collection) withElement(node tree.Node, base tree.GIndex, i uint64, v Value) (tree.Node, error) {
	if err := checkValue(c.elem, v); err != nil {
		return nil, err
	}
	g := c.position(base, i)
	if c.packed == nil {
		return node.Updated(g, v.Node())
	}
	child, err := node.Get(g)
	if err != nil {
		return nil, err
	}
	leaf, ok := child.(*tree.LeafNode)
	if !ok {
		return nil, fmt.Errorf("%w: %T as packed chunk", ErrSchemaMismatch, child)
	}
	return node.Updated(g, c.packed.pack(leaf, i%c.perChunk, v))
}

// buildChunks creates a chunk tree from a sequence of element values.
func (c *collection) buildChunks(values []Value) (tree.Node, error) {
	for i, v := range values {
		if err := checkValue(c.elem, v); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	nodes := make([]tree.Node, 0, c.chunksOf(uint64(len(values))))
	if c.packed == nil {
		for _, v := range values {
			nodes = append(nodes, v.Node())
		}
		return tree.Build(nodes, c.depth, tree.ZeroNode(0)), nil
	}
	for start := 0; start < len(values); start += int(c.perChunk) {
		leaf := tree.ZeroLeaf(0)
		for j := 0; j < int(c.perChunk) && start+j < len(values); j++ {
			leaf = c.packed.pack(leaf, uint64(j), values[start+j])
		}
		nodes = append(nodes, leaf)
	}
	return tree.Build(nodes, c.depth, tree.ZeroNode(0)), nil
}

// buildPacked creates a chunk tree from the encoding of packed elements.
func (c *collection) buildPacked(blob []byte) tree.Node {
	nodes := make([]tree.Node, 0, (len(blob)+31)/32)
	for len(blob) > 32 {
		nodes = append(nodes, tree.NewLeaf(blob[:32]))
		blob = blob[32:]
	}
	if len(blob) > 0 {
		nodes = append(nodes, tree.NewLeaf(blob))
	}
	return tree.Build(nodes, c.depth, tree.ZeroNode(0))
}

// encodeElements appends the encoding of the first count elements of a chunk
// tree. Bit sequences are written without any length delimiter.
func (c *collection) encodeElements(buf []byte, chunks tree.Node, count uint64) ([]byte, error) {
	if count == 0 {
		return buf, nil
	}
	if c.packed != nil {
		size := c.bytesOf(count)
		start := len(buf)
		err := tree.Walk(chunks, c.depth, c.chunksOf(count), func(_ uint64, n tree.Node) error {
			leaf, ok := n.(*tree.LeafNode)
			if !ok {
				return fmt.Errorf("%w: %T as packed chunk", ErrSchemaMismatch, n)
			}
			chunk := leaf.Chunk()
			buf = append(buf, chunk[:]...)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return buf[:start+int(size)], nil
	}
	nodes := make([]tree.Node, 0, count)
	if err := tree.Walk(chunks, c.depth, count, func(_ uint64, n tree.Node) error {
		nodes = append(nodes, n)
		return nil
	}); err != nil {
		return nil, err
	}
	return encodeParts(buf, func(int) Schema { return c.elem }, nodes)
}

// elementsSize returns the encoded length of the first count elements of a
// chunk tree.
func (c *collection) elementsSize(chunks tree.Node, count uint64) (uint32, error) {
	if c.elem.IsFixedSize() {
		size := c.bytesOf(count)
		if size > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %d bytes", ErrMaxLengthExceeded, size)
		}
		return uint32(size), nil
	}
	var total sumSizes
	err := tree.Walk(chunks, c.depth, count, func(_ uint64, n tree.Node) error {
		size, err := sizeOf(c.elem, n)
		if err != nil {
			return err
		}
		return total.add(4 + uint64(size))
	})
	return uint32(total), err
}

// decodeFixed parses a run of fixed size elements into a chunk tree, returning
// the number of elements found.
func (c *collection) decodeFixed(blob []byte) (tree.Node, uint64, error) {
	if c.packed != nil {
		count := uint64(len(blob)) / uint64(c.packed.size())
		if err := c.packed.validate(blob); err != nil {
			return nil, 0, err
		}
		return c.buildPacked(blob), count, nil
	}
	size := int(c.elem.FixedPartSize())
	nodes := make([]tree.Node, 0, len(blob)/size)
	for len(blob) > 0 {
		node, err := c.elem.decode(blob[:size])
		if err != nil {
			return nil, 0, err
		}
		nodes = append(nodes, node)
		blob = blob[size:]
	}
	return tree.Build(nodes, c.depth, tree.ZeroNode(0)), uint64(len(nodes)), nil
}

// decodeVariable parses a run of variable size elements behind an offset table
// into a chunk tree. The number of elements is derived from the first offset.
func (c *collection) decodeVariable(blob []byte) (tree.Node, uint64, error) {
	if len(blob) == 0 {
		return tree.ZeroNode(c.depth), 0, nil
	}
	if len(blob) < 4 {
		return nil, 0, fmt.Errorf("%w: have %d bytes", ErrShortCounterOffset, len(blob))
	}
	first := binary.LittleEndian.Uint32(blob)
	if first == 0 || first%4 != 0 {
		return nil, 0, fmt.Errorf("%w: first offset %d", ErrBadCounterOffset, first)
	}
	if uint64(first) > uint64(len(blob)) {
		return nil, 0, fmt.Errorf("%w: first offset %d, data %d bytes", ErrOffsetBeyondCapacity, first, len(blob))
	}
	count := uint64(first / 4)
	if count > c.length {
		return nil, 0, fmt.Errorf("%w: %d items, limit %d", ErrMaxItemsExceeded, count, c.length)
	}
	nodes, err := decodeParts(blob, func(int) Schema { return c.elem }, int(count))
	if err != nil {
		return nil, 0, err
	}
	return tree.Build(nodes, c.depth, tree.ZeroNode(0)), count, nil
}

// template returns the layout of a single chunk tree position, used to store
// long runs of positions in super nodes.
func (c *collection) template() *tree.Template {
	if c.packed != nil {
		return tree.NewTemplate(tree.ZeroNode(0), 32, []tree.TemplateLeaf{{GIndex: tree.Root, Length: 32}})
	}
	size := int(c.elem.FixedPartSize())
	return tree.NewTemplate(c.elem.DefaultTree(), size, c.elem.appendTemplate(nil, tree.Root, 0))
}

// appendChunkTemplate appends the leaves of a fixed size collection of count
// elements, rooted at base and positioned at the given byte offset.
func (c *collection) appendChunkTemplate(leaves []tree.TemplateLeaf, base tree.GIndex, offset int, count uint64) []tree.TemplateLeaf {
	if c.packed != nil {
		size := int(c.bytesOf(count))
		for i := uint64(0); i < c.chunksOf(count); i++ {
			length := min(32, size-int(i)*32)
			leaves = append(leaves, tree.TemplateLeaf{
				GIndex: mustConcat(base, mustChild(c.depth, i)),
				Offset: offset + int(i)*32,
				Length: length,
			})
		}
		return leaves
	}
	size := int(c.elem.FixedPartSize())
	for i := uint64(0); i < count; i++ {
		leaves = c.elem.appendTemplate(leaves, mustConcat(base, mustChild(c.depth, i)), offset+int(i)*size)
	}
	return leaves
}
