// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tree implements immutable, structurally shared binary Merkle trees
// addressed by generalized indices.
//
// Trees are never modified in place. Updating a position returns a new root
// which reuses every subtree that is not on the path to the changed node, so
// any number of versions of a large tree can be kept around cheaply and read
// concurrently. Hashes are memoized per node, which means that re-hashing a
// freshly updated tree only touches the nodes on the update path.
package tree

import (
	"fmt"
	"sync/atomic"
)

// Node is a node of an immutable binary Merkle tree.
type Node interface {
	// HashTreeRoot returns the 32 byte Merkle root of the subtree.
	HashTreeRoot() [32]byte

	// Get returns the node at the generalized index relative to this node.
	Get(g GIndex) (Node, error)

	// Updated returns a new subtree where the node at the generalized index is
	// replaced by n. The receiver is left unmodified.
	Updated(g GIndex, n Node) (Node, error)
}

// LeafNode is a tree leaf holding up to 32 bytes of data. Shorter payloads are
// zero padded for hashing, but remember their true length to support packing
// and unpacking of serialized values.
type LeafNode struct {
	chunk [32]byte
	size  uint8
}

// NewLeaf creates a leaf from the given data, which must not exceed 32 bytes.
func NewLeaf(data []byte) *LeafNode {
	if len(data) > 32 {
		panic(fmt.Sprintf("tree: leaf data too large: %d bytes", len(data)))
	}
	leaf := &LeafNode{size: uint8(len(data))}
	copy(leaf.chunk[:], data)
	return leaf
}

// NewChunkLeaf creates a full 32 byte leaf from a chunk.
func NewChunkLeaf(chunk [32]byte) *LeafNode {
	return &LeafNode{chunk: chunk, size: 32}
}

// Data returns the meaningful bytes of the leaf. The slice aliases the leaf's
// storage and must not be modified.
func (l *LeafNode) Data() []byte {
	return l.chunk[:l.size]
}

// Size returns the number of meaningful bytes in the leaf.
func (l *LeafNode) Size() int {
	return int(l.size)
}

// Chunk returns the zero padded 32 byte content of the leaf.
func (l *LeafNode) Chunk() [32]byte {
	return l.chunk
}

// WithBytes returns a new leaf with data written at the given offset, growing
// the meaningful length if the write extends past it.
func (l *LeafNode) WithBytes(offset int, data []byte) *LeafNode {
	if offset+len(data) > 32 {
		panic(fmt.Sprintf("tree: leaf write out of range: %d+%d", offset, len(data)))
	}
	leaf := &LeafNode{chunk: l.chunk, size: l.size}
	copy(leaf.chunk[offset:], data)
	if end := uint8(offset + len(data)); end > leaf.size {
		leaf.size = end
	}
	return leaf
}

// HashTreeRoot implements Node. A leaf's root is its padded content.
func (l *LeafNode) HashTreeRoot() [32]byte {
	return l.chunk
}

// Get implements Node.
func (l *LeafNode) Get(g GIndex) (Node, error) {
	switch g {
	case 0:
		return nil, ErrInvalidGIndex
	case Root:
		return l, nil
	}
	return nil, fmt.Errorf("%w: gindex %d on leaf", ErrNavigation, g)
}

// Updated implements Node.
func (l *LeafNode) Updated(g GIndex, n Node) (Node, error) {
	switch g {
	case 0:
		return nil, ErrInvalidGIndex
	case Root:
		return n, nil
	}
	return nil, fmt.Errorf("%w: gindex %d on leaf", ErrNavigation, g)
}

// BranchNode is an inner tree node with two children. Children are shared by
// reference between all the trees that contain them.
type BranchNode struct {
	left  Node
	right Node

	root atomic.Pointer[[32]byte] // Memoized root, published once computed
}

// NewBranch creates an inner node from two non-nil children.
func NewBranch(left, right Node) *BranchNode {
	if left == nil || right == nil {
		panic("tree: nil branch child")
	}
	return &BranchNode{left: left, right: right}
}

// Left returns the left child.
func (b *BranchNode) Left() Node { return b.left }

// Right returns the right child.
func (b *BranchNode) Right() Node { return b.right }

// HashTreeRoot implements Node. The root is computed at most once per node in
// the common case; concurrent first calls may both hash, but they publish the
// same digest.
func (b *BranchNode) HashTreeRoot() [32]byte {
	if root := b.root.Load(); root != nil {
		return *root
	}
	root := HashPair(b.left.HashTreeRoot(), b.right.HashTreeRoot())
	b.root.CompareAndSwap(nil, &root)
	return root
}

// Get implements Node.
func (b *BranchNode) Get(g GIndex) (Node, error) {
	switch g {
	case 0:
		return nil, ErrInvalidGIndex
	case Root:
		return b, nil
	}
	right, rest := g.step()
	if right {
		return b.right.Get(rest)
	}
	return b.left.Get(rest)
}

// Updated implements Node. Only the path towards g is rebuilt, the sibling of
// every node on that path is reused as is.
func (b *BranchNode) Updated(g GIndex, n Node) (Node, error) {
	switch g {
	case 0:
		return nil, ErrInvalidGIndex
	case Root:
		return n, nil
	}
	right, rest := g.step()
	if right {
		child, err := b.right.Updated(rest, n)
		if err != nil {
			return nil, err
		}
		return NewBranch(b.left, child), nil
	}
	child, err := b.left.Updated(rest, n)
	if err != nil {
		return nil, err
	}
	return NewBranch(child, b.right), nil
}
