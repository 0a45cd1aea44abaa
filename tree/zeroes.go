// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"fmt"
	"sync/atomic"
)

// zeroLeaves contains an all-zero leaf for every meaningful byte length. They
// all hash to the zero chunk.
var zeroLeaves [33]*LeafNode

// zeroNodes is the process wide cache of canonical all-zero subtrees. Depths
// are populated lazily and never invalidated.
var zeroNodes [MaxDepth + 1]atomic.Pointer[BranchNode]

func init() {
	for i := range zeroLeaves {
		zeroLeaves[i] = &LeafNode{size: uint8(i)}
	}
}

// ZeroLeaf returns the canonical zero leaf with the given meaningful length.
func ZeroLeaf(size int) *LeafNode {
	return zeroLeaves[size]
}

// ZeroNode returns the canonical all-zero subtree of the given depth. Default
// trees of equal shape share these nodes, and their roots are precomputed.
func ZeroNode(depth int) Node {
	if depth == 0 {
		return zeroLeaves[32]
	}
	if depth < 0 || depth > MaxDepth {
		panic(fmt.Sprintf("tree: zero node depth %d out of range", depth))
	}
	if node := zeroNodes[depth].Load(); node != nil {
		return node
	}
	child := ZeroNode(depth - 1)

	node := &BranchNode{left: child, right: child}
	root := zeroHashes[depth]
	node.root.Store(&root)

	// Racing populators may build duplicates, only the first one is kept
	if !zeroNodes[depth].CompareAndSwap(nil, node) {
		return zeroNodes[depth].Load()
	}
	return node
}

// IsZero reports whether n is the canonical zero subtree of the given depth.
// It only detects shared zero nodes, not equal-content copies.
func IsZero(n Node, depth int) bool {
	if depth == 0 {
		leaf, ok := n.(*LeafNode)
		return ok && leaf.chunk == [32]byte{}
	}
	return n == ZeroNode(depth)
}

// zeroDepth returns the depth of n if it is a canonical zero subtree.
func zeroDepth(n Node) (int, bool) {
	switch n := n.(type) {
	case *LeafNode:
		return 0, n.chunk == [32]byte{}
	case *BranchNode:
		root := n.root.Load()
		if root == nil {
			return 0, false
		}
		for depth := 1; depth <= MaxDepth; depth++ {
			if *root == zeroHashes[depth] {
				return depth, n == zeroNodes[depth].Load()
			}
		}
	}
	return 0, false
}
