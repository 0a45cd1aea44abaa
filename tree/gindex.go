// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"fmt"
	"math/bits"
)

// MaxDepth is the deepest tree position a generalized index can address. The
// leading root bit of a uint64 index leaves 63 bits of path.
const MaxDepth = 63

// GIndex is a generalized index: a root-to-node path encoded as a binary
// string with a leading 1 bit marking the root, each subsequent bit selecting
// the left (0) or right (1) child.
type GIndex uint64

// Root is the generalized index of the tree root.
const Root GIndex = 1

// ChildGIndex returns the generalized index of the index-th node on the given
// depth below a root.
func ChildGIndex(depth int, index uint64) (GIndex, error) {
	if depth < 0 || depth > MaxDepth {
		return 0, fmt.Errorf("%w: depth %d", ErrGIndexOverflow, depth)
	}
	if index >= uint64(1)<<depth {
		return 0, fmt.Errorf("%w: index %d beyond depth %d", ErrGIndexOverflow, index, depth)
	}
	return GIndex(uint64(1)<<depth | index), nil
}

// Depth returns the number of edges between the root and the node.
func (g GIndex) Depth() int {
	return bits.Len64(uint64(g)) - 1
}

// Left returns the index of the left child.
func (g GIndex) Left() GIndex { return g << 1 }

// Right returns the index of the right child.
func (g GIndex) Right() GIndex { return g<<1 | 1 }

// Parent returns the index of the parent node.
func (g GIndex) Parent() GIndex { return g >> 1 }

// Sibling returns the index of the node sharing the same parent.
func (g GIndex) Sibling() GIndex { return g ^ 1 }

// IsRight reports whether the node is the right child of its parent.
func (g GIndex) IsRight() bool { return g&1 == 1 }

// Index returns the position of the node within its own depth.
func (g GIndex) Index() uint64 {
	return uint64(g) &^ (uint64(1) << g.Depth())
}

// Concat appends the path of child (relative to a subtree rooted at g) to g,
// returning the index of that node within the whole tree.
func (g GIndex) Concat(child GIndex) (GIndex, error) {
	if g == 0 || child == 0 {
		return 0, ErrInvalidGIndex
	}
	d := child.Depth()
	if g.Depth()+d > MaxDepth {
		return 0, fmt.Errorf("%w: %d+%d path bits", ErrGIndexOverflow, g.Depth(), d)
	}
	return g<<d | GIndex(child.Index()), nil
}

// step splits off the first path bit below the root, returning the direction
// and the index of the target relative to the selected child.
func (g GIndex) step() (bool, GIndex) {
	d := g.Depth()
	right := (g>>(d-1))&1 == 1
	anchor := GIndex(1) << (d - 1)
	return right, g&(anchor-1) | anchor
}

// String implements fmt.Stringer.
func (g GIndex) String() string {
	return fmt.Sprintf("%d", uint64(g))
}
