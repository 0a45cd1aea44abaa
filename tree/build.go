// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import "fmt"

// ladder returns the full trees of depths 0..depth built from a single bottom
// node, each level reusing the previous one for both children. Zero bottoms
// map onto the canonical zero cache.
func ladder(bottom Node, depth int) []Node {
	nodes := make([]Node, depth+1)
	if base, ok := zeroDepth(bottom); ok && base+depth <= MaxDepth {
		for i := range nodes {
			nodes[i] = ZeroNode(base + i)
		}
		return nodes
	}
	nodes[0] = bottom
	for i := 1; i <= depth; i++ {
		nodes[i] = NewBranch(nodes[i-1], nodes[i-1])
	}
	return nodes
}

// Fill returns a tree of the given depth whose every bottom position holds the
// same node. Only depth new branches are allocated.
func Fill(bottom Node, depth int) Node {
	return ladder(bottom, depth)[depth]
}

// Build creates a tree of the given depth whose leading bottom positions hold
// the given nodes in order, and the remaining ones hold pad. Fully padded
// subtrees are shared.
func Build(nodes []Node, depth int, pad Node) Node {
	if depth < 0 || depth > MaxDepth || uint64(len(nodes)) > uint64(1)<<depth {
		panic(fmt.Sprintf("tree: %d nodes exceed depth %d", len(nodes), depth))
	}
	return build(nodes, depth, ladder(pad, depth))
}

func build(nodes []Node, depth int, pads []Node) Node {
	if len(nodes) == 0 {
		return pads[depth]
	}
	if depth == 0 {
		return nodes[0]
	}
	half := uint64(1) << (depth - 1)
	if uint64(len(nodes)) <= half {
		return NewBranch(build(nodes, depth-1, pads), pads[depth-1])
	}
	return NewBranch(build(nodes[:half], depth-1, pads), build(nodes[half:], depth-1, pads))
}

// Default creates a tree of the given depth whose first count bottom positions
// hold elem and the rest are zero chunks. The tree is built in O(depth) nodes
// regardless of count.
func Default(elem Node, count uint64, depth int) Node {
	if depth < 0 || depth > MaxDepth || count > uint64(1)<<depth {
		panic(fmt.Sprintf("tree: %d positions exceed depth %d", count, depth))
	}
	return defaultTree(count, depth, ladder(elem, depth))
}

func defaultTree(count uint64, depth int, full []Node) Node {
	if count == 0 {
		return ZeroNode(depth)
	}
	if count == uint64(1)<<depth {
		return full[depth]
	}
	half := uint64(1) << (depth - 1)
	if count <= half {
		return NewBranch(defaultTree(count, depth-1, full), ZeroNode(depth-1))
	}
	return NewBranch(full[depth-1], defaultTree(count-half, depth-1, full))
}

// Walk visits, in order, the first count nodes on the given depth below root.
// Super nodes met exactly at their own depth are iterated element by element
// without being expanded into a full binary tree.
func Walk(root Node, depth int, count uint64, fn func(index uint64, node Node) error) error {
	if depth < 0 || depth > MaxDepth || count > uint64(1)<<depth {
		return fmt.Errorf("%w: %d positions below depth %d", ErrNavigation, count, depth)
	}
	return walk(root, depth, 0, count, fn)
}

func walk(node Node, depth int, start, count uint64, fn func(uint64, Node) error) error {
	if count == 0 {
		return nil
	}
	if depth == 0 {
		return fn(start, node)
	}
	switch n := node.(type) {
	case *BranchNode:
		half := uint64(1) << (depth - 1)
		if err := walk(n.left, depth-1, start, min(count, half), fn); err != nil {
			return err
		}
		if count > half {
			return walk(n.right, depth-1, start+half, count-half, fn)
		}
		return nil

	case *SuperNode:
		if n.depth != depth {
			return walk(n.expand(), depth, start, count, fn)
		}
		for i := uint64(0); i < count; i++ {
			if err := fn(start+i, n.element(i)); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: %T at depth %d", ErrNavigation, node, depth)
	}
}
