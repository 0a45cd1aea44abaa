// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import "github.com/ssz-tree/ssz/tree"

// Hash is a Merkle hash of an ssz object.
type Hash [32]byte

// HashTreeRoot returns the Merkle root of a value. Its tree already carries the
// zero padding and the length or selector mix-ins, and roots are memoized per
// node, so re-hashing an updated value only touches the updated paths.
func HashTreeRoot(v Value) Hash {
	return v.Node().HashTreeRoot()
}

// HashTreeRootNode returns the Merkle root of the value backed by a tree.
func HashTreeRootNode(node tree.Node) Hash {
	return node.HashTreeRoot()
}
