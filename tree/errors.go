// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import "errors"

// ErrInvalidGIndex is returned when the zero generalized index is used, which
// does not address any node.
var ErrInvalidGIndex = errors.New("tree: invalid generalized index")

// ErrGIndexOverflow is returned when a generalized index would need more path
// bits than a uint64 can hold.
var ErrGIndexOverflow = errors.New("tree: generalized index overflow")

// ErrNavigation is returned when a generalized index walks below a leaf, i.e.
// it addresses a position the tree's structure does not contain.
var ErrNavigation = errors.New("tree: navigation beyond leaf")
