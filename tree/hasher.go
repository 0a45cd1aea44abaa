// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"encoding/binary"
	"fmt"

	"github.com/prysmaticlabs/gohashtree"
)

// zeroHashes contains the roots of all-zero trees of every depth, zeroHashes[0]
// being the zero chunk itself.
var zeroHashes [MaxDepth + 1][32]byte

func init() {
	for i := 0; i < MaxDepth; i++ {
		zeroHashes[i+1] = HashPair(zeroHashes[i], zeroHashes[i])
	}
}

// ZeroHash returns the root of an all-zero tree of the given depth.
func ZeroHash(depth int) [32]byte {
	return zeroHashes[depth]
}

// HashPair computes the Merkle combination H(left ∥ right) of two chunks.
func HashPair(left, right [32]byte) [32]byte {
	var (
		input  [64]byte
		output [32]byte
	)
	copy(input[:32], left[:])
	copy(input[32:], right[:])

	gohashtree.HashByteSlice(output[:], input[:])
	return output
}

// MixInLength mixes the length of a variable size collection into the root of
// its chunk tree.
func MixInLength(root [32]byte, length uint64) [32]byte {
	var chunk [32]byte
	binary.LittleEndian.PutUint64(chunk[:8], length)
	return HashPair(root, chunk)
}

// Merkleize hashes a sequence of chunks into the root of a tree of the given
// depth, padding the missing leaves with zero chunks. A trailing partial chunk
// is zero padded.
func Merkleize(chunks []byte, depth int) [32]byte {
	count := uint64((len(chunks) + 31) / 32)
	if depth < 0 || depth > MaxDepth || count > uint64(1)<<depth {
		panic(fmt.Sprintf("tree: %d chunks exceed depth %d", count, depth))
	}
	if count == 0 {
		return zeroHashes[depth]
	}
	// Copy the input into a scratch layer with enough room for one extra chunk
	// of odd-length padding, hashing it in place level by level.
	layer := make([]byte, count*32, count*32+32)
	copy(layer, chunks)

	for i := 0; i < depth; i++ {
		if (len(layer)/32)%2 == 1 {
			layer = append(layer, zeroHashes[i][:]...)
		}
		gohashtree.HashByteSlice(layer, layer)
		layer = layer[:len(layer)/2]
	}
	var root [32]byte
	copy(root[:], layer)
	return root
}
