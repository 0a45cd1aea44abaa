// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"errors"
	"fmt"
	"io"

	"github.com/ssz-tree/ssz/tree"
)

// Deserialize parses an SSZ encoding into a value of the given schema. The blob
// must contain exactly one encoding, trailing data is rejected.
func Deserialize(s Schema, blob []byte) (Value, error) {
	node, err := DecodeNode(s, blob)
	if err != nil {
		return nil, err
	}
	return s.FromNode(node)
}

// DecodeNode parses an SSZ encoding into the tree of a value of the given
// schema.
func DecodeNode(s Schema, blob []byte) (tree.Node, error) {
	return s.decode(blob)
}

// DeserializeFromStream parses a value with the given encoded size out of a
// stream. The size is checked against the schema's bounds before reading.
func DeserializeFromStream(r io.Reader, s Schema, size uint32) (Value, error) {
	bounds := s.SizeBounds()
	if !bounds.Contains(uint64(size)) {
		return nil, fmt.Errorf("%w: %d bytes for %s, bounds %v", ErrMaxLengthExceeded, size, s, bounds)
	}
	blob := make([]byte, size)
	if _, err := io.ReadFull(r, blob); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}
	return Deserialize(s, blob)
}
