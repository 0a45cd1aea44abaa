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

// encodeParts appends the encoding of a heterogeneous sequence of values, the
// shared layout of containers and of collections with variable size elements:
// fixed size values and the offsets of variable size ones make up the fixed
// part, the content of the variable size values follows.
//
// Offsets are reserved while writing the fixed part and are backpatched when
// their value gets appended.
func encodeParts(buf []byte, schemaAt func(i int) Schema, nodes []tree.Node) ([]byte, error) {
	var (
		start   = len(buf)
		offsets []int
		err     error
	)
	for i, node := range nodes {
		s := schemaAt(i)
		if !s.IsFixedSize() {
			offsets = append(offsets, len(buf))
			buf = append(buf, 0, 0, 0, 0)
			continue
		}
		if buf, err = s.encode(buf, node); err != nil {
			return nil, err
		}
	}
	if len(offsets) == 0 {
		return buf, nil
	}
	for i, node := range nodes {
		s := schemaAt(i)
		if s.IsFixedSize() {
			continue
		}
		offset := len(buf) - start
		if uint64(offset) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: offset %d", ErrMaxLengthExceeded, offset)
		}
		binary.LittleEndian.PutUint32(buf[offsets[0]:], uint32(offset))
		offsets = offsets[1:]

		if buf, err = s.encode(buf, node); err != nil {
			return nil, err
		}
	}
	if uint64(len(buf)-start) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMaxLengthExceeded, len(buf)-start)
	}
	return buf, nil
}

// fixedPartSize returns the length of the fixed part of a heterogeneous
// sequence of n values.
func fixedPartSize(schemaAt func(i int) Schema, n int) uint64 {
	var size uint64
	for i := 0; i < n; i++ {
		if s := schemaAt(i); s.IsFixedSize() {
			size += uint64(s.FixedPartSize())
		} else {
			size += 4
		}
	}
	return size
}

// decodeParts is the inverse of encodeParts for a known number of values. The
// blob must span the sequence exactly.
func decodeParts(blob []byte, schemaAt func(i int) Schema, n int) ([]tree.Node, error) {
	fixed := fixedPartSize(schemaAt, n)
	if uint64(len(blob)) < fixed {
		return nil, fmt.Errorf("%w: have %d bytes, fixed part %d", ErrUnexpectedEOF, len(blob), fixed)
	}
	var (
		nodes   = make([]tree.Node, n)
		pos     int
		offsets []int
		dynamic []int
	)
	for i := 0; i < n; i++ {
		s := schemaAt(i)
		if s.IsFixedSize() {
			size := int(s.FixedPartSize())
			node, err := s.decode(blob[pos : pos+size])
			if err != nil {
				return nil, err
			}
			nodes[i], pos = node, pos+size
			continue
		}
		offset := int(binary.LittleEndian.Uint32(blob[pos:]))
		switch {
		case len(offsets) == 0 && uint64(offset) != fixed:
			return nil, fmt.Errorf("%w: have %d, want %d", ErrFirstOffsetMismatch, offset, fixed)
		case offset > len(blob):
			return nil, fmt.Errorf("%w: offset %d, data %d bytes", ErrOffsetBeyondCapacity, offset, len(blob))
		case len(offsets) > 0 && offset < offsets[len(offsets)-1]:
			return nil, fmt.Errorf("%w: %d after %d", ErrBadOffsetProgression, offset, offsets[len(offsets)-1])
		}
		offsets, dynamic, pos = append(offsets, offset), append(dynamic, i), pos+4
	}
	if len(offsets) == 0 {
		if len(blob) != pos {
			return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrObjectSlotSizeMismatch, len(blob), pos)
		}
		return nodes, nil
	}
	offsets = append(offsets, len(blob))
	for k, i := range dynamic {
		node, err := schemaAt(i).decode(blob[offsets[k]:offsets[k+1]])
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}
