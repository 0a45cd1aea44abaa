// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"io"
	"sync"

	"github.com/ssz-tree/ssz/tree"
)

// bufferPool is a pool of encoding buffers to reuse when streaming values out
// without hitting Go's GC constantly.
var bufferPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// Serialize returns the SSZ encoding of a value.
func Serialize(v Value) ([]byte, error) {
	return EncodeNode(v.Schema(), v.Node())
}

// SerializeTo writes the SSZ encoding of a value into a stream. The encoding is
// assembled in a pooled buffer and written with a single call.
func SerializeTo(w io.Writer, v Value) error {
	buf := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(buf)

	blob, err := v.Schema().encode((*buf)[:0], v.Node())
	if err != nil {
		return err
	}
	*buf = blob
	_, err = w.Write(blob)
	return err
}

// EncodeNode returns the SSZ encoding of the value of the given schema backed
// by a tree.
func EncodeNode(s Schema, node tree.Node) ([]byte, error) {
	var buf []byte
	if s.IsFixedSize() {
		buf = make([]byte, 0, s.FixedPartSize())
	}
	return s.encode(buf, node)
}
