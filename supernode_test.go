// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ssz-tree/ssz"
	"github.com/ssz-tree/ssz/tree"
)

// Tests that lists decoded into super nodes are indistinguishable from plain
// ones, both when read and after being modified.
func TestSuperNodeEquivalence(t *testing.T) {
	tests := []struct {
		name  string
		elem  ssz.Schema
		limit uint64
		depth int
		value func(i int) ssz.Value
	}{
		{"containers", eth1DataSchema, 64, 2, func(i int) ssz.Value {
			return must(eth1DataSchema.New(ssz.Bytes32{byte(i)}, ssz.Uint64(i), ssz.Bytes32{0, byte(i)}))
		}},
		{"nested", fixedTestStruct, 100, 3, func(i int) ssz.Value {
			return newFixedTestStruct(uint8(i), uint64(i)<<32, uint32(i))
		}},
		{"roots", ssz.Bytes32Schema, 1024, 4, func(i int) ssz.Value {
			return ssz.Bytes32{byte(i), byte(i >> 8)}
		}},
		{"packed", ssz.Uint64Schema, 1024, 3, func(i int) ssz.Value {
			return ssz.Uint64(i * i)
		}},
		{"bits", ssz.BitSchema, 2048, 2, func(i int) ssz.Value {
			return ssz.Bit(i%3 == 0)
		}},
	}
	for _, tt := range tests {
		plain := ssz.MustListSchema(tt.elem, tt.limit)
		super := must(ssz.NewListSchemaWithHints(tt.elem, tt.limit, ssz.Hints{SuperNodeDepth: tt.depth}))

		for _, n := range []int{0, 1, 5, 33, 60} {
			values := make([]ssz.Value, n)
			for i := range values {
				values[i] = tt.value(i)
			}
			blob := must(ssz.Serialize(must(plain.Of(values...))))

			flat := must(ssz.Deserialize(super, blob)).(*ssz.ListView)
			tall := must(ssz.Deserialize(plain, blob)).(*ssz.ListView)
			if have, want := ssz.HashTreeRoot(flat), ssz.HashTreeRoot(tall); have != want {
				t.Errorf("%s/%d: root mismatch: have %#x, want %#x", tt.name, n, have, want)
			}
			if have := must(ssz.Serialize(flat)); !bytes.Equal(have, blob) {
				t.Errorf("%s/%d: encoding mismatch: have %x, want %x", tt.name, n, have, blob)
			}
			for i := 0; i < n; i++ {
				if have, want := must(flat.Get(uint64(i))), must(tall.Get(uint64(i))); ssz.HashTreeRoot(have) != ssz.HashTreeRoot(want) {
					t.Errorf("%s/%d: element %d mismatch", tt.name, n, i)
				}
			}
			if n == 0 {
				continue
			}
			// Modifications must track the plain representation
			flat = must(flat.Set(uint64(n/2), tt.value(n+1)))
			tall = must(tall.Set(uint64(n/2), tt.value(n+1)))
			flat = must(flat.Append(tt.value(n + 2)))
			tall = must(tall.Append(tt.value(n + 2)))
			if have, want := ssz.HashTreeRoot(flat), ssz.HashTreeRoot(tall); have != want {
				t.Errorf("%s/%d: updated root mismatch: have %#x, want %#x", tt.name, n, have, want)
			}
			if have, want := must(ssz.Serialize(flat)), must(ssz.Serialize(tall)); !bytes.Equal(have, want) {
				t.Errorf("%s/%d: updated encoding mismatch: have %x, want %x", tt.name, n, have, want)
			}
		}
	}
}

// Tests that the decoded chunk tree is actually made of super nodes.
func TestSuperNodeLayout(t *testing.T) {
	schema := must(ssz.NewListSchemaWithHints(eth1DataSchema, 64, ssz.Hints{SuperNodeDepth: 2}))

	values := make([]ssz.Value, 6)
	for i := range values {
		values[i] = must(eth1DataSchema.New(ssz.Bytes32{byte(i)}, ssz.Uint64(i), ssz.Bytes32{}))
	}
	blob := must(ssz.Serialize(must(ssz.MustListSchema(eth1DataSchema, 64).Of(values...))))
	list := must(ssz.Deserialize(schema, blob))

	// List chunks hang at 2, the chunk tree is 6 deep, super nodes cover 2 levels
	for i, want := range []uint64{4, 2} {
		node := must(list.Node().Get(tree.GIndex(2<<4 | i)))
		super, ok := node.(*tree.SuperNode)
		if !ok {
			t.Fatalf("position %d: node type mismatch: have %T, want %T", i, node, super)
		}
		if super.Count() != want {
			t.Errorf("position %d: element count mismatch: have %d, want %d", i, super.Count(), want)
		}
	}
	if node := must(list.Node().Get(tree.GIndex(2<<4 | 2))); node != tree.ZeroNode(2) {
		t.Errorf("padding mismatch: have %T", node)
	}
}

func TestSuperNodeHints(t *testing.T) {
	tests := []struct {
		elem  ssz.Schema
		limit uint64
		hints ssz.Hints
	}{
		{ssz.Uint64Schema, 1024, ssz.Hints{SuperNodeDepth: -1}},
		{ssz.Uint64Schema, 1024, ssz.Hints{SuperNodeDepth: 9}},
		{ssz.MustListSchema(ssz.Uint8Schema, 4), 16, ssz.Hints{SuperNodeDepth: 2}},
	}
	for _, tt := range tests {
		if _, err := ssz.NewListSchemaWithHints(tt.elem, tt.limit, tt.hints); !errors.Is(err, ssz.ErrInvalidSchema) {
			t.Errorf("List[%s, %d] %+v: error mismatch: have %v, want %v", tt.elem, tt.limit, tt.hints, err, ssz.ErrInvalidSchema)
		}
	}
}
