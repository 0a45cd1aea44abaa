// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// pairTemplate lays out an element of two fields, a 32 byte chunk and an 8 byte
// integer, the way a two field container would be.
func pairTemplate() *Template {
	return NewTemplate(ZeroNode(1), 40, []TemplateLeaf{
		{GIndex: 2, Offset: 0, Length: 32},
		{GIndex: 3, Offset: 32, Length: 8},
	})
}

func pairElement(b byte, n uint64) []byte {
	data := make([]byte, 40)
	data[0] = b
	binary.LittleEndian.PutUint64(data[32:], n)
	return data
}

func pairNode(b byte, n uint64) Node {
	var num [8]byte
	binary.LittleEndian.PutUint64(num[:], n)
	return NewBranch(NewChunkLeaf(chunkOf(b)), NewLeaf(num[:]))
}

func TestTemplateRoundtrip(t *testing.T) {
	tmpl := pairTemplate()

	node := tmpl.Build(pairElement(3, 7))
	if have, want := node.HashTreeRoot(), pairNode(3, 7).HashTreeRoot(); have != want {
		t.Errorf("template build root mismatch: have %x, want %x", have, want)
	}
	flat, ok := tmpl.Flatten(pairNode(3, 7))
	if !ok {
		t.Fatalf("failed to flatten conforming element")
	}
	if !bytes.Equal(flat, pairElement(3, 7)) {
		t.Errorf("flattened element mismatch: have %x, want %x", flat, pairElement(3, 7))
	}
	// Non-zero bytes past a leaf's length cannot be flattened
	var junk [32]byte
	junk[31] = 1
	if _, ok := tmpl.Flatten(NewBranch(NewChunkLeaf(chunkOf(3)), NewChunkLeaf(junk))); ok {
		t.Errorf("flattened element with junk padding")
	}
	if _, ok := tmpl.Flatten(NewChunkLeaf(chunkOf(3))); ok {
		t.Errorf("flattened mis-shaped element")
	}
}

func TestSuperNodeEquivalence(t *testing.T) {
	var (
		data  []byte
		nodes []Node
	)
	for i := 0; i < 5; i++ {
		data = append(data, pairElement(byte(i), uint64(i*100))...)
		nodes = append(nodes, pairNode(byte(i), uint64(i*100)))
	}
	super := NewSuperNode(3, pairTemplate(), data)
	plain := Build(nodes, 3, ZeroNode(0))

	if have, want := super.HashTreeRoot(), plain.HashTreeRoot(); have != want {
		t.Fatalf("super node root mismatch: have %x, want %x", have, want)
	}
	for _, g := range []GIndex{2, 3, 5, 8, 12, 13, 15, 16, 17, 25} {
		have, err := super.Get(g)
		if err != nil {
			t.Errorf("failed to get %d from super node: %v", g, err)
			continue
		}
		want, _ := plain.Get(g)
		if have.HashTreeRoot() != want.HashTreeRoot() {
			t.Errorf("super node child %d mismatch: have %x, want %x", g, have.HashTreeRoot(), want.HashTreeRoot())
		}
	}
}

func TestSuperNodeUpdates(t *testing.T) {
	var (
		data  []byte
		nodes []Node
	)
	for i := 0; i < 3; i++ {
		data = append(data, pairElement(byte(i), uint64(i))...)
		nodes = append(nodes, pairNode(byte(i), uint64(i)))
	}
	var (
		super Node = NewSuperNode(2, pairTemplate(), data)
		plain      = Build(nodes, 2, ZeroNode(0))
	)
	update := func(g GIndex, n Node) {
		t.Helper()

		var err error
		if super, err = super.Updated(g, n); err != nil {
			t.Fatalf("failed to update super node at %d: %v", g, err)
		}
		if plain, err = plain.Updated(g, n); err != nil {
			t.Fatalf("failed to update plain tree at %d: %v", g, err)
		}
		if have, want := super.HashTreeRoot(), plain.HashTreeRoot(); have != want {
			t.Fatalf("root mismatch after update at %d: have %x, want %x", g, have, want)
		}
	}
	// Whole element replacement stays flat
	update(5, pairNode(9, 9))
	if _, ok := super.(*SuperNode); !ok {
		t.Fatalf("element replacement expanded super node")
	}
	// Appending the next element stays flat
	update(7, pairNode(8, 8))
	if s, ok := super.(*SuperNode); !ok || s.Count() != 4 {
		t.Fatalf("element append expanded super node")
	}
	// Partial element update stays flat
	var num [8]byte
	binary.LittleEndian.PutUint64(num[:], 77)
	update(9, NewLeaf(num[:]))
	if _, ok := super.(*SuperNode); !ok {
		t.Fatalf("partial element update expanded super node")
	}
	// Mis-shaped element expands into a plain tree
	update(4, NewChunkLeaf(chunkOf(1)))
	if _, ok := super.(*SuperNode); ok {
		t.Fatalf("mis-shaped element kept in super node")
	}
}

func TestSuperNodeWalk(t *testing.T) {
	var (
		data  []byte
		nodes []Node
	)
	for i := 0; i < 6; i++ {
		data = append(data, pairElement(byte(i), uint64(i))...)
		nodes = append(nodes, pairNode(byte(i), uint64(i)))
	}
	// Two super nodes of depth 2 below a depth 3 tree
	root := Build([]Node{
		NewSuperNode(2, pairTemplate(), data[:4*40]),
		NewSuperNode(2, pairTemplate(), data[4*40:]),
	}, 1, ZeroNode(2))

	var walked int
	err := Walk(root, 3, 6, func(i uint64, n Node) error {
		if have, want := n.HashTreeRoot(), nodes[i].HashTreeRoot(); have != want {
			t.Errorf("walked element %d mismatch: have %x, want %x", i, have, want)
		}
		walked++
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk super nodes: %v", err)
	}
	if walked != 6 {
		t.Errorf("walked element count mismatch: have %d, want %d", walked, 6)
	}
}
