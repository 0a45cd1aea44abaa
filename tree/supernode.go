// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"bytes"
	"fmt"
	"sync/atomic"
)

// TemplateLeaf maps a leaf of an element subtree onto a byte range of the
// element's flat encoding.
type TemplateLeaf struct {
	GIndex GIndex // Position of the leaf within the element subtree
	Offset int    // Start of the leaf's bytes within the flat element
	Length int    // Number of meaningful bytes in the leaf
}

// Template describes how a fixed size element is laid out both as a subtree
// and as a flat byte slice, allowing conversion between the two.
type Template struct {
	def    Node
	size   int
	leaves []TemplateLeaf
}

// NewTemplate creates an element template from the element's default subtree,
// its flat size and the leaves carrying its content.
func NewTemplate(def Node, size int, leaves []TemplateLeaf) *Template {
	for _, leaf := range leaves {
		if leaf.Offset < 0 || leaf.Length < 0 || leaf.Length > 32 || leaf.Offset+leaf.Length > size {
			panic(fmt.Sprintf("tree: template leaf %v out of element range %d", leaf, size))
		}
	}
	return &Template{def: def, size: size, leaves: leaves}
}

// Size returns the number of bytes in the flat form of a single element.
func (t *Template) Size() int {
	return t.size
}

// Build rehydrates a flat element into an ordinary subtree.
func (t *Template) Build(data []byte) Node {
	node := t.def
	for _, leaf := range t.leaves {
		var err error
		if node, err = node.Updated(leaf.GIndex, NewLeaf(data[leaf.Offset:leaf.Offset+leaf.Length])); err != nil {
			panic(fmt.Sprintf("tree: template leaf %v unreachable: %v", leaf.GIndex, err))
		}
	}
	return node
}

// Flatten converts a subtree back into its flat element form. It fails if the
// subtree cannot be represented exactly by the template.
func (t *Template) Flatten(n Node) ([]byte, bool) {
	data := make([]byte, t.size)
	for _, leaf := range t.leaves {
		child, err := n.Get(leaf.GIndex)
		if err != nil {
			return nil, false
		}
		l, ok := child.(*LeafNode)
		if !ok {
			return nil, false
		}
		for _, b := range l.chunk[leaf.Length:] {
			if b != 0 {
				return nil, false
			}
		}
		copy(data[leaf.Offset:], l.chunk[:leaf.Length])
	}
	// Anything off the template leaves must be the default content
	if t.Build(data).HashTreeRoot() != n.HashTreeRoot() {
		return nil, false
	}
	return data, true
}

// SuperNode is a subtree of fixed depth whose bottom positions hold fixed size
// elements, stored back to back in a single buffer instead of as nodes. The
// positions past the stored elements are zero chunks.
type SuperNode struct {
	depth    int
	template *Template
	data     []byte

	root atomic.Pointer[[32]byte] // Memoized root, published once computed
}

// NewSuperNode creates a super node of the given depth from a buffer of flat
// elements. The buffer is retained, it must not be modified afterwards.
func NewSuperNode(depth int, template *Template, data []byte) *SuperNode {
	if depth < 0 || depth > MaxDepth {
		panic(fmt.Sprintf("tree: super node depth %d out of range", depth))
	}
	if template.size == 0 || len(data)%template.size != 0 {
		panic(fmt.Sprintf("tree: super node data %d not a multiple of element size %d", len(data), template.size))
	}
	if uint64(len(data)/template.size) > uint64(1)<<depth {
		panic(fmt.Sprintf("tree: %d super node elements exceed depth %d", len(data)/template.size, depth))
	}
	return &SuperNode{depth: depth, template: template, data: data}
}

// Depth returns the depth of the subtree represented by the node.
func (s *SuperNode) Depth() int { return s.depth }

// Template returns the element layout of the node.
func (s *SuperNode) Template() *Template { return s.template }

// Count returns the number of elements stored in the node.
func (s *SuperNode) Count() uint64 {
	return uint64(len(s.data) / s.template.size)
}

// Data returns the flat element buffer. It must not be modified.
func (s *SuperNode) Data() []byte {
	return s.data
}

// element rehydrates the i-th bottom position of the node.
func (s *SuperNode) element(i uint64) Node {
	if i >= s.Count() {
		return ZeroNode(0)
	}
	size := uint64(s.template.size)
	return s.template.Build(s.data[i*size : (i+1)*size])
}

// expand converts the node into an equivalent tree of ordinary nodes.
func (s *SuperNode) expand() Node {
	nodes := make([]Node, s.Count())
	for i := range nodes {
		nodes[i] = s.element(uint64(i))
	}
	return Build(nodes, s.depth, ZeroNode(0))
}

// split separates a generalized index at or below the element depth into the
// element position and the index relative to that element.
func (s *SuperNode) split(g GIndex) (uint64, GIndex) {
	shift := g.Depth() - s.depth
	idx := (g >> shift).Index()
	rest := g&(GIndex(1)<<shift-1) | GIndex(1)<<shift
	return idx, rest
}

// HashTreeRoot implements Node.
func (s *SuperNode) HashTreeRoot() [32]byte {
	if root := s.root.Load(); root != nil {
		return *root
	}
	count := s.Count()
	chunks := make([]byte, 0, count*32)
	for i := uint64(0); i < count; i++ {
		root := s.element(i).HashTreeRoot()
		chunks = append(chunks, root[:]...)
	}
	root := Merkleize(chunks, s.depth)
	s.root.CompareAndSwap(nil, &root)
	return root
}

// Get implements Node. Positions above the element level are expanded into
// ordinary nodes.
func (s *SuperNode) Get(g GIndex) (Node, error) {
	switch {
	case g == 0:
		return nil, ErrInvalidGIndex
	case g == Root:
		return s, nil
	case g.Depth() < s.depth:
		return s.expand().Get(g)
	}
	idx, rest := s.split(g)
	return s.element(idx).Get(rest)
}

// Updated implements Node. Replacing or appending a whole element, or a part
// of a stored element, keeps the flat form as long as the result still fits
// the template. Anything else falls back to an ordinary subtree.
func (s *SuperNode) Updated(g GIndex, n Node) (Node, error) {
	switch {
	case g == 0:
		return nil, ErrInvalidGIndex
	case g == Root:
		return n, nil
	case g.Depth() < s.depth:
		return s.expand().Updated(g, n)
	}
	idx, rest := s.split(g)

	count := s.Count()
	if idx > count || (idx == count && rest != Root) {
		return s.expand().Updated(g, n)
	}
	elem := n
	if rest != Root {
		var err error
		if elem, err = s.element(idx).Updated(rest, n); err != nil {
			return nil, err
		}
	}
	flat, ok := s.template.Flatten(elem)
	if !ok {
		return s.expand().Updated(g, n)
	}
	size := s.template.size
	if idx == count {
		data := make([]byte, len(s.data), len(s.data)+size)
		copy(data, s.data)
		return &SuperNode{depth: s.depth, template: s.template, data: append(data, flat...)}, nil
	}
	offset := int(idx) * size
	if bytes.Equal(s.data[offset:offset+size], flat) {
		return s, nil
	}
	data := bytes.Clone(s.data)
	copy(data[offset:], flat)
	return &SuperNode{depth: s.depth, template: s.template, data: data}, nil
}
