// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"fmt"
	"strings"

	"github.com/ssz-tree/ssz/tree"
)

// maxUnionOptions is the number of distinct selectors a union may use.
const maxUnionOptions = 128

const (
	unionValueGIndex    tree.GIndex = 2 // Position of the value tree within a union
	unionSelectorGIndex tree.GIndex = 3 // Position of the selector leaf within a union
)

// UnionSchema is the schema of a tagged value of one of several types. The
// first option may be nil, standing for None. The tree of a union joins the
// tree of its value with a leaf holding the selector.
type UnionSchema struct {
	options []Schema
	desc    string
	def     tree.Node
}

// NewUnionSchema creates the schema of a union over the given options.
func NewUnionSchema(options ...Schema) (*UnionSchema, error) {
	switch {
	case len(options) == 0:
		return nil, fmt.Errorf("%w: union without options", ErrInvalidSchema)
	case len(options) > maxUnionOptions:
		return nil, fmt.Errorf("%w: union of %d options", ErrInvalidSchema, len(options))
	case len(options) == 1 && options[0] == nil:
		return nil, fmt.Errorf("%w: union of only None", ErrInvalidSchema)
	}
	names := make([]string, len(options))
	for i, opt := range options {
		if opt == nil {
			if i > 0 {
				return nil, fmt.Errorf("%w: None union option at selector %d", ErrInvalidSchema, i)
			}
			names[i] = "None"
			continue
		}
		names[i] = opt.String()
	}
	s := &UnionSchema{
		options: append([]Schema(nil), options...),
		desc:    "Union[" + strings.Join(names, ", ") + "]",
	}
	if depth := s.leafDepth(); depth > tree.MaxDepth {
		return nil, fmt.Errorf("%w: %s needs tree depth %d", ErrInvalidSchema, s.desc, depth)
	}
	s.def = tree.NewBranch(s.optionDefault(0), selectorLeaf(0))
	return s, nil
}

// MustUnionSchema is like NewUnionSchema but panics on error, simplifying the
// declaration of package level schemas.
func MustUnionSchema(options ...Schema) *UnionSchema {
	s, err := NewUnionSchema(options...)
	if err != nil {
		panic(err)
	}
	return s
}

func selectorLeaf(selector uint8) tree.Node {
	if selector == 0 {
		return tree.ZeroLeaf(1)
	}
	return tree.NewLeaf([]byte{selector})
}

func (s *UnionSchema) optionDefault(selector int) tree.Node {
	if s.options[selector] == nil {
		return tree.ZeroNode(0)
	}
	return s.options[selector].DefaultTree()
}

// Options returns the option schemas, nil standing for None.
func (s *UnionSchema) Options() []Schema {
	return append([]Schema(nil), s.options...)
}

// Kind implements Schema.
func (s *UnionSchema) Kind() Kind { return KindUnion }

// String implements Schema.
func (s *UnionSchema) String() string { return s.desc }

// TreeDepth implements Schema.
func (s *UnionSchema) TreeDepth() int { return 1 }

// MaxChunks implements Schema.
func (s *UnionSchema) MaxChunks() uint64 { return 1 }

// BitsSize implements Schema.
func (s *UnionSchema) BitsSize() int { return 32 }

// IsFixedSize implements Schema.
func (s *UnionSchema) IsFixedSize() bool { return false }

// FixedPartSize implements Schema. Only the selector is fixed.
func (s *UnionSchema) FixedPartSize() uint32 { return 1 }

// VariablePartSize implements Schema.
func (s *UnionSchema) VariablePartSize(node tree.Node) (uint32, error) {
	selector, value, err := s.unwrap(node)
	if err != nil {
		return 0, err
	}
	if s.options[selector] == nil {
		return 0, nil
	}
	return sizeOf(s.options[selector], value)
}

// SizeBounds implements Schema.
func (s *UnionSchema) SizeBounds() LengthBounds {
	var bounds LengthBounds
	for i, opt := range s.options {
		var b LengthBounds
		if opt != nil {
			b = opt.SizeBounds()
		}
		if i == 0 {
			bounds = b
			continue
		}
		bounds.Min, bounds.Max = min(bounds.Min, b.Min), max(bounds.Max, b.Max)
	}
	return bounds.addBytes(1)
}

// DefaultTree implements Schema.
func (s *UnionSchema) DefaultTree() tree.Node { return s.def }

// Default implements Schema.
func (s *UnionSchema) Default() Value { return &UnionView{schema: s, node: s.def} }

// FromNode implements Schema. Only the selector of the union is read.
func (s *UnionSchema) FromNode(node tree.Node) (Value, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil tree backing %s", ErrSchemaMismatch, s.desc)
	}
	selector, _, err := s.unwrap(node)
	if err != nil {
		return nil, err
	}
	return &UnionView{schema: s, node: node, selector: selector}, nil
}

// New creates a union holding a value of the selected option. The value must
// be nil for a None option.
func (s *UnionSchema) New(selector uint8, v Value) (*UnionView, error) {
	if int(selector) >= len(s.options) {
		return nil, fmt.Errorf("%w: selector %d of %d options", ErrIndexOutOfBounds, selector, len(s.options))
	}
	value := tree.ZeroNode(0)
	if opt := s.options[selector]; opt != nil {
		if err := checkValue(opt, v); err != nil {
			return nil, err
		}
		value = v.Node()
	} else if v != nil {
		return nil, fmt.Errorf("%w: value %s for None option", ErrSchemaMismatch, v.Schema())
	}
	return &UnionView{schema: s, node: tree.NewBranch(value, selectorLeaf(selector)), selector: selector}, nil
}

// unwrap splits the tree of a union into its selector and value tree.
func (s *UnionSchema) unwrap(node tree.Node) (uint8, tree.Node, error) {
	child, err := node.Get(unionSelectorGIndex)
	if err != nil {
		return 0, nil, err
	}
	leaf, ok := child.(*tree.LeafNode)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %T as union selector", ErrSchemaMismatch, child)
	}
	chunk := leaf.Chunk()
	if int(chunk[0]) >= len(s.options) {
		return 0, nil, fmt.Errorf("%w: selector %d of %d options", ErrIndexOutOfBounds, chunk[0], len(s.options))
	}
	value, err := node.Get(unionValueGIndex)
	if err != nil {
		return 0, nil, err
	}
	return chunk[0], value, nil
}

func (s *UnionSchema) encode(buf []byte, node tree.Node) ([]byte, error) {
	selector, value, err := s.unwrap(node)
	if err != nil {
		return nil, err
	}
	buf = append(buf, selector)
	if s.options[selector] == nil {
		return buf, nil
	}
	return s.options[selector].encode(buf, value)
}

func (s *UnionSchema) decode(blob []byte) (tree.Node, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: missing union selector", ErrUnexpectedEOF)
	}
	selector := blob[0]
	if int(selector) >= len(s.options) {
		return nil, fmt.Errorf("%w: selector %d of %d options", ErrInvalidUnionSelector, selector, len(s.options))
	}
	opt := s.options[selector]
	if opt == nil {
		if len(blob) > 1 {
			return nil, fmt.Errorf("%w: None with %d bytes of data", ErrInvalidUnionSelector, len(blob)-1)
		}
		return tree.NewBranch(tree.ZeroNode(0), selectorLeaf(0)), nil
	}
	value, err := opt.decode(blob[1:])
	if err != nil {
		return nil, err
	}
	return tree.NewBranch(value, selectorLeaf(selector)), nil
}

func (s *UnionSchema) appendTemplate(leaves []tree.TemplateLeaf, _ tree.GIndex, _ int) []tree.TemplateLeaf {
	panic(fmt.Sprintf("ssz: template of variable size %s", s.desc))
}

func (s *UnionSchema) leafDepth() int {
	deepest := 0
	for _, opt := range s.options {
		if opt != nil {
			deepest = max(deepest, opt.leafDepth())
		}
	}
	return 1 + deepest
}

// UnionView is a union value backed by a tree.
type UnionView struct {
	schema   *UnionSchema
	node     tree.Node
	selector uint8
}

// Schema implements Value.
func (v *UnionView) Schema() Schema { return v.schema }

// Node implements Value.
func (v *UnionView) Node() tree.Node { return v.node }

// Selector returns the index of the active option.
func (v *UnionView) Selector() uint8 { return v.selector }

// Value returns the held value, nil for None.
func (v *UnionView) Value() (Value, error) {
	opt := v.schema.options[v.selector]
	if opt == nil {
		return nil, nil
	}
	value, err := v.node.Get(unionValueGIndex)
	if err != nil {
		return nil, err
	}
	return opt.FromNode(value)
}
