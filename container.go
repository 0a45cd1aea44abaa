// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"fmt"
	"math"
	"strings"

	"github.com/ssz-tree/ssz/tree"
)

// Field is a named member of a container.
type Field struct {
	Name   string
	Schema Schema
}

// ContainerSchema is the schema of an ordered set of named heterogeneous
// fields. Every field hangs off its own position on the bottom of the
// container's tree.
type ContainerSchema struct {
	name   string
	fields []Field
	index  map[string]int

	depth int
	fixed bool
	size  uint64 // Length of the fixed part
	desc  string
	def   tree.Node
}

// NewContainerSchema creates the schema of a container with the given fields.
func NewContainerSchema(name string, fields ...Field) (*ContainerSchema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: container %s without fields", ErrInvalidSchema, name)
	}
	s := &ContainerSchema{
		name:   name,
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
		depth:  ceilLog2(uint64(len(fields))),
		fixed:  true,
	}
	var (
		desc     strings.Builder
		defaults = make([]tree.Node, len(fields))
	)
	desc.WriteString(name + "{")
	for i, f := range fields {
		if f.Schema == nil {
			return nil, fmt.Errorf("%w: container %s field %q without schema", ErrInvalidSchema, name, f.Name)
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, fmt.Errorf("%w: container %s duplicate field %q", ErrInvalidSchema, name, f.Name)
		}
		s.index[f.Name] = i
		if f.Schema.IsFixedSize() {
			s.size += uint64(f.Schema.FixedPartSize())
		} else {
			s.fixed = false
			s.size += 4
		}
		defaults[i] = f.Schema.DefaultTree()

		if i > 0 {
			desc.WriteString(", ")
		}
		fmt.Fprintf(&desc, "%s: %s", f.Name, f.Schema)
	}
	desc.WriteString("}")
	s.desc = desc.String()

	if depth := s.leafDepth(); depth > tree.MaxDepth {
		return nil, fmt.Errorf("%w: %s needs tree depth %d", ErrInvalidSchema, name, depth)
	}
	if s.size > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %s fixed part of %d bytes", ErrInvalidSchema, name, s.size)
	}
	s.def = tree.Build(defaults, s.depth, tree.ZeroNode(0))
	return s, nil
}

// MustContainerSchema is like NewContainerSchema but panics on error,
// simplifying the declaration of package level schemas.
func MustContainerSchema(name string, fields ...Field) *ContainerSchema {
	s, err := NewContainerSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name of the container type.
func (s *ContainerSchema) Name() string { return s.name }

// Fields returns the fields of the container in order.
func (s *ContainerSchema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// FieldIndex returns the position of the named field.
func (s *ContainerSchema) FieldIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Kind implements Schema.
func (s *ContainerSchema) Kind() Kind { return KindContainer }

// String implements Schema.
func (s *ContainerSchema) String() string { return s.desc }

// TreeDepth implements Schema.
func (s *ContainerSchema) TreeDepth() int { return s.depth }

// MaxChunks implements Schema.
func (s *ContainerSchema) MaxChunks() uint64 { return uint64(len(s.fields)) }

// BitsSize implements Schema.
func (s *ContainerSchema) BitsSize() int {
	if !s.fixed {
		return 32
	}
	return int(s.size) * 8
}

// IsFixedSize implements Schema.
func (s *ContainerSchema) IsFixedSize() bool { return s.fixed }

// FixedPartSize implements Schema.
func (s *ContainerSchema) FixedPartSize() uint32 { return uint32(s.size) }

// VariablePartSize implements Schema.
func (s *ContainerSchema) VariablePartSize(node tree.Node) (uint32, error) {
	var total sumSizes
	for i, f := range s.fields {
		if f.Schema.IsFixedSize() {
			continue
		}
		child, err := node.Get(s.position(i))
		if err != nil {
			return 0, err
		}
		size, err := sizeOf(f.Schema, child)
		if err != nil {
			return 0, err
		}
		if err := total.add(uint64(size)); err != nil {
			return 0, err
		}
	}
	return uint32(total), nil
}

// SizeBounds implements Schema.
func (s *ContainerSchema) SizeBounds() LengthBounds {
	var bounds LengthBounds
	for _, f := range s.fields {
		bounds = bounds.add(f.Schema.SizeBounds())
		if !f.Schema.IsFixedSize() {
			bounds = bounds.addBytes(4)
		}
	}
	return bounds
}

// DefaultTree implements Schema.
func (s *ContainerSchema) DefaultTree() tree.Node { return s.def }

// Default implements Schema.
func (s *ContainerSchema) Default() Value {
	v, _ := s.view(s.def)
	return v
}

// FromNode implements Schema.
func (s *ContainerSchema) FromNode(node tree.Node) (Value, error) {
	return s.view(node)
}

func (s *ContainerSchema) view(node tree.Node) (*ContainerView, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil tree backing %s", ErrSchemaMismatch, s.name)
	}
	return &ContainerView{schema: s, node: node, cache: make(fieldCache, len(s.fields))}, nil
}

// New creates a container from the values of all its fields, in order.
func (s *ContainerSchema) New(values ...Value) (*ContainerView, error) {
	if len(values) != len(s.fields) {
		return nil, fmt.Errorf("%w: %d values for %d fields of %s", ErrIndexOutOfBounds, len(values), len(s.fields), s.name)
	}
	nodes := make([]tree.Node, len(values))
	for i, v := range values {
		if err := checkValue(s.fields[i].Schema, v); err != nil {
			return nil, fmt.Errorf("field %s: %w", s.fields[i].Name, err)
		}
		nodes[i] = v.Node()
	}
	view, _ := s.view(tree.Build(nodes, s.depth, tree.ZeroNode(0)))
	for i := range values {
		val := values[i]
		view.cache[i].Store(&val)
	}
	return view, nil
}

// position returns the generalized index of the i-th field.
func (s *ContainerSchema) position(i int) tree.GIndex {
	return mustChild(s.depth, uint64(i))
}

func (s *ContainerSchema) schemaAt(i int) Schema {
	return s.fields[i].Schema
}

func (s *ContainerSchema) encode(buf []byte, node tree.Node) ([]byte, error) {
	nodes := make([]tree.Node, len(s.fields))
	for i := range s.fields {
		child, err := node.Get(s.position(i))
		if err != nil {
			return nil, err
		}
		nodes[i] = child
	}
	return encodeParts(buf, s.schemaAt, nodes)
}

func (s *ContainerSchema) decode(blob []byte) (tree.Node, error) {
	nodes, err := decodeParts(blob, s.schemaAt, len(s.fields))
	if err != nil {
		return nil, err
	}
	return tree.Build(nodes, s.depth, tree.ZeroNode(0)), nil
}

func (s *ContainerSchema) appendTemplate(leaves []tree.TemplateLeaf, base tree.GIndex, offset int) []tree.TemplateLeaf {
	for i, f := range s.fields {
		leaves = f.Schema.appendTemplate(leaves, mustConcat(base, s.position(i)), offset)
		offset += int(f.Schema.FixedPartSize())
	}
	return leaves
}

func (s *ContainerSchema) leafDepth() int {
	deepest := 0
	for _, f := range s.fields {
		deepest = max(deepest, f.Schema.leafDepth())
	}
	return s.depth + deepest
}

// ContainerView is a container value backed by a tree. Fields are materialized
// on first access and cached for the lifetime of the view.
type ContainerView struct {
	schema *ContainerSchema
	node   tree.Node
	cache  fieldCache
}

// Schema implements Value.
func (v *ContainerView) Schema() Schema { return v.schema }

// Node implements Value.
func (v *ContainerView) Node() tree.Node { return v.node }

// FieldCount returns the number of fields.
func (v *ContainerView) FieldCount() int { return len(v.schema.fields) }

// Get returns the value of the i-th field.
func (v *ContainerView) Get(i int) (Value, error) {
	if i < 0 || i >= len(v.schema.fields) {
		return nil, fmt.Errorf("%w: field %d of %d", ErrIndexOutOfBounds, i, len(v.schema.fields))
	}
	return v.cache.load(i, func() (Value, error) {
		child, err := v.node.Get(v.schema.position(i))
		if err != nil {
			return nil, err
		}
		return v.schema.fields[i].Schema.FromNode(child)
	})
}

// Field returns the value of the named field.
func (v *ContainerView) Field(name string) (Value, error) {
	i, ok := v.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: no field %q in %s", ErrIndexOutOfBounds, name, v.schema.name)
	}
	return v.Get(i)
}

// Set returns a new container with the i-th field replaced. The receiver is not
// modified.
func (v *ContainerView) Set(i int, val Value) (*ContainerView, error) {
	if i < 0 || i >= len(v.schema.fields) {
		return nil, fmt.Errorf("%w: field %d of %d", ErrIndexOutOfBounds, i, len(v.schema.fields))
	}
	if err := checkValue(v.schema.fields[i].Schema, val); err != nil {
		return nil, fmt.Errorf("field %s: %w", v.schema.fields[i].Name, err)
	}
	node, err := v.node.Updated(v.schema.position(i), val.Node())
	if err != nil {
		return nil, err
	}
	return &ContainerView{schema: v.schema, node: node, cache: v.cache.with(i, val)}, nil
}

// SetField returns a new container with the named field replaced.
func (v *ContainerView) SetField(name string, val Value) (*ContainerView, error) {
	i, ok := v.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: no field %q in %s", ErrIndexOutOfBounds, name, v.schema.name)
	}
	return v.Set(i, val)
}
