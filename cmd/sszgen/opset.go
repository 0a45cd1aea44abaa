// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"go/types"
)

// opset describes how a Go type maps onto an ssz schema: the Go expression that
// constructs the schema and the size of its fixed part.
type opset struct {
	schema string // Expression evaluating to an ssz.Schema
	bytes  int    // Number of bytes in the fixed part of the encoding
	fixed  bool   // Whether the encoding is of fixed size
}

// dynamicOpset creates the opset of a variable size field, which only takes an
// offset in the fixed part.
func dynamicOpset(schema string) *opset {
	return &opset{schema: schema, bytes: offsetBytes}
}

// resolveBasicOpset retrieves the opset required to handle a basic struct
// field.
func (p *parseContext) resolveBasicOpset(typ *types.Basic, tags *sizeTag) (*opset, error) {
	if tags != nil {
		if tags.limit != nil {
			return nil, fmt.Errorf("basic type cannot have ssz-max tag")
		}
		if len(tags.size) != 1 {
			return nil, fmt.Errorf("basic type requires 1D ssz-size tag: have %v", tags.size)
		}
	}
	var (
		schema string
		size   int
	)
	switch typ.Kind() {
	case types.Bool:
		schema, size = "BoolSchema", 1
	case types.Uint8:
		schema, size = "Uint8Schema", 1
	case types.Uint16:
		schema, size = "Uint16Schema", 2
	case types.Uint32:
		schema, size = "Uint32Schema", 4
	case types.Uint64:
		schema, size = "Uint64Schema", 8
	default:
		return nil, fmt.Errorf("unsupported basic type: %s", typ)
	}
	if tags != nil && tags.size[0] != size {
		return nil, fmt.Errorf("%s basic type requires ssz-size=%d: have %d", typ, size, tags.size[0])
	}
	return &opset{schema: p.qualify(schema), bytes: size, fixed: true}, nil
}

// resolveBitlistOpset retrieves the opset of a bitlist field, held either as a
// go-bitfield type or as a byte slice tagged with bits.
func (p *parseContext) resolveBitlistOpset(tags *sizeTag) (*opset, error) {
	if tags == nil || tags.limit == nil {
		return nil, fmt.Errorf("slice of bits type requires ssz-max tag")
	}
	if len(tags.size) > 0 {
		return nil, fmt.Errorf("slice of bits type cannot have ssz-size tag")
	}
	if len(tags.limit) != 1 {
		return nil, fmt.Errorf("slice of bits tag conflict: field supports [N] bits, tag wants %v bits", tags.limit)
	}
	return dynamicOpset(fmt.Sprintf("%s(%s, %d)", p.qualify("MustListSchema"), p.qualify("BitSchema"), tags.limit[0])), nil
}

// resolveBitvectorOpset retrieves the opset of a bitvector field of the given
// number of bytes, with the number of bits taken from the ssz-size tag.
func (p *parseContext) resolveBitvectorOpset(bytes int, tags *sizeTag) (*opset, error) {
	if tags == nil || len(tags.size) != 1 {
		return nil, fmt.Errorf("array of bits type requires 1D ssz-size tag")
	}
	if bytes > 0 && (tags.size[0] < (bytes-1)*8+1 || tags.size[0] > bytes*8) {
		return nil, fmt.Errorf("array of bits tag conflict: field supports %d-%d bits, tag wants %v bits", (bytes-1)*8+1, bytes*8, tags.size)
	}
	return &opset{
		schema: fmt.Sprintf("%s(%s, %d)", p.qualify("MustVectorSchema"), p.qualify("BitSchema"), tags.size[0]),
		bytes:  (tags.size[0] + 7) / 8,
		fixed:  true,
	}, nil
}

// resolveArrayOpset retrieves the opset of a Go array, which always maps to an
// ssz vector.
func (p *parseContext) resolveArrayOpset(typ types.Type, size int, tags *sizeTag) (*opset, error) {
	if tags != nil && tags.limit != nil {
		return nil, fmt.Errorf("array type cannot have ssz-max tag")
	}
	if basic, ok := typ.(*types.Basic); ok && basic.Kind() == types.Byte {
		if tags != nil && tags.bits {
			return p.resolveBitvectorOpset(size, tags)
		}
		if size == 32 {
			return &opset{schema: p.qualify("Bytes32Schema"), bytes: 32, fixed: true}, nil
		}
	}
	if tags != nil && len(tags.size) > 0 && tags.size[0] != size {
		return nil, fmt.Errorf("array tag conflict: field is [%d], tag wants %v", size, tags.size)
	}
	elem, err := p.resolveOpset(typ, tags.inner())
	if err != nil {
		return nil, err
	}
	return p.vectorOpset(elem, size), nil
}

// resolveSliceOpset retrieves the opset of a Go slice, which maps to an ssz
// vector if ssz-size is set for its dimension, or an ssz list if ssz-max is.
func (p *parseContext) resolveSliceOpset(typ types.Type, tags *sizeTag) (*opset, error) {
	if tags == nil {
		return nil, fmt.Errorf("slice type requires ssz tags")
	}
	if basic, ok := typ.(*types.Basic); ok && basic.Kind() == types.Byte && tags.bits {
		if len(tags.size) > 0 {
			return p.resolveBitvectorOpset(0, tags)
		}
		return p.resolveBitlistOpset(tags)
	}
	var (
		size  = tags.sizeAt(0)
		limit = tags.limitAt(0)
	)
	switch {
	case size > 0 && limit > 0:
		return nil, fmt.Errorf("slice tag conflict: both ssz-size and ssz-max set for a dimension")
	case size == 0 && limit == 0:
		return nil, fmt.Errorf("slice type requires ssz-size or ssz-max tag")
	}
	elem, err := p.resolveOpset(typ, tags.inner())
	if err != nil {
		return nil, err
	}
	if size > 0 {
		return p.vectorOpset(elem, size), nil
	}
	return dynamicOpset(fmt.Sprintf("%s(%s, %d)", p.qualify("MustListSchema"), elem.schema, limit)), nil
}

// resolvePointerOpset retrieves the opset of a pointer, either to a uint256 or
// to a nested container.
func (p *parseContext) resolvePointerOpset(typ *types.Pointer, tags *sizeTag) (*opset, error) {
	if isUint256(typ.Elem()) {
		if tags != nil {
			if tags.limit != nil {
				return nil, fmt.Errorf("uint256 basic type cannot have ssz-max tag")
			}
			if len(tags.size) != 1 || tags.size[0] != 32 {
				return nil, fmt.Errorf("uint256 basic type tag conflict: field is [32] bytes, tag wants %v", tags.size)
			}
		}
		return &opset{schema: p.qualify("Uint256Schema"), bytes: 32, fixed: true}, nil
	}
	named, ok := typ.Elem().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("unsupported pointer type %s", typ.String())
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil, fmt.Errorf("unsupported pointer type %s", typ.String())
	}
	return p.resolveContainerOpset(named, tags)
}

// resolveContainerOpset retrieves the opset of a nested struct, referencing the
// schema generated for it. Structs outside of the generated set must expose a
// SchemaSSZ method of their own.
func (p *parseContext) resolveContainerOpset(named *types.Named, tags *sizeTag) (*opset, error) {
	if tags != nil {
		return nil, fmt.Errorf("container type cannot have any ssz tags")
	}
	name := named.Obj().Name()
	if named.Obj().Pkg() != p.pkg {
		name = pkgName(named.Obj().Pkg().Path()) + "." + name
		p.imports[named.Obj().Pkg().Path()] = ""
	}
	expr := fmt.Sprintf("(*%s)(nil).SchemaSSZ()", name)

	cont, ok := p.containers[named]
	if !ok {
		if named.Obj().Pkg() != p.pkg {
			// Foreign container, its size is up to its own schema
			return dynamicOpset(expr), nil
		}
		str, _ := named.Underlying().(*types.Struct)

		var err error
		if cont, err = p.newContainer(named, str); err != nil {
			return nil, err
		}
	}
	if cont.static {
		return &opset{schema: expr, bytes: cont.bytes, fixed: true}, nil
	}
	return dynamicOpset(expr), nil
}

// vectorOpset wraps an element opset into a vector of the given length.
func (p *parseContext) vectorOpset(elem *opset, length int) *opset {
	schema := fmt.Sprintf("%s(%s, %d)", p.qualify("MustVectorSchema"), elem.schema, length)
	if !elem.fixed {
		return dynamicOpset(schema)
	}
	return &opset{schema: schema, bytes: elem.bytes * length, fixed: true}
}
