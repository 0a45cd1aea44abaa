// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"go/types"
)

// parseContext tracks the containers resolved while parsing a package.
type parseContext struct {
	pkg        *types.Package
	ssz        string // Qualifier of the ssz package in generated code
	containers map[*types.Named]*sszContainer
	resolving  map[*types.Named]bool
	imports    map[string]string
}

func newParseContext(pkg *types.Package) *parseContext {
	p := &parseContext{
		pkg:        pkg,
		containers: make(map[*types.Named]*sszContainer),
		resolving:  make(map[*types.Named]bool),
		imports:    make(map[string]string),
	}
	if pkg.Path() != sszPkgPath {
		p.ssz = pkgName(sszPkgPath)
	}
	return p
}

// qualify returns the reference to an identifier of the ssz package.
func (p *parseContext) qualify(name string) string {
	if p.ssz == "" {
		return name
	}
	return p.ssz + "." + name
}

type sszContainer struct {
	*types.Struct
	named  *types.Named
	static bool
	bytes  int // Size of the fixed part
	fields []string
	opsets []*opset
}

func (p *parseContext) newContainer(named *types.Named, typ *types.Struct) (*sszContainer, error) {
	if cont, ok := p.containers[named]; ok {
		return cont, nil
	}
	if p.resolving[named] {
		return nil, fmt.Errorf("recursive container type %s", named.Obj().Name())
	}
	p.resolving[named] = true
	defer delete(p.resolving, named)

	var (
		static = true
		bytes  int
		fields []string
		opsets []*opset
	)
	// Iterate over all the fields of the struct
	for i := 0; i < typ.NumFields(); i++ {
		// Skip private fields, and skip ignored ssz fields
		f := typ.Field(i)
		if !f.Exported() {
			continue
		}
		ignore, tags, err := parseTags(typ.Tag(i))
		if err != nil {
			return nil, fmt.Errorf("failed to parse tags of field %s.%s: %v", named.Obj().Name(), f.Name(), err)
		}
		if ignore {
			continue
		}
		// Required field found, validate type with tag content
		opset, err := p.resolveOpset(f.Type(), tags)
		if err != nil {
			return nil, fmt.Errorf("failed to validate field %s.%s: %v", named.Obj().Name(), f.Name(), err)
		}
		if !opset.fixed {
			static = false
		}
		bytes += opset.bytes
		fields = append(fields, f.Name())
		opsets = append(opsets, opset)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("container %s has no ssz fields", named.Obj().Name())
	}
	cont := &sszContainer{
		Struct: typ,
		named:  named,
		static: static,
		bytes:  bytes,
		fields: fields,
		opsets: opsets,
	}
	p.containers[named] = cont
	return cont, nil
}

// resolveOpset compares the type of the field to the provided tags and returns
// the schema it maps to, or an error if there's a collision between them, or if
// more tags are needed to fully derive the size.
func (p *parseContext) resolveOpset(typ types.Type, tags *sizeTag) (*opset, error) {
	switch t := typ.(type) {
	case *types.Named:
		if isBitlist(t) {
			return p.resolveBitlistOpset(tags)
		}
		if isBitvector(t) {
			return p.resolveBitvectorOpset(0, tags)
		}
		if _, ok := t.Underlying().(*types.Struct); ok {
			return p.resolveContainerOpset(t, tags)
		}
		return p.resolveOpset(t.Underlying(), tags)

	case *types.Basic:
		return p.resolveBasicOpset(t, tags)

	case *types.Array:
		return p.resolveArrayOpset(t.Elem(), int(t.Len()), tags)

	case *types.Slice:
		return p.resolveSliceOpset(t.Elem(), tags)

	case *types.Pointer:
		return p.resolvePointerOpset(t, tags)
	}
	return nil, fmt.Errorf("unsupported type %s", typ.String())
}
