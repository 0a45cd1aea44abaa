// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"go/types"
)

// parsePackage resolves the schemas of the named structs of a package. If no
// names are given, every struct declared in the package is resolved.
func parsePackage(pkg *types.Package, names []string) (*parseContext, []*sszContainer, error) {
	explicit := len(names) > 0
	if !explicit {
		names = pkg.Scope().Names()
	}
	var (
		ctx   = newParseContext(pkg)
		conts []*sszContainer
	)
	for _, name := range names {
		named, str, err := lookupStruct(pkg.Scope(), name)
		if err != nil {
			if explicit {
				return nil, nil, err
			}
			continue
		}
		typ, err := ctx.newContainer(named, str)
		if err != nil {
			return nil, nil, err
		}
		conts = append(conts, typ)
	}
	return ctx, conts, nil
}

func lookupStruct(scope *types.Scope, name string) (*types.Named, *types.Struct, error) {
	obj := scope.Lookup(name)
	if obj == nil {
		return nil, nil, fmt.Errorf("identifier not found: %s", name)
	}
	typ, ok := obj.(*types.TypeName)
	if !ok {
		return nil, nil, fmt.Errorf("identifier not a type: %s", name)
	}
	dec, ok := typ.Type().(*types.Named)
	if !ok {
		return nil, nil, fmt.Errorf("identifier not a named type: %s", name)
	}
	str, ok := dec.Underlying().(*types.Struct)
	if !ok {
		return nil, nil, fmt.Errorf("identifier not a named struct: %s", name)
	}
	return dec, str, nil
}
