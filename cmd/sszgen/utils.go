// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"go/types"
	"strings"
)

const bitfieldPkgPath = "github.com/prysmaticlabs/go-bitfield"

func pkgName(pkgPath string) string {
	index := strings.LastIndex(pkgPath, "/")
	if index == -1 {
		return pkgPath // universal package
	}
	return pkgPath[index+1:]
}

// isNamed checks whether 'typ' is the named type 'name' of package 'path'.
func isNamed(typ types.Type, path string, name string) bool {
	named, ok := typ.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == path && obj.Name() == name
}

// isUint256 checks whether 'typ' is "github.com/holiman/uint256".Int.
func isUint256(typ types.Type) bool {
	return isNamed(typ, "github.com/holiman/uint256", "Int")
}

// isBitlist checks whether 'typ' is "github.com/prysmaticlabs/go-bitfield".Bitlist.
func isBitlist(typ types.Type) bool {
	return isNamed(typ, bitfieldPkgPath, "Bitlist")
}

// isBitvector checks whether 'typ' is one of the go-bitfield bitvector types.
func isBitvector(typ types.Type) bool {
	named, ok := typ.(*types.Named)
	if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != bitfieldPkgPath {
		return false
	}
	return strings.HasPrefix(named.Obj().Name(), "Bitvector")
}
