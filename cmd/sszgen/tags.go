// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const (
	sszTagIdent     = "ssz"
	sszSizeTagIdent = "ssz-size"
	sszMaxTagIdent  = "ssz-max"
)

// sizeTag describes the size restriction for types, one entry per dimension
// starting with the outermost one.
type sizeTag struct {
	bits  bool  // Whether the bytes of the field are a bitvector or bitlist
	size  []int // 0 means the size is undefined for a dimension
	limit []int // 0 means the limit is undefined for a dimension
}

// parseTags parses the ssz tags of a struct field. The returned tag is nil if
// none of the ssz tags are present.
func parseTags(input string) (bool, *sizeTag, error) {
	var (
		tag     = reflect.StructTag(input)
		ignored bool
		tags    *sizeTag
	)
	if v, ok := tag.Lookup(sszTagIdent); ok {
		switch v {
		case "-":
			ignored = true
		case "bits":
			tags = &sizeTag{bits: true}
		default:
			return false, nil, fmt.Errorf("invalid ssz tag %q", v)
		}
	}
	for _, ident := range []string{sszSizeTagIdent, sszMaxTagIdent} {
		v, ok := tag.Lookup(ident)
		if !ok {
			continue
		}
		dims, err := parseDims(v)
		if err != nil {
			return false, nil, fmt.Errorf("invalid %s tag %q: %v", ident, v, err)
		}
		if tags == nil {
			tags = new(sizeTag)
		}
		if ident == sszSizeTagIdent {
			tags.size = dims
		} else {
			tags.limit = dims
		}
	}
	return ignored, tags, nil
}

// parseDims parses a comma separated list of dimension sizes, with ? marking an
// undefined one.
func parseDims(input string) ([]int, error) {
	var dims []int
	for _, p := range strings.Split(input, ",") {
		if p == "?" {
			dims = append(dims, 0)
			continue
		}
		num, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if num <= 0 {
			return nil, fmt.Errorf("non-positive dimension %d", num)
		}
		dims = append(dims, num)
	}
	return dims, nil
}

// sizeAt returns the size restriction of the i-th dimension.
func (t *sizeTag) sizeAt(i int) int {
	if t == nil || i >= len(t.size) {
		return 0
	}
	return t.size[i]
}

// limitAt returns the limit restriction of the i-th dimension.
func (t *sizeTag) limitAt(i int) int {
	if t == nil || i >= len(t.limit) {
		return 0
	}
	return t.limit[i]
}

// inner returns the restrictions of the dimensions below the outermost one, or
// nil if there are none.
func (t *sizeTag) inner() *sizeTag {
	if t == nil || (len(t.size) <= 1 && len(t.limit) <= 1) {
		return nil
	}
	next := &sizeTag{bits: t.bits}
	if len(t.size) > 1 {
		next.size = t.size[1:]
	}
	if len(t.limit) > 1 {
		next.limit = t.limit[1:]
	}
	return next
}
