// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/ssz-tree/ssz"
	"gopkg.in/yaml.v3"
)

// render converts an ssz value into a YAML node in the layout used by the
// consensus spec test vectors: byte and bit collections as 0x prefixed hex,
// integers as decimal scalars.
func render(v ssz.Value) (*yaml.Node, error) {
	switch v := v.(type) {
	case ssz.Bit:
		return scalar(strconv.FormatBool(bool(v)), "!!bool"), nil
	case ssz.Bool:
		return scalar(strconv.FormatBool(bool(v)), "!!bool"), nil
	case ssz.Uint8:
		return scalar(strconv.FormatUint(uint64(v), 10), "!!int"), nil
	case ssz.Uint16:
		return scalar(strconv.FormatUint(uint64(v), 10), "!!int"), nil
	case ssz.Uint32:
		return scalar(strconv.FormatUint(uint64(v), 10), "!!int"), nil
	case ssz.Uint64:
		return scalar(strconv.FormatUint(uint64(v), 10), "!!int"), nil
	case ssz.Uint256:
		return scalar(v.Dec(), "!!int"), nil
	case ssz.Bytes4:
		return hexScalar(v[:]), nil
	case ssz.Bytes32:
		return hexScalar(v[:]), nil

	case *ssz.ContainerView:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for i, field := range v.Schema().(*ssz.ContainerSchema).Fields() {
			fv, err := v.Get(i)
			if err != nil {
				return nil, err
			}
			child, err := render(fv)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			node.Content = append(node.Content, scalar(field.Name, "!!str"), child)
		}
		return node, nil

	case *ssz.VectorView:
		if rawBytes(v.Schema()) {
			blob, err := v.Bytes()
			if err != nil {
				return nil, err
			}
			return hexScalar(blob), nil
		}
		elems, err := v.Elements()
		if err != nil {
			return nil, err
		}
		return sequence(elems)

	case *ssz.ListView:
		if rawBytes(v.Schema()) {
			blob, err := v.Bytes()
			if err != nil {
				return nil, err
			}
			return hexScalar(blob), nil
		}
		elems, err := v.Elements()
		if err != nil {
			return nil, err
		}
		return sequence(elems)

	case *ssz.UnionView:
		inner, err := v.Value()
		if err != nil {
			return nil, err
		}
		value := scalar("null", "!!null")
		if inner != nil {
			if value, err = render(inner); err != nil {
				return nil, err
			}
		}
		return &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				scalar("selector", "!!str"), scalar(strconv.Itoa(int(v.Selector())), "!!int"),
				scalar("value", "!!str"), value,
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// rawBytes reports whether a collection is rendered as its hex encoding rather
// than element by element.
func rawBytes(s ssz.Schema) bool {
	switch s.Kind() {
	case ssz.KindBitvector, ssz.KindBitlist:
		return true
	}
	switch s := s.(type) {
	case *ssz.VectorSchema:
		return ssz.SchemaEqual(s.Elem(), ssz.Uint8Schema)
	case *ssz.ListSchema:
		return ssz.SchemaEqual(s.Elem(), ssz.Uint8Schema)
	}
	return false
}

func sequence(elems []ssz.Value) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for i, elem := range elems {
		child, err := render(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		node.Content = append(node.Content, child)
	}
	return node, nil
}

func scalar(value string, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func hexScalar(blob []byte) *yaml.Node {
	return scalar("0x"+hex.EncodeToString(blob), "!!str")
}
