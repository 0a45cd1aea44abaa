// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssz-tree/ssz"
	"gopkg.in/yaml.v3"
)

var errUnknownType = errors.New("unknown type")

// schemaDoc is the YAML document declaring a set of named ssz types.
type schemaDoc struct {
	Types map[string]typeDoc `yaml:"types"`
}

// typeDoc declares a single named type, either as a container of ordered
// fields or as an alias of a type expression.
type typeDoc struct {
	Container []fieldDoc `yaml:"container"`
	Type      string     `yaml:"type"`
}

// fieldDoc declares a single container field.
type fieldDoc struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	SuperNodeDepth int    `yaml:"super_node_depth"`
}

// primitives maps the names of the basic types to their schemas.
var primitives = map[string]ssz.Schema{
	"bit":     ssz.BitSchema,
	"bool":    ssz.BoolSchema,
	"boolean": ssz.BoolSchema,
	"byte":    ssz.Uint8Schema,
	"uint8":   ssz.Uint8Schema,
	"uint16":  ssz.Uint16Schema,
	"uint32":  ssz.Uint32Schema,
	"uint64":  ssz.Uint64Schema,
	"uint256": ssz.Uint256Schema,
	"bytes4":  ssz.Bytes4Schema,
	"bytes32": ssz.Bytes32Schema,
}

// registry resolves type expressions against the named types of a document.
type registry struct {
	docs      map[string]typeDoc
	resolved  map[string]ssz.Schema
	resolving map[string]bool
}

// loadSchemas parses a YAML schema document.
func loadSchemas(r io.Reader) (*registry, error) {
	var doc schemaDoc

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	reg := &registry{
		docs:      doc.Types,
		resolved:  make(map[string]ssz.Schema),
		resolving: make(map[string]bool),
	}
	// Resolve everything upfront to surface errors early
	for name := range doc.Types {
		if _, err := reg.lookup(name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// lookup returns the schema of a named type.
func (r *registry) lookup(name string) (ssz.Schema, error) {
	if s, ok := r.resolved[name]; ok {
		return s, nil
	}
	doc, ok := r.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownType, name)
	}
	if r.resolving[name] {
		return nil, fmt.Errorf("recursive type %s", name)
	}
	r.resolving[name] = true
	defer delete(r.resolving, name)

	var (
		s   ssz.Schema
		err error
	)
	switch {
	case len(doc.Container) > 0 && doc.Type != "":
		return nil, fmt.Errorf("type %s is both a container and an alias", name)
	case len(doc.Container) > 0:
		fields := make([]ssz.Field, len(doc.Container))
		for i, f := range doc.Container {
			fs, err := r.parseWithHints(f.Type, ssz.Hints{SuperNodeDepth: f.SuperNodeDepth})
			if err != nil {
				return nil, fmt.Errorf("type %s field %s: %w", name, f.Name, err)
			}
			fields[i] = ssz.Field{Name: f.Name, Schema: fs}
		}
		s, err = ssz.NewContainerSchema(name, fields...)
	default:
		s, err = r.parse(doc.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", name, err)
	}
	log.Debug("resolved schema", "name", name, "schema", s.String())
	r.resolved[name] = s
	return s, nil
}

// parse resolves a type expression such as uint64, list[Name,16], vector[bytes32,4],
// bitlist[2048] or union[null,uint64].
func (r *registry) parse(expr string) (ssz.Schema, error) {
	return r.parseWithHints(expr, ssz.Hints{})
}

func (r *registry) parseWithHints(expr string, hints ssz.Hints) (ssz.Schema, error) {
	expr = strings.TrimSpace(expr)

	open := strings.IndexByte(expr, '[')
	if open < 0 {
		if s, ok := primitives[strings.ToLower(expr)]; ok {
			return s, nil
		}
		return r.lookup(expr)
	}
	if !strings.HasSuffix(expr, "]") {
		return nil, fmt.Errorf("unterminated type expression %q", expr)
	}
	head := strings.ToLower(strings.TrimSpace(expr[:open]))
	args, err := splitArgs(expr[open+1 : len(expr)-1])
	if err != nil {
		return nil, fmt.Errorf("type expression %q: %w", expr, err)
	}
	switch head {
	case "list", "vector":
		if len(args) != 2 {
			return nil, fmt.Errorf("type expression %q: want element and length", expr)
		}
		elem, err := r.parse(args[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("type expression %q: %w", expr, err)
		}
		if head == "vector" {
			return ssz.NewVectorSchema(elem, n)
		}
		return ssz.NewListSchemaWithHints(elem, n, hints)

	case "bitlist", "bitvector":
		if len(args) != 1 {
			return nil, fmt.Errorf("type expression %q: want length", expr)
		}
		n, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("type expression %q: %w", expr, err)
		}
		if head == "bitvector" {
			return ssz.NewBitvectorSchema(n)
		}
		return ssz.NewListSchemaWithHints(ssz.BitSchema, n, hints)

	case "union":
		options := make([]ssz.Schema, len(args))
		for i, arg := range args {
			if lower := strings.ToLower(arg); lower == "null" || lower == "none" {
				continue
			}
			if options[i], err = r.parse(arg); err != nil {
				return nil, err
			}
		}
		return ssz.NewUnionSchema(options...)
	}
	return nil, fmt.Errorf("type expression %q: unknown constructor %s", expr, head)
}

// splitArgs splits the arguments of a type expression on the commas outside of
// any nested brackets.
func splitArgs(input string) ([]string, error) {
	var (
		args  []string
		depth int
		start int
	)
	for i, c := range input {
		switch c {
		case '[':
			depth++
		case ']':
			if depth--; depth < 0 {
				return nil, errors.New("unbalanced brackets")
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(input[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.New("unbalanced brackets")
	}
	args = append(args, strings.TrimSpace(input[start:]))
	for _, arg := range args {
		if arg == "" {
			return nil, errors.New("empty argument")
		}
	}
	return args, nil
}
