// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"math"
	"sort"
	"unicode"
	"unicode/utf8"
)

const (
	offsetBytes = 4
	sszPkgPath  = "github.com/ssz-tree/ssz"
)

type genContext struct {
	pkg     *types.Package
	imports map[string]string
}

func newGenContext(pkg *types.Package) *genContext {
	return &genContext{
		pkg:     pkg,
		imports: make(map[string]string),
	}
}

func (ctx *genContext) addImport(path string, alias string) error {
	if path == ctx.pkg.Path() {
		return nil
	}
	if n, ok := ctx.imports[path]; ok && n != alias {
		return fmt.Errorf("conflict import %s(alias: %s-%s)", path, n, alias)
	}
	ctx.imports[path] = alias
	return nil
}

func (ctx *genContext) header() []byte {
	var paths sort.StringSlice
	for path := range ctx.imports {
		paths = append(paths, path)
	}
	sort.Sort(paths)

	var b bytes.Buffer
	fmt.Fprint(&b, "// Code generated by github.com/ssz-tree/ssz/cmd/sszgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n", ctx.pkg.Name())
	if len(paths) == 0 {
		return b.Bytes()
	}
	fmt.Fprintf(&b, "import (\n")
	for _, path := range paths {
		alias := ctx.imports[path]
		if alias == "" {
			fmt.Fprintf(&b, "\"%s\"\n", path)
		} else {
			fmt.Fprintf(&b, "%s \"%s\"\n", alias, path)
		}
	}
	fmt.Fprintf(&b, ")\n")
	return b.Bytes()
}

// schemaVar returns the name of the package variable holding the schema of a
// container.
func schemaVar(typ *sszContainer) string {
	name := typ.named.Obj().Name()
	r, n := utf8.DecodeRuneInString(name)
	return "schema" + string(unicode.ToUpper(r)) + name[n:]
}

func generateSchemaSSZ(pctx *parseContext, typ *sszContainer) ([]byte, error) {
	var b bytes.Buffer

	// Iterate through the fields names to compute some comment formatting mods
	var (
		maxFieldLength = 0
		maxBytes       = 0
	)
	for i, field := range typ.fields {
		maxFieldLength = max(maxFieldLength, len(field))
		maxBytes = max(maxBytes, typ.opsets[i].bytes)
	}
	var (
		indexRule = fmt.Sprintf("%%%dd", max(1, int(math.Ceil(math.Log10(float64(len(typ.fields)+1))))))
		nameRule  = fmt.Sprintf("%%%ds", maxFieldLength)
		sizeRule  = fmt.Sprintf("%%%dd", max(1, int(math.Ceil(math.Log10(float64(maxBytes+1))))))
	)
	name := typ.named.Obj().Name()

	// Generate the code itself
	fmt.Fprint(&b, "// SchemaSSZ returns the schema describing the ssz encoding and hashing of the\n// object.\n")
	fmt.Fprintf(&b, "func (obj *%s) SchemaSSZ() *%s {\n", name, pctx.qualify("ContainerSchema"))
	fmt.Fprintf(&b, "return %s\n", schemaVar(typ))
	fmt.Fprint(&b, "}\n\n")

	fmt.Fprintf(&b, "var %s = %s(%q,\n", schemaVar(typ), pctx.qualify("MustContainerSchema"), name)
	fieldType := pctx.qualify("Field")
	for i, field := range typ.fields {
		opset := typ.opsets[i]
		if opset.fixed {
			fmt.Fprintf(&b, "%s{Name: %q, Schema: %s}, // Field  ("+indexRule+") - "+nameRule+" - "+sizeRule+" bytes\n", fieldType, field, opset.schema, i, field, opset.bytes)
		} else {
			fmt.Fprintf(&b, "%s{Name: %q, Schema: %s}, // Offset ("+indexRule+") - "+nameRule+" - "+sizeRule+" bytes\n", fieldType, field, opset.schema, i, field, offsetBytes)
		}
	}
	fmt.Fprint(&b, ")\n")
	return b.Bytes(), nil
}

// generate creates the formatted source code of the schema declarations of the
// given containers, and of any container of the package they embed.
func generate(pctx *parseContext, conts []*sszContainer) ([]byte, error) {
	ctx := newGenContext(pctx.pkg)
	if err := ctx.addImport(sszPkgPath, ""); err != nil {
		return nil, err
	}
	for path, alias := range pctx.imports {
		if err := ctx.addImport(path, alias); err != nil {
			return nil, err
		}
	}
	// Nested containers of the package need their schemas too
	done := make(map[*sszContainer]bool)
	for _, typ := range conts {
		done[typ] = true
	}
	var nested []*sszContainer
	for _, typ := range pctx.containers {
		if !done[typ] {
			nested = append(nested, typ)
		}
	}
	sort.Slice(nested, func(i, j int) bool {
		return nested[i].named.Obj().Name() < nested[j].named.Obj().Name()
	})
	codes := [][]byte{ctx.header()}
	for _, typ := range append(conts, nested...) {
		code, err := generateSchemaSSZ(pctx, typ)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	source := bytes.Join(codes, []byte("\n"))

	formatted, err := format.Source(source)
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %v\n%s", err, source)
	}
	return formatted, nil
}
