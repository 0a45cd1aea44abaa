// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

// sszgen generates the ssz schema declarations of Go structs, deriving the
// collection bounds from ssz-size and ssz-max struct tags.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"
	"golang.org/x/tools/go/packages"
)

var (
	// packageDir defines a flag for the directory of the package to load.
	packageDir = cli.StringFlag{
		Name:  "dir",
		Usage: "The `[path]` of the package containing the types",
		Value: ".",
	}
	// typeNames defines a flag for the types to generate schemas for.
	typeNames = cli.StringFlag{
		Name:  "type",
		Usage: "Comma separated list of types to generate schemas for (default all structs)",
	}
	// outputFile defines a flag for the file to write the generated code into.
	outputFile = cli.StringFlag{
		Name:  "out",
		Usage: "The `[path]` of the output file (default stdout)",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "sszgen"
	app.Usage = "Generates ssz container schemas from Go struct declarations"
	app.Flags = []cli.Flag{packageDir, typeNames, outputFile}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	var names []string
	if types := c.String(typeNames.Name); types != "" {
		names = strings.Split(types, ",")
	}
	code, err := generateDir(c.String(packageDir.Name), names)
	if err != nil {
		return err
	}
	if out := c.String(outputFile.Name); out != "" {
		return os.WriteFile(out, code, 0644)
	}
	_, err = os.Stdout.Write(code)
	return err
}

// generateDir loads the Go package from a directory and generates the schemas
// of the requested types.
func generateDir(dir string, names []string) ([]byte, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports | packages.NeedDeps,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, err
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected one package in %s, found %d", dir, len(pkgs))
	}
	if len(pkgs[0].Errors) > 0 {
		var errs []error
		for _, err := range pkgs[0].Errors {
			errs = append(errs, err)
		}
		return nil, errors.Join(errs...)
	}
	ctx, conts, err := parsePackage(pkgs[0].Types, names)
	if err != nil {
		return nil, err
	}
	if len(conts) == 0 {
		return nil, fmt.Errorf("no struct types found in %s", pkgs[0].PkgPath)
	}
	return generate(ctx, conts)
}
