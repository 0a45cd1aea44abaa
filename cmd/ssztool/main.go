// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

// ssztool inspects ssz encodings against the types declared in a YAML schema
// document.
package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/golang/snappy"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/ssz-tree/ssz"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

const snappySuffix = ".ssz_snappy"

var log = logger.GetOrCreate("ssztool")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error("ssztool failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ssztool"
	app.Usage = "Decodes, hashes and generates ssz encodings of declared types"
	app.Flags = []cli.Flag{schemaFile, typeName, logLevel}
	app.Before = func(c *cli.Context) error {
		return logger.SetLogLevel(c.GlobalString(logLevel.Name))
	}
	app.Commands = []cli.Command{
		{
			Name:      "root",
			Usage:     "Prints the hash tree root of an encoded value",
			ArgsUsage: "<file>",
			Action:    rootCommand,
		},
		{
			Name:      "decode",
			Usage:     "Prints an encoded value as YAML",
			ArgsUsage: "<file>",
			Action:    decodeCommand,
		},
		{
			Name:      "inspect",
			Usage:     "Prints the size and the hash tree roots of the fields of an encoded value",
			ArgsUsage: "<file>",
			Action:    inspectCommand,
		},
		{
			Name:   "encode-default",
			Usage:  "Writes the encoding of the default value of the type",
			Flags:  []cli.Flag{outputFile, compress},
			Action: encodeDefaultCommand,
		},
	}
	return app
}

// resolveType loads the schema document and resolves the requested type.
func resolveType(c *cli.Context) (ssz.Schema, error) {
	name := c.GlobalString(typeName.Name)
	if name == "" {
		return nil, fmt.Errorf("missing --%s", typeName.Name)
	}
	reg := &registry{
		docs:      map[string]typeDoc{},
		resolved:  map[string]ssz.Schema{},
		resolving: map[string]bool{},
	}
	path := c.GlobalString(schemaFile.Name)
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if reg, err = loadSchemas(f); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !c.GlobalIsSet(schemaFile.Name):
		// Only inline type expressions are available
		log.Debug("no schema document", "path", path)
	default:
		return nil, err
	}
	return reg.parse(name)
}

// readInput loads the encoded value to operate on, decompressing it if the
// file carries the snappy suffix of the consensus spec test vectors.
func readInput(c *cli.Context) ([]byte, error) {
	if c.NArg() != 1 {
		return nil, errors.New("expected a single input file")
	}
	path := c.Args().First()
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, snappySuffix) {
		if blob, err = snappy.Decode(nil, blob); err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
	}
	log.Debug("loaded input", "path", path, "size", len(blob))
	return blob, nil
}

func decodeInput(c *cli.Context) (ssz.Value, error) {
	schema, err := resolveType(c)
	if err != nil {
		return nil, err
	}
	blob, err := readInput(c)
	if err != nil {
		return nil, err
	}
	return ssz.Deserialize(schema, blob)
}

func rootCommand(c *cli.Context) error {
	value, err := decodeInput(c)
	if err != nil {
		return err
	}
	root := ssz.HashTreeRoot(value)
	_, err = fmt.Fprintf(c.App.Writer, "0x%x\n", root[:])
	return err
}

func decodeCommand(c *cli.Context) error {
	value, err := decodeInput(c)
	if err != nil {
		return err
	}
	node, err := render(value)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

func inspectCommand(c *cli.Context) error {
	value, err := decodeInput(c)
	if err != nil {
		return err
	}
	size, err := ssz.Size(value)
	if err != nil {
		return err
	}
	root := ssz.HashTreeRoot(value)

	w := c.App.Writer
	fmt.Fprintf(w, "type: %s\n", value.Schema())
	fmt.Fprintf(w, "size: %d\n", size)
	fmt.Fprintf(w, "root: 0x%x\n", root[:])

	cont, ok := value.(*ssz.ContainerView)
	if !ok {
		return nil
	}
	fmt.Fprintln(w, "fields:")
	for i, field := range cont.Schema().(*ssz.ContainerSchema).Fields() {
		fv, err := cont.Get(i)
		if err != nil {
			return err
		}
		root := ssz.HashTreeRoot(fv)
		fmt.Fprintf(w, "  %s: 0x%x\n", field.Name, root[:])
	}
	return nil
}

func encodeDefaultCommand(c *cli.Context) error {
	schema, err := resolveType(c)
	if err != nil {
		return err
	}
	blob, err := ssz.Serialize(schema.Default())
	if err != nil {
		return err
	}
	if c.Bool(compress.Name) {
		blob = snappy.Encode(nil, blob)
	}
	if out := c.String(outputFile.Name); out != "" {
		log.Info("writing default encoding", "type", schema.String(), "path", out, "size", len(blob))
		return os.WriteFile(out, blob, 0644)
	}
	var b bytes.Buffer
	b.WriteString("0x")
	b.WriteString(hex.EncodeToString(blob))
	b.WriteByte('\n')
	_, err = c.App.Writer.Write(b.Bytes())
	return err
}
