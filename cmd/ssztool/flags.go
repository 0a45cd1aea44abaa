// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import "github.com/urfave/cli"

var (
	filePathPlaceholder = "[path]"

	// schemaFile defines a flag for the path of the YAML schema document.
	schemaFile = cli.StringFlag{
		Name:  "schema",
		Usage: "The `" + filePathPlaceholder + "` of the YAML document declaring the ssz types",
		Value: "./schema.yaml",
	}
	// typeName defines a flag for the declared type to operate on.
	typeName = cli.StringFlag{
		Name:  "type",
		Usage: "The name of the declared type, or a type expression such as list[uint64,1024]",
	}
	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,schema:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the schema package which will receive a DEBUG" +
			" log level.",
		Value: "*:INFO",
	}
	// outputFile defines a flag for the path to write the output into.
	outputFile = cli.StringFlag{
		Name:  "out",
		Usage: "The `" + filePathPlaceholder + "` of the output file (default hex on stdout)",
	}
	// compress defines a flag for snappy compressing the written output.
	compress = cli.BoolFlag{
		Name:  "snappy",
		Usage: "Compress the written encoding with snappy",
	}
)
