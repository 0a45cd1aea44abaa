// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz_test

import (
	"fmt"

	"github.com/ssz-tree/ssz"
)

var eth1DataSchema = ssz.MustContainerSchema("Eth1Data",
	ssz.Field{Name: "deposit_root", Schema: ssz.Bytes32Schema},
	ssz.Field{Name: "deposit_count", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "block_hash", Schema: ssz.Bytes32Schema},
)

func ExampleContainerSchema() {
	data, err := eth1DataSchema.New(ssz.Bytes32{}, ssz.Uint64(1), ssz.Bytes32{})
	if err != nil {
		panic(err)
	}
	blob, err := ssz.Serialize(data)
	if err != nil {
		panic(err)
	}
	fmt.Printf("size: %d\nssz: %#x\nhash: %#x\n", len(blob), blob, ssz.HashTreeRoot(data))
	// Output:
	// size: 72
	// ssz: 0x000000000000000000000000000000000000000000000000000000000000000001000000000000000000000000000000000000000000000000000000000000000000000000000000
	// hash: 0x4833912e1264aef8a18392d795f3f2eed17cf5c0e8471cb0c0db2ec5aca10231
}

func ExampleContainerView_SetField() {
	data := eth1DataSchema.Default().(*ssz.ContainerView)

	updated, err := data.SetField("deposit_count", ssz.Uint64(1))
	if err != nil {
		panic(err)
	}
	count, _ := data.Field("deposit_count")
	fmt.Printf("original count: %d\n", count)

	count, _ = updated.Field("deposit_count")
	fmt.Printf("updated count: %d\n", count)
	fmt.Printf("hash: %#x\n", ssz.HashTreeRoot(updated))
	// Output:
	// original count: 0
	// updated count: 1
	// hash: 0x4833912e1264aef8a18392d795f3f2eed17cf5c0e8471cb0c0db2ec5aca10231
}

func ExampleListView_Append() {
	schema := ssz.MustListSchema(ssz.Uint64Schema, 1024)

	list := schema.Default().(*ssz.ListView)
	for i := 1; i <= 3; i++ {
		var err error
		if list, err = list.Append(ssz.Uint64(i)); err != nil {
			panic(err)
		}
	}
	blob, _ := ssz.Serialize(list)
	fmt.Printf("len: %d\nssz: %#x\n", list.Len(), blob)
	// Output:
	// len: 3
	// ssz: 0x010000000000000002000000000000000300000000000000
}
