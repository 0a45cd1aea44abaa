// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		ignored bool
		want    *sizeTag
	}{
		{``, false, nil},
		{`json:"a"`, false, nil},
		{`ssz:"-"`, true, nil},
		{`ssz-size:"32"`, false, &sizeTag{size: []int{32}}},
		{`ssz-max:"16"`, false, &sizeTag{limit: []int{16}}},
		{`ssz-size:"?,32" ssz-max:"1024"`, false, &sizeTag{size: []int{0, 32}, limit: []int{1024}}},
		{`ssz:"bits" ssz-max:"2048"`, false, &sizeTag{bits: true, limit: []int{2048}}},
		{`json:"root" ssz-size:"4,32"`, false, &sizeTag{size: []int{4, 32}}},
	}
	for _, tt := range tests {
		ignored, tags, err := parseTags(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.ignored, ignored, tt.input)
		assert.Equal(t, tt.want, tags, tt.input)
	}
}

func TestParseTagsErrors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		`ssz:"unknown"`,
		`ssz-size:"a"`,
		`ssz-max:"0"`,
		`ssz-max:"-4"`,
		`ssz-size:"4,"`,
	} {
		_, _, err := parseTags(input)
		assert.Error(t, err, input)
	}
}

func TestSizeTagDimensions(t *testing.T) {
	t.Parallel()

	tags := &sizeTag{size: []int{0, 32}, limit: []int{1024}}
	assert.Equal(t, 0, tags.sizeAt(0))
	assert.Equal(t, 1024, tags.limitAt(0))

	inner := tags.inner()
	require.NotNil(t, inner)
	assert.Equal(t, []int{32}, inner.size)
	assert.Nil(t, inner.limit)
	assert.Nil(t, inner.inner())

	var none *sizeTag
	assert.Equal(t, 0, none.sizeAt(0))
	assert.Nil(t, none.inner())
}
