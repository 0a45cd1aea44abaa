// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz

import (
	"errors"
	"fmt"
	"io"
)

// ErrInvalidSchema is returned when a schema is declared with parameters that
// cannot be represented, such as zero length vectors or sizes beyond the range
// addressable by generalized indices.
var ErrInvalidSchema = errors.New("ssz: invalid schema")

// ErrDeserialization is the umbrella error wrapped by every decoding failure.
var ErrDeserialization = errors.New("ssz: deserialization failed")

// ErrIndexOutOfBounds is returned when a view is accessed at an index beyond the
// structural range implied by its schema.
var ErrIndexOutOfBounds = errors.New("ssz: index out of bounds")

// ErrListFull is returned when appending to a list that is at its limit.
var ErrListFull = fmt.Errorf("%w: list full", ErrIndexOutOfBounds)

// ErrSchemaMismatch is returned when a value or tree is used in a place that
// expects a different schema.
var ErrSchemaMismatch = errors.New("ssz: schema mismatch")

// ErrMaxLengthExceeded is returned when an encoding is larger than what the
// 4-byte offsets or the schema's length bounds permit.
var ErrMaxLengthExceeded = errors.New("ssz: maximum item size exceeded")

// ErrUnexpectedEOF is returned when the input ends before a value is complete.
var ErrUnexpectedEOF = fmt.Errorf("%w: %w", ErrDeserialization, io.ErrUnexpectedEOF)

// ErrObjectSlotSizeMismatch is returned when a fixed size object is given more
// data than it can consume.
var ErrObjectSlotSizeMismatch = fmt.Errorf("%w: object didn't consume all designated data", ErrDeserialization)

// ErrFirstOffsetMismatch is returned when parsing dynamic types and the first
// offset (which is supposed to signal the start of the dynamic area) does not
// match with the computed fixed area size.
var ErrFirstOffsetMismatch = fmt.Errorf("%w: first offset mismatch", ErrDeserialization)

// ErrBadOffsetProgression is returned when an offset is parsed, and is smaller
// than a previously seen offset (meaning negative dynamic data size).
var ErrBadOffsetProgression = fmt.Errorf("%w: offset smaller than previous", ErrDeserialization)

// ErrOffsetBeyondCapacity is returned when an offset is parsed, and is larger
// than the total capacity allowed by the decoder (i.e. message size)
var ErrOffsetBeyondCapacity = fmt.Errorf("%w: offset beyond capacity", ErrDeserialization)

// ErrMaxItemsExceeded is returned when the number of items in a dynamic list
// type is later than permitted.
var ErrMaxItemsExceeded = fmt.Errorf("%w: maximum item count exceeded", ErrDeserialization)

// ErrShortCounterOffset is returned if a counter offset it attempted to be read
// but there are fewer bytes available on the stream.
var ErrShortCounterOffset = fmt.Errorf("%w: insufficient data for 4-byte counter offset", ErrDeserialization)

// ErrBadCounterOffset is returned when a list of offsets are consumed and the
// first offset is not a multiple of 4-bytes.
var ErrBadCounterOffset = fmt.Errorf("%w: counter offset not multiple of 4-bytes", ErrDeserialization)

// ErrDynamicStaticsIndivisible is returned when a list of static objects is to
// be decoded, but the list's total length is not divisible by the item size.
var ErrDynamicStaticsIndivisible = fmt.Errorf("%w: list of fixed objects not divisible", ErrDeserialization)

// ErrVectorLengthMismatch is returned when the number of items in an encoded
// vector differs from the declared length.
var ErrVectorLengthMismatch = fmt.Errorf("%w: vector length mismatch", ErrDeserialization)

// ErrInvalidBoolean is returned when a boolean or a standalone bit is encoded
// as anything other than 0 or 1.
var ErrInvalidBoolean = fmt.Errorf("%w: invalid boolean", ErrDeserialization)

// ErrTrailingBits is returned when a bitvector has non-zero bits after its
// declared length in the last byte.
var ErrTrailingBits = fmt.Errorf("%w: bitvector trailing bits are not zero", ErrDeserialization)

// ErrMissingBitlistSentinel is returned when a bitlist does not end with the
// delimiting bit marking its length.
var ErrMissingBitlistSentinel = fmt.Errorf("%w: bitlist missing sentinel bit", ErrDeserialization)

// ErrInvalidUnionSelector is returned when a union's selector byte does not
// name one of its options, or a None option carries data.
var ErrInvalidUnionSelector = fmt.Errorf("%w: invalid union selector", ErrDeserialization)
