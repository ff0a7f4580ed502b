// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// MaxNestedLevels is the deepest array/map/tag nesting accepted by the decoder
const MaxNestedLevels = 64

// Tags the decoder maps onto Go values that do not encode back to the same bytes
const (
	cborTagDateTimeString = 0
	cborTagEpochDateTime  = 1
	cborTagSelfDescribed  = 55799
)

// Validate checks that the first CBOR data item in the provided bytes is well-formed
// and canonical, and returns its length in bytes.
//
// The canonical form accepted here is the one produced by Encode:
//   - definite lengths only
//   - every head argument uses its shortest encoding
//   - bignums (tags 2 and 3) only for values that do not fit a plain integer, with
//     no leading zero bytes
//   - map keys strictly ascending by their encoded bytes (no duplicates)
//   - the only simple values are false, true and null (no floats)
//   - no date/time tags (0, 1) and no self-described CBOR tag (55799)
func Validate(data []byte) (int, error) {
	v := validator{data: data}
	if err := v.item(0); err != nil {
		return 0, err
	}
	return v.off, nil
}

type validator struct {
	data []byte
	off  int
}

// head parses an initial byte plus argument at the current offset
func (v *validator) head() (uint8, uint64, error) {
	start := v.off
	if v.off >= len(v.data) {
		return 0, 0, newMalformed(start, "unexpected end of data")
	}
	firstByte := v.data[v.off]
	majorType := firstByte & CborTypeMask
	additionalInfo := firstByte & 0x1f
	v.off++
	if majorType == CborTypeSimpleFloat {
		switch firstByte {
		case CborFalse, CborTrue, CborNull:
			return majorType, uint64(additionalInfo), nil
		case 0xff:
			return 0, 0, newMalformed(start, "unexpected break")
		default:
			return 0, 0, newMalformed(
				start,
				fmt.Sprintf("unsupported simple/float value 0x%x", firstByte),
			)
		}
	}
	var argLen int
	var minValue uint64
	switch {
	case additionalInfo < 24:
		return majorType, uint64(additionalInfo), nil
	case additionalInfo == 24:
		argLen, minValue = 1, 24
	case additionalInfo == 25:
		argLen, minValue = 2, 0x100
	case additionalInfo == 26:
		argLen, minValue = 4, 0x10000
	case additionalInfo == 27:
		argLen, minValue = 8, 0x100000000
	case additionalInfo == 31:
		return 0, 0, newMalformed(start, "indefinite length not allowed")
	default:
		return 0, 0, newMalformed(
			start,
			fmt.Sprintf("invalid additional info: %d", additionalInfo),
		)
	}
	if len(v.data)-v.off < argLen {
		return 0, 0, newMalformed(start, "unexpected end of data reading argument")
	}
	var arg uint64
	for i := range argLen {
		arg = arg<<8 | uint64(v.data[v.off+i])
	}
	v.off += argLen
	if arg < minValue {
		return 0, 0, newMalformed(start, "non-canonical argument encoding")
	}
	return majorType, arg, nil
}

// remaining returns the number of unread bytes
func (v *validator) remaining() uint64 {
	return uint64(len(v.data) - v.off)
}

func (v *validator) item(depth int) error {
	if depth > MaxNestedLevels {
		return newMalformed(v.off, "maximum nesting depth exceeded")
	}
	start := v.off
	majorType, arg, err := v.head()
	if err != nil {
		return err
	}
	switch majorType {
	case CborTypeUint, CborTypeNegInt, CborTypeSimpleFloat:
		return nil
	case CborTypeByteString, CborTypeTextString:
		if arg > v.remaining() {
			return newMalformed(start, "unexpected end of data reading string")
		}
		content := v.data[v.off : v.off+int(arg)]
		if majorType == CborTypeTextString && !utf8.Valid(content) {
			return newMalformed(start, "invalid UTF-8 text string")
		}
		v.off += int(arg)
		return nil
	case CborTypeArray:
		// Each item needs at least one byte
		if arg > v.remaining() {
			return newMalformed(start, "unexpected end of data reading array")
		}
		for range arg {
			if err := v.item(depth + 1); err != nil {
				return err
			}
		}
		return nil
	case CborTypeMap:
		if arg > v.remaining()/2 {
			return newMalformed(start, "unexpected end of data reading map")
		}
		var prevKey []byte
		for range arg {
			keyStart := v.off
			if err := v.item(depth + 1); err != nil {
				return err
			}
			key := v.data[keyStart:v.off]
			if prevKey != nil && bytes.Compare(prevKey, key) >= 0 {
				return newMalformed(keyStart, "map keys not in canonical order or duplicated")
			}
			prevKey = key
			if err := v.item(depth + 1); err != nil {
				return err
			}
		}
		return nil
	case CborTypeTag:
		switch arg {
		case CborTagPosBignum, CborTagNegBignum:
			return v.bignum(start)
		case cborTagDateTimeString, cborTagEpochDateTime, cborTagSelfDescribed:
			return newMalformed(start, fmt.Sprintf("unsupported tag %d", arg))
		}
		return v.item(depth + 1)
	}
	return newMalformed(start, "unknown major type")
}

// bignum validates the bytestring content of a bignum tag
func (v *validator) bignum(start int) error {
	contentStart := v.off
	majorType, arg, err := v.head()
	if err != nil {
		return err
	}
	if majorType != CborTypeByteString {
		return newMalformed(contentStart, "bignum content is not a bytestring")
	}
	if arg > v.remaining() {
		return newMalformed(contentStart, "unexpected end of data reading bignum")
	}
	content := v.data[v.off : v.off+int(arg)]
	v.off += int(arg)
	// Values up to 2^64-1 (or down to -2^64) have a plain integer encoding
	if len(content) <= 8 {
		return newMalformed(start, "non-canonical bignum for integer that fits 64 bits")
	}
	if content[0] == 0 {
		return newMalformed(start, "bignum has leading zero bytes")
	}
	return nil
}
