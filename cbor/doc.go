// Copyright 2026 Blink Labs Software
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

// Package cbor provides the canonical CBOR codec used for every wire type.
//
// This package wraps github.com/fxamacker/cbor/v2. Signatures and unit identifiers
// are computed over encoded bytes, so the codec only produces and only accepts one
// representation per value.
//
// # Key Types
//
// Embeddable types for struct encoding:
//   - StructAsArray: Embed to encode struct fields as CBOR array instead of map
//   - DecodeStoreCbor: Embed to preserve original CBOR bytes for hashing
//
// Utility types:
//   - RawMessage: Deferred decoding (like json.RawMessage)
//   - Tag, RawTag: CBOR semantic tags
//
// # Decoding
//
//   - Decode: first item, returns bytes consumed
//   - DecodeFirst: first item, returns trailing byte count
//   - DecodeStrict: exactly one item, no trailing bytes
//   - DecodeWrapped: a bytestring holding an encoded item
//
// All of them run Validate first and fail with ErrMalformedEncoding on truncated
// input, invalid headers and non-canonical encodings (overlong integers, indefinite
// lengths, unsorted or duplicate map keys, undersized bignums).
//
// # Critical Pattern: DecodeStoreCbor
//
// When a type needs its original CBOR bytes preserved for hashing:
//
//	type MyType struct {
//	    cbor.StructAsArray
//	    cbor.DecodeStoreCbor
//	    Field1 string
//	    Field2 int
//	}
//
//	func (m *MyType) UnmarshalCBOR(data []byte) error {
//	    return m.UnmarshalCborGeneric(data, m)
//	}
//
// Later, m.Cbor() returns the original bytes for hash computation.
package cbor
