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
	"errors"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	cachedEncMode     _cbor.EncMode
	cachedEncModeErr  error
	cachedEncModeOnce sync.Once
)

// getEncMode returns a cached EncMode, initializing it on first use
func getEncMode() (_cbor.EncMode, error) {
	cachedEncModeOnce.Do(func() {
		encOptions := _cbor.EncOptions{
			// Map keys are ordered bytewise by their encoding
			Sort: _cbor.SortCoreDeterministic,
			// Signatures and unit IDs are computed over these bytes, so lengths
			// must always be explicit
			IndefLength:   _cbor.IndefLengthForbidden,
			BigIntConvert: _cbor.BigIntConvertShortest,
			NilContainers: _cbor.NilContainerAsNull,
		}
		cachedEncMode, cachedEncModeErr = encOptions.EncMode()
	})
	return cachedEncMode, cachedEncModeErr
}

// Encode encodes the provided value into its canonical CBOR representation
func Encode(data any) ([]byte, error) {
	em, err := getEncMode()
	if err != nil {
		return nil, err
	}
	if em == nil {
		return nil, errors.New("CBOR encoder mode not initialized")
	}
	return em.Marshal(data)
}

// EncodeWrapped encodes the provided value and wraps the result in a CBOR bytestring
func EncodeWrapped(data any) ([]byte, error) {
	inner, err := Encode(data)
	if err != nil {
		return nil, err
	}
	return Encode(inner)
}
