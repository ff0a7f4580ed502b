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

package cbor

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

// getDecMode returns a cached DecMode, initializing it on first use.
// Uses sync.Once for thread-safe lazy initialization.
// Returns the cached error if initialization failed.
func getDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		decOptions := _cbor.DecOptions{
			ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
			DupMapKey:         _cbor.DupMapKeyEnforcedAPF,
			IndefLength:       _cbor.IndefLengthForbidden,
			MaxNestedLevels:   MaxNestedLevels,
		}
		cachedDecMode, cachedDecModeErr = decOptions.DecMode()
	})
	return cachedDecMode, cachedDecModeErr
}

// Decode decodes the first CBOR data item in dataBytes into dest and returns the number
// of bytes consumed. Any bytes after the first item are left untouched. The item must
// be in canonical form
func Decode(dataBytes []byte, dest any) (int, error) {
	itemLen, err := Validate(dataBytes)
	if err != nil {
		return 0, err
	}
	decMode, err := getDecMode()
	if err != nil {
		return 0, err
	}
	if decMode == nil {
		return 0, errors.New("CBOR decoder mode not initialized")
	}
	if err := decMode.Unmarshal(dataBytes[:itemLen], dest); err != nil {
		var malformed *MalformedEncodingError
		if errors.As(err, &malformed) {
			return 0, err
		}
		return 0, &MalformedEncodingError{
			Offset: 0,
			Reason: fmt.Sprintf("cannot decode into %T", dest),
			Err:    err,
		}
	}
	return itemLen, nil
}

// DecodeFirst decodes exactly one top-level CBOR data item into dest and returns the
// number of trailing bytes which follow it
func DecodeFirst(dataBytes []byte, dest any) (int, error) {
	bytesRead, err := Decode(dataBytes, dest)
	if err != nil {
		return 0, err
	}
	return len(dataBytes) - bytesRead, nil
}

// DecodeStrict decodes dataBytes into dest, failing if any bytes follow the first item
func DecodeStrict(dataBytes []byte, dest any) error {
	trailing, err := DecodeFirst(dataBytes, dest)
	if err != nil {
		return err
	}
	if trailing > 0 {
		return newMalformed(
			len(dataBytes)-trailing,
			fmt.Sprintf("%d trailing bytes after data item", trailing),
		)
	}
	return nil
}

// DecodeWrapped decodes a CBOR bytestring whose content is itself a single CBOR data
// item. It returns the number of bytes consumed from dataBytes
func DecodeWrapped(dataBytes []byte, dest any) (int, error) {
	if len(dataBytes) == 0 {
		return 0, newMalformed(0, "unexpected end of data")
	}
	if dataBytes[0]&CborTypeMask != CborTypeByteString {
		return 0, newMalformed(
			0,
			fmt.Sprintf("expected bytestring (0x%x), got 0x%x", CborTypeByteString, dataBytes[0]&CborTypeMask),
		)
	}
	var inner []byte
	bytesRead, err := Decode(dataBytes, &inner)
	if err != nil {
		return 0, err
	}
	if err := DecodeStrict(inner, dest); err != nil {
		return 0, fmt.Errorf("decode wrapped item: %w", err)
	}
	return bytesRead, nil
}

// ListLength returns the item count of the definite length array at the start of the
// provided data. Only the array header is inspected
func ListLength(cborData []byte) (int, error) {
	if len(cborData) == 0 || cborData[0]&CborTypeMask != CborTypeArray {
		return 0, newMalformed(0, "data is not a CBOR array")
	}
	v := validator{data: cborData}
	_, count, err := v.head()
	if err != nil {
		return 0, err
	}
	if count > math.MaxInt32 {
		return 0, newMalformed(0, "array length too large")
	}
	return int(count), nil
}

var (
	decodeGenericTypeCache      = map[reflect.Type]reflect.Type{}
	decodeGenericTypeCacheMutex sync.RWMutex
)

// DecodeGeneric decodes the specified CBOR into the destination object without using the
// destination object's UnmarshalCBOR() function
func DecodeGeneric(cborData []byte, dest any) error {
	// Get destination type
	valueDest := reflect.ValueOf(dest)
	if valueDest.Kind() != reflect.Pointer ||
		valueDest.Elem().Kind() != reflect.Struct {
		return errors.New("destination must be a pointer to a struct")
	}
	typeDest := valueDest.Elem().Type()
	// Check type cache
	decodeGenericTypeCacheMutex.RLock()
	tmpTypeDest, ok := decodeGenericTypeCache[typeDest]
	decodeGenericTypeCacheMutex.RUnlock()
	if !ok {
		// Create a duplicate(-ish) struct from the destination
		// We do this so that we can bypass any custom UnmarshalCBOR() function on the
		// destination object
		destTypeFields := []reflect.StructField{}
		for i := range typeDest.NumField() {
			tmpField := typeDest.Field(i)
			if tmpField.IsExported() && tmpField.Name != "DecodeStoreCbor" {
				destTypeFields = append(destTypeFields, tmpField)
			}
		}
		tmpTypeDest = reflect.StructOf(destTypeFields)
		// Populate cache
		decodeGenericTypeCacheMutex.Lock()
		decodeGenericTypeCache[typeDest] = tmpTypeDest
		decodeGenericTypeCacheMutex.Unlock()
	}
	// Create temporary object with the type created above
	tmpDest := reflect.New(tmpTypeDest)
	// Decode CBOR into temporary object
	if err := DecodeStrict(cborData, tmpDest.Interface()); err != nil {
		return err
	}
	// Copy values from temporary object into destination object
	if err := copier.Copy(dest, tmpDest.Interface()); err != nil {
		return err
	}
	return nil
}
