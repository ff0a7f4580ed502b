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

package types_test

import (
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMintAttributes struct {
	cbor.StructAsArray
	TypeID         types.UnitID
	Value          uint64
	OwnerPredicate []byte
}

func TestNewUnitID(t *testing.T) {
	id := types.NewUnitID([]byte{0xab, 0xcd}, 0x21)
	require.Len(t, id, types.UnitIDLength)
	assert.Equal(t, byte(0x21), id.TypeTag())
	assert.True(t, id.HasType(0x21))
	assert.False(t, id.HasType(0x20))
	assert.Equal(t, []byte{0xab, 0xcd}, id.HashPart()[30:])
	assert.Equal(t, make([]byte, 30), id.HashPart()[:30])
	assert.NoError(t, id.Validate())

	// Longer hashes keep their rightmost bytes
	long := make([]byte, 40)
	long[39] = 0x07
	long[0] = 0xff
	id = types.NewUnitID(long, 0x01)
	assert.Equal(t, long[8:], id.HashPart())
}

func TestUnitIDValidate(t *testing.T) {
	assert.Error(t, types.UnitID(nil).Validate())
	assert.Error(t, types.UnitID(make([]byte, 32)).Validate())
	assert.Equal(t, byte(0), types.UnitID(nil).TypeTag())
}

func TestUnitIDHexAndJSON(t *testing.T) {
	id := types.NewUnitID(types.Sha256([]byte("unit")), 0x23)
	parsed, err := types.NewUnitIDFromHex("0x" + id.String())
	require.NoError(t, err)
	assert.True(t, id.Eq(parsed))
	parsed, err = types.NewUnitIDFromHex(id.String())
	require.NoError(t, err)
	assert.True(t, id.Eq(parsed))
	_, err = types.NewUnitIDFromHex("0x0102")
	assert.Error(t, err)
	_, err = types.NewUnitIDFromHex("zz")
	assert.Error(t, err)

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"0x`+id.String()+`"`, string(data))
	var decoded types.UnitID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestNewTokenUnitIDRequiresInputs(t *testing.T) {
	_, err := types.NewTokenUnitID(&testMintAttributes{}, nil, 0x21)
	assert.Error(t, err)
	_, err = types.NewTokenUnitID(nil, &types.ClientMetadata{}, 0x21)
	assert.Error(t, err)
}

func TestNewTokenUnitIDDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	build := func(value, timeout, maxFee uint64, owner []byte) (types.UnitID, error) {
		return types.NewTokenUnitID(
			&testMintAttributes{
				TypeID:         types.NewUnitID([]byte{1}, 0x20),
				Value:          value,
				OwnerPredicate: owner,
			},
			&types.ClientMetadata{
				Timeout:           timeout,
				MaxTransactionFee: maxFee,
			},
			0x21,
		)
	}

	properties.Property("identical inputs produce identical identifiers", prop.ForAll(
		func(value, timeout, maxFee uint64, owner []byte) bool {
			a, err := build(value, timeout, maxFee, owner)
			if err != nil {
				return false
			}
			b, err := build(value, timeout, maxFee, owner)
			if err != nil {
				return false
			}
			return a.Eq(b) && a.HasType(0x21)
		},
		gen.UInt64(),
		gen.UInt64(),
		gen.UInt64(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("changing any input changes the identifier", prop.ForAll(
		func(value, timeout, maxFee uint64, owner []byte) bool {
			base, err := build(value, timeout, maxFee, owner)
			if err != nil {
				return false
			}
			variants := [][4]any{
				{value + 1, timeout, maxFee, owner},
				{value, timeout + 1, maxFee, owner},
				{value, timeout, maxFee + 1, owner},
				{value, timeout, maxFee, append([]byte{0x01}, owner...)},
			}
			for _, v := range variants {
				other, err := build(v[0].(uint64), v[1].(uint64), v[2].(uint64), v[3].([]byte))
				if err != nil || other.Eq(base) {
					return false
				}
			}
			return true
		},
		gen.UInt64Range(0, 1<<62),
		gen.UInt64Range(0, 1<<62),
		gen.UInt64Range(0, 1<<62),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func TestNewTokenUnitIDMetadataFields(t *testing.T) {
	attrs := &testMintAttributes{Value: 5}
	md := &types.ClientMetadata{Timeout: 1, MaxTransactionFee: 2}
	base, err := types.NewTokenUnitID(attrs, md, 0x21)
	require.NoError(t, err)
	withFcr, err := types.NewTokenUnitID(attrs, &types.ClientMetadata{
		Timeout:           1,
		MaxTransactionFee: 2,
		FeeCreditRecordID: []byte{1},
	}, 0x21)
	require.NoError(t, err)
	withRef, err := types.NewTokenUnitID(attrs, &types.ClientMetadata{
		Timeout:           1,
		MaxTransactionFee: 2,
		ReferenceNumber:   []byte{1},
	}, 0x21)
	require.NoError(t, err)
	otherTag, err := types.NewTokenUnitID(attrs, md, 0x23)
	require.NoError(t, err)
	assert.False(t, base.Eq(withFcr))
	assert.False(t, base.Eq(withRef))
	assert.False(t, withFcr.Eq(withRef))
	assert.Equal(t, base.HashPart(), otherTag.HashPart())
	assert.False(t, base.Eq(otherTag))
}

func TestNewFeeCreditRecordID(t *testing.T) {
	owner := []byte{0x83, 0x00, 0x41, 0x01, 0xf6}
	id := types.NewFeeCreditRecordID(owner, 100, 0x0f)
	expected := types.Sha256(owner, []byte{0, 0, 0, 0, 0, 0, 0, 100})
	assert.Equal(t, expected, id.HashPart())
	assert.True(t, id.HasType(0x0f))
	assert.False(t, id.Eq(types.NewFeeCreditRecordID(owner, 101, 0x0f)))
}
