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

package txsystem_test

import (
	"testing"

	"github.com/blinklabs-io/gopartition/predicate"
	"github.com/blinklabs-io/gopartition/txsystem"
	"github.com/blinklabs-io/gopartition/txsystem/fc"
	"github.com/blinklabs-io/gopartition/txsystem/money"
	"github.com/blinklabs-io/gopartition/txsystem/tokens"
	"github.com/blinklabs-io/gopartition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := txsystem.DefaultRegistry()
	testDefs := []struct {
		partition types.PartitionID
		txType    uint16
		name      string
		shape     types.AuthProofShape
		feeExempt bool
	}{
		{money.DefaultPartitionID, money.TransactionTypeTransfer, "transfer", types.AuthProofShapeOwnerProof, false},
		{money.DefaultPartitionID, money.TransactionTypeSwapDC, "swapDC", types.AuthProofShapeOwnerProof, false},
		{money.DefaultPartitionID, fc.TransactionTypeTransferFeeCredit, "transferFC", types.AuthProofShapeOwnerProof, true},
		{tokens.DefaultPartitionID, fc.TransactionTypeAddFeeCredit, "addFC", types.AuthProofShapeOwnerProof, true},
		{tokens.DefaultPartitionID, tokens.TransactionTypeDefineFT, "defFT", types.AuthProofShapeSubTypeOwnerProofs, false},
		{tokens.DefaultPartitionID, tokens.TransactionTypeMintFT, "mintFT", types.AuthProofShapeOwnerProof, false},
		{tokens.DefaultPartitionID, tokens.TransactionTypeTransferNFT, "transNT", types.AuthProofShapeTypeOwnerProofs, false},
		{tokens.DefaultPartitionID, tokens.TransactionTypeUpdateNFT, "updateNT", types.AuthProofShapeTypeDataUpdateProofs, false},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			desc, err := r.Lookup(testDef.partition, testDef.txType)
			require.NoError(t, err)
			assert.Equal(t, testDef.name, desc.Name)
			assert.Equal(t, testDef.shape, desc.Shape)
			assert.Equal(t, testDef.feeExempt, desc.FeeExempt)
			assert.NotNil(t, desc.NewAttributes())
		})
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := txsystem.DefaultRegistry()
	_, err := r.Lookup(99, money.TransactionTypeTransfer)
	assert.ErrorIs(t, err, types.ErrUnsupportedTransactionShape)
	// Tokens transaction types do not exist in the money partition
	_, err = r.Lookup(money.DefaultPartitionID, tokens.TransactionTypeUpdateNFT)
	assert.ErrorIs(t, err, types.ErrUnsupportedTransactionShape)
	_, err = r.Lookup(tokens.DefaultPartitionID, 11)
	var shapeErr *types.UnsupportedShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, uint16(11), shapeErr.Type)
}

func TestNewRegistry(t *testing.T) {
	r, err := txsystem.NewRegistry(map[types.PartitionID]txsystem.PartitionKind{
		7: txsystem.PartitionKindTokens,
	})
	require.NoError(t, err)
	kind, ok := r.PartitionKind(7)
	assert.True(t, ok)
	assert.Equal(t, "tokens", kind.String())
	_, err = r.Lookup(7, tokens.TransactionTypeMintNFT)
	assert.NoError(t, err)
	_, err = r.Lookup(tokens.DefaultPartitionID, tokens.TransactionTypeMintNFT)
	assert.Error(t, err)

	_, err = txsystem.NewRegistry(nil)
	assert.Error(t, err)
	_, err = txsystem.NewRegistry(map[types.PartitionID]txsystem.PartitionKind{1: 42})
	assert.Error(t, err)
}

func TestRegistryDecodeAttributes(t *testing.T) {
	r := txsystem.DefaultRegistry()
	attrs := &tokens.MintFungibleTokenAttributes{
		TypeID:         tokens.NewFungibleTokenTypeID([]byte{1}),
		Value:          1000,
		OwnerPredicate: predicate.AlwaysTrue(),
	}
	payload, err := types.NewPayload(types.NetworkLocal, tokens.DefaultPartitionID, nil, tokens.TransactionTypeMintFT, attrs, &types.ClientMetadata{})
	require.NoError(t, err)
	decoded, err := r.DecodeAttributes(payload)
	require.NoError(t, err)
	assert.Equal(t, attrs, decoded)

	_, err = r.CheckShape(payload, types.AuthProofShapeOwnerProof)
	assert.NoError(t, err)
	_, err = r.CheckShape(payload, types.AuthProofShapeTypeOwnerProofs)
	assert.ErrorIs(t, err, types.ErrUnsupportedTransactionShape)

	payload.Type = tokens.TransactionTypeBurnFT
	_, err = r.DecodeAttributes(payload)
	assert.Error(t, err)
}
