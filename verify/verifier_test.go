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

package verify_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/internal/test"
	"github.com/blinklabs-io/gopartition/predicate"
	"github.com/blinklabs-io/gopartition/proof"
	"github.com/blinklabs-io/gopartition/txsign"
	"github.com/blinklabs-io/gopartition/txsystem/tokens"
	"github.com/blinklabs-io/gopartition/types"
	"github.com/blinklabs-io/gopartition/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ownerSigner = test.Signer(9)

func signedRecord(t *testing.T, status types.TxStatus) *types.TransactionRecord {
	t.Helper()
	owner, err := predicate.P2PKH256FromPubKey(ownerSigner.PublicKey())
	require.NoError(t, err)
	payload, err := types.NewPayload(
		types.NetworkLocal,
		tokens.DefaultPartitionID,
		types.NewUnitID([]byte{0x05}, tokens.FungibleTokenUnitType),
		tokens.TransactionTypeTransferFT,
		&tokens.TransferFungibleTokenAttributes{
			TypeID:            tokens.NewFungibleTokenTypeID([]byte{0x06}),
			Value:             10,
			NewOwnerPredicate: owner,
		},
		&types.ClientMetadata{Timeout: 20, MaxTransactionFee: 1},
	)
	require.NoError(t, err)
	s := txsign.New()
	order, err := s.SignWithTypeOwnerProofs(
		context.Background(),
		s.NewOrder(payload, nil),
		proof.NewSignatureFactory(ownerSigner),
		[]proof.Factory{proof.NewAlwaysTrueFactory()},
		proof.NewSignatureFactory(test.Signer(8)),
	)
	require.NoError(t, err)
	record, err := types.NewTransactionRecord(order, &types.ServerMetadata{
		ActualFee:        1,
		TargetUnits:      []types.UnitID{order.UnitID},
		SuccessIndicator: status,
	})
	require.NoError(t, err)
	return record
}

func testChain() []*types.GenericChainItem {
	return []*types.GenericChainItem{
		test.Sibling(1, false),
		test.Sibling(2, true),
		test.Sibling(3, true),
		test.Sibling(4, false),
	}
}

func TestVerifyValidProof(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1, 2)
	res, err := verify.New(verify.WithLogger(slog.New(slog.DiscardHandler))).Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusOK, res.Status, res.String())
	assert.Equal(t, verify.RuleIDTransactionProof, res.Rule)
	assert.Equal(
		t,
		[]string{
			verify.RuleIDSuccessIndicator,
			verify.RuleIDProofVersion,
			verify.RuleIDOrderVersion,
			verify.RuleIDSealHash,
			verify.RuleIDQuorum,
			verify.RuleIDMerkle,
		},
		childRules(res),
	)
	assert.True(t, res.Find(verify.RuleIDProofV1).IsOK())
	assert.True(t, res.Find(verify.RuleIDOrderV1).IsOK())
}

func TestVerifyMerklePathMutations(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	record := signedRecord(t, types.TxStatusSuccessful)
	v := verify.New()
	for idx := range testChain() {
		t.Run(fmt.Sprintf("mutate sibling %d", idx), func(t *testing.T) {
			p := test.RecordProof(record, testChain(), signers, 0, 1)
			p.TxProof.Chain[idx].Hash = bytes.Clone(p.TxProof.Chain[idx].Hash)
			p.TxProof.Chain[idx].Hash[0] ^= 0x01
			res, err := v.Verify(p, tb)
			require.NoError(t, err)
			assert.Equal(t, verify.StatusFail, res.Status)
			assert.Equal(t, verify.StatusFail, res.Find(verify.RuleIDMerkle).Status)
		})
		t.Run(fmt.Sprintf("flip side %d", idx), func(t *testing.T) {
			p := test.RecordProof(record, testChain(), signers, 0, 1)
			p.TxProof.Chain[idx].Left = !p.TxProof.Chain[idx].Left
			res, err := v.Verify(p, tb)
			require.NoError(t, err)
			assert.Equal(t, verify.StatusFail, res.Status)
			assert.Equal(t, verify.StatusFail, res.Find(verify.RuleIDMerkle).Status)
		})
	}
}

func TestVerifyQuorumThreshold(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	record := signedRecord(t, types.TxStatusSuccessful)
	v := verify.New()
	for _, pair := range [][]int{{0, 1}, {0, 2}, {1, 2}} {
		res, err := v.Verify(test.RecordProof(record, testChain(), signers, pair...), tb)
		require.NoError(t, err)
		assert.Equal(t, verify.StatusOK, res.Status, "signers %v", pair)
	}
	for _, single := range []int{0, 1, 2} {
		res, err := v.Verify(test.RecordProof(record, testChain(), signers, single), tb)
		require.NoError(t, err)
		assert.Equal(t, verify.StatusFail, res.Status)
		quorum := res.Find(verify.RuleIDQuorum)
		require.NotNil(t, quorum)
		assert.Equal(t, verify.StatusFail, quorum.Status)
		assert.ErrorIs(t, quorum.Err, types.ErrQuorumNotReached)
		// The Merkle rule is not reached
		assert.Nil(t, res.Find(verify.RuleIDMerkle))
	}
}

func TestVerifyForeignTrustBase(t *testing.T) {
	_, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1, 2)
	nodes := make([]*types.NodeInfo, 0, 3)
	for i := range 3 {
		nodes = append(nodes, &types.NodeInfo{NodeID: test.NodeID(i), SigKey: test.Signer(byte(100 + i)).PublicKey(), Stake: 10})
	}
	foreign, err := types.NewTrustBase(types.NetworkLocal, 1, 1, nodes, 20)
	require.NoError(t, err)
	res, err := verify.New().Verify(p, foreign)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusFail, res.Find(verify.RuleIDQuorum).Status)

	foreign.Epoch = 2
	res, err = verify.New().Verify(p, foreign)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusFail, res.Find(verify.RuleIDQuorum).Status)
}

func TestVerifySealHashMismatch(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1, 2)
	p.TxProof.UnicityCertificate.InputRecord.RoundNumber++
	res, err := verify.New().Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusFail, res.Status)
	assert.Equal(t, verify.StatusFail, res.Find(verify.RuleIDSealHash).Status)
}

func TestVerifySuccessIndicator(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusFailed), testChain(), signers, 0, 1)
	res, err := verify.New().Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusFail, res.Status)
	assert.Equal(t, []string{verify.RuleIDSuccessIndicator}, childRules(res))

	res, err = verify.New(verify.WithConfig(verify.Config{SkipSuccessIndicator: true})).Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusOK, res.Status, res.String())
}

func TestVerifyMissingInputsAreNA(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	record := signedRecord(t, types.TxStatusSuccessful)
	v := verify.New()

	p := test.RecordProof(record, testChain(), signers, 0, 1)
	p.TxProof.UnicityCertificate.UnicitySeal = nil
	res, err := v.Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusNA, res.Status)
	assert.Equal(t, verify.StatusNA, res.Find(verify.RuleIDProofVersion).Status)

	p = test.RecordProof(record, testChain(), signers, 0, 1)
	p.TxProof.Version = 2
	res, err = v.Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusNA, res.Status)
	assert.Empty(t, res.Find(verify.RuleIDProofVersion).Children)

	p = test.RecordProof(record, testChain(), signers, 0, 1)
	p.TxRecord = &types.TransactionRecord{
		Version:          1,
		TransactionOrder: []byte{0x01},
		ServerMetadata:   &types.ServerMetadata{SuccessIndicator: types.TxStatusSuccessful},
	}
	res, err = v.Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusNA, res.Status)
	assert.Equal(t, verify.StatusNA, res.Find(verify.RuleIDOrderVersion).Status)

	p = test.RecordProof(record, testChain(), signers, 0, 1)
	p.TxRecord = &types.TransactionRecord{}
	res, err = v.Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusNA, res.Find(verify.RuleIDSuccessIndicator).Status)
}

func TestVerifyDecodedProofWithNullHashStep(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1)
	utc := p.TxProof.UnicityCertificate.UnicityTreeCertificate
	utc.HashSteps = append(utc.HashSteps, nil)
	encoded, err := cbor.Encode(p)
	require.NoError(t, err)
	decoded := &types.TxRecordProof{}
	require.NoError(t, cbor.DecodeStrict(encoded, decoded))
	require.Nil(t, decoded.TxProof.UnicityCertificate.UnicityTreeCertificate.HashSteps[2])

	res, err := verify.New().Verify(decoded, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusNA, res.Status)
	assert.Equal(t, verify.StatusNA, res.Find(verify.RuleIDProofV1).Status)

	// Standalone rules report NA instead of evaluating the broken path
	ctx := verify.NewContext(decoded, tb, verify.Config{})
	assert.Equal(t, verify.StatusNA, verify.NewSealHashRule().Verify(ctx).Status)
	decoded.TxProof.Chain = append(decoded.TxProof.Chain, nil)
	assert.Equal(t, verify.StatusNA, verify.NewMerkleRule().Verify(ctx).Status)
}

func TestVerifyDecodedTrustBaseWithNullNode(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1)
	tb.RootNodes = append(tb.RootNodes, nil)
	encoded, err := cbor.Encode(tb)
	require.NoError(t, err)
	decoded := &types.RootTrustBase{}
	require.NoError(t, cbor.DecodeStrict(encoded, decoded))

	res, err := verify.New().Verify(p, decoded)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusNA, res.Status)
	quorum := res.Find(verify.RuleIDQuorum)
	require.NotNil(t, quorum)
	assert.Equal(t, verify.StatusNA, quorum.Status)
}

func TestVerifyInvalidInput(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	_, err := verify.New().Verify(nil, tb)
	assert.ErrorIs(t, err, verify.ErrInvalidInput)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1)
	_, err = verify.New().Verify(p, nil)
	assert.ErrorIs(t, err, verify.ErrInvalidInput)
}

func TestVerifyRequireFeeProof(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	record := signedRecord(t, types.TxStatusSuccessful)
	order, err := record.GetTransactionOrder()
	require.NoError(t, err)
	order.FeeProof = nil
	noFee, err := types.NewTransactionRecord(order, record.ServerMetadata)
	require.NoError(t, err)
	p := test.RecordProof(noFee, testChain(), signers, 0, 1)

	res, err := verify.New().Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusOK, res.Status)
	res, err = verify.New(verify.WithConfig(verify.Config{RequireFeeProof: true})).Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusFail, res.Find(verify.RuleIDOrderV1).Status)
}

func TestVerifyOwnerProofPolicy(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1)
	owner, err := predicate.P2PKH256FromPubKey(ownerSigner.PublicKey())
	require.NoError(t, err)
	res, err := verify.New(verify.WithPolicy(verify.PolicyWithOwnerProof(nil, owner))).Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusOK, res.Status, res.String())
	assert.True(t, res.Find(verify.RuleIDOwnerProof).IsOK())

	other, err := predicate.P2PKH256FromPubKey(test.Signer(1).PublicKey())
	require.NoError(t, err)
	res, err = verify.New(verify.WithPolicy(verify.PolicyWithOwnerProof(nil, other))).Verify(p, tb)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusFail, res.Status)
	assert.ErrorIs(t, res.Find(verify.RuleIDOwnerProof).Err, predicate.ErrPredicateFailed)
}

func TestVerifyNetworkMismatch(t *testing.T) {
	tb, signers := test.TrustBase([]uint64{10, 10, 10}, 20)
	p := test.RecordProof(signedRecord(t, types.TxStatusSuccessful), testChain(), signers, 0, 1)
	other := *tb
	other.NetworkID = types.NetworkTestnet
	res, err := verify.New().Verify(p, &other)
	require.NoError(t, err)
	assert.Equal(t, verify.StatusFail, res.Find(verify.RuleIDOrderV1).Status)
}
