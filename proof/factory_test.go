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

package proof_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/crypto"
	"github.com/blinklabs-io/gopartition/internal/test"
	"github.com/blinklabs-io/gopartition/predicate"
	"github.com/blinklabs-io/gopartition/proof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSignatureFactory(t *testing.T) {
	signer := test.Signer(1)
	msg := []byte("message")
	ret, err := proof.NewSignatureFactory(signer).Create(context.Background(), msg)
	require.NoError(t, err)
	fieldCount, err := cbor.ListLength(ret)
	require.NoError(t, err)
	assert.Equal(t, 2, fieldCount)
	sig, err := predicate.ParseP2PKH256Signature(ret)
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKey(), sig.PubKey)
	assert.NoError(t, crypto.VerifySignature(sig.PubKey, sig.Sig, msg))
}

func TestSignatureFactoryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := proof.NewSignatureFactory(test.Signer(1)).Create(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAlwaysTrueFactory(t *testing.T) {
	ret, err := proof.NewAlwaysTrueFactory().Create(context.Background(), []byte("anything"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xf6}, ret)
	// Returned proofs are independent
	ret[0] = 0x00
	ret2, err := proof.NewAlwaysTrueFactory().Create(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xf6}, ret2)
}

func TestCreateAllPreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	factories := make([]proof.Factory, 8)
	for i := range factories {
		factories[i] = proof.FactoryFunc(func(ctx context.Context, msg []byte) ([]byte, error) {
			// Later factories finish first
			time.Sleep(time.Duration(len(factories)-i) * time.Millisecond)
			return append([]byte{byte(i)}, msg...), nil
		})
	}
	ret, err := proof.CreateAll(context.Background(), factories, []byte{0xaa})
	require.NoError(t, err)
	require.Len(t, ret, len(factories))
	for i, p := range ret {
		assert.Equal(t, []byte{byte(i), 0xaa}, p)
	}
}

func TestCreateAllFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	errSigner := errors.New("key unavailable")
	var cancelled atomic.Bool
	factories := []proof.Factory{
		proof.NewAlwaysTrueFactory(),
		proof.FactoryFunc(func(context.Context, []byte) ([]byte, error) {
			return nil, errSigner
		}),
		proof.FactoryFunc(func(ctx context.Context, _ []byte) ([]byte, error) {
			<-ctx.Done()
			cancelled.Store(true)
			return nil, ctx.Err()
		}),
	}
	_, err := proof.CreateAll(context.Background(), factories, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, proof.ErrProofFactoryFailure)
	assert.ErrorIs(t, err, errSigner)
	var factoryErr *proof.FactoryError
	require.ErrorAs(t, err, &factoryErr)
	assert.Equal(t, 1, factoryErr.Index)
	assert.True(t, cancelled.Load())
}

func TestCreateAllRejectsNilFactory(t *testing.T) {
	_, err := proof.CreateAll(context.Background(), []proof.Factory{proof.NewAlwaysTrueFactory(), nil}, nil)
	var factoryErr *proof.FactoryError
	require.ErrorAs(t, err, &factoryErr)
	assert.Equal(t, 1, factoryErr.Index)

	ret, err := proof.CreateAll(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ret)
}

func TestCreate(t *testing.T) {
	ret, err := proof.Create(context.Background(), proof.NewAlwaysTrueFactory(), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xf6}, ret)
	_, err = proof.Create(context.Background(), proof.FactoryFunc(func(context.Context, []byte) ([]byte, error) {
		return nil, errors.New("boom")
	}), nil)
	assert.ErrorIs(t, err, proof.ErrProofFactoryFailure)
}
