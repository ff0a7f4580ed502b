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

package predicate_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/internal/test"
	"github.com/blinklabs-io/gopartition/predicate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatePredicateEncoding(t *testing.T) {
	assert.Equal(t, "83004101f6", hex.EncodeToString(predicate.AlwaysTrue()))
	assert.Equal(t, "83004100f6", hex.EncodeToString(predicate.AlwaysFalse()))
	// The fixed encodings match the generic encoder
	encoded, err := cbor.Encode(&predicate.Predicate{Code: []byte{predicate.AlwaysTrueID}})
	require.NoError(t, err)
	assert.Equal(t, predicate.AlwaysTrue(), encoded)

	pred, err := predicate.Parse(predicate.AlwaysTrue())
	require.NoError(t, err)
	assert.True(t, pred.IsTemplate(predicate.AlwaysTrueID))
	assert.False(t, pred.IsTemplate(predicate.P2PKH256ID))

	_, err = predicate.Parse([]byte{0x01})
	assert.Error(t, err)
}

func TestP2PKH256(t *testing.T) {
	signer := test.Signer(3)
	pkh := predicate.PubKeyHash(signer.PublicKey())
	pred, err := predicate.P2PKH256(pkh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hex.EncodeToString(pred), "83004102"+"5820"))
	fromKey, err := predicate.P2PKH256FromPubKey(signer.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, pred, fromKey)
	_, err = predicate.P2PKH256([]byte{1})
	assert.Error(t, err)
}

func TestVerifyOwnerProof(t *testing.T) {
	signer := test.Signer(3)
	owner, err := predicate.P2PKH256FromPubKey(signer.PublicKey())
	require.NoError(t, err)
	msg := []byte("auth proof sig bytes")
	proof, err := predicate.NewP2PKH256SignatureBytes(signer, msg)
	require.NoError(t, err)
	assert.NoError(t, predicate.VerifyOwnerProof(owner, proof, msg))

	decoded, err := predicate.ParseP2PKH256Signature(proof)
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKey(), decoded.PubKey)

	// Wrong message
	err = predicate.VerifyOwnerProof(owner, proof, []byte("other"))
	assert.ErrorIs(t, err, predicate.ErrPredicateFailed)

	// Proof by another key
	otherProof, err := predicate.NewP2PKH256SignatureBytes(test.Signer(4), msg)
	require.NoError(t, err)
	err = predicate.VerifyOwnerProof(owner, otherProof, msg)
	assert.ErrorIs(t, err, predicate.ErrPredicateFailed)

	// Missing and malformed proofs
	err = predicate.VerifyOwnerProof(owner, []byte{0xf6}, msg)
	assert.ErrorIs(t, err, predicate.ErrPredicateFailed)
	err = predicate.VerifyOwnerProof(owner, []byte{0x82, 0x41}, msg)
	assert.ErrorIs(t, err, cbor.ErrMalformedEncoding)

	assert.NoError(t, predicate.VerifyOwnerProof(predicate.AlwaysTrue(), []byte{0xf6}, msg))
	assert.ErrorIs(t, predicate.VerifyOwnerProof(predicate.AlwaysFalse(), proof, msg), predicate.ErrPredicateFailed)

	unknown, err := cbor.Encode(&predicate.Predicate{Tag: 1, Code: []byte{0x01}})
	require.NoError(t, err)
	assert.ErrorIs(t, predicate.VerifyOwnerProof(unknown, proof, msg), predicate.ErrPredicateFailed)
}

func TestAddress(t *testing.T) {
	pkh := predicate.PubKeyHash(test.Signer(5).PublicKey())
	addr, err := predicate.Address(predicate.AddressHRPMainnet, pkh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr, "alpha1"))
	hrp, decoded, err := predicate.ParseAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, predicate.AddressHRPMainnet, hrp)
	assert.Equal(t, pkh, decoded)

	owner, err := predicate.OwnerPredicateFromAddress(addr)
	require.NoError(t, err)
	expected, err := predicate.P2PKH256(pkh)
	require.NoError(t, err)
	assert.Equal(t, expected, owner)

	// Corrupt the checksum
	last := "q"
	if strings.HasSuffix(addr, "q") {
		last = "p"
	}
	corrupted := addr[:len(addr)-1] + last
	_, _, err = predicate.ParseAddress(corrupted)
	assert.Error(t, err)
	_, err = predicate.Address(predicate.AddressHRPMainnet, []byte{1})
	assert.Error(t, err)
}
