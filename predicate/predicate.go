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

// Package predicate handles template owner predicates and their proofs.
package predicate

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/crypto"
	"github.com/blinklabs-io/gopartition/types"
)

// Template predicate engine and codes
const (
	TemplateTag uint64 = 0

	AlwaysFalseID byte = 0x00
	AlwaysTrueID  byte = 0x01
	P2PKH256ID    byte = 0x02

	PubKeyHashSize = types.HashSize
)

var (
	alwaysFalseBytes = []byte{0x83, 0x00, 0x41, AlwaysFalseID, 0xf6}
	alwaysTrueBytes  = []byte{0x83, 0x00, 0x41, AlwaysTrueID, 0xf6}
)

// Sentinel error for owner proofs that do not satisfy the owner predicate
var ErrPredicateFailed = errors.New("predicate not satisfied")

// Predicate is a unit owner condition. Tag selects the execution engine, Code the
// predicate within the engine and Params its arguments
type Predicate struct {
	cbor.StructAsArray
	Tag    uint64
	Code   []byte
	Params []byte
}

// AlwaysTrue returns the encoded predicate that is satisfied by any proof
func AlwaysTrue() []byte {
	return bytes.Clone(alwaysTrueBytes)
}

// AlwaysFalse returns the encoded predicate that is never satisfied
func AlwaysFalse() []byte {
	return bytes.Clone(alwaysFalseBytes)
}

// P2PKH256 returns the encoded pay-to-public-key-hash predicate for the hash
func P2PKH256(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != PubKeyHashSize {
		return nil, fmt.Errorf("invalid public key hash size: %d", len(pubKeyHash))
	}
	return cbor.Encode(&Predicate{
		Tag:    TemplateTag,
		Code:   []byte{P2PKH256ID},
		Params: pubKeyHash,
	})
}

// P2PKH256FromPubKey returns the encoded pay-to-public-key-hash predicate for the key
func P2PKH256FromPubKey(pubKey []byte) ([]byte, error) {
	return P2PKH256(PubKeyHash(pubKey))
}

// PubKeyHash returns the SHA-256 hash of the public key
func PubKeyHash(pubKey []byte) []byte {
	return types.Sha256(pubKey)
}

// Parse decodes an encoded predicate
func Parse(data []byte) (*Predicate, error) {
	p := &Predicate{}
	if err := cbor.DecodeStrict(data, p); err != nil {
		return nil, fmt.Errorf("decode predicate: %w", err)
	}
	return p, nil
}

// IsTemplate reports whether the predicate is the given template predicate
func (p *Predicate) IsTemplate(id byte) bool {
	return p.Tag == TemplateTag && len(p.Code) == 1 && p.Code[0] == id
}

// P2PKH256Signature is the owner proof for a pay-to-public-key-hash predicate
type P2PKH256Signature struct {
	cbor.StructAsArray
	Sig    []byte
	PubKey []byte
}

// NewP2PKH256SignatureBytes signs the message and returns the encoded owner proof
func NewP2PKH256SignatureBytes(signer crypto.Signer, msg []byte) ([]byte, error) {
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, err
	}
	return cbor.Encode(&P2PKH256Signature{Sig: sig, PubKey: signer.PublicKey()})
}

// ParseP2PKH256Signature decodes an owner proof
func ParseP2PKH256Signature(data []byte) (*P2PKH256Signature, error) {
	s := &P2PKH256Signature{}
	if err := cbor.DecodeStrict(data, s); err != nil {
		return nil, fmt.Errorf("decode owner proof: %w", err)
	}
	return s, nil
}

// VerifyOwnerProof evaluates the template owner predicate against the proof over
// sigBytes. Only template predicates can be evaluated locally
func VerifyOwnerProof(ownerPredicate []byte, proof []byte, sigBytes []byte) error {
	pred, err := Parse(ownerPredicate)
	if err != nil {
		return err
	}
	if pred.Tag != TemplateTag || len(pred.Code) != 1 {
		return fmt.Errorf("%w: unsupported predicate (tag %d)", ErrPredicateFailed, pred.Tag)
	}
	switch pred.Code[0] {
	case AlwaysTrueID:
		return nil
	case AlwaysFalseID:
		return fmt.Errorf("%w: always false", ErrPredicateFailed)
	case P2PKH256ID:
		sig, err := ParseP2PKH256Signature(proof)
		if err != nil {
			return err
		}
		if !bytes.Equal(PubKeyHash(sig.PubKey), pred.Params) {
			return fmt.Errorf("%w: public key hash mismatch", ErrPredicateFailed)
		}
		if err := crypto.VerifySignature(sig.PubKey, sig.Sig, sigBytes); err != nil {
			return fmt.Errorf("%w: %w", ErrPredicateFailed, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown template predicate %d", ErrPredicateFailed, pred.Code[0])
	}
}
