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

package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const (
	PrivateKeySize          = btcec.PrivKeyBytesLen
	CompressedPublicKeySize = btcec.PubKeyBytesLenCompressed
	// SignatureSize is the size of an R||S||V signature
	SignatureSize = 65

	// compact signatures are prefixed with 27 + recovery id, plus 4 for compressed keys
	compactSigMagicOffset      = 27
	compactSigCompPubKeyOffset = 4
)

// Signer is the signing capability used by proof factories. Implementations may be
// backed by hardware or remote key stores
type Signer interface {
	// Sign returns a signature over the message
	Sign(msg []byte) ([]byte, error)
	// PublicKey returns the compressed public key of the signer
	PublicKey() []byte
}

// Secp256k1Signer signs SHA-256 message digests with RFC 6979 deterministic secp256k1
// signatures
type Secp256k1Signer struct {
	privKey *btcec.PrivateKey
	pubKey  []byte
}

// NewSignerFromBytes creates a signer from a 32-byte private key
func NewSignerFromBytes(privKey []byte) (*Secp256k1Signer, error) {
	if len(privKey) != PrivateKeySize {
		return nil, fmt.Errorf("invalid private key size: %d", len(privKey))
	}
	priv, pub := btcec.PrivKeyFromBytes(privKey)
	if priv.Key.IsZero() {
		return nil, errors.New("invalid private key: zero scalar")
	}
	return &Secp256k1Signer{
		privKey: priv,
		pubKey:  pub.SerializeCompressed(),
	}, nil
}

// GenerateSigner creates a signer with a new random private key
func GenerateSigner() (*Secp256k1Signer, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return newSigner(priv), nil
}

func newSigner(priv *btcec.PrivateKey) *Secp256k1Signer {
	return &Secp256k1Signer{
		privKey: priv,
		pubKey:  priv.PubKey().SerializeCompressed(),
	}
}

// Sign returns the 65-byte R||S||V signature over the SHA-256 hash of the message
func (s *Secp256k1Signer) Sign(msg []byte) ([]byte, error) {
	hash := sha256.Sum256(msg)
	compact := ecdsa.SignCompact(s.privKey, hash[:], true)
	// Move the recovery byte from the front to the back
	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, compact[1:]...)
	sig = append(sig, compact[0]-compactSigMagicOffset-compactSigCompPubKeyOffset)
	return sig, nil
}

func (s *Secp256k1Signer) PublicKey() []byte {
	ret := make([]byte, len(s.pubKey))
	copy(ret, s.pubKey)
	return ret
}

// PrivateKey returns the 32-byte private key
func (s *Secp256k1Signer) PrivateKey() []byte {
	return s.privKey.Serialize()
}

// VerifySignature verifies an R||S||V secp256k1 signature over the SHA-256 hash of the
// message against the provided compressed public key
func VerifySignature(pubKey, sig, msg []byte) error {
	if len(pubKey) != CompressedPublicKeySize {
		return fmt.Errorf("invalid public key size: %d", len(pubKey))
	}
	if len(sig) != SignatureSize {
		return fmt.Errorf("invalid signature size: %d", len(sig))
	}
	pub, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return errors.New("invalid signature: R out of range")
	}
	if overflow := s.SetByteSlice(sig[32:64]); overflow || s.IsZero() {
		return errors.New("invalid signature: S out of range")
	}
	hash := sha256.Sum256(msg)
	if !ecdsa.NewSignature(&r, &s).Verify(hash[:], pub) {
		return errors.New("signature verification failed")
	}
	return nil
}
