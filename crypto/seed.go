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
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"golang.org/x/crypto/pbkdf2"
)

const (
	seedIterations = 2048
	seedSize       = 64

	purposeIndex  = 44
	coinTypeIndex = 634
)

// SeedFromMnemonic stretches a mnemonic phrase and optional passphrase into a 64-byte
// seed as defined by BIP-39. The phrase is not checked against a word list
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	if len(words) == 0 {
		return nil, errors.New("mnemonic is empty")
	}
	normalized := strings.Join(words, " ")
	return pbkdf2.Key(
		[]byte(normalized),
		[]byte("mnemonic"+passphrase),
		seedIterations,
		seedSize,
		sha512.New,
	), nil
}

// NewSignerFromSeed derives the signer for the account at m/44'/634'/0'/0/account
func NewSignerFromSeed(seed []byte, account uint32) (*Secp256k1Signer, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	path := []uint32{
		hdkeychain.HardenedKeyStart + purposeIndex,
		hdkeychain.HardenedKeyStart + coinTypeIndex,
		hdkeychain.HardenedKeyStart,
		0,
		account,
	}
	for _, idx := range path {
		key, err = key.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("derive key %d: %w", idx, err)
		}
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	return newSigner(priv), nil
}

// NewSignerFromMnemonic is a shorthand for SeedFromMnemonic and NewSignerFromSeed
func NewSignerFromMnemonic(mnemonic, passphrase string, account uint32) (*Secp256k1Signer, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewSignerFromSeed(seed, account)
}
