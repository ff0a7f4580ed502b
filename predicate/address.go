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

package predicate

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Human readable parts of owner addresses
const (
	AddressHRPMainnet = "alpha"
	AddressHRPTestnet = "alpha_test"
)

// Address returns the bech32 encoding of a public key hash
func Address(hrp string, pubKeyHash []byte) (string, error) {
	if len(pubKeyHash) != PubKeyHashSize {
		return "", fmt.Errorf("invalid public key hash size: %d", len(pubKeyHash))
	}
	convData, err := bech32.ConvertBits(pubKeyHash, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert public key hash to base32: %w", err)
	}
	encoded, err := bech32.Encode(hrp, convData)
	if err != nil {
		return "", fmt.Errorf("encode address: %w", err)
	}
	return encoded, nil
}

// ParseAddress decodes a bech32 owner address and returns its human readable part and
// public key hash
func ParseAddress(addr string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return "", nil, err
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	if len(decoded) != PubKeyHashSize {
		return "", nil, fmt.Errorf("invalid public key hash size: %d", len(decoded))
	}
	return hrp, decoded, nil
}

// OwnerPredicateFromAddress returns the pay-to-public-key-hash predicate for an
// owner address
func OwnerPredicateFromAddress(addr string) ([]byte, error) {
	_, pubKeyHash, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	return P2PKH256(pubKeyHash)
}
