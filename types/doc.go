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

// Package types contains the wire types shared by every partition: unit
// identifiers, transaction payloads and orders, authorization proofs, transaction
// records and their inclusion proofs, unicity certificates and the root trust base.
//
// Every type is encoded as a CBOR array using the canonical codec in the cbor
// package. Signatures and identifiers are computed over those exact bytes, so the
// field order of each struct is part of the wire format.
//
// # Signing bytes
//
// A transaction order is authorized in two stages:
//
//	authBytes := order.AuthProofSigBytes()   // [version, payload..., stateUnlock]
//	feeBytes  := order.FeeProofSigBytes()    // authBytes ++ encoded auth proof
//
// The fee payer therefore signs the owner's authorization as well as the payload.
//
// # Inclusion proofs
//
// A TxRecordProof binds a TransactionRecord to a block through a Merkle path
// (TxProof.Chain) and binds the block to the root chain through a
// UnicityCertificate signed by a quorum of the RootTrustBase.
package types
