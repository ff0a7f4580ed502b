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

package types

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/blinklabs-io/gopartition/cbor"
)

// TransactionOrderVersion1 is the only transaction order version currently defined
const TransactionOrderVersion1 uint32 = 1

// transactionOrderFieldCount is the number of array elements on the wire
const transactionOrderFieldCount = 11

// TransactionOrder is the unit of submission. AuthProof is computed over
// AuthProofSigBytes and FeeProof, when present, over FeeProofSigBytes
type TransactionOrder struct {
	Version uint32
	Payload
	StateUnlock []byte // predicate input to unlock the locked state of the unit
	AuthProof   cbor.RawMessage
	FeeProof    []byte
}

// transactionOrderWire is the flat array layout of a TransactionOrder
type transactionOrderWire struct {
	cbor.StructAsArray
	Version        uint32
	NetworkID      NetworkID
	PartitionID    PartitionID
	UnitID         UnitID
	Type           uint16
	Attributes     cbor.RawMessage
	StateLock      *StateLock
	ClientMetadata *ClientMetadata
	StateUnlock    []byte
	AuthProof      cbor.RawMessage
	FeeProof       []byte
}

// authProofSigWire is the prefix of the wire layout that the auth proof covers
type authProofSigWire struct {
	cbor.StructAsArray
	Version        uint32
	NetworkID      NetworkID
	PartitionID    PartitionID
	UnitID         UnitID
	Type           uint16
	Attributes     cbor.RawMessage
	StateLock      *StateLock
	ClientMetadata *ClientMetadata
	StateUnlock    []byte
}

// NewTransactionOrder creates an unsigned version 1 order for the payload
func NewTransactionOrder(payload *Payload, stateUnlock []byte) *TransactionOrder {
	tx := &TransactionOrder{
		Version:     TransactionOrderVersion1,
		StateUnlock: stateUnlock,
	}
	if payload != nil {
		tx.Payload = *payload
	}
	return tx
}

func (t *TransactionOrder) MarshalCBOR() ([]byte, error) {
	tmp := transactionOrderWire{
		Version:        t.Version,
		NetworkID:      t.NetworkID,
		PartitionID:    t.PartitionID,
		UnitID:         t.UnitID,
		Type:           t.Type,
		Attributes:     t.Attributes,
		StateLock:      t.StateLock,
		ClientMetadata: t.ClientMetadata,
		StateUnlock:    t.StateUnlock,
		AuthProof:      t.AuthProof,
		FeeProof:       t.FeeProof,
	}
	return cbor.Encode(&tmp)
}

func (t *TransactionOrder) UnmarshalCBOR(cborData []byte) error {
	fieldCount, err := cbor.ListLength(cborData)
	if err != nil {
		return fmt.Errorf("decode transaction order: %w", err)
	}
	if fieldCount != transactionOrderFieldCount {
		return &cbor.MalformedEncodingError{
			Reason: fmt.Sprintf(
				"transaction order has %d fields, expected %d",
				fieldCount,
				transactionOrderFieldCount,
			),
		}
	}
	var tmp transactionOrderWire
	if err := cbor.DecodeStrict(cborData, &tmp); err != nil {
		return fmt.Errorf("decode transaction order: %w", err)
	}
	*t = TransactionOrder{
		Version: tmp.Version,
		Payload: Payload{
			NetworkID:      tmp.NetworkID,
			PartitionID:    tmp.PartitionID,
			UnitID:         tmp.UnitID,
			Type:           tmp.Type,
			Attributes:     tmp.Attributes,
			StateLock:      tmp.StateLock,
			ClientMetadata: tmp.ClientMetadata,
		},
		StateUnlock: tmp.StateUnlock,
		AuthProof:   tmp.AuthProof,
		FeeProof:    tmp.FeeProof,
	}
	return nil
}

// AuthProofSigBytes returns the canonical encoding of the version, the payload (with
// the owner proof view of the attributes) and the state unlock predicate input. This
// is the message signed by the owner-class proofs
func (t *TransactionOrder) AuthProofSigBytes() ([]byte, error) {
	tmp := authProofSigWire{
		Version:        t.Version,
		NetworkID:      t.NetworkID,
		PartitionID:    t.PartitionID,
		UnitID:         t.UnitID,
		Type:           t.Type,
		Attributes:     t.OwnerProofAttributes(),
		StateLock:      t.StateLock,
		ClientMetadata: t.ClientMetadata,
		StateUnlock:    t.StateUnlock,
	}
	return cbor.Encode(&tmp)
}

// FeeProofSigBytes returns AuthProofSigBytes followed by the encoded auth proof. This
// is the message signed by the fee payer
func (t *TransactionOrder) FeeProofSigBytes() ([]byte, error) {
	authBytes, err := t.AuthProofSigBytes()
	if err != nil {
		return nil, err
	}
	if len(t.AuthProof) == 0 {
		return nil, errors.New("transaction order has no auth proof")
	}
	return append(authBytes, t.AuthProof...), nil
}

// SetAuthProof encodes the auth proof into the order
func (t *TransactionOrder) SetAuthProof(proof AuthProof) error {
	if proof == nil {
		return errors.New("auth proof is nil")
	}
	data, err := cbor.Encode(proof)
	if err != nil {
		return fmt.Errorf("encode auth proof: %w", err)
	}
	t.AuthProof = data
	return nil
}

// UnmarshalAuthProof decodes the auth proof into dest
func (t *TransactionOrder) UnmarshalAuthProof(dest AuthProof) error {
	if !t.HasAuthProof() {
		return errors.New("transaction order has no auth proof")
	}
	if err := cbor.DecodeStrict(t.AuthProof, dest); err != nil {
		return fmt.Errorf("decode auth proof: %w", err)
	}
	return nil
}

// HasAuthProof reports whether the order carries a non-null auth proof
func (t *TransactionOrder) HasAuthProof() bool {
	return len(t.AuthProof) > 0 && !bytes.Equal(t.AuthProof, []byte{cbor.CborNull})
}

// Hash returns the SHA-256 hash of the encoded order
func (t *TransactionOrder) Hash() ([]byte, error) {
	data, err := t.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	return Sha256(data), nil
}

// Clone returns a deep copy of the order
func (t *TransactionOrder) Clone() *TransactionOrder {
	ret := &TransactionOrder{
		Version: t.Version,
		Payload: Payload{
			NetworkID:      t.NetworkID,
			PartitionID:    t.PartitionID,
			UnitID:         slices.Clone(t.UnitID),
			Type:           t.Type,
			Attributes:     slices.Clone(t.Attributes),
			ownerProofView: slices.Clone(t.ownerProofView),
		},
		StateUnlock: slices.Clone(t.StateUnlock),
		AuthProof:   slices.Clone(t.AuthProof),
		FeeProof:    slices.Clone(t.FeeProof),
	}
	if t.StateLock != nil {
		ret.StateLock = &StateLock{
			ExecutionPredicate: slices.Clone(t.StateLock.ExecutionPredicate),
			RollbackPredicate:  slices.Clone(t.StateLock.RollbackPredicate),
		}
	}
	if t.ClientMetadata != nil {
		ret.ClientMetadata = &ClientMetadata{
			Timeout:           t.ClientMetadata.Timeout,
			MaxTransactionFee: t.ClientMetadata.MaxTransactionFee,
			FeeCreditRecordID: slices.Clone(t.ClientMetadata.FeeCreditRecordID),
			ReferenceNumber:   slices.Clone(t.ClientMetadata.ReferenceNumber),
		}
	}
	return ret
}
