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
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopartition/cbor"
)

// OwnerProofViewer is implemented by transaction attributes whose owner proof must
// not cover every field, for example witness signatures collected from other
// parties. OwnerProofView returns the value that is signed by the owner, while the
// attributes themselves are stored in full
type OwnerProofViewer interface {
	OwnerProofView() any
}

type ClientMetadata struct {
	cbor.StructAsArray
	Timeout           uint64
	MaxTransactionFee uint64
	FeeCreditRecordID []byte
	ReferenceNumber   []byte
}

type StateLock struct {
	cbor.StructAsArray
	ExecutionPredicate []byte // predicate to execute the locked transaction
	RollbackPredicate  []byte // predicate to roll back the locked transaction
}

// Payload holds the transaction fields covered by every proof. Attributes hold the
// full view of the type-specific attributes
type Payload struct {
	NetworkID      NetworkID
	PartitionID    PartitionID
	UnitID         UnitID
	Type           uint16
	Attributes     cbor.RawMessage
	StateLock      *StateLock
	ClientMetadata *ClientMetadata

	// encoded owner proof view, when it differs from Attributes
	ownerProofView cbor.RawMessage
}

// NewPayload creates a payload and encodes the provided attributes into it
func NewPayload(
	networkID NetworkID,
	partitionID PartitionID,
	unitID UnitID,
	txType uint16,
	attrs any,
	md *ClientMetadata,
) (*Payload, error) {
	p := &Payload{
		NetworkID:      networkID,
		PartitionID:    partitionID,
		UnitID:         unitID,
		Type:           txType,
		ClientMetadata: md,
	}
	if err := p.SetAttributes(attrs); err != nil {
		return nil, err
	}
	return p, nil
}

// SetAttributes encodes the attributes into the payload. When the attributes
// implement OwnerProofViewer the owner proof view is encoded as well
func (p *Payload) SetAttributes(attrs any) error {
	if attrs == nil {
		return errors.New("transaction attributes are nil")
	}
	data, err := cbor.Encode(attrs)
	if err != nil {
		return fmt.Errorf("encode transaction attributes: %w", err)
	}
	p.Attributes = data
	p.ownerProofView = nil
	if viewer, ok := attrs.(OwnerProofViewer); ok {
		view, err := cbor.Encode(viewer.OwnerProofView())
		if err != nil {
			return fmt.Errorf("encode owner proof view: %w", err)
		}
		p.ownerProofView = view
	}
	return nil
}

// UnmarshalAttributes decodes the attributes into dest. When dest implements
// OwnerProofViewer the owner proof view is restored, so signing bytes computed from a
// decoded payload match the ones computed at creation time
func (p *Payload) UnmarshalAttributes(dest any) error {
	if len(p.Attributes) == 0 {
		return errors.New("transaction attributes are empty")
	}
	if err := cbor.DecodeStrict(p.Attributes, dest); err != nil {
		return fmt.Errorf("decode transaction attributes: %w", err)
	}
	if viewer, ok := dest.(OwnerProofViewer); ok {
		view, err := cbor.Encode(viewer.OwnerProofView())
		if err != nil {
			return fmt.Errorf("encode owner proof view: %w", err)
		}
		p.ownerProofView = view
	}
	return nil
}

// OwnerProofAttributes returns the encoded attributes as covered by the owner proof
func (p *Payload) OwnerProofAttributes() cbor.RawMessage {
	if p.ownerProofView != nil {
		return p.ownerProofView
	}
	return p.Attributes
}

// FeeCreditRecordID returns the fee credit record paying for the transaction, if any
func (p *Payload) FeeCreditRecordID() []byte {
	if p.ClientMetadata == nil {
		return nil
	}
	return p.ClientMetadata.FeeCreditRecordID
}

// Timeout returns the round number after which the transaction is rejected
func (p *Payload) Timeout() uint64 {
	if p.ClientMetadata == nil {
		return 0
	}
	return p.ClientMetadata.Timeout
}

// MaxFee returns the maximum fee the client agrees to pay
func (p *Payload) MaxFee() uint64 {
	if p.ClientMetadata == nil {
		return 0
	}
	return p.ClientMetadata.MaxTransactionFee
}
