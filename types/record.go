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

const TransactionRecordVersion1 uint32 = 1

// ServerMetadata is attached to a transaction by the partition after execution
type ServerMetadata struct {
	cbor.StructAsArray
	ActualFee         uint64
	TargetUnits       []UnitID
	SuccessIndicator  TxStatus
	ProcessingDetails cbor.RawMessage
}

// TransactionRecord is an executed transaction order. The order is carried as the
// byte string content of its canonical encoding, so its hash is preserved exactly
type TransactionRecord struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Version          uint32
	TransactionOrder []byte
	ServerMetadata   *ServerMetadata
}

// NewTransactionRecord creates a record for the order
func NewTransactionRecord(order *TransactionOrder, sm *ServerMetadata) (*TransactionRecord, error) {
	if order == nil {
		return nil, errors.New("transaction order is nil")
	}
	orderBytes, err := order.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encode transaction order: %w", err)
	}
	return &TransactionRecord{
		Version:          TransactionRecordVersion1,
		TransactionOrder: orderBytes,
		ServerMetadata:   sm,
	}, nil
}

func (r *TransactionRecord) UnmarshalCBOR(cborData []byte) error {
	return r.UnmarshalCborGeneric(cborData, r)
}

func (r *TransactionRecord) MarshalCBOR() ([]byte, error) {
	// Return stored CBOR if we have any
	cborData := r.Cbor()
	if cborData != nil {
		return cborData, nil
	}
	type tTransactionRecord TransactionRecord
	tmp := tTransactionRecord(*r)
	return cbor.Encode(&tmp)
}

// GetTransactionOrder decodes the carried order
func (r *TransactionRecord) GetTransactionOrder() (*TransactionOrder, error) {
	if len(r.TransactionOrder) == 0 {
		return nil, errors.New("transaction record has no transaction order")
	}
	order := &TransactionOrder{}
	if err := cbor.DecodeStrict(r.TransactionOrder, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Hash returns the SHA-256 hash of the record as received, or of its encoding when
// the record was built locally
func (r *TransactionRecord) Hash() ([]byte, error) {
	data, err := r.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	return Sha256(data), nil
}

// IsSuccessful reports whether the partition executed the transaction successfully
func (r *TransactionRecord) IsSuccessful() bool {
	return r.ServerMetadata != nil && r.ServerMetadata.SuccessIndicator == TxStatusSuccessful
}
