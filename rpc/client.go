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

// Package rpc defines the partition node interface used by the client library and
// helpers that submit and confirm transactions through it. Transport implementations
// live outside this module.
package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/types"
)

var (
	// ErrNotFound is returned by a Client when the requested unit, block or proof
	// does not exist (yet)
	ErrNotFound = errors.New("not found")

	ErrTxHashMismatch = errors.New("transaction hash mismatch")
)

// Unit is the state of a unit as returned by a partition node
type Unit[T any] struct {
	NetworkID   types.NetworkID   `json:"networkId"`
	PartitionID types.PartitionID `json:"partitionId"`
	UnitID      types.UnitID      `json:"unitId"`
	Data        T                 `json:"data"`
	// StateProof is only set when requested
	StateProof cbor.RawMessage `json:"stateProof,omitempty"`
}

// Client is the interface to a partition node
type Client interface {
	// GetRoundNumber returns the latest round number of the partition
	GetRoundNumber(ctx context.Context) (uint64, error)
	// GetUnit returns the unit with its encoded state
	GetUnit(ctx context.Context, unitID types.UnitID, includeStateProof bool) (*Unit[cbor.RawMessage], error)
	// GetUnitsByOwner returns the identifiers of the units owned by the owner
	GetUnitsByOwner(ctx context.Context, ownerID []byte) ([]types.UnitID, error)
	// GetBlock returns the encoded block of the round
	GetBlock(ctx context.Context, roundNumber uint64) ([]byte, error)
	// SendTransaction submits an encoded transaction order and returns its hash
	SendTransaction(ctx context.Context, tx []byte) ([]byte, error)
	// GetTransactionProof returns the record and proof of an executed transaction
	GetTransactionProof(ctx context.Context, txHash []byte) (*types.TxRecordProof, error)
	// GetTrustBase returns the root trust base of the epoch
	GetTrustBase(ctx context.Context, epoch uint64) (*types.RootTrustBase, error)
}

// GetUnitData fetches a unit and decodes its state into T
func GetUnitData[T any](
	ctx context.Context,
	c Client,
	unitID types.UnitID,
	includeStateProof bool,
) (*Unit[T], error) {
	unit, err := c.GetUnit(ctx, unitID, includeStateProof)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("unit %s: %w", unitID, ErrNotFound)
	}
	ret := &Unit[T]{
		NetworkID:   unit.NetworkID,
		PartitionID: unit.PartitionID,
		UnitID:      unit.UnitID,
		StateProof:  unit.StateProof,
	}
	if err := cbor.DecodeStrict(unit.Data, &ret.Data); err != nil {
		return nil, fmt.Errorf("decode unit %s data: %w", unitID, err)
	}
	return ret, nil
}

// SendOrder encodes and submits a signed transaction order. The hash reported by the
// node must match the locally computed one
func SendOrder(ctx context.Context, c Client, order *types.TransactionOrder) ([]byte, error) {
	if order == nil {
		return nil, errors.New("transaction order is nil")
	}
	if !order.HasAuthProof() {
		return nil, errors.New("transaction order is not signed")
	}
	txBytes, err := cbor.Encode(order)
	if err != nil {
		return nil, fmt.Errorf("encode transaction order: %w", err)
	}
	txHash, err := order.Hash()
	if err != nil {
		return nil, err
	}
	returned, err := c.SendTransaction(ctx, txBytes)
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}
	if !bytes.Equal(returned, txHash) {
		return nil, fmt.Errorf("%w: expected %x, node returned %x", ErrTxHashMismatch, txHash, returned)
	}
	return txHash, nil
}
