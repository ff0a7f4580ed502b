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

// Package txsign implements the transaction signing protocol. The owner side proofs
// are produced first over the payload and state unlock; the fee proof is produced last
// over those bytes followed by the encoded auth proof, so it commits to the complete
// authorization.
package txsign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gopartition/proof"
	"github.com/blinklabs-io/gopartition/txsystem"
	"github.com/blinklabs-io/gopartition/types"
)

// Signer assembles signed transaction orders. The auth proof is created over the
// order's AuthProofSigBytes and the fee proof, when present, over FeeProofSigBytes,
// so the fee payer signs the already authorized transaction. Input orders are never
// modified
type Signer struct {
	logger   *slog.Logger
	registry *txsystem.Registry
	version  uint32
}

// New returns a transaction Signer with the specified options
func New(opts ...OptionFunc) *Signer {
	s := &Signer{
		version: types.TransactionOrderVersion1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.registry == nil {
		s.registry = txsystem.DefaultRegistry()
	}
	return s
}

// NewOrder creates an unsigned order for the payload
func (s *Signer) NewOrder(payload *types.Payload, stateUnlock []byte) *types.TransactionOrder {
	tx := types.NewTransactionOrder(payload, stateUnlock)
	tx.Version = s.version
	return tx
}

// SignWithOwnerProof signs an order authorized by a single owner proof. A nil fee
// factory leaves the fee proof empty
func (s *Signer) SignWithOwnerProof(
	ctx context.Context,
	order *types.TransactionOrder,
	owner proof.Factory,
	fee proof.Factory,
) (*types.TransactionOrder, error) {
	return s.sign(
		ctx,
		order,
		types.AuthProofShapeOwnerProof,
		[]proof.Factory{owner},
		func(proofs [][]byte) types.AuthProof {
			return &types.OwnerProofAuth{OwnerProof: proofs[0]}
		},
		fee,
		false,
	)
}

// SignWithTypeOwnerProofs signs an order authorized by the token owner and the owner
// predicates of the token type and its ancestors, in inheritance order
func (s *Signer) SignWithTypeOwnerProofs(
	ctx context.Context,
	order *types.TransactionOrder,
	owner proof.Factory,
	typeOwners []proof.Factory,
	fee proof.Factory,
) (*types.TransactionOrder, error) {
	factories := make([]proof.Factory, 0, len(typeOwners)+1)
	factories = append(factories, owner)
	factories = append(factories, typeOwners...)
	return s.sign(
		ctx,
		order,
		types.AuthProofShapeTypeOwnerProofs,
		factories,
		func(proofs [][]byte) types.AuthProof {
			return &types.TypeOwnerProofs{
				OwnerProof:           proofs[0],
				TokenTypeOwnerProofs: proofs[1:],
			}
		},
		fee,
		false,
	)
}

// SignWithSubTypeOwnerProofs signs a token type definition authorized by the sub-type
// creation predicates of its parent types
func (s *Signer) SignWithSubTypeOwnerProofs(
	ctx context.Context,
	order *types.TransactionOrder,
	subTypes []proof.Factory,
	fee proof.Factory,
) (*types.TransactionOrder, error) {
	return s.sign(
		ctx,
		order,
		types.AuthProofShapeSubTypeOwnerProofs,
		subTypes,
		func(proofs [][]byte) types.AuthProof {
			return &types.SubTypeOwnerProofs{SubTypeCreationProofs: proofs}
		},
		fee,
		false,
	)
}

// SignWithTypeDataUpdateProofs signs a token data update authorized by the token's data
// update predicate and those of its type and ancestors
func (s *Signer) SignWithTypeDataUpdateProofs(
	ctx context.Context,
	order *types.TransactionOrder,
	dataUpdate proof.Factory,
	typeDataUpdates []proof.Factory,
	fee proof.Factory,
) (*types.TransactionOrder, error) {
	factories := make([]proof.Factory, 0, len(typeDataUpdates)+1)
	factories = append(factories, dataUpdate)
	factories = append(factories, typeDataUpdates...)
	return s.sign(
		ctx,
		order,
		types.AuthProofShapeTypeDataUpdateProofs,
		factories,
		func(proofs [][]byte) types.AuthProof {
			return &types.TypeDataUpdateProofs{
				TokenDataUpdateProof:      proofs[0],
				TokenTypeDataUpdateProofs: proofs[1:],
			}
		},
		fee,
		false,
	)
}

// SignFeeExempt signs a fee credit transaction. These carry no fee proof
func (s *Signer) SignFeeExempt(
	ctx context.Context,
	order *types.TransactionOrder,
	owner proof.Factory,
) (*types.TransactionOrder, error) {
	return s.sign(
		ctx,
		order,
		types.AuthProofShapeOwnerProof,
		[]proof.Factory{owner},
		func(proofs [][]byte) types.AuthProof {
			return &types.OwnerProofAuth{OwnerProof: proofs[0]}
		},
		nil,
		true,
	)
}

// SignFeeProof adds or replaces the fee proof of an order that already carries its
// auth proof, for when the fee payer signs separately from the owner
func (s *Signer) SignFeeProof(
	ctx context.Context,
	order *types.TransactionOrder,
	fee proof.Factory,
) (*types.TransactionOrder, error) {
	if order == nil {
		return nil, errors.New("transaction order is nil")
	}
	if fee == nil {
		return nil, errors.New("fee proof factory is nil")
	}
	desc, err := s.registry.Lookup(order.PartitionID, order.Type)
	if err != nil {
		return nil, err
	}
	if desc.FeeExempt {
		return nil, &types.UnsupportedShapeError{
			PartitionID: order.PartitionID,
			Type:        order.Type,
			Reason:      desc.Name + " is fee exempt",
		}
	}
	if !order.HasAuthProof() {
		return nil, errors.New("transaction order has no auth proof")
	}
	tx := order.Clone()
	if err := s.addFeeProof(ctx, tx, fee); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Signer) sign(
	ctx context.Context,
	order *types.TransactionOrder,
	shape types.AuthProofShape,
	factories []proof.Factory,
	assemble func([][]byte) types.AuthProof,
	fee proof.Factory,
	feeExempt bool,
) (*types.TransactionOrder, error) {
	if order == nil {
		return nil, errors.New("transaction order is nil")
	}
	desc, err := s.registry.CheckShape(&order.Payload, shape)
	if err != nil {
		return nil, err
	}
	if desc.FeeExempt != feeExempt {
		reason := desc.Name + " is fee exempt and must be signed with SignFeeExempt"
		if !desc.FeeExempt {
			reason = desc.Name + " is not fee exempt"
		}
		return nil, &types.UnsupportedShapeError{
			PartitionID: order.PartitionID,
			Type:        order.Type,
			Reason:      reason,
		}
	}
	// Root token types have no parents to prove sub-type creation for
	if len(factories) == 0 && shape != types.AuthProofShapeSubTypeOwnerProofs {
		return nil, errors.New("no auth proof factories provided")
	}
	tx := order.Clone()
	if tx.Version == 0 {
		tx.Version = s.version
	}
	authBytes, err := tx.AuthProofSigBytes()
	if err != nil {
		return nil, fmt.Errorf("encode auth proof sig bytes: %w", err)
	}
	proofs, err := proof.CreateAll(ctx, factories, authBytes)
	if err != nil {
		return nil, err
	}
	if err := tx.SetAuthProof(assemble(proofs)); err != nil {
		return nil, err
	}
	tx.FeeProof = nil
	s.logger.Debug(
		"auth proof created",
		"tx_type", desc.Name,
		"partition_id", tx.PartitionID,
		"unit_id", tx.UnitID.String(),
		"shape", shape.String(),
		"proof_count", len(proofs),
	)
	if fee != nil {
		if err := s.addFeeProof(ctx, tx, fee); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func (s *Signer) addFeeProof(ctx context.Context, tx *types.TransactionOrder, fee proof.Factory) error {
	feeBytes, err := tx.FeeProofSigBytes()
	if err != nil {
		return fmt.Errorf("encode fee proof sig bytes: %w", err)
	}
	feeProof, err := proof.Create(ctx, fee, feeBytes)
	if err != nil {
		return err
	}
	tx.FeeProof = feeProof
	s.logger.Debug(
		"fee proof created",
		"unit_id", tx.UnitID.String(),
		"fee_credit_record_id", types.UnitID(tx.FeeCreditRecordID()).String(),
	)
	return nil
}
