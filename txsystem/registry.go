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

package txsystem

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopartition/txsystem/fc"
	"github.com/blinklabs-io/gopartition/txsystem/money"
	"github.com/blinklabs-io/gopartition/txsystem/tokens"
	"github.com/blinklabs-io/gopartition/types"
)

// PartitionKind identifies the transaction system run by a partition
type PartitionKind int

const (
	PartitionKindMoney PartitionKind = iota + 1
	PartitionKindTokens
)

func (k PartitionKind) String() string {
	switch k {
	case PartitionKindMoney:
		return "money"
	case PartitionKindTokens:
		return "tokens"
	default:
		return fmt.Sprintf("PartitionKind(%d)", int(k))
	}
}

// Descriptor describes how a transaction type is authorized and decoded
type Descriptor struct {
	Name string
	// Shape is the auth proof layout required by the transaction type
	Shape types.AuthProofShape
	// FeeExempt transactions carry no fee proof
	FeeExempt bool
	// NewAttributes returns an empty attributes value to decode into
	NewAttributes func() any
}

type descriptorKey struct {
	kind   PartitionKind
	txType uint16
}

func ownerProof(name string, newAttrs func() any) Descriptor {
	return Descriptor{Name: name, Shape: types.AuthProofShapeOwnerProof, NewAttributes: newAttrs}
}

func typeOwnerProofs(name string, newAttrs func() any) Descriptor {
	return Descriptor{Name: name, Shape: types.AuthProofShapeTypeOwnerProofs, NewAttributes: newAttrs}
}

func feeExempt(name string, newAttrs func() any) Descriptor {
	return Descriptor{Name: name, Shape: types.AuthProofShapeOwnerProof, FeeExempt: true, NewAttributes: newAttrs}
}

// feeCreditDescriptors are registered for every partition kind
var feeCreditDescriptors = map[uint16]Descriptor{
	fc.TransactionTypeTransferFeeCredit: feeExempt("transferFC", func() any { return &fc.TransferFeeCreditAttributes{} }),
	fc.TransactionTypeAddFeeCredit:      feeExempt("addFC", func() any { return &fc.AddFeeCreditAttributes{} }),
	fc.TransactionTypeCloseFeeCredit:    feeExempt("closeFC", func() any { return &fc.CloseFeeCreditAttributes{} }),
	fc.TransactionTypeReclaimFeeCredit:  feeExempt("reclaimFC", func() any { return &fc.ReclaimFeeCreditAttributes{} }),
	fc.TransactionTypeLockFeeCredit:     feeExempt("lockFC", func() any { return &fc.LockFeeCreditAttributes{} }),
	fc.TransactionTypeUnlockFeeCredit:   feeExempt("unlockFC", func() any { return &fc.UnlockFeeCreditAttributes{} }),
}

var descriptorTable = map[PartitionKind]map[uint16]Descriptor{
	PartitionKindMoney: {
		money.TransactionTypeTransfer: ownerProof("transfer", func() any { return &money.TransferAttributes{} }),
		money.TransactionTypeSplit:    ownerProof("split", func() any { return &money.SplitAttributes{} }),
		money.TransactionTypeTransDC:  ownerProof("transDC", func() any { return &money.TransferDCAttributes{} }),
		money.TransactionTypeSwapDC:   ownerProof("swapDC", func() any { return &money.SwapDCAttributes{} }),
		money.TransactionTypeLock:     ownerProof("lock", func() any { return &money.LockAttributes{} }),
		money.TransactionTypeUnlock:   ownerProof("unlock", func() any { return &money.UnlockAttributes{} }),
	},
	PartitionKindTokens: {
		tokens.TransactionTypeDefineNFT: {
			Name:          "defNT",
			Shape:         types.AuthProofShapeSubTypeOwnerProofs,
			NewAttributes: func() any { return &tokens.DefineNonFungibleTokenAttributes{} },
		},
		tokens.TransactionTypeDefineFT: {
			Name:          "defFT",
			Shape:         types.AuthProofShapeSubTypeOwnerProofs,
			NewAttributes: func() any { return &tokens.DefineFungibleTokenAttributes{} },
		},
		tokens.TransactionTypeMintNFT:     ownerProof("mintNT", func() any { return &tokens.MintNonFungibleTokenAttributes{} }),
		tokens.TransactionTypeMintFT:      ownerProof("mintFT", func() any { return &tokens.MintFungibleTokenAttributes{} }),
		tokens.TransactionTypeTransferNFT: typeOwnerProofs("transNT", func() any { return &tokens.TransferNonFungibleTokenAttributes{} }),
		tokens.TransactionTypeTransferFT:  typeOwnerProofs("transFT", func() any { return &tokens.TransferFungibleTokenAttributes{} }),
		tokens.TransactionTypeLockToken:   typeOwnerProofs("lockT", func() any { return &tokens.LockTokenAttributes{} }),
		tokens.TransactionTypeSplitFT:     typeOwnerProofs("splitFT", func() any { return &tokens.SplitFungibleTokenAttributes{} }),
		tokens.TransactionTypeBurnFT:      typeOwnerProofs("burnFT", func() any { return &tokens.BurnFungibleTokenAttributes{} }),
		tokens.TransactionTypeJoinFT:      typeOwnerProofs("joinFT", func() any { return &tokens.JoinFungibleTokenAttributes{} }),
		tokens.TransactionTypeUpdateNFT: {
			Name:          "updateNT",
			Shape:         types.AuthProofShapeTypeDataUpdateProofs,
			NewAttributes: func() any { return &tokens.UpdateNonFungibleTokenAttributes{} },
		},
		tokens.TransactionTypeUnlockToken: typeOwnerProofs("unlockT", func() any { return &tokens.UnlockTokenAttributes{} }),
	},
}

// Registry resolves transaction descriptors by partition and transaction type. It is
// immutable after construction
type Registry struct {
	partitions map[types.PartitionID]PartitionKind
}

// NewRegistry creates a registry for the given partitions
func NewRegistry(partitions map[types.PartitionID]PartitionKind) (*Registry, error) {
	if len(partitions) == 0 {
		return nil, errors.New("no partitions configured")
	}
	r := &Registry{
		partitions: make(map[types.PartitionID]PartitionKind, len(partitions)),
	}
	for id, kind := range partitions {
		if _, ok := descriptorTable[kind]; !ok {
			return nil, fmt.Errorf("partition %d: unknown partition kind %s", id, kind)
		}
		r.partitions[id] = kind
	}
	return r, nil
}

// DefaultRegistry returns the registry for the default money and token partitions
func DefaultRegistry() *Registry {
	return &Registry{
		partitions: map[types.PartitionID]PartitionKind{
			money.DefaultPartitionID:  PartitionKindMoney,
			tokens.DefaultPartitionID: PartitionKindTokens,
		},
	}
}

// PartitionKind returns the kind of the partition
func (r *Registry) PartitionKind(partitionID types.PartitionID) (PartitionKind, bool) {
	kind, ok := r.partitions[partitionID]
	return kind, ok
}

// Lookup returns the descriptor of the transaction type in the partition
func (r *Registry) Lookup(partitionID types.PartitionID, txType uint16) (Descriptor, error) {
	kind, ok := r.partitions[partitionID]
	if !ok {
		return Descriptor{}, &types.UnsupportedShapeError{
			PartitionID: partitionID,
			Type:        txType,
			Reason:      "unknown partition",
		}
	}
	if desc, ok := descriptorTable[kind][txType]; ok {
		return desc, nil
	}
	if desc, ok := feeCreditDescriptors[txType]; ok {
		return desc, nil
	}
	return Descriptor{}, &types.UnsupportedShapeError{
		PartitionID: partitionID,
		Type:        txType,
		Reason:      fmt.Sprintf("unknown %s transaction type", kind),
	}
}

// DecodeAttributes decodes the payload attributes into the type registered for it
func (r *Registry) DecodeAttributes(payload *types.Payload) (any, error) {
	desc, err := r.Lookup(payload.PartitionID, payload.Type)
	if err != nil {
		return nil, err
	}
	attrs := desc.NewAttributes()
	if err := payload.UnmarshalAttributes(attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// CheckShape returns an UnsupportedShapeError unless the transaction type uses the
// given auth proof shape
func (r *Registry) CheckShape(payload *types.Payload, shape types.AuthProofShape) (Descriptor, error) {
	desc, err := r.Lookup(payload.PartitionID, payload.Type)
	if err != nil {
		return Descriptor{}, err
	}
	if desc.Shape != shape {
		return Descriptor{}, &types.UnsupportedShapeError{
			PartitionID: payload.PartitionID,
			Type:        payload.Type,
			Reason:      fmt.Sprintf("%s requires %s, got %s", desc.Name, desc.Shape, shape),
		}
	}
	return desc, nil
}
