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

const TxProofVersion1 uint32 = 1

// GenericChainItem is one step of a Merkle path. Left is set when Hash is the left
// sibling of the running hash
type GenericChainItem struct {
	cbor.StructAsArray
	Hash []byte
	Left bool
}

// TxProof proves the inclusion of a transaction record in a certified block
type TxProof struct {
	cbor.StructAsArray
	Version            uint32
	BlockHeaderHash    []byte
	Chain              []*GenericChainItem
	UnicityCertificate *UnicityCertificate
}

// TxRecordProof is a transaction record with the proof of its inclusion in a block
type TxRecordProof struct {
	cbor.StructAsArray
	TxRecord *TransactionRecord
	TxProof  *TxProof
}

// PlainTreeOutput folds the Merkle path over the leaf hash and returns the root. Every
// path item must carry a hash of HashSize bytes
func PlainTreeOutput(chain []*GenericChainItem, leaf []byte) ([]byte, error) {
	h := leaf
	for idx, item := range chain {
		if item == nil {
			return nil, fmt.Errorf("merkle path item %d is missing", idx)
		}
		if len(item.Hash) != HashSize {
			return nil, fmt.Errorf("merkle path item %d has invalid hash size %d", idx, len(item.Hash))
		}
		if item.Left {
			h = Sha256(item.Hash, h)
		} else {
			h = Sha256(h, item.Hash)
		}
	}
	return h, nil
}

// BlockHash combines the block header hash and the transaction tree root
func BlockHash(blockHeaderHash, txRoot []byte) []byte {
	return Sha256(blockHeaderHash, txRoot)
}

// CalculateBlockHash recomputes the hash of the block containing the given record
func (p *TxProof) CalculateBlockHash(txRecordHash []byte) ([]byte, error) {
	root, err := PlainTreeOutput(p.Chain, txRecordHash)
	if err != nil {
		return nil, err
	}
	return BlockHash(p.BlockHeaderHash, root), nil
}

// GetUnicityCertificate returns the certificate of the containing block, or nil
func (p *TxProof) GetUnicityCertificate() *UnicityCertificate {
	if p == nil {
		return nil
	}
	return p.UnicityCertificate
}

// GetTransactionOrder decodes the order carried by the record
func (p *TxRecordProof) GetTransactionOrder() (*TransactionOrder, error) {
	if p == nil || p.TxRecord == nil {
		return nil, errors.New("transaction record is nil")
	}
	return p.TxRecord.GetTransactionOrder()
}

// ActualFee returns the fee charged for the transaction
func (p *TxRecordProof) ActualFee() uint64 {
	if p == nil || p.TxRecord == nil || p.TxRecord.ServerMetadata == nil {
		return 0
	}
	return p.TxRecord.ServerMetadata.ActualFee
}

// TypedTxRecordProof is a record proof with the order and its attributes decoded
type TypedTxRecordProof[A any] struct {
	*TxRecordProof
	Order      *TransactionOrder
	Attributes *A
}

// NewTypedTxRecordProof decodes the order and attributes of the record proof
func NewTypedTxRecordProof[A any](p *TxRecordProof) (*TypedTxRecordProof[A], error) {
	order, err := p.GetTransactionOrder()
	if err != nil {
		return nil, err
	}
	attrs := new(A)
	if err := order.UnmarshalAttributes(attrs); err != nil {
		return nil, fmt.Errorf("decode attributes of transaction type %d: %w", order.Type, err)
	}
	return &TypedTxRecordProof[A]{
		TxRecordProof: p,
		Order:         order,
		Attributes:    attrs,
	}, nil
}
