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

	"github.com/blinklabs-io/gopartition/cbor"
)

// SignatureMap maps a root node identifier to its signature
type SignatureMap map[string][]byte

// InputRecord is the summary of a partition round certified by the root chain
type InputRecord struct {
	cbor.StructAsArray
	Version         uint32
	RoundNumber     uint64
	Epoch           uint64
	PreviousHash    []byte // state hash before the round
	Hash            []byte // state hash after the round
	BlockHash       []byte
	SummaryValue    []byte
	Timestamp       uint64
	SumOfEarnedFees uint64
}

// UnicityTreeCertificate proves that the partition's certified input record is a leaf
// of the unicity tree
type UnicityTreeCertificate struct {
	cbor.StructAsArray
	Version   uint32
	Partition PartitionID
	HashSteps []*GenericChainItem
}

// UnicitySeal is the root chain's signed commitment to a unicity tree root hash
type UnicitySeal struct {
	cbor.StructAsArray
	Version              uint32
	NetworkID            NetworkID
	RootChainRoundNumber uint64
	Epoch                uint64
	Timestamp            uint64
	PreviousHash         []byte
	Hash                 []byte // unicity tree root hash
	Signatures           SignatureMap
}

// SigBytes returns the encoding of the seal without signatures, which is the message
// signed by every root node
func (s *UnicitySeal) SigBytes() ([]byte, error) {
	tmp := *s
	tmp.Signatures = nil
	return cbor.Encode(&tmp)
}

type UnicityCertificate struct {
	cbor.StructAsArray
	Version                uint32
	InputRecord            *InputRecord
	TRHash                 []byte // technical record hash
	ShardConfHash          []byte
	UnicityTreeCertificate *UnicityTreeCertificate
	UnicitySeal            *UnicitySeal
}

// LeafHash returns the unicity tree leaf for the partition: the partition identifier
// followed by the hash of the input record, technical record hash and shard
// configuration hash
func (uc *UnicityCertificate) LeafHash() ([]byte, error) {
	if uc.InputRecord == nil {
		return nil, errors.New("unicity certificate has no input record")
	}
	if uc.UnicityTreeCertificate == nil {
		return nil, errors.New("unicity certificate has no unicity tree certificate")
	}
	irBytes, err := cbor.Encode(uc.InputRecord)
	if err != nil {
		return nil, fmt.Errorf("encode input record: %w", err)
	}
	return Sha256(
		uc.UnicityTreeCertificate.Partition.Bytes(),
		Sha256(irBytes, uc.TRHash, uc.ShardConfHash),
	), nil
}

// RootHash recomputes the unicity tree root from the input record and the hash steps
// of the unicity tree certificate
func (uc *UnicityCertificate) RootHash() ([]byte, error) {
	leaf, err := uc.LeafHash()
	if err != nil {
		return nil, err
	}
	root, err := PlainTreeOutput(uc.UnicityTreeCertificate.HashSteps, leaf)
	if err != nil {
		return nil, fmt.Errorf("unicity tree certificate: %w", err)
	}
	return root, nil
}

// GetRoundNumber returns the partition round number, or 0 without an input record
func (uc *UnicityCertificate) GetRoundNumber() uint64 {
	if uc == nil || uc.InputRecord == nil {
		return 0
	}
	return uc.InputRecord.RoundNumber
}

// IsSealHashValid reports whether the seal commits to the recomputed root hash
func (uc *UnicityCertificate) IsSealHashValid() (bool, error) {
	if uc.UnicitySeal == nil {
		return false, errors.New("unicity certificate has no unicity seal")
	}
	root, err := uc.RootHash()
	if err != nil {
		return false, err
	}
	return bytes.Equal(root, uc.UnicitySeal.Hash), nil
}
