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
	"maps"
	"slices"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/crypto"
)

const RootTrustBaseVersion1 uint32 = 1

// NodeInfo describes a root validator
type NodeInfo struct {
	cbor.StructAsArray
	NodeID string
	SigKey []byte // compressed secp256k1 public key
	Stake  uint64
}

// RootTrustBase is the set of root validators of an epoch and the stake required for
// a quorum
type RootTrustBase struct {
	cbor.StructAsArray
	Version           uint32
	NetworkID         NetworkID
	Epoch             uint64
	EpochStartRound   uint64
	RootNodes         []*NodeInfo
	QuorumThreshold   uint64
	StateHash         []byte
	ChangeRecordHash  []byte
	PreviousEntryHash []byte
	Signatures        SignatureMap
}

// NewTrustBase creates a version 1 trust base. A zero quorum threshold defaults to
// more than two thirds of the total stake
func NewTrustBase(
	networkID NetworkID,
	epoch uint64,
	epochStartRound uint64,
	nodes []*NodeInfo,
	quorumThreshold uint64,
) (*RootTrustBase, error) {
	if quorumThreshold == 0 {
		var total uint64
		for _, node := range nodes {
			if node != nil {
				total += node.Stake
			}
		}
		quorumThreshold = total*2/3 + 1
	}
	tb := &RootTrustBase{
		Version:         RootTrustBaseVersion1,
		NetworkID:       networkID,
		Epoch:           epoch,
		EpochStartRound: epochStartRound,
		RootNodes:       nodes,
		QuorumThreshold: quorumThreshold,
	}
	if err := tb.Validate(); err != nil {
		return nil, err
	}
	return tb, nil
}

// Validate checks the root node set and the quorum threshold. Trust bases received
// from the network are only usable once they pass this check
func (t *RootTrustBase) Validate() error {
	if len(t.RootNodes) == 0 {
		return errors.New("trust base has no root nodes")
	}
	seen := make(map[string]struct{}, len(t.RootNodes))
	var total uint64
	for idx, node := range t.RootNodes {
		if node == nil {
			return fmt.Errorf("trust base node %d is missing", idx)
		}
		if node.NodeID == "" {
			return fmt.Errorf("trust base node %d has no identifier", idx)
		}
		if _, ok := seen[node.NodeID]; ok {
			return fmt.Errorf("duplicate trust base node %s", node.NodeID)
		}
		if len(node.SigKey) != crypto.CompressedPublicKeySize {
			return fmt.Errorf("trust base node %s has invalid key size %d", node.NodeID, len(node.SigKey))
		}
		seen[node.NodeID] = struct{}{}
		total += node.Stake
	}
	if t.QuorumThreshold == 0 {
		return errors.New("trust base quorum threshold is zero")
	}
	if t.QuorumThreshold > total {
		return fmt.Errorf("quorum threshold %d exceeds total stake %d", t.QuorumThreshold, total)
	}
	return nil
}
// GetRootNodes returns the root nodes keyed by node identifier. Missing entries are
// skipped
func (t *RootTrustBase) GetRootNodes() map[string]*NodeInfo {
	ret := make(map[string]*NodeInfo, len(t.RootNodes))
	for _, node := range t.RootNodes {
		if node == nil {
			continue
		}
		ret[node.NodeID] = node
	}
	return ret
}

// TotalStake returns the summed stake of all root nodes
func (t *RootTrustBase) TotalStake() uint64 {
	var total uint64
	for _, node := range t.RootNodes {
		if node != nil {
			total += node.Stake
		}
	}
	return total
}

// VerifySignature verifies the signature of a single root node
func (t *RootTrustBase) VerifySignature(data []byte, sig []byte, nodeID string) (uint64, error) {
	node, ok := t.GetRootNodes()[nodeID]
	if !ok {
		return 0, fmt.Errorf("node %s is not part of the trust base", nodeID)
	}
	if err := crypto.VerifySignature(node.SigKey, sig, data); err != nil {
		return 0, fmt.Errorf("node %s: %w", nodeID, err)
	}
	return node.Stake, nil
}

// VerifyQuorumSignatures returns the summed stake of the nodes whose signature over
// data is valid, and the errors for the signatures that are not
func (t *RootTrustBase) VerifyQuorumSignatures(data []byte, signatures SignatureMap) (uint64, []error) {
	var stake uint64
	var errs []error
	for _, nodeID := range slices.Sorted(maps.Keys(signatures)) {
		nodeStake, err := t.VerifySignature(data, signatures[nodeID], nodeID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stake += nodeStake
	}
	return stake, errs
}

// VerifyQuorum returns a QuorumError when the valid signatures do not reach the quorum
// threshold
func (t *RootTrustBase) VerifyQuorum(data []byte, signatures SignatureMap) error {
	stake, errs := t.VerifyQuorumSignatures(data, signatures)
	if stake < t.QuorumThreshold {
		return &QuorumError{
			Stake:     stake,
			Threshold: t.QuorumThreshold,
			Errs:      errs,
		}
	}
	return nil
}

// SigBytes returns the encoding of the trust base without signatures
func (t *RootTrustBase) SigBytes() ([]byte, error) {
	tmp := *t
	tmp.Signatures = nil
	return cbor.Encode(&tmp)
}

// Hash returns the SHA-256 hash of the encoded trust base, signatures included
func (t *RootTrustBase) Hash() ([]byte, error) {
	data, err := cbor.Encode(t)
	if err != nil {
		return nil, err
	}
	return Sha256(data), nil
}

// VerifyWith checks that the trust base follows the previous epoch's trust base and
// is signed by a quorum of its nodes
func (t *RootTrustBase) VerifyWith(prev *RootTrustBase) error {
	if prev == nil {
		return errors.New("previous trust base is nil")
	}
	if t.NetworkID != prev.NetworkID {
		return fmt.Errorf("network mismatch: %d, previous %d", t.NetworkID, prev.NetworkID)
	}
	if t.Epoch != prev.Epoch+1 {
		return fmt.Errorf("epoch %d does not follow previous epoch %d", t.Epoch, prev.Epoch)
	}
	prevHash, err := prev.Hash()
	if err != nil {
		return fmt.Errorf("hash previous trust base: %w", err)
	}
	if !bytes.Equal(t.PreviousEntryHash, prevHash) {
		return errors.New("previous entry hash mismatch")
	}
	sigBytes, err := t.SigBytes()
	if err != nil {
		return err
	}
	return prev.VerifyQuorum(sigBytes, t.Signatures)
}
