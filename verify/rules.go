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

package verify

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/blinklabs-io/gopartition/predicate"
	"github.com/blinklabs-io/gopartition/txsystem"
	"github.com/blinklabs-io/gopartition/types"
)

// Rule identifiers
const (
	RuleIDTransactionProof = "transaction_proof"
	RuleIDSuccessIndicator = "success_indicator"
	RuleIDProofVersion     = "proof_version"
	RuleIDProofV1          = "proof_v1_structure"
	RuleIDOrderVersion     = "order_version"
	RuleIDOrderV1          = "order_v1_structure"
	RuleIDSealHash         = "unicity_seal_hash"
	RuleIDQuorum           = "unicity_seal_quorum"
	RuleIDMerkle           = "merkle_path"
	RuleIDOwnerProof       = "owner_proof"
)

// NewSuccessIndicatorRule checks that the partition executed the transaction
// successfully
func NewSuccessIndicatorRule() Rule {
	return RuleFunc(RuleIDSuccessIndicator, func(ctx *Context) *Result {
		if ctx.Config.SkipSuccessIndicator {
			return OK(RuleIDSuccessIndicator, "skipped")
		}
		if ctx.Proof == nil || ctx.Proof.TxRecord == nil || ctx.Proof.TxRecord.ServerMetadata == nil {
			return NA(RuleIDSuccessIndicator, "server metadata is missing", nil)
		}
		status := ctx.Proof.TxRecord.ServerMetadata.SuccessIndicator
		if status != types.TxStatusSuccessful {
			return Fail(RuleIDSuccessIndicator, "transaction status is "+status.String(), nil)
		}
		return OK(RuleIDSuccessIndicator, "transaction executed successfully")
	})
}

// NewProofVersionRule dispatches on the transaction proof version
func NewProofVersionRule() Rule {
	return ConditionalRule(
		RuleIDProofVersion,
		func(ctx *Context) (string, error) {
			if ctx.Proof == nil || ctx.Proof.TxProof == nil {
				return "", errors.New("transaction proof is missing")
			}
			return strconv.FormatUint(uint64(ctx.Proof.TxProof.Version), 10), nil
		},
		map[string]Rule{
			strconv.FormatUint(uint64(types.TxProofVersion1), 10): newProofV1Rule(),
		},
	)
}

func newProofV1Rule() Rule {
	return RuleFunc(RuleIDProofV1, func(ctx *Context) *Result {
		p := ctx.Proof.TxProof
		if len(p.BlockHeaderHash) != types.HashSize {
			return NA(RuleIDProofV1, fmt.Sprintf("invalid block header hash size %d", len(p.BlockHeaderHash)), nil)
		}
		for idx, item := range p.Chain {
			if item == nil || len(item.Hash) != types.HashSize {
				return NA(RuleIDProofV1, fmt.Sprintf("invalid merkle path item %d", idx), nil)
			}
		}
		uc := p.UnicityCertificate
		switch {
		case uc == nil:
			return NA(RuleIDProofV1, "unicity certificate is missing", nil)
		case uc.InputRecord == nil:
			return NA(RuleIDProofV1, "input record is missing", nil)
		case uc.UnicityTreeCertificate == nil:
			return NA(RuleIDProofV1, "unicity tree certificate is missing", nil)
		case uc.UnicitySeal == nil:
			return NA(RuleIDProofV1, "unicity seal is missing", nil)
		}
		for idx, item := range uc.UnicityTreeCertificate.HashSteps {
			if item == nil || len(item.Hash) != types.HashSize {
				return NA(RuleIDProofV1, fmt.Sprintf("invalid unicity tree hash step %d", idx), nil)
			}
		}
		return OK(RuleIDProofV1, "")
	})
}

// NewOrderVersionRule dispatches on the transaction order version
func NewOrderVersionRule() Rule {
	return ConditionalRule(
		RuleIDOrderVersion,
		func(ctx *Context) (string, error) {
			order, err := ctx.TransactionOrder()
			if err != nil {
				return "", err
			}
			return strconv.FormatUint(uint64(order.Version), 10), nil
		},
		map[string]Rule{
			strconv.FormatUint(uint64(types.TransactionOrderVersion1), 10): newOrderV1Rule(),
		},
	)
}

func newOrderV1Rule() Rule {
	return RuleFunc(RuleIDOrderV1, func(ctx *Context) *Result {
		order, err := ctx.TransactionOrder()
		if err != nil {
			return NA(RuleIDOrderV1, "cannot decode transaction order", err)
		}
		if err := order.UnitID.Validate(); err != nil {
			return Fail(RuleIDOrderV1, "invalid unit identifier", err)
		}
		if !order.HasAuthProof() {
			return Fail(RuleIDOrderV1, "auth proof is missing", nil)
		}
		if ctx.Config.RequireFeeProof && len(order.FeeProof) == 0 {
			return Fail(RuleIDOrderV1, "fee proof is missing", nil)
		}
		if ctx.TrustBase != nil && order.NetworkID != ctx.TrustBase.NetworkID {
			return Fail(
				RuleIDOrderV1,
				fmt.Sprintf("network %d does not match trust base network %d", order.NetworkID, ctx.TrustBase.NetworkID),
				nil,
			)
		}
		uc, err := ctx.UnicityCertificate()
		if err == nil && uc.UnicityTreeCertificate != nil &&
			uc.UnicityTreeCertificate.Partition != order.PartitionID {
			return Fail(
				RuleIDOrderV1,
				fmt.Sprintf("partition %d is not the certified partition %d", order.PartitionID, uc.UnicityTreeCertificate.Partition),
				nil,
			)
		}
		return OK(RuleIDOrderV1, "")
	})
}

// NewSealHashRule checks that the unicity seal commits to the unicity tree root
// recomputed from the certificate
func NewSealHashRule() Rule {
	return RuleFunc(RuleIDSealHash, func(ctx *Context) *Result {
		uc, err := ctx.UnicityCertificate()
		if err != nil {
			return NA(RuleIDSealHash, "", err)
		}
		valid, err := uc.IsSealHashValid()
		if err != nil {
			return NA(RuleIDSealHash, "cannot compute unicity tree root", err)
		}
		if !valid {
			return Fail(RuleIDSealHash, "unicity seal hash does not match unicity tree root", nil)
		}
		return OK(RuleIDSealHash, "")
	})
}

// NewQuorumRule checks that root nodes holding at least the quorum threshold of stake
// signed the unicity seal
func NewQuorumRule() Rule {
	return RuleFunc(RuleIDQuorum, func(ctx *Context) *Result {
		uc, err := ctx.UnicityCertificate()
		if err != nil {
			return NA(RuleIDQuorum, "", err)
		}
		seal := uc.UnicitySeal
		if seal == nil {
			return NA(RuleIDQuorum, "unicity seal is missing", nil)
		}
		tb := ctx.TrustBase
		if tb == nil {
			return NA(RuleIDQuorum, "trust base is missing", nil)
		}
		if err := tb.Validate(); err != nil {
			return NA(RuleIDQuorum, "malformed trust base", err)
		}
		if seal.NetworkID != tb.NetworkID {
			return Fail(RuleIDQuorum, fmt.Sprintf("seal network %d does not match trust base network %d", seal.NetworkID, tb.NetworkID), nil)
		}
		if seal.Epoch != tb.Epoch {
			return Fail(RuleIDQuorum, fmt.Sprintf("seal epoch %d does not match trust base epoch %d", seal.Epoch, tb.Epoch), nil)
		}
		sigBytes, err := seal.SigBytes()
		if err != nil {
			return NA(RuleIDQuorum, "cannot encode unicity seal", err)
		}
		if err := tb.VerifyQuorum(sigBytes, seal.Signatures); err != nil {
			return Fail(RuleIDQuorum, "", err)
		}
		return OK(RuleIDQuorum, "")
	})
}

// NewMerkleRule checks that the Merkle path folds the record hash into the block hash
// certified by the input record
func NewMerkleRule() Rule {
	return RuleFunc(RuleIDMerkle, func(ctx *Context) *Result {
		if ctx.Proof == nil || ctx.Proof.TxRecord == nil || ctx.Proof.TxProof == nil {
			return NA(RuleIDMerkle, "transaction record or proof is missing", nil)
		}
		uc := ctx.Proof.TxProof.UnicityCertificate
		if uc == nil || uc.InputRecord == nil {
			return NA(RuleIDMerkle, "input record is missing", nil)
		}
		txHash, err := ctx.Proof.TxRecord.Hash()
		if err != nil {
			return NA(RuleIDMerkle, "cannot hash transaction record", err)
		}
		blockHash, err := ctx.Proof.TxProof.CalculateBlockHash(txHash)
		if err != nil {
			return NA(RuleIDMerkle, "cannot compute block hash", err)
		}
		if !bytes.Equal(blockHash, uc.InputRecord.BlockHash) {
			return Fail(RuleIDMerkle, "block hash does not match the certified block hash", nil)
		}
		return OK(RuleIDMerkle, "")
	})
}

// NewOwnerProofRule checks the primary auth proof of the order against the expected
// owner predicate. The registry resolves the auth proof shape of the order
func NewOwnerProofRule(registry *txsystem.Registry, ownerPredicate []byte) Rule {
	if registry == nil {
		registry = txsystem.DefaultRegistry()
	}
	return RuleFunc(RuleIDOwnerProof, func(ctx *Context) *Result {
		order, err := ctx.TransactionOrder()
		if err != nil {
			return NA(RuleIDOwnerProof, "cannot decode transaction order", err)
		}
		desc, err := registry.Lookup(order.PartitionID, order.Type)
		if err != nil {
			return NA(RuleIDOwnerProof, "", err)
		}
		authProof, err := types.NewAuthProof(desc.Shape)
		if err != nil {
			return NA(RuleIDOwnerProof, "", err)
		}
		if err := order.UnmarshalAuthProof(authProof); err != nil {
			return NA(RuleIDOwnerProof, "cannot decode auth proof", err)
		}
		primary := types.PrimaryProof(authProof)
		if primary == nil {
			return NA(RuleIDOwnerProof, desc.Name+" has no owner proof", nil)
		}
		sigBytes, err := order.AuthProofSigBytes()
		if err != nil {
			return NA(RuleIDOwnerProof, "cannot encode auth proof sig bytes", err)
		}
		if err := predicate.VerifyOwnerProof(ownerPredicate, primary, sigBytes); err != nil {
			return Fail(RuleIDOwnerProof, "", err)
		}
		return OK(RuleIDOwnerProof, "")
	})
}

// DefaultPolicy returns the default verification policy. Its rules run in order while
// they pass: success indicator, proof version, order version, unicity seal hash,
// quorum and Merkle path
func DefaultPolicy() Rule {
	graph, err := Chain(
		NewSuccessIndicatorRule(),
		NewProofVersionRule(),
		NewOrderVersionRule(),
		NewSealHashRule(),
		NewQuorumRule(),
		NewMerkleRule(),
	)
	if err != nil {
		// The default chain is static
		panic(fmt.Sprintf("invalid default policy: %s", err))
	}
	return AggregatedRule(RuleIDTransactionProof, graph)
}

// PolicyWithOwnerProof returns the default policy followed by an owner proof check
func PolicyWithOwnerProof(registry *txsystem.Registry, ownerPredicate []byte) Rule {
	graph, err := Chain(
		NewSuccessIndicatorRule(),
		NewProofVersionRule(),
		NewOrderVersionRule(),
		NewSealHashRule(),
		NewQuorumRule(),
		NewMerkleRule(),
		NewOwnerProofRule(registry, ownerPredicate),
	)
	if err != nil {
		panic(fmt.Sprintf("invalid owner proof policy: %s", err))
	}
	return AggregatedRule(RuleIDTransactionProof, graph)
}
