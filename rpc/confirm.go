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

package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopartition/types"
	"github.com/blinklabs-io/gopartition/verify"
)

var ErrProofRejected = errors.New("transaction proof rejected")

// ProofRejectedError carries the verification result of a proof that did not pass
type ProofRejectedError struct {
	TxHash []byte
	Result *verify.Result
}

func (e *ProofRejectedError) Error() string {
	return fmt.Sprintf("transaction %x: proof rejected:\n%s", e.TxHash, e.Result)
}

func (*ProofRejectedError) Is(target error) bool {
	return target == ErrProofRejected
}

// ConfirmTransaction fetches the proof of an executed transaction together with the
// trust base of the epoch that sealed it and verifies the proof. A proof that does not
// verify is reported as a *ProofRejectedError
func ConfirmTransaction(
	ctx context.Context,
	c Client,
	verifier *verify.Verifier,
	txHash []byte,
) (*types.TxRecordProof, error) {
	if verifier == nil {
		verifier = verify.New()
	}
	proof, err := c.GetTransactionProof(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("get transaction proof: %w", err)
	}
	if proof == nil {
		return nil, fmt.Errorf("transaction %x proof: %w", txHash, ErrNotFound)
	}
	var epoch uint64
	if uc := proof.TxProof.GetUnicityCertificate(); uc != nil && uc.UnicitySeal != nil {
		epoch = uc.UnicitySeal.Epoch
	}
	trustBase, err := c.GetTrustBase(ctx, epoch)
	if err != nil {
		return nil, fmt.Errorf("get trust base for epoch %d: %w", epoch, err)
	}
	res, err := verifier.Verify(proof, trustBase)
	if err != nil {
		return nil, err
	}
	if !res.IsOK() {
		return nil, &ProofRejectedError{TxHash: txHash, Result: res}
	}
	return proof, nil
}
