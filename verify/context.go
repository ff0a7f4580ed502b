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
	"errors"
	"sync"

	"github.com/blinklabs-io/gopartition/types"
)

// Context is the input shared by the rules of one verification
type Context struct {
	Proof     *types.TxRecordProof
	TrustBase *types.RootTrustBase
	Config    Config

	orderOnce sync.Once
	order     *types.TransactionOrder
	orderErr  error
}

// NewContext returns the verification context for a proof
func NewContext(proof *types.TxRecordProof, trustBase *types.RootTrustBase, config Config) *Context {
	return &Context{
		Proof:     proof,
		TrustBase: trustBase,
		Config:    config,
	}
}

// TransactionOrder returns the decoded order of the record. The order is decoded once
func (c *Context) TransactionOrder() (*types.TransactionOrder, error) {
	c.orderOnce.Do(func() {
		c.order, c.orderErr = c.Proof.GetTransactionOrder()
	})
	return c.order, c.orderErr
}

// UnicityCertificate returns the certificate of the proof
func (c *Context) UnicityCertificate() (*types.UnicityCertificate, error) {
	if c.Proof == nil || c.Proof.TxProof == nil {
		return nil, errors.New("transaction proof is missing")
	}
	uc := c.Proof.TxProof.UnicityCertificate
	if uc == nil {
		return nil, errors.New("unicity certificate is missing")
	}
	return uc, nil
}
