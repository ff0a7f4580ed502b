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
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gopartition/types"
)

// Sentinel error for inputs the verifier cannot interpret at all
var ErrInvalidInput = errors.New("invalid verification input")

// Config holds optional verification toggles
type Config struct {
	// SkipSuccessIndicator accepts records of failed transactions
	SkipSuccessIndicator bool
	// RequireFeeProof fails orders without a fee proof
	RequireFeeProof bool
}

// OptionFunc is a type that represents functions that modify the Verifier config
type OptionFunc func(*Verifier)

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithPolicy replaces the default verification policy
func WithPolicy(policy Rule) OptionFunc {
	return func(v *Verifier) {
		v.policy = policy
	}
}

// WithConfig specifies the verification toggles
func WithConfig(config Config) OptionFunc {
	return func(v *Verifier) {
		v.config = config
	}
}

// Verifier checks transaction proofs against a trust base
type Verifier struct {
	logger *slog.Logger
	policy Rule
	config Config
}

// New returns a Verifier with the specified options
func New(opts ...OptionFunc) *Verifier {
	v := &Verifier{}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	if v.policy == nil {
		v.policy = DefaultPolicy()
	}
	return v
}

// Verify runs the policy over the proof. A failed verification is reported in the
// result, the error is only set when the proof or trust base is missing
func (v *Verifier) Verify(proof *types.TxRecordProof, trustBase *types.RootTrustBase) (*Result, error) {
	if proof == nil {
		return nil, fmt.Errorf("%w: transaction proof is nil", ErrInvalidInput)
	}
	if trustBase == nil {
		return nil, fmt.Errorf("%w: trust base is nil", ErrInvalidInput)
	}
	ctx := NewContext(proof, trustBase, v.config)
	res := v.policy.Verify(ctx)
	if res == nil {
		res = NA(v.policy.ID(), "rule returned no result", nil)
	}
	v.logResult(res)
	return res, nil
}

func (v *Verifier) logResult(res *Result) {
	for _, child := range res.Children {
		v.logResult(child)
	}
	if res.Err != nil {
		v.logger.Debug(
			"verification rule finished",
			"rule", res.Rule,
			"status", res.Status.String(),
			"error", res.Err,
		)
		return
	}
	v.logger.Debug(
		"verification rule finished",
		"rule", res.Rule,
		"status", res.Status.String(),
	)
}
