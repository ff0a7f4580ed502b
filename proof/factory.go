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

// Package proof provides the factories that produce authorization proofs.
package proof

import (
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/crypto"
	"golang.org/x/sync/errgroup"
)

// Sentinel error for failed proof factories so callers can use errors.Is
var ErrProofFactoryFailure = errors.New("proof factory failure")

// FactoryError wraps the failure of the factory at Index
type FactoryError struct {
	Index int
	Err   error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("proof factory %d failed: %v", e.Index, e.Err)
}

func (e *FactoryError) Unwrap() error { return e.Err }

func (*FactoryError) Is(target error) bool {
	return target == ErrProofFactoryFailure
}

// Factory turns the signed message into an authorization proof
type Factory interface {
	Create(ctx context.Context, msg []byte) ([]byte, error)
}

// FactoryFunc adapts a function to the Factory interface
type FactoryFunc func(ctx context.Context, msg []byte) ([]byte, error)

func (f FactoryFunc) Create(ctx context.Context, msg []byte) ([]byte, error) {
	return f(ctx, msg)
}

// alwaysTrueProof is the proof for predicates that require none
var alwaysTrueProof = []byte{cbor.CborNull}

// NewSignatureFactory returns a factory that signs the message and encodes the
// signature with the public key as [signature, publicKey]
func NewSignatureFactory(signer crypto.Signer) Factory {
	return FactoryFunc(func(ctx context.Context, msg []byte) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sig, err := signer.Sign(msg)
		if err != nil {
			return nil, err
		}
		return cbor.Encode([][]byte{sig, signer.PublicKey()})
	})
}

// NewAlwaysTrueFactory returns a factory producing the marker proof for predicates
// that are always satisfied
func NewAlwaysTrueFactory() Factory {
	return FactoryFunc(func(context.Context, []byte) ([]byte, error) {
		ret := make([]byte, len(alwaysTrueProof))
		copy(ret, alwaysTrueProof)
		return ret, nil
	})
}

// Create runs a single factory and wraps its failure as a FactoryError
func Create(ctx context.Context, factory Factory, msg []byte) ([]byte, error) {
	ret, err := CreateAll(ctx, []Factory{factory}, msg)
	if err != nil {
		return nil, err
	}
	return ret[0], nil
}

// CreateAll runs the factories concurrently over the same message. Proofs are
// returned in factory order. The first failure cancels the remaining factories
func CreateAll(ctx context.Context, factories []Factory, msg []byte) ([][]byte, error) {
	ret := make([][]byte, len(factories))
	if len(factories) == 0 {
		return ret, nil
	}
	for idx, factory := range factories {
		if factory == nil {
			return nil, &FactoryError{Index: idx, Err: errors.New("proof factory is nil")}
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	for idx, factory := range factories {
		g.Go(func() error {
			proof, err := factory.Create(gctx, msg)
			if err != nil {
				return &FactoryError{Index: idx, Err: err}
			}
			ret[idx] = proof
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
