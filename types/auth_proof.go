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
	"fmt"

	"github.com/blinklabs-io/gopartition/cbor"
)

// AuthProofShape identifies which authorization proof layout a transaction uses
type AuthProofShape int

const (
	// AuthProofShapeOwnerProof is a single owner proof
	AuthProofShapeOwnerProof AuthProofShape = iota
	// AuthProofShapeTypeOwnerProofs is an owner proof plus proofs for the owner
	// predicates of the token type and its ancestors
	AuthProofShapeTypeOwnerProofs
	// AuthProofShapeSubTypeOwnerProofs is a list of proofs for the sub-type creation
	// predicates of the parent types
	AuthProofShapeSubTypeOwnerProofs
	// AuthProofShapeTypeDataUpdateProofs is a data update proof plus proofs for the
	// data update predicates of the token type and its ancestors
	AuthProofShapeTypeDataUpdateProofs
)

func (s AuthProofShape) String() string {
	switch s {
	case AuthProofShapeOwnerProof:
		return "OwnerProof"
	case AuthProofShapeTypeOwnerProofs:
		return "TypeOwnerProofs"
	case AuthProofShapeSubTypeOwnerProofs:
		return "SubTypeOwnerProofs"
	case AuthProofShapeTypeDataUpdateProofs:
		return "TypeDataUpdateProofs"
	default:
		return fmt.Sprintf("AuthProofShape(%d)", int(s))
	}
}

// AuthProof is the closed set of authorization proof variants
type AuthProof interface {
	Shape() AuthProofShape
	isAuthProof()
}

type OwnerProofAuth struct {
	cbor.StructAsArray
	OwnerProof []byte
}

func (*OwnerProofAuth) Shape() AuthProofShape { return AuthProofShapeOwnerProof }
func (*OwnerProofAuth) isAuthProof()          {}

type TypeOwnerProofs struct {
	cbor.StructAsArray
	OwnerProof           []byte
	TokenTypeOwnerProofs [][]byte
}

func (*TypeOwnerProofs) Shape() AuthProofShape { return AuthProofShapeTypeOwnerProofs }
func (*TypeOwnerProofs) isAuthProof()          {}

type SubTypeOwnerProofs struct {
	cbor.StructAsArray
	SubTypeCreationProofs [][]byte
}

func (*SubTypeOwnerProofs) Shape() AuthProofShape { return AuthProofShapeSubTypeOwnerProofs }
func (*SubTypeOwnerProofs) isAuthProof()          {}

type TypeDataUpdateProofs struct {
	cbor.StructAsArray
	TokenDataUpdateProof      []byte
	TokenTypeDataUpdateProofs [][]byte
}

func (*TypeDataUpdateProofs) Shape() AuthProofShape { return AuthProofShapeTypeDataUpdateProofs }
func (*TypeDataUpdateProofs) isAuthProof()          {}

// NewAuthProof returns an empty auth proof of the given shape, suitable as a decode
// destination
func NewAuthProof(shape AuthProofShape) (AuthProof, error) {
	switch shape {
	case AuthProofShapeOwnerProof:
		return &OwnerProofAuth{}, nil
	case AuthProofShapeTypeOwnerProofs:
		return &TypeOwnerProofs{}, nil
	case AuthProofShapeSubTypeOwnerProofs:
		return &SubTypeOwnerProofs{}, nil
	case AuthProofShapeTypeDataUpdateProofs:
		return &TypeDataUpdateProofs{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown auth proof shape %d", ErrUnsupportedTransactionShape, int(shape))
	}
}

// PrimaryProof returns the proof of the party primarily authorizing the transaction:
// the owner proof, the data update proof or nil for sub-type creation proofs
func PrimaryProof(proof AuthProof) []byte {
	switch p := proof.(type) {
	case *OwnerProofAuth:
		return p.OwnerProof
	case *TypeOwnerProofs:
		return p.OwnerProof
	case *TypeDataUpdateProofs:
		return p.TokenDataUpdateProof
	default:
		return nil
	}
}
