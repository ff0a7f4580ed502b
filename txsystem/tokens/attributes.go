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

package tokens

import (
	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/types"
)

const DefaultPartitionID = types.DefaultTokenPartitionID

const (
	TransactionTypeDefineNFT   uint16 = 1
	TransactionTypeDefineFT    uint16 = 2
	TransactionTypeMintNFT     uint16 = 3
	TransactionTypeMintFT      uint16 = 4
	TransactionTypeTransferNFT uint16 = 5
	TransactionTypeTransferFT  uint16 = 6
	TransactionTypeLockToken   uint16 = 7
	TransactionTypeSplitFT     uint16 = 8
	TransactionTypeBurnFT      uint16 = 9
	TransactionTypeJoinFT      uint16 = 10
	TransactionTypeUpdateNFT   uint16 = 12
	TransactionTypeUnlockToken uint16 = 13
)

// Unit type tags
const (
	FungibleTokenTypeUnitType    byte = 0x20
	FungibleTokenUnitType        byte = 0x21
	NonFungibleTokenTypeUnitType byte = 0x22
	NonFungibleTokenUnitType     byte = 0x23
	FeeCreditRecordUnitType      byte = 0x2f
)

type (
	Icon struct {
		cbor.StructAsArray
		Type string // MIME type
		Data []byte
	}

	DefineFungibleTokenAttributes struct {
		cbor.StructAsArray
		Symbol                   string
		Name                     string
		Icon                     *Icon
		ParentTypeID             types.UnitID
		DecimalPlaces            uint32
		SubTypeCreationPredicate []byte
		TokenMintingPredicate    []byte
		TokenTypeOwnerPredicate  []byte
	}

	DefineNonFungibleTokenAttributes struct {
		cbor.StructAsArray
		Symbol                   string
		Name                     string
		Icon                     *Icon
		ParentTypeID             types.UnitID
		SubTypeCreationPredicate []byte
		TokenMintingPredicate    []byte
		TokenTypeOwnerPredicate  []byte
		DataUpdatePredicate      []byte
	}

	MintFungibleTokenAttributes struct {
		cbor.StructAsArray
		TypeID         types.UnitID
		Value          uint64
		OwnerPredicate []byte
	}

	MintNonFungibleTokenAttributes struct {
		cbor.StructAsArray
		TypeID              types.UnitID
		Name                string
		URI                 string
		Data                []byte
		OwnerPredicate      []byte
		DataUpdatePredicate []byte
	}

	TransferFungibleTokenAttributes struct {
		cbor.StructAsArray
		TypeID            types.UnitID
		Value             uint64
		NewOwnerPredicate []byte
		Counter           uint64
	}

	TransferNonFungibleTokenAttributes struct {
		cbor.StructAsArray
		TypeID            types.UnitID
		NewOwnerPredicate []byte
		Counter           uint64
	}

	LockTokenAttributes struct {
		cbor.StructAsArray
		LockStatus uint64
		Counter    uint64
	}

	SplitFungibleTokenAttributes struct {
		cbor.StructAsArray
		TypeID               types.UnitID
		TargetOwnerPredicate []byte
		TargetValue          uint64
		RemainingValue       uint64
		Counter              uint64
	}

	BurnFungibleTokenAttributes struct {
		cbor.StructAsArray
		TypeID             types.UnitID
		Value              uint64
		TargetTokenID      types.UnitID // token the burned value is joined into
		TargetTokenCounter uint64
		Counter            uint64
	}

	JoinFungibleTokenAttributes struct {
		cbor.StructAsArray
		BurnTokenProofs []*types.TxRecordProof
	}

	UpdateNonFungibleTokenAttributes struct {
		cbor.StructAsArray
		Data    []byte
		Counter uint64
	}

	UnlockTokenAttributes struct {
		cbor.StructAsArray
		Counter uint64
	}
)

// NewFungibleTokenID derives the identifier of the token created by a mint transaction
func NewFungibleTokenID(attrs *MintFungibleTokenAttributes, md *types.ClientMetadata) (types.UnitID, error) {
	return types.NewTokenUnitID(attrs, md, FungibleTokenUnitType)
}

// NewNonFungibleTokenID derives the identifier of the token created by a mint transaction
func NewNonFungibleTokenID(attrs *MintNonFungibleTokenAttributes, md *types.ClientMetadata) (types.UnitID, error) {
	return types.NewTokenUnitID(attrs, md, NonFungibleTokenUnitType)
}

// NewFungibleTokenTypeID returns the identifier of a fungible token type. Type
// identifiers are chosen by the client
func NewFungibleTokenTypeID(hashPart []byte) types.UnitID {
	return types.NewUnitID(hashPart, FungibleTokenTypeUnitType)
}

// NewNonFungibleTokenTypeID returns the identifier of a non-fungible token type
func NewNonFungibleTokenTypeID(hashPart []byte) types.UnitID {
	return types.NewUnitID(hashPart, NonFungibleTokenTypeUnitType)
}

// NewFeeCreditRecordID returns the identifier of the fee credit record created for
// the owner predicate by a transaction with the given timeout
func NewFeeCreditRecordID(ownerPredicate []byte, timeout uint64) types.UnitID {
	return types.NewFeeCreditRecordID(ownerPredicate, timeout, FeeCreditRecordUnitType)
}
