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
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopartition/cbor"
)

const (
	// UnitIDHashLength is the length of the hash part of a unit identifier
	UnitIDHashLength = 32
	// UnitIDLength is the full unit identifier length: hash part plus type tag
	UnitIDLength = UnitIDHashLength + 1
)

type (
	NetworkID   uint16
	PartitionID uint32
	TxStatus    uint64
)

const (
	NetworkMainnet NetworkID = 1
	NetworkTestnet NetworkID = 2
	NetworkLocal   NetworkID = 3

	DefaultMoneyPartitionID PartitionID = 1
	DefaultTokenPartitionID PartitionID = 2

	TxStatusFailed     TxStatus = 0
	TxStatusSuccessful TxStatus = 1
)

// Bytes returns the 4-byte big-endian representation of the partition identifier
func (p PartitionID) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(p))
}

func (s TxStatus) String() string {
	switch s {
	case TxStatusFailed:
		return "failed"
	case TxStatusSuccessful:
		return "successful"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(s))
	}
}

// UnitID identifies an addressable unit of state. The last byte is the type tag of
// the unit
type UnitID []byte

// NewUnitID builds a unit identifier from a hash and a type tag. The hash is
// left-padded (or truncated from the left) to the fixed hash part width
func NewUnitID(hashPart []byte, typeTag byte) UnitID {
	ret := make([]byte, UnitIDLength)
	if len(hashPart) > UnitIDHashLength {
		hashPart = hashPart[len(hashPart)-UnitIDHashLength:]
	}
	copy(ret[UnitIDHashLength-len(hashPart):UnitIDHashLength], hashPart)
	ret[UnitIDHashLength] = typeTag
	return ret
}

// NewUnitIDFromHex parses a hex-encoded unit identifier, with or without 0x prefix
func NewUnitIDFromHex(s string) (UnitID, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	id := UnitID(data)
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return id, nil
}

// Validate checks the identifier length
func (id UnitID) Validate() error {
	if len(id) == 0 {
		return errors.New("unit ID is empty")
	}
	if len(id) != UnitIDLength {
		return fmt.Errorf(
			"invalid unit ID length: expected %d bytes, got %d",
			UnitIDLength,
			len(id),
		)
	}
	return nil
}

// TypeTag returns the unit type tag, which is the last byte of the identifier
func (id UnitID) TypeTag() byte {
	if len(id) == 0 {
		return 0
	}
	return id[len(id)-1]
}

// HasType reports whether the identifier carries the given type tag
func (id UnitID) HasType(typeTag byte) bool {
	return len(id) == UnitIDLength && id.TypeTag() == typeTag
}

// HashPart returns the identifier without its type tag
func (id UnitID) HashPart() []byte {
	if len(id) == 0 {
		return nil
	}
	return id[:len(id)-1]
}

func (id UnitID) Eq(other UnitID) bool {
	return bytes.Equal(id, other)
}

func (id UnitID) String() string {
	return hex.EncodeToString(id)
}

func (id UnitID) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + id.String())
}

func (id *UnitID) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	ret, err := NewUnitIDFromHex(tmp)
	if err != nil {
		return err
	}
	*id = ret
	return nil
}

// NewTokenUnitID derives the identifier of a unit created by a transaction from the
// owner proof view of its attributes and its client metadata:
//
//	sha256(cbor([attributes, [timeout, maxFee, feeCreditRecordID|null, referenceNumber|null]]))
//
// The derivation is deterministic so clients can predict the identifier before the
// transaction is submitted
func NewTokenUnitID(attrs any, md *ClientMetadata, typeTag byte) (UnitID, error) {
	if md == nil {
		return nil, errors.New("client metadata is nil")
	}
	if attrs == nil {
		return nil, errors.New("transaction attributes are nil")
	}
	view := attrs
	if viewer, ok := attrs.(OwnerProofViewer); ok {
		view = viewer.OwnerProofView()
	}
	data, err := cbor.Encode(
		[]any{
			view,
			[]any{
				md.Timeout,
				md.MaxTransactionFee,
				md.FeeCreditRecordID,
				md.ReferenceNumber,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("encode unit ID input: %w", err)
	}
	return NewUnitID(Sha256(data), typeTag), nil
}

// NewFeeCreditRecordID derives the identifier of a fee credit record from its owner
// predicate and the timeout of the transaction creating it
func NewFeeCreditRecordID(ownerPredicate []byte, timeout uint64, typeTag byte) UnitID {
	return NewUnitID(Sha256(ownerPredicate, Uint64ToBytes(timeout)), typeTag)
}
