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

package money

import (
	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/types"
)

const DefaultPartitionID = types.DefaultMoneyPartitionID

const (
	TransactionTypeTransfer uint16 = 1
	TransactionTypeSplit    uint16 = 2
	TransactionTypeTransDC  uint16 = 3
	TransactionTypeSwapDC   uint16 = 4
	TransactionTypeLock     uint16 = 5
	TransactionTypeUnlock   uint16 = 6
)

// Unit type tags
const (
	BillUnitType            byte = 0x01
	FeeCreditRecordUnitType byte = 0x0f
)

type (
	TransferAttributes struct {
		cbor.StructAsArray
		TargetValue       uint64
		NewOwnerPredicate []byte
		Counter           uint64
	}

	TransferDCAttributes struct {
		cbor.StructAsArray
		Value             uint64
		TargetUnitID      types.UnitID
		TargetUnitCounter uint64
		Counter           uint64
	}

	SplitAttributes struct {
		cbor.StructAsArray
		TargetUnits []*TargetUnit
		Counter     uint64
	}

	SwapDCAttributes struct {
		cbor.StructAsArray
		DustTransferProofs []*types.TxRecordProof // the dust transfer records and proofs
	}

	LockAttributes struct {
		cbor.StructAsArray
		LockStatus uint64 // status of the lock, non-zero value means locked
		Counter    uint64
	}

	UnlockAttributes struct {
		cbor.StructAsArray
		Counter uint64
	}

	TargetUnit struct {
		cbor.StructAsArray
		Amount         uint64
		OwnerPredicate []byte
	}
)

// NewBillID returns the identifier of a bill with the given hash part
func NewBillID(hashPart []byte) types.UnitID {
	return types.NewUnitID(hashPart, BillUnitType)
}

// NewFeeCreditRecordID returns the identifier of the fee credit record created for
// the owner predicate by a transaction with the given timeout
func NewFeeCreditRecordID(ownerPredicate []byte, timeout uint64) types.UnitID {
	return types.NewFeeCreditRecordID(ownerPredicate, timeout, FeeCreditRecordUnitType)
}
