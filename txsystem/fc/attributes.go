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

package fc

import (
	"github.com/blinklabs-io/gopartition/cbor"
	"github.com/blinklabs-io/gopartition/types"
)

// Fee credit transactions are accepted by every partition and pay no fee themselves
const (
	TransactionTypeTransferFeeCredit uint16 = 14
	TransactionTypeAddFeeCredit      uint16 = 15
	TransactionTypeCloseFeeCredit    uint16 = 16
	TransactionTypeReclaimFeeCredit  uint16 = 17
	TransactionTypeLockFeeCredit     uint16 = 18
	TransactionTypeUnlockFeeCredit   uint16 = 19
)

type (
	// TransferFeeCreditAttributes moves value from a bill to a fee credit record in the
	// target partition
	TransferFeeCreditAttributes struct {
		cbor.StructAsArray
		Amount             uint64
		TargetPartitionID  types.PartitionID
		TargetRecordID     types.UnitID
		LatestAdditionTime uint64  // round number until which the credit may be added
		TargetUnitCounter  *uint64 // counter of the target record, nil when it is created
		Counter            uint64
	}

	// AddFeeCreditAttributes credits the fee credit record using the proof of the
	// transfer in the money partition
	AddFeeCreditAttributes struct {
		cbor.StructAsArray
		FeeCreditOwnerPredicate []byte
		FeeCreditTransferProof  *types.TxRecordProof
	}

	CloseFeeCreditAttributes struct {
		cbor.StructAsArray
		Amount            uint64
		TargetUnitID      types.UnitID
		TargetUnitCounter uint64
		Counter           uint64
	}

	ReclaimFeeCreditAttributes struct {
		cbor.StructAsArray
		CloseFeeCreditProof *types.TxRecordProof
	}

	LockFeeCreditAttributes struct {
		cbor.StructAsArray
		LockStatus uint64
		Counter    uint64
	}

	UnlockFeeCreditAttributes struct {
		cbor.StructAsArray
		Counter uint64
	}
)
