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
	"errors"
	"fmt"
)

// Sentinel error for unsupported transaction shapes so callers can use errors.Is
var ErrUnsupportedTransactionShape = errors.New("unsupported transaction shape")

// UnsupportedShapeError indicates that there is no attribute, proof or rule logic for
// a transaction, or that a transaction was used with the wrong authorization shape
type UnsupportedShapeError struct {
	PartitionID PartitionID
	Type        uint16
	Reason      string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf(
		"unsupported transaction shape (partition %d, type %d): %s",
		e.PartitionID,
		e.Type,
		e.Reason,
	)
}

func (*UnsupportedShapeError) Is(target error) bool {
	return target == ErrUnsupportedTransactionShape
}

// Sentinel error for failed quorum checks
var ErrQuorumNotReached = errors.New("quorum not reached")

// QuorumError reports the stake gathered by valid signatures and the individual
// signature failures
type QuorumError struct {
	Stake     uint64
	Threshold uint64
	Errs      []error
}

func (e *QuorumError) Error() string {
	return fmt.Sprintf(
		"quorum not reached: signed stake %d, threshold %d (%d invalid signatures)",
		e.Stake,
		e.Threshold,
		len(e.Errs),
	)
}

func (e *QuorumError) Unwrap() []error { return e.Errs }

func (*QuorumError) Is(target error) bool {
	return target == ErrQuorumNotReached
}
