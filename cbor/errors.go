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

package cbor

import (
	"errors"
	"fmt"
)

// Sentinel error for malformed input so callers can use errors.Is
var ErrMalformedEncoding = errors.New("malformed CBOR encoding")

// MalformedEncodingError indicates that input bytes are truncated, carry an invalid
// header, or are not in canonical form
type MalformedEncodingError struct {
	Offset int
	Reason string
	Err    error
}

func (e *MalformedEncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"malformed CBOR at offset %d: %s: %v",
			e.Offset,
			e.Reason,
			e.Err,
		)
	}
	return fmt.Sprintf("malformed CBOR at offset %d: %s", e.Offset, e.Reason)
}

func (e *MalformedEncodingError) Unwrap() error { return e.Err }

func (*MalformedEncodingError) Is(target error) bool {
	return target == ErrMalformedEncoding
}

func newMalformed(offset int, reason string) *MalformedEncodingError {
	return &MalformedEncodingError{Offset: offset, Reason: reason}
}
