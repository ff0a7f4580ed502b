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

// Package verify checks transaction proofs against a root trust base.
//
// Verification is expressed as a graph of rules. Each rule inspects the shared
// Context and returns a Result with one of three statuses:
//   - OK: the check passed
//   - FAIL: the check ran and the proof is invalid
//   - NA: the check could not run because its inputs are missing or unreadable
//
// A GraphBuilder wires rules together with edges keyed by the outcome of the source
// rule. Running a graph follows the matching edge after every rule and stops when
// there is none. AggregatedRule turns a graph into a single rule whose status is the
// status of the last rule reached; ConditionalRule dispatches on a value computed from
// the context, such as a structure version.
//
// The default policy runs, in order and while they pass:
//
//	success_indicator -> proof_version -> order_version -> unicity_seal_hash
//	    -> unicity_seal_quorum -> merkle_path
//
// A failed verification is returned as data in the Result tree. Verify only returns
// an error when the proof or the trust base is missing altogether.
package verify
