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
	"fmt"
	"strings"
)

// Status is the outcome of a rule
type Status int

const (
	StatusOK Status = iota
	StatusFail
	// StatusNA means the rule could not be evaluated, for example because its input
	// is missing from the proof
	StatusNA
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusFail:
		return "FAIL"
	case StatusNA:
		return "NA"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of a rule. Composite rules carry the results of the rules they
// ran as children
type Result struct {
	Rule     string
	Message  string
	Status   Status
	Err      error
	Children []*Result
}

// OK returns a passing result
func OK(rule string, message string) *Result {
	return &Result{Rule: rule, Message: message, Status: StatusOK}
}

// Fail returns a failing result
func Fail(rule string, message string, err error) *Result {
	return &Result{Rule: rule, Message: message, Status: StatusFail, Err: err}
}

// NA returns a result for a rule that could not be evaluated
func NA(rule string, message string, err error) *Result {
	return &Result{Rule: rule, Message: message, Status: StatusNA, Err: err}
}

func (r *Result) IsOK() bool {
	return r != nil && r.Status == StatusOK
}

// Find returns the first result in the tree produced by the given rule
func (r *Result) Find(rule string) *Result {
	if r == nil {
		return nil
	}
	if r.Rule == rule {
		return r
	}
	for _, child := range r.Children {
		if ret := child.Find(rule); ret != nil {
			return ret
		}
	}
	return nil
}

// String renders the result tree, one rule per line
func (r *Result) String() string {
	var sb strings.Builder
	r.write(&sb, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (r *Result) write(sb *strings.Builder, depth int) {
	if r == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(r.Rule)
	sb.WriteString(": ")
	sb.WriteString(r.Status.String())
	if r.Message != "" {
		sb.WriteString(" - ")
		sb.WriteString(r.Message)
	}
	if r.Err != nil {
		fmt.Fprintf(sb, " (%v)", r.Err)
	}
	sb.WriteString("\n")
	for _, child := range r.Children {
		child.write(sb, depth+1)
	}
}
