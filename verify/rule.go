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
	"errors"
	"fmt"
	"slices"
)

// Rule is a single verification step
type Rule interface {
	ID() string
	Verify(ctx *Context) *Result
}

type ruleFunc struct {
	id string
	fn func(ctx *Context) *Result
}

// RuleFunc adapts a function to the Rule interface
func RuleFunc(id string, fn func(ctx *Context) *Result) Rule {
	return &ruleFunc{id: id, fn: fn}
}

func (r *ruleFunc) ID() string { return r.id }

func (r *ruleFunc) Verify(ctx *Context) *Result {
	ret := r.fn(ctx)
	if ret == nil {
		return NA(r.id, "rule returned no result", nil)
	}
	return ret
}

type edgeKey struct {
	from   string
	status Status
}

// Graph is an immutable rule graph. Each rule has at most one successor per status
type Graph struct {
	start string
	rules map[string]Rule
	edges map[edgeKey]string
}

// GraphBuilder collects the rules and transitions of a Graph
type GraphBuilder struct {
	start string
	rules map[string]Rule
	order []string
	edges map[edgeKey]string
	errs  []error
}

// NewGraphBuilder returns a builder for a graph that starts at the given rule
func NewGraphBuilder(start Rule) *GraphBuilder {
	b := &GraphBuilder{
		rules: make(map[string]Rule),
		edges: make(map[edgeKey]string),
	}
	if start == nil {
		b.errs = append(b.errs, errors.New("start rule is nil"))
		return b
	}
	b.start = start.ID()
	return b.Add(start)
}

// Add registers rules with the graph
func (b *GraphBuilder) Add(rules ...Rule) *GraphBuilder {
	for _, rule := range rules {
		if rule == nil {
			b.errs = append(b.errs, errors.New("rule is nil"))
			continue
		}
		if _, ok := b.rules[rule.ID()]; ok {
			b.errs = append(b.errs, fmt.Errorf("duplicate rule %q", rule.ID()))
			continue
		}
		b.rules[rule.ID()] = rule
		b.order = append(b.order, rule.ID())
	}
	return b
}

// On adds the transition taken when rule from finishes with the status
func (b *GraphBuilder) On(from string, status Status, to string) *GraphBuilder {
	key := edgeKey{from: from, status: status}
	if prev, ok := b.edges[key]; ok {
		b.errs = append(b.errs, fmt.Errorf("rule %q already continues to %q on %s", from, prev, status))
		return b
	}
	b.edges[key] = to
	return b
}

// OnSuccess is shorthand for On(from, StatusOK, to)
func (b *GraphBuilder) OnSuccess(from string, to string) *GraphBuilder {
	return b.On(from, StatusOK, to)
}

// OnFailure is shorthand for On(from, StatusFail, to)
func (b *GraphBuilder) OnFailure(from string, to string) *GraphBuilder {
	return b.On(from, StatusFail, to)
}

// OnNA is shorthand for On(from, StatusNA, to)
func (b *GraphBuilder) OnNA(from string, to string) *GraphBuilder {
	return b.On(from, StatusNA, to)
}

// Build validates the graph. Transitions must reference registered rules and must not
// form cycles
func (b *GraphBuilder) Build() (*Graph, error) {
	errs := slices.Clone(b.errs)
	for key, to := range b.edges {
		if _, ok := b.rules[key.from]; !ok {
			errs = append(errs, fmt.Errorf("transition from unknown rule %q", key.from))
		}
		if _, ok := b.rules[to]; !ok {
			errs = append(errs, fmt.Errorf("transition from %q to unknown rule %q", key.from, to))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	g := &Graph{
		start: b.start,
		rules: make(map[string]Rule, len(b.rules)),
		edges: make(map[edgeKey]string, len(b.edges)),
	}
	for id, rule := range b.rules {
		g.rules[id] = rule
	}
	for key, to := range b.edges {
		g.edges[key] = to
	}
	if err := g.checkCycles(b.order); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) successors(id string) []string {
	var ret []string
	for _, status := range []Status{StatusOK, StatusFail, StatusNA} {
		if to, ok := g.edges[edgeKey{from: id, status: status}]; ok {
			ret = append(ret, to)
		}
	}
	return ret
}

func (g *Graph) checkCycles(order []string) error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(g.rules))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case inProgress:
			return fmt.Errorf("rule graph has a cycle through %q", id)
		case done:
			return nil
		}
		state[id] = inProgress
		for _, next := range g.successors(id) {
			if err := visit(next); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, id := range order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// Run evaluates the graph from its start rule and returns the results of the visited
// rules in order
func (g *Graph) Run(ctx *Context) []*Result {
	var ret []*Result
	id := g.start
	for {
		res := g.rules[id].Verify(ctx)
		if res == nil {
			res = NA(id, "rule returned no result", nil)
		}
		ret = append(ret, res)
		next, ok := g.edges[edgeKey{from: id, status: res.Status}]
		if !ok {
			return ret
		}
		id = next
	}
}

// Chain builds a graph running the rules in sequence while they pass
func Chain(rules ...Rule) (*Graph, error) {
	if len(rules) == 0 {
		return nil, errors.New("empty rule chain")
	}
	b := NewGraphBuilder(rules[0]).Add(rules[1:]...)
	for i := 1; i < len(rules); i++ {
		if rules[i-1] == nil || rules[i] == nil {
			continue
		}
		b.OnSuccess(rules[i-1].ID(), rules[i].ID())
	}
	return b.Build()
}

type aggregatedRule struct {
	id    string
	graph *Graph
}

// AggregatedRule wraps a graph as a single rule. Its status is the status of the last
// rule reached and its children are the results of every visited rule
func AggregatedRule(id string, graph *Graph) Rule {
	return &aggregatedRule{id: id, graph: graph}
}

func (r *aggregatedRule) ID() string { return r.id }

func (r *aggregatedRule) Verify(ctx *Context) *Result {
	if r.graph == nil {
		return NA(r.id, "no rules", nil)
	}
	children := r.graph.Run(ctx)
	last := children[len(children)-1]
	return &Result{
		Rule:     r.id,
		Message:  fmt.Sprintf("stopped at %s", last.Rule),
		Status:   last.Status,
		Children: children,
	}
}

type conditionalRule struct {
	id       string
	key      func(ctx *Context) (string, error)
	branches map[string]Rule
}

// ConditionalRule dispatches to the branch selected by the key computed from the
// context. A key without a branch or a failure to compute the key is NA
func ConditionalRule(id string, key func(ctx *Context) (string, error), branches map[string]Rule) Rule {
	tmp := make(map[string]Rule, len(branches))
	for k, v := range branches {
		tmp[k] = v
	}
	return &conditionalRule{id: id, key: key, branches: tmp}
}

func (r *conditionalRule) ID() string { return r.id }

func (r *conditionalRule) Verify(ctx *Context) *Result {
	key, err := r.key(ctx)
	if err != nil {
		return NA(r.id, "cannot select branch", err)
	}
	branch, ok := r.branches[key]
	if !ok || branch == nil {
		return NA(r.id, fmt.Sprintf("no branch for %q", key), nil)
	}
	res := branch.Verify(ctx)
	if res == nil {
		res = NA(branch.ID(), "rule returned no result", nil)
	}
	return &Result{
		Rule:     r.id,
		Message:  "branch " + key,
		Status:   res.Status,
		Children: []*Result{res},
	}
}
