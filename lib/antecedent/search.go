/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package antecedent enumerates candidate antecedents of a pronoun in the
// order of Hobbs' naive algorithm. Distance features downstream are computed
// from this order, so it must not change.
package antecedent

import (
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
)

type Status int

const (
	Found Status = iota
	NoCandidate
)

func (s Status) String() string {
	if s == Found {
		return "found"
	}
	return "no-candidate"
}

// Candidate is a mention-bearing node proposed as antecedent.
type Candidate struct {
	Node *document.Node
	// SentencesBack is 0 for the pronoun's own sentence.
	SentencesBack int
	// Rank is the 1-based position in search order.
	Rank int
}

type Result struct {
	Candidates []Candidate
	Status     Status
}

// Boundaries tells the search where bounded descent stops.
type Boundaries interface {
	IsNounPhrase(label string) bool
	IsClause(label string) bool
}

type Options struct {
	MaxResults int
	// Unbounded descends through noun phrase and clause boundaries.
	Unbounded bool
}

type search struct {
	b       Boundaries
	opts    Options
	pronoun *document.Node
	res     []Candidate
}

/**
	Search proposes antecedents for the pronoun node.

	Within the pronoun's sentence it climbs the ancestor chain, nearest ancestor
	first, and walks the siblings left of the chain from left to right,
	breadth-first below each. It then walks each of the preceding parses, most
	recent first, breadth-first from the root. preceding is in document order.

	A pronoun node without a parent yields NoCandidate rather than an error.
**/
func Search(b Boundaries, pronoun *document.Node, preceding []*document.Node, opts Options) Result {
	if pronoun == nil || pronoun.Parent == nil || opts.MaxResults <= 0 {
		return Result{Status: NoCandidate}
	}

	s := &search{b: b, opts: opts, pronoun: pronoun}
	cur := pronoun
	for anc := pronoun.Parent; anc != nil && !s.full(); anc = anc.Parent {
		for _, sibling := range anc.Children {
			if sibling == cur || s.full() {
				break
			}
			s.breadthFirst(sibling, 0)
		}
		cur = anc
	}

	for i := len(preceding) - 1; i >= 0 && !s.full(); i-- {
		if preceding[i] != nil {
			s.breadthFirst(preceding[i], len(preceding)-i)
		}
	}

	if len(s.res) == 0 {
		return Result{Status: NoCandidate}
	}
	return Result{Candidates: s.res, Status: Found}
}

func (s *search) full() bool {
	return len(s.res) >= s.opts.MaxResults
}

func (s *search) breadthFirst(start *document.Node, back int) {
	queue := []*document.Node{start}
	for len(queue) > 0 && !s.full() {
		n := queue[0]
		queue = queue[1:]
		if n.IsTerminal() {
			continue
		}

		collected := false
		if n.HasMention() && n != s.pronoun && !n.Dominates(s.pronoun) {
			s.res = append(s.res, Candidate{Node: n, SentencesBack: back, Rank: len(s.res) + 1})
			collected = true
		}
		if !s.opts.Unbounded && s.boundary(n, n == start, collected) {
			continue
		}
		queue = append(queue, n.Children...)
	}
}

// boundary stops descent below a proposed noun phrase, or below a clause other
// than the node the walk started from.
func (s *search) boundary(n *document.Node, start, collected bool) bool {
	if collected && s.b.IsNounPhrase(n.Label) {
		return true
	}
	return !start && s.b.IsClause(n.Label)
}
