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

// Package linker decides, for one mention and one entity set, which entity
// the mention belongs to. Every linker returns ranked branches: forks of the
// input set with the decision applied. The input set is never written.
package linker

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/language"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/lexical"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
)

//go:generate mockery --name=Linker --output=../../gen/mocks

type Linker interface {
	Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, maxResults int) ([]Branch, error)
}

// Branch is one outcome: a fork of the input set and the log score of the decision.
type Branch struct {
	Set   *entityset.Set
	Score float64
	Guess EntityGuess
	// Entity is the entity the mention joined in Set.
	Entity entityset.EntityID
}

// NewEntity is the EntityGuess.ID of a "create a new entity" outcome.
const NewEntity entityset.EntityID = -2

// EntityGuess is a proposed outcome for one mention.
type EntityGuess struct {
	ID      entityset.EntityID
	Type    document.EntityType
	Generic bool
	Score   float64
	// Confidence is the linker's probability for the outcome where it has one.
	Confidence float64
}

func (g EntityGuess) IsNew() bool {
	return g.ID == NewEntity
}

// LinkGuess is a scored antecedent candidate. A nil Node stands for "no antecedent".
type LinkGuess struct {
	Node          *document.Node
	SentencesBack int
	Rank          int
	Score         float64
}

// Context carries the resources shared by every linker.
type Context struct {
	Lang   language.Language
	Models *model.Bundle
	Lex    *lexical.Context
	// Threshold is the minimum posterior, in [0,1], of a statistical link.
	Threshold float64
	// AntecedentWindow is the number of preceding sentences the pronoun search sees.
	AntecedentWindow int
	MaxAntecedents   int
	UnboundedSearch  bool
}

func newGuess(t document.EntityType, score float64) EntityGuess {
	return EntityGuess{ID: NewEntity, Type: t, Score: score}
}

// rank sorts guesses best first and keeps at most maxResults of them. Unless
// only one result is wanted, the best new-entity guess is kept even if the
// cut would drop it.
func rank(guesses []EntityGuess, maxResults int) []EntityGuess {
	if maxResults < 1 {
		maxResults = 1
	}
	sort.SliceStable(guesses, func(i, j int) bool {
		return guesses[i].Score > guesses[j].Score
	})
	if len(guesses) <= maxResults {
		return guesses
	}

	kept := guesses[:maxResults]
	if maxResults == 1 {
		return kept
	}
	for _, g := range kept {
		if g.IsNew() {
			return kept
		}
	}
	for _, g := range guesses[maxResults:] {
		if g.IsNew() {
			kept[maxResults-1] = g
			break
		}
	}
	return kept
}

// commit forks set and applies g to m. learn, if not nil, is folded into the
// entity's lexical model.
func commit(set *entityset.Set, m *document.Mention, g EntityGuess, learn []string) (Branch, error) {
	fork := set.Fork()
	id := g.ID
	if g.IsNew() {
		var err error
		if id, err = fork.AddNew(m.ID, g.Type, g.Generic); err != nil {
			return Branch{}, err
		}
	} else if err := fork.Add(m.ID, g.ID, g.Type); err != nil {
		return Branch{}, err
	}
	if learn != nil {
		fork.Learn(id, learn)
	}
	return Branch{Set: fork, Score: g.Score, Guess: g, Entity: id}, nil
}

func commitAll(set *entityset.Set, m *document.Mention, guesses []EntityGuess, learn []string) ([]Branch, error) {
	branches := make([]Branch, 0, len(guesses))
	for _, g := range guesses {
		b, err := commit(set, m, g, learn)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, nil
}

// posterior returns exp(score) normalised against the competing scores.
func posterior(score float64, competing ...float64) float64 {
	all := append([]float64{score}, competing...)
	return math.Exp(score - floats.LogSumExp(all))
}

// countBucket maps an entity count onto the history of the name prior.
func countBucket(n int) string {
	switch {
	case n <= 2:
		return string(rune('0' + n))
	case n <= 5:
		return "3-5"
	case n <= 10:
		return "6-10"
	}
	return ">10"
}

// rankBucket maps a search rank onto the outcome of the distance model.
func rankBucket(rank int) string {
	switch {
	case rank <= 0:
		return "none"
	case rank <= 5:
		return string(rune('0' + rank))
	case rank <= 10:
		return "6-10"
	}
	return ">10"
}

// mentionsOf returns the document mentions of an entity.
func mentionsOf(doc *document.Document, set *entityset.Set, id entityset.EntityID) []*document.Mention {
	e, ok := set.Entity(id)
	if !ok {
		return nil
	}
	res := make([]*document.Mention, 0, len(e.Mentions))
	for _, mid := range e.Mentions {
		if m, ok := doc.Mention(mid); ok {
			res = append(res, m)
		}
	}
	return res
}

// lastMention returns the latest mention of an entity in document order.
func lastMention(doc *document.Document, set *entityset.Set, id entityset.EntityID) *document.Mention {
	var last *document.Mention
	for _, m := range mentionsOf(doc, set, id) {
		if last == nil || doc.Before(last, m) {
			last = m
		}
	}
	return last
}
