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

package linker

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/text"
)

// descriptor is the lexical analysis of a descriptor or partitive mention.
type descriptor struct {
	head       string
	stem       string
	premods    []string
	proper     []string
	numerics   []string
	indefinite bool
	plural     bool
	determined bool
}

func (c *Context) describe(m *document.Mention) descriptor {
	d := descriptor{
		indefinite: c.Lang.IsIndefinite(m),
		determined: c.Lang.HasDeterminer(m),
	}
	if head := c.Lang.HeadNode(m.Node); head != nil {
		d.head = text.Canonical(c.Lang.HeadWord(m.Node))
		d.stem = c.Lang.Stem(d.head)
		d.plural = head.Label == "NNS" || head.Label == "NNPS"
	}
	for _, pt := range c.Lang.Premodifiers(m) {
		word := text.Canonical(pt.Children[0].Word)
		switch {
		case c.Lang.IsNumeric(pt):
			d.numerics = append(d.numerics, word)
		case strings.HasPrefix(pt.Label, "NNP"):
			d.proper = append(d.proper, word)
			d.premods = append(d.premods, word)
		default:
			d.premods = append(d.premods, word)
		}
	}
	return d
}

// descMatch summarises how a descriptor relates to one entity.
type descMatch struct {
	id           entityset.EntityID
	head         bool
	nameHead     bool
	stem         bool
	premodMatch  bool
	premodClash  bool
	numericClash bool
	distance     int
	last         *document.Mention
}

func (dm descMatch) matched() bool {
	return dm.head || dm.nameHead || dm.stem
}

func (dm descMatch) clashes() bool {
	return dm.premodClash || dm.numericClash
}

func (c *Context) matchDescriptor(doc *document.Document, set *entityset.Set, m *document.Mention, d descriptor, id entityset.EntityID, t document.EntityType) descMatch {
	dm := descMatch{id: id, last: lastMention(doc, set, id)}
	if dm.last != nil {
		dm.distance = m.Sentence - dm.last.Sentence
	}

	known := map[string]bool{}
	for _, other := range mentionsOf(doc, set, id) {
		switch other.Kind {
		case document.KindDesc, document.KindPart:
			od := c.describe(other)
			if od.head == d.head {
				dm.head = true
			} else if od.stem == d.stem {
				dm.stem = true
			}
			if len(d.numerics) > 0 && len(od.numerics) > 0 && !equalWords(d.numerics, od.numerics) {
				dm.numericClash = true
			}
			known[od.head] = true
			for _, w := range od.premods {
				known[w] = true
			}
		case document.KindName:
			words := c.Lang.NameWords(other)
			for _, h := range c.Lang.NameHeads(words, t) {
				if h == d.head || h == d.stem {
					dm.nameHead = true
				}
			}
			for _, w := range words {
				known[text.Canonical(w)] = true
			}
		}
	}

	if len(d.premods) > 0 {
		dm.premodMatch = true
		for _, w := range d.premods {
			if !known[w] {
				dm.premodMatch = false
			}
		}
	}
	for _, w := range d.proper {
		if !known[w] {
			dm.premodClash = true
		}
	}
	return dm
}

// candidates returns the matches for every entity of type t, most recently mentioned first.
func (c *Context) descCandidates(doc *document.Document, set *entityset.Set, m *document.Mention, d descriptor, t document.EntityType) []descMatch {
	var res []descMatch
	for _, id := range set.EntitiesByType(t) {
		res = append(res, c.matchDescriptor(doc, set, m, d, id, t))
	}
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].last, res[j].last
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return doc.Before(b, a)
	})
	return res
}

// RuleDescriptorLinker links a descriptor to the most recent entity whose
// names or descriptors share its head, unless a premodifier clashes.
type RuleDescriptorLinker struct {
	ctx *Context
}

func NewRuleDescriptorLinker(ctx *Context) *RuleDescriptorLinker {
	return &RuleDescriptorLinker{ctx: ctx}
}

/**
	Link proposes, in order of recency, each entity of type t that matches the
	descriptor's head and has no premodifier clash. A descriptor with
	premodifiers only matches entities that have seen all of them; a bare head
	matches on the head alone. Link scores are -rank and the new entity scores
	below every link.

	Indefinite descriptors always start a new entity. A plural descriptor with
	no determiner starts a new generic entity.
**/
func (l *RuleDescriptorLinker) Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, maxResults int) ([]Branch, error) {
	d := l.ctx.describe(m)
	if !t.IsLinkable() || d.indefinite {
		return commitAll(set, m, []EntityGuess{newGuess(t, 0)}, nil)
	}
	if d.plural && !d.determined {
		g := newGuess(t, 0)
		g.Generic = true
		return commitAll(set, m, []EntityGuess{g}, nil)
	}

	var matches []descMatch
	for _, dm := range l.ctx.descCandidates(doc, set, m, d, t) {
		if !dm.matched() || dm.clashes() {
			continue
		}
		if len(d.premods) > 0 && !dm.premodMatch {
			continue
		}
		matches = append(matches, dm)
	}

	guesses := make([]EntityGuess, 0, len(matches)+1)
	for i, dm := range matches {
		guesses = append(guesses, EntityGuess{ID: dm.id, Type: t, Score: -float64(i), Confidence: 1})
	}
	guesses = append(guesses, newGuess(t, -float64(len(matches))))
	return commitAll(set, m, rank(guesses, maxResults), nil)
}

// MaxentDescriptorLinker scores each entity with the descriptor link classifier.
type MaxentDescriptorLinker struct {
	ctx *Context
}

func NewMaxentDescriptorLinker(ctx *Context) *MaxentDescriptorLinker {
	return &MaxentDescriptorLinker{ctx: ctx}
}

func descFeatures(d descriptor, dm descMatch, entityType, t document.EntityType) []string {
	features := []string{"bias"}
	add := func(on bool, name string) {
		if on {
			features = append(features, name)
		}
	}
	add(dm.head, "head_match")
	add(dm.nameHead, "name_head_match")
	add(dm.stem, "stem_match")
	add(dm.premodMatch, "premod_match")
	add(dm.premodClash, "premod_clash")
	add(dm.numericClash, "numeric_clash")
	add(d.indefinite, "indefinite")
	add(entityType == t, "type_match")
	add(entityType != t, "type_mismatch")
	add(dm.distance == 0, "distance=0")
	add(dm.distance == 1, "distance=1")
	return features
}

/**
	Link proposes each entity whose link probability reaches the threshold,
	scored by the log of that probability. The new entity scores
	log(1 - p) for the best p seen.
**/
func (l *MaxentDescriptorLinker) Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, maxResults int) ([]Branch, error) {
	d := l.ctx.describe(m)
	if !t.IsLinkable() {
		return commitAll(set, m, []EntityGuess{newGuess(t, 0)}, nil)
	}

	best := 0.0
	var guesses []EntityGuess
	for _, dm := range l.ctx.descCandidates(doc, set, m, d, t) {
		e, _ := set.Entity(dm.id)
		p := l.ctx.Models.DescriptorClassifier.Prob(descFeatures(d, dm, e.Type, t), model.Link)
		best = math.Max(best, p)
		if p < l.ctx.Threshold {
			continue
		}
		guesses = append(guesses, EntityGuess{ID: dm.id, Type: t, Score: math.Log(p), Confidence: p})
	}

	g := newGuess(t, math.Log(math.Max(1-best, minProb)))
	g.Confidence = 1 - best
	g.Generic = d.plural && !d.determined
	guesses = append(guesses, g)

	log.Debug().Str("mention", m.String()).Float64("best", best).Msg("descriptor scored")
	return commitAll(set, m, rank(guesses, maxResults), nil)
}

const minProb = 1e-12
