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
	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
)

// ForcedScore is the score of a link the name rules accept outright.
const ForcedScore = 0.0

type verdict int

const (
	undecided verdict = iota
	vetoed
	forced
)

type nameRules struct {
	ctx *Context
}

func (r nameRules) canonical(words []string) []string {
	res := make([]string, len(words))
	for i, w := range words {
		res[i] = r.ctx.Lex.Canonical(w)
	}
	return res
}

/**
	judge applies the name rules of mention m against entity id.

	A link is vetoed when m and a mention of the entity are members of the same
	list, or when one of them is nested inside the other. Otherwise a link is
	forced when a name of the entity matches m word for word after
	canonicalisation, or when one of the two is the acronym of the other.
**/
func (r nameRules) judge(doc *document.Document, set *entityset.Set, m *document.Mention, words []string, id entityset.EntityID) verdict {
	canon := r.canonical(words)
	acronym := r.ctx.Lang.Acronym(words)

	res := undecided
	for _, other := range mentionsOf(doc, set, id) {
		if listSiblings(doc, m, other) || m.Node.Dominates(other.Node) || other.Node.Dominates(m.Node) {
			return vetoed
		}
		if other.Kind != document.KindName || res == forced {
			continue
		}
		otherWords := r.ctx.Lang.NameWords(other)
		switch {
		case equalWords(canon, r.canonical(otherWords)):
			res = forced
		case acronym != "" && len(otherWords) == 1 && otherWords[0] == acronym:
			res = forced
		case len(words) == 1 && words[0] == r.ctx.Lang.Acronym(otherWords):
			res = forced
		}
	}
	return res
}

func listSiblings(doc *document.Document, a, b *document.Mention) bool {
	if a.Parent == document.NoMention || a.Parent != b.Parent {
		return false
	}
	parent, ok := doc.Mention(a.Parent)
	return ok && parent.Kind == document.KindList
}

func equalWords(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NameLinker scores a name against the lexical model of every entity of its
// type and against a brand new entity.
type NameLinker struct {
	ctx   *Context
	rules *nameRules
}

// NewNameLinker returns the statistical name linker. With rules set, vetoes
// and forced matches override the statistical scores.
func NewNameLinker(ctx *Context, rules bool) *NameLinker {
	l := &NameLinker{ctx: ctx}
	if rules {
		l.rules = &nameRules{ctx: ctx}
	}
	return l
}

/**
	Link scores each entity e of type t as

		log P(old | bucket) + log P(words | e)

	and a new entity as

		log P(new | bucket) + log P(words | background)

	where bucket is the number of entities of type t in the set. A link is only
	proposed if its posterior against the new entity reaches the threshold.
**/
func (l *NameLinker) Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, maxResults int) ([]Branch, error) {
	words := l.ctx.Lang.NameWords(m)
	if !t.IsLinkable() {
		return commitAll(set, m, []EntityGuess{newGuess(t, 0)}, words)
	}

	bucket := countBucket(set.CountByType(t))
	newScore := l.ctx.Models.NamePrior.LogProb(bucket, "new") + l.ctx.Lex.EstimateNew(words)
	oldPrior := l.ctx.Models.NamePrior.LogProb(bucket, "old")

	guesses := []EntityGuess{newGuess(t, newScore)}
	for _, id := range set.EntitiesByType(t) {
		v := undecided
		if l.rules != nil {
			v = l.rules.judge(doc, set, m, words, id)
		}
		switch v {
		case vetoed:
			continue
		case forced:
			guesses = append(guesses, EntityGuess{ID: id, Type: t, Score: ForcedScore, Confidence: 1})
			continue
		}

		score := oldPrior + set.Lex(id).Estimate(words)
		p := posterior(score, newScore)
		if p < l.ctx.Threshold {
			continue
		}
		guesses = append(guesses, EntityGuess{ID: id, Type: t, Score: score, Confidence: p})
	}

	guesses = rank(guesses, maxResults)
	log.Debug().Str("mention", m.String()).Int("candidates", len(guesses)-1).Float64("best", guesses[0].Score).Msg("name linked")
	return commitAll(set, m, guesses, words)
}

// RuleNameLinker links only where the name rules force a link.
type RuleNameLinker struct {
	ctx   *Context
	rules nameRules
}

func NewRuleNameLinker(ctx *Context) *RuleNameLinker {
	return &RuleNameLinker{ctx: ctx, rules: nameRules{ctx: ctx}}
}

func (l *RuleNameLinker) Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, maxResults int) ([]Branch, error) {
	words := l.ctx.Lang.NameWords(m)
	guesses := []EntityGuess{newGuess(t, -1)}
	if t.IsLinkable() {
		for _, id := range set.EntitiesByType(t) {
			if l.rules.judge(doc, set, m, words, id) == forced {
				guesses = append(guesses, EntityGuess{ID: id, Type: t, Score: ForcedScore, Confidence: 1})
			}
		}
	}
	return commitAll(set, m, rank(guesses, maxResults), words)
}

// SimpleNameLinker joins names of the same type that are spelled the same
// after canonicalisation. It produces a single branch.
type SimpleNameLinker struct {
	ctx   *Context
	rules nameRules
}

func NewSimpleNameLinker(ctx *Context) *SimpleNameLinker {
	return &SimpleNameLinker{ctx: ctx, rules: nameRules{ctx: ctx}}
}

func (l *SimpleNameLinker) Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, _ int) ([]Branch, error) {
	words := l.ctx.Lang.NameWords(m)
	canon := l.rules.canonical(words)
	if t.IsDetermined() {
		for _, id := range set.EntitiesByType(t) {
			for _, other := range mentionsOf(doc, set, id) {
				if other.Kind == document.KindName && equalWords(canon, l.rules.canonical(l.ctx.Lang.NameWords(other))) {
					return commitAll(set, m, []EntityGuess{{ID: id, Type: t, Confidence: 1}}, words)
				}
			}
		}
	}
	return commitAll(set, m, []EntityGuess{newGuess(t, 0)}, words)
}
