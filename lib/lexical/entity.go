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

package lexical

import (
	"math"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
)

// Entity is the multiset of canonical words seen in names linked to one
// entity. It is owned by exactly one snapshot; forks take a Clone.
type Entity struct {
	ctx    *Context
	typ    document.EntityType
	counts map[string]int
	total  int
}

func NewEntity(ctx *Context, t document.EntityType) *Entity {
	return &Entity{ctx: ctx, typ: t, counts: map[string]int{}}
}

func (e *Entity) Type() document.EntityType {
	return e.typ
}

func (e *Entity) Total() int {
	return e.total
}

func (e *Entity) Unique() int {
	return len(e.counts)
}

// Count returns the observations of the canonical form of word.
func (e *Entity) Count(word string) int {
	return e.counts[e.ctx.Canonical(word)]
}

// Learn folds the words of a committed name into the model.
func (e *Entity) Learn(words []string) {
	for _, w := range e.ctx.canonicalAll(words) {
		e.counts[w]++
		e.total++
	}
}

/**
	Estimate returns the log probability of words under the entity.

	Each word is scored as a mixture of the entity's relative frequency and the
	context backoff, with the mixture weight

		lambda = N / (N + k * U)

	where N is the number of observations, U the number of distinct words and k
	the unseen weight of the entity type. Unseen words within the edit distance
	limit take a discounted share of their nearest seen word's count. Words that
	canonicalise to nothing score LogOfZero.
**/
func (e *Entity) Estimate(words []string) float64 {
	canonical := e.ctx.canonicalAll(words)
	if e.total == 0 || len(canonical) == 0 {
		return LogOfZero
	}
	n := float64(e.total)
	lambda := n / (n + e.ctx.unseenWeight(e.typ)*float64(len(e.counts)))

	score := 0.0
	for _, w := range canonical {
		c := float64(e.counts[w])
		if c == 0 {
			if near, dist, ok := e.ctx.nearest(w, e.counts); ok {
				c = float64(e.counts[near]) * math.Pow(fuzzyDiscount, float64(dist))
			}
		}
		p := lambda*c/n + (1-lambda)*e.ctx.backoff(w)
		score += math.Log(p)
	}
	return score
}

// EstimateNew scores words as the first name of a brand new entity.
func (c *Context) EstimateNew(words []string) float64 {
	score := 0.0
	for _, w := range c.canonicalAll(words) {
		score += math.Log(c.backoff(w))
	}
	return score
}

// Clone returns an independent copy.
func (e *Entity) Clone() *Entity {
	counts := make(map[string]int, len(e.counts))
	for k, v := range e.counts {
		counts[k] = v
	}
	return &Entity{ctx: e.ctx, typ: e.typ, counts: counts, total: e.total}
}

// Retype changes the entity type the unseen weight is taken from.
func (e *Entity) Retype(t document.EntityType) {
	e.typ = t
}
