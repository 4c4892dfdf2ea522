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

// Package lexical implements the per-entity bag of words model used to score
// how well a name fits an entity seen earlier in the document.
package lexical

import (
	"sort"

	"github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/text"
)

const (
	// LogOfZero is returned by estimates against an entity with no observations.
	LogOfZero = -10000.0

	DefaultUnseenWeight = 1.0
	DefaultVocabulary   = 50000
	defaultCacheSize    = 4096
	fuzzyDiscount       = 0.5
)

// Aliaser maps a canonical word onto its alias class.
type Aliaser interface {
	Alias(word string) string
}

type Options struct {
	// MaxEditDistance enables fuzzy partial credit for unseen words; 0 disables it.
	MaxEditDistance int
	// UnseenWeights scales the unseen mass per entity type.
	UnseenWeights map[document.EntityType]float64
	// Vocabulary sets the uniform floor 1/Vocabulary used when Backoff is nil.
	Vocabulary int
	// Backoff returns the probability of a canonical word outside any entity.
	Backoff   func(word string) float64
	CacheSize int
}

// Context is shared read-only by every entity model of every snapshot. It
// holds the alias tables and a cache of canonical forms so learning and
// estimation always agree on canonicalization.
type Context struct {
	aliases Aliaser
	opts    Options
	canon   *lru.Cache[string, string]
}

func NewContext(aliases Aliaser, opts Options) (*Context, error) {
	if opts.Vocabulary <= 0 {
		opts.Vocabulary = DefaultVocabulary
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Context{aliases: aliases, opts: opts, canon: cache}, nil
}

// Canonical returns the alias resolved canonical form of word.
func (c *Context) Canonical(word string) string {
	if v, ok := c.canon.Get(word); ok {
		return v
	}
	v := text.Canonical(word)
	if c.aliases != nil && v != "" {
		v = c.aliases.Alias(v)
	}
	c.canon.Add(word, v)
	return v
}

func (c *Context) canonicalAll(words []string) []string {
	res := make([]string, 0, len(words))
	for _, w := range words {
		if v := c.Canonical(w); v != "" {
			res = append(res, v)
		}
	}
	return res
}

func (c *Context) unseenWeight(t document.EntityType) float64 {
	if w, ok := c.opts.UnseenWeights[t]; ok && w > 0 {
		return w
	}
	return DefaultUnseenWeight
}

func (c *Context) backoff(word string) float64 {
	if c.opts.Backoff != nil {
		if p := c.opts.Backoff(word); p > 0 {
			return p
		}
	}
	return 1 / float64(c.opts.Vocabulary)
}

// nearest finds the seen word closest to word within the edit distance limit.
// Ties go to the more frequent word, then to the lexically smaller one.
func (c *Context) nearest(word string, counts map[string]int) (string, int, bool) {
	if c.opts.MaxEditDistance <= 0 {
		return "", 0, false
	}
	candidates := make([]string, 0, len(counts))
	for w := range counts {
		candidates = append(candidates, w)
	}
	sort.Strings(candidates)

	best, bestDist := "", c.opts.MaxEditDistance+1
	for _, w := range candidates {
		d := levenshtein.ComputeDistance(word, w)
		if d < bestDist || (d == bestDist && best != "" && counts[w] > counts[best]) {
			best, bestDist = w, d
		}
	}
	if best == "" || bestDist > c.opts.MaxEditDistance {
		return "", 0, false
	}
	return best, bestDist, true
}
