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
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/antecedent"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
)

// NullTuple is the antecedent tuple of the "no antecedent" outcome.
const NullTuple = "NULL"

// pronounCandidate is an antecedent that survived the agreement filters.
type pronounCandidate struct {
	LinkGuess
	mention    *document.Mention
	entity     entityset.EntityID
	entityType document.EntityType
	gender     document.Gender
	number     document.Number
}

func (pc pronounCandidate) tuple() string {
	return fmt.Sprintf("%s.%s.%s", pc.entityType, pc.gender, pc.number)
}

// pronounContext is everything the pronoun linkers know about the pronoun itself.
type pronounContext struct {
	word       string
	governor   string
	gender     document.Gender
	number     document.Number
	targetType document.EntityType
	candidates []pronounCandidate
}

func (c *Context) precedingRoots(doc *document.Document, sentence int) []*document.Node {
	from := sentence - c.AntecedentWindow
	if from < 0 {
		from = 0
	}
	var roots []*document.Node
	for i := from; i < sentence && i < len(doc.Sentences); i++ {
		roots = append(roots, doc.Sentences[i].Root)
	}
	return roots
}

/**
	analysePronoun runs the antecedent search for m and filters the results.

	A candidate is dropped when it is not yet in an entity, when its entity was
	already proposed by a better ranked candidate, when its entity stands for a
	speaker, when a mention of its entity contains the pronoun, when its type
	conflicts with the pronoun's, or when gender or number disagree.
**/
func (c *Context) analysePronoun(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType) pronounContext {
	headWord := c.Lang.HeadWord(m.Node)
	pc := pronounContext{
		word:       strings.ToLower(headWord),
		governor:   c.Lang.GoverningWord(m.Node),
		targetType: t,
	}
	if p, ok := c.Lang.Pronoun(headWord); ok {
		pc.word = p.Word
		if !t.IsDetermined() {
			pc.targetType = p.Type
		}
	}
	pc.gender, pc.number = c.Lang.Features(doc, m)

	res := antecedent.Search(c.Lang, m.Node, c.precedingRoots(doc, m.Sentence), antecedent.Options{
		MaxResults: c.MaxAntecedents,
		Unbounded:  c.UnboundedSearch,
	})
	if res.Status == antecedent.NoCandidate {
		log.Debug().Str("mention", m.String()).Msg("no antecedent candidates")
		return pc
	}

	seen := map[entityset.EntityID]bool{}
	for _, cand := range res.Candidates {
		cm, ok := doc.MentionAt(cand.Node)
		if !ok {
			continue
		}
		id, ok := set.EntityByMention(cm.ID)
		if !ok || seen[id] {
			continue
		}
		e, _ := set.Entity(id)
		if reason := c.reject(doc, set, m, pc, cm, e); reason != "" {
			log.Debug().Str("mention", m.String()).Str("candidate", cm.String()).Str("reason", reason).Msg("antecedent rejected")
			continue
		}
		seen[id] = true

		g, n := c.candidateFeatures(doc, set, cm, id)
		pc.candidates = append(pc.candidates, pronounCandidate{
			LinkGuess:  LinkGuess{Node: cand.Node, SentencesBack: cand.SentencesBack, Rank: cand.Rank},
			mention:    cm,
			entity:     id,
			entityType: e.Type,
			gender:     g,
			number:     n,
		})
	}
	return pc
}

func (c *Context) reject(doc *document.Document, set *entityset.Set, m *document.Mention, pc pronounContext, cm *document.Mention, e entityset.Entity) string {
	if set.IsSpeaker(e.ID) {
		return "speaker"
	}
	for _, other := range mentionsOf(doc, set, e.ID) {
		if other.Node.Dominates(m.Node) {
			return "contains pronoun"
		}
	}
	if pc.targetType.IsDetermined() && e.Type.IsDetermined() && pc.targetType != e.Type {
		return "type"
	}
	g, n := c.candidateFeatures(doc, set, cm, e.ID)
	if !pc.gender.Agrees(g) {
		return "gender"
	}
	if !pc.number.Agrees(n) {
		return "number"
	}
	return ""
}

// candidateFeatures returns the features of cm, filling whatever cm leaves
// unknown from the entity's other name and descriptor mentions.
func (c *Context) candidateFeatures(doc *document.Document, set *entityset.Set, cm *document.Mention, id entityset.EntityID) (document.Gender, document.Number) {
	g, n := c.Lang.Features(doc, cm)
	if g != document.GenderUnknown && n != document.NumberUnknown {
		return g, n
	}
	for _, other := range mentionsOf(doc, set, id) {
		if other.ID == cm.ID || other.Kind == document.KindPron {
			continue
		}
		og, on := c.Lang.Features(doc, other)
		if g == document.GenderUnknown {
			g = og
		}
		if n == document.NumberUnknown {
			n = on
		}
		if g != document.GenderUnknown && n != document.NumberUnknown {
			break
		}
	}
	return g, n
}

func (pc pronounContext) guesses(linkScores []float64, nullScore float64, confidences []float64) []EntityGuess {
	guesses := make([]EntityGuess, 0, len(pc.candidates)+1)
	for i, cand := range pc.candidates {
		guesses = append(guesses, EntityGuess{
			ID:         cand.entity,
			Type:       pc.targetType,
			Score:      linkScores[i],
			Confidence: confidences[i],
		})
	}
	return append(guesses, newGuess(pc.targetType, nullScore))
}

// PronounLinker combines four generative models over the antecedent candidates.
type PronounLinker struct {
	ctx *Context
}

func NewPronounLinker(ctx *Context) *PronounLinker {
	return &PronounLinker{ctx: ctx}
}

/**
	Link scores each candidate antecedent as

		log P(tuple) + log P(rank) + log P(pronoun | tuple) + log P(governor | type)

	where tuple is the candidate's type, gender and number. The "no
	antecedent" outcome evaluates the same models on the null tuple and starts
	a new entity.
**/
func (l *PronounLinker) Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, maxResults int) ([]Branch, error) {
	pc := l.ctx.analysePronoun(doc, set, m, t)
	models := l.ctx.Models

	nullScore := models.PronounPrior.LogProb("", NullTuple) +
		models.PronounDistance.LogProb("", rankBucket(0)) +
		models.PronounHeadWord.LogProb(NullTuple, pc.word) +
		models.PronounParentWord.LogProb(NullTuple, pc.governor)

	scores := make([]float64, len(pc.candidates))
	confidences := make([]float64, len(pc.candidates))
	for i, cand := range pc.candidates {
		tuple := cand.tuple()
		scores[i] = models.PronounPrior.LogProb("", tuple) +
			models.PronounDistance.LogProb("", rankBucket(cand.Rank)) +
			models.PronounHeadWord.LogProb(tuple, pc.word) +
			models.PronounParentWord.LogProb(string(cand.entityType), pc.governor)
	}
	norm := floats.LogSumExp(append(append([]float64{}, scores...), nullScore))
	for i := range scores {
		confidences[i] = math.Exp(scores[i] - norm)
	}

	return commitAll(set, m, rank(pc.guesses(scores, nullScore, confidences), maxResults), nil)
}

// DiscriminativePronounLinker scores each candidate with the pronoun link classifier.
type DiscriminativePronounLinker struct {
	ctx *Context
}

func NewDiscriminativePronounLinker(ctx *Context) *DiscriminativePronounLinker {
	return &DiscriminativePronounLinker{ctx: ctx}
}

func pronounFeatures(pc pronounContext, cand pronounCandidate) []string {
	features := []string{"bias"}
	if cand.Rank <= 3 {
		features = append(features, fmt.Sprintf("rank=%d", cand.Rank))
	} else {
		features = append(features, "rank>3")
	}
	switch {
	case pc.gender == document.GenderUnknown || cand.gender == document.GenderUnknown:
		features = append(features, "gender_unknown")
	case pc.gender == cand.gender:
		features = append(features, "gender_match")
	}
	switch {
	case pc.number == document.NumberUnknown || cand.number == document.NumberUnknown:
		features = append(features, "number_unknown")
	case pc.number == cand.number:
		features = append(features, "number_match")
	}
	if cand.SentencesBack == 0 {
		features = append(features, "same_sentence")
	}
	features = append(features, "kind="+cand.mention.Kind.String())
	if !cand.entityType.IsDetermined() {
		features = append(features, "type=UNDET")
	}
	return features
}

// Link scores each candidate by log P(link) and the new entity by log(1 - p) for the best p.
func (l *DiscriminativePronounLinker) Link(doc *document.Document, set *entityset.Set, m *document.Mention, t document.EntityType, maxResults int) ([]Branch, error) {
	pc := l.ctx.analysePronoun(doc, set, m, t)

	best := 0.0
	scores := make([]float64, len(pc.candidates))
	confidences := make([]float64, len(pc.candidates))
	for i, cand := range pc.candidates {
		p := l.ctx.Models.PronounClassifier.Prob(pronounFeatures(pc, cand), model.Link)
		best = math.Max(best, p)
		scores[i] = math.Log(math.Max(p, minProb))
		confidences[i] = p
	}
	nullScore := math.Log(math.Max(1-best, minProb))

	return commitAll(set, m, rank(pc.guesses(scores, nullScore, confidences), maxResults), nil)
}
