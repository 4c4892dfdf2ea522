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

// Package resolver links every mention of a document to an entity by running
// the name, descriptor and pronoun linkers over a beam of entity sets.
package resolver

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/beam"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/language"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/lexical"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/linker"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
)

type pass int

const (
	passNames pass = iota
	passDescriptors
	passPronouns
)

var passLabels = [...]string{"names", "descriptors", "pronouns"}

func (p pass) String() string {
	return passLabels[p]
}

func passOf(m *document.Mention) pass {
	switch m.Kind {
	case document.KindName:
		return passNames
	case document.KindPron:
		return passPronouns
	default:
		return passDescriptors
	}
}

type Resolver struct {
	cfg         Config
	ctx         *linker.Context
	names       linker.Linker
	simple      linker.Linker
	descs       linker.Linker
	pronouns    linker.Linker
	simpleTypes map[document.EntityType]bool
}

type Option func(r *Resolver)

func WithNameLinker(l linker.Linker) Option {
	return func(r *Resolver) { r.names = l }
}

func WithDescriptorLinker(l linker.Linker) Option {
	return func(r *Resolver) { r.descs = l }
}

func WithPronounLinker(l linker.Linker) Option {
	return func(r *Resolver) { r.pronouns = l }
}

/**
	New validates cfg and builds the linkers it selects. lang must be the
	language cfg names; models are shared read-only by every document.
**/
func New(cfg Config, lang language.Language, models *model.Bundle, opts ...Option) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lang.Name() != cfg.Language {
		return nil, &ConfigError{Key: "language", Value: cfg.Language, Reason: fmt.Sprintf("language implementation is %s", lang.Name())}
	}

	lex, err := lexical.NewContext(lang, lexical.Options{
		MaxEditDistance: cfg.FuzzyEditDistance,
		UnseenWeights:   cfg.unseenWeights(),
		Backoff: func(w string) float64 {
			return models.NameGenericWord.Prob("", w)
		},
	})
	if err != nil {
		return nil, err
	}

	ctx := &linker.Context{
		Lang:             lang,
		Models:           models,
		Lex:              lex,
		Threshold:        cfg.LinkThreshold / 100,
		AntecedentWindow: cfg.AntecedentWindow,
		MaxAntecedents:   cfg.MaxAntecedents,
		UnboundedSearch:  cfg.UnboundedSearch,
	}

	r := &Resolver{
		cfg:         cfg,
		ctx:         ctx,
		simple:      linker.NewSimpleNameLinker(ctx),
		simpleTypes: cfg.simpleTypes(),
	}
	switch cfg.NameLinkMode {
	case NameStatistical:
		r.names = linker.NewNameLinker(ctx, cfg.NameRules)
	case NameRule:
		r.names = linker.NewRuleNameLinker(ctx)
	}
	switch cfg.DescLinkMode {
	case DescriptorRule:
		r.descs = linker.NewRuleDescriptorLinker(ctx)
	case DescriptorMaxent:
		r.descs = linker.NewMaxentDescriptorLinker(ctx)
	}
	switch cfg.PronounLinkMode {
	case PronounProbabilistic:
		r.pronouns = linker.NewPronounLinker(ctx)
	case PronounDiscriminative:
		r.pronouns = linker.NewDiscriminativePronounLinker(ctx)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Resolver) Config() Config {
	return r.cfg
}

// Resolve links every mention of doc and returns the best entity set.
func (r *Resolver) Resolve(doc *document.Document) (*entityset.Set, error) {
	return r.ResolveFrom(doc, nil)
}

/**
	ResolveFrom continues from a set in which some mentions are already linked.
	Those decisions are kept and initial itself is never written. A nil initial
	starts from an empty set.

	A document with a malformed mention graph fails with a *document.StructuralError
	before anything is linked.
**/
func (r *Resolver) ResolveFrom(doc *document.Document, initial *entityset.Set) (*entityset.Set, error) {
	start := time.Now()
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var set *entityset.Set
	if initial == nil {
		set = entityset.New(r.ctx.Lex, doc.MentionCount())
	} else {
		if initial.MentionCount() != doc.MentionCount() {
			return nil, &document.StructuralError{
				DocID:   doc.ID,
				Mention: document.NoMention,
				Reason:  fmt.Sprintf("set holds %d mentions, document has %d", initial.MentionCount(), doc.MentionCount()),
			}
		}
		set = initial.Fork()
	}

	links := buildPreLinks(doc)
	b, err := beam.New(r.cfg.BeamWidth, set)
	if err != nil {
		return nil, err
	}
	b.SetParallelism(r.cfg.Parallelism)

	if err := b.Apply(func(s *entityset.Set) error { return r.linkSpeakerTags(doc, s) }); err != nil {
		return nil, err
	}

	for _, p := range []pass{passNames, passDescriptors, passPronouns} {
		if p == passPronouns && r.cfg.DiscardPronouns {
			continue
		}
		if err := b.Apply(func(s *entityset.Set) error { return links.apply(doc, s) }); err != nil {
			return nil, err
		}
		linked := 0
		for _, m := range doc.Mentions() {
			if passOf(m) != p {
				continue
			}
			if err := b.Step(r.expand(doc, m, links)); err != nil {
				return nil, fmt.Errorf("document %s: mention %d: %w", doc.ID, m.ID, err)
			}
			linked++
		}
		log.Debug().Str("doc", doc.ID).Str("pass", p.String()).Int("mentions", linked).Float64("score", b.Best().Score()).Msg("pass complete")
	}

	if err := b.Apply(func(s *entityset.Set) error { return links.apply(doc, s) }); err != nil {
		return nil, err
	}

	best := b.Best()
	log.Info().
		Str("doc", doc.ID).
		Int("mentions", doc.MentionCount()).
		Int("entities", best.EntityCount()).
		Int("unassigned", len(best.Unassigned())).
		Float64("score", best.Score()).
		Dur("took", time.Since(start)).
		Msg("document resolved")
	return best, nil
}

func (r *Resolver) expand(doc *document.Document, m *document.Mention, links preLinks) beam.Expander {
	return func(s *entityset.Set) ([]linker.Branch, error) {
		if id, ok := s.EntityByMention(m.ID); ok {
			return []linker.Branch{{Set: s, Entity: id}}, nil
		}

		if id, ok := links.anchor(s, m.ID); ok {
			fork := s.Fork()
			err := fork.Add(m.ID, id, m.Type)
			if err == nil {
				return []linker.Branch{{Set: fork, Entity: id, Guess: linker.EntityGuess{ID: id, Type: fork.MentionType(m.ID)}}}, nil
			}
			if !errors.Is(err, entityset.ErrTypeConflict) {
				return nil, err
			}
			log.Warn().Str("doc", doc.ID).Int("mention", int(m.ID)).Err(err).Msg("pre-link ignored")
		}

		switch m.Kind {
		case document.KindName:
			if r.simpleTypes[m.Type] {
				return r.simple.Link(doc, s, m, m.Type, 1)
			}
			return r.names.Link(doc, s, m, m.Type, r.cfg.MaxBranches)
		case document.KindDesc:
			return r.descs.Link(doc, s, m, m.Type, r.cfg.MaxBranches)
		case document.KindPart:
			if r.cfg.CreatePartitiveEntities {
				return singleton(s, m)
			}
			return r.descs.Link(doc, s, m, m.Type, r.cfg.MaxBranches)
		case document.KindPron:
			branch, ok, err := r.speakerBranch(doc, s, m)
			if err != nil {
				return nil, err
			}
			if ok {
				return []linker.Branch{branch}, nil
			}
			return r.pronouns.Link(doc, s, m, m.Type, r.cfg.MaxBranches)
		default:
			return singleton(s, m)
		}
	}
}

// singleton puts m alone in a new entity of its own type.
func singleton(s *entityset.Set, m *document.Mention) ([]linker.Branch, error) {
	fork := s.Fork()
	id, err := fork.AddNew(m.ID, m.Type, false)
	if err != nil {
		return nil, err
	}
	return []linker.Branch{{Set: fork, Entity: id, Guess: linker.EntityGuess{ID: linker.NewEntity, Type: m.Type}}}, nil
}
