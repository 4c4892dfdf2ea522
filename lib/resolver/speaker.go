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

package resolver

import (
	"errors"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/linker"
)

// tagLabel is the speaker a tag sentence names: the speaker of the turn it
// introduces, or its own label when the next sentence carries none.
func tagLabel(doc *document.Document, sentence int) string {
	if next := sentence + 1; next < len(doc.Sentences) && doc.Sentences[next].Speaker != "" {
		return doc.Sentences[next].Speaker
	}
	return doc.Sentences[sentence].Speaker
}

func speakerType(t document.EntityType) document.EntityType {
	if t.IsDetermined() {
		return t
	}
	return document.TypePER
}

// linkSpeakerTags puts the outermost non-pronoun mentions of every speaker
// tag sentence into the entity of the speaker the tag names.
func (r *Resolver) linkSpeakerTags(doc *document.Document, set *entityset.Set) error {
	for _, s := range doc.Sentences {
		if !s.SpeakerTag {
			continue
		}
		label := tagLabel(doc, s.Index)
		if label == "" {
			continue
		}
		for _, id := range s.Mentions {
			m, _ := doc.Mention(id)
			if m.Parent != document.NoMention || m.Kind == document.KindPron {
				continue
			}
			if _, ok := set.EntityByMention(m.ID); ok {
				continue
			}

			e, ok := set.SpeakerEntity(label)
			if ok {
				err := set.Add(m.ID, e, m.Type)
				if errors.Is(err, entityset.ErrTypeConflict) {
					log.Warn().Str("doc", doc.ID).Int("mention", int(m.ID)).Str("speaker", label).Err(err).Msg("speaker tag not linked")
					continue
				}
				if err != nil {
					return err
				}
			} else {
				created, err := set.AddNew(m.ID, speakerType(m.Type), false)
				if err != nil {
					return err
				}
				set.MarkSpeaker(created, label)
				e = created
			}
			if m.Kind == document.KindName {
				set.Learn(e, r.ctx.Lang.NameWords(m))
			}
		}
	}
	return nil
}

// previousSpeaker is the nearest earlier turn's speaker that differs from the
// speaker of sentence.
func previousSpeaker(doc *document.Document, sentence int) string {
	current := doc.Sentences[sentence].Speaker
	for i := sentence - 1; i >= 0; i-- {
		s := doc.Sentences[i]
		if s.SpeakerTag || s.Speaker == "" || s.Speaker == current {
			continue
		}
		return s.Speaker
	}
	return ""
}

/**
	speakerBranch links a first or second person pronoun in attributed text to
	the entity of the speaker it refers to: the current speaker for a singular
	first person form, the previous distinct speaker for a second person form.
	ok is false when the pronoun is not one of these or no speaker is known,
	and the pronoun goes to the pronoun linker instead.
**/
func (r *Resolver) speakerBranch(doc *document.Document, set *entityset.Set, m *document.Mention) (linker.Branch, bool, error) {
	sentence := doc.Sentences[m.Sentence]
	if sentence.SpeakerTag || sentence.Speaker == "" {
		return linker.Branch{}, false, nil
	}
	p, ok := r.ctx.Lang.Pronoun(r.ctx.Lang.HeadWord(m.Node))
	if !ok || !p.IsSpeakerPerson() {
		return linker.Branch{}, false, nil
	}

	var label string
	switch {
	case p.Person == 1 && p.Number != document.NumberPlural:
		label = sentence.Speaker
	case p.Person == 2:
		label = previousSpeaker(doc, m.Sentence)
	}
	if label == "" {
		return linker.Branch{}, false, nil
	}

	fork := set.Fork()
	if id, ok := fork.SpeakerEntity(label); ok {
		err := fork.Add(m.ID, id, m.Type)
		if errors.Is(err, entityset.ErrTypeConflict) {
			log.Debug().Str("doc", doc.ID).Int("mention", int(m.ID)).Str("speaker", label).Msg("speaker pronoun type conflict")
			return linker.Branch{}, false, nil
		}
		if err != nil {
			return linker.Branch{}, false, err
		}
		return linker.Branch{Set: fork, Entity: id, Guess: linker.EntityGuess{ID: id, Type: fork.MentionType(m.ID), Confidence: 1}}, true, nil
	}

	t := m.Type
	if !t.IsDetermined() {
		t = speakerType(p.Type)
	}
	id, err := fork.AddNew(m.ID, t, false)
	if err != nil {
		return linker.Branch{}, false, err
	}
	fork.MarkSpeaker(id, label)
	return linker.Branch{Set: fork, Entity: id, Guess: linker.EntityGuess{ID: linker.NewEntity, Type: t, Confidence: 1}}, true, nil
}
