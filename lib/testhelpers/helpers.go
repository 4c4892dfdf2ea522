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

package testhelpers

import (
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
)

// MentionSpec describes one mention for Doc.
type MentionSpec struct {
	Sentence, Start, End int
	Kind                 document.Kind
	Type                 document.EntityType
	Gender               document.Gender
	Number               document.Number
	Parent               int
}

// M is a shorthand for a parentless MentionSpec.
func M(sentence, start, end int, kind document.Kind, typ document.EntityType) MentionSpec {
	return MentionSpec{Sentence: sentence, Start: start, End: end, Kind: kind, Type: typ, Parent: -1}
}

// Doc builds a document from bracketed parses and mention specs, panicking on
// malformed input. Mention ids follow the order of specs.
func Doc(id string, parses []string, specs ...MentionSpec) *document.Document {
	b := document.NewBuilder(id)
	for _, p := range parses {
		if _, err := b.AddSentence(p); err != nil {
			panic(err)
		}
	}
	for _, s := range specs {
		m, err := b.AddMention(s.Sentence, s.Start, s.End, s.Kind, s.Type)
		if err != nil {
			panic(err)
		}
		m.Gender = s.Gender
		m.Number = s.Number
	}
	for i, s := range specs {
		if s.Parent >= 0 {
			if err := b.SetParent(document.MentionID(i), document.MentionID(s.Parent)); err != nil {
				panic(err)
			}
		}
	}
	return b.Build()
}

const (
	AcmeSentence0 = "(S (NP (NNP Acme) (NNP Corp)) (VP (VBD announced) (NP (NNS layoffs))) (. .))"
	AcmeSentence1 = "(S (NP (DT The) (NN company)) (VP (VBD said) (SBAR (S (NP (PRP it)) (VP (VBZ regrets) (NP (DT the) (NN decision)))))) (. .))"
)

// Acme ids.
const (
	AcmeName document.MentionID = iota
	AcmeDesc
	AcmePron
)

// AcmeDocument is "Acme Corp announced layoffs. The company said it regrets the decision."
func AcmeDocument() *document.Document {
	return Doc("acme", []string{AcmeSentence0, AcmeSentence1},
		M(0, 0, 2, document.KindName, document.TypeORG),
		M(1, 0, 2, document.KindDesc, document.TypeORG),
		M(1, 3, 4, document.KindPron, document.TypeUndet),
	)
}

// Mention returns the mention with the given id or panics.
func Mention(doc *document.Document, id document.MentionID) *document.Mention {
	m, ok := doc.Mention(id)
	if !ok {
		panic("no such mention")
	}
	return m
}
