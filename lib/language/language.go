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

// Package language defines the capabilities the linkers need from a language
// family: head finding, pronoun features, gender/number guesses, name and
// descriptor word analysis. One implementation exists per language family and
// is injected when the resolver is constructed.
package language

import (
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
)

// Pronoun holds the features of one pronoun form.
type Pronoun struct {
	Word   string
	Person int
	Gender document.Gender
	Number document.Number
	// Type is the entity type the pronoun implies on its own, TypeUndet if none.
	Type document.EntityType
}

// IsSpeakerPerson is true for first and second person forms.
func (p Pronoun) IsSpeakerPerson() bool {
	return p.Person == 1 || p.Person == 2
}

type Language interface {
	Name() string

	// HeadNode returns the head preterminal of n.
	HeadNode(n *document.Node) *document.Node
	// HeadWord returns the word of n's head preterminal.
	HeadWord(n *document.Node) string
	// GoverningWord returns the head word of the nearest constituent above n that n does not head.
	GoverningWord(n *document.Node) string

	IsNounPhrase(label string) bool
	IsClause(label string) bool

	Pronoun(word string) (Pronoun, bool)
	// Features returns gender and number for m, preferring values set upstream.
	Features(doc *document.Document, m *document.Mention) (document.Gender, document.Number)

	// NameWords returns the word units of a name mention.
	NameWords(m *document.Mention) []string
	// NameHeads returns descriptor heads implied by a name of the given type.
	NameHeads(words []string, t document.EntityType) []string
	// Acronym returns the upper case initials of a multi word name, "" if not applicable.
	Acronym(words []string) string
	// Alias maps a canonical word onto its alias class.
	Alias(word string) string

	// Premodifiers returns the preterminals before m's head, minus determiners and punctuation.
	Premodifiers(m *document.Mention) []*document.Node
	IsIndefinite(m *document.Mention) bool
	HasDeterminer(m *document.Mention) bool
	IsNumeric(n *document.Node) bool
	// Stem reduces a descriptor head to a singular base form.
	Stem(word string) string
}
