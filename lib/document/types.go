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

package document

import (
	"fmt"
	"strings"
)

// Kind is the mention kind assigned by upstream mention detection.
type Kind int

const (
	KindNone Kind = iota
	KindName
	KindDesc
	KindPron
	KindPart
	KindAppo
	KindList
)

var kindNames = map[Kind]string{
	KindNone: "none",
	KindName: "name",
	KindDesc: "desc",
	KindPron: "pron",
	KindPart: "part",
	KindAppo: "appo",
	KindList: "list",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the short names above as well as a few long forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return KindNone, nil
	case "name":
		return KindName, nil
	case "desc", "descriptor":
		return KindDesc, nil
	case "pron", "pronoun":
		return KindPron, nil
	case "part", "partitive":
		return KindPart, nil
	case "appo", "appositive":
		return KindAppo, nil
	case "list":
		return KindList, nil
	}
	return KindNone, fmt.Errorf("unknown mention kind %q", s)
}

// EntityType is an ACE style entity type label.
type EntityType string

const (
	TypeNone  EntityType = ""
	TypeUndet EntityType = "UNDET"
	TypeOther EntityType = "OTH"
	TypePER   EntityType = "PER"
	TypeORG   EntityType = "ORG"
	TypeGPE   EntityType = "GPE"
	TypeLOC   EntityType = "LOC"
	TypeFAC   EntityType = "FAC"
	TypeVEH   EntityType = "VEH"
	TypeWEA   EntityType = "WEA"
)

// ParseEntityType folds a label onto its canonical upper case form.
func ParseEntityType(s string) EntityType {
	return EntityType(strings.ToUpper(strings.TrimSpace(s)))
}

// IsDetermined is false for the empty type and UNDET.
func (t EntityType) IsDetermined() bool {
	return t != TypeNone && t != TypeUndet
}

// IsLinkable reports whether mentions of this type may form entities.
func (t EntityType) IsLinkable() bool {
	return t.IsDetermined() && t != TypeOther
}

type Gender int

const (
	GenderUnknown Gender = iota
	GenderMasculine
	GenderFeminine
	GenderNeuter
)

func (g Gender) String() string {
	switch g {
	case GenderMasculine:
		return "masculine"
	case GenderFeminine:
		return "feminine"
	case GenderNeuter:
		return "neuter"
	}
	return "unknown"
}

func ParseGender(s string) Gender {
	switch strings.ToLower(s) {
	case "masculine", "male", "m":
		return GenderMasculine
	case "feminine", "female", "f":
		return GenderFeminine
	case "neuter", "neutral", "n":
		return GenderNeuter
	}
	return GenderUnknown
}

// Agrees is true unless both genders are known and differ.
func (g Gender) Agrees(other Gender) bool {
	return g == GenderUnknown || other == GenderUnknown || g == other
}

type Number int

const (
	NumberUnknown Number = iota
	NumberSingular
	NumberPlural
)

func (n Number) String() string {
	switch n {
	case NumberSingular:
		return "singular"
	case NumberPlural:
		return "plural"
	}
	return "unknown"
}

func ParseNumber(s string) Number {
	switch strings.ToLower(s) {
	case "singular", "sg", "s":
		return NumberSingular
	case "plural", "pl", "p":
		return NumberPlural
	}
	return NumberUnknown
}

// Agrees is true unless both numbers are known and differ.
func (n Number) Agrees(other Number) bool {
	return n == NumberUnknown || other == NumberUnknown || n == other
}

// MentionID is unique within a document. Ids are dense, starting at zero.
type MentionID int

const NoMention MentionID = -1

// Mention is a typed span produced upstream. Only the linking core's snapshots
// may narrow its type; the Mention itself is not modified during resolution.
type Mention struct {
	ID       MentionID
	Sentence int
	Node     *Node
	Kind     Kind
	Type     EntityType
	Gender   Gender
	Number   Number

	// Structural links for appositives, lists and partitives.
	Parent MentionID
	Child  MentionID
	Next   MentionID
}

// Words returns the terminal words under the mention's node.
func (m *Mention) Words() []string {
	if m.Node == nil {
		return nil
	}
	return m.Node.Words()
}

func (m *Mention) String() string {
	return fmt.Sprintf("%d:%s:%s[%s]", m.ID, m.Kind, m.Type, strings.Join(m.Words(), " "))
}
