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

package english

import (
	_ "embed"
	"strings"
	"unicode"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/language"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/text"
)

//go:embed english.yml
var defaultRules []byte

const Name = "en"

type English struct {
	tables *lexicon.Tables
}

var _ language.Language = (*English)(nil)

func New(tables *lexicon.Tables) *English {
	return &English{tables: tables}
}

// Default returns English with the built-in rule tables.
func Default() (*English, error) {
	tables, err := lexicon.Parse(defaultRules)
	if err != nil {
		return nil, err
	}
	return New(tables), nil
}

func (e *English) Name() string {
	return Name
}

func (e *English) IsNounPhrase(label string) bool {
	return label == "NP" || label == "NX" || label == "NML" || label == "NPA"
}

func (e *English) IsClause(label string) bool {
	switch label {
	case "S", "SBAR", "SINV", "SQ", "SBARQ", "FRAG":
		return true
	}
	return false
}

func isNounTag(label string) bool {
	return strings.HasPrefix(label, "NN") || label == "PRP" || label == "CD" || label == "NX"
}

// HeadNode follows parser head marks where present and falls back to a small
// Collins style head table.
func (e *English) HeadNode(n *document.Node) *document.Node {
	cur := n
	for cur != nil && !cur.IsTerminal() && !cur.IsPreterminal() {
		cur = e.headChild(cur)
	}
	if cur != nil && cur.IsTerminal() {
		return cur.Parent
	}
	return cur
}

func (e *English) headChild(n *document.Node) *document.Node {
	if n.Head >= 0 && n.Head < len(n.Children) {
		return n.Children[n.Head]
	}
	children := n.Children
	switch {
	case e.IsNounPhrase(n.Label):
		for i := len(children) - 1; i >= 0; i-- {
			if isNounTag(children[i].Label) && children[i].IsPreterminal() {
				return children[i]
			}
		}
		for _, c := range children {
			if e.IsNounPhrase(c.Label) {
				return c
			}
		}
		for i := len(children) - 1; i >= 0; i-- {
			if children[i].Label != "." && children[i].Label != "," {
				return children[i]
			}
		}
	case n.Label == "VP":
		for _, c := range children {
			if strings.HasPrefix(c.Label, "VB") || c.Label == "MD" || c.Label == "TO" {
				return c
			}
		}
		for _, c := range children {
			if c.Label == "VP" {
				return c
			}
		}
	case n.Label == "PP":
		for _, c := range children {
			if c.Label == "IN" || c.Label == "TO" {
				return c
			}
		}
	case n.Label == "SBAR":
		for _, c := range children {
			if e.IsClause(c.Label) {
				return c
			}
		}
	case e.IsClause(n.Label):
		for _, c := range children {
			if c.Label == "VP" {
				return c
			}
		}
	}
	return children[0]
}

func (e *English) HeadWord(n *document.Node) string {
	h := e.HeadNode(n)
	if h == nil || len(h.Children) == 0 {
		return ""
	}
	return h.Children[0].Word
}

func (e *English) GoverningWord(n *document.Node) string {
	head := e.HeadNode(n)
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if e.HeadNode(cur) != head {
			return text.Canonical(e.HeadWord(cur))
		}
	}
	return ""
}

func (e *English) Pronoun(word string) (language.Pronoun, bool) {
	entry, ok := e.tables.Pronouns[strings.ToLower(word)]
	if !ok {
		return language.Pronoun{}, false
	}
	typ := document.EntityType(strings.ToUpper(entry.Type))
	if typ == document.TypeNone {
		typ = document.TypeUndet
	}
	return language.Pronoun{
		Word:   strings.ToLower(word),
		Person: entry.Person,
		Gender: document.ParseGender(entry.Gender),
		Number: document.ParseNumber(entry.Number),
		Type:   typ,
	}, true
}

// maxAppositiveDepth bounds how far Features descends through nested appositives.
const maxAppositiveDepth = 8

func (e *English) Features(doc *document.Document, m *document.Mention) (document.Gender, document.Number) {
	return e.features(doc, m, 0)
}

func (e *English) features(doc *document.Document, m *document.Mention, depth int) (document.Gender, document.Number) {
	gender, number := m.Gender, m.Number
	if gender != document.GenderUnknown && number != document.NumberUnknown {
		return gender, number
	}

	var g document.Gender
	var n document.Number
	switch m.Kind {
	case document.KindPron:
		if p, ok := e.Pronoun(e.HeadWord(m.Node)); ok {
			g, n = p.Gender, p.Number
		}
	case document.KindList:
		n = document.NumberPlural
	case document.KindAppo:
		if children := doc.Children(m); len(children) > 0 && children[0].ID != m.ID && depth < maxAppositiveDepth {
			g, n = e.features(doc, children[0], depth+1)
		}
	case document.KindName, document.KindDesc, document.KindPart:
		head := e.HeadNode(m.Node)
		if head != nil {
			if head.Label == "NNS" || head.Label == "NNPS" {
				n = document.NumberPlural
			} else if strings.HasPrefix(head.Label, "NN") {
				n = document.NumberSingular
			}
			if hg, ok := e.tables.HeadGender[text.Canonical(head.Children[0].Word)]; ok && m.Kind != document.KindName {
				g = document.ParseGender(hg)
			}
		}
		if m.Kind == document.KindName && m.Type != document.TypePER {
			n = document.NumberSingular
		}
		if m.Type.IsDetermined() && m.Type != document.TypePER {
			g = document.GenderNeuter
		}
	}

	if gender == document.GenderUnknown {
		gender = g
	}
	if number == document.NumberUnknown {
		number = n
	}
	return gender, number
}

func (e *English) NameWords(m *document.Mention) []string {
	return text.SplitAll(m.Words())
}

// NameHeads looks the final word of the name up in the designator table, then
// adds the heads any name of the type may take.
func (e *English) NameHeads(words []string, t document.EntityType) []string {
	var heads []string
	if len(words) > 1 {
		last := text.Canonical(words[len(words)-1])
		heads = append(heads, e.tables.Designators[last]...)
	}
	heads = append(heads, e.tables.TypeHeads[string(t)]...)
	return heads
}

func (e *English) Acronym(words []string) string {
	var sb strings.Builder
	n := 0
	for _, w := range words {
		if e.tables.Stopwords.Contains(w) {
			continue
		}
		r := []rune(w)
		if len(r) == 0 || !unicode.IsUpper(r[0]) {
			return ""
		}
		sb.WriteRune(r[0])
		n++
	}
	if n < 2 {
		return ""
	}
	return sb.String()
}

func (e *English) Alias(word string) string {
	if alias, ok := e.tables.Aliases[word]; ok {
		return alias
	}
	return word
}

func (e *English) Premodifiers(m *document.Mention) []*document.Node {
	head := e.HeadNode(m.Node)
	var res []*document.Node
	for _, pt := range m.Node.Preterminals() {
		if pt == head {
			break
		}
		switch pt.Label {
		case "DT", "PDT", "POS", ",", ".", ":", "``", "''", "-LRB-", "-RRB-", "CC":
			continue
		}
		if e.tables.Determiners.Contains(pt.Children[0].Word) {
			continue
		}
		res = append(res, pt)
	}
	return res
}

func (e *English) firstWord(m *document.Mention) string {
	words := m.Words()
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

func (e *English) IsIndefinite(m *document.Mention) bool {
	return e.tables.Indefinite.Contains(e.firstWord(m))
}

func (e *English) HasDeterminer(m *document.Mention) bool {
	pts := m.Node.Preterminals()
	if len(pts) == 0 {
		return false
	}
	first := pts[0]
	return first.Label == "DT" || first.Label == "PDT" || first.Label == "PRP$" ||
		e.tables.Determiners.Contains(first.Children[0].Word)
}

func (e *English) IsNumeric(n *document.Node) bool {
	if n.Label == "CD" {
		return true
	}
	if !n.IsPreterminal() {
		return false
	}
	word := n.Children[0].Word
	if e.tables.Numbers.Contains(word) {
		return true
	}
	for _, r := range word {
		if !unicode.IsDigit(r) && r != ',' && r != '.' {
			return false
		}
	}
	return word != ""
}

func (e *English) Stem(word string) string {
	w := text.Canonical(word)
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes") || strings.HasSuffix(w, "sses") || strings.HasSuffix(w, "xes")):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us"):
		return w[:len(w)-1]
	case w == "men":
		return "man"
	case w == "women":
		return "woman"
	case w == "people":
		return "person"
	}
	return w
}
