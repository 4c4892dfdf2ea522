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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/testhelpers"
)

func defaultEnglish(t *testing.T) *English {
	en, err := Default()
	require.NoError(t, err)
	return en
}

func TestHeadWord(t *testing.T) {
	en := defaultEnglish(t)
	doc := testhelpers.AcmeDocument()

	for _, test := range []struct {
		name     string
		mention  document.MentionID
		expected string
	}{
		{name: "name", mention: testhelpers.AcmeName, expected: "Corp"},
		{name: "descriptor", mention: testhelpers.AcmeDesc, expected: "company"},
		{name: "pronoun", mention: testhelpers.AcmePron, expected: "it"},
	} {
		m := testhelpers.Mention(doc, test.mention)
		assert.Equal(t, test.expected, en.HeadWord(m.Node), test.name)
	}

	assert.Equal(t, "said", en.HeadWord(doc.Sentences[1].Root))
}

func TestHeadMarks(t *testing.T) {
	en := defaultEnglish(t)
	root, err := document.ParseTree("(NP (NP^ (NNP Smith)) (, ,) (NP (DT a) (NN lawyer)))")
	require.NoError(t, err)
	assert.Equal(t, "Smith", en.HeadWord(root))
}

func TestGoverningWord(t *testing.T) {
	en := defaultEnglish(t)
	doc := testhelpers.AcmeDocument()

	assert.Equal(t, "regrets", en.GoverningWord(testhelpers.Mention(doc, testhelpers.AcmePron).Node))
	assert.Equal(t, "said", en.GoverningWord(testhelpers.Mention(doc, testhelpers.AcmeDesc).Node))
	assert.Equal(t, "", en.GoverningWord(doc.Sentences[0].Root))
}

func TestPronoun(t *testing.T) {
	en := defaultEnglish(t)

	she, ok := en.Pronoun("She")
	require.True(t, ok)
	assert.Equal(t, document.GenderFeminine, she.Gender)
	assert.Equal(t, document.NumberSingular, she.Number)
	assert.Equal(t, document.TypePER, she.Type)
	assert.False(t, she.IsSpeakerPerson())

	it, ok := en.Pronoun("it")
	require.True(t, ok)
	assert.Equal(t, document.TypeUndet, it.Type)

	i, ok := en.Pronoun("I")
	require.True(t, ok)
	assert.True(t, i.IsSpeakerPerson())

	_, ok = en.Pronoun("company")
	assert.False(t, ok)
}

func TestFeatures(t *testing.T) {
	en := defaultEnglish(t)
	doc := testhelpers.Doc("features", []string{
		"(S (NP (DT The) (NNS women)) (VP (VBD met) (NP (NNP Acme))) (. .))",
		"(S (NP (PRP She)) (VP (VBD left)))",
	},
		testhelpers.M(0, 0, 2, document.KindDesc, document.TypePER),
		testhelpers.M(0, 3, 4, document.KindName, document.TypeORG),
		testhelpers.M(1, 0, 1, document.KindPron, document.TypeUndet),
		testhelpers.MentionSpec{Sentence: 1, Start: 1, End: 2, Kind: document.KindDesc, Type: document.TypeUndet,
			Gender: document.GenderMasculine, Number: document.NumberPlural, Parent: -1},
	)

	for _, test := range []struct {
		name   string
		id     document.MentionID
		gender document.Gender
		number document.Number
	}{
		{name: "plural descriptor with lexical gender", id: 0, gender: document.GenderFeminine, number: document.NumberPlural},
		{name: "organisation name", id: 1, gender: document.GenderNeuter, number: document.NumberSingular},
		{name: "pronoun", id: 2, gender: document.GenderFeminine, number: document.NumberSingular},
		{name: "upstream values win", id: 3, gender: document.GenderMasculine, number: document.NumberPlural},
	} {
		g, n := en.Features(doc, testhelpers.Mention(doc, test.id))
		assert.Equal(t, test.gender, g, test.name)
		assert.Equal(t, test.number, n, test.name)
	}
}

func TestFeaturesSelfParentedAppositive(t *testing.T) {
	en := defaultEnglish(t)
	doc := testhelpers.Doc("loop", []string{"(S (NP (NNP John)) (VP (VBD left)))"},
		testhelpers.MentionSpec{Sentence: 0, Start: 0, End: 1, Kind: document.KindAppo, Type: document.TypePER, Parent: 0},
	)

	g, n := en.Features(doc, testhelpers.Mention(doc, 0))
	assert.Equal(t, document.GenderUnknown, g)
	assert.Equal(t, document.NumberUnknown, n)
}

func TestNameHeads(t *testing.T) {
	en := defaultEnglish(t)

	assert.Equal(t, []string{"company", "corporation", "firm"}, en.NameHeads([]string{"Acme", "Corp."}, document.TypeORG))
	assert.Equal(t, []string{"country", "nation", "state", "city", "government"}, en.NameHeads([]string{"France"}, document.TypeGPE))
	assert.Empty(t, en.NameHeads([]string{"Corp"}, document.TypeORG))
}

func TestAcronym(t *testing.T) {
	en := defaultEnglish(t)

	assert.Equal(t, "IBM", en.Acronym([]string{"International", "Business", "Machines"}))
	assert.Equal(t, "BE", en.Acronym([]string{"Bank", "of", "England"}))
	assert.Equal(t, "", en.Acronym([]string{"Acme"}))
	assert.Equal(t, "", en.Acronym([]string{"acme", "corp"}))
}

func TestAlias(t *testing.T) {
	en := defaultEnglish(t)
	assert.Equal(t, "corporation", en.Alias("corp"))
	assert.Equal(t, "acme", en.Alias("acme"))
}

func TestPremodifiers(t *testing.T) {
	en := defaultEnglish(t)
	doc := testhelpers.Doc("premods", []string{
		"(S (NP (DT the) (CD three) (JJ big) (NNS banks)) (VP (VBD merged)))",
	},
		testhelpers.M(0, 0, 4, document.KindDesc, document.TypeORG),
	)
	m := testhelpers.Mention(doc, 0)

	premods := en.Premodifiers(m)
	require.Len(t, premods, 2)
	assert.Equal(t, "three", premods[0].Children[0].Word)
	assert.True(t, en.IsNumeric(premods[0]))
	assert.False(t, en.IsNumeric(premods[1]))
	assert.True(t, en.HasDeterminer(m))
	assert.False(t, en.IsIndefinite(m))
}

func TestStem(t *testing.T) {
	en := defaultEnglish(t)
	for word, stem := range map[string]string{
		"companies": "company",
		"banks":     "bank",
		"churches":  "church",
		"business":  "business",
		"Women":     "woman",
		"company":   "company",
		"bus":       "bus",
	} {
		assert.Equal(t, stem, en.Stem(word), word)
	}
}
