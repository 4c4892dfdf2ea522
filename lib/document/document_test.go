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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testParse = "(S (NP (NNP Acme) (NNP^ Corp)) (VP^ (VBD announced) (NP (NNS layoffs))) (. .))"

func TestParseTree(t *testing.T) {
	root, err := ParseTree(testParse)
	require.NoError(t, err)

	assert.Equal(t, "S", root.Label)
	assert.Equal(t, []string{"Acme", "Corp", "announced", "layoffs", "."}, root.Words())
	assert.Equal(t, 0, root.Start)
	assert.Equal(t, 5, root.End)
	assert.Equal(t, 1, root.Head, "VP^ marks the head of S")

	np := root.Children[0]
	assert.Equal(t, "NP", np.Label)
	assert.Equal(t, 1, np.Head)
	assert.Equal(t, "NNP", np.Children[1].Label, "head marker is stripped from the label")
	assert.Equal(t, root, np.Parent)
	assert.True(t, np.Children[0].IsPreterminal())
	assert.Len(t, root.Preterminals(), 5)
	assert.True(t, root.Dominates(np.Children[0]))
	assert.False(t, np.Dominates(root))
	assert.Equal(t, 1, root.Children[1].IndexInParent())
	assert.True(t, strings.HasPrefix(root.String(), "(S (NP (NNP Acme) (NNP Corp))"))
}

func TestParseTreeWrapped(t *testing.T) {
	root, err := ParseTree("( (S (NP (PRP it))))")
	require.NoError(t, err)
	assert.Equal(t, "S", root.Label)
	assert.Nil(t, root.Parent)
}

func TestParseTreeErrors(t *testing.T) {
	for _, parse := range []string{
		"(S (NP (NNP Acme)",
		"S NP",
		"(S (NP x)) (S)",
	} {
		_, err := ParseTree(parse)
		assert.Error(t, err, parse)
	}
}

func TestFindSpan(t *testing.T) {
	root, err := ParseTree("(S (NP (NP (PRP it))) (VP (VBZ is)))")
	require.NoError(t, err)

	n := root.FindSpan(0, 1)
	require.NotNil(t, n)
	assert.Equal(t, "NP", n.Label)
	assert.Equal(t, root, n.Parent, "the highest node with the span wins")
	assert.Nil(t, root.FindSpan(0, 3))
}

func buildTestDocument(t *testing.T) (*Document, *Builder) {
	b := NewBuilder("doc")
	_, err := b.AddSentence(testParse)
	require.NoError(t, err)
	_, err = b.AddSentence("(S (NP (NP (NNP Smith)) (, ,) (NP (DT a) (NN lawyer))) (VP (VBD spoke)))")
	require.NoError(t, err)

	_, err = b.AddMention(1, 2, 4, KindDesc, TypePER)
	require.NoError(t, err)
	_, err = b.AddMention(1, 0, 1, KindName, TypePER)
	require.NoError(t, err)
	appo, err := b.AddMention(1, 0, 4, KindAppo, TypePER)
	require.NoError(t, err)
	_, err = b.AddMention(0, 0, 2, KindName, TypeORG)
	require.NoError(t, err)

	require.NoError(t, b.SetParent(0, appo.ID))
	require.NoError(t, b.SetParent(1, appo.ID))
	b.AddPreLink(3, 1)
	return b.Build(), b
}

func TestBuilder(t *testing.T) {
	doc, _ := buildTestDocument(t)
	require.NoError(t, doc.Validate())

	var order []MentionID
	for _, m := range doc.Mentions() {
		order = append(order, m.ID)
	}
	assert.Equal(t, []MentionID{3, 2, 1, 0}, order, "sentence, then start, outer spans first")
	assert.Equal(t, []MentionID{3}, doc.Sentences[0].Mentions)

	appo, ok := doc.Mention(2)
	require.True(t, ok)
	children := doc.Children(appo)
	require.Len(t, children, 2)
	assert.Equal(t, MentionID(1), children[0].ID)
	assert.Equal(t, MentionID(0), children[1].ID)

	m, ok := doc.MentionAt(appo.Node)
	assert.True(t, ok)
	assert.Equal(t, appo, m)
	assert.True(t, doc.Before(children[0], children[1]))

	_, ok = doc.Mention(42)
	assert.False(t, ok)
}

func TestBuilderRejectsSpans(t *testing.T) {
	b := NewBuilder("doc")
	_, err := b.AddSentence(testParse)
	require.NoError(t, err)

	_, err = b.AddMention(0, 1, 3, KindName, TypeORG)
	assert.True(t, errors.Is(err, ErrStructural), "no constituent spans the tokens")

	_, err = b.AddMention(0, 0, 2, KindName, TypeORG)
	require.NoError(t, err)
	_, err = b.AddMention(0, 0, 2, KindDesc, TypeORG)
	assert.True(t, errors.Is(err, ErrStructural), "node already carries a mention")

	_, err = b.AddMention(3, 0, 1, KindName, TypeORG)
	assert.True(t, errors.Is(err, ErrStructural))
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name    string
		corrupt func(doc *Document)
	}{
		{
			name: "mention without a type",
			corrupt: func(doc *Document) {
				m, _ := doc.Mention(3)
				m.Type = TypeNone
			},
		},
		{
			name: "child without parent",
			corrupt: func(doc *Document) {
				m, _ := doc.Mention(3)
				m.Child = 0
				doc.mentions[0].Parent = NoMention
				doc.mentions[0].Next = NoMention
			},
		},
		{
			name: "parent that does not exist",
			corrupt: func(doc *Document) {
				m, _ := doc.Mention(0)
				m.Parent = 17
			},
		},
		{
			name: "node without backing mention",
			corrupt: func(doc *Document) {
				doc.Sentences[0].Root.Children[1].Mention = 12
			},
		},
		{
			name: "mention without a node",
			corrupt: func(doc *Document) {
				m, _ := doc.Mention(3)
				m.Node = nil
			},
		},
		{
			name: "mention that is its own parent",
			corrupt: func(doc *Document) {
				m, _ := doc.Mention(3)
				m.Parent = 3
				m.Child = 3
				m.Next = NoMention
			},
		},
		{
			name: "two mentions parenting each other",
			corrupt: func(doc *Document) {
				appo, _ := doc.Mention(2)
				smith, _ := doc.Mention(1)
				appo.Parent = 1
				appo.Next = NoMention
				smith.Child = 2
			},
		},
		{
			name: "pre-link to a missing mention",
			corrupt: func(doc *Document) {
				doc.PreLinks = append(doc.PreLinks, []MentionID{99})
			},
		},
	} {
		doc, _ := buildTestDocument(t)
		test.corrupt(doc)

		err := doc.Validate()
		var se *StructuralError
		require.True(t, errors.As(err, &se), test.name)
		assert.Equal(t, "doc", se.DocID, test.name)
		assert.True(t, errors.Is(err, ErrStructural), test.name)
	}
}

func TestDecode(t *testing.T) {
	input := `{
		"id": "d1",
		"sentences": [
			{"parse": "(S (NP (NNP Acme) (NNP Corp)) (VP (VBD announced)))",
			 "mentions": [{"id": 10, "start": 0, "end": 2, "kind": "name", "type": "ORG"}]},
			{"parse": "(S (NP (PRP She)) (VP (VBD left)))", "speaker": "anchor",
			 "mentions": [{"id": 11, "start": 0, "end": 1, "kind": "pronoun", "type": "PER", "gender": "feminine", "number": "singular"}]}
		],
		"prelinks": [[10, 11]]
	}`

	doc, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, 2, doc.MentionCount())
	she, _ := doc.Mention(1)
	assert.Equal(t, KindPron, she.Kind)
	assert.Equal(t, GenderFeminine, she.Gender)
	assert.Equal(t, NumberSingular, she.Number)
	assert.Equal(t, "anchor", doc.Sentences[1].Speaker)
	assert.Equal(t, [][]MentionID{{0, 1}}, doc.PreLinks)
}

func TestDecodeFoldsEntityTypes(t *testing.T) {
	input := `{"id": "case", "sentences": [
		{"parse": "(S (NP (NNP Acme)) (VP (VBD grew)))",
		 "mentions": [{"id": 1, "start": 0, "end": 1, "kind": "name", "type": " org "}]}
	]}`

	doc, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	m, ok := doc.Mention(0)
	require.True(t, ok)
	assert.Equal(t, TypeORG, m.Type)

	for _, test := range []struct {
		in   string
		want EntityType
	}{
		{in: "per", want: TypePER},
		{in: "Gpe", want: TypeGPE},
		{in: "undet", want: TypeUndet},
		{in: "", want: TypeNone},
	} {
		assert.Equal(t, test.want, ParseEntityType(test.in), test.in)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		input string
	}{
		{
			name:  "not json",
			input: `{"id": `,
		},
		{
			name:  "unknown kind",
			input: `{"sentences": [{"parse": "(S (NP (NNP A)))", "mentions": [{"id": 1, "start": 0, "end": 1, "kind": "blob", "type": "ORG"}]}]}`,
		},
		{
			name:  "unknown parent",
			input: `{"sentences": [{"parse": "(S (NP (NNP A)))", "mentions": [{"id": 1, "start": 0, "end": 1, "kind": "name", "type": "ORG", "parent": 4}]}]}`,
		},
		{
			name:  "duplicate id",
			input: `{"sentences": [{"parse": "(S (NP (NNP A)) (VP (VB b)))", "mentions": [{"id": 1, "start": 0, "end": 1, "kind": "name", "type": "ORG"}, {"id": 1, "start": 1, "end": 2, "kind": "name", "type": "ORG"}]}]}`,
		},
		{
			name:  "bad parse",
			input: `{"sentences": [{"parse": "(S (NP"}]}`,
		},
	} {
		_, err := Decode(strings.NewReader(test.input))
		assert.Error(t, err, test.name)
	}
}

func TestDecodeAssignsID(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"sentences": []}`))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
}

func TestFeatureAgreement(t *testing.T) {
	assert.True(t, GenderUnknown.Agrees(GenderFeminine))
	assert.False(t, GenderMasculine.Agrees(GenderFeminine))
	assert.True(t, NumberPlural.Agrees(NumberUnknown))
	assert.False(t, NumberPlural.Agrees(NumberSingular))
	assert.True(t, TypeORG.IsLinkable())
	assert.False(t, TypeUndet.IsLinkable())
	assert.False(t, TypeOther.IsLinkable())
	assert.True(t, TypeOther.IsDetermined())
}

func TestBuilderParseError(t *testing.T) {
	_, err := NewBuilder("bad").AddSentence("(S (NP (NNP Acme)")
	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrStructural))
}
