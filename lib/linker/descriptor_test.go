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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/testhelpers"
)

func TestDescribe(t *testing.T) {
	ctx := newTestContext(t)
	doc := testhelpers.Doc("describe", []string{
		"(S (NP (DT The) (NNP London) (CD two) (NN office)) (VP (VBD closed)) (. .))",
		"(S (NP (NNS Companies)) (VP (VBD failed)) (. .))",
	},
		testhelpers.M(0, 0, 4, document.KindDesc, document.TypeFAC),
		testhelpers.M(1, 0, 1, document.KindDesc, document.TypeORG),
	)

	d := ctx.describe(testhelpers.Mention(doc, 0))
	assert.Equal(t, "office", d.head)
	assert.Equal(t, []string{"london"}, d.premods)
	assert.Equal(t, []string{"london"}, d.proper)
	assert.Equal(t, []string{"two"}, d.numerics)
	assert.True(t, d.determined)
	assert.False(t, d.plural)

	d = ctx.describe(testhelpers.Mention(doc, 1))
	assert.Equal(t, "company", d.stem)
	assert.True(t, d.plural)
	assert.False(t, d.determined)
}

func TestDescriptorLinksToName(t *testing.T) {
	ctx := newTestContext(t)
	doc := testhelpers.AcmeDocument()

	for _, test := range []struct {
		name string
		l    Linker
	}{
		{name: "rule", l: NewRuleDescriptorLinker(ctx)},
		{name: "maxent", l: NewMaxentDescriptorLinker(ctx)},
	} {
		set := entityset.New(ctx.Lex, doc.MentionCount())
		acme := seed(t, ctx, doc, set, testhelpers.AcmeName)

		branches := link(t, test.l, doc, set, testhelpers.AcmeDesc, 3)
		require.Len(t, branches, 2, test.name)
		assert.Equal(t, acme, branches[0].Entity, test.name)
		assert.True(t, branches[1].Guess.IsNew(), test.name)

		e, _ := branches[0].Set.Entity(acme)
		assert.Equal(t, []document.MentionID{testhelpers.AcmeName, testhelpers.AcmeDesc}, e.Mentions, test.name)
	}
}

func TestRuleDescriptor(t *testing.T) {
	ctx := newTestContext(t)
	offices := testhelpers.Doc("offices", []string{
		"(S (NP (DT The) (NNP London) (NN office)) (VP (VBD closed)) (. .))",
		"(S (NP (DT The) (NNP Boston) (NN office)) (VP (VBD opened)) (. .))",
		"(S (NP (DT The) (NN office)) (VP (VBD reopened)) (. .))",
		"(S (NP (DT An) (NN office)) (VP (VBD moved)) (. .))",
	},
		testhelpers.M(0, 0, 3, document.KindDesc, document.TypeFAC),
		testhelpers.M(1, 0, 3, document.KindDesc, document.TypeFAC),
		testhelpers.M(2, 0, 2, document.KindDesc, document.TypeFAC),
		testhelpers.M(3, 0, 2, document.KindDesc, document.TypeFAC),
	)
	firms := testhelpers.Doc("firms", []string{
		"(S (NP (DT The) (CD two) (NNS firms)) (VP (VBD merged)) (. .))",
		"(S (NP (DT The) (CD three) (NNS firms)) (VP (VBD split)) (. .))",
		"(S (NP (NNS Firms)) (VP (VBD compete)) (. .))",
	},
		testhelpers.M(0, 0, 3, document.KindDesc, document.TypeORG),
		testhelpers.M(1, 0, 3, document.KindDesc, document.TypeORG),
		testhelpers.M(2, 0, 1, document.KindDesc, document.TypeORG),
	)

	for _, test := range []struct {
		name    string
		doc     *document.Document
		linked  document.MentionID
		links   bool
		generic bool
	}{
		{name: "premodifier name clash", doc: offices, linked: 1},
		{name: "bare head", doc: offices, linked: 2, links: true},
		{name: "indefinite", doc: offices, linked: 3},
		{name: "numeric clash", doc: firms, linked: 1},
		{name: "bare plural", doc: firms, linked: 2, generic: true},
	} {
		set := entityset.New(ctx.Lex, test.doc.MentionCount())
		id := seed(t, ctx, test.doc, set, 0)

		branches := link(t, NewRuleDescriptorLinker(ctx), test.doc, set, test.linked, 3)
		if test.links {
			assert.Equal(t, id, branches[0].Entity, test.name)
			continue
		}
		require.Len(t, branches, 1, test.name)
		assert.True(t, branches[0].Guess.IsNew(), test.name)
		e, _ := branches[0].Set.Entity(branches[0].Entity)
		assert.Equal(t, test.generic, e.Generic, test.name)
	}
}

func TestRuleDescriptorPremodifiers(t *testing.T) {
	ctx := newTestContext(t)
	offices := testhelpers.Doc("offices", []string{
		"(S (NP (DT The) (JJ new) (NN office)) (VP (VBD opened)) (. .))",
		"(S (NP (DT The) (JJ old) (NN office)) (VP (VBD closed)) (. .))",
		"(S (NP (DT The) (JJ new) (NN office)) (VP (VBD grew)) (. .))",
	},
		testhelpers.M(0, 0, 3, document.KindDesc, document.TypeFAC),
		testhelpers.M(1, 0, 3, document.KindDesc, document.TypeFAC),
		testhelpers.M(2, 0, 3, document.KindDesc, document.TypeFAC),
	)
	rivals := testhelpers.Doc("rivals", []string{
		testhelpers.AcmeSentence0,
		"(S (NP (DT The) (JJ rival) (NN company)) (VP (VBD grew)) (. .))",
	},
		testhelpers.M(0, 0, 2, document.KindName, document.TypeORG),
		testhelpers.M(1, 0, 3, document.KindDesc, document.TypeORG),
	)

	for _, test := range []struct {
		name   string
		doc    *document.Document
		seeded []document.MentionID
		linked document.MentionID
		want   []int
	}{
		{name: "unseen premodifier starts a new entity", doc: offices, seeded: []document.MentionID{0}, linked: 1},
		{name: "unseen premodifier on a name head", doc: rivals, seeded: []document.MentionID{0}, linked: 1},
		{name: "only the entity with every premodifier", doc: offices, seeded: []document.MentionID{0, 1}, linked: 2, want: []int{0}},
	} {
		set := entityset.New(ctx.Lex, test.doc.MentionCount())
		var ids []entityset.EntityID
		for _, m := range test.seeded {
			ids = append(ids, seed(t, ctx, test.doc, set, m))
		}

		branches := link(t, NewRuleDescriptorLinker(ctx), test.doc, set, test.linked, 3)
		require.Len(t, branches, len(test.want)+1, test.name)
		for i, w := range test.want {
			assert.Equal(t, ids[w], branches[i].Entity, test.name)
		}
		assert.True(t, branches[len(test.want)].Guess.IsNew(), test.name)
	}
}

func TestMaxentDescriptorThreshold(t *testing.T) {
	ctx := newTestContext(t)
	doc := testhelpers.AcmeDocument()
	set := entityset.New(ctx.Lex, doc.MentionCount())
	seed(t, ctx, doc, set, testhelpers.AcmeName)

	ctx.Threshold = 0.99
	branches := link(t, NewMaxentDescriptorLinker(ctx), doc, set, testhelpers.AcmeDesc, 3)
	require.Len(t, branches, 1)
	assert.True(t, branches[0].Guess.IsNew())
	assert.Less(t, branches[0].Guess.Confidence, 0.5)
}
