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

package model

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `
name: test
floor: 0.001
histories:
  a: {x: 3, y: 1}
  b: {y: 4}
`

func TestTableProb(t *testing.T) {
	table, err := ParseTable([]byte(testTable))
	require.NoError(t, err)

	// marginals: x 3/8, y 5/8
	assert.InDelta(t, (3+2*0.375)/(4+2), table.Prob("a", "x"), 1e-9)
	assert.InDelta(t, (1+2*0.625)/(4+2), table.Prob("a", "y"), 1e-9)
	assert.InDelta(t, (0+1*0.375)/(4+1), table.Prob("b", "x"), 1e-9)
	assert.InDelta(t, 0.375, table.Prob("unseen", "x"), 1e-9)
	assert.InDelta(t, 0.001, table.Prob("a", "z"), 1e-9)
	assert.Greater(t, table.Prob("a", "x"), table.Prob("b", "x"))

	assert.True(t, table.Seen("a"))
	assert.False(t, table.Seen("c"))
	assert.Less(t, table.LogProb("a", "z"), table.LogProb("a", "x"))
}

func TestTableMalformed(t *testing.T) {
	for _, test := range []struct {
		name string
		data string
	}{
		{name: "not yaml", data: "histories: [oops"},
		{name: "no name", data: "histories: {a: {x: 1}}"},
		{name: "negative count", data: "name: t\nhistories: {a: {x: -1}}"},
		{name: "bad floor", data: "name: t\nfloor: 2\nhistories: {a: {x: 1}}"},
	} {
		_, err := ParseTable([]byte(test.data))
		assert.True(t, errors.Is(err, ErrMalformed), test.name)
	}
}

func TestMaxent(t *testing.T) {
	m, err := NewMaxent("test", []string{Link, NoLink}, map[string]map[string]float64{
		"bias":  {NoLink: 1},
		"match": {Link: 3},
	})
	require.NoError(t, err)

	dist := m.Distribution([]string{"bias", "match"})
	require.Len(t, dist, 2)
	assert.InDelta(t, 1.0, dist[0]+dist[1], 1e-9)
	assert.Greater(t, dist[0], dist[1])

	assert.Less(t, m.Prob([]string{"bias"}, Link), 0.5)
	assert.InDelta(t, 0.5, m.Prob([]string{"unknown"}, Link), 1e-9)
	assert.Equal(t, 0.0, m.Prob([]string{"bias"}, "other"))
}

func TestMaxentMalformed(t *testing.T) {
	_, err := NewMaxent("test", []string{Link}, nil)
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = ParseMaxent([]byte("name: t\noutcomes: [link, nolink]\nweights: {f: {maybe: 1}}"))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestDefault(t *testing.T) {
	bundle, err := Default()
	require.NoError(t, err)

	assert.NotNil(t, bundle.PronounPrior)
	assert.NotNil(t, bundle.PronounClassifier)
	assert.Greater(t, bundle.PronounHeadWord.Prob("ORG.neuter.singular", "it"), bundle.PronounHeadWord.Prob("PER.masculine.singular", "it"))
	assert.Greater(t, bundle.PronounPrior.Prob("", "NULL"), 0.0)
	assert.Greater(t, bundle.NamePrior.Prob("0", "new"), bundle.NamePrior.Prob("0", "old"))
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource()
	_, err := src.Fetch("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	src.Set("a", []byte("data"))
	b, err := src.Fetch("a")
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
	assert.Equal(t, []string{"a"}, src.Names())

	src.Delete("a")
	_, err = src.Fetch("a")
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	src, err := DefaultSource()
	require.NoError(t, err)
	src.Delete(PronounLink)

	_, err = Load(src)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadMalformed(t *testing.T) {
	src, err := DefaultSource()
	require.NoError(t, err)
	src.Set(NamePrior, []byte("name: name_prior\nhistories: {\"0\": {new: -3}}"))

	_, err = Load(src)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestDirSource(t *testing.T) {
	dir, err := ioutil.TempDir("", "models")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	embedded, err := DefaultSource()
	require.NoError(t, err)
	for _, name := range Names() {
		b, err := embedded.Fetch(name)
		require.NoError(t, err)
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, name+".yml"), b, 0644))
	}

	bundle, err := Load(DirSource{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, NameGenericWord, bundle.NameGenericWord.Name)

	_, err = DirSource{Dir: dir}.Fetch("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
