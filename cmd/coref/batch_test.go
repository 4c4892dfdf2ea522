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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/resolver"
)

const acme = `{"id": "acme", "sentences": [
	{"parse": "(S (NP (NNP Acme) (NNP Corp)) (VP (VBD announced) (NP (NNS layoffs))) (. .))",
	 "mentions": [{"id": 7, "start": 0, "end": 2, "kind": "name", "type": "ORG"}]},
	{"parse": "(S (NP (DT The) (NN company)) (VP (VBD said) (SBAR (S (NP (PRP it)) (VP (VBZ regrets) (NP (DT the) (NN decision)))))) (. .))",
	 "mentions": [{"id": 8, "start": 0, "end": 2, "kind": "desc", "type": "ORG"}, {"id": 9, "start": 3, "end": 4, "kind": "pron", "type": "UNDET"}]}
]}`

const untyped = `{"id": "untyped", "sentences": [
	{"parse": "(S (NP (NNP Acme)) (VP (VBD grew)))", "mentions": [{"id": 1, "start": 0, "end": 1, "kind": "name"}]}
]}`

const globex = `{"id": "globex", "sentences": [
	{"parse": "(S (NP (NNP Globex)) (VP (VBD grew)))", "mentions": [{"id": 3, "start": 0, "end": 1, "kind": "name", "type": "ORG"}]}
]}`

func newTestEngine(t *testing.T) documentResolver {
	r, err := lib.NewEngine(lib.EngineConfig{
		Models:   lib.ModelConfig{ModelSource: lib.ModelsBuiltin},
		Resolver: resolver.DefaultConfig(),
	})
	require.NoError(t, err)
	return r
}

func TestReadJobs(t *testing.T) {
	jobs, err := readJobs([]input{
		{name: "a.json", r: strings.NewReader(acme + "\n" + untyped)},
		{name: "b.json", r: strings.NewReader(globex)},
	})
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{"acme", "untyped", "globex"}, []string{jobs[0].wire.ID, jobs[1].wire.ID, jobs[2].wire.ID})
	assert.Equal(t, "b.json", jobs[2].source)

	_, err = readJobs([]input{{name: "bad.json", r: strings.NewReader(`{"id": `)}})
	assert.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	jobs, err := readJobs([]input{{name: "docs", r: strings.NewReader(acme + untyped + globex)}})
	require.NoError(t, err)

	for _, workers := range []int{1, 3} {
		var out bytes.Buffer
		failed, err := runBatch(context.Background(), newTestEngine(t), jobs, &out, workers)
		require.NoError(t, err)
		assert.Equal(t, 1, failed)

		dec := json.NewDecoder(&out)
		var results []entityset.Exported
		for dec.More() {
			var e entityset.Exported
			require.NoError(t, dec.Decode(&e))
			results = append(results, e)
		}

		require.Len(t, results, 2, "workers %d", workers)
		assert.Equal(t, "acme", results[0].DocumentID)
		require.Len(t, results[0].Entities, 1)
		assert.ElementsMatch(t, []int{7, 8, 9}, results[0].Entities[0].Mentions)
		assert.Equal(t, "globex", results[1].DocumentID)
		assert.Equal(t, []int{3}, results[1].Entities[0].Mentions)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	jobs, err := readJobs([]input{{name: "docs", r: strings.NewReader(acme)}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err = runBatch(ctx, newTestEngine(t), jobs, &out, 2)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, out.Len())
}

func TestValidate(t *testing.T) {
	c := corefConfig{
		EngineConfig: lib.EngineConfig{
			Models:   lib.ModelConfig{ModelSource: lib.ModelsBuiltin},
			Resolver: resolver.DefaultConfig(),
		},
		Workers: 0,
	}
	var cerr *resolver.ConfigError
	require.True(t, errors.As(c.Validate(), &cerr))
	assert.Equal(t, "workers", cerr.Key)

	c.Workers = 2
	assert.NoError(t, c.Validate())
}
