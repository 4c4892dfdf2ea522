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
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
)

type documentResolver interface {
	Resolve(doc *document.Document) (*entityset.Set, error)
}

type input struct {
	name string
	r    io.Reader
}

type job struct {
	source string
	wire   document.JSONDocument
}

type outcome struct {
	result *entityset.Exported
	err    error
}

// readJobs decodes every JSON document from every input, in order.
func readJobs(inputs []input) ([]job, error) {
	var jobs []job
	for _, in := range inputs {
		dec := json.NewDecoder(in.r)
		for {
			var jd document.JSONDocument
			err := dec.Decode(&jd)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job{source: in.name, wire: jd})
		}
	}
	return jobs, nil
}

/**
	runBatch resolves every job with at most workers documents in flight and
	writes one entity JSON line per resolved document, in input order. A
	document that cannot be resolved is logged and skipped; the number of such
	documents is returned. Cancelling ctx stops scheduling new documents.
**/
func runBatch(ctx context.Context, r documentResolver, jobs []job, out io.Writer, workers int) (int, error) {
	outcomes := make([]outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		i, j := i, j
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = resolveOne(r, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	enc := json.NewEncoder(out)
	failed := 0
	for i, o := range outcomes {
		if o.err != nil {
			failed++
			log.Error().Err(o.err).Str("source", jobs[i].source).Str("doc", jobs[i].wire.ID).Msg("document not resolved")
			continue
		}
		if err := enc.Encode(o.result); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func resolveOne(r documentResolver, j job) outcome {
	doc, err := document.FromJSON(j.wire)
	if err != nil {
		return outcome{err: err}
	}
	set, err := r.Resolve(doc)
	if err != nil {
		return outcome{err: err}
	}
	res := set.Export(doc.ID, document.ExternalIDs(j.wire))
	return outcome{result: &res}
}
