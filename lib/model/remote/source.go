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

// Package remote serves model resources from a key value store so that every
// replica of the service scores with the same tables.
package remote

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
)

type Source struct {
	client Client
}

var _ model.BatchSource = Source{}

func NewSource(client Client) Source {
	return Source{client: client}
}

func (s Source) Fetch(name string) ([]byte, error) {
	blobs, err := s.FetchAll([]string{name})
	if err != nil {
		return nil, err
	}
	b, ok := blobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, name)
	}
	return b, nil
}

// FetchAll reads every name in one pipeline. Missing names are left out of the result.
func (s Source) FetchAll(names []string) (map[string][]byte, error) {
	pipe := s.client.NewGetPipeline(len(names))
	for _, name := range names {
		pipe.Get(name)
	}

	res := make(map[string][]byte, len(names))
	err := pipe.ExecGet(func(name string, data []byte) error {
		if data == nil {
			log.Warn().Str("model", name).Msg("model missing from remote store")
			return nil
		}
		res[name] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Publish copies every named resource from src into the remote store.
func Publish(client Client, src model.Source, names []string) error {
	pipe := client.NewSetPipeline(len(names))
	for _, name := range names {
		b, err := src.Fetch(name)
		if err != nil {
			return err
		}
		pipe.Set(name, b)
	}
	if err := pipe.ExecSet(); err != nil {
		return err
	}
	log.Info().Int("models", pipe.Size()).Msg("models published")
	return nil
}
