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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/resolver"
)

type documentResolver interface {
	Resolve(doc *document.Document) (*entityset.Set, error)
	Config() resolver.Config
}

type controller struct {
	resolver documentResolver
}

// Resolve decodes one JSON document from reader and returns its entities,
// keyed by the mention ids the caller used.
func (c controller) Resolve(reader io.Reader) (entityset.Exported, error) {
	var jd document.JSONDocument
	if err := json.NewDecoder(reader).Decode(&jd); err != nil {
		return entityset.Exported{}, NewHttpError(http.StatusBadRequest, fmt.Errorf("invalid document json: %w", err))
	}

	doc, err := document.FromJSON(jd)
	if err != nil {
		return entityset.Exported{}, classify(err)
	}

	set, err := c.resolver.Resolve(doc)
	if err != nil {
		return entityset.Exported{}, classify(err)
	}
	log.Debug().Str("doc", doc.ID).Int("entities", set.EntityCount()).Msg("resolved")
	return set.Export(doc.ID, document.ExternalIDs(jd)), nil
}

func (c controller) Config() resolver.Config {
	return c.resolver.Config()
}

// classify maps malformed documents onto client errors.
func classify(err error) error {
	if errors.Is(err, document.ErrStructural) {
		return NewHttpError(http.StatusUnprocessableEntity, err)
	}
	if errors.Is(err, document.ErrParse) {
		return NewHttpError(http.StatusBadRequest, err)
	}
	return err
}
