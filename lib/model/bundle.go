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

// Package model loads the probability tables and classifiers the linkers
// score with. The on-disk format belongs to the offline trainer; here every
// resource is a small YAML document that parses into a Table or a Maxent.
package model

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Resource names.
const (
	PronounPrior      = "pronoun_prior"
	PronounDistance   = "pronoun_distance"
	PronounHeadWord   = "pronoun_head_word"
	PronounParentWord = "pronoun_parent_word"
	NamePrior         = "name_prior"
	NameGenericWord   = "name_generic_word"
	DescriptorLink    = "descriptor_link"
	PronounLink       = "pronoun_link"
)

var tableNames = []string{PronounPrior, PronounDistance, PronounHeadWord, PronounParentWord, NamePrior, NameGenericWord}
var classifierNames = []string{DescriptorLink, PronounLink}

// Bundle is the full model set, loaded once and shared read-only.
type Bundle struct {
	// P(antecedent tuple)
	PronounPrior *Table
	// P(search rank)
	PronounDistance *Table
	// P(pronoun word | antecedent tuple)
	PronounHeadWord *Table
	// P(governing word | antecedent type)
	PronounParentWord *Table
	// P(new|old | entity count bucket)
	NamePrior *Table
	// P(word) outside any entity
	NameGenericWord *Table

	DescriptorClassifier *Maxent
	PronounClassifier    *Maxent
}

// Load fetches and parses every resource of the bundle from src.
func Load(src Source) (*Bundle, error) {
	blobs, err := fetchAll(src, Names())
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*Table, len(tableNames))
	for _, name := range tableNames {
		t, err := ParseTable(blobs[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		tables[name] = t
	}
	classifiers := make(map[string]*Maxent, len(classifierNames))
	for _, name := range classifierNames {
		m, err := ParseMaxent(blobs[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		classifiers[name] = m
	}

	log.Info().Int("tables", len(tables)).Int("classifiers", len(classifiers)).Msg("models loaded")
	return &Bundle{
		PronounPrior:         tables[PronounPrior],
		PronounDistance:      tables[PronounDistance],
		PronounHeadWord:      tables[PronounHeadWord],
		PronounParentWord:    tables[PronounParentWord],
		NamePrior:            tables[NamePrior],
		NameGenericWord:      tables[NameGenericWord],
		DescriptorClassifier: classifiers[DescriptorLink],
		PronounClassifier:    classifiers[PronounLink],
	}, nil
}

func fetchAll(src Source, names []string) (map[string][]byte, error) {
	if batch, ok := src.(BatchSource); ok {
		blobs, err := batch.FetchAll(names)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if _, ok := blobs[name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
			}
		}
		return blobs, nil
	}

	blobs := make(map[string][]byte, len(names))
	for _, name := range names {
		b, err := src.Fetch(name)
		if err != nil {
			return nil, err
		}
		blobs[name] = b
	}
	return blobs, nil
}

// Default loads the models compiled into the binary.
func Default() (*Bundle, error) {
	src, err := DefaultSource()
	if err != nil {
		return nil, err
	}
	return Load(src)
}

// Names lists every resource a bundle needs.
func Names() []string {
	return append(append([]string{}, tableNames...), classifierNames...)
}
