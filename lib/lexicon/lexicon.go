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

// Package lexicon holds the per-language rule tables consumed by the linkers:
// word lists, alias maps and pronoun feature tables. Tables are read once from
// YAML and are read-only afterwards.
package lexicon

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

type WordList struct {
	CaseSensitive   map[string]bool
	CaseInsensitive map[string]bool
}

// NewWordList builds a case-insensitive list from words.
func NewWordList(words ...string) WordList {
	wl := WordList{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
	}
	for _, w := range words {
		wl.CaseInsensitive[strings.ToLower(w)] = true
	}
	return wl
}

// Contains returns true if word is listed.
func (wl WordList) Contains(word string) bool {
	if _, ok := wl.CaseSensitive[word]; ok {
		return true
	}
	if _, ok := wl.CaseInsensitive[strings.ToLower(word)]; ok {
		return true
	}
	return false
}

// PronounEntry describes the grammatical features of one pronoun form.
type PronounEntry struct {
	Person int    `yaml:"person"`
	Gender string `yaml:"gender"`
	Number string `yaml:"number"`
	Type   string `yaml:"type"`
}

// Tables is the full set of rule tables for one language.
type Tables struct {
	Language string
	// Pronouns maps a lower cased pronoun form to its features.
	Pronouns map[string]PronounEntry
	// Aliases maps canonical spellings of a word onto a shared form ("corp" -> "corporation").
	Aliases map[string]string
	// Designators maps organisation name suffixes onto the descriptor heads they imply.
	Designators map[string][]string
	// TypeHeads maps an entity type onto descriptor heads any name of that type may take.
	TypeHeads map[string][]string
	// HeadGender maps descriptor heads with lexical gender ("woman", "king").
	HeadGender map[string]string
	Determiners WordList
	Indefinite  WordList
	Numbers     WordList
	Stopwords   WordList
}

type yamlWordList struct {
	CaseSensitive   []string `yaml:"case_sensitive"`
	CaseInsensitive []string `yaml:"case_insensitive"`
}

func (y yamlWordList) toWordList() WordList {
	res := WordList{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
	}
	for _, v := range y.CaseSensitive {
		res.CaseSensitive[v] = true
	}
	for _, v := range y.CaseInsensitive {
		res.CaseInsensitive[strings.ToLower(v)] = true
	}
	return res
}

type yamlTables struct {
	Language    string                  `yaml:"language"`
	Pronouns    map[string]PronounEntry `yaml:"pronouns"`
	Aliases     map[string]string       `yaml:"aliases"`
	Designators map[string][]string     `yaml:"designators"`
	TypeHeads   map[string][]string     `yaml:"type_heads"`
	HeadGender  map[string]string       `yaml:"head_gender"`
	Determiners yamlWordList            `yaml:"determiners"`
	Indefinite  yamlWordList            `yaml:"indefinite"`
	Numbers     yamlWordList            `yaml:"numbers"`
	Stopwords   yamlWordList            `yaml:"stopwords"`
}

// Parse unmarshals rule tables from YAML.
func Parse(data []byte) (*Tables, error) {
	var yt yamlTables
	if err := yaml.Unmarshal(data, &yt); err != nil {
		return nil, fmt.Errorf("parse rule tables: %w", err)
	}

	res := &Tables{
		Language:    yt.Language,
		Pronouns:    make(map[string]PronounEntry, len(yt.Pronouns)),
		Aliases:     make(map[string]string, len(yt.Aliases)),
		Designators: make(map[string][]string, len(yt.Designators)),
		TypeHeads:   make(map[string][]string, len(yt.TypeHeads)),
		HeadGender:  make(map[string]string, len(yt.HeadGender)),
		Determiners: yt.Determiners.toWordList(),
		Indefinite:  yt.Indefinite.toWordList(),
		Numbers:     yt.Numbers.toWordList(),
		Stopwords:   yt.Stopwords.toWordList(),
	}
	for k, v := range yt.Pronouns {
		res.Pronouns[strings.ToLower(k)] = v
	}
	for k, v := range yt.Aliases {
		res.Aliases[strings.ToLower(k)] = strings.ToLower(v)
	}
	for k, v := range yt.Designators {
		res.Designators[strings.ToLower(k)] = v
	}
	for k, v := range yt.TypeHeads {
		res.TypeHeads[strings.ToUpper(k)] = v
	}
	for k, v := range yt.HeadGender {
		res.HeadGender[strings.ToLower(k)] = v
	}
	return res, nil
}

// Load returns unmarshalled rule tables from a YAML file at the given path.
func Load(path string) (*Tables, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not find rule tables at %v", path))
		return nil, err
	}

	res, err := Parse(bytes)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not load rule tables from %v", path))
		return nil, err
	}

	log.Info().Str("language", res.Language).Msg(fmt.Sprintf("rule tables set from %v", path))
	return res, nil
}
