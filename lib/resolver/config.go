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

package resolver

import (
	"fmt"
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
)

const (
	PronounProbabilistic  = "probabilistic"
	PronounDiscriminative = "discriminative"

	DescriptorRule   = "rule"
	DescriptorMaxent = "maxent"

	NameStatistical = "statistical"
	NameRule        = "rule"
)

type Config struct {
	PronounLinkMode string `mapstructure:"pronoun_link_mode" json:"pronoun_link_mode"`
	DescLinkMode    string `mapstructure:"desc_link_mode" json:"desc_link_mode"`
	NameLinkMode    string `mapstructure:"name_link_mode" json:"name_link_mode"`
	// NameRules layers vetoes and forced matches over the statistical name linker.
	NameRules bool `mapstructure:"name_rules" json:"name_rules"`
	// LinkThreshold is a percentage.
	LinkThreshold           float64            `mapstructure:"link_threshold" json:"link_threshold"`
	BeamWidth               int                `mapstructure:"beam_width" json:"beam_width"`
	MaxBranches             int                `mapstructure:"max_branches" json:"max_branches"`
	DiscardPronouns         bool               `mapstructure:"discard_pronouns" json:"discard_pronouns"`
	SimpleCorefTypes        []string           `mapstructure:"simple_coref_types" json:"simple_coref_types"`
	CreatePartitiveEntities bool               `mapstructure:"create_partitive_entities" json:"create_partitive_entities"`
	AntecedentWindow        int                `mapstructure:"antecedent_window" json:"antecedent_window"`
	MaxAntecedents          int                `mapstructure:"max_antecedents" json:"max_antecedents"`
	UnboundedSearch         bool               `mapstructure:"unbounded_search" json:"unbounded_search"`
	FuzzyEditDistance       int                `mapstructure:"fuzzy_edit_distance" json:"fuzzy_edit_distance"`
	UnseenWeights           map[string]float64 `mapstructure:"unseen_weights" json:"unseen_weights"`
	Language                string             `mapstructure:"language" json:"language"`
	// Parallelism bounds how many beam leaves are expanded at once.
	Parallelism int `mapstructure:"parallelism" json:"parallelism"`
}

func DefaultConfig() Config {
	return Config{
		PronounLinkMode:   PronounProbabilistic,
		DescLinkMode:      DescriptorRule,
		NameLinkMode:      NameStatistical,
		NameRules:         true,
		LinkThreshold:     50,
		BeamWidth:         1,
		MaxBranches:       3,
		AntecedentWindow:  3,
		MaxAntecedents:    10,
		FuzzyEditDistance: 1,
		UnseenWeights: map[string]float64{
			"PER": 1.0,
			"ORG": 1.5,
			"GPE": 0.5,
		},
		Language:    "en",
		Parallelism: 1,
	}
}

// Defaults flattens DefaultConfig into viper keys under prefix.
func Defaults(prefix string) map[string]interface{} {
	c := DefaultConfig()
	key := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	return map[string]interface{}{
		key("pronoun_link_mode"):         c.PronounLinkMode,
		key("desc_link_mode"):            c.DescLinkMode,
		key("name_link_mode"):            c.NameLinkMode,
		key("name_rules"):                c.NameRules,
		key("link_threshold"):            c.LinkThreshold,
		key("beam_width"):                c.BeamWidth,
		key("max_branches"):              c.MaxBranches,
		key("discard_pronouns"):          c.DiscardPronouns,
		key("simple_coref_types"):        c.SimpleCorefTypes,
		key("create_partitive_entities"): c.CreatePartitiveEntities,
		key("antecedent_window"):         c.AntecedentWindow,
		key("max_antecedents"):           c.MaxAntecedents,
		key("unbounded_search"):          c.UnboundedSearch,
		key("fuzzy_edit_distance"):       c.FuzzyEditDistance,
		key("unseen_weights"):            c.UnseenWeights,
		key("language"):                  c.Language,
		key("parallelism"):               c.Parallelism,
	}
}

// ConfigError reports a configuration value outside its recognised set or range.
type ConfigError struct {
	Key    string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s=%v: %s", e.Key, e.Value, e.Reason)
}

var linkableTypes = map[document.EntityType]bool{
	document.TypePER: true,
	document.TypeORG: true,
	document.TypeGPE: true,
	document.TypeLOC: true,
	document.TypeFAC: true,
	document.TypeVEH: true,
	document.TypeWEA: true,
}

var languages = map[string]bool{"en": true}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ConfigError{Key: key, Value: value, Reason: "must be one of " + strings.Join(allowed, ", ")}
}

func atLeast(key string, value, min int) error {
	if value < min {
		return &ConfigError{Key: key, Value: value, Reason: fmt.Sprintf("must be at least %d", min)}
	}
	return nil
}

// Validate returns a *ConfigError for the first bad value.
func (c Config) Validate() error {
	checks := []error{
		oneOf("pronoun_link_mode", c.PronounLinkMode, PronounProbabilistic, PronounDiscriminative),
		oneOf("desc_link_mode", c.DescLinkMode, DescriptorRule, DescriptorMaxent),
		oneOf("name_link_mode", c.NameLinkMode, NameStatistical, NameRule),
		atLeast("beam_width", c.BeamWidth, 1),
		atLeast("max_branches", c.MaxBranches, 1),
		atLeast("antecedent_window", c.AntecedentWindow, 0),
		atLeast("max_antecedents", c.MaxAntecedents, 1),
		atLeast("fuzzy_edit_distance", c.FuzzyEditDistance, 0),
		atLeast("parallelism", c.Parallelism, 1),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if c.LinkThreshold < 0 || c.LinkThreshold > 100 {
		return &ConfigError{Key: "link_threshold", Value: c.LinkThreshold, Reason: "must be between 0 and 100"}
	}
	if !languages[c.Language] {
		return &ConfigError{Key: "language", Value: c.Language, Reason: "unsupported language"}
	}
	for _, t := range c.SimpleCorefTypes {
		if !linkableTypes[document.EntityType(strings.ToUpper(t))] {
			return &ConfigError{Key: "simple_coref_types", Value: t, Reason: "not a linkable entity type"}
		}
	}
	for t, w := range c.UnseenWeights {
		if !linkableTypes[document.EntityType(strings.ToUpper(t))] {
			return &ConfigError{Key: "unseen_weights", Value: t, Reason: "not a linkable entity type"}
		}
		if w <= 0 {
			return &ConfigError{Key: "unseen_weights." + t, Value: w, Reason: "must be positive"}
		}
	}
	return nil
}

func (c Config) simpleTypes() map[document.EntityType]bool {
	res := make(map[document.EntityType]bool, len(c.SimpleCorefTypes))
	for _, t := range c.SimpleCorefTypes {
		res[document.EntityType(strings.ToUpper(t))] = true
	}
	return res
}

func (c Config) unseenWeights() map[document.EntityType]float64 {
	res := make(map[document.EntityType]float64, len(c.UnseenWeights))
	for t, w := range c.UnseenWeights {
		res[document.EntityType(strings.ToUpper(t))] = w
	}
	return res
}
