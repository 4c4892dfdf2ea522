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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v2"
)

// Outcomes of the binary link classifiers.
const (
	Link   = "link"
	NoLink = "nolink"
)

// Maxent is a log-linear classifier over binary features.
type Maxent struct {
	Name     string
	Outcomes []string
	weights  map[string]map[string]float64
}

type yamlMaxent struct {
	Name     string                        `yaml:"name"`
	Outcomes []string                      `yaml:"outcomes"`
	Weights  map[string]map[string]float64 `yaml:"weights"`
}

func NewMaxent(name string, outcomes []string, weights map[string]map[string]float64) (*Maxent, error) {
	if len(outcomes) < 2 {
		return nil, fmt.Errorf("%w: classifier %s needs at least two outcomes", ErrMalformed, name)
	}
	known := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		known[o] = true
	}
	for feature, row := range weights {
		for o, w := range row {
			if !known[o] {
				return nil, fmt.Errorf("%w: classifier %s: feature %q weights unknown outcome %q", ErrMalformed, name, feature, o)
			}
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("%w: classifier %s: feature %q has weight %v", ErrMalformed, name, feature, w)
			}
		}
	}
	return &Maxent{Name: name, Outcomes: outcomes, weights: weights}, nil
}

func ParseMaxent(data []byte) (*Maxent, error) {
	var ym yamlMaxent
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ym.Name == "" {
		return nil, fmt.Errorf("%w: classifier without a name", ErrMalformed)
	}
	return NewMaxent(ym.Name, ym.Outcomes, ym.Weights)
}

// Distribution returns the probability of each outcome given the active
// features, in the order of m.Outcomes. Unknown features are ignored.
func (m *Maxent) Distribution(features []string) []float64 {
	logits := make([]float64, len(m.Outcomes))
	for _, f := range features {
		row, ok := m.weights[f]
		if !ok {
			continue
		}
		for i, o := range m.Outcomes {
			logits[i] += row[o]
		}
	}
	norm := floats.LogSumExp(logits)
	for i := range logits {
		logits[i] = math.Exp(logits[i] - norm)
	}
	return logits
}

// Prob returns the probability of one outcome, zero for unknown outcomes.
func (m *Maxent) Prob(features []string, outcome string) float64 {
	dist := m.Distribution(features)
	for i, o := range m.Outcomes {
		if o == outcome {
			return dist[i]
		}
	}
	return 0
}
