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

	"gopkg.in/yaml.v2"
)

const defaultFloor = 1e-6

// Table is a conditional distribution P(outcome | history) estimated from
// counts. It is immutable once built and shared by every hypothesis.
type Table struct {
	Name  string
	floor float64

	counts   map[string]map[string]float64
	totals   map[string]float64
	marginal map[string]float64
	grand    float64
}

type yamlTable struct {
	Name      string                        `yaml:"name"`
	Floor     float64                       `yaml:"floor"`
	Histories map[string]map[string]float64 `yaml:"histories"`
}

// NewTable builds a table from raw counts indexed by history then outcome.
func NewTable(name string, floor float64, counts map[string]map[string]float64) (*Table, error) {
	if floor == 0 {
		floor = defaultFloor
	}
	if floor < 0 || floor >= 1 {
		return nil, fmt.Errorf("%w: table %s: floor %v outside (0,1)", ErrMalformed, name, floor)
	}

	t := &Table{
		Name:     name,
		floor:    floor,
		counts:   make(map[string]map[string]float64, len(counts)),
		totals:   make(map[string]float64, len(counts)),
		marginal: map[string]float64{},
	}
	for history, outcomes := range counts {
		row := make(map[string]float64, len(outcomes))
		for outcome, c := range outcomes {
			if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("%w: table %s: count %v for %q|%q", ErrMalformed, name, c, outcome, history)
			}
			if c == 0 {
				continue
			}
			row[outcome] = c
			t.totals[history] += c
			t.marginal[outcome] += c
			t.grand += c
		}
		t.counts[history] = row
	}
	return t, nil
}

// ParseTable reads a table from its YAML form.
func ParseTable(data []byte) (*Table, error) {
	var yt yamlTable
	if err := yaml.Unmarshal(data, &yt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if yt.Name == "" {
		return nil, fmt.Errorf("%w: table without a name", ErrMalformed)
	}
	return NewTable(yt.Name, yt.Floor, yt.Histories)
}

func (t *Table) base(outcome string) float64 {
	if t.grand == 0 {
		return t.floor
	}
	return math.Max(t.marginal[outcome]/t.grand, t.floor)
}

/**
	Prob returns the Witten-Bell smoothed estimate

		P(o|h) = (c(h,o) + T(h) * P0(o)) / (N(h) + T(h))

	where T(h) is the number of distinct outcomes seen after h, N(h) the count
	of h and P0 the outcome marginal, floored. Unseen histories back off to P0.
**/
func (t *Table) Prob(history, outcome string) float64 {
	row, ok := t.counts[history]
	if !ok || t.totals[history] == 0 {
		return t.base(outcome)
	}
	distinct := float64(len(row))
	p := (row[outcome] + distinct*t.base(outcome)) / (t.totals[history] + distinct)
	return math.Max(p, t.floor)
}

func (t *Table) LogProb(history, outcome string) float64 {
	return math.Log(t.Prob(history, outcome))
}

// Seen reports whether the history has any counts.
func (t *Table) Seen(history string) bool {
	return t.totals[history] > 0
}
