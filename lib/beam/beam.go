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

// Package beam keeps the best scoring entity sets while a document is
// linked one mention at a time.
package beam

import (
	"errors"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/linker"
)

var ErrWidth = errors.New("beam width must be positive")

// Expander returns the branches of one live set. It must not write the set it is given.
type Expander func(set *entityset.Set) ([]linker.Branch, error)

type Manager struct {
	width    int
	parallel int
	leaves   []*entityset.Set
}

// New starts a beam of the given width holding only initial.
func New(width int, initial *entityset.Set) (*Manager, error) {
	if width < 1 {
		return nil, ErrWidth
	}
	return &Manager{width: width, parallel: 1, leaves: []*entityset.Set{initial}}, nil
}

// SetParallelism bounds how many leaves are expanded at once.
func (m *Manager) SetParallelism(n int) {
	if n < 1 {
		n = 1
	}
	m.parallel = n
}

func (m *Manager) Width() int {
	return m.width
}

/**
	Step expands every live set, adds each branch's score to its set, and keeps
	the width best sets. Ties keep the order in which the branches were
	produced, leaf by leaf, so a step is deterministic whatever the
	parallelism. A leaf that yields no branches survives unchanged.
**/
func (m *Manager) Step(expand Expander) error {
	results := make([][]linker.Branch, len(m.leaves))

	var g errgroup.Group
	g.SetLimit(m.parallel)
	for i, leaf := range m.leaves {
		i, leaf := i, leaf
		g.Go(func() error {
			branches, err := expand(leaf)
			results[i] = branches
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var next []*entityset.Set
	for i, branches := range results {
		if len(branches) == 0 {
			log.Warn().Int("leaf", i).Msg("leaf produced no branches")
			next = append(next, m.leaves[i])
			continue
		}
		for _, b := range branches {
			b.Set.AddScore(b.Score)
			next = append(next, b.Set)
		}
	}

	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Score() > next[j].Score()
	})
	if len(next) > m.width {
		next = next[:m.width]
	}
	m.leaves = next
	return nil
}

// Apply runs fn on every live set in place.
func (m *Manager) Apply(fn func(set *entityset.Set) error) error {
	for _, leaf := range m.leaves {
		if err := fn(leaf); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns the live sets, best first.
func (m *Manager) Leaves() []*entityset.Set {
	res := make([]*entityset.Set, len(m.leaves))
	copy(res, m.leaves)
	return res
}

func (m *Manager) Best() *entityset.Set {
	return m.leaves[0]
}
