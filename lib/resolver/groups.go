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
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
)

// preLinks holds the mentions that must share an entity: upstream pre-link
// annotations and appositives with their parts.
type preLinks struct {
	groups  [][]document.MentionID
	groupOf map[document.MentionID]int
}

type unionFind []int

func (u unionFind) find(i int) int {
	for u[i] != i {
		u[i] = u[u[i]]
		i = u[i]
	}
	return i
}

func (u unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// the lower id stays the root so groups come out in document order
	if rb < ra {
		ra, rb = rb, ra
	}
	u[rb] = ra
}

func buildPreLinks(doc *document.Document) preLinks {
	n := doc.MentionCount()
	u := make(unionFind, n)
	for i := range u {
		u[i] = i
	}
	for _, group := range doc.PreLinks {
		for i := 1; i < len(group); i++ {
			u.union(int(group[0]), int(group[i]))
		}
	}
	for _, m := range doc.Mentions() {
		if m.Kind != document.KindAppo {
			continue
		}
		for _, c := range doc.Children(m) {
			u.union(int(m.ID), int(c.ID))
		}
	}

	byRoot := map[int][]document.MentionID{}
	for i := 0; i < n; i++ {
		r := u.find(i)
		byRoot[r] = append(byRoot[r], document.MentionID(i))
	}

	res := preLinks{groupOf: map[document.MentionID]int{}}
	for _, members := range byRoot {
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			a, _ := doc.Mention(members[i])
			b, _ := doc.Mention(members[j])
			return doc.Before(a, b)
		})
		res.groups = append(res.groups, members)
	}
	sort.Slice(res.groups, func(i, j int) bool {
		return res.groups[i][0] < res.groups[j][0]
	})
	for gi, members := range res.groups {
		for _, m := range members {
			res.groupOf[m] = gi
		}
	}
	return res
}

// anchor returns the entity of the first assigned member of m's group.
func (p preLinks) anchor(set *entityset.Set, m document.MentionID) (entityset.EntityID, bool) {
	gi, ok := p.groupOf[m]
	if !ok {
		return entityset.NoEntity, false
	}
	for _, member := range p.groups[gi] {
		if id, ok := set.EntityByMention(member); ok {
			return id, true
		}
	}
	return entityset.NoEntity, false
}

/**
	apply joins every unassigned member of a group to the entity of the group's
	first assigned member. A member whose type conflicts with that entity is
	left for the linkers and logged.
**/
func (p preLinks) apply(doc *document.Document, set *entityset.Set) error {
	for _, members := range p.groups {
		target, ok := p.anchor(set, members[0])
		if !ok {
			continue
		}
		for _, id := range members {
			if existing, ok := set.EntityByMention(id); ok {
				if existing != target {
					log.Debug().Str("doc", doc.ID).Int("mention", int(id)).Msg("pre-linked mention already in another entity")
				}
				continue
			}
			m, _ := doc.Mention(id)
			err := set.Add(id, target, m.Type)
			if errors.Is(err, entityset.ErrTypeConflict) {
				log.Warn().Str("doc", doc.ID).Int("mention", int(id)).Err(err).Msg("pre-link ignored")
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
