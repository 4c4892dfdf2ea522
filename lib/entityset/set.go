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

// Package entityset holds one hypothesis of the document's mention to entity
// assignment. Sets fork cheaply: entity records are shared between a set and
// its forks until one side writes, at which point the writer takes a private
// copy of that entity and its lexical model.
package entityset

import (
	"errors"
	"fmt"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/lexical"
)

type EntityID int

const NoEntity EntityID = -1

var (
	ErrAssigned     = errors.New("mention already assigned")
	ErrUnknown      = errors.New("unknown entity or mention")
	ErrTypeConflict = errors.New("entity type conflict")
)

// Entity is a read-only view; Mentions is a copy.
type Entity struct {
	ID       EntityID
	Type     document.EntityType
	Generic  bool
	Speaker  string
	Mentions []document.MentionID
}

// owner tags the set allowed to write a cell in place.
type owner struct{}

type cell struct {
	owner    *owner
	id       EntityID
	typ      document.EntityType
	generic  bool
	speaker  string
	mentions []document.MentionID
	lex      *lexical.Entity
}

type slot struct {
	entity EntityID
	typ    document.EntityType
}

type Set struct {
	owner    *owner
	ctx      *lexical.Context
	entities []*cell
	slots    []slot
	score    float64
}

// New returns an empty set for a document with mentionCount mentions. ctx may
// be nil when no lexical models are needed.
func New(ctx *lexical.Context, mentionCount int) *Set {
	slots := make([]slot, mentionCount)
	for i := range slots {
		slots[i] = slot{entity: NoEntity}
	}
	return &Set{owner: new(owner), ctx: ctx, slots: slots}
}

// Fork returns an independent copy. Neither set observes later writes to the other.
func (s *Set) Fork() *Set {
	// Both sides lose write access to the shared cells.
	s.owner = new(owner)

	entities := make([]*cell, len(s.entities))
	copy(entities, s.entities)
	slots := make([]slot, len(s.slots))
	copy(slots, s.slots)
	return &Set{
		owner:    new(owner),
		ctx:      s.ctx,
		entities: entities,
		slots:    slots,
		score:    s.score,
	}
}

func (s *Set) writable(id EntityID) *cell {
	c := s.entities[id]
	if c.owner == s.owner {
		return c
	}
	clone := *c
	clone.owner = s.owner
	clone.mentions = make([]document.MentionID, len(c.mentions), len(c.mentions)+1)
	copy(clone.mentions, c.mentions)
	if c.lex != nil {
		clone.lex = c.lex.Clone()
	}
	s.entities[id] = &clone
	return &clone
}

func (s *Set) checkMention(m document.MentionID) error {
	if m < 0 || int(m) >= len(s.slots) {
		return fmt.Errorf("%w: mention %d", ErrUnknown, m)
	}
	if s.slots[m].entity != NoEntity {
		return fmt.Errorf("%w: mention %d is in entity %d", ErrAssigned, m, s.slots[m].entity)
	}
	return nil
}

// AddNew creates an entity of type t holding only mention m.
func (s *Set) AddNew(m document.MentionID, t document.EntityType, generic bool) (EntityID, error) {
	if err := s.checkMention(m); err != nil {
		return NoEntity, err
	}
	if t == document.TypeNone {
		return NoEntity, fmt.Errorf("%w: mention %d has no type", ErrTypeConflict, m)
	}
	id := EntityID(len(s.entities))
	c := &cell{
		owner:    s.owner,
		id:       id,
		typ:      t,
		generic:  generic,
		mentions: []document.MentionID{m},
	}
	if s.ctx != nil {
		c.lex = lexical.NewEntity(s.ctx, t)
	}
	s.entities = append(s.entities, c)
	s.slots[m] = slot{entity: id, typ: t}
	return id, nil
}

/**
	Add appends mention m, of upstream type t, to entity id.

	An undetermined side takes the type of the determined side: an UNDET entity
	is narrowed to t and an UNDET mention takes the entity's type. Two different
	determined types are a conflict and nothing changes.
**/
func (s *Set) Add(m document.MentionID, id EntityID, t document.EntityType) error {
	if err := s.checkMention(m); err != nil {
		return err
	}
	if id < 0 || int(id) >= len(s.entities) {
		return fmt.Errorf("%w: entity %d", ErrUnknown, id)
	}
	et := s.entities[id].typ
	if t.IsDetermined() && et.IsDetermined() && t != et {
		return fmt.Errorf("%w: mention %d of type %s, entity %d of type %s", ErrTypeConflict, m, t, id, et)
	}

	c := s.writable(id)
	if !c.typ.IsDetermined() && t.IsDetermined() {
		c.typ = t
		if c.lex != nil {
			c.lex.Retype(t)
		}
		for _, other := range c.mentions {
			s.slots[other].typ = t
		}
	}
	c.mentions = append(c.mentions, m)
	s.slots[m] = slot{entity: id, typ: c.typ}
	return nil
}

// Learn folds the words of a committed name into the entity's lexical model.
func (s *Set) Learn(id EntityID, words []string) {
	if id < 0 || int(id) >= len(s.entities) || s.entities[id].lex == nil {
		return
	}
	s.writable(id).lex.Learn(words)
}

// Lex returns the entity's lexical model for scoring. Callers must not mutate it.
func (s *Set) Lex(id EntityID) *lexical.Entity {
	if id < 0 || int(id) >= len(s.entities) {
		return nil
	}
	return s.entities[id].lex
}

func (s *Set) EntityByMention(m document.MentionID) (EntityID, bool) {
	if m < 0 || int(m) >= len(s.slots) || s.slots[m].entity == NoEntity {
		return NoEntity, false
	}
	return s.slots[m].entity, true
}

// MentionType returns the type committed for m, TypeNone if m is unassigned.
func (s *Set) MentionType(m document.MentionID) document.EntityType {
	if m < 0 || int(m) >= len(s.slots) {
		return document.TypeNone
	}
	return s.slots[m].typ
}

func (s *Set) Entity(id EntityID) (Entity, bool) {
	if id < 0 || int(id) >= len(s.entities) {
		return Entity{}, false
	}
	c := s.entities[id]
	mentions := make([]document.MentionID, len(c.mentions))
	copy(mentions, c.mentions)
	return Entity{
		ID:       c.id,
		Type:     c.typ,
		Generic:  c.generic,
		Speaker:  c.speaker,
		Mentions: mentions,
	}, true
}

// Entities returns every entity in creation order.
func (s *Set) Entities() []Entity {
	res := make([]Entity, 0, len(s.entities))
	for i := range s.entities {
		e, _ := s.Entity(EntityID(i))
		res = append(res, e)
	}
	return res
}

func (s *Set) EntityCount() int {
	return len(s.entities)
}

// EntitiesByType lists the ids of entities of type t in creation order.
func (s *Set) EntitiesByType(t document.EntityType) []EntityID {
	var res []EntityID
	for _, c := range s.entities {
		if c.typ == t {
			res = append(res, c.id)
		}
	}
	return res
}

func (s *Set) CountByType(t document.EntityType) int {
	n := 0
	for _, c := range s.entities {
		if c.typ == t {
			n++
		}
	}
	return n
}

// MarkSpeaker records that the entity stands for a conversational speaker.
func (s *Set) MarkSpeaker(id EntityID, speaker string) {
	if id < 0 || int(id) >= len(s.entities) {
		return
	}
	s.writable(id).speaker = speaker
}

func (s *Set) IsSpeaker(id EntityID) bool {
	return id >= 0 && int(id) < len(s.entities) && s.entities[id].speaker != ""
}

// SpeakerEntity finds the entity marked for speaker.
func (s *Set) SpeakerEntity(speaker string) (EntityID, bool) {
	if speaker == "" {
		return NoEntity, false
	}
	for _, c := range s.entities {
		if c.speaker == speaker {
			return c.id, true
		}
	}
	return NoEntity, false
}

func (s *Set) Score() float64 {
	return s.score
}

func (s *Set) AddScore(delta float64) {
	s.score += delta
}

func (s *Set) MentionCount() int {
	return len(s.slots)
}

// Unassigned lists mentions with no entity, in id order.
func (s *Set) Unassigned() []document.MentionID {
	var res []document.MentionID
	for i, sl := range s.slots {
		if sl.entity == NoEntity {
			res = append(res, document.MentionID(i))
		}
	}
	return res
}
