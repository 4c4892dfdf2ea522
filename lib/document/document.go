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

// Package document is the read-only mention graph handed to the linking core:
// sentences with parse trees and typed mentions.
package document

import (
	"fmt"
	"sort"
)

type Sentence struct {
	Index    int
	Tokens   []string
	Root     *Node
	Mentions []MentionID
	// Speaker is the label of the conversational turn the sentence belongs to.
	Speaker string
	// SpeakerTag marks a sentence that only names the speaker of the next turn.
	SpeakerTag bool
}

type Document struct {
	ID        string
	Sentences []*Sentence
	// PreLinks are groups of mentions an upstream annotation forces into one entity.
	PreLinks [][]MentionID

	mentions []*Mention
	order    []*Mention
}

func (d *Document) Mention(id MentionID) (*Mention, bool) {
	if id < 0 || int(id) >= len(d.mentions) {
		return nil, false
	}
	return d.mentions[id], true
}

func (d *Document) MentionCount() int {
	return len(d.mentions)
}

// Mentions returns every mention in document order: by sentence, then by start
// offset, outer spans before the spans they contain.
func (d *Document) Mentions() []*Mention {
	return d.order
}

// MentionAt returns the mention backed by the node, if any.
func (d *Document) MentionAt(n *Node) (*Mention, bool) {
	if n == nil || !n.HasMention() {
		return nil, false
	}
	return d.Mention(n.Mention)
}

// Children follows the Child/Next chain of m.
func (d *Document) Children(m *Mention) []*Mention {
	var res []*Mention
	seen := map[MentionID]bool{}
	for id := m.Child; id != NoMention && !seen[id]; {
		seen[id] = true
		c, ok := d.Mention(id)
		if !ok {
			break
		}
		res = append(res, c)
		id = c.Next
	}
	return res
}

// Before reports whether a precedes b in document order.
func (d *Document) Before(a, b *Mention) bool {
	return lessMention(a, b)
}

/**
	Validate checks the mention graph for structural inconsistencies:

	- every mention has an entity type and a backing node in its sentence
	- every node that names a mention is backed by that mention
	- parent, child and next links point at existing mentions and agree with each other
	- pre-link groups reference existing mentions

	The first problem found is returned as a *StructuralError.
**/
func (d *Document) Validate() error {
	for _, m := range d.mentions {
		if m.Type == TypeNone {
			return structural(d.ID, m.ID, "mention has no entity type")
		}
		if m.Sentence < 0 || m.Sentence >= len(d.Sentences) {
			return structural(d.ID, m.ID, "sentence %d out of range", m.Sentence)
		}
		if m.Node == nil {
			return structural(d.ID, m.ID, "mention has no syntactic node")
		}
		if m.Node.Mention != m.ID {
			return structural(d.ID, m.ID, "node is backed by mention %d", m.Node.Mention)
		}
		if m.Node.Root() != d.Sentences[m.Sentence].Root {
			return structural(d.ID, m.ID, "node is not in sentence %d", m.Sentence)
		}
		if m.Parent != NoMention {
			p, ok := d.Mention(m.Parent)
			if !ok {
				return structural(d.ID, m.ID, "parent mention %d does not exist", m.Parent)
			}
			if !containsMention(d.Children(p), m.ID) {
				return structural(d.ID, m.ID, "not listed among the children of parent %d", p.ID)
			}
			if d.inParentCycle(m) {
				return structural(d.ID, m.ID, "parent cycle")
			}
		}
		for _, c := range d.Children(m) {
			if c.Parent != m.ID {
				return structural(d.ID, c.ID, "child of %d without matching parent link", m.ID)
			}
		}
		if m.Child != NoMention {
			if _, ok := d.Mention(m.Child); !ok {
				return structural(d.ID, m.ID, "child mention %d does not exist", m.Child)
			}
		}
		if m.Next != NoMention {
			if _, ok := d.Mention(m.Next); !ok {
				return structural(d.ID, m.ID, "next mention %d does not exist", m.Next)
			}
		}
	}

	for _, s := range d.Sentences {
		if s.Root == nil {
			return structural(d.ID, NoMention, "sentence %d has no parse", s.Index)
		}
		if err := d.validateNodes(s.Root); err != nil {
			return err
		}
	}

	for _, group := range d.PreLinks {
		for _, id := range group {
			if _, ok := d.Mention(id); !ok {
				return structural(d.ID, id, "pre-linked mention does not exist")
			}
		}
	}
	return nil
}

// inParentCycle reports whether following parent links from m leads back to m.
func (d *Document) inParentCycle(m *Mention) bool {
	seen := map[MentionID]bool{}
	for id := m.Parent; id != NoMention; {
		if id == m.ID {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		p, ok := d.Mention(id)
		if !ok {
			return false
		}
		id = p.Parent
	}
	return false
}

func (d *Document) validateNodes(n *Node) error {
	if n.HasMention() {
		m, ok := d.Mention(n.Mention)
		if !ok || m.Node != n {
			return structural(d.ID, n.Mention, "node without backing mention")
		}
	}
	for _, c := range n.Children {
		if err := d.validateNodes(c); err != nil {
			return err
		}
	}
	return nil
}

func containsMention(ms []*Mention, id MentionID) bool {
	for _, m := range ms {
		if m.ID == id {
			return true
		}
	}
	return false
}

func lessMention(a, b *Mention) bool {
	if a.Sentence != b.Sentence {
		return a.Sentence < b.Sentence
	}
	if a.Node != nil && b.Node != nil {
		if a.Node.Start != b.Node.Start {
			return a.Node.Start < b.Node.Start
		}
		if a.Node.End != b.Node.End {
			return a.Node.End > b.Node.End
		}
	}
	return a.ID < b.ID
}

// Builder assembles a Document from parses and mention spans.
type Builder struct {
	doc *Document
}

func NewBuilder(id string) *Builder {
	return &Builder{doc: &Document{ID: id}}
}

// AddSentence parses a bracketed tree and appends it as the next sentence.
func (b *Builder) AddSentence(parse string) (int, error) {
	root, err := ParseTree(parse)
	if err != nil {
		return -1, fmt.Errorf("sentence %d: %w: %w", len(b.doc.Sentences), ErrParse, err)
	}
	idx := len(b.doc.Sentences)
	b.doc.Sentences = append(b.doc.Sentences, &Sentence{
		Index:  idx,
		Tokens: root.Words(),
		Root:   root,
	})
	return idx, nil
}

// SetSpeaker attributes a sentence to a speaker, or marks it as a speaker tag.
func (b *Builder) SetSpeaker(sentence int, speaker string, tag bool) {
	s := b.doc.Sentences[sentence]
	s.Speaker = speaker
	s.SpeakerTag = tag
}

// AddMention attaches a mention to the highest node spanning tokens [start, end).
func (b *Builder) AddMention(sentence, start, end int, kind Kind, typ EntityType) (*Mention, error) {
	if sentence < 0 || sentence >= len(b.doc.Sentences) {
		return nil, structural(b.doc.ID, NoMention, "sentence %d out of range", sentence)
	}
	node := b.doc.Sentences[sentence].Root.FindSpan(start, end)
	if node == nil {
		return nil, structural(b.doc.ID, NoMention, "no constituent spans tokens [%d,%d) of sentence %d", start, end, sentence)
	}
	if node.HasMention() {
		return nil, structural(b.doc.ID, node.Mention, "tokens [%d,%d) of sentence %d already carry a mention", start, end, sentence)
	}
	m := &Mention{
		ID:       MentionID(len(b.doc.mentions)),
		Sentence: sentence,
		Node:     node,
		Kind:     kind,
		Type:     typ,
		Parent:   NoMention,
		Child:    NoMention,
		Next:     NoMention,
	}
	node.Mention = m.ID
	b.doc.mentions = append(b.doc.mentions, m)
	return m, nil
}

func (b *Builder) SetParent(child, parent MentionID) error {
	c, ok := b.doc.Mention(child)
	if !ok {
		return structural(b.doc.ID, child, "mention does not exist")
	}
	if _, ok := b.doc.Mention(parent); !ok {
		return structural(b.doc.ID, parent, "parent mention does not exist")
	}
	c.Parent = parent
	return nil
}

func (b *Builder) AddPreLink(ids ...MentionID) {
	b.doc.PreLinks = append(b.doc.PreLinks, ids)
}

// Build derives child and sibling links from parent links and fixes document
// order. It does not validate; resolution validates before linking.
func (b *Builder) Build() *Document {
	d := b.doc

	d.order = make([]*Mention, len(d.mentions))
	copy(d.order, d.mentions)
	sort.SliceStable(d.order, func(i, j int) bool {
		return lessMention(d.order[i], d.order[j])
	})

	children := map[MentionID][]*Mention{}
	for _, m := range d.order {
		if m.Parent != NoMention {
			children[m.Parent] = append(children[m.Parent], m)
		}
	}
	for parent, cs := range children {
		p, _ := d.Mention(parent)
		p.Child = cs[0].ID
		for i := 0; i < len(cs)-1; i++ {
			cs[i].Next = cs[i+1].ID
		}
	}

	for _, s := range d.Sentences {
		s.Mentions = s.Mentions[:0]
	}
	for _, m := range d.order {
		s := d.Sentences[m.Sentence]
		s.Mentions = append(s.Mentions, m.ID)
	}
	return d
}
