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

package document

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// JSONDocument is the wire form of a Document accepted by the binaries.
type JSONDocument struct {
	ID        string         `json:"id"`
	Sentences []JSONSentence `json:"sentences"`
	PreLinks  [][]int        `json:"prelinks,omitempty"`
}

type JSONSentence struct {
	Parse      string        `json:"parse"`
	Speaker    string        `json:"speaker,omitempty"`
	SpeakerTag bool          `json:"speaker_tag,omitempty"`
	Mentions   []JSONMention `json:"mentions"`
}

// JSONMention ids are chosen by the producer and only need to be unique within
// the document; they are remapped to dense MentionIDs.
type JSONMention struct {
	ID     int    `json:"id"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Kind   string `json:"kind"`
	Type   string `json:"type"`
	Gender string `json:"gender,omitempty"`
	Number string `json:"number,omitempty"`
	Parent *int   `json:"parent,omitempty"`
}

// Decode reads one JSON document. Documents without an id are given a random one.
func Decode(r io.Reader) (*Document, error) {
	var jd JSONDocument
	if err := json.NewDecoder(r).Decode(&jd); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return FromJSON(jd)
}

func FromJSON(jd JSONDocument) (*Document, error) {
	if jd.ID == "" {
		jd.ID = uuid.New().String()
	}
	b := NewBuilder(jd.ID)
	ids := make(map[int]MentionID)

	for i, js := range jd.Sentences {
		idx, err := b.AddSentence(js.Parse)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", jd.ID, err)
		}
		b.SetSpeaker(idx, js.Speaker, js.SpeakerTag)

		for _, jm := range js.Mentions {
			if _, dup := ids[jm.ID]; dup {
				return nil, structural(jd.ID, NoMention, "duplicate mention id %d in sentence %d", jm.ID, i)
			}
			kind, err := ParseKind(jm.Kind)
			if err != nil {
				return nil, structural(jd.ID, NoMention, "mention %d: %v", jm.ID, err)
			}
			m, err := b.AddMention(idx, jm.Start, jm.End, kind, ParseEntityType(jm.Type))
			if err != nil {
				return nil, err
			}
			m.Gender = ParseGender(jm.Gender)
			m.Number = ParseNumber(jm.Number)
			ids[jm.ID] = m.ID
		}
	}

	for _, js := range jd.Sentences {
		for _, jm := range js.Mentions {
			if jm.Parent == nil {
				continue
			}
			parent, ok := ids[*jm.Parent]
			if !ok {
				return nil, structural(jd.ID, ids[jm.ID], "parent mention %d does not exist", *jm.Parent)
			}
			if err := b.SetParent(ids[jm.ID], parent); err != nil {
				return nil, err
			}
		}
	}

	for _, group := range jd.PreLinks {
		linked := make([]MentionID, 0, len(group))
		for _, id := range group {
			mid, ok := ids[id]
			if !ok {
				return nil, structural(jd.ID, NoMention, "pre-linked mention %d does not exist", id)
			}
			linked = append(linked, mid)
		}
		b.AddPreLink(linked...)
	}

	return b.Build(), nil
}

// ExternalIDs maps dense MentionIDs back to the ids used in jd.
func ExternalIDs(jd JSONDocument) map[MentionID]int {
	res := make(map[MentionID]int)
	next := MentionID(0)
	for _, js := range jd.Sentences {
		for _, jm := range js.Mentions {
			res[next] = jm.ID
			next++
		}
	}
	return res
}
