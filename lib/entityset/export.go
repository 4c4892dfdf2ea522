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

package entityset

import (
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
)

type ExportedEntity struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Generic  bool   `json:"generic,omitempty"`
	Speaker  string `json:"speaker,omitempty"`
	Mentions []int  `json:"mentions"`
}

type Exported struct {
	DocumentID string           `json:"document_id,omitempty"`
	Score      float64          `json:"score"`
	Entities   []ExportedEntity `json:"entities"`
}

// Export renders the set for the rest of the pipeline. external maps internal
// mention ids onto the caller's ids; a nil map keeps internal ids.
func (s *Set) Export(docID string, external map[document.MentionID]int) Exported {
	res := Exported{
		DocumentID: docID,
		Score:      s.score,
		Entities:   make([]ExportedEntity, 0, len(s.entities)),
	}
	for _, e := range s.Entities() {
		mentions := make([]int, len(e.Mentions))
		for i, m := range e.Mentions {
			if id, ok := external[m]; ok {
				mentions[i] = id
			} else {
				mentions[i] = int(m)
			}
		}
		res.Entities = append(res.Entities, ExportedEntity{
			ID:       int(e.ID),
			Type:     string(e.Type),
			Generic:  e.Generic,
			Speaker:  e.Speaker,
			Mentions: mentions,
		})
	}
	return res
}
