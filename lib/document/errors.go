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
	"errors"
	"fmt"
)

// ErrStructural is wrapped by every StructuralError.
var ErrStructural = errors.New("structural inconsistency")

// ErrParse is wrapped by errors from reading a bracketed parse.
var ErrParse = errors.New("malformed parse")

// StructuralError reports a malformed mention graph. It is fatal for the
// document being processed and is never retried.
type StructuralError struct {
	DocID   string
	Mention MentionID
	Reason  string
}

func (e *StructuralError) Error() string {
	if e.Mention == NoMention {
		return fmt.Sprintf("document %s: %v: %s", e.DocID, ErrStructural, e.Reason)
	}
	return fmt.Sprintf("document %s: mention %d: %v: %s", e.DocID, e.Mention, ErrStructural, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructural
}

func structural(doc string, id MentionID, format string, args ...interface{}) error {
	return &StructuralError{DocID: doc, Mention: id, Reason: fmt.Sprintf(format, args...)}
}
