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

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	for _, test := range []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lower cases",
			input:    "Acme",
			expected: "acme",
		},
		{
			name:     "strips trailing period",
			input:    "Corp.",
			expected: "corp",
		},
		{
			name:     "strips enclosing quotes and brackets",
			input:    "(\"Acme\")",
			expected: "acme",
		},
		{
			name:     "NFKC folds compatibility characters",
			input:    "ﬁnance",
			expected: "finance",
		},
		{
			name:     "only delimiters",
			input:    "...",
			expected: "",
		},
	} {
		assert.Equal(t, test.expected, Canonical(test.input), test.name)
	}
}

func TestCanonicalAll(t *testing.T) {
	assert.Equal(t, []string{"acme", "corp"}, CanonicalAll([]string{"Acme", ",", "Corp."}))
}

func TestIsCapitalized(t *testing.T) {
	assert.True(t, IsCapitalized("Acme"))
	assert.False(t, IsCapitalized("acme"))
	assert.False(t, IsCapitalized("1999"))
	assert.False(t, IsCapitalized(""))
}

func TestWords(t *testing.T) {
	for _, test := range []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single word",
			input:    "Acme",
			expected: []string{"Acme"},
		},
		{
			name:     "hyphenated token is split",
			input:    "Acme-Corp",
			expected: []string{"Acme", "Corp"},
		},
		{
			name:     "punctuation only",
			input:    "--",
			expected: nil,
		},
	} {
		assert.Equal(t, test.expected, Words(test.input), test.name)
	}
}

func TestSplitAll(t *testing.T) {
	assert.Equal(t, []string{"New", "York", "Times"}, SplitAll([]string{"New-York", "Times"}))
}
