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
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var TokenDelimiters = map[byte]struct{}{
	'(':  {},
	')':  {},
	'{':  {},
	'}':  {},
	'[':  {},
	']':  {},
	'"':  {},
	'\'': {},
	':':  {},
	';':  {},
	',':  {},
	'.':  {},
	'?':  {},
	'!':  {},
}

func IsTokenDelimiter(b byte) bool {
	_, ok := TokenDelimiters[b]
	return ok
}

// Canonical returns the form of a word used as a key in lexical statistics:
// NFKC normalised, lower cased, with enclosing delimiters removed. Every
// component that counts or compares name words must go through this function.
func Canonical(token string) string {
	for len(token) > 0 && IsTokenDelimiter(token[0]) {
		token = token[1:]
	}
	for len(token) > 0 && IsTokenDelimiter(token[len(token)-1]) {
		token = token[:len(token)-1]
	}
	if token == "" {
		return ""
	}

	token = norm.NFKC.String(token)
	return strings.ToLower(token)
}

// CanonicalAll canonicalises each token, dropping those that normalise to nothing.
func CanonicalAll(tokens []string) []string {
	res := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if c := Canonical(tok); c != "" {
			res = append(res, c)
		}
	}
	return res
}

// IsCapitalized reports whether the first rune of token is upper case.
func IsCapitalized(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsUpper(r)
}
