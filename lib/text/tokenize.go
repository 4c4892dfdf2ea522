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
	"github.com/blevesearch/segment"
)

const NonAlphaNumericChar = segment.None

/**
	Words splits a surface token into its word units using unicode word
	segmentation, dropping whitespace and punctuation segments.

	Upstream tokenisers sometimes keep "Acme-Corp" or "U.S.-based" as a single token;
	the lexical models count words, so these have to be split the same way at
	learning and at estimation time.
**/
func Words(token string) []string {
	segmenter := segment.NewWordSegmenterDirect([]byte(token))

	var words []string
	for segmenter.Segment() {
		if segmenter.Type() == NonAlphaNumericChar {
			continue
		}
		words = append(words, string(segmenter.Bytes()))
	}
	return words
}

// SplitAll applies Words to every token and concatenates the results.
func SplitAll(tokens []string) []string {
	res := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		res = append(res, Words(tok)...)
	}
	return res
}
