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
	"strings"
	"unicode"
)

// Node is a constituent in a sentence's parse tree. Terminals carry a Word and
// no children. Start and End are token offsets, End exclusive.
type Node struct {
	Label    string
	Word     string
	Children []*Node
	Parent   *Node
	// Head indexes Children; -1 when the parser did not mark one.
	Head    int
	Start   int
	End     int
	Mention MentionID
}

func (n *Node) IsTerminal() bool {
	return len(n.Children) == 0
}

func (n *Node) IsPreterminal() bool {
	return len(n.Children) == 1 && n.Children[0].IsTerminal()
}

// Words returns the terminal words dominated by n, left to right.
func (n *Node) Words() []string {
	if n.IsTerminal() {
		return []string{n.Word}
	}
	var words []string
	for _, c := range n.Children {
		words = append(words, c.Words()...)
	}
	return words
}

// Preterminals returns the part-of-speech nodes dominated by n.
func (n *Node) Preterminals() []*Node {
	if n.IsTerminal() {
		return nil
	}
	if n.IsPreterminal() {
		return []*Node{n}
	}
	var res []*Node
	for _, c := range n.Children {
		res = append(res, c.Preterminals()...)
	}
	return res
}

// Dominates is reflexive.
func (n *Node) Dominates(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// IndexInParent returns n's position among its parent's children, -1 at the root.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Root walks up to the top of the tree.
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

func (n *Node) HasMention() bool {
	return n.Mention != NoMention
}

// String renders the subtree in bracketed form.
func (n *Node) String() string {
	if n.IsTerminal() {
		return n.Word
	}
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Label)
	for _, c := range n.Children {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// FindSpan returns the highest node whose token span is exactly [start, end).
func (n *Node) FindSpan(start, end int) *Node {
	if n.Start == start && n.End == end && !n.IsTerminal() {
		return n
	}
	for _, c := range n.Children {
		if c.Start <= start && end <= c.End {
			return c.FindSpan(start, end)
		}
	}
	return nil
}

var errUnbalanced = errors.New("unbalanced brackets")

/**
	ParseTree reads a Penn Treebank style bracketed parse such as
	"(S (NP (NNP Acme) (NNP Corp)) (VP (VBD announced)))". A bare "(" wrapping
	the whole tree with no label is accepted and discarded.

	Token offsets are assigned to terminals left to right. A label may carry a
	head marker suffix "^" (e.g. "NN^") meaning "this child is the head of its parent".
**/
func ParseTree(s string) (*Node, error) {
	p := treeParser{tokens: lexTree(s)}
	root, err := p.parse(nil)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("trailing input after tree at token %d", p.pos)
	}
	if root.Label == "" && len(root.Children) == 1 {
		root = root.Children[0]
		root.Parent = nil
	}
	return root, nil
}

func lexTree(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

type treeParser struct {
	tokens []string
	pos    int
	word   int
}

func (p *treeParser) parse(parent *Node) (*Node, error) {
	if p.pos >= len(p.tokens) || p.tokens[p.pos] != "(" {
		return nil, errUnbalanced
	}
	p.pos++

	n := &Node{Parent: parent, Head: -1, Mention: NoMention, Start: p.word}
	if p.pos < len(p.tokens) && p.tokens[p.pos] != "(" && p.tokens[p.pos] != ")" {
		n.Label = p.tokens[p.pos]
		p.pos++
	}
	isHead := strings.HasSuffix(n.Label, "^") && len(n.Label) > 1
	n.Label = strings.TrimSuffix(n.Label, "^")

	for p.pos < len(p.tokens) && p.tokens[p.pos] != ")" {
		if p.tokens[p.pos] == "(" {
			child, err := p.parse(n)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			continue
		}
		n.Children = append(n.Children, &Node{
			Word:    p.tokens[p.pos],
			Parent:  n,
			Head:    -1,
			Start:   p.word,
			End:     p.word + 1,
			Mention: NoMention,
		})
		p.word++
		p.pos++
	}
	if p.pos >= len(p.tokens) {
		return nil, errUnbalanced
	}
	p.pos++
	n.End = p.word

	if isHead && parent != nil {
		parent.Head = len(parent.Children)
	}
	return n, nil
}
