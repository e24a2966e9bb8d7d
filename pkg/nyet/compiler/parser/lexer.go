// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"fmt"

	"github.com/consensys/go-nyet/pkg/util/collection/array"
	"github.com/consensys/go-nyet/pkg/util/source"
	"github.com/consensys/go-nyet/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace (other than line breaks)
const WHITESPACE uint = 1

// COMMENT signals "# ... \n"
const COMMENT uint = 2

// NEWLINE signals a line break, which terminates a statement.
const NEWLINE uint = 3

// IDENTIFIER signals a variable, function or label name
const IDENTIFIER uint = 4

// KEYWORD signals a reserved word
const KEYWORD uint = 5

// NUMBER signals an integer or floating-point number
const NUMBER uint = 6

// STRING signals a quoted string
const STRING uint = 7

// SYMBOL signals one of "(", ")", ",", "=" or ":"
const SYMBOL uint = 8

// UNTERMINATED signals a string with no closing quote
const UNTERMINATED uint = 9

// KEYWORDS identifies the set of reserved words.  These can never be used as
// identifiers.
var KEYWORDS = map[string]bool{
	"fn": true, "var": true, "push": true, "print": true, "pop": true, "add": true,
	"sub": true, "return": true, "jmp": true, "jz": true, "jnz": true, "true": true,
	"false": true, "null": true,
}

// Token is a lexical token, along with its text and the line on which it
// starts.
type Token struct {
	Kind uint
	// Text is exactly the characters of the source file covered by the token.
	Text string
	// Line on which this token starts, counting from 1.
	Line int
	// Span of this token within the original source file.
	Span source.Span
}

// Is checks whether this token has a given kind and text.
func (t Token) Is(kind uint, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Describe returns a human readable description of this token, as used in
// error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case END_OF:
		return "end of input"
	case NEWLINE:
		return "end of line"
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r')))

// Rule for describing numbers.  A number starts with a digit (or a '-'
// followed by a digit), and continues with any number of digits, '.' or '-'.
// Malformed numbers (e.g. "1..2") are only detected when they are emitted.
var (
	digit = lex.Within('0', '9')
	//
	number = lex.SequenceNullableLast(
		lex.Or(digit, lex.Sequence(lex.Unit('-'), digit)),
		lex.Many(lex.Or(digit, lex.Unit('.'), lex.Unit('-'))),
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Rule for describing strings in quotes.  There are no escape sequences.
var strung lex.Scanner[rune] = lex.Or(
	lex.Unit('"', '"'),
	lex.Sequence(lex.Unit('"'), lex.Many(lex.Not('"')), lex.Unit('"')))

// Rule for a string with no closing quote
var unterminated lex.Scanner[rune] = lex.And(lex.Unit('"'), lex.Rest[rune]())

// Comments start with '#' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.And(lex.Unit('#'), lex.Until('\n'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(strung, STRING),
	lex.Rule(unterminated, UNTERMINATED),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Or(lex.Unit('('), lex.Unit(')'), lex.Unit(','), lex.Unit('='), lex.Unit(':')), SYMBOL),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, terminated by
// an END_OF token, or produce a syntax error.  Whitespace and comments are
// discarded, and identifiers matching a reserved word become keywords.
func Lex(srcfile source.File) ([]Token, []source.SyntaxError) {
	var (
		contents = srcfile.Contents()
		lexer    = lex.NewLexer(contents, rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		msg := fmt.Sprintf("unknown character %q", contents[start])
		//
		return nil, []source.SyntaxError{*srcfile.SyntaxError(source.NewSpan(start, start+1), msg)}
	}
	// Check for runaway strings
	for _, t := range tokens {
		if t.Kind == UNTERMINATED {
			span := source.NewSpan(t.Span.Start(), t.Span.Start()+1)
			return nil, []source.SyntaxError{*srcfile.SyntaxError(span, "unterminated string")}
		}
	}
	// Remove any whitespace and comments
	tokens = array.RemoveMatching(tokens, func(t lex.Token) bool {
		return t.Kind == WHITESPACE || t.Kind == COMMENT
	})
	//
	return annotate(contents, tokens), nil
}

// Annotate raw tokens with their text and starting line, and identify keywords.
func annotate(contents []rune, tokens []lex.Token) []Token {
	var (
		ntokens = make([]Token, len(tokens))
		line    = 1
		index   = 0
	)
	//
	for i, t := range tokens {
		// Count line breaks up to the start of this token
		for ; index < t.Span.Start(); index++ {
			if contents[index] == '\n' {
				line++
			}
		}
		//
		text := string(contents[t.Span.Start():t.Span.End()])
		kind := t.Kind
		//
		if kind == IDENTIFIER && KEYWORDS[text] {
			kind = KEYWORD
		}
		//
		ntokens[i] = Token{kind, text, line, t.Span}
	}
	//
	return ntokens
}
