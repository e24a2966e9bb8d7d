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
package asm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/consensys/go-nyet/pkg/nyet/bytecode"
	"github.com/consensys/go-nyet/pkg/nyet/compiler/parser"
	"github.com/consensys/go-nyet/pkg/util/source"
)

// Assembly is the result of assembling a source file.
type Assembly struct {
	// Binary is the complete .NYET binary (header included).
	Binary []byte
	// Labels maps each label to its offset (excluding the header).
	Labels map[string]uint32
}

// Assemble a source file written in the line-oriented assembly language.  Each
// line holds at most one instruction (a mnemonic followed by its operand, if
// any) or one label declaration.  Unlike the compiler, nothing is emitted
// beyond what is written (e.g. no HALT is appended).
func Assemble(srcfile *source.File) (Assembly, []source.SyntaxError) {
	tokens, errs := parser.Lex(*srcfile)
	if len(errs) > 0 {
		return Assembly{}, errs
	}
	//
	assembler := &Assembler{srcfile, tokens, 0, bytecode.NewBuffer(), Environment{}}
	//
	return assembler.Assemble()
}

// Assembler converts a sequence of tokens into bytecode, one line at a time.
type Assembler struct {
	srcfile *source.File
	tokens  []parser.Token
	// Position within the tokens
	index  int
	buffer *bytecode.Buffer
	env    Environment
}

// Assemble all tokens, resolve labels and package the result.
func (p *Assembler) Assemble() (Assembly, []source.SyntaxError) {
	for p.lookahead().Kind != parser.END_OF {
		if p.match(parser.NEWLINE) {
			continue
		} else if errs := p.assembleLine(); len(errs) > 0 {
			return Assembly{}, errs
		}
	}
	// Resolve labels
	labels := p.env.Labels()
	//
	for _, fixup := range p.env.fixups {
		label := p.env.labels[fixup.label]
		//
		if label.offset == math.MaxUint32 {
			return Assembly{}, p.syntaxErrors(fixup.token, fmt.Sprintf("undefined label %q", label.name))
		}
		//
		p.buffer.Patch(fixup.position, label.offset)
	}
	//
	return Assembly{bytecode.Package(p.buffer.Bytes()), labels}, nil
}

func (p *Assembler) assembleLine() []source.SyntaxError {
	var (
		token = p.lookahead()
		errs  []source.SyntaxError
	)
	//
	if token.Kind != parser.IDENTIFIER && token.Kind != parser.KEYWORD {
		return p.syntaxErrors(token, fmt.Sprintf("expected instruction, found %s", token.Describe()))
	}
	//
	p.index++
	//
	if p.lookahead().Is(parser.SYMBOL, ":") {
		p.index++
		errs = p.assembleLabel(token)
	} else {
		errs = p.assembleInstruction(token)
	}
	//
	if len(errs) > 0 {
		return errs
	} else if !p.match(parser.NEWLINE) && p.lookahead().Kind != parser.END_OF {
		return p.syntaxErrors(p.lookahead(), fmt.Sprintf("unexpected operand %s", p.lookahead().Describe()))
	}
	//
	return nil
}

func (p *Assembler) assembleLabel(token parser.Token) []source.SyntaxError {
	if token.Kind != parser.IDENTIFIER {
		return p.syntaxErrors(token, fmt.Sprintf("invalid label %q", token.Text))
	} else if p.env.IsBoundLabel(token.Text) {
		return p.syntaxErrors(token, "label already declared")
	}
	//
	p.env.DeclareLabel(token.Text, p.buffer.Len())
	//
	return nil
}

func (p *Assembler) assembleInstruction(token parser.Token) []source.SyntaxError {
	op, ok := bytecode.LookupMnemonic(strings.ToUpper(token.Text))
	if !ok {
		return p.syntaxErrors(token, fmt.Sprintf("unknown instruction %q", token.Text))
	}
	//
	p.buffer.Emit(op)
	//
	if op.Operand() == bytecode.NO_OPERAND {
		return nil
	}
	//
	operand := p.lookahead()
	if operand.Kind == parser.NEWLINE || operand.Kind == parser.END_OF {
		return p.syntaxErrors(token, fmt.Sprintf("missing operand for %s", strings.ToLower(op.String())))
	}
	//
	p.index++
	//
	switch op.Operand() {
	case bytecode.VALUE_OPERAND:
		value, errs := p.literal(operand)
		if len(errs) > 0 {
			return errs
		}
		//
		p.buffer.EmitValue(value)
	case bytecode.NAME_OPERAND:
		if operand.Kind != parser.IDENTIFIER {
			return p.syntaxErrors(operand, fmt.Sprintf("expected name, found %s", operand.Describe()))
		}
		//
		p.buffer.EmitName(operand.Text)
	case bytecode.INDEX_OPERAND:
		index, err := strconv.ParseUint(operand.Text, 10, 32)
		if operand.Kind != parser.NUMBER || err != nil {
			return p.syntaxErrors(operand, fmt.Sprintf("invalid index %s", operand.Describe()))
		}
		//
		p.buffer.EmitUint32(uint32(index))
	case bytecode.OFFSET_OPERAND:
		if operand.Kind != parser.IDENTIFIER {
			return p.syntaxErrors(operand, fmt.Sprintf("expected label, found %s", operand.Describe()))
		}
		//
		label := p.env.BindLabel(operand.Text)
		position := p.buffer.EmitPlaceholder()
		p.env.fixups = append(p.env.fixups, Fixup{position, label, operand})
	}
	//
	return nil
}

// Convert a token into a typed literal for a push instruction.
func (p *Assembler) literal(token parser.Token) (bytecode.Value, []source.SyntaxError) {
	var word string
	// Reserved literals are matched regardless of case
	if token.Kind == parser.KEYWORD || token.Kind == parser.IDENTIFIER {
		word = strings.ToLower(token.Text)
	}
	//
	switch {
	case word == "null":
		return bytecode.NullValue(), nil
	case word == "true", word == "false":
		return bytecode.BoolValue(word == "true"), nil
	case token.Kind == parser.STRING:
		return bytecode.StringValue(token.Text[1 : len(token.Text)-1]), nil
	case token.Kind == parser.NUMBER && strings.Contains(token.Text, "."):
		if f, err := strconv.ParseFloat(token.Text, 64); err == nil {
			return bytecode.DoubleValue(f), nil
		}
	case token.Kind == parser.NUMBER:
		if n, err := strconv.ParseInt(token.Text, 10, 64); err == nil {
			return bytecode.IntValue(n), nil
		}
	}
	//
	return bytecode.Value{}, p.syntaxErrors(token, fmt.Sprintf("invalid literal %s", token.Describe()))
}

func (p *Assembler) lookahead() parser.Token {
	return p.tokens[p.index]
}

func (p *Assembler) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

func (p *Assembler) syntaxErrors(token parser.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
