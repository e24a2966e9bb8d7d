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
	"slices"
	"strings"

	"github.com/consensys/go-nyet/pkg/nyet/compiler/ast"
	"github.com/consensys/go-nyet/pkg/util/source"
)

// Parse accepts a given source file representing a NyetScript program, and
// parses it into a program along with a mapping from nodes back to the source
// file.  On failure, one or more syntax errors are returned instead.
func Parse(srcfile *source.File) (ast.Program, *source.Map[ast.Node], []source.SyntaxError) {
	parser := NewParser(srcfile)
	// Convert source file into tokens
	tokens, errors := Lex(*srcfile)
	if len(errors) > 0 {
		return ast.Program{}, nil, errors
	}
	//
	return parser.Parse(tokens)
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a recursive descent parser for NyetScript.  Each statement occupies
// exactly one line, except for function definitions whose body follows on
// subsequent lines up to (and including) the first return statement.
type Parser struct {
	srcfile *source.File
	tokens  []Token
	// Source mapping
	srcmap *source.Map[ast.Node]
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[ast.Node](*srcfile)
	//
	return &Parser{srcfile, nil, srcmap, 0}
}

// Parse a given sequence of tokens (as produced by Lex) into a program.  The
// sequence must be terminated by an END_OF token.
func (p *Parser) Parse(tokens []Token) (ast.Program, *source.Map[ast.Node], []source.SyntaxError) {
	var (
		program ast.Program
		stmt    ast.Stmt
		errors  []source.SyntaxError
	)
	//
	p.tokens, p.index = tokens, 0
	// Continue going until all consumed
	for p.skipNewlines(); p.lookahead().Kind != END_OF; p.skipNewlines() {
		if stmt, errors = p.parseStatement(); len(errors) > 0 {
			return program, nil, errors
		}
		//
		program.Statements = append(program.Statements, stmt)
	}
	//
	return program, p.srcmap, nil
}

// Parse a single statement, including its line terminator.
func (p *Parser) parseStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		stmt      ast.Stmt
		errs      []source.SyntaxError
	)
	//
	switch {
	case lookahead.Is(KEYWORD, "fn"):
		// Function definitions consume their own terminators.
		return p.parseFunction()
	case lookahead.Is(KEYWORD, "var"):
		stmt, errs = p.parseVarDecl()
	case lookahead.Is(KEYWORD, "push"):
		stmt, errs = p.parsePush()
	case lookahead.Is(KEYWORD, "return"):
		stmt, errs = p.parseReturn()
	case lookahead.Is(KEYWORD, "print"), lookahead.Is(KEYWORD, "pop"),
		lookahead.Is(KEYWORD, "add"), lookahead.Is(KEYWORD, "sub"):
		stmt, errs = p.parseInstruction()
	case lookahead.Is(KEYWORD, "jmp"), lookahead.Is(KEYWORD, "jz"), lookahead.Is(KEYWORD, "jnz"):
		stmt, errs = p.parseJump()
	case lookahead.Kind == IDENTIFIER:
		stmt, errs = p.parseIdentifierStatement()
	default:
		return nil, p.syntaxErrors(lookahead, fmt.Sprintf("expected statement, found %s", lookahead.Describe()))
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Record span of statement (excluding terminator)
	p.srcmap.Put(stmt, p.spanOf(start, p.index-1))
	//
	return stmt, p.parseEndOfLine()
}

func (p *Parser) parseFunction() (ast.Stmt, []source.SyntaxError) {
	var (
		start = p.index
		line  = p.lookahead().Line
		fn    = &ast.FunctionDef{Pos: ast.Pos{Line: line}}
		errs  []source.SyntaxError
		stmt  ast.Stmt
	)
	// Parse function header
	if _, errs = p.expect(KEYWORD); len(errs) > 0 {
		return nil, errs
	} else if fn.Name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if fn.Params, errs = p.parseParams(); len(errs) > 0 {
		return nil, errs
	}
	// Header is mapped, not the body.
	p.srcmap.Put(fn, p.spanOf(start, p.index-1))
	//
	if errs = p.parseEndOfLine(); len(errs) > 0 {
		return nil, errs
	}
	// Parse body up to (and including) the first return
	for {
		p.skipNewlines()
		//
		if p.lookahead().Kind == END_OF {
			return nil, p.srcmap.SyntaxErrors(fn, fmt.Sprintf("missing return in function %q", fn.Name))
		} else if stmt, errs = p.parseStatement(); len(errs) > 0 {
			return nil, errs
		}
		//
		fn.Body = append(fn.Body, stmt)
		//
		if _, ok := stmt.(*ast.Return); ok {
			return fn, nil
		}
	}
}

func (p *Parser) parseParams() ([]string, []source.SyntaxError) {
	var (
		params []string
		token  Token
		errs   []source.SyntaxError
	)
	//
	if errs = p.expectSymbol("("); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.matchSymbol(")") {
		if len(params) > 0 {
			if errs = p.expectSymbol(","); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if token, errs = p.expect(IDENTIFIER); len(errs) > 0 {
			return nil, errs
		} else if slices.Contains(params, token.Text) {
			return nil, p.syntaxErrors(token, fmt.Sprintf("duplicate parameter %q", token.Text))
		}
		//
		params = append(params, token.Text)
	}
	//
	return params, nil
}

func (p *Parser) parseVarDecl() (ast.Stmt, []source.SyntaxError) {
	var line = p.lookahead().Line
	// skip keyword
	p.index++
	//
	name, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.VarDecl{Pos: ast.Pos{Line: line}, Name: name}, nil
}

func (p *Parser) parsePush() (ast.Stmt, []source.SyntaxError) {
	var line = p.lookahead().Line
	// skip keyword
	p.index++
	//
	value, errs := p.parseValue()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Push{Pos: ast.Pos{Line: line}, Value: value}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, []source.SyntaxError) {
	var line = p.lookahead().Line
	// skip keyword
	p.index++
	//
	value, errs := p.parseValue()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Return{Pos: ast.Pos{Line: line}, Value: value}, nil
}

func (p *Parser) parseInstruction() (ast.Stmt, []source.SyntaxError) {
	var (
		token = p.lookahead()
		insn  = &ast.Instruction{Pos: ast.Pos{Line: token.Line}}
		errs  []source.SyntaxError
	)
	// skip keyword
	p.index++
	//
	switch token.Text {
	case "print":
		insn.Kind = ast.PRINT
		// Operand is optional
		if !p.atEndOfLine() {
			if insn.Operand, errs = p.parseValue(); len(errs) > 0 {
				return nil, errs
			}
		}
	case "pop":
		insn.Kind = ast.POP
	case "add":
		insn.Kind = ast.ADD
	default:
		insn.Kind = ast.SUB
	}
	//
	return insn, nil
}

func (p *Parser) parseJump() (ast.Stmt, []source.SyntaxError) {
	var (
		token = p.lookahead()
		jump  = &ast.Jump{Pos: ast.Pos{Line: token.Line}}
		errs  []source.SyntaxError
	)
	// skip keyword
	p.index++
	//
	switch token.Text {
	case "jmp":
		jump.Kind = ast.JUMP_ALWAYS
	case "jz":
		jump.Kind = ast.JUMP_ZERO
	default:
		jump.Kind = ast.JUMP_NONZERO
	}
	//
	if jump.Label, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	//
	return jump, nil
}

// Parse a label, call or assignment.  These all start with an identifier, and
// are distinguished by the symbol which follows.
func (p *Parser) parseIdentifierStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		name = p.lookahead()
		next = p.peek(1)
		pos  = ast.Pos{Line: name.Line}
	)
	//
	switch {
	case next.Is(SYMBOL, ":"):
		p.index += 2
		return &ast.Label{Pos: pos, Name: name.Text}, nil
	case next.Is(SYMBOL, "("):
		p.index += 2
		//
		args, errs := p.parseArgs()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return &ast.Call{Pos: pos, Callee: name.Text, Args: args}, nil
	case next.Is(SYMBOL, "="):
		p.index += 2
		//
		value, errs := p.parseValue()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return &ast.Assign{Pos: pos, Target: name.Text, Value: value}, nil
	default:
		return nil, p.syntaxErrors(next, fmt.Sprintf("expected \":\", \"(\" or \"=\", found %s", next.Describe()))
	}
}

// Parse a comma-separated argument list, assuming the opening brace has already
// been matched.
func (p *Parser) parseArgs() ([]ast.Value, []source.SyntaxError) {
	var (
		args []ast.Value
		arg  ast.Value
		errs []source.SyntaxError
	)
	//
	for !p.matchSymbol(")") {
		if len(args) > 0 {
			if errs = p.expectSymbol(","); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if arg, errs = p.parseValue(); len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	//
	return args, nil
}

// Parse a single-token value expression.
func (p *Parser) parseValue() (ast.Value, []source.SyntaxError) {
	var (
		token = p.lookahead()
		value ast.Value
	)
	//
	switch {
	case token.Kind == IDENTIFIER:
		value = &ast.VarRef{Name: token.Text}
	case token.Kind == NUMBER && strings.Contains(token.Text, "."):
		value = &ast.Double{Text: token.Text}
	case token.Kind == NUMBER:
		value = &ast.Int{Text: token.Text}
	case token.Kind == STRING:
		value = &ast.String{Value: token.Text[1 : len(token.Text)-1]}
	case token.Is(KEYWORD, "true"), token.Is(KEYWORD, "false"):
		value = &ast.Bool{Value: token.Text == "true"}
	case token.Is(KEYWORD, "null"):
		value = &ast.Null{}
	default:
		return nil, p.syntaxErrors(token, fmt.Sprintf("expected value, found %s", token.Describe()))
	}
	//
	p.index++
	p.srcmap.Put(value, token.Span)
	//
	return value, nil
}

func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	token, errs := p.expect(IDENTIFIER)
	//
	return token.Text, errs
}

// Every statement is terminated by a line break, or by the end of the file.
func (p *Parser) parseEndOfLine() []source.SyntaxError {
	if p.match(NEWLINE) || p.lookahead().Kind == END_OF {
		return nil
	}
	//
	return p.syntaxErrors(p.lookahead(), fmt.Sprintf("expected end of line, found %s", p.lookahead().Describe()))
}

func (p *Parser) atEndOfLine() bool {
	return p.follows(NEWLINE, END_OF)
}

func (p *Parser) skipNewlines() {
	for p.match(NEWLINE) {
	}
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() Token {
	return p.tokens[p.index]
}

// Peek returns the token n positions beyond the next token, or the final
// (i.e. END_OF) token if there are not enough.
func (p *Parser) peek(n int) Token {
	return p.tokens[min(p.index+n, len(p.tokens)-1)]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		msg := fmt.Sprintf("expected %s, found %s", kindName(kind), lookahead.Describe())
		return lookahead, p.syntaxErrors(lookahead, msg)
	}
	//
	p.index++
	//
	return lookahead, nil
}

// ExpectSymbol returns an error if the next token is not the given symbol.
func (p *Parser) expectSymbol(symbol string) []source.SyntaxError {
	if !p.matchSymbol(symbol) {
		lookahead := p.lookahead()
		return p.syntaxErrors(lookahead, fmt.Sprintf("expected %q, found %s", symbol, lookahead.Describe()))
	}
	//
	return nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// MatchSymbol attempts to match the given symbol.
func (p *Parser) matchSymbol(symbol string) bool {
	if p.lookahead().Is(SYMBOL, symbol) {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	//
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}

func kindName(kind uint) string {
	switch kind {
	case IDENTIFIER:
		return "identifier"
	case KEYWORD:
		return "keyword"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case SYMBOL:
		return "symbol"
	case NEWLINE:
		return "end of line"
	default:
		return "end of input"
	}
}
