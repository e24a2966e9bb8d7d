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
	"testing"

	"github.com/consensys/go-nyet/pkg/nyet/compiler/ast"
	"github.com/consensys/go-nyet/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, text string) (ast.Program, *source.Map[ast.Node]) {
	program, srcmap, errs := Parse(source.NewSourceFile("test.nyet", []byte(text)))
	require.Empty(t, errs)
	//
	return program, srcmap
}

func parseError(t *testing.T, text string) source.SyntaxError {
	_, _, errs := Parse(source.NewSourceFile("test.nyet", []byte(text)))
	require.Len(t, errs, 1)
	//
	return errs[0]
}

func Test_Parse_Empty(t *testing.T) {
	program, _ := parseString(t, "\n\n# nothing here\n")
	//
	assert.Empty(t, program.Statements)
}

func Test_Parse_AssignPrint(t *testing.T) {
	program, srcmap := parseString(t, "x = 5\nprint x")
	//
	require.Len(t, program.Statements, 2)
	//
	assign, ok := program.Statements[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Target)
	assert.Equal(t, &ast.Int{Text: "5"}, assign.Value)
	assert.Equal(t, 1, assign.StartLine())
	//
	insn, ok := program.Statements[1].(*ast.Instruction)
	require.True(t, ok)
	assert.Equal(t, ast.PRINT, insn.Kind)
	assert.Equal(t, &ast.VarRef{Name: "x"}, insn.Operand)
	assert.Equal(t, 2, insn.StartLine())
	// Spans
	span := srcmap.Get(insn)
	assert.Equal(t, "print x", srcmap.Source().Text(span))
	span = srcmap.Get(insn.Operand)
	assert.Equal(t, "x", srcmap.Source().Text(span))
}

func Test_Parse_Values(t *testing.T) {
	program, _ := parseString(t, "push 1\npush -2.5\npush \"hi\"\npush true\npush false\npush null\npush y")
	//
	expected := []ast.Value{
		&ast.Int{Text: "1"},
		&ast.Double{Text: "-2.5"},
		&ast.String{Value: "hi"},
		&ast.Bool{Value: true},
		&ast.Bool{Value: false},
		&ast.Null{},
		&ast.VarRef{Name: "y"},
	}
	//
	require.Len(t, program.Statements, len(expected))
	//
	for i, stmt := range program.Statements {
		push, ok := stmt.(*ast.Push)
		require.True(t, ok)
		assert.Equal(t, expected[i], push.Value)
	}
}

func Test_Parse_SimpleInstructions(t *testing.T) {
	program, _ := parseString(t, "print\npop\nadd\nsub")
	//
	require.Len(t, program.Statements, 4)
	//
	for i, kind := range []ast.InstructionKind{ast.PRINT, ast.POP, ast.ADD, ast.SUB} {
		insn := program.Statements[i].(*ast.Instruction)
		assert.Equal(t, kind, insn.Kind)
		assert.Nil(t, insn.Operand)
	}
}

func Test_Parse_JumpsAndLabels(t *testing.T) {
	program, _ := parseString(t, "top:\njmp top\njz done\njnz top\ndone:")
	//
	assert.Equal(t, []ast.Stmt{
		&ast.Label{Pos: ast.Pos{Line: 1}, Name: "top"},
		&ast.Jump{Pos: ast.Pos{Line: 2}, Kind: ast.JUMP_ALWAYS, Label: "top"},
		&ast.Jump{Pos: ast.Pos{Line: 3}, Kind: ast.JUMP_ZERO, Label: "done"},
		&ast.Jump{Pos: ast.Pos{Line: 4}, Kind: ast.JUMP_NONZERO, Label: "top"},
		&ast.Label{Pos: ast.Pos{Line: 5}, Name: "done"},
	}, program.Statements)
}

func Test_Parse_Calls(t *testing.T) {
	program, _ := parseString(t, "f()\ng(1, x, \"s\")")
	//
	require.Len(t, program.Statements, 2)
	assert.Equal(t, "f()", program.Statements[0].String())
	//
	call := program.Statements[1].(*ast.Call)
	assert.Equal(t, "g", call.Callee)
	assert.Len(t, call.Args, 3)
	assert.Equal(t, "g(1, x, \"s\")", call.String())
}

func Test_Parse_Function(t *testing.T) {
	program, srcmap := parseString(t, "fn add2(a, b)\n  push a\n\n  push b\n  add\n  return null\nadd2(1, 2)\n")
	//
	require.Len(t, program.Statements, 2)
	//
	fn := program.Statements[0].(*ast.FunctionDef)
	assert.Equal(t, "add2", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.Len(t, fn.Body, 4)
	assert.IsType(t, &ast.Return{}, fn.Body[3])
	assert.Equal(t, "fn add2(a, b)", srcmap.Source().Text(srcmap.Get(fn)))
	assert.Equal(t, 7, program.Statements[1].StartLine())
}

func Test_Parse_NestedFunction(t *testing.T) {
	program, _ := parseString(t, "fn outer()\nfn inner(x)\nreturn x\npush 1\nreturn 2\n")
	//
	require.Len(t, program.Statements, 1)
	//
	outer := program.Statements[0].(*ast.FunctionDef)
	require.Len(t, outer.Body, 3)
	assert.Equal(t, "fn inner(x)\n\treturn x", outer.Body[0].String())
}

func Test_Parse_BodyEndsAtFirstReturn(t *testing.T) {
	program, _ := parseString(t, "fn f()\nreturn 1\npush 2\n")
	//
	require.Len(t, program.Statements, 2)
	assert.IsType(t, &ast.Push{}, program.Statements[1])
}

func Test_Parse_ProgramString(t *testing.T) {
	program, _ := parseString(t, "var x\nfn f(a)\nreturn a\nx = f\n")
	//
	assert.Equal(t, "var x\nfn f(a)\n\treturn a\nx = f\n", program.String())
}

func Test_Parse_MissingReturn(t *testing.T) {
	err := parseError(t, "push 1\nfn f(a)\n  push a\n")
	//
	assert.Equal(t, "missing return in function \"f\"", err.Message())
	assert.Equal(t, 2, err.Line())
}

func Test_Parse_DuplicateParameter(t *testing.T) {
	err := parseError(t, "fn f(a, b, a)\nreturn a")
	//
	assert.Equal(t, "duplicate parameter \"a\"", err.Message())
	assert.Equal(t, 11, err.Span().Start())
}

func Test_Parse_UnexpectedToken(t *testing.T) {
	err := parseError(t, "var x\nvar (")
	//
	assert.Equal(t, "expected identifier, found \"(\"", err.Message())
	assert.Equal(t, 2, err.Line())
}

func Test_Parse_ExpectedStatement(t *testing.T) {
	err := parseError(t, "5")
	//
	assert.Equal(t, "expected statement, found \"5\"", err.Message())
}

func Test_Parse_BareIdentifier(t *testing.T) {
	err := parseError(t, "x\n")
	//
	assert.Equal(t, "expected \":\", \"(\" or \"=\", found end of line", err.Message())
}

func Test_Parse_TrailingTokens(t *testing.T) {
	err := parseError(t, "pop 1")
	//
	assert.Equal(t, "expected end of line, found \"1\"", err.Message())
}

func Test_Parse_MissingValue(t *testing.T) {
	err := parseError(t, "push")
	//
	assert.Equal(t, "expected value, found end of input", err.Message())
}

func Test_Parse_KeywordAsValue(t *testing.T) {
	err := parseError(t, "x = pop")
	//
	assert.Equal(t, "expected value, found \"pop\"", err.Message())
}

func Test_Parse_MalformedArguments(t *testing.T) {
	err := parseError(t, "f(1 2)")
	//
	assert.Equal(t, "expected \",\", found \"2\"", err.Message())
}

func Test_Parse_LexErrorPropagates(t *testing.T) {
	err := parseError(t, "push $")
	//
	assert.Equal(t, "unknown character '$'", err.Message())
}
