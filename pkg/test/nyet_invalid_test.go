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
package test

import (
	"testing"

	"github.com/consensys/go-nyet/pkg/nyet/asm"
	"github.com/consensys/go-nyet/pkg/nyet/compiler"
	"github.com/consensys/go-nyet/pkg/test/util"
	"github.com/consensys/go-nyet/pkg/util/source"
)

// ===================================================================
// Lexing Tests
// ===================================================================

func Test_Invalid_UnknownChar(t *testing.T) {
	checkNyetInvalid(t, "unknown_char")
}

func Test_Invalid_UnterminatedString(t *testing.T) {
	checkNyetInvalid(t, "unterminated_string")
}

// ===================================================================
// Parsing Tests
// ===================================================================

func Test_Invalid_MissingReturn(t *testing.T) {
	checkNyetInvalid(t, "missing_return")
}

func Test_Invalid_ExpectedIdentifier(t *testing.T) {
	checkNyetInvalid(t, "expected_identifier")
}

func Test_Invalid_TrailingTokens(t *testing.T) {
	checkNyetInvalid(t, "trailing_tokens")
}

func Test_Invalid_DuplicateParam(t *testing.T) {
	checkNyetInvalid(t, "duplicate_param")
}

func Test_Invalid_CallSyntax(t *testing.T) {
	checkNyetInvalid(t, "call_syntax")
}

// ===================================================================
// Emission Tests
// ===================================================================

func Test_Invalid_UndefinedLabel(t *testing.T) {
	checkNyetInvalid(t, "undefined_label")
}

func Test_Invalid_DuplicateVar(t *testing.T) {
	checkNyetInvalid(t, "duplicate_var")
}

func Test_Invalid_UndefinedVar(t *testing.T) {
	checkNyetInvalid(t, "undefined_var")
}

func Test_Invalid_InvalidLiteral(t *testing.T) {
	checkNyetInvalid(t, "invalid_literal")
}

func Test_Invalid_StrictLabelRedefinition(t *testing.T) {
	util.CheckInvalid(t, "nyet", "strict_label_redefinition", "nyet", func(srcfile source.File) []source.SyntaxError {
		return compileNyet(srcfile, compiler.WithLabelRedefinition(false))
	})
}

// ===================================================================
// Assembler Tests
// ===================================================================

func Test_AsmInvalid_UnknownInstruction(t *testing.T) {
	checkAsmInvalid(t, "unknown_instruction")
}

func Test_AsmInvalid_UndefinedLabel(t *testing.T) {
	checkAsmInvalid(t, "undefined_label")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkNyetInvalid(t *testing.T, test string) {
	util.CheckInvalid(t, "nyet", test, "nyet", func(srcfile source.File) []source.SyntaxError {
		return compileNyet(srcfile)
	})
}

func checkAsmInvalid(t *testing.T, test string) {
	util.CheckInvalid(t, "asm", test, "nasm", assemble)
}

func compileNyet(srcfile source.File, opts ...compiler.Option) []source.SyntaxError {
	if _, err := compiler.Compile(&srcfile, opts...); err != nil {
		return []source.SyntaxError{err.SyntaxError}
	}
	//
	return nil
}

func assemble(srcfile source.File) []source.SyntaxError {
	_, errs := asm.Assemble(&srcfile)
	//
	return errs
}
