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
package compiler

import (
	"fmt"

	"github.com/consensys/go-nyet/pkg/util/source"
)

// ErrorKind identifies the stage of compilation at which an error arose.
type ErrorKind uint8

const (
	// LEX_ERROR indicates an unrecognised character or unterminated string.
	LEX_ERROR ErrorKind = iota
	// PARSE_ERROR indicates an unexpected or missing token, or a malformed
	// function body.
	PARSE_ERROR
	// COMPILE_ERROR indicates a duplicate or undefined variable, an undefined
	// label or an invalid literal.
	COMPILE_ERROR
)

func (k ErrorKind) String() string {
	switch k {
	case LEX_ERROR:
		return "lex error"
	case PARSE_ERROR:
		return "parse error"
	default:
		return "compile error"
	}
}

// Error is a fatal compilation error, identifying the stage at which it arose
// and the offending source text.
type Error struct {
	Kind ErrorKind
	source.SyntaxError
}

func newError(kind ErrorKind, errs []source.SyntaxError) *Error {
	// Compilation stops at the first error, hence there is only ever one.
	return &Error{kind, errs[0]}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line(), e.Message())
}
