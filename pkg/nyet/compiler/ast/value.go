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
package ast

import "fmt"

// Value is a single-token value expression: either a literal or a reference to
// a variable.  Values are not composable.
type Value interface {
	Node
	// Marker restricting implementations to this package.
	value()
}

// Null is the null literal.
type Null struct {
	// dummy is included to force distinct Null literals to have distinct
	// addresses.
	//nolint
	dummy uint
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

// Int is an integer literal.  The raw text is retained, and only converted when
// the literal is emitted.
type Int struct {
	Text string
}

// Double is a floating-point literal (i.e. a numeric literal containing a
// '.').  As for Int, the raw text is retained.
type Double struct {
	Text string
}

// String is a string literal, excluding its enclosing quotes.
type String struct {
	Value string
}

// VarRef refers to a variable (or parameter) by name.
type VarRef struct {
	Name string
}

func (*Null) value()   {}
func (*Bool) value()   {}
func (*Int) value()    {}
func (*Double) value() {}
func (*String) value() {}
func (*VarRef) value() {}

func (*Null) String() string {
	return "null"
}

func (p *Bool) String() string {
	return fmt.Sprintf("%t", p.Value)
}

func (p *Int) String() string {
	return p.Text
}

func (p *Double) String() string {
	return p.Text
}

func (p *String) String() string {
	return fmt.Sprintf("\"%s\"", p.Value)
}

func (p *VarRef) String() string {
	return p.Name
}
