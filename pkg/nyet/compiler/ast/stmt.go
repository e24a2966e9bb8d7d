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

import (
	"fmt"
	"strings"
)

// Node is implemented by every statement and value in the abstract syntax
// tree.  All nodes are pointers, hence every node is a distinct key within a
// source map.
type Node interface {
	// String returns the node in (normalised) source form.
	String() string
}

// Program is the root of the abstract syntax tree, holding the top-level
// statements in the order they were written.
type Program struct {
	Statements []Stmt
}

func (p Program) String() string {
	var builder strings.Builder
	//
	writeBlock(&builder, p.Statements, "")
	//
	return builder.String()
}

// Pos records the (physical) line on which a statement starts, counting from
// 1.
type Pos struct {
	Line int
}

// StartLine returns the line on which the enclosing statement starts.
func (p Pos) StartLine() int {
	return p.Line
}

// Stmt represents a single (line-oriented) statement.  The set of statements is
// closed: only the types declared in this package implement it.
type Stmt interface {
	Node
	// StartLine returns the line on which this statement starts.
	StartLine() int
	// Marker restricting implementations to this package.
	stmt()
}

// FunctionDef declares a named function with zero or more parameters.  The
// body always ends with a Return statement.
type FunctionDef struct {
	Pos
	Name   string
	Params []string
	Body   []Stmt
}

// VarDecl declares a local variable within the enclosing function (or the
// program scope).
type VarDecl struct {
	Pos
	Name string
}

// Assign stores a value into a previously declared variable.
type Assign struct {
	Pos
	Target string
	Value  Value
}

// Push places a value onto the evaluation stack.
type Push struct {
	Pos
	Value Value
}

// Call invokes a named function with zero or more arguments.
type Call struct {
	Pos
	Callee string
	Args   []Value
}

// JumpKind distinguishes the three forms of jump.
type JumpKind uint8

const (
	// JUMP_ALWAYS is an unconditional jump.
	JUMP_ALWAYS JumpKind = iota
	// JUMP_ZERO branches when the top of the stack is zero.
	JUMP_ZERO
	// JUMP_NONZERO branches when the top of the stack is non-zero.
	JUMP_NONZERO
)

func (k JumpKind) String() string {
	switch k {
	case JUMP_ALWAYS:
		return "jmp"
	case JUMP_ZERO:
		return "jz"
	case JUMP_NONZERO:
		return "jnz"
	default:
		panic(fmt.Sprintf("unknown jump kind %d", k))
	}
}

// Jump transfers control to a named label.
type Jump struct {
	Pos
	Kind  JumpKind
	Label string
}

// InstructionKind distinguishes the simple stack instructions.
type InstructionKind uint8

const (
	// PRINT outputs the top of the stack.
	PRINT InstructionKind = iota
	// POP discards the top of the stack.
	POP
	// ADD replaces the top two items on the stack with their sum.
	ADD
	// SUB replaces the top two items on the stack with their difference.
	SUB
)

func (k InstructionKind) String() string {
	switch k {
	case PRINT:
		return "print"
	case POP:
		return "pop"
	case ADD:
		return "add"
	case SUB:
		return "sub"
	default:
		panic(fmt.Sprintf("unknown instruction kind %d", k))
	}
}

// Instruction is a simple stack instruction.  Only print accepts an operand,
// which (when present) is pushed immediately beforehand.
type Instruction struct {
	Pos
	Kind InstructionKind
	// Operand is nil when absent.
	Operand Value
}

// Label binds a name to the position of the following instruction.
type Label struct {
	Pos
	Name string
}

// Return leaves a value on the stack and returns from the enclosing function.
type Return struct {
	Pos
	Value Value
}

func (*FunctionDef) stmt() {}
func (*VarDecl) stmt()     {}
func (*Assign) stmt()      {}
func (*Push) stmt()        {}
func (*Call) stmt()        {}
func (*Jump) stmt()        {}
func (*Instruction) stmt() {}
func (*Label) stmt()       {}
func (*Return) stmt()      {}

func (p *FunctionDef) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Header())
	builder.WriteString("\n")
	writeBlock(&builder, p.Body, "\t")
	//
	return strings.TrimSuffix(builder.String(), "\n")
}

// Header returns the first line of this function definition (i.e. its name
// and parameters).
func (p *FunctionDef) Header() string {
	return fmt.Sprintf("fn %s(%s)", p.Name, strings.Join(p.Params, ", "))
}

func (p *VarDecl) String() string {
	return fmt.Sprintf("var %s", p.Name)
}

func (p *Assign) String() string {
	return fmt.Sprintf("%s = %s", p.Target, p.Value)
}

func (p *Push) String() string {
	return fmt.Sprintf("push %s", p.Value)
}

func (p *Call) String() string {
	args := make([]string, len(p.Args))
	//
	for i, arg := range p.Args {
		args[i] = arg.String()
	}
	//
	return fmt.Sprintf("%s(%s)", p.Callee, strings.Join(args, ", "))
}

func (p *Jump) String() string {
	return fmt.Sprintf("%s %s", p.Kind, p.Label)
}

func (p *Instruction) String() string {
	if p.Operand != nil {
		return fmt.Sprintf("%s %s", p.Kind, p.Operand)
	}
	//
	return p.Kind.String()
}

func (p *Label) String() string {
	return fmt.Sprintf("%s:", p.Name)
}

func (p *Return) String() string {
	return fmt.Sprintf("return %s", p.Value)
}

func writeBlock(builder *strings.Builder, stmts []Stmt, indent string) {
	for _, s := range stmts {
		for _, line := range strings.Split(s.String(), "\n") {
			builder.WriteString(indent)
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}
}
