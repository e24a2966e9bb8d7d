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
package emitter

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-nyet/pkg/nyet/bytecode"
	"github.com/consensys/go-nyet/pkg/nyet/compiler/ast"
	"github.com/consensys/go-nyet/pkg/util/collection/array"
	"github.com/consensys/go-nyet/pkg/util/collection/stack"
	"github.com/consensys/go-nyet/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Options controls the (few) configurable aspects of emission.
type Options struct {
	// AllowLabelRedefinition determines whether redeclaring a label overwrites
	// its offset (with a warning), or is reported as an error.
	AllowLabelRedefinition bool
	// ImplicitGlobals determines whether assigning to an undeclared name at the
	// top level of a program declares it.  This never applies within
	// functions.
	ImplicitGlobals bool
}

// DefaultOptions returns the default emission options.
func DefaultOptions() Options {
	return Options{AllowLabelRedefinition: true, ImplicitGlobals: true}
}

// LineEntry associates the offset of the first byte emitted for a statement
// with the line on which that statement starts.
type LineEntry struct {
	Offset uint32
	Line   int
}

// Fixup identifies a jump operand which must be patched with the offset of a
// label, once all labels are known.
type Fixup struct {
	// Position of the (4 byte) placeholder within the instruction stream.
	Position uint32
	// Label whose offset is to be written.
	Label string
	// Jump responsible for this fixup.
	Jump *ast.Jump
}

// Result holds the outcome of a successful emission.  All offsets are relative
// to the start of the instruction stream (i.e. they exclude the header).
type Result struct {
	// Binary is the finished artifact, including header.
	Binary []byte
	// Functions maps function names to the offset of their DEF instruction.
	Functions map[string]uint32
	// Labels maps label names to the offset of the following instruction.
	Labels map[string]uint32
	// Lines associates instruction offsets with source lines.
	Lines []LineEntry
	// Fixups records the number of jump operands which were patched.
	Fixups uint
}

// Emit bytecode for a given program.  The source map must be that produced
// when parsing the program, and is used for reporting errors.
func Emit(program ast.Program, srcmap *source.Map[ast.Node], options Options) (Result, []source.SyntaxError) {
	return NewContext(srcmap, options).Emit(program)
}

// Context holds all mutable state for exactly one compilation.  A context
// cannot be reused once it has emitted a program.
type Context struct {
	buffer    *bytecode.Buffer
	functions map[string]uint32
	labels    map[string]uint32
	fixups    []Fixup
	scopes    *stack.Stack[*Scope]
	lines     []LineEntry
	srcmap    *source.Map[ast.Node]
	options   Options
	used      bool
}

// NewContext constructs a fresh emission context.
func NewContext(srcmap *source.Map[ast.Node], options Options) *Context {
	scopes := stack.NewStack[*Scope]()
	// Program scope
	scopes.Push(NewScope())
	//
	return &Context{
		buffer:    bytecode.NewBuffer(),
		functions: make(map[string]uint32),
		labels:    make(map[string]uint32),
		scopes:    scopes,
		srcmap:    srcmap,
		options:   options,
	}
}

// Emit a program, resolve all jump targets and package the result.  On failure
// no artifact is produced.
func (p *Context) Emit(program ast.Program) (Result, []source.SyntaxError) {
	if p.used {
		panic("emission context reused")
	}
	//
	p.used = true
	//
	for _, stmt := range program.Statements {
		if errs := p.emitStatement(stmt); len(errs) > 0 {
			return Result{}, errs
		}
	}
	//
	return p.finish()
}

// Scope returns the innermost scope.
func (p *Context) Scope() *Scope {
	return p.scopes.Top()
}

func (p *Context) finish() (Result, []source.SyntaxError) {
	// Resolve all fixups
	for _, fixup := range p.fixups {
		offset, ok := p.labels[fixup.Label]
		if !ok {
			return Result{}, p.srcmap.SyntaxErrors(fixup.Jump, fmt.Sprintf("undefined label %q", fixup.Label))
		}
		//
		p.buffer.Patch(fixup.Position, offset)
	}
	//
	p.buffer.Emit(bytecode.HALT)
	//
	return Result{
		Binary:    bytecode.Package(p.buffer.Bytes()),
		Functions: p.functions,
		Labels:    p.labels,
		Lines:     p.lines,
		Fixups:    uint(len(p.fixups)),
	}, nil
}

func (p *Context) emitStatement(stmt ast.Stmt) []source.SyntaxError {
	var (
		start = p.buffer.Len()
		errs  []source.SyntaxError
	)
	//
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		errs = p.emitFunction(s)
	case *ast.VarDecl:
		errs = p.emitVarDecl(s)
	case *ast.Assign:
		errs = p.emitAssign(s)
	case *ast.Push:
		errs = p.emitValue(s.Value)
	case *ast.Return:
		if errs = p.emitValue(s.Value); len(errs) == 0 {
			p.buffer.Emit(bytecode.RET)
		}
	case *ast.Call:
		errs = p.emitCall(s)
	case *ast.Jump:
		p.emitJump(s)
	case *ast.Instruction:
		errs = p.emitInstruction(s)
	case *ast.Label:
		errs = p.emitLabel(s)
	default:
		panic(fmt.Sprintf("unknown statement %T", stmt))
	}
	// Function bodies record their own lines
	if _, ok := stmt.(*ast.FunctionDef); !ok && len(errs) == 0 && p.buffer.Len() > start {
		p.lines = append(p.lines, LineEntry{start, stmt.StartLine()})
	}
	//
	return errs
}

func (p *Context) emitFunction(fn *ast.FunctionDef) []source.SyntaxError {
	var offset = p.buffer.Len()
	//
	if _, ok := p.functions[fn.Name]; ok {
		log.Warnf("function %q redefined on line %d", fn.Name, fn.Line)
	}
	//
	p.functions[fn.Name] = offset
	p.lines = append(p.lines, LineEntry{offset, fn.Line})
	p.buffer.Emit(bytecode.DEF)
	p.buffer.EmitName(fn.Name)
	// Enter function scope
	p.scopes.Push(NewScope(fn.Params...))
	//
	for _, stmt := range fn.Body {
		if errs := p.emitStatement(stmt); len(errs) > 0 {
			return errs
		}
	}
	// Restore enclosing scope
	p.scopes.Pop()
	//
	return nil
}

func (p *Context) emitVarDecl(decl *ast.VarDecl) []source.SyntaxError {
	if _, ok := p.Scope().Declare(decl.Name); !ok {
		return p.srcmap.SyntaxErrors(decl, fmt.Sprintf("duplicate variable %q", decl.Name))
	}
	//
	return nil
}

func (p *Context) emitAssign(assign *ast.Assign) []source.SyntaxError {
	if errs := p.emitValue(assign.Value); len(errs) > 0 {
		return errs
	}
	//
	index, ok := p.Scope().Lookup(assign.Target)
	//
	if !ok && p.options.ImplicitGlobals && p.scopes.Len() == 1 {
		index, ok = p.Scope().Declare(assign.Target)
	}
	//
	if !ok {
		return p.srcmap.SyntaxErrors(assign, fmt.Sprintf("undefined variable %q", assign.Target))
	}
	//
	p.buffer.Emit(bytecode.STORE)
	p.buffer.EmitUint32(index)
	//
	return nil
}

// Arguments are pushed last first, such that the callee pops them in the order
// written.
func (p *Context) emitCall(call *ast.Call) []source.SyntaxError {
	for _, arg := range array.Reverse(call.Args) {
		if errs := p.emitValue(arg); len(errs) > 0 {
			return errs
		}
	}
	//
	p.buffer.Emit(bytecode.CALL)
	p.buffer.EmitName(call.Callee)
	//
	return nil
}

func (p *Context) emitJump(jump *ast.Jump) {
	switch jump.Kind {
	case ast.JUMP_ALWAYS:
		p.buffer.Emit(bytecode.JMP)
	case ast.JUMP_ZERO:
		p.buffer.Emit(bytecode.JZ)
	case ast.JUMP_NONZERO:
		p.buffer.Emit(bytecode.JNZ)
	default:
		panic(fmt.Sprintf("unknown jump kind %d", jump.Kind))
	}
	//
	position := p.buffer.EmitPlaceholder()
	p.fixups = append(p.fixups, Fixup{position, jump.Label, jump})
}

func (p *Context) emitInstruction(insn *ast.Instruction) []source.SyntaxError {
	if insn.Operand != nil {
		if errs := p.emitValue(insn.Operand); len(errs) > 0 {
			return errs
		}
	}
	//
	switch insn.Kind {
	case ast.PRINT:
		p.buffer.Emit(bytecode.PRINT)
	case ast.POP:
		p.buffer.Emit(bytecode.POP)
	case ast.ADD:
		p.buffer.Emit(bytecode.ADD)
	case ast.SUB:
		p.buffer.Emit(bytecode.SUB)
	default:
		panic(fmt.Sprintf("unknown instruction kind %d", insn.Kind))
	}
	//
	return nil
}

func (p *Context) emitLabel(label *ast.Label) []source.SyntaxError {
	if _, ok := p.labels[label.Name]; ok {
		if !p.options.AllowLabelRedefinition {
			return p.srcmap.SyntaxErrors(label, fmt.Sprintf("duplicate label %q", label.Name))
		}
		//
		log.Warnf("label %q redefined on line %d", label.Name, label.Line)
	}
	//
	p.labels[label.Name] = p.buffer.Len()
	//
	return nil
}

// Emit a value expression.  Variable references become loads, whilst literals
// are pushed.
func (p *Context) emitValue(value ast.Value) []source.SyntaxError {
	var literal bytecode.Value
	//
	switch v := value.(type) {
	case *ast.VarRef:
		index, ok := p.Scope().Lookup(v.Name)
		if !ok {
			return p.srcmap.SyntaxErrors(v, fmt.Sprintf("undefined variable %q", v.Name))
		}
		//
		p.buffer.Emit(bytecode.LOAD)
		p.buffer.EmitUint32(index)
		//
		return nil
	case *ast.Null:
		literal = bytecode.NullValue()
	case *ast.Bool:
		literal = bytecode.BoolValue(v.Value)
	case *ast.Int:
		n, err := strconv.ParseInt(v.Text, 10, 64)
		if err != nil {
			return p.srcmap.SyntaxErrors(v, fmt.Sprintf("invalid integer literal %q", v.Text))
		}
		//
		literal = bytecode.IntValue(n)
	case *ast.Double:
		f, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return p.srcmap.SyntaxErrors(v, fmt.Sprintf("invalid double literal %q", v.Text))
		}
		//
		literal = bytecode.DoubleValue(f)
	case *ast.String:
		literal = bytecode.StringValue(v.Value)
	default:
		panic(fmt.Sprintf("unknown value %T", value))
	}
	//
	p.buffer.Emit(bytecode.PUSH)
	p.buffer.EmitValue(literal)
	//
	return nil
}
