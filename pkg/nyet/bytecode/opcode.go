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
package bytecode

import "fmt"

// Opcode identifies a single instruction of the .NYET virtual machine.  Every
// instruction starts with exactly one opcode byte, followed by zero or more
// operand bytes whose layout is determined by the opcode.
type Opcode uint8

// NOP does nothing.
const NOP Opcode = 0x00

// PUSH pushes a literal value, encoded as a type tag followed by a payload.
const PUSH Opcode = 0x01

// POP discards the top of the stack.
const POP Opcode = 0x02

// ADD pops two values and pushes their sum.
const ADD Opcode = 0x03

// SUB pops two values and pushes their difference.
const SUB Opcode = 0x04

// DEF marks the start of a named function.
const DEF Opcode = 0x10

// CALL invokes a function by name.
const CALL Opcode = 0x11

// RET returns from the enclosing function.
const RET Opcode = 0x12

// STORE pops the top of the stack into a variable slot.
const STORE Opcode = 0x20

// LOAD pushes the contents of a variable slot.
const LOAD Opcode = 0x21

// JMP unconditionally transfers control to an absolute byte offset.
const JMP Opcode = 0x30

// JZ pops a value and jumps if it is zero.
const JZ Opcode = 0x31

// JNZ pops a value and jumps if it is non-zero.
const JNZ Opcode = 0x32

// HALT terminates execution.
const HALT Opcode = 0x40

// PRINT pops and prints the top of the stack.
const PRINT Opcode = 0x50

// OperandKind describes the layout of the bytes following an opcode.
type OperandKind uint8

const (
	// NO_OPERAND indicates the opcode stands alone.
	NO_OPERAND OperandKind = iota
	// VALUE_OPERAND indicates a one byte type tag followed by a type-specific
	// payload.
	VALUE_OPERAND
	// NAME_OPERAND indicates a uint32 byte length followed by that many bytes
	// of UTF-8 text.
	NAME_OPERAND
	// INDEX_OPERAND indicates a uint32 variable index.
	INDEX_OPERAND
	// OFFSET_OPERAND indicates a uint32 absolute byte offset into the
	// instruction stream.
	OFFSET_OPERAND
)

type opcodeInfo struct {
	mnemonic string
	operand  OperandKind
}

var opcodes = map[Opcode]opcodeInfo{
	NOP:   {"NOP", NO_OPERAND},
	PUSH:  {"PUSH", VALUE_OPERAND},
	POP:   {"POP", NO_OPERAND},
	ADD:   {"ADD", NO_OPERAND},
	SUB:   {"SUB", NO_OPERAND},
	DEF:   {"DEF", NAME_OPERAND},
	CALL:  {"CALL", NAME_OPERAND},
	RET:   {"RET", NO_OPERAND},
	STORE: {"STORE", INDEX_OPERAND},
	LOAD:  {"LOAD", INDEX_OPERAND},
	JMP:   {"JMP", OFFSET_OPERAND},
	JZ:    {"JZ", OFFSET_OPERAND},
	JNZ:   {"JNZ", OFFSET_OPERAND},
	HALT:  {"HALT", NO_OPERAND},
	PRINT: {"PRINT", NO_OPERAND},
}

// IsValid checks whether this opcode is part of the instruction set.
func (op Opcode) IsValid() bool {
	_, ok := opcodes[op]
	return ok
}

// IsJump checks whether this opcode takes a jump target.
func (op Opcode) IsJump() bool {
	return op.Operand() == OFFSET_OPERAND
}

// Operand returns the kind of operand which follows this opcode.  This panics
// for an invalid opcode.
func (op Opcode) Operand() OperandKind {
	if info, ok := opcodes[op]; ok {
		return info.operand
	}
	//
	panic(fmt.Sprintf("invalid opcode 0x%02x", uint8(op)))
}

func (op Opcode) String() string {
	if info, ok := opcodes[op]; ok {
		return info.mnemonic
	}
	//
	return fmt.Sprintf("0x%02x", uint8(op))
}

// LookupMnemonic finds the opcode with a given (case sensitive) mnemonic.
func LookupMnemonic(mnemonic string) (Opcode, bool) {
	for op, info := range opcodes {
		if info.mnemonic == mnemonic {
			return op, true
		}
	}
	//
	return NOP, false
}
