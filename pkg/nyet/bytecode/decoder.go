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

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Instruction is a single decoded instruction, along with the byte offset at
// which it starts within the instruction stream (i.e. excluding the header).
type Instruction struct {
	// Offset of the opcode byte.
	Offset uint32
	// Opcode of this instruction.
	Opcode Opcode
	// Value pushed (PUSH only).
	Value Value
	// Name of the function being defined or called (DEF / CALL only).
	Name string
	// Variable index (STORE / LOAD) or jump target (JMP / JZ / JNZ).
	Operand uint32
	// Size of this instruction in bytes, including the opcode.
	Size uint32
}

// Operands returns a human readable rendering of this instruction's operands,
// which is empty when it has none.
func (p Instruction) Operands() string {
	switch p.Opcode.Operand() {
	case VALUE_OPERAND:
		return p.Value.String()
	case NAME_OPERAND:
		return p.Name
	case INDEX_OPERAND:
		return fmt.Sprintf("%d", p.Operand)
	case OFFSET_OPERAND:
		return fmt.Sprintf("%04x", p.Operand)
	default:
		return ""
	}
}

func (p Instruction) String() string {
	if operands := p.Operands(); operands != "" {
		return fmt.Sprintf("%s %s", p.Opcode, operands)
	}
	//
	return p.Opcode.String()
}

// Decode a complete binary (i.e. header followed by instruction stream) into
// its constituent instructions.
func Decode(data []byte) ([]Instruction, error) {
	var header Header
	//
	if err := header.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	//
	return DecodeInstructions(data[HEADER_SIZE:])
}

// DecodeInstructions decodes a raw instruction stream (i.e. without a header).
// Decoding fails on an unknown opcode or type tag, or on a truncated operand.
func DecodeInstructions(code []byte) ([]Instruction, error) {
	var (
		insns []Instruction
		pc    uint32
	)
	//
	for uint64(pc) < uint64(len(code)) {
		insn, err := decodeInstruction(code, pc)
		if err != nil {
			return nil, err
		}
		//
		insns = append(insns, insn)
		pc += insn.Size
	}
	//
	return insns, nil
}

func decodeInstruction(code []byte, pc uint32) (Instruction, error) {
	var (
		op   = Opcode(code[pc])
		insn = Instruction{Offset: pc, Opcode: op, Size: 1}
		r    = reader{code, pc + 1}
		err  error
	)
	//
	if !op.IsValid() {
		return insn, fmt.Errorf("unknown opcode 0x%02x at offset %04x", uint8(op), pc)
	}
	//
	switch op.Operand() {
	case VALUE_OPERAND:
		insn.Value, err = r.readValue()
		insn.Size += insn.Value.Size()
	case NAME_OPERAND:
		insn.Name, err = r.readName()
		insn.Size += 4 + uint32(len(insn.Name))
	case INDEX_OPERAND, OFFSET_OPERAND:
		insn.Operand, err = r.readUint32()
		insn.Size += 4
	}
	//
	if err != nil {
		return insn, fmt.Errorf("%s at offset %04x: %w", op, pc, err)
	}
	//
	return insn, nil
}

// reader provides bounds-checked little endian reads over an instruction
// stream.
type reader struct {
	code []byte
	pos  uint32
}

func (p *reader) take(n uint32) ([]byte, error) {
	if uint64(p.pos)+uint64(n) > uint64(len(p.code)) {
		return nil, fmt.Errorf("truncated operand (need %d bytes, have %d)", n, len(p.code)-int(p.pos))
	}
	//
	bytes := p.code[p.pos : p.pos+n]
	p.pos += n
	//
	return bytes, nil
}

func (p *reader) readUint32() (uint32, error) {
	bytes, err := p.take(4)
	if err != nil {
		return 0, err
	}
	//
	return binary.LittleEndian.Uint32(bytes), nil
}

func (p *reader) readUint64() (uint64, error) {
	bytes, err := p.take(8)
	if err != nil {
		return 0, err
	}
	//
	return binary.LittleEndian.Uint64(bytes), nil
}

func (p *reader) readName() (string, error) {
	n, err := p.readUint32()
	if err != nil {
		return "", err
	}
	//
	bytes, err := p.take(n)
	if err != nil {
		return "", err
	} else if !utf8.Valid(bytes) {
		return "", fmt.Errorf("invalid UTF-8 text")
	}
	//
	return string(bytes), nil
}

func (p *reader) readValue() (Value, error) {
	bytes, err := p.take(1)
	if err != nil {
		return Value{}, err
	}
	//
	switch tag := TypeTag(bytes[0]); tag {
	case NULL_TAG:
		return NullValue(), nil
	case INTEGER_TAG:
		v, err := p.readUint64()
		return IntValue(int64(v)), err
	case DOUBLE_TAG:
		v, err := p.readUint64()
		return DoubleValue(math.Float64frombits(v)), err
	case BOOLEAN_TAG:
		b, err := p.take(1)
		if err != nil {
			return Value{}, err
		}
		//
		return BoolValue(b[0] != 0), nil
	case STRING_TAG:
		s, err := p.readName()
		return StringValue(s), err
	default:
		return Value{}, fmt.Errorf("unknown type tag %d", tag)
	}
}
