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
)

// Buffer is a growable, append-only sequence of instruction bytes.  The only
// mutation permitted on bytes already written is patching of placeholder
// offsets (see EmitPlaceholder and Patch).
type Buffer struct {
	bytes []byte
}

// NewBuffer constructs an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Len returns the number of bytes written so far, which is also the offset at
// which the next byte will be written.
func (p *Buffer) Len() uint32 {
	return uint32(len(p.bytes))
}

// Bytes returns the bytes written so far.
func (p *Buffer) Bytes() []byte {
	return p.bytes
}

// Emit writes a single opcode.
func (p *Buffer) Emit(op Opcode) {
	p.bytes = append(p.bytes, byte(op))
}

// EmitByte writes a single raw byte.
func (p *Buffer) EmitByte(b byte) {
	p.bytes = append(p.bytes, b)
}

// EmitUint32 writes a 4-byte little endian unsigned integer.
func (p *Buffer) EmitUint32(v uint32) {
	p.bytes = binary.LittleEndian.AppendUint32(p.bytes, v)
}

// EmitName writes a length-prefixed UTF-8 string, as used for function names
// and string payloads.
func (p *Buffer) EmitName(name string) {
	p.EmitUint32(uint32(len(name)))
	p.bytes = append(p.bytes, name...)
}

// EmitValue writes a type tag followed by the type-specific payload.
func (p *Buffer) EmitValue(v Value) {
	p.EmitByte(byte(v.Tag))
	//
	switch v.Tag {
	case NULL_TAG:
		// no payload
	case INTEGER_TAG:
		p.bytes = binary.LittleEndian.AppendUint64(p.bytes, uint64(v.Int))
	case DOUBLE_TAG:
		p.bytes = binary.LittleEndian.AppendUint64(p.bytes, math.Float64bits(v.Double))
	case BOOLEAN_TAG:
		if v.Bool {
			p.EmitByte(1)
		} else {
			p.EmitByte(0)
		}
	case STRING_TAG:
		p.EmitName(v.Str)
	default:
		panic(fmt.Sprintf("unknown type tag %d", v.Tag))
	}
}

// EmitPlaceholder writes four zero bytes which are to be patched later, and
// returns their position.
func (p *Buffer) EmitPlaceholder() uint32 {
	pos := p.Len()
	p.EmitUint32(0)
	//
	return pos
}

// Patch overwrites four bytes at a given position with a little endian
// unsigned integer.  The position must have been returned from
// EmitPlaceholder.
func (p *Buffer) Patch(pos uint32, v uint32) {
	if uint64(pos)+4 > uint64(len(p.bytes)) {
		panic(fmt.Sprintf("patch position %d out-of-bounds", pos))
	}
	//
	binary.LittleEndian.PutUint32(p.bytes[pos:pos+4], v)
}
