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
	"fmt"
	"io"
	"strings"
)

// Annotations supplies optional debugging information for a listing, such as
// the label names and source lines associated with byte offsets.
type Annotations interface {
	// LabelsAt returns the names of all labels bound to a given offset.
	LabelsAt(offset uint32) []string
	// LineAt returns the source line of the statement starting at a given
	// offset, if known.
	LineAt(offset uint32) (int, bool)
}

// Disassembler formats a binary as a readable assembly-style listing.
type Disassembler struct {
	w           io.Writer
	annotations Annotations
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// WithAnnotations configures the disassembler to annotate its listing using
// the given debugging information.
func (d *Disassembler) WithAnnotations(annotations Annotations) *Disassembler {
	d.annotations = annotations
	return d
}

// Disassemble a complete binary (i.e. header followed by instruction stream).
// Nothing is written if the binary is malformed.
func (d *Disassembler) Disassemble(data []byte) error {
	insns, err := Decode(data)
	if err != nil {
		return err
	}
	//
	fmt.Fprintf(d.w, "; NYET version %d\n", data[4])
	//
	for _, insn := range insns {
		d.writeLabels(insn.Offset)
		d.writeInstruction(insn)
	}
	// Labels may be bound to the very end of the stream
	if len(insns) > 0 {
		last := insns[len(insns)-1]
		d.writeLabels(last.Offset + last.Size)
	}
	//
	return nil
}

func (d *Disassembler) writeLabels(offset uint32) {
	if d.annotations == nil {
		return
	}
	//
	for _, label := range d.annotations.LabelsAt(offset) {
		fmt.Fprintf(d.w, "%s:\n", label)
	}
}

func (d *Disassembler) writeInstruction(insn Instruction) {
	var (
		line    = fmt.Sprintf("%04x  %-5s", insn.Offset, insn.Opcode)
		comment []string
	)
	//
	if operands := insn.Operands(); operands != "" {
		line = fmt.Sprintf("%s %s", line, operands)
	}
	//
	if d.annotations != nil {
		if insn.Opcode.IsJump() {
			comment = append(comment, d.annotations.LabelsAt(insn.Operand)...)
		}
		//
		if n, ok := d.annotations.LineAt(insn.Offset); ok {
			comment = append(comment, fmt.Sprintf("line %d", n))
		}
	}
	//
	if len(comment) > 0 {
		line = fmt.Sprintf("%s ; %s", line, strings.Join(comment, ", "))
	}
	//
	fmt.Fprintln(d.w, strings.TrimRight(line, " "))
}
