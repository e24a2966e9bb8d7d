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
package asm

import (
	"testing"

	"github.com/consensys/go-nyet/pkg/nyet/bytecode"
	"github.com/consensys/go-nyet/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, text string) Assembly {
	assembly, errs := Assemble(source.NewSourceFile("test.nasm", []byte(text)))
	require.Empty(t, errs)
	//
	return assembly
}

func assembleError(t *testing.T, text string) source.SyntaxError {
	_, errs := Assemble(source.NewSourceFile("test.nasm", []byte(text)))
	require.Len(t, errs, 1)
	//
	return errs[0]
}

func Test_Assemble_Basic(t *testing.T) {
	assembly := assemble(t, "# hello\npush \"hi\"\nprint\n")
	//
	assert.Equal(t, []byte{'N', 'Y', 'E', 'T', 0x01, 0x01, 0x04, 2, 0, 0, 0, 'h', 'i', 0x50}, assembly.Binary)
}

func Test_Assemble_NoImplicitHalt(t *testing.T) {
	assembly := assemble(t, "")
	//
	assert.Equal(t, []byte("NYET\x01"), assembly.Binary)
}

func Test_Assemble_AllInstructions(t *testing.T) {
	text := `
start:
    nop
    push null
    push true
    push 42
    push -1.5
    pop
    add
    sub
    def main
    store 3
    load 3
    call main
    ret
    jmp start
    jz end
    jnz start
end:
    halt
`
	assembly := assemble(t, text)
	//
	insns, err := bytecode.Decode(assembly.Binary)
	require.NoError(t, err)
	//
	var listing []string
	for _, insn := range insns {
		listing = append(listing, insn.String())
	}
	//
	assert.Equal(t, []string{
		"NOP", "PUSH null", "PUSH bool true", "PUSH int 42", "PUSH double -1.5", "POP", "ADD", "SUB",
		"DEF main", "STORE 3", "LOAD 3", "CALL main", "RET", "JMP 0000", "JZ 0049", "JNZ 0000", "HALT",
	}, listing)
	assert.Equal(t, map[string]uint32{"start": 0, "end": 0x49}, assembly.Labels)
}

func Test_Assemble_CaseInsensitive(t *testing.T) {
	assembly := assemble(t, "PUSH 1\nPrint\nHALT")
	//
	assert.Equal(t, byte(bytecode.PRINT), assembly.Binary[15])
	assert.Equal(t, byte(bytecode.HALT), assembly.Binary[16])
}

func Test_Assemble_CaseInsensitiveLiterals(t *testing.T) {
	assembly := assemble(t, "push NULL\npush TRUE\npush False")
	//
	assert.Equal(t, []byte{'N', 'Y', 'E', 'T', 0x01, 0x01, 0x00, 0x01, 0x03, 0x01, 0x01, 0x03, 0x00}, assembly.Binary)
}

func Test_Assemble_Errors(t *testing.T) {
	tests := []struct {
		text    string
		line    int
		message string
	}{
		{"frob", 1, "unknown instruction \"frob\""},
		{"pop\npush", 2, "missing operand for push"},
		{"pop 1", 1, "unexpected operand \"1\""},
		{"push x", 1, "invalid literal \"x\""},
		{"push 1..2", 1, "invalid literal \"1..2\""},
		{"store -1", 1, "invalid index \"-1\""},
		{"call 1", 1, "expected name, found \"1\""},
		{"jmp 10", 1, "expected label, found \"10\""},
		{"jmp nowhere\nhalt", 1, "undefined label \"nowhere\""},
		{"a:\na:", 2, "label already declared"},
		{"true:", 1, "invalid label \"true\""},
		{"(", 1, "expected instruction, found \"(\""},
		{"push @", 1, "unknown character '@'"},
	}
	//
	for _, test := range tests {
		err := assembleError(t, test.text)
		//
		assert.Equal(t, test.message, err.Message(), test.text)
		assert.Equal(t, test.line, err.Line(), test.text)
	}
}
