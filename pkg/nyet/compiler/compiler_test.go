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
	"errors"
	"sync"
	"testing"

	"github.com/consensys/go-nyet/pkg/nyet/bytecode"
	"github.com/consensys/go-nyet/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const example = `# countdown
fn dec(n)
    push n
    push 1
    sub
    return null

var i
i = 3
loop:
    print i
    dec(i)
    jnz loop
`

func Test_Compile_Example(t *testing.T) {
	artifact, err := Compile(source.NewSourceFile("countdown.nyet", []byte(example)))
	require.Nil(t, err)
	//
	assert.Equal(t, "countdown.nyet", artifact.Source)
	assert.Equal(t, map[string]uint32{"dec": 0}, artifact.Functions)
	assert.Contains(t, artifact.Labels, "loop")
	assert.Equal(t, 2, artifact.Lines[0].Line)
	//
	insns, derr := bytecode.Decode(artifact.Binary)
	require.NoError(t, derr)
	assert.Equal(t, bytecode.HALT, insns[len(insns)-1].Opcode)
}

func Test_CompileString_Bytes(t *testing.T) {
	binary, err := CompileString("x = 5\nprint x\n")
	require.NoError(t, err)
	//
	assert.Equal(t, 27, len(binary))
	assert.Equal(t, []byte{0x21, 0, 0, 0, 0, 0x50, 0x40}, binary[20:])
}

func Test_CompileString_Deterministic(t *testing.T) {
	first, err := CompileString(example)
	require.NoError(t, err)
	second, err := CompileString(example)
	require.NoError(t, err)
	//
	assert.Equal(t, first, second)
}

func Test_Compile_ErrorKinds(t *testing.T) {
	tests := []struct {
		text    string
		kind    ErrorKind
		message string
	}{
		{"push 1\npush @", LEX_ERROR, "lex error: line 2: unknown character '@'"},
		{"push \"abc", LEX_ERROR, "lex error: line 1: unterminated string"},
		{"var\n", PARSE_ERROR, "parse error: line 1: expected identifier, found end of line"},
		{"fn f()\npush 1\n", PARSE_ERROR, "parse error: line 1: missing return in function \"f\""},
		{"pop\njmp end\n", COMPILE_ERROR, "compile error: line 2: undefined label \"end\""},
		{"print y", COMPILE_ERROR, "compile error: line 1: undefined variable \"y\""},
	}
	//
	for _, test := range tests {
		binary, err := CompileString(test.text)
		//
		assert.Nil(t, binary)
		require.Error(t, err, test.text)
		//
		var cerr *Error
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, test.kind, cerr.Kind)
		assert.Equal(t, test.message, cerr.Error())
	}
}

func Test_Compile_Options(t *testing.T) {
	text := "l:\nl:\njmp l"
	//
	_, err := CompileString(text)
	assert.NoError(t, err)
	//
	_, err = CompileString(text, WithLabelRedefinition(false))
	assert.EqualError(t, err, "compile error: line 2: duplicate label \"l\"")
	//
	_, err = CompileString("x = 1", WithImplicitGlobals(false))
	assert.EqualError(t, err, "compile error: line 1: undefined variable \"x\"")
}

func Test_Compile_Concurrent(t *testing.T) {
	var (
		wg       sync.WaitGroup
		binaries = make([][]byte, 8)
	)
	//
	expected, err := CompileString(example)
	require.NoError(t, err)
	//
	for i := range binaries {
		wg.Add(1)
		//
		go func(i int) {
			defer wg.Done()
			binaries[i], _ = CompileString(example)
		}(i)
	}
	//
	wg.Wait()
	//
	for _, binary := range binaries {
		assert.Equal(t, expected, binary)
	}
}
