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
package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFile_Lines(t *testing.T) {
	srcfile := NewSourceFile("test.nyet", []byte("var x\nx = 1\n\nprint x"))
	lines := srcfile.Lines()
	//
	require.Len(t, lines, 4)
	assert.Equal(t, "var x", lines[0].String())
	assert.Equal(t, "x = 1", lines[1].String())
	assert.Equal(t, "", lines[2].String())
	assert.Equal(t, "print x", lines[3].String())
	assert.Equal(t, 4, lines[3].Number())
	assert.Equal(t, 13, lines[3].Start())
}

func TestSourceFile_TrailingNewline(t *testing.T) {
	srcfile := NewSourceFile("test.nyet", []byte("pop\n"))
	lines := srcfile.Lines()
	//
	require.Len(t, lines, 2)
	assert.Equal(t, "pop", lines[0].String())
	assert.Equal(t, 0, lines[1].Length())
}

func TestSourceFile_EnclosingLine(t *testing.T) {
	srcfile := NewSourceFile("test.nyet", []byte("push 1\njmp done\n"))
	// "done" starts at offset 11
	err := srcfile.SyntaxError(NewSpan(11, 15), "undefined label \"done\"")
	line := err.FirstEnclosingLine()
	//
	assert.Equal(t, 2, err.Line())
	assert.Equal(t, "jmp done", line.String())
	assert.Equal(t, "done", srcfile.Text(err.Span()))
	assert.Equal(t, "test.nyet:2: undefined label \"done\"", err.Error())
}

func TestSourceFile_EndOfFileSpan(t *testing.T) {
	srcfile := NewSourceFile("test.nyet", []byte("fn f()\npush 1"))
	err := srcfile.SyntaxError(NewSpan(13, 13), "missing return")
	//
	assert.Equal(t, 2, err.Line())
}

func TestSourceMap_PutGet(t *testing.T) {
	var (
		srcfile = NewSourceFile("test.nyet", []byte("pop\nadd"))
		srcmap  = NewSourceMap[string](*srcfile)
	)
	//
	srcmap.Put("pop", NewSpan(0, 3))
	srcmap.Put("add", NewSpan(4, 7))
	//
	assert.True(t, srcmap.Has("add"))
	assert.False(t, srcmap.Has("sub"))
	//
	span := srcmap.Get("add")
	assert.Equal(t, 4, span.Start())
	assert.Equal(t, 2, srcmap.SyntaxError("add", "oops").Line())
	assert.Panics(t, func() { srcmap.Put("pop", NewSpan(0, 1)) })
	assert.Panics(t, func() { srcmap.Get("sub") })
}

func TestSpan_Join(t *testing.T) {
	var (
		lhs = NewSpan(3, 5)
		rhs = NewSpan(7, 9)
	)
	//
	joined := lhs.Join(rhs)
	assert.Equal(t, 3, joined.Start())
	assert.Equal(t, 9, joined.End())
	assert.Equal(t, 6, joined.Length())
	assert.Panics(t, func() { NewSpan(2, 1) })
}
