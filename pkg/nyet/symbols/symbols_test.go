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
package symbols

import (
	"bytes"
	"testing"

	"github.com/consensys/go-nyet/pkg/nyet/bytecode"
	"github.com/consensys/go-nyet/pkg/nyet/compiler"
	"github.com/consensys/go-nyet/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = "fn f(a)\nreturn a\nstart:\nf(1)\nagain:\nalso:\njz start\n"

func compile(t *testing.T) compiler.Artifact {
	artifact, err := compiler.Compile(source.NewSourceFile("test.nyet", []byte(program)))
	require.Nil(t, err)
	//
	return artifact
}

func Test_Symbols_RoundTrip(t *testing.T) {
	table := FromArtifact(compile(t))
	//
	data, err := table.Marshal()
	require.NoError(t, err)
	//
	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, table, decoded)
}

func Test_Symbols_Deterministic(t *testing.T) {
	first, err := FromArtifact(compile(t)).Marshal()
	require.NoError(t, err)
	second, err := FromArtifact(compile(t)).Marshal()
	require.NoError(t, err)
	//
	assert.Equal(t, first, second)
}

func Test_Symbols_Lookups(t *testing.T) {
	table := FromArtifact(compile(t))
	// DEF f (6) + LOAD (5) + RET (1)
	assert.Equal(t, []string{"start"}, table.LabelsAt(12))
	// PUSH int (10) + CALL f (6)
	assert.Equal(t, []string{"again", "also"}, table.LabelsAt(28))
	assert.Empty(t, table.LabelsAt(1))
	//
	line, ok := table.LineAt(6)
	assert.True(t, ok)
	assert.Equal(t, 2, line)
	//
	_, ok = table.LineAt(7)
	assert.False(t, ok)
}

func Test_Symbols_BadVersion(t *testing.T) {
	table := FromArtifact(compile(t))
	table.Version = 99
	//
	data, err := table.Marshal()
	require.NoError(t, err)
	//
	_, err = Unmarshal(data)
	assert.ErrorContains(t, err, "unsupported version 99")
	//
	_, err = Unmarshal([]byte{0x01})
	assert.Error(t, err)
}

func Test_Symbols_AnnotatedListing(t *testing.T) {
	var (
		artifact = compile(t)
		out      bytes.Buffer
	)
	//
	err := bytecode.NewDisassembler(&out).WithAnnotations(FromArtifact(artifact)).Disassemble(artifact.Binary)
	require.NoError(t, err)
	//
	assert.Equal(t, "; NYET version 1\n"+
		"0000  DEF   f ; line 1\n"+
		"0006  LOAD  0 ; line 2\n"+
		"000b  RET\n"+
		"start:\n"+
		"000c  PUSH  int 1 ; line 4\n"+
		"0016  CALL  f\n"+
		"again:\n"+
		"also:\n"+
		"001c  JZ    000c ; start, line 7\n"+
		"0021  HALT\n", out.String())
}
