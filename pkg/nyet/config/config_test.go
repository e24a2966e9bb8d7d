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
package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, text string) string {
	path := filepath.Join(dir, FILENAME)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	//
	return path
}

func Test_Config_Default(t *testing.T) {
	c := Default()
	//
	assert.True(t, c.Compiler.AllowLabelRedefinition)
	assert.True(t, c.Compiler.ImplicitGlobals)
	assert.Equal(t, "prog.bin", c.OutputPath("prog.nyet"))
	assert.Equal(t, "dir/prog.bin", c.OutputPath("dir/prog"))
	//
	level, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, level)
}

func Test_Config_Load(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[compiler]
allow-label-redefinition = false

[output]
extension = ".nyetc"
symbols = true

[log]
level = "debug"
`)
	//
	c, err := Load(path)
	require.NoError(t, err)
	//
	assert.Equal(t, path, c.Path)
	assert.False(t, c.CompilerOptions().AllowLabelRedefinition)
	// Absent keys keep their defaults
	assert.True(t, c.CompilerOptions().ImplicitGlobals)
	assert.True(t, c.Output.Symbols)
	assert.Equal(t, "a.nyetc", c.OutputPath("a.nyet"))
	//
	level, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)
}

func Test_Config_UnknownKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[compiler]\noptimise = true\n")
	//
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown key \"compiler.optimise\"")
}

func Test_Config_Malformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[compiler\n")
	//
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse error")
	//
	path = writeConfig(t, t.TempDir(), "[log]\nlevel = \"loud\"\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "invalid log level")
}

func Test_Config_FindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeConfig(t, root, "[output]\nsymbols = true\n")
	//
	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.Output.Symbols)
	assert.Equal(t, filepath.Join(root, FILENAME), c.Path)
}

func Test_Config_NotFound(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	//
	require.NoError(t, err)
	assert.Nil(t, c)
}
