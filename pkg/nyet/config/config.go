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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/consensys/go-nyet/pkg/nyet/compiler/emitter"
	log "github.com/sirupsen/logrus"
)

// FILENAME is the name of the project configuration file.
const FILENAME = "nyet.toml"

// Config represents a nyet.toml project configuration.
type Config struct {
	Compiler Compiler `toml:"compiler"`
	Output   Output   `toml:"output"`
	Log      Log      `toml:"log"`
	// Path of the file this configuration was loaded from (empty for the
	// default configuration).
	Path string `toml:"-"`
}

// Compiler configures the behaviour of the compiler.
type Compiler struct {
	AllowLabelRedefinition bool `toml:"allow-label-redefinition"`
	ImplicitGlobals        bool `toml:"implicit-globals"`
}

// Output configures the files written by the compiler.
type Output struct {
	// Extension given to compiled binaries.
	Extension string `toml:"extension"`
	// Symbols determines whether a symbol table is written alongside each
	// binary.
	Symbols bool `toml:"symbols"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no nyet.toml is present.
func Default() *Config {
	options := emitter.DefaultOptions()
	//
	return &Config{
		Compiler: Compiler{options.AllowLabelRedefinition, options.ImplicitGlobals},
		Output:   Output{Extension: ".bin"},
		Log:      Log{Level: "info"},
	}
}

// Load parses a given configuration file.  Keys absent from the file retain
// their default values, whilst unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	//
	c := Default()
	//
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	} else if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	} else if _, err := c.LogLevel(); err != nil {
		return nil, fmt.Errorf("invalid log level in %s: %w", path, err)
	}
	//
	c.Path = path
	//
	return c, nil
}

// FindAndLoad walks up from startDir to find a nyet.toml file, then loads and
// returns it.  Returns nil if no configuration is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	//
	for {
		path := filepath.Join(dir, FILENAME)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		//
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		//
		dir = parent
	}
}

// CompilerOptions converts this configuration into emission options.
func (c *Config) CompilerOptions() emitter.Options {
	return emitter.Options{
		AllowLabelRedefinition: c.Compiler.AllowLabelRedefinition,
		ImplicitGlobals:        c.Compiler.ImplicitGlobals,
	}
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}

// OutputPath determines the binary to be written for a given source file, by
// replacing its extension.
func (c *Config) OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + c.Output.Extension
}
