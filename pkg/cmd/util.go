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
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/go-nyet/pkg/nyet/config"
	"github.com/consensys/go-nyet/pkg/util/source"
	"github.com/consensys/go-nyet/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure loads the configuration applicable to a given input file (either
// that given by --config, or the nearest nyet.toml) and sets the log level
// accordingly.  The --verbose flag takes precedence over the configured level.
func configure(cmd *cobra.Command, input string) *config.Config {
	var (
		cfg  *config.Config
		err  error
		path = GetString(cmd, "config")
	)
	//
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.FindAndLoad(filepath.Dir(input))
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	} else if cfg == nil {
		cfg = config.Default()
	} else {
		log.Debugf("using configuration %s", cfg.Path)
	}
	// Configure log level
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	} else if level, err := cfg.LogLevel(); err == nil {
		log.SetLevel(level)
	}
	//
	return cfg
}

// Read a given source file, or exit.
func readSourceFile(filename string) *source.File {
	srcfile, err := source.ReadFile(filename)
	// Sanity check for errors
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return srcfile
}

// Write a given file, or exit.
func writeFile(filename string, data []byte) {
	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	log.Infof("wrote %d bytes to %s", len(data), filename)
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(kind string, err *source.SyntaxError) {
	var (
		colour     = termio.NewColouriser(os.Stdout)
		span       = err.Span()
		line       = err.FirstEnclosingLine()
		lineOffset = span.Start() - line.Start()
		// Calculate length (ensures don't overflow line)
		length = max(1, min(line.Length()-lineOffset, span.Length()))
		text   = line.String()
	)
	// Truncate overly long lines
	if width := termio.Width(os.Stdout); len(text) > width && lineOffset+length <= width {
		text = text[:width]
	}
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s: %s\n", err.SourceFile().Filename(), line.Number(), 1+lineOffset,
		1+lineOffset+length, colour.Apply(termio.BoldAnsiEscape().FgColour(termio.TERM_RED), kind), err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(text)
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(colour.Apply(termio.NewAnsiEscape().FgColour(termio.TERM_RED), strings.Repeat("^", length)))
}

// Determine the output file for a given input, given the (optional) output
// flag.
func outputFile(cmd *cobra.Command, cfg *config.Config, input string) string {
	if output := GetString(cmd, "output"); output != "" {
		return output
	}
	//
	return cfg.OutputPath(input)
}
