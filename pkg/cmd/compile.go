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

	"github.com/consensys/go-nyet/pkg/nyet/compiler"
	"github.com/consensys/go-nyet/pkg/nyet/symbols"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file1.nyet file2.nyet ...",
	Short: "compile NyetScript source files into .NYET binaries.",
	Long: `Compile each of the given source file(s) into a separate .NYET binary.
	By default, each binary is written alongside its source file, with the
	extension replaced (see nyet.toml).`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 1 && GetString(cmd, "output") != "" {
			fmt.Println("--output requires exactly one input file")
			os.Exit(2)
		}
		//
		for _, filename := range args {
			runCompileCmd(cmd, filename)
		}
	},
}

func runCompileCmd(cmd *cobra.Command, filename string) {
	var (
		cfg     = configure(cmd, filename)
		options = cfg.CompilerOptions()
	)
	// Command-line overrides
	if GetFlag(cmd, "no-label-redefinition") {
		options.AllowLabelRedefinition = false
	}
	//
	if GetFlag(cmd, "no-implicit-globals") {
		options.ImplicitGlobals = false
	}
	//
	srcfile := readSourceFile(filename)
	log.Debugf("compiling source file %s", filename)
	// Compile source file, or print error
	artifact, err := compiler.Compile(srcfile, compiler.WithOptions(options))
	if err != nil {
		printSyntaxError(err.Kind.String(), &err.SyntaxError)
		os.Exit(4)
	}
	//
	output := outputFile(cmd, cfg, filename)
	writeFile(output, artifact.Binary)
	// Optionally write symbol table
	if GetFlag(cmd, "symbols") || cfg.Output.Symbols {
		data, err := symbols.FromArtifact(artifact).Marshal()
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		writeFile(strings.TrimSuffix(output, filepath.Ext(output))+symbols.EXTENSION, data)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "output file (single input only)")
	compileCmd.Flags().Bool("symbols", false, "write a symbol table (.sym) alongside the binary")
	compileCmd.Flags().Bool("no-label-redefinition", false, "report redeclared labels as errors")
	compileCmd.Flags().Bool("no-implicit-globals", false, "require top-level variables to be declared")
}
