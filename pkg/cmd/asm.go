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
	"os"

	"github.com/consensys/go-nyet/pkg/nyet/asm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] file.nasm",
	Short: "assemble a source file into a .NYET binary.",
	Long: `Assemble a source file written in the line-oriented assembly language
	(one mnemonic per line, plus labels) into a .NYET binary.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			filename = args[0]
			cfg      = configure(cmd, filename)
			srcfile  = readSourceFile(filename)
		)
		//
		assembly, errs := asm.Assemble(srcfile)
		if len(errs) > 0 {
			for _, err := range errs {
				printSyntaxError("assembly error", &err)
			}
			//
			os.Exit(4)
		}
		//
		log.Debugf("assembled %d labels", len(assembly.Labels))
		writeFile(outputFile(cmd, cfg, filename), assembly.Binary)
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(asmCmd)
	asmCmd.Flags().StringP("output", "o", "", "output file")
}
