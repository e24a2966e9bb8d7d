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

	"github.com/consensys/go-nyet/pkg/nyet/bytecode"
	"github.com/consensys/go-nyet/pkg/nyet/symbols"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file.bin",
	Short: "disassemble a .NYET binary.",
	Long: `Print a listing of the instructions in a given .NYET binary.  When a
	symbol table is given, the listing is annotated with labels and source lines.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configure(cmd, args[0])
		//
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		disassembler := bytecode.NewDisassembler(os.Stdout)
		//
		if symfile := GetString(cmd, "symbols"); symfile != "" {
			disassembler.WithAnnotations(readSymbols(symfile))
		}
		//
		if err := disassembler.Disassemble(data); err != nil {
			fmt.Printf("%s: %s\n", args[0], err)
			os.Exit(4)
		}
	},
}

func readSymbols(filename string) *symbols.Table {
	data, err := os.ReadFile(filename)
	if err == nil {
		var table *symbols.Table
		//
		if table, err = symbols.Unmarshal(data); err == nil {
			return table
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(3)
	// unreachable
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().String("symbols", "", "symbol table (.sym) used to annotate the listing")
}
