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
package util

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-nyet/pkg/nyet/bytecode"
	"github.com/consensys/go-nyet/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the source files and their expected listings are found.
const TestDir = "../../testdata"

// LISTING_EXT is the extension of a file holding the expected disassembly of a
// valid test.
const LISTING_EXT = "dis"

// BinaryCompiler compiles a source file into a packaged binary, or produces
// one or more errors.
type BinaryCompiler func(*source.File) ([]byte, []source.SyntaxError)

// CheckValid checks that a given source file compiles, and that the
// disassembly of the resulting binary matches the expected listing.  Test
// files are located at TestDir/DIR/valid/TEST.EXT, with the listing alongside
// in TEST.dis.
func CheckValid(t *testing.T, dir, test, ext string, compiler BinaryCompiler) {
	var (
		prefix   = fmt.Sprintf("%s/%s/valid/%s", TestDir, dir, test)
		filename = fmt.Sprintf("%s.%s", prefix, ext)
	)
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	//
	binary, errs := compiler(srcfile)
	if len(errs) > 0 {
		for _, err := range errs {
			t.Errorf("unexpected error %s", errorToString(err))
		}
		//
		t.FailNow()
	}
	//
	expected, err := os.ReadFile(fmt.Sprintf("%s.%s", prefix, LISTING_EXT))
	if err != nil {
		t.Fatal(err)
	}
	//
	var listing strings.Builder
	if err := bytecode.NewDisassembler(&listing).Disassemble(binary); err != nil {
		t.Fatalf("Error %s: %s", filename, err.Error())
	}
	//
	if listing.String() != string(expected) {
		t.Fatalf("Error %s: listing mismatch\n--- expected\n%s--- actual\n%s", filename, expected, listing.String())
	}
}
