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
package termio

import (
	"os"

	"golang.org/x/term"
)

// DEFAULT_WIDTH is the width assumed for output which is not a terminal.
const DEFAULT_WIDTH = 80

// IsTerminal checks whether a given file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the width (in columns) of the terminal attached to a given
// file, or DEFAULT_WIDTH if there is none.
func Width(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	//
	if err != nil || width <= 0 {
		return DEFAULT_WIDTH
	}
	//
	return width
}

// Colouriser applies ANSI escapes to text, but only when enabled.  Output which
// is not a terminal (e.g. a file or pipe) should not be coloured.
type Colouriser struct {
	enabled bool
}

// NewColouriser constructs a colouriser for output to a given file.
func NewColouriser(f *os.File) Colouriser {
	return Colouriser{IsTerminal(f)}
}

// Apply a given escape to some text, resetting afterwards.
func (p Colouriser) Apply(escape AnsiEscape, text string) string {
	if !p.enabled {
		return text
	}
	//
	return escape.Build() + text + ResetAnsiEscape().Build()
}
