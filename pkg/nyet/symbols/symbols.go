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
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/consensys/go-nyet/pkg/nyet/compiler"
	"github.com/fxamacker/cbor/v2"
)

// VERSION identifies the layout of the symbol table encoding.
const VERSION uint = 1

// EXTENSION is the conventional file extension of a symbol table.
const EXTENSION = ".sym"

// Canonical encoding, such that identical artifacts produce identical tables.
var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("symbols: failed to create CBOR enc mode: %v", err))
	}
	//
	encMode = em
}

// LineEntry associates an instruction offset with a source line.
type LineEntry struct {
	Offset uint32 `cbor:"1,keyasint"`
	Line   int    `cbor:"2,keyasint"`
}

// Table holds the debugging information for a compiled binary.  This is stored
// alongside the binary, rather than within it, so the binary format is
// unaffected.  All offsets exclude the header.
type Table struct {
	Version   uint              `cbor:"1,keyasint"`
	Source    string            `cbor:"2,keyasint"`
	Functions map[string]uint32 `cbor:"3,keyasint,omitempty"`
	Labels    map[string]uint32 `cbor:"4,keyasint,omitempty"`
	// Lines is sorted by offset.
	Lines []LineEntry `cbor:"5,keyasint,omitempty"`
}

// FromArtifact constructs the symbol table for a compiled artifact.
func FromArtifact(artifact compiler.Artifact) *Table {
	lines := make([]LineEntry, len(artifact.Lines))
	//
	for i, entry := range artifact.Lines {
		lines[i] = LineEntry{entry.Offset, entry.Line}
	}
	// Sorted for LineAt
	slices.SortStableFunc(lines, func(l, r LineEntry) int {
		return cmp.Compare(l.Offset, r.Offset)
	})
	//
	return &Table{VERSION, artifact.Source, artifact.Functions, artifact.Labels, lines}
}

// Marshal encodes this table using canonical CBOR.
func (t *Table) Marshal() ([]byte, error) {
	return encMode.Marshal(t)
}

// Unmarshal decodes a table previously encoded with Marshal.
func Unmarshal(data []byte) (*Table, error) {
	var t Table
	//
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("symbols: unmarshal table: %w", err)
	} else if t.Version != VERSION {
		return nil, fmt.Errorf("symbols: unsupported version %d", t.Version)
	}
	//
	return &t, nil
}

// LabelsAt returns the (sorted) names of all labels bound to a given offset.
func (t *Table) LabelsAt(offset uint32) []string {
	var names []string
	//
	for name, off := range t.Labels {
		if off == offset {
			names = append(names, name)
		}
	}
	//
	sort.Strings(names)
	//
	return names
}

// LineAt returns the source line of the statement whose first instruction
// starts at a given offset.
func (t *Table) LineAt(offset uint32) (int, bool) {
	i, found := slices.BinarySearchFunc(t.Lines, offset, func(e LineEntry, target uint32) int {
		return cmp.Compare(e.Offset, target)
	})
	//
	if !found {
		return 0, false
	}
	//
	return t.Lines[i].Line, true
}
