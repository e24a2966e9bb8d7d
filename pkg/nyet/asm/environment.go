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
package asm

import (
	"math"

	"github.com/consensys/go-nyet/pkg/nyet/compiler/parser"
)

// Label represents a potentially unbound label within an assembly.
type Label struct {
	// Name of the label
	name string
	// Offset the label represents.  This will be math.MaxUint32 until the
	// label is officially declared.
	offset uint32
}

// UnboundLabel constructs a label whose offset is (as yet) unknown.
func UnboundLabel(name string) Label {
	return Label{name, math.MaxUint32}
}

// BoundLabel constructs a label whose offset is known.
func BoundLabel(name string, offset uint32) Label {
	return Label{name, offset}
}

// Fixup records a jump operand awaiting the offset of a given label.
type Fixup struct {
	// Position of the placeholder within the instruction stream.
	position uint32
	// Index of the label in the environment.
	label uint
	// Token naming the label, for error reporting.
	token parser.Token
}

// Environment captures useful information used during the assembling process.
type Environment struct {
	// Labels identifies branch targets.
	labels []Label
	// Fixups identifies jump operands to patch.
	fixups []Fixup
}

// BindLabel associates a label with a given index which can subsequently be
// used to determine a concrete offset.
func (p *Environment) BindLabel(name string) uint {
	// Check whether label already declared.
	for i, lab := range p.labels {
		if lab.name == name {
			return uint(i)
		}
	}
	// Determine index for new label
	index := uint(len(p.labels))
	// Create new label
	p.labels = append(p.labels, UnboundLabel(name))
	// Done
	return index
}

// DeclareLabel declares a given label at a given offset.  If a label with the
// same name is already bound, this will panic.
func (p *Environment) DeclareLabel(name string, offset uint32) {
	// First, check whether the label already exists
	for i, lab := range p.labels {
		if lab.name == name {
			if lab.offset == math.MaxUint32 {
				p.labels[i].offset = offset
				return
			}
			//
			panic("label already bound")
		}
	}
	// Create new label
	p.labels = append(p.labels, BoundLabel(name, offset))
}

// IsBoundLabel checks whether or not a given label has already been bound to a
// given offset.
func (p *Environment) IsBoundLabel(name string) bool {
	for _, l := range p.labels {
		if l.name == name && l.offset != math.MaxUint32 {
			return true
		}
	}
	//
	return false
}

// Labels returns the offsets of all bound labels.
func (p *Environment) Labels() map[string]uint32 {
	labels := make(map[string]uint32)
	//
	for _, l := range p.labels {
		if l.offset != math.MaxUint32 {
			labels[l.name] = l.offset
		}
	}
	//
	return labels
}
