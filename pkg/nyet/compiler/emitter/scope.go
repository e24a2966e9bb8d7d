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
package emitter

// Scope maps the variables visible within a single function (or the program
// scope) to dense indices, starting from 0.  Parameters occupy the first
// indices in declaration order, followed by local variables.
type Scope struct {
	indices map[string]uint32
	names   []string
}

// NewScope constructs a scope pre-populated with a given set of parameters.
// Parameters are assumed to be distinct.
func NewScope(params ...string) *Scope {
	scope := &Scope{make(map[string]uint32), nil}
	//
	for _, p := range params {
		scope.Declare(p)
	}
	//
	return scope
}

// Declare allocates the next free index to a given name.  This fails (i.e.
// returns false) if the name is already declared in this scope.
func (p *Scope) Declare(name string) (uint32, bool) {
	if _, ok := p.indices[name]; ok {
		return 0, false
	}
	//
	index := uint32(len(p.names))
	p.indices[name] = index
	p.names = append(p.names, name)
	//
	return index, true
}

// Lookup the index of a given name, if it is declared in this scope.
func (p *Scope) Lookup(name string) (uint32, bool) {
	index, ok := p.indices[name]
	return index, ok
}

// Names returns the declared names, ordered by index.
func (p *Scope) Names() []string {
	return p.names
}
