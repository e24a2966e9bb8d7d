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
package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_PushPop(t *testing.T) {
	s := NewStack[string]()
	assert.Equal(t, uint(0), s.Len())
	//
	s.Push("a")
	s.Push("b")
	assert.Equal(t, uint(2), s.Len())
	assert.Equal(t, "b", s.Top())
	assert.Equal(t, "a", s.Peek(1))
	//
	assert.Equal(t, "b", s.Pop())
	assert.Equal(t, "a", s.Pop())
	assert.Equal(t, uint(0), s.Len())
}

func TestStack_Underflow(t *testing.T) {
	s := NewStack[int]()
	//
	assert.Panics(t, func() { s.Pop() })
	assert.Panics(t, func() { s.Top() })
	s.Push(1)
	assert.Panics(t, func() { s.Peek(1) })
}
