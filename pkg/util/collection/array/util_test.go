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
package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isEven(x int) bool { return x%2 == 0 }

func TestRemoveMatching(t *testing.T) {
	assert.Equal(t, []int{1, 3}, RemoveMatching([]int{1, 2, 3, 4}, isEven))
	assert.Equal(t, []int{1, 3}, RemoveMatching([]int{1, 3}, isEven))
	assert.Equal(t, []int{}, RemoveMatching([]int{2, 4}, isEven))
}

func TestReverse(t *testing.T) {
	items := []string{"a", "b", "c"}
	//
	assert.Equal(t, []string{"c", "b", "a"}, Reverse(items))
	assert.Equal(t, []string{"a", "b", "c"}, items)
	assert.Equal(t, []string{}, Reverse([]string{}))
}
