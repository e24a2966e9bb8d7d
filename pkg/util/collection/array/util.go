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

// Predicate abstracts the notion of a function which identifies something.
type Predicate[T any] func(T) bool

// RemoveMatching removes all elements from an array matching the given item.
// If no items match, then the original array is returned unchanged.
func RemoveMatching[T any](items []T, predicate Predicate[T]) []T {
	count := 0
	// Check how many matches we have
	for _, r := range items {
		if !predicate(r) {
			count++
		}
	}
	// Check for stuff to remove
	if count == len(items) {
		return items
	}
	//
	nitems := make([]T, 0, count)
	// Remove items
	for _, r := range items {
		if !predicate(r) {
			nitems = append(nitems, r)
		}
	}
	//
	return nitems
}

// Reverse returns a fresh array containing the items of a given array in
// reverse order.  The original array is not modified.
func Reverse[T any](items []T) []T {
	var (
		n      = len(items) - 1
		nitems = make([]T, len(items))
	)
	// Write in reverse order
	for i := range items {
		nitems[i] = items[n-i]
	}
	//
	return nitems
}
