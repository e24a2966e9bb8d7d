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
package bytecode

import (
	"fmt"
	"strconv"
)

// TypeTag is the one byte discriminator preceding the payload of a PUSH
// instruction.  It identifies the runtime kind of the value being pushed.
type TypeTag uint8

const (
	// NULL_TAG identifies the null value, which has no payload.
	NULL_TAG TypeTag = 0
	// INTEGER_TAG identifies a signed 64-bit integer (8 bytes, little endian).
	INTEGER_TAG TypeTag = 1
	// DOUBLE_TAG identifies an IEEE-754 double (8 bytes, little endian).
	DOUBLE_TAG TypeTag = 2
	// BOOLEAN_TAG identifies a boolean (1 byte, 0 or 1).
	BOOLEAN_TAG TypeTag = 3
	// STRING_TAG identifies a string (uint32 byte length, then UTF-8 bytes).
	STRING_TAG TypeTag = 4
)

// IsValid checks whether this is a known type tag.
func (t TypeTag) IsValid() bool {
	return t <= STRING_TAG
}

func (t TypeTag) String() string {
	switch t {
	case NULL_TAG:
		return "null"
	case INTEGER_TAG:
		return "int"
	case DOUBLE_TAG:
		return "double"
	case BOOLEAN_TAG:
		return "bool"
	case STRING_TAG:
		return "string"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// Value is a literal value as carried by a PUSH instruction.  Only the field
// corresponding to the tag is meaningful.
type Value struct {
	Tag    TypeTag
	Int    int64
	Double float64
	Bool   bool
	Str    string
}

// NullValue constructs the null value.
func NullValue() Value {
	return Value{Tag: NULL_TAG}
}

// IntValue constructs an integer value.
func IntValue(v int64) Value {
	return Value{Tag: INTEGER_TAG, Int: v}
}

// DoubleValue constructs a double value.
func DoubleValue(v float64) Value {
	return Value{Tag: DOUBLE_TAG, Double: v}
}

// BoolValue constructs a boolean value.
func BoolValue(v bool) Value {
	return Value{Tag: BOOLEAN_TAG, Bool: v}
}

// StringValue constructs a string value.
func StringValue(v string) Value {
	return Value{Tag: STRING_TAG, Str: v}
}

// Size returns the number of bytes needed to encode this value, including its
// type tag.
func (v Value) Size() uint32 {
	switch v.Tag {
	case INTEGER_TAG, DOUBLE_TAG:
		return 9
	case BOOLEAN_TAG:
		return 2
	case STRING_TAG:
		return 5 + uint32(len(v.Str))
	default:
		return 1
	}
}

func (v Value) String() string {
	switch v.Tag {
	case NULL_TAG:
		return "null"
	case INTEGER_TAG:
		return fmt.Sprintf("int %d", v.Int)
	case DOUBLE_TAG:
		return fmt.Sprintf("double %s", strconv.FormatFloat(v.Double, 'g', -1, 64))
	case BOOLEAN_TAG:
		return fmt.Sprintf("bool %t", v.Bool)
	case STRING_TAG:
		return fmt.Sprintf("string %s", strconv.Quote(v.Str))
	default:
		return v.Tag.String()
	}
}
