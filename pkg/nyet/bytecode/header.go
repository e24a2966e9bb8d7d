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
	"bytes"
	"errors"
	"fmt"
)

// HEADER_SIZE is the number of bytes preceding the instruction stream.
const HEADER_SIZE = 5

// FORMAT_VERSION is the (only) version of the binary format currently
// produced.
const FORMAT_VERSION uint8 = 0x01

// MAGIC identifies a .NYET binary.
var MAGIC = [4]byte{'N', 'Y', 'E', 'T'}

// ErrBadMagic indicates a binary which does not start with the expected magic
// identifier.
var ErrBadMagic = errors.New("not a NYET binary (bad magic)")

// Header provides a structured header for the binary file format.  This
// consists of a fixed identifier followed by a single version byte.
type Header struct {
	Identifier [4]byte
	Version    uint8
}

// NewHeader constructs the header for the currently supported version.
func NewHeader() Header {
	return Header{MAGIC, FORMAT_VERSION}
}

// MarshalBinary converts the header into a sequence of bytes.
func (p *Header) MarshalBinary() ([]byte, error) {
	var buffer bytes.Buffer
	// Write identifier
	buffer.Write(p.Identifier[:])
	// Write version
	buffer.WriteByte(p.Version)
	// Done
	return buffer.Bytes(), nil
}

// UnmarshalBinary initialises this header from the start of a given sequence
// of bytes.  This should match exactly the encoding above.
func (p *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HEADER_SIZE {
		return fmt.Errorf("truncated header (%d bytes)", len(data))
	}
	//
	copy(p.Identifier[:], data[:4])
	p.Version = data[4]
	//
	if p.Identifier != MAGIC {
		return ErrBadMagic
	} else if p.Version != FORMAT_VERSION {
		return fmt.Errorf("unsupported format version %d", p.Version)
	}
	//
	return nil
}

// Package prefixes a given instruction stream with the standard header,
// producing a fresh binary.
func Package(code []byte) []byte {
	var (
		header = NewHeader()
		// Cannot fail
		prefix, _ = header.MarshalBinary()
		binary    = make([]byte, 0, len(prefix)+len(code))
	)
	//
	binary = append(binary, prefix...)
	//
	return append(binary, code...)
}
