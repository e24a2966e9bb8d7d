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
package compiler

import (
	"fmt"

	"github.com/consensys/go-nyet/pkg/nyet/compiler/emitter"
	"github.com/consensys/go-nyet/pkg/nyet/compiler/parser"
	"github.com/consensys/go-nyet/pkg/util"
	"github.com/consensys/go-nyet/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Option configures a compilation.
type Option func(*emitter.Options)

// WithLabelRedefinition determines whether redeclaring a label is permitted.
func WithLabelRedefinition(allow bool) Option {
	return func(o *emitter.Options) {
		o.AllowLabelRedefinition = allow
	}
}

// WithImplicitGlobals determines whether top-level assignments to undeclared
// names declare them.
func WithImplicitGlobals(allow bool) Option {
	return func(o *emitter.Options) {
		o.ImplicitGlobals = allow
	}
}

// WithOptions replaces all emission options at once.
func WithOptions(options emitter.Options) Option {
	return func(o *emitter.Options) {
		*o = options
	}
}

// Artifact is the result of a successful compilation: the finished binary,
// along with the debugging information gathered whilst emitting it.
type Artifact struct {
	// Source file from which this artifact was compiled.
	Source string
	// Binary is the complete .NYET binary (header included).
	Binary []byte
	// Functions maps each function to the offset of its DEF instruction.
	Functions map[string]uint32
	// Labels maps each label to the offset of the following instruction.
	Labels map[string]uint32
	// Lines maps instruction offsets to the source lines they came from.
	Lines []emitter.LineEntry
}

// Compile a given source file into a .NYET binary.  Compilation is all or
// nothing: on failure, the first error encountered is returned and no artifact
// is produced.
func Compile(srcfile *source.File, opts ...Option) (Artifact, *Error) {
	var (
		options = emitter.DefaultOptions()
		stats   = util.NewPerfStats()
	)
	//
	for _, opt := range opts {
		opt(&options)
	}
	// Lexing
	tokens, errs := parser.Lex(*srcfile)
	if len(errs) > 0 {
		return Artifact{}, newError(LEX_ERROR, errs)
	}
	//
	log.Debugf("lexed %d tokens from %s", len(tokens), srcfile.Filename())
	// Parsing
	program, srcmap, errs := parser.NewParser(srcfile).Parse(tokens)
	if len(errs) > 0 {
		return Artifact{}, newError(PARSE_ERROR, errs)
	}
	//
	log.Debugf("parsed %d top-level statements", len(program.Statements))
	// Emission
	result, errs := emitter.Emit(program, srcmap, options)
	if len(errs) > 0 {
		return Artifact{}, newError(COMPILE_ERROR, errs)
	}
	//
	log.Debugf("emitted %d bytes, %d functions, %d labels, %d fixups", len(result.Binary),
		len(result.Functions), len(result.Labels), result.Fixups)
	stats.Log(fmt.Sprintf("Compiling %s", srcfile.Filename()))
	//
	return Artifact{
		Source:    srcfile.Filename(),
		Binary:    result.Binary,
		Functions: result.Functions,
		Labels:    result.Labels,
		Lines:     result.Lines,
	}, nil
}

// CompileString compiles source text into a .NYET binary, or returns an error
// (of type *Error) describing why this was not possible.
func CompileString(text string, opts ...Option) ([]byte, error) {
	artifact, err := Compile(source.NewSourceFile("<input>", []byte(text)), opts...)
	// Avoid returning a non-nil interface holding a nil pointer.
	if err != nil {
		return nil, err
	}
	//
	return artifact.Binary, nil
}
