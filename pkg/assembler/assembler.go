// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"io"
)

// Prepare runs every pass ahead of encoding: lexing, classification, label
// resolution and definition extraction.
func Prepare(source []byte) (*Program, error) {
	listing, err := Lex(source)

	if err != nil {
		return nil, err
	}

	Classify(listing.Tokens)
	ResolveLabels(listing.Tokens, listing.Markers)

	tokens, definitions, err := ExtractDefinitions(listing.Tokens)

	if err != nil {
		return nil, err
	}

	ResolveDefinitions(tokens, definitions)

	return &Program{
		Tokens:      tokens,
		Markers:     listing.Markers,
		Definitions: definitions,
	}, nil
}

// Encode encodes the prepared program, filling symtable when it is non-nil.
func (prog *Program) Encode(symtable *SymTable) ([]byte, []error) {
	if symtable != nil {
		for _, marker := range prog.Markers {
			if _, exists := symtable.Labels[marker.Offset]; !exists {
				symtable.Labels[marker.Offset] = marker.Name
			}
		}

		for _, def := range prog.Definitions {
			if _, exists := symtable.Definitions[def.Name]; !exists {
				symtable.Definitions[def.Name] = def.Pointer
			}
		}
	}

	return Encode(prog.Tokens, prog.Definitions, symtable)
}

// Assemble translates source into a program image. The image is nil whenever
// errs is non-empty. A fatal error is always returned alone.
func Assemble(source []byte, symtable *SymTable) (result []byte, errs []error) {
	prog, err := Prepare(source)

	if err != nil {
		return nil, []error{err}
	}

	return prog.Encode(symtable)
}

func AssembleReader(input io.Reader, symtable *SymTable) (result []byte, errs []error) {
	source, err := io.ReadAll(input)

	if err != nil {
		return nil, []error{err}
	}

	return Assemble(source, symtable)
}
