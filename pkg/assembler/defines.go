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
	"github.com/golang/glog"
)

// ExtractDefinitions removes every `def NAME VALUE` triple from tokens and
// returns the remaining stream along with the definition table. Pointers are
// offsets into the header blob, which holds the values back to back.
func ExtractDefinitions(tokens []Token) ([]Token, []Definition, error) {
	result := make([]Token, 0, len(tokens))
	definitions := make([]Definition, 0)

	var header uint32 = 0

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.Kind == TOKEN_END {
			result = append(result, tok)
			break
		}

		if tok.Kind != TOKEN_IDENT || tok.Text != DEFINE_KEYWORD {
			result = append(result, tok)
			continue
		}

		if i+2 >= len(tokens) ||
			tokens[i+1].Kind == TOKEN_END ||
			tokens[i+2].Kind == TOKEN_END {
			return nil, nil, &MalformedDefinitionError{
				tok.Position, "expected a name and a value",
			}
		}

		name, value := tokens[i+1], tokens[i+2]

		if name.Kind != TOKEN_IDENT {
			return nil, nil, &MalformedDefinitionError{
				name.Position, "expected a name, have " + name.Kind.String(),
			}
		}

		if value.Kind == TOKEN_DIVIDER {
			return nil, nil, &MalformedDefinitionError{
				value.Position, "expected a value, have " + value.Kind.String(),
			}
		}

		definitions = append(definitions, Definition{
			Name:     name.Text,
			Value:    value.Text,
			Pointer:  header,
			Position: tok.Position,
		})

		glog.V(2).Infof(
			"definitions: %s = %q at %d", name.Text, value.Text, header,
		)

		header += uint32(len(value.Text))
		i += 2
	}

	return result, definitions, nil
}

// ResolveDefinitions rewrites every identifier naming a definition into a
// Number token holding that definition's header pointer.
func ResolveDefinitions(tokens []Token, definitions []Definition) {
	for _, def := range definitions {
		for i := range tokens {
			if tokens[i].Kind != TOKEN_IDENT || tokens[i].Text != def.Name {
				continue
			}

			tokens[i].Kind = TOKEN_NUMBER
			tokens[i].Value = def.Pointer
		}
	}
}
