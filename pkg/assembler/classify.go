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

var (
	opcodeNames   = make(map[string]struct{}, len(mnemonics))
	registerNames = make(map[string]struct{}, len(registers))
)

func init() {
	for _, mnemonic := range mnemonics {
		opcodeNames[mnemonic] = struct{}{}
	}

	for _, register := range registers {
		registerNames[register] = struct{}{}
	}
}

func classifyIdent(text string) TokenKind {
	if _, exists := opcodeNames[text]; exists {
		return TOKEN_OPCODE
	} else if _, exists := registerNames[text]; exists {
		return TOKEN_REGISTER
	}

	return TOKEN_IDENT
}

// Classify turns identifiers naming a mnemonic into Opcode tokens and those
// naming a register into Register tokens. Other identifiers are untouched.
func Classify(tokens []Token) {
	for i := range tokens {
		if tokens[i].Kind == TOKEN_IDENT {
			tokens[i].Kind = classifyIdent(tokens[i].Text)
		}
	}
}
