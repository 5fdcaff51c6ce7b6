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

	"github.com/lassandro/ccasm/pkg/encoding"
)

func operandType(kind TokenKind) (encoding.OperandType, bool) {
	switch kind {
	case TOKEN_REGISTER:
		return encoding.OPERAND_REGISTER, true
	case TOKEN_NUMBER:
		return encoding.OPERAND_IMM32, true
	case TOKEN_ADDRESS:
		return encoding.OPERAND_ADDR32, true
	case TOKEN_IDENT,
		TOKEN_DIVIDER,
		TOKEN_OPCODE,
		TOKEN_LABEL,
		TOKEN_END,
		TOKEN_STRING:
		return 0, false
	}

	return 0, false
}

func endsInstruction(tok *Token) bool {
	return tok.Kind == TOKEN_OPCODE || tok.Kind == TOKEN_END
}

// nextInstruction skips the rest of a bad statement: it returns the index of
// the first token at or after i that is an Opcode, the End token, or the first
// token of a line past line.
func nextInstruction(tokens []Token, i int, line int) int {
	for i < len(tokens) && !endsInstruction(&tokens[i]) {
		if tokens[i].Position.Line > line {
			break
		}

		i++
	}

	return i
}

// matchForm checks whether the tokens following an opcode are exactly the
// operands of form, separated by dividers, and returns the operand tokens.
func matchForm(form encoding.Form, rest []Token) ([]Token, bool) {
	operands := make([]Token, 0, len(form.Operands))
	i := 0

	for n, want := range form.Operands {
		if n > 0 {
			if i >= len(rest) || rest[i].Kind != TOKEN_DIVIDER {
				return nil, false
			}

			i++
		}

		if i >= len(rest) {
			return nil, false
		}

		if have, ok := operandType(rest[i].Kind); !ok || have != want {
			return nil, false
		}

		operands = append(operands, rest[i])
		i++
	}

	if i < len(rest) && !endsInstruction(&rest[i]) {
		return nil, false
	}

	return operands, true
}

func appendOperand(buf []byte, operand encoding.OperandType, tok *Token) []byte {
	switch encoding.Width(operand) {
	case 1:
		reg, _ := encoding.EncodeRegister(tok.Text)
		return append(buf, reg)
	case 4:
		return encoding.AppendUint32(buf, tok.Value)
	}

	panic("Unsupported operand width")
}

func receivedKinds(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, 0, len(tokens))

	for _, tok := range tokens {
		if endsInstruction(&tok) {
			break
		}

		if tok.Kind != TOKEN_DIVIDER {
			kinds = append(kinds, tok.Kind)
		}
	}

	return kinds
}

// Encode writes the header blob, the sentinel and every instruction of
// tokens. Operand mismatches and stray tokens are collected so that all of
// them are reported at once; the image is discarded if there are any.
// An opcode missing from the instruction table aborts immediately.
func Encode(tokens []Token, definitions []Definition, symtable *SymTable) (result []byte, errs []error) {
	var headerSize int

	for _, def := range definitions {
		headerSize += len(def.Value)
	}

	result = make([]byte, 0, headerSize+int(encoding.SENTINEL_SIZE)+len(tokens)*2)
	errs = make([]error, 0)

	for _, def := range definitions {
		result = append(result, def.Value...)
	}

	result = encoding.AppendUint32(result, encoding.SENTINEL)

	i := 0

	for i < len(tokens) && tokens[i].Kind != TOKEN_END {
		tok := &tokens[i]

		if tok.Kind != TOKEN_OPCODE {
			errs = append(errs, &UnexpectedTokenError{tok.Position, *tok})
			i = nextInstruction(tokens, i+1, tok.Position.Line)
			continue
		}

		forms, exists := encoding.Instructions[tok.Text]

		if !exists {
			return nil, []error{&UnknownOpcodeError{tok.Position, tok.Text}}
		}

		var form encoding.Form
		var operands []Token
		var matched bool

		for _, form = range forms {
			if operands, matched = matchForm(form, tokens[i+1:]); matched {
				break
			}
		}

		if !matched {
			errs = append(
				errs,
				&OperandMismatchError{
					tok.Position,
					tok.Text,
					receivedKinds(tokens[i+1:]),
				},
			)

			i = nextInstruction(tokens, i+1, tok.Position.Line)
			continue
		}

		if symtable != nil {
			symtable.Symbols[uint32(len(result))] = tok.Position.LineByte
		}

		glog.V(3).Infof("encoder: %s at %d", tok.Text, len(result))

		result = append(result, form.Opcode)

		for n, operand := range operands {
			result = appendOperand(result, form.Operands[n], &operand)
		}

		if count := len(operands); count > 0 {
			// Operands plus the dividers between them
			i += 2 * count
		} else {
			i++
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return result, nil
}
