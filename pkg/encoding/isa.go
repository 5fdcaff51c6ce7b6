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

package encoding

import (
	"sort"
)

type OperandType uint

const (
	OPERAND_REGISTER OperandType = iota
	OPERAND_IMM32
	OPERAND_ADDR32
)

const (
	REGISTER_A byte = 0x00
	REGISTER_B byte = 0x01
	REGISTER_C byte = 0x02
	REGISTER_D byte = 0x03
)

const (
	SENTINEL      uint32 = 0x1D1D1D1D
	SENTINEL_SIZE uint32 = 4
	OPCODE_SIZE   uint32 = 1
)

// Form is one accepted operand combination of a mnemonic together with the
// opcode byte it encodes to.
type Form struct {
	Opcode   byte
	Operands []OperandType
}

// Width is the number of bytes an operand of the given type occupies in an
// encoded instruction. The lexer predicts label offsets with it and the
// assembler emits operands with it, so the two can never drift apart.
func Width(operand OperandType) uint32 {
	switch operand {
	case OPERAND_REGISTER:
		return 1
	case OPERAND_IMM32, OPERAND_ADDR32:
		return 4
	}

	panic("Invalid operand type")
}

func (form Form) Size() uint32 {
	size := OPCODE_SIZE

	for _, operand := range form.Operands {
		size += Width(operand)
	}

	return size
}

var (
	none    = []OperandType{}
	reg     = []OperandType{OPERAND_REGISTER}
	imm     = []OperandType{OPERAND_IMM32}
	addr    = []OperandType{OPERAND_ADDR32}
	regReg  = []OperandType{OPERAND_REGISTER, OPERAND_REGISTER}
	regImm  = []OperandType{OPERAND_REGISTER, OPERAND_IMM32}
	regAddr = []OperandType{OPERAND_REGISTER, OPERAND_ADDR32}
	addrImm = []OperandType{OPERAND_ADDR32, OPERAND_IMM32}
	addrReg = []OperandType{OPERAND_ADDR32, OPERAND_REGISTER}
)

// Instructions maps every mnemonic to its forms, tried in order.
var Instructions = map[string][]Form{
	"stp": {{0x00, none}},
	"psh": {{0x01, imm}, {0x02, reg}},
	"pop": {{0x03, reg}, {0x04, addr}},
	"dup": {{0x05, none}},
	"mov": {{0x06, regImm}, {0x07, addrImm}, {0x08, regAddr}, {0x09, addrReg}},

	"add": {{0x10, regReg}, {0x11, none}},
	"sub": {{0x12, regReg}, {0x13, none}},
	"mul": {{0x14, regReg}, {0x15, none}},
	"div": {{0x16, regReg}, {0x17, none}},
	"not": {{0x18, reg}, {0x19, none}},

	"and": {{0x20, regReg}, {0x21, none}},
	"or":  {{0x22, regReg}, {0x23, none}},
	"xor": {{0x24, regReg}, {0x25, none}},

	"cmp": {{0x30, regReg}, {0x31, regImm}, {0x32, imm}},
	"je":  {{0x33, addr}},
	"jne": {{0x34, addr}},
	"jg":  {{0x35, addr}},
	"js":  {{0x36, addr}},
	"jo":  {{0x37, addr}},
	"jmp": {{0x38, addr}},

	"frs": {{0x40, none}},

	"inc": {{0x50, reg}, {0x52, none}},
	"dec": {{0x51, reg}, {0x53, none}},

	"call": {{0x60, addr}},
	"ret":  {{0x61, none}},

	"syscall": {{0xFF, none}},
}

type opcodeEntry struct {
	Mnemonic string
	Form     Form
}

var opcodes = make(map[byte]opcodeEntry)

func init() {
	for mnemonic, forms := range Instructions {
		for _, form := range forms {
			if other, exists := opcodes[form.Opcode]; exists {
				panic(
					"Opcode collision between " + other.Mnemonic +
						" and " + mnemonic,
				)
			}

			opcodes[form.Opcode] = opcodeEntry{mnemonic, form}
		}
	}
}

// Lookup finds the mnemonic and form encoded by an opcode byte
func Lookup(opcode byte) (string, Form, bool) {
	entry, exists := opcodes[opcode]
	return entry.Mnemonic, entry.Form, exists
}

// Mnemonics returns the mnemonics of the table in sorted order
func Mnemonics() []string {
	result := make([]string, 0, len(Instructions))

	for mnemonic := range Instructions {
		result = append(result, mnemonic)
	}

	sort.Strings(result)

	return result
}
