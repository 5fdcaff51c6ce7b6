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

const (
	TOKEN_IDENT TokenKind = iota
	TOKEN_NUMBER
	TOKEN_DIVIDER
	TOKEN_OPCODE
	TOKEN_REGISTER
	TOKEN_LABEL
	TOKEN_END
	TOKEN_ADDRESS
	TOKEN_STRING
)

const (
	ERROR_SYNTAX ErrorKind = iota
	ERROR_MALFORMED_DEFINITION
	ERROR_OPERAND_MISMATCH
	ERROR_UNEXPECTED_TOKEN
	ERROR_UNKNOWN_OPCODE
)

const DEFINE_KEYWORD = "def"

var mnemonics = []string{
	"stp", "psh", "pop", "dup", "mov",
	"add", "sub", "mul", "div", "not",
	"and", "or", "xor",
	"cmp", "jmp", "je", "jne", "jg", "js", "jo",
	"frs", "inc", "dec",
	"call", "ret", "syscall",
}

var registers = []string{"a", "b", "c", "d"}
