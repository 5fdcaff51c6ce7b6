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

package image

import (
	"fmt"

	"github.com/lassandro/ccasm/pkg/encoding"
)

type Image struct {
	Header []byte
	Code   []byte
}

type Operand struct {
	Type  encoding.OperandType
	Value uint32
}

type Instruction struct {
	Offset   uint32
	Opcode   byte
	Mnemonic string
	Operands []Operand
}

type MissingSentinelError struct{}

func (err *MissingSentinelError) Error() string {
	return "Image has no header sentinel"
}

type UnknownOpcodeError struct {
	Offset uint32
	Opcode byte
}

func (err *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("%#08x: Unknown opcode %#02x", err.Offset, err.Opcode)
}

type TruncatedInstructionError struct {
	Offset   uint32
	Mnemonic string
	Required uint32
	Received uint32
}

func (err *TruncatedInstructionError) Error() string {
	return fmt.Sprintf(
		"%#08x: Truncated '%s' instruction\n\twant:%d\n\thave:%d",
		err.Offset,
		err.Mnemonic,
		err.Required,
		err.Received,
	)
}

type InvalidRegisterError struct {
	Offset uint32
	Value  byte
}

func (err *InvalidRegisterError) Error() string {
	return fmt.Sprintf("%#08x: Invalid register %#02x", err.Offset, err.Value)
}
