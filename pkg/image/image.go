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
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/ccasm/pkg/encoding"
)

// Load reads a program image and splits it into header and code. A header
// may itself contain or end in sentinel bytes, so every occurrence of the
// sentinel is tried in order and the first one leaving a code section that
// decodes completely is chosen. When none does, the first occurrence is used
// and the decoding error surfaces from Disassemble.
func Load(reader io.Reader) (*Image, error) {
	data, err := io.ReadAll(reader)

	if err != nil {
		return nil, err
	}

	sentinel := encoding.AppendUint32(nil, encoding.SENTINEL)
	first := -1

	for start := 0; start <= len(data)-len(sentinel); start++ {
		index := bytes.Index(data[start:], sentinel)

		if index < 0 {
			break
		}

		index += start
		img := &Image{
			Header: data[:index],
			Code:   data[index+len(sentinel):],
		}

		if first < 0 {
			first = index
		}

		if _, err := decode(img.Code, img.CodeOffset()); err == nil {
			return img, nil
		}

		start = index
	}

	if first < 0 {
		return nil, &MissingSentinelError{}
	}

	return &Image{
		Header: data[:first],
		Code:   data[first+len(sentinel):],
	}, nil
}

func (img *Image) CodeOffset() uint32 {
	return uint32(len(img.Header)) + encoding.SENTINEL_SIZE
}

// Disassemble decodes every instruction of the code section. Offsets are
// image offsets, the same ones labels resolve to.
func (img *Image) Disassemble() ([]Instruction, error) {
	return decode(img.Code, img.CodeOffset())
}

// decode walks code, whose first byte sits at image offset base.
func decode(code []byte, base uint32) ([]Instruction, error) {
	result := make([]Instruction, 0)
	pos := uint32(0)

	for pos < uint32(len(code)) {
		offset := base + pos
		opcode := code[pos]
		mnemonic, form, exists := encoding.Lookup(opcode)

		if !exists {
			return result, &UnknownOpcodeError{offset, opcode}
		}

		if remaining := uint32(len(code)) - pos; remaining < form.Size() {
			return result, &TruncatedInstructionError{
				offset, mnemonic, form.Size(), remaining,
			}
		}

		inst := Instruction{
			Offset:   offset,
			Opcode:   opcode,
			Mnemonic: mnemonic,
			Operands: make([]Operand, 0, len(form.Operands)),
		}

		pos += encoding.OPCODE_SIZE

		for _, operand := range form.Operands {
			var value uint32

			switch encoding.Width(operand) {
			case 1:
				value = uint32(code[pos])

				if _, ok := encoding.DecodeRegister(code[pos]); !ok {
					return result, &InvalidRegisterError{offset, code[pos]}
				}
			case 4:
				value = encoding.ReadUint32(code[pos:])
			}

			inst.Operands = append(inst.Operands, Operand{operand, value})
			pos += encoding.Width(operand)
		}

		result = append(result, inst)
	}

	return result, nil
}

// Format renders the instruction in assembler syntax. Addresses found in
// labels are printed by name.
func (inst Instruction) Format(labels map[uint32]string) string {
	if len(inst.Operands) == 0 {
		return inst.Mnemonic
	}

	operands := make([]string, 0, len(inst.Operands))

	for _, operand := range inst.Operands {
		switch operand.Type {
		case encoding.OPERAND_REGISTER:
			name, _ := encoding.DecodeRegister(byte(operand.Value))
			operands = append(operands, name)
		case encoding.OPERAND_IMM32:
			operands = append(operands, fmt.Sprintf("%d", operand.Value))
		case encoding.OPERAND_ADDR32:
			if label, exists := labels[operand.Value]; exists {
				operands = append(operands, label)
			} else {
				operands = append(operands, fmt.Sprintf("&%d", operand.Value))
			}
		}
	}

	return inst.Mnemonic + " " + strings.Join(operands, ", ")
}

func (inst Instruction) String() string {
	return inst.Format(nil)
}
