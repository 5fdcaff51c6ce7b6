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
	"encoding/binary"
	"errors"
)

// Decodes an unsigned base-10 string. Values past 32 bits wrap around.
func DecodeUint(s string) (uint32, error) {
	if len(s) == 0 {
		return 0, errors.New("Invalid decimal string")
	}

	var result uint32

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c < '0' || c > '9' {
			return 0, errors.New("Invalid decimal string")
		}

		result = result*10 + uint32(c-'0')
	}

	return result, nil
}

func AppendUint32(buf []byte, value uint32) []byte {
	return binary.BigEndian.AppendUint32(buf, value)
}

func ReadUint32(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}

// Encodes one of the four register names as its operand byte
func EncodeRegister(name string) (byte, bool) {
	switch name {
	case "a":
		return REGISTER_A, true
	case "b":
		return REGISTER_B, true
	case "c":
		return REGISTER_C, true
	case "d":
		return REGISTER_D, true
	}

	return 0, false
}

func DecodeRegister(value byte) (string, bool) {
	switch value {
	case REGISTER_A:
		return "a", true
	case REGISTER_B:
		return "b", true
	case REGISTER_C:
		return "c", true
	case REGISTER_D:
		return "d", true
	}

	return "", false
}
