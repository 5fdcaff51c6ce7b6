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
	"fmt"
	"strings"

	"github.com/lassandro/ccasm/pkg/encoding"
)

type TokenKind uint
type ErrorKind uint

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

// Token is one lexeme of the source. Number and Address tokens carry their
// payload in Value, every token keeps its source text in Text (for strings,
// the text between the delimiters).
type Token struct {
	Kind     TokenKind
	Position Cursor
	Value    uint32
	Text     string
}

type Marker struct {
	Name     string
	Offset   uint32
	Position Cursor
}

type Definition struct {
	Name     string
	Value    string
	Pointer  uint32
	Position Cursor
}

type Listing struct {
	Tokens     []Token
	Markers    []Marker
	HeaderSize uint32
}

// Program is the token stream after every rewriting pass, ready to encode.
type Program struct {
	Tokens      []Token
	Markers     []Marker
	Definitions []Definition
}

type SymTable struct {
	Source      string
	Symbols     map[uint32]int64
	Labels      map[uint32]string
	Definitions map[string]uint32
}

func NewSymTable(source string) *SymTable {
	return &SymTable{
		Source:      source,
		Symbols:     make(map[uint32]int64),
		Labels:      make(map[uint32]string),
		Definitions: make(map[string]uint32),
	}
}

func (kind TokenKind) String() string {
	switch kind {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_NUMBER:
		return "Number"
	case TOKEN_DIVIDER:
		return "Divider"
	case TOKEN_OPCODE:
		return "Opcode"
	case TOKEN_REGISTER:
		return "Register"
	case TOKEN_LABEL:
		return "Label"
	case TOKEN_END:
		return "End"
	case TOKEN_ADDRESS:
		return "Address"
	case TOKEN_STRING:
		return "String"
	}

	return "<invalid>"
}

func (tok Token) String() string {
	switch tok.Kind {
	case TOKEN_NUMBER, TOKEN_ADDRESS:
		return fmt.Sprintf("%s(%d)", tok.Kind, tok.Value)
	case TOKEN_END:
		return tok.Kind.String()
	}

	return fmt.Sprintf("%s(%q)", tok.Kind, tok.Text)
}

func (kind ErrorKind) String() string {
	switch kind {
	case ERROR_SYNTAX:
		return "SyntaxError"
	case ERROR_MALFORMED_DEFINITION:
		return "MalformedDefinition"
	case ERROR_OPERAND_MISMATCH:
		return "OperandMismatch"
	case ERROR_UNEXPECTED_TOKEN:
		return "UnexpectedToken"
	case ERROR_UNKNOWN_OPCODE:
		return "UnknownOpcode"
	}

	return "<invalid>"
}

// Fatal reports whether an error of this kind stops the pipeline at the stage
// that found it. Recoverable errors are collected for the whole encoder pass.
func (kind ErrorKind) Fatal() bool {
	switch kind {
	case ERROR_OPERAND_MISMATCH, ERROR_UNEXPECTED_TOKEN:
		return false
	}

	return true
}

type TokenError interface {
	error
	GetPosition() Cursor
	GetKind() ErrorKind
}

type SyntaxError struct {
	Position Cursor
	Message  string
	Received byte
}

func (err *SyntaxError) GetPosition() Cursor {
	return err.Position
}

func (err *SyntaxError) GetKind() ErrorKind {
	return ERROR_SYNTAX
}

func (err *SyntaxError) Error() string {
	var received string

	if err.Received >= 0x80 {
		received = fmt.Sprintf("%#02x", err.Received)
	} else {
		received = fmt.Sprintf("%q", rune(err.Received))
	}

	return fmt.Sprintf(
		"%02d:%02d: %s %s",
		err.Position.Line,
		err.Position.Column,
		err.Message,
		received,
	)
}

type MalformedDefinitionError struct {
	Position Cursor
	Message  string
}

func (err *MalformedDefinitionError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedDefinitionError) GetKind() ErrorKind {
	return ERROR_MALFORMED_DEFINITION
}

func (err *MalformedDefinitionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Malformed definition, %s",
		err.Position.Line,
		err.Position.Column,
		err.Message,
	)
}

type OperandMismatchError struct {
	Position Cursor
	Mnemonic string
	Received []TokenKind
}

func (err *OperandMismatchError) GetPosition() Cursor {
	return err.Position
}

func (err *OperandMismatchError) GetKind() ErrorKind {
	return ERROR_OPERAND_MISMATCH
}

func (err *OperandMismatchError) Error() string {
	forms := encoding.Instructions[err.Mnemonic]
	wantStrings := make([]string, 0, len(forms))

	for _, form := range forms {
		wantStrings = append(wantStrings, describeForm(form))
	}

	haveStrings := make([]string, 0, len(err.Received))

	for _, kind := range err.Received {
		haveStrings = append(haveStrings, kind.String())
	}

	have := strings.Join(haveStrings, ", ")

	if have == "" {
		have = "none"
	}

	return fmt.Sprintf(
		"%02d:%02d: Illegal combination of operands for '%s'\n"+
			"\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Mnemonic,
		strings.Join(wantStrings, " or "),
		have,
	)
}

func describeForm(form encoding.Form) string {
	if len(form.Operands) == 0 {
		return "none"
	}

	operands := make([]string, 0, len(form.Operands))

	for _, operand := range form.Operands {
		switch operand {
		case encoding.OPERAND_REGISTER:
			operands = append(operands, "Register")
		case encoding.OPERAND_IMM32:
			operands = append(operands, "Number")
		case encoding.OPERAND_ADDR32:
			operands = append(operands, "Address")
		}
	}

	return strings.Join(operands, ", ")
}

type UnexpectedTokenError struct {
	Position Cursor
	Received Token
}

func (err *UnexpectedTokenError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedTokenError) GetKind() ErrorKind {
	return ERROR_UNEXPECTED_TOKEN
}

func (err *UnexpectedTokenError) Error() string {
	var received string

	switch err.Received.Kind {
	case TOKEN_NUMBER, TOKEN_ADDRESS:
		received = fmt.Sprintf("%d", err.Received.Value)
	default:
		received = err.Received.Text
	}

	return fmt.Sprintf(
		"%02d:%02d: Unexpected %s '%s', expected an instruction",
		err.Position.Line,
		err.Position.Column,
		err.Received.Kind,
		received,
	)
}

type UnknownOpcodeError struct {
	Position Cursor
	Received string
}

func (err *UnknownOpcodeError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownOpcodeError) GetKind() ErrorKind {
	return ERROR_UNKNOWN_OPCODE
}

func (err *UnknownOpcodeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown opcode '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}
