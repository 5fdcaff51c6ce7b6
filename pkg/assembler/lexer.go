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

type lexer struct {
	source   []byte
	pos      int
	line     int
	lineByte int

	// Predicted size of the code and header sections so far
	offset uint32
	header uint32

	// Tokens of a definition still to be seen after its keyword
	pendingDef int

	tokens  []Token
	markers []Marker
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"' || c == '`'
}

// Lex splits source into tokens terminated by an End token and records every
// label declaration against the image offset its following instruction will
// be encoded at. Any unrecognised input aborts the scan.
func Lex(source []byte) (*Listing, error) {
	lx := lexer{
		source:  source,
		line:    1,
		tokens:  make([]Token, 0, len(source)/2),
		markers: make([]Marker, 0),
	}

	for lx.pos < len(lx.source) {
		if err := lx.next(); err != nil {
			return nil, err
		}
	}

	lx.tokens = append(lx.tokens, Token{
		Kind:     TOKEN_END,
		Position: lx.cursor(lx.pos, lx.pos),
	})

	// Markers were placed relative to the first instruction; the header and
	// sentinel size is only known once every definition has been seen.
	base := lx.header + encoding.SENTINEL_SIZE

	for i := range lx.markers {
		lx.markers[i].Offset += base
		glog.V(2).Infof(
			"lexer: marker :%s at %d", lx.markers[i].Name, lx.markers[i].Offset,
		)
	}

	glog.V(2).Infof(
		"lexer: %d tokens, header %d bytes, code %d bytes",
		len(lx.tokens), lx.header, lx.offset,
	)

	return &Listing{
		Tokens:     lx.tokens,
		Markers:    lx.markers,
		HeaderSize: lx.header,
	}, nil
}

func (lx *lexer) cursor(start, end int) Cursor {
	return Cursor{
		Line:     lx.line,
		Column:   start - lx.lineByte + 1,
		Byte:     int64(start),
		Size:     int64(end - start),
		LineByte: int64(lx.lineByte),
	}
}

func (lx *lexer) syntaxError(message string, c byte) error {
	return &SyntaxError{lx.cursor(lx.pos, lx.pos+1), message, c}
}

func (lx *lexer) next() error {
	c := lx.source[lx.pos]

	switch {
	// Whitespace
	case c == ' ' || c == '\t' || c == '\r':
		lx.pos++

	case c == '\n':
		lx.pos++
		lx.line++
		lx.lineByte = lx.pos

	// Comments
	case c == ';':
		for lx.pos < len(lx.source) && lx.source[lx.pos] != '\n' {
			lx.pos++
		}

	// Label declaration
	case c == ':':
		start := lx.pos
		lx.pos++
		name := lx.scanIdent()

		if name == "" {
			lx.pos = start
			return lx.syntaxError("Missing label name after", c)
		}

		// The keyword starts a definition wherever it appears, so it cannot
		// also be a label.
		if name == DEFINE_KEYWORD {
			return &SyntaxError{
				lx.cursor(start, lx.pos),
				"Reserved keyword '" + name + "' used as label name after",
				c,
			}
		}

		lx.markers = append(lx.markers, Marker{
			Name:     name,
			Offset:   lx.offset,
			Position: lx.cursor(start, lx.pos),
		})

	// Operand separator
	case c == ',':
		lx.emit(Token{
			Kind:     TOKEN_DIVIDER,
			Position: lx.cursor(lx.pos, lx.pos+1),
			Text:     ",",
		})
		lx.pos++

	case isIdentStart(c):
		start := lx.pos
		text := lx.scanIdent()

		lx.emit(Token{
			Kind:     TOKEN_IDENT,
			Position: lx.cursor(start, lx.pos),
			Text:     text,
		})

	case isDigit(c):
		start := lx.pos
		text := lx.scanDigits()
		value, _ := encoding.DecodeUint(text)

		lx.emit(Token{
			Kind:     TOKEN_NUMBER,
			Position: lx.cursor(start, lx.pos),
			Value:    value,
			Text:     text,
		})

	// Literal pointer (i.e. &1024)
	case c == '&':
		start := lx.pos
		lx.pos++
		digits := lx.scanDigits()

		if digits == "" {
			lx.pos = start
			return lx.syntaxError("Missing address after", c)
		}

		value, _ := encoding.DecodeUint(digits)

		lx.emit(Token{
			Kind:     TOKEN_ADDRESS,
			Position: lx.cursor(start, lx.pos),
			Value:    value,
			Text:     string(lx.source[start:lx.pos]),
		})

	case isQuote(c):
		return lx.scanString()

	default:
		return lx.syntaxError("Unexpected character", c)
	}

	return nil
}

func (lx *lexer) scanIdent() string {
	start := lx.pos

	if lx.pos < len(lx.source) && isIdentStart(lx.source[lx.pos]) {
		for lx.pos < len(lx.source) && isIdent(lx.source[lx.pos]) {
			lx.pos++
		}
	}

	return string(lx.source[start:lx.pos])
}

func (lx *lexer) scanDigits() string {
	start := lx.pos

	for lx.pos < len(lx.source) && isDigit(lx.source[lx.pos]) {
		lx.pos++
	}

	return string(lx.source[start:lx.pos])
}

func (lx *lexer) scanString() error {
	quote := lx.source[lx.pos]
	start := lx.pos
	position := lx.cursor(start, start)

	line, lineByte := lx.line, lx.lineByte
	lx.pos++

	for lx.pos < len(lx.source) && lx.source[lx.pos] != quote {
		if lx.source[lx.pos] == '\n' {
			lx.line++
			lx.lineByte = lx.pos + 1
		}

		lx.pos++
	}

	if lx.pos >= len(lx.source) {
		lx.pos = start
		lx.line, lx.lineByte = line, lineByte
		return lx.syntaxError("Unterminated string, missing closing", quote)
	}

	lx.pos++
	position.Size = int64(lx.pos - start)

	lx.emit(Token{
		Kind:     TOKEN_STRING,
		Position: position,
		Text:     string(lx.source[start+1 : lx.pos-1]),
	})

	return nil
}

// emit appends tok and advances the offset predictor by the number of bytes
// the token will occupy once the whole pipeline has run.
func (lx *lexer) emit(tok Token) {
	lx.tokens = append(lx.tokens, tok)

	if lx.pendingDef > 0 {
		lx.pendingDef--

		if lx.pendingDef == 0 {
			lx.header += uint32(len(tok.Text))
		}

		return
	}

	switch tok.Kind {
	case TOKEN_IDENT:
		switch classifyIdent(tok.Text) {
		case TOKEN_OPCODE:
			lx.offset += encoding.OPCODE_SIZE
		case TOKEN_REGISTER:
			lx.offset += encoding.Width(encoding.OPERAND_REGISTER)
		default:
			if tok.Text == DEFINE_KEYWORD {
				lx.pendingDef = 2
				break
			}

			// Any other name resolves to a label address or to the header
			// pointer of a definition.
			lx.offset += encoding.Width(encoding.OPERAND_ADDR32)
		}

	case TOKEN_NUMBER:
		lx.offset += encoding.Width(encoding.OPERAND_IMM32)

	case TOKEN_ADDRESS:
		lx.offset += encoding.Width(encoding.OPERAND_ADDR32)
	}

	glog.V(3).Infof("lexer: %s, offset now %d", tok, lx.offset)
}
