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

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/ccasm/pkg/assembler"
)

// reporter renders assembler errors against the source they came from, with
// the offending token underlined.
type reporter struct {
	Out    io.Writer
	Name   string
	Source []byte
	Color  bool
}

func (r *reporter) Report(errs []error) {
	for _, err := range errs {
		r.report(err)
	}
}

func (r *reporter) report(err error) {
	prefix := r.Name + ":"

	if r.Color {
		prefix = "\033[1m" + prefix + "\033[0m"
	}

	var tokenErr assembler.TokenError

	if !errors.As(err, &tokenErr) {
		fmt.Fprintf(r.Out, "%s %s\n", prefix, err)
		return
	}

	cursor := tokenErr.GetPosition()
	line := sourceLine(r.Source, cursor.LineByte)
	marker := underline(line, int(cursor.Byte-cursor.LineByte), int(cursor.Size))

	if r.Color {
		marker = "\033[31m" + marker + "\033[0m"
	}

	fmt.Fprintf(r.Out, "%s %s\n%s\n%s\n", prefix, err, line, marker)
}

// sourceLine returns the line of source starting at offset, without its
// terminator.
func sourceLine(source []byte, offset int64) string {
	if offset < 0 || offset > int64(len(source)) {
		return ""
	}

	line := source[offset:]

	if end := bytes.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}

	return strings.TrimSuffix(string(line), "\r")
}

// underline builds a "^~~~" marker below line. Tabs before the column are
// kept so the caret lines up however the terminal expands them.
func underline(line string, column, size int) string {
	if column > len(line) {
		column = len(line)
	}

	if column < 0 {
		column = 0
	}

	if size < 1 {
		size = 1
	}

	if column+size > len(line) && column < len(line) {
		size = len(line) - column
	}

	var builder strings.Builder

	for i := 0; i < column; i++ {
		if line[i] == '\t' {
			builder.WriteByte('\t')
		} else {
			builder.WriteByte(' ')
		}
	}

	builder.WriteByte('^')
	builder.WriteString(strings.Repeat("~", size-1))

	return builder.String()
}
