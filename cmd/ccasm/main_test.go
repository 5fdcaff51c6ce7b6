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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lassandro/ccasm/pkg/assembler"
	"github.com/lassandro/ccasm/pkg/image"
)

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		Input string
		Out   string
		Table string
	}{
		{"", "out.ccb", "out.ccdb"},
		{"prog.cc", "prog.ccb", "prog.ccdb"},
		{"src/dir/prog.asm", "prog.ccb", "prog.ccdb"},
		{"noext", "noext.ccb", "noext.ccdb"},
		{"a.b.c", "a.b.ccb", "a.b.ccdb"},
	}

	for _, test := range tests {
		out := defaultOutput(test.Input)

		if out != test.Out {
			t.Fatalf("%q output\nwant:%s\nhave:%s", test.Input, test.Out, out)
		}

		if table := symtablePath(out); table != test.Table {
			t.Fatalf("%q symtable\nwant:%s\nhave:%s", test.Input, test.Table, table)
		}
	}
}

func TestUnderline(t *testing.T) {
	tests := []struct {
		Line   string
		Column int
		Size   int
		Want   string
	}{
		{"psh 5", 0, 3, "^~~"},
		{"psh 5", 4, 1, "    ^"},
		{"\tmov a, #", 8, 1, "\t       ^"},
		{"stp", 3, 0, "   ^"},
		{"stp", 9, 1, "   ^"},
		{"\"abc", 0, 12, "^~~~"},
	}

	for _, test := range tests {
		if have := underline(test.Line, test.Column, test.Size); have != test.Want {
			t.Fatalf("%q\nwant:%q\nhave:%q", test.Line, test.Want, have)
		}
	}
}

func TestReporter(t *testing.T) {
	source := []byte("psh 5\nmov a, #1\n")
	_, errs := assembler.Assemble(source, nil)

	if len(errs) != 1 {
		t.Fatalf("Error count mismatch\nwant:1\nhave:%d", len(errs))
	}

	var out bytes.Buffer
	diag := &reporter{Out: &out, Name: "prog.cc", Source: source}
	diag.Report(errs)

	want := "prog.cc: 02:08: Unexpected character '#'\n" +
		"mov a, #1\n" +
		"       ^\n"

	if out.String() != want {
		t.Fatalf("Diagnostic mismatch\nwant:%q\nhave:%q", want, out.String())
	}
}

func TestReporterRecoverable(t *testing.T) {
	source := []byte("stp\n  foo 1, 2\npsh q\n")
	_, errs := assembler.Assemble(source, nil)

	if len(errs) != 2 {
		t.Fatalf("Error count mismatch\nwant:2\nhave:%d", len(errs))
	}

	var out bytes.Buffer
	diag := &reporter{Out: &out, Name: "prog.cc", Source: source, Color: true}
	diag.Report(errs)

	have := out.String()

	for _, want := range []string{
		"\033[1mprog.cc:\033[0m 02:03:",
		"  foo 1, 2\n\033[31m  ^~~\033[0m\n",
		"\033[1mprog.cc:\033[0m 03:01:",
		"psh q\n",
	} {
		if !strings.Contains(have, want) {
			t.Fatalf("Diagnostic missing %q\nhave:%q", want, have)
		}
	}
}

func TestJobAssemble(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.cc")
	source := []byte("def MSG 'hi'\n:top\npsh MSG\njmp top\n")

	if err := os.WriteFile(path, source, 0666); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer

	j := &job{
		Path:   path,
		Name:   "prog.cc",
		Out:    filepath.Join(dir, "prog.ccb"),
		Debug:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	}

	data, err := j.read()

	if err != nil {
		t.Fatal(err)
	}

	if err := j.assemble(data); err != nil {
		t.Fatalf("%s\n%s", err, stderr.String())
	}

	result, err := os.ReadFile(j.Out)

	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		'h', 'i', 0x1D, 0x1D, 0x1D, 0x1D,
		0x01, 0x00, 0x00, 0x00, 0x00,
		0x38, 0x00, 0x00, 0x00, 0x06,
	}

	if !bytes.Equal(result, want) {
		t.Fatalf("Image mismatch\nwant:% x\nhave:% x", want, result)
	}

	symtable, err := readSymTable(filepath.Join(dir, "prog.ccdb"))

	if err != nil {
		t.Fatal(err)
	}

	if symtable.Source != path {
		t.Fatalf("Source mismatch\nwant:%s\nhave:%s", path, symtable.Source)
	}

	if label := symtable.Labels[6]; label != "top" {
		t.Fatalf("Label mismatch\nwant:top\nhave:%s", label)
	}

	if pointer, exists := symtable.Definitions["MSG"]; !exists || pointer != 0 {
		t.Fatalf("Definition mismatch\nwant:0\nhave:%d (%v)", pointer, exists)
	}
}

func TestJobFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer

	j := &job{
		Name:   "<stdin>",
		Out:    filepath.Join(dir, "out.ccb"),
		Debug:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	}

	if err := j.assemble([]byte("psh 1\nmov 1, 2\n")); err != errFailed {
		t.Fatalf("Invalid error\nwant:%s\nhave:%v", errFailed, err)
	}

	if stderr.Len() == 0 {
		t.Fatal("No diagnostics reported")
	}

	for _, name := range []string{"out.ccb", "out.ccdb"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s written for a failed assembly", name)
		}
	}
}

func TestWriteListing(t *testing.T) {
	source := []byte("def MSG 'hey'\n:start\n  psh MSG\n  jmp start\n")
	symtable := assembler.NewSymTable("")
	result, errs := assembler.Assemble(source, symtable)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	img, err := image.Load(bytes.NewReader(result))

	if err != nil {
		t.Fatal(err)
	}

	instructions, err := img.Disassemble()

	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	writeListing(&out, img, instructions, symtable, source)

	have := out.String()

	for _, want := range []string{
		"header   3 bytes \"hey\"\n",
		"  def MSG 0\n",
		":start\n",
		"  00000007  01 00 00 00 00",
		"psh 0",
		"; psh MSG\n",
		"  0000000c  38 00 00 00 07",
		"jmp start",
		"; jmp start\n",
	} {
		if !strings.Contains(have, want) {
			t.Fatalf("Listing missing %q\nhave:\n%s", want, have)
		}
	}
}

func TestCompleteLine(t *testing.T) {
	tests := []struct {
		Line string
		Want []string
	}{
		{"", nil},
		{"ps", []string{"psh"}},
		{"j", []string{"je", "jg", "jmp", "jne", "jo", "js"}},
		{"mov a, d", []string{"mov a, def", "mov a, div", "mov a, dec", "mov a, dup"}},
		{"psh ", nil},
		{"zz", []string{}},
	}

	for _, test := range tests {
		have := completeLine(test.Line)

		if len(have) != len(test.Want) {
			t.Fatalf("%q\nwant:%v\nhave:%v", test.Line, test.Want, have)
		}

		set := make(map[string]bool)

		for _, completion := range have {
			set[completion] = true
		}

		for _, want := range test.Want {
			if !set[want] {
				t.Fatalf("%q\nwant:%v\nhave:%v", test.Line, test.Want, have)
			}
		}
	}
}
