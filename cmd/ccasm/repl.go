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
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/lassandro/ccasm/pkg/assembler"
	"github.com/lassandro/ccasm/pkg/encoding"
	"github.com/lassandro/ccasm/pkg/image"
)

const replPrompt = "ccasm> "

const replHelp = `Each line is assembled on its own and listed with its encoding.
  .ops    list the instruction mnemonics
  .help   show this message
  .quit   leave (also ctrl-d)`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Assemble lines interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(out, errOut io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeLine)

	diag := &reporter{
		Out:   errOut,
		Name:  "<repl>",
		Color: isTerminal(os.Stderr),
	}

	for {
		line, err := ln.Prompt(replPrompt)

		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}

		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		ln.AppendHistory(line)

		switch trimmed {
		case ".quit", ".q":
			return nil
		case ".help", ".h":
			fmt.Fprintln(out, replHelp)
		case ".ops":
			fmt.Fprintln(out, strings.Join(encoding.Mnemonics(), " "))
		default:
			evalLine(out, diag, line)
		}
	}
}

// evalLine assembles a single line and lists the resulting image.
func evalLine(out io.Writer, diag *reporter, line string) {
	diag.Source = []byte(line)

	symtable := assembler.NewSymTable("")
	result, errs := assembler.Assemble(diag.Source, symtable)

	if len(errs) > 0 {
		diag.Report(errs)
		return
	}

	img, err := image.Load(bytes.NewReader(result))

	if err != nil {
		diag.Report([]error{err})
		return
	}

	instructions, err := img.Disassemble()
	writeListing(out, img, instructions, symtable, nil)

	if err != nil {
		diag.Report([]error{err})
	}
}

// completeLine completes the word under the cursor to a mnemonic or the
// definition keyword.
func completeLine(line string) []string {
	start := strings.LastIndexAny(line, " \t,") + 1
	prefix, word := line[:start], line[start:]

	if word == "" {
		return nil
	}

	result := make([]string, 0)

	for _, name := range append(encoding.Mnemonics(), "def") {
		if strings.HasPrefix(name, word) {
			result = append(result, prefix+name)
		}
	}

	return result
}
