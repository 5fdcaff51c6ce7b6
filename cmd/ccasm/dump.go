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
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/lassandro/ccasm/pkg/assembler"
	"github.com/lassandro/ccasm/pkg/encoding"
	"github.com/lassandro/ccasm/pkg/image"
)

var rawvar bool

var dumpCmd = &cobra.Command{
	Use:   "dump [--raw] image [symtable]",
	Short: "Disassemble a program image",
	Long: `Dump splits a program image at its sentinel and prints the header and a
disassembly listing of the instructions. When a symbol table written with
'ccasm --debug' is given, labels and definitions are named and each
instruction is shown next to the source line it came from.`,

	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE:         runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(
		&rawvar, "raw", false,
		"Pretty-print the decoded structures instead of a listing",
	)

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])

	if err != nil {
		return err
	}

	defer file.Close()

	img, err := image.Load(file)

	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	var symtable *assembler.SymTable

	if len(args) == 2 {
		if symtable, err = readSymTable(args[1]); err != nil {
			return err
		}
	}

	instructions, err := img.Disassemble()
	out := cmd.OutOrStdout()

	if rawvar {
		printer := pp.New()
		printer.SetOutput(out)
		printer.SetColoringEnabled(isTerminal(os.Stdout))
		printer.Println(img)
		printer.Println(instructions)

		if symtable != nil {
			printer.Println(symtable)
		}
	} else {
		var source []byte

		if symtable != nil && symtable.Source != "" {
			var readErr error

			if source, readErr = os.ReadFile(symtable.Source); readErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "ccasm: loading source: %s\n", readErr)
			}
		}

		writeListing(out, img, instructions, symtable, source)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	return nil
}

// writeListing prints the header summary followed by one line per
// instruction: image offset, raw bytes and the decoded form.
func writeListing(
	out io.Writer,
	img *image.Image,
	instructions []image.Instruction,
	symtable *assembler.SymTable,
	source []byte,
) {
	var labels map[uint32]string

	if symtable != nil {
		labels = symtable.Labels
	}

	if len(img.Header) > 0 {
		fmt.Fprintf(out, "header   %d bytes %q\n", len(img.Header), img.Header)
	} else {
		fmt.Fprintln(out, "header   0 bytes")
	}

	if symtable != nil && len(symtable.Definitions) > 0 {
		names := make([]string, 0, len(symtable.Definitions))

		for name := range symtable.Definitions {
			names = append(names, name)
		}

		sort.Slice(names, func(i, j int) bool {
			pi, pj := symtable.Definitions[names[i]], symtable.Definitions[names[j]]

			if pi != pj {
				return pi < pj
			}

			return names[i] < names[j]
		})

		for _, name := range names {
			fmt.Fprintf(out, "  def %s %d\n", name, symtable.Definitions[name])
		}
	}

	base := img.CodeOffset()

	fmt.Fprintf(out, "sentinel %#08x\n", len(img.Header))
	fmt.Fprintf(out, "code     %d bytes at %#08x\n", len(img.Code), base)

	for _, inst := range instructions {
		if label, exists := labels[inst.Offset]; exists {
			fmt.Fprintf(out, ":%s\n", label)
		}

		_, form, _ := encoding.Lookup(inst.Opcode)
		raw := img.Code[inst.Offset-base:][:form.Size()]

		line := fmt.Sprintf(
			"  %08x  %-30s %s",
			inst.Offset,
			fmt.Sprintf("% x", raw),
			inst.Format(labels),
		)

		if symtable != nil && source != nil {
			if offset, exists := symtable.Symbols[inst.Offset]; exists {
				text := strings.TrimLeft(sourceLine(source, offset), " \t")
				line = fmt.Sprintf("%-60s ; %s", line, text)
			}
		}

		fmt.Fprintln(out, line)
	}
}
