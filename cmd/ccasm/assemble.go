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
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/lassandro/ccasm/pkg/assembler"
)

const stdinOutput = "out.ccb"

// job is one configured assembly: where the source comes from and where the
// image and symbol table go.
type job struct {
	Path   string
	Name   string
	Out    string
	Debug  bool
	Tokens bool
	Stdout io.Writer
	Stderr io.Writer
	Color  bool
}

func defaultOutput(path string) string {
	if path == "" {
		return stdinOutput
	}

	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".ccb"
}

func symtablePath(out string) string {
	return strings.TrimSuffix(out, filepath.Ext(out)) + ".ccdb"
}

func runAssemble(cmd *cobra.Command, args []string) error {
	j := &job{
		Out:    outvar,
		Debug:  debugvar,
		Tokens: tokensvar,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Color:  isTerminal(os.Stderr),
	}

	if len(args) == 1 {
		stat, err := os.Stat(args[0])

		if err != nil {
			return err
		}

		if stat.IsDir() {
			return fmt.Errorf("%s is not a valid assembly file", args[0])
		}

		j.Path = args[0]
		j.Name = filepath.Base(args[0])
	} else if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		j.Name = "<stdin>"
	} else {
		cmd.Usage()
		return fmt.Errorf("no source file given")
	}

	if j.Out == "" {
		j.Out = defaultOutput(j.Path)
	}

	if !watchvar {
		source, err := j.read()

		if err != nil {
			return err
		}

		return j.assemble(source)
	}

	if j.Path == "" {
		return fmt.Errorf("watch mode requires a source file")
	}

	j.rebuild()

	return watchFile(j.Path, j.rebuild)
}

func (j *job) read() ([]byte, error) {
	if j.Path == "" {
		return io.ReadAll(os.Stdin)
	}

	source, err := os.ReadFile(j.Path)

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", j.Name, err)
	}

	return source, nil
}

// rebuild reads and assembles the source again, reporting instead of
// returning errors so a watch loop keeps running.
func (j *job) rebuild() {
	glog.V(1).Infof("Assembling %s", j.Path)

	source, err := j.read()

	if err == nil {
		err = j.assemble(source)
	}

	if err != nil && err != errFailed {
		glog.Errorf("%s", err)
	}
}

func (j *job) assemble(source []byte) error {
	diag := &reporter{
		Out:    j.Stderr,
		Name:   j.Name,
		Source: source,
		Color:  j.Color,
	}

	symtable := assembler.NewSymTable("")

	if j.Path != "" {
		if abs, err := filepath.Abs(j.Path); err == nil {
			symtable.Source = abs
		} else {
			glog.Warningf("Resolving source path: %s", err)
		}
	}

	prog, err := assembler.Prepare(source)

	if err != nil {
		diag.Report([]error{err})
		return errFailed
	}

	if j.Tokens {
		printer := pp.New()
		printer.SetOutput(j.Stdout)
		printer.SetColoringEnabled(j.Color)
		printer.Println(prog.Tokens)
		printer.Println(prog.Definitions)
	}

	result, errs := prog.Encode(symtable)

	if len(errs) > 0 {
		diag.Report(errs)
		return errFailed
	}

	if err := os.WriteFile(j.Out, result, 0666); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	glog.V(1).Infof("Wrote %d bytes to %s", len(result), j.Out)

	if j.Debug {
		if err := writeSymTable(symtablePath(j.Out), symtable); err != nil {
			return err
		}
	}

	return nil
}

func writeSymTable(path string, symtable *assembler.SymTable) error {
	file, err := os.Create(path)

	if err != nil {
		return fmt.Errorf("creating symbol table: %w", err)
	}

	defer file.Close()

	if err := gob.NewEncoder(file).Encode(symtable); err != nil {
		return fmt.Errorf("writing symbol table: %w", err)
	}

	glog.V(1).Infof(
		"Wrote %d symbols and %d labels to %s",
		len(symtable.Symbols),
		len(symtable.Labels),
		path,
	)

	return file.Close()
}

func readSymTable(path string) (*assembler.SymTable, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("loading symbol table: %w", err)
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		return nil, fmt.Errorf("decoding symbol table: %w", err)
	}

	return &symtable, nil
}
