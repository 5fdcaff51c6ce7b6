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
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var (
	outvar    string
	debugvar  bool
	watchvar  bool
	tokensvar bool
)

// errFailed is returned once diagnostics have already been reported.
var errFailed = errors.New("assembly failed")

var rootCmd = &cobra.Command{
	Use:   "ccasm [flags] [file]",
	Short: "Assembler for the cc 32-bit stack/register machine",
	Long: `Ccasm translates an assembly source file into a program image: the bytes
of every definition, the 1D1D1D1D sentinel, then the encoded instructions.

When no file is given and stdin is not a terminal, the source is read from
stdin and the image is written to out.ccb. Otherwise the image is written to
the source name with the extension '.ccb' in the working directory.`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAssemble,
}

func init() {
	rootCmd.Flags().StringVarP(
		&outvar, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	rootCmd.Flags().BoolVarP(
		&debugvar, "debug", "d", false,
		"Also write the symbol table next to the output file, "+
			"with extension '.ccdb'",
	)
	rootCmd.Flags().BoolVarP(
		&watchvar, "watch", "w", false,
		"Re-assemble whenever the source file changes",
	)
	rootCmd.Flags().BoolVar(
		&tokensvar, "tokens", false,
		"Print the resolved token stream and definitions before encoding",
	)

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "ccasm: %s\n", err)
		}

		glog.Flush()
		os.Exit(1)
	}
}
