/*
Copyright (C) 2026  Zewos Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Command zewosctl is a thin demonstration CLI over store.Store: init,
// get, put, rm, ls, stat against a single origin directory. It is not
// part of the embeddable API surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oblivisheee/zewos/store"
)

var version = "devel"

var cmdRoot = &cobra.Command{
	Use:   "zewosctl",
	Short: "Inspect and manipulate a zewos store from the command line",
}

func openStore(dir string) (*store.Store, error) {
	return store.Init(dir, store.Options{})
}

func init() {
	cmdRoot.AddCommand(
		cmdInit,
		cmdGet,
		cmdPut,
		cmdRm,
		cmdLs,
		cmdStat,
		cmdShell,
		cmdVersion,
	)
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the version number and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("zewosctl version %s\n", version)
		return nil
	},
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
