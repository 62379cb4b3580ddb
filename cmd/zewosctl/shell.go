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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/oblivisheee/zewos/store"
)

const (
	shellPrompt   = "\033[32mzewos>\033[0m "
	shellResult   = "\033[31m=\033[0m "
	shellHistFile = ".zewosctl-history.tmp"
)

var cmdShell = &cobra.Command{
	Use:   "shell <dir>",
	Short: "Open an interactive REPL over a zewos store (get/put/rm/ls/stat)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		l, err := readline.NewEx(&readline.Config{
			Prompt:            shellPrompt,
			HistoryFile:       shellHistFile,
			InterruptPrompt:   "^C",
			EOFPrompt:         "exit",
			HistorySearchFold: true,
		})
		if err != nil {
			return err
		}
		defer l.Close()
		l.CaptureExitSignal()

		for {
			line, err := l.Readline()
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				return nil
			} else if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			runShellLine(cmd, s, line)
		}
	},
}

// runShellLine evaluates one REPL line against s. Errors are printed, not
// returned, so one bad command does not end the session.
func runShellLine(cmd *cobra.Command, s *store.Store, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "get":
		if len(fields) != 2 {
			fmt.Println("usage: get <key>")
			return
		}
		value, err := s.Get([]byte(fields[1]))
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		cmd.Println(shellResult + string(value))
	case "put":
		if len(fields) < 3 {
			fmt.Println("usage: put <key> <value>")
			return
		}
		value := strings.Join(fields[2:], " ")
		if _, err := s.Insert([]byte(fields[1]), []byte(value)); err != nil {
			fmt.Println("error:", err)
		}
	case "rm":
		if len(fields) != 2 {
			fmt.Println("usage: rm <key>")
			return
		}
		if _, existed, err := s.Remove([]byte(fields[1])); err != nil {
			fmt.Println("error:", err)
		} else if !existed {
			fmt.Println("error: key not found")
		}
	case "ls":
		for _, key := range s.GetAllKeysSorted() {
			cmd.Println(string(key))
		}
	case "stat":
		cmd.Printf("objects: %d, total size: %d bytes\n", s.GetObjectCount(), s.GetTotalSize())
	default:
		fmt.Printf("unknown command %q (expected get/put/rm/ls/stat)\n", fields[0])
	}
}
