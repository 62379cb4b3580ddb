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
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var cmdStat = &cobra.Command{
	Use:   "stat <dir>",
	Short: "Print aggregate store statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.Printf("objects:    %d\n", s.GetObjectCount())
		cmd.Printf("total size: %s\n", units.HumanSize(float64(s.GetTotalSize())))
		return nil
	},
}
