/*
   FdcPlus - Altair FDC+ serial disk controller emulator
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of FdcPlus.

   FdcPlus is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   FdcPlus is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with FdcPlus. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"fmt"
)

//
func NewStatus() *StatusCmd {

	s := &StatusCmd{}
	s.Runner = *NewRunner(
		"status [-p|--port {port}]",
		"show drive & link status",
		`
Use the status command to show the drive mount status from the last good STAT
exchange, head load state, and the current link configuration.`,
		s.Run)

	s.AddBaseSettings()

	return s
}

//
type StatusCmd struct {
	Runner
}

//
func (s *StatusCmd) Run() error {

	s.ParseSettings()

	msg, err := s.apiText("GET", "/status", nil)
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}
