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
func NewSelect() *Select {

	s := &Select{}
	s.Runner = *NewRunner(
		"select -d|--drive {drive}|none",
		"select a drive for READ & WRIT",
		`
Use the select command to pick the drive subsequent read and write commands
address, or 'none' to deselect. The selection also goes out with every STAT
command.`,
		s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Drive, "drive", "d", "", "",
		"drive number (0-3), or 'none'", true)

	return s
}

//
type Select struct {
	//
	Runner
	//
	Drive string
}

//
func (s *Select) Run() error {

	s.ParseSettings()

	var msg string
	var err error

	if s.Drive == "none" {
		msg, err = s.apiText("PUT", "/deselect", nil)

	} else {
		var drive int
		if _, err := fmt.Sscanf(s.Drive, "%d", &drive); err != nil {
			return fmt.Errorf("invalid drive: %s", s.Drive)
		}
		if err := validateDrive(drive); err != nil {
			return err
		}
		msg, err = s.apiText("PUT", fmt.Sprintf("/select/%d", drive), nil)
	}

	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}
