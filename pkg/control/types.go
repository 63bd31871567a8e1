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

package control

import (
	"fmt"
)

//
type Status struct {
	Geometry string  `json:"geometry"`
	Selected int     `json:"selected"` // -1 when no drive selected
	Synced   bool    `json:"synced"`
	Polling  bool    `json:"polling"`
	Drives   []Drive `json:"drives"`
}

//
type Drive struct {
	Drive      int  `json:"drive"`
	Mounted    bool `json:"mounted"`
	HeadLoaded bool `json:"headLoaded"`
	Selected   bool `json:"selected"`
}

//
func (s *Status) String() string {

	ret := fmt.Sprintf("\ngeometry: %s, synced: %t, polling: %t\n\n",
		s.Geometry, s.Synced, s.Polling)
	ret += "DRIVE MOUNTED HEAD    \n"

	for _, d := range s.Drives {
		sel := ' '
		if d.Selected {
			sel = '*'
		}
		ret += fmt.Sprintf("  %d%c  %-8s%-8s\n",
			d.Drive, sel, onOff(d.Mounted, "yes", "no"),
			onOff(d.HeadLoaded, "loaded", "-"))
	}

	return ret
}

//
func onOff(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
