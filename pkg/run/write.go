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
	"bytes"
	"fmt"
	"io/ioutil"
)

//
func NewWrite() *Write {

	w := &Write{}
	w.Runner = *NewRunner(
		"write -d|--drive {drive} -t|--track {track} -i|--in {file}",
		"write a track to a drive",
		`
Use the write command to run one WRIT exchange, sending the track data read
from the given file. The file size must match the track length of the
configured disk geometry.`,
		w.Run)

	w.AddBaseSettings()
	// Implementation Note: drive cannot be a required setting, since 0 is a
	// valid drive number, which the required check would take for unset.
	w.AddSetting(&w.Drive, "drive", "d", "", -1, "drive number (0-3)", false)
	w.AddSetting(&w.Track, "track", "t", "", 0, "track number", false)
	w.AddSetting(&w.In, "in", "i", "", nil, "file with the track data", true)

	return w
}

//
type Write struct {
	//
	Runner
	//
	Drive int
	Track int
	In    string
}

//
func (w *Write) Run() error {

	w.ParseSettings()

	if err := validateDrive(w.Drive); err != nil {
		return err
	}

	payload, err := ioutil.ReadFile(w.In)
	if err != nil {
		return err
	}

	msg, err := w.apiText("PUT",
		fmt.Sprintf("/drive/%d/track/%d", w.Drive, w.Track),
		bytes.NewReader(payload))
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}
