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
	"io/ioutil"

	"github.com/xelalexv/fdcplus/pkg/fdc"
)

//
func NewRead() *Read {

	r := &Read{}
	r.Runner = *NewRunner(
		"read -d|--drive {drive} -t|--track {track} [-o|--out {file}]",
		"read a track from a drive",
		`
Use the read command to run one READ exchange and save the received track
to a file. Without a file, only the outcome is reported.`,
		r.Run)

	r.AddBaseSettings()
	// Implementation Note: drive cannot be a required setting, since 0 is a
	// valid drive number, which the required check would take for unset.
	r.AddSetting(&r.Drive, "drive", "d", "", -1, "drive number (0-3)", false)
	r.AddSetting(&r.Track, "track", "t", "", 0, "track number", false)
	r.AddSetting(&r.Out, "out", "o", "", "", "file to save the track to", false)

	return r
}

//
type Read struct {
	//
	Runner
	//
	Drive int
	Track int
	Out   string
}

//
func (r *Read) Run() error {

	r.ParseSettings()

	if err := validateDrive(r.Drive); err != nil {
		return err
	}

	resp, err := r.apiCall("GET",
		fmt.Sprintf("/drive/%d/track/%d", r.Drive, r.Track), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s", payload)
	}

	if len(payload) > fdc.MaxTrackLength {
		return fmt.Errorf("implausible track length: %d", len(payload))
	}

	if r.Out != "" {
		if err := ioutil.WriteFile(r.Out, payload, 0644); err != nil {
			return err
		}
		fmt.Printf("saved %d byte track to %s\n", len(payload), r.Out)
	} else {
		fmt.Printf("received %d byte track\n", len(payload))
	}

	return nil
}
