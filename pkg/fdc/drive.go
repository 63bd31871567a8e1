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

package fdc

import (
	"sync"
)

//
const DriveCount = 4

// DriveNone marks that no drive is selected; on the wire this becomes 0xff
// in the low byte of a STAT command's param1.
const DriveNone = -1

const driveNoneWire = 0xff

/*
	Drives tracks the selected drive and per drive head load state the FDC
	reports in STAT commands. Mount status is a remote fact, reported by the
	server in its STAT response, and is deliberately not kept here.
*/
type Drives struct {
	lock     sync.Mutex
	selected int
	heads    [DriveCount]bool
}

//
func NewDrives() *Drives {
	return &Drives{selected: DriveNone}
}

// Select picks the drive subsequent READ and WRIT exchanges address.
func (d *Drives) Select(drive int) error {

	if drive < 0 || drive >= DriveCount {
		return ErrInvalidDrive
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.selected = drive
	return nil
}

// Deselect returns to the no drive selected state.
func (d *Drives) Deselect() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.selected = DriveNone
}

// Selected returns the selected drive, or DriveNone.
func (d *Drives) Selected() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.selected
}

//
func (d *Drives) SetHeadLoaded(drive int, loaded bool) {
	if 0 <= drive && drive < DriveCount {
		d.lock.Lock()
		defer d.lock.Unlock()
		d.heads[drive] = loaded
	}
}

//
func (d *Drives) HeadLoaded(drive int) bool {
	if 0 <= drive && drive < DriveCount {
		d.lock.Lock()
		defer d.lock.Unlock()
		return d.heads[drive]
	}
	return false
}

// HeadLoadBitmap packs the head load states into one bit per drive, bit d
// set iff drive d's head is loaded.
func (d *Drives) HeadLoadBitmap() uint16 {

	d.lock.Lock()
	defer d.lock.Unlock()

	var ret uint16
	for ix, loaded := range d.heads {
		if loaded {
			ret |= 1 << ix
		}
	}
	return ret
}

/*
	StatParam builds param1 of a STAT command: the selected drive in the low
	byte, 0xff when none, and the head load bitmap in the high byte. Keeping
	the two in separate bytes means a loaded head can never be mistaken for
	a different drive number.
*/
func (d *Drives) StatParam() uint16 {

	sel := d.Selected()
	bits := d.HeadLoadBitmap()

	ret := uint16(driveNoneWire)
	if sel != DriveNone {
		ret = uint16(sel)
	}
	return ret | bits<<8
}
