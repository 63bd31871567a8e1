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
	"testing"
)

//
func TestSelectRange(t *testing.T) {

	d := NewDrives()

	for _, drive := range []int{-1, DriveCount, 99} {
		if err := d.Select(drive); err != ErrInvalidDrive {
			t.Errorf("select %d: got %v, want ErrInvalidDrive", drive, err)
		}
		if d.Selected() != DriveNone {
			t.Errorf("selection changed by rejected select %d", drive)
		}
	}

	for drive := 0; drive < DriveCount; drive++ {
		if err := d.Select(drive); err != nil {
			t.Errorf("select %d: %v", drive, err)
		}
		if d.Selected() != drive {
			t.Errorf("selected %d, want %d", d.Selected(), drive)
		}
	}

	d.Deselect()
	if d.Selected() != DriveNone {
		t.Errorf("still selected after deselect: %d", d.Selected())
	}
}

//
func TestHeadLoadBitmap(t *testing.T) {

	d := NewDrives()

	if d.HeadLoadBitmap() != 0 {
		t.Errorf("fresh bitmap %04x, want 0", d.HeadLoadBitmap())
	}

	d.SetHeadLoaded(0, true)
	d.SetHeadLoaded(3, true)
	if got := d.HeadLoadBitmap(); got != 0x0009 {
		t.Errorf("bitmap %04x, want 0009", got)
	}

	d.SetHeadLoaded(0, false)
	if got := d.HeadLoadBitmap(); got != 0x0008 {
		t.Errorf("bitmap %04x, want 0008", got)
	}

	// out of range drives are ignored
	d.SetHeadLoaded(-1, true)
	d.SetHeadLoaded(DriveCount, true)
	if got := d.HeadLoadBitmap(); got != 0x0008 {
		t.Errorf("bitmap %04x after out of range sets, want 0008", got)
	}
	if d.HeadLoaded(-1) || d.HeadLoaded(DriveCount) {
		t.Errorf("out of range drive reports head loaded")
	}
}

//
func TestStatParam(t *testing.T) {

	d := NewDrives()

	if got := d.StatParam(); got != 0x00ff {
		t.Errorf("fresh STAT param %04x, want 00ff", got)
	}

	d.Select(2)
	d.SetHeadLoaded(2, true)
	if got := d.StatParam(); got != 0x0402 {
		t.Errorf("STAT param %04x, want 0402", got)
	}

	d.Deselect()
	if got := d.StatParam(); got != 0x04ff {
		t.Errorf("STAT param %04x after deselect, want 04ff", got)
	}
}
