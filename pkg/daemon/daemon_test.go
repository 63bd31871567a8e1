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

package daemon

import (
	"testing"
	"time"

	"github.com/xelalexv/fdcplus/pkg/fdc"
)

//
func TestDaemonDefaults(t *testing.T) {

	d := NewDaemon("/dev/null", 0, fdc.UNKNOWN)

	if d.baudRate != DefaultBaudRate {
		t.Errorf("baud rate %d, want %d", d.baudRate, DefaultBaudRate)
	}
	if d.Geometry() != fdc.Disk8 {
		t.Errorf("geometry %v, want 8 inch", d.Geometry())
	}
	if d.PollInterval() != DefaultPollInterval {
		t.Errorf("poll interval %v, want %v",
			d.PollInterval(), DefaultPollInterval)
	}
	if d.SelectedDrive() != fdc.DriveNone {
		t.Errorf("drive %d selected on fresh daemon", d.SelectedDrive())
	}
	if d.Synced() {
		t.Errorf("fresh daemon reports synced")
	}
}

// stopping an already stopped daemon must not panic
func TestStopIdempotent(t *testing.T) {
	d := NewDaemon("/dev/null", 0, fdc.Disk8)
	d.Stop()
	d.Stop()
}

//
func TestSetPollInterval(t *testing.T) {

	d := NewDaemon("/dev/null", 0, fdc.Disk8)

	if err := d.SetPollInterval(time.Millisecond); err == nil {
		t.Errorf("poll interval below minimum accepted")
	}
	if err := d.SetPollInterval(250 * time.Millisecond); err != nil {
		t.Errorf("rejected valid poll interval: %v", err)
	}
	if d.PollInterval() != 250*time.Millisecond {
		t.Errorf("poll interval %v, want 250ms", d.PollInterval())
	}
}

//
func TestExchangesNeedOpenLink(t *testing.T) {

	d := NewDaemon("/dev/null", 0, fdc.Disk8)
	d.SelectDrive(0)

	if _, err := d.Stat(); err == nil {
		t.Errorf("STAT succeeded without open link")
	}
	if _, err := d.ReadTrack(0); err == nil {
		t.Errorf("READ succeeded without open link")
	}
	if err := d.WriteTrack(0, nil); err == nil {
		t.Errorf("WRIT succeeded without open link")
	}
}
