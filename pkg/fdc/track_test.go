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
	"bytes"
	"encoding/binary"
	"testing"
)

//
func TestChecksumWraps(t *testing.T) {

	// 512 x 0x80 sums to exactly 65536, which must wrap to zero
	data := bytes.Repeat([]byte{0x80}, 512)
	if got := Checksum(data); got != 0 {
		t.Errorf("checksum %04x, want 0000", got)
	}

	data = append(data, 0x2a)
	if got := Checksum(data); got != 0x2a {
		t.Errorf("checksum %04x, want 002a", got)
	}
}

//
func TestAppendChecksumRoundTrip(t *testing.T) {

	payload := make([]byte, TrackLengthMini)
	for ix := range payload {
		payload[ix] = byte(ix * 7)
	}

	data := AppendChecksum(payload)
	if len(data) != TrackLengthMini+2 {
		t.Fatalf("transfer has %d bytes, want %d",
			len(data), TrackLengthMini+2)
	}

	got, err := Validate(data, TrackLengthMini)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload changed during round trip")
	}
}

/*
	A transfer of the wrong size must be rejected for its length, even when
	its trailing two bytes are a valid checksum over what did arrive.
*/
func TestValidateChecksLengthFirst(t *testing.T) {

	payload := bytes.Repeat([]byte{0x5a}, TrackLengthMini-1)
	data := AppendChecksum(payload)

	if _, err := Validate(data, TrackLengthMini); err != ErrLengthMismatch {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

//
func TestValidateChecksum(t *testing.T) {

	data := AppendChecksum(bytes.Repeat([]byte{0x11}, TrackLengthMini))
	binary.LittleEndian.PutUint16(data[TrackLengthMini:],
		binary.LittleEndian.Uint16(data[TrackLengthMini:])+1)

	if _, err := Validate(data, TrackLengthMini); err != ErrChecksum {
		t.Errorf("got %v, want ErrChecksum", err)
	}
}

//
func TestGeometry(t *testing.T) {

	for _, n := range []string{"8", "8inch"} {
		if g := GetGeometry(n); g != Disk8 {
			t.Errorf("%q resolved to %v, want 8 inch", n, g)
		}
	}
	for _, n := range []string{"mini", "5"} {
		if g := GetGeometry(n); g != Minidisk {
			t.Errorf("%q resolved to %v, want minidisk", n, g)
		}
	}
	if g := GetGeometry("qic80"); g != UNKNOWN {
		t.Errorf("%v, want UNKNOWN", g)
	}

	if Disk8.TrackLength() != 4384 || Disk8.Tracks() != 77 {
		t.Errorf("8 inch geometry: %d bytes x %d tracks",
			Disk8.TrackLength(), Disk8.Tracks())
	}
	if Minidisk.TrackLength() != 2192 || Minidisk.Tracks() != 35 {
		t.Errorf("minidisk geometry: %d bytes x %d tracks",
			Minidisk.TrackLength(), Minidisk.Tracks())
	}
}
