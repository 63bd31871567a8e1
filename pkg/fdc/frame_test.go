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
	"encoding/binary"
	"testing"
)

//
func TestFrameRoundTrip(t *testing.T) {

	cases := []struct {
		tag    string
		p1, p2 uint16
	}{
		{TagStat, 0x00ff, 0x0000},
		{TagStat, 0x0402, 0x0000},
		{TagRead, 0x1003, 137 * 32},
		{TagWrit, 0x2fff, 137 * 16},
		{TagWsta, 0x0000, 0x0000},
	}

	for _, c := range cases {

		buf := Encode(c.tag, c.p1, c.p2)

		if len(buf) != FrameLength {
			t.Fatalf("encoded frame has %d bytes, want %d",
				len(buf), FrameLength)
		}

		sum := binary.LittleEndian.Uint16(buf[8:])
		if want := Checksum(buf[:8]); sum != want {
			t.Errorf("%s: checksum word %04x, want %04x", c.tag, sum, want)
		}

		f, err := Decode(buf)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", c.tag, err)
		}
		if f.Tag != c.tag || f.Param1 != c.p1 || f.Param2 != c.p2 {
			t.Errorf("round trip mismatch: got %v, want %s %04x %04x",
				f, c.tag, c.p1, c.p2)
		}
	}
}

//
func TestDecodeCorruptFrame(t *testing.T) {

	buf := Encode(TagStat, 0x00ff, 0x0005)

	for ix := 0; ix < FrameLength; ix++ {
		corrupt := make([]byte, FrameLength)
		copy(corrupt, buf)
		corrupt[ix] ^= 0x01

		if _, err := Decode(corrupt); err != ErrChecksum {
			t.Errorf("flip of byte %d: got %v, want ErrChecksum", ix, err)
		}
	}
}

//
func TestDecodeInvalidLength(t *testing.T) {

	buf := Encode(TagRead, 0x0001, 0x0002)

	for _, l := range []int{0, 9} {
		if _, err := Decode(buf[:l]); err == nil || err == ErrChecksum {
			t.Errorf("decode of %d bytes: got %v, want length error", l, err)
		}
	}
}

//
func TestCodeString(t *testing.T) {

	cases := map[uint16]string{
		CodeOK:            "OK",
		CodeNotReady:      "NOT READY",
		CodeChecksumError: "CHECKSUM ERROR",
		CodeWriteError:    "WRITE ERROR",
		0x0007:            "UNKNOWN",
		0xffff:            "UNKNOWN",
	}

	for code, want := range cases {
		if got := CodeString(code); got != want {
			t.Errorf("code %04x: got %q, want %q", code, got, want)
		}
	}
}
