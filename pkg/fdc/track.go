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
)

// track geometry, per FDC+ drive type
const TrackLength8 = 137 * 32
const TrackLengthMini = 137 * 16
const TrackCount8 = 77
const TrackCountMini = 35

// MaxTrackLength is the largest track length any geometry uses; receive
// buffers are sized for this plus the two checksum bytes.
const MaxTrackLength = TrackLength8

//
type Geometry int

const (
	Disk8 Geometry = iota
	Minidisk
	UNKNOWN
)

// GetGeometry resolves a geometry name; accepted are '8' and '8inch' for
// 8 inch disks, 'mini' and '5' for minidisks.
func GetGeometry(g string) Geometry {

	switch g {

	case "8", "8inch":
		return Disk8

	case "mini", "5":
		return Minidisk
	}

	return UNKNOWN
}

//
func (g Geometry) String() string {

	switch g {

	case Disk8:
		return "8 inch"

	case Minidisk:
		return "minidisk"

	default:
		return "<unknown>"
	}
}

// TrackLength is the fixed payload length of one track, in bytes, not
// counting the trailing checksum.
func (g Geometry) TrackLength() int {
	if g == Minidisk {
		return TrackLengthMini
	}
	return TrackLength8
}

// Tracks is the number of tracks per disk.
func (g Geometry) Tracks() int {
	if g == Minidisk {
		return TrackCountMini
	}
	return TrackCount8
}

// AppendChecksum returns payload followed by its 16 bit checksum as two
// little endian bytes, ready for sending after an accepted WRIT.
func AppendChecksum(payload []byte) []byte {
	ret := make([]byte, len(payload)+2)
	copy(ret, payload)
	binary.LittleEndian.PutUint16(ret[len(payload):], Checksum(payload))
	return ret
}

/*
	Validate checks a received track transfer of the expected payload length
	plus two checksum bytes. The length check comes first: a transfer of the
	wrong size is rejected with ErrLengthMismatch even if the trailing bytes
	happen to sum up. On success, the payload without the checksum bytes is
	returned.
*/
func Validate(data []byte, length int) ([]byte, error) {

	if len(data) != length+2 {
		return nil, ErrLengthMismatch
	}

	want := binary.LittleEndian.Uint16(data[length:])
	if Checksum(data[:length]) != want {
		return nil, ErrChecksum
	}

	return data[:length], nil
}
