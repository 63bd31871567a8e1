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
	"fmt"
)

/*
	All FDC+ commands and responses travel in fixed length, ten byte frames:
	a four byte ASCII tag, two little endian 16 bit parameter words, and a
	little endian 16 bit checksum over the preceding eight bytes.
*/

//
const FrameLength = 10
const frameHeaderLength = 8
const tagLength = 4

// tags sent by the FDC
const TagStat = "STAT"
const TagRead = "READ"
const TagWrit = "WRIT"

// tags sent by the server; STAT and WRIT double as response tags
const TagWsta = "WSTA"

// response codes carried in param1 of WRIT and WSTA responses
const CodeOK uint16 = 0x0000
const CodeNotReady uint16 = 0x0001
const CodeChecksumError uint16 = 0x0002
const CodeWriteError uint16 = 0x0003

// CodeString maps a response code to its display name. Codes the protocol
// does not define map to UNKNOWN.
func CodeString(code uint16) string {

	switch code {

	case CodeOK:
		return "OK"

	case CodeNotReady:
		return "NOT READY"

	case CodeChecksumError:
		return "CHECKSUM ERROR"

	case CodeWriteError:
		return "WRITE ERROR"

	default:
		return "UNKNOWN"
	}
}

/*
	Checksum computes the 16 bit truncated byte sum used throughout the FDC+
	protocol, for both frame headers and track payloads. Bytes are summed as
	unsigned 8 bit values into a 16 bit accumulator that silently wraps at
	65536, reproducing the server's arithmetic bit for bit.
*/
func Checksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// a decoded command or response frame
type Frame struct {
	Tag    string
	Param1 uint16
	Param2 uint16
}

// Rcode is param1 of a response frame.
func (f *Frame) Rcode() uint16 {
	return f.Param1
}

// Rdata is param2 of a response frame.
func (f *Frame) Rdata() uint16 {
	return f.Param2
}

//
func (f *Frame) String() string {
	return fmt.Sprintf("%s %04x %04x", f.Tag, f.Param1, f.Param2)
}

// Encode builds the ten wire bytes for a command frame, checksum included.
func Encode(tag string, p1, p2 uint16) []byte {
	buf := make([]byte, FrameLength)
	copy(buf, tag)
	binary.LittleEndian.PutUint16(buf[tagLength:], p1)
	binary.LittleEndian.PutUint16(buf[tagLength+2:], p2)
	binary.LittleEndian.PutUint16(
		buf[frameHeaderLength:], Checksum(buf[:frameHeaderLength]))
	return buf
}

/*
	Decode parses a received frame. The frame's fields are only returned when
	the recomputed checksum over the first eight bytes matches the trailing
	checksum word; otherwise ErrChecksum is returned and the contents must be
	treated as noise, never displayed as valid data.
*/
func Decode(data []byte) (*Frame, error) {

	if len(data) != FrameLength {
		return nil, fmt.Errorf("invalid frame length: %d", len(data))
	}

	want := binary.LittleEndian.Uint16(data[frameHeaderLength:])
	if got := Checksum(data[:frameHeaderLength]); got != want {
		return nil, ErrChecksum
	}

	return &Frame{
		Tag:    string(data[:tagLength]),
		Param1: binary.LittleEndian.Uint16(data[tagLength:]),
		Param2: binary.LittleEndian.Uint16(data[tagLength+2:]),
	}, nil
}
