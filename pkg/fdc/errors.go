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
	"errors"
	"fmt"
)

// ErrChecksum flags a received frame or track transfer whose checksum does
// not match. The protocol defines corrupt frames as never received, so for
// frames this means drop and let the caller re-issue; for track payloads it
// is reported outright.
var ErrChecksum = errors.New("checksum mismatch")

// ErrLengthMismatch flags a track transfer whose size is not the expected
// payload length plus two checksum bytes.
var ErrLengthMismatch = errors.New("track length mismatch")

// ErrTimeout flags a bounded receive that gave up before the expected byte
// count arrived.
var ErrTimeout = errors.New("timeout waiting for response")

// ErrInvalidDrive flags a drive number outside 0 through DriveCount-1. It
// is raised before anything is sent.
var ErrInvalidDrive = errors.New("invalid drive number")

// TagError reports a response frame whose tag is not the expected one for
// the issued command.
type TagError struct {
	Want string
	Got  string
}

//
func (e *TagError) Error() string {
	return fmt.Sprintf("did not receive %q response, got %q", e.Want, e.Got)
}

// PartialError reports a track transfer that stalled before completing,
// with the exact byte counts.
type PartialError struct {
	Received int
	Expected int
}

//
func (e *PartialError) Error() string {
	return fmt.Sprintf("received %d of %d bytes", e.Received, e.Expected)
}

// StatusError reports a non-OK response code from the server, either a
// refused WRIT or a failed WSTA outcome. The code is passed on verbatim.
type StatusError struct {
	Code uint16
}

//
func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %s (0x%04x)", CodeString(e.Code), e.Code)
}
