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
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// per attempt wait bounds; frames use the longer bound, track payload
// chunks the shorter one
const frameTimeout = 500 * time.Millisecond
const trackTimeout = 100 * time.Millisecond

/*
	Channel is the duplex byte stream a session talks over. The transport
	owns opening, configuring, and closing the underlying device; a session
	assumes an already open 8-N-1 line.

	ReadWithTimeout may return fewer bytes than requested, including zero
	when nothing arrived within the wait bound. Only a failed read returns
	an error.
*/
type Channel interface {
	Write(data []byte) (int, error)
	ReadWithTimeout(data []byte, timeout time.Duration) (int, error)
}

/*
	Session runs the three FDC initiated exchanges over a channel. Every
	exchange is one command frame out plus one bounded receive sequence; the
	session never retries on its own, since the protocol's recovery contract
	is for the initiator to simply re-issue the command. Exchanges are
	serialized, the wire has no multiplexing.

	Errors are local to one exchange; the session is always safe to invoke
	again afterwards.
*/
type Session struct {
	lock     sync.Mutex
	channel  Channel
	geometry Geometry
	drives   *Drives
}

//
func NewSession(channel Channel, geometry Geometry, drives *Drives) *Session {
	return &Session{
		channel:  channel,
		geometry: geometry,
		drives:   drives,
	}
}

//
func (s *Session) Drives() *Drives {
	return s.drives
}

//
func (s *Session) Geometry() Geometry {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.geometry
}

// SetGeometry switches the disk geometry. This must not be done while a
// transfer is in flight, which the exchange lock guarantees.
func (s *Session) SetGeometry(g Geometry) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.geometry = g
}

/*
	Stat runs one STAT exchange and returns the server's per drive mount
	bitmap, bit d set iff drive d has an image mounted. A response with an
	invalid checksum yields ErrChecksum; the caller just goes without a
	fresh status until the next poll.
*/
func (s *Session) Stat() (uint16, error) {

	s.lock.Lock()
	defer s.lock.Unlock()

	cmd := Encode(TagStat, s.drives.StatParam(), 0)
	if _, err := s.channel.Write(cmd); err != nil {
		return 0, fmt.Errorf("error sending STAT: %v", err)
	}

	resp, err := s.awaitFrame(TagStat)
	if err != nil {
		return 0, err
	}

	log.WithField("mounted", fmt.Sprintf("%04x", resp.Rdata())).Trace("STAT")
	return resp.Rdata(), nil
}

/*
	ReadTrack runs one READ exchange for the given track on the selected
	drive and returns the validated track payload. A transfer that stalls
	short of the expected length comes back as a PartialError with the
	exact byte counts.
*/
func (s *Session) ReadTrack(track int) ([]byte, error) {

	s.lock.Lock()
	defer s.lock.Unlock()

	drive := s.drives.Selected()
	if drive == DriveNone {
		return nil, ErrInvalidDrive
	}
	if err := s.checkTrack(track); err != nil {
		return nil, err
	}

	length := s.geometry.TrackLength()
	cmd := Encode(TagRead, trackParam(drive, track), uint16(length))
	if _, err := s.channel.Write(cmd); err != nil {
		return nil, fmt.Errorf("error sending READ: %v", err)
	}

	buf := make([]byte, MaxTrackLength+2)
	got := 0

	for got < length+2 {
		n, err := s.channel.ReadWithTimeout(buf[got:length+2], trackTimeout)
		if err != nil {
			return nil, fmt.Errorf("error reading track: %v", err)
		}
		if n == 0 { // end of transmission
			break
		}
		got += n
	}

	if got < length+2 {
		return nil, &PartialError{Received: got, Expected: length + 2}
	}

	payload, err := Validate(buf[:length+2], length)
	if err != nil {
		return nil, fmt.Errorf("corrupt track transfer of %d bytes: %w", got, err)
	}

	s.drives.SetHeadLoaded(drive, true)

	log.WithFields(log.Fields{
		"drive": drive, "track": track, "bytes": length}).Debug("READ")
	return payload, nil
}

/*
	WriteTrack runs one WRIT exchange, sending payload to the given track on
	the selected drive. The track data only goes out after the server
	accepted the request with an OK response; the final outcome comes from
	the WSTA frame and is reported verbatim.
*/
func (s *Session) WriteTrack(track int, payload []byte) error {

	s.lock.Lock()
	defer s.lock.Unlock()

	drive := s.drives.Selected()
	if drive == DriveNone {
		return ErrInvalidDrive
	}
	if err := s.checkTrack(track); err != nil {
		return err
	}

	length := s.geometry.TrackLength()
	if len(payload) != length {
		return fmt.Errorf(
			"invalid track payload length: %d, want %d", len(payload), length)
	}

	cmd := Encode(TagWrit, trackParam(drive, track), uint16(length))
	if _, err := s.channel.Write(cmd); err != nil {
		return fmt.Errorf("error sending WRIT: %v", err)
	}

	resp, err := s.awaitFrame(TagWrit)
	if err != nil {
		return err
	}
	if resp.Rcode() != CodeOK {
		return &StatusError{Code: resp.Rcode()}
	}

	if _, err := s.channel.Write(AppendChecksum(payload)); err != nil {
		return fmt.Errorf("error sending track: %v", err)
	}

	resp, err = s.awaitFrame(TagWsta)
	if err != nil {
		return err
	}
	if resp.Rcode() != CodeOK {
		return &StatusError{Code: resp.Rcode()}
	}

	s.drives.SetHeadLoaded(drive, true)

	log.WithFields(log.Fields{
		"drive": drive, "track": track, "bytes": length}).Debug("WRIT")
	return nil
}

/*
	awaitFrame accumulates one complete response frame, with a bounded wait
	per read attempt. A zero byte attempt counts as a timeout. A complete
	frame with a bad checksum is dropped as if it had never arrived, per the
	FDC+ recovery rules; the caller may re-issue the command.
*/
func (s *Session) awaitFrame(tag string) (*Frame, error) {

	buf := make([]byte, FrameLength)

	for got := 0; got < FrameLength; {
		n, err := s.channel.ReadWithTimeout(buf[got:], frameTimeout)
		if err != nil {
			return nil, fmt.Errorf("error reading response: %v", err)
		}
		if n == 0 {
			return nil, ErrTimeout
		}
		got += n
	}

	resp, err := Decode(buf)
	if err != nil {
		log.Debugf("dropping response: %v", err)
		return nil, err
	}

	if resp.Tag != tag {
		return nil, &TagError{Want: tag, Got: resp.Tag}
	}

	return resp, nil
}

//
func (s *Session) checkTrack(track int) error {
	if track < 0 || track >= s.geometry.Tracks() {
		return fmt.Errorf("invalid track number: %d", track)
	}
	return nil
}

// trackParam packs drive and track into param1 of READ and WRIT commands:
// track number in the low 12 bits, drive number in the high nibble.
func trackParam(drive, track int) uint16 {
	return uint16(track)&0x0fff | uint16(drive)<<12
}
