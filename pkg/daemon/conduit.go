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
	"time"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// the three baud rates the FDC+ can be strapped to; 403.2K runs the disk
// at full speed and is the preferred choice
const Baud2304 = 230400
const Baud4032 = 403200
const Baud4608 = 460800

//
const DefaultBaudRate = Baud4032

/*
	conduit adapts a serial port to the session's channel contract. The FDC+
	link runs 8-N-1 with no flow control; the per attempt wait bound maps
	onto the port's read timeout.
*/
type conduit struct {
	port serial.Port
}

//
func newConduit(device string, baudRate int) (*conduit, error) {

	switch baudRate {
	case Baud2304, Baud4032, Baud4608:
	default:
		log.Warnf("non-standard baud rate %d, FDC+ uses %d, %d, or %d",
			baudRate, Baud2304, Baud4032, Baud4608)
	}

	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}

	return &conduit{port: port}, nil
}

//
func (c *conduit) close() error {
	return c.port.Close()
}

//
func (c *conduit) Write(data []byte) (int, error) {
	return c.port.Write(data)
}

// ReadWithTimeout returns once any data arrived or the wait bound passed,
// whichever comes first; a timeout is a zero byte read, not an error.
func (c *conduit) ReadWithTimeout(
	data []byte, timeout time.Duration) (int, error) {

	if err := c.port.SetReadTimeout(timeout); err != nil {
		return 0, err
	}
	return c.port.Read(data)
}
