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
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fdcplus/pkg/fdc"
)

// the FDC issues STAT about ten times per second so that head and mount
// status stays fresh
const DefaultPollInterval = 100 * time.Millisecond
const minPollInterval = 10 * time.Millisecond

//
var ErrDaemonStopped = errors.New("daemon stopped")

/*
	Daemon owns the serial link to the disk server and the STAT polling
	cadence. All exchanges, the poller's and the API's alike, funnel through
	one session, which keeps them serialized on the wire.
*/
type Daemon struct {
	device   string
	baudRate int

	lock    sync.RWMutex
	conduit *conduit
	session *fdc.Session
	drives  *fdc.Drives

	// last good STAT mount bitmap; remote fact, cache only
	mounted uint16
	synced  bool

	interval time.Duration
	polling  bool

	stop     chan bool
	stopOnce sync.Once
}

//
func NewDaemon(device string, baudRate int, geometry fdc.Geometry) *Daemon {

	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if geometry == fdc.UNKNOWN {
		geometry = fdc.Disk8
	}

	d := &Daemon{
		device:   device,
		baudRate: baudRate,
		drives:   fdc.NewDrives(),
		interval: DefaultPollInterval,
		stop:     make(chan bool),
	}
	d.session = fdc.NewSession(nil, geometry, d.drives)
	return d
}

// Serve opens the serial link and runs the STAT polling loop until Stop is
// called. The session itself never retries; a missed poll is simply made up
// for by the next one.
func (d *Daemon) Serve() error {

	if err := d.resetConduit(); err != nil {
		return err
	}

	for {
		select {

		case <-d.stop:
			d.closeConduit()
			return nil

		case <-time.After(d.PollInterval()):
			if d.Polling() {
				d.pollStat()
			}
		}
	}
}

// Stop shuts the daemon down; calling it more than once is harmless.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() {
		close(d.stop)
	})
}

//
func (d *Daemon) pollStat() {

	mounted, err := d.Stat()

	switch {

	case err == nil:
		log.WithField("mounted", fmt.Sprintf("%04x", mounted)).Trace("poll")

	case err == fdc.ErrChecksum:
		// corrupt response, dropped; next poll makes up for it
		log.Debug("ignoring corrupt STAT response")

	case err == fdc.ErrTimeout:
		log.Debug("no STAT response from server")

	default:
		if _, ok := err.(*fdc.TagError); ok {
			log.Warnf("polling: %v", err)
		} else {
			log.Errorf("polling failed: %v", err)
			if err := d.resetConduit(); err != nil {
				log.Errorf("cannot reset serial link: %v", err)
			}
		}
	}
}

/*
	resetConduit closes the current serial link, if any, and reopens it with
	exponential backoff. It only returns an error when the daemon is stopped
	while waiting.
*/
func (d *Daemon) resetConduit() error {

	d.closeConduit()

	maxBackoff := 15 * time.Second

	for backoff := time.Second; ; {
		log.Infof("opening port %s at %d baud", d.device, d.baudRate)
		con, err := newConduit(d.device, d.baudRate)
		if err == nil {
			d.lock.Lock()
			d.conduit = con
			d.session = fdc.NewSession(con, d.session.Geometry(), d.drives)
			d.lock.Unlock()
			return nil
		}

		log.Errorf("cannot open serial port: %v", err)
		if backoff < maxBackoff {
			backoff *= 2
		}

		select {
		case <-d.stop:
			return ErrDaemonStopped
		case <-time.After(backoff):
		}
	}
}

//
func (d *Daemon) closeConduit() {

	d.lock.Lock()
	defer d.lock.Unlock()

	d.synced = false

	if d.conduit != nil {
		log.Infof("closing port %s", d.device)
		if err := d.conduit.close(); err != nil {
			log.Errorf("error closing port: %v", err)
		}
		d.conduit = nil
	}
}

//
func (d *Daemon) sess() (*fdc.Session, error) {

	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.conduit == nil {
		return nil, fmt.Errorf("serial link not open")
	}
	return d.session, nil
}

// Stat runs one STAT exchange and refreshes the cached mount bitmap.
func (d *Daemon) Stat() (uint16, error) {

	s, err := d.sess()
	if err != nil {
		return 0, err
	}

	mounted, err := s.Stat()

	d.lock.Lock()
	if err == nil {
		d.mounted = mounted
		d.synced = true
	} else if err == fdc.ErrTimeout {
		d.synced = false
	}
	d.lock.Unlock()

	return mounted, err
}

// ReadTrack fetches one track from the selected drive.
func (d *Daemon) ReadTrack(track int) ([]byte, error) {
	s, err := d.sess()
	if err != nil {
		return nil, err
	}
	return s.ReadTrack(track)
}

// WriteTrack sends one track to the selected drive.
func (d *Daemon) WriteTrack(track int, payload []byte) error {
	s, err := d.sess()
	if err != nil {
		return err
	}
	return s.WriteTrack(track, payload)
}

//
func (d *Daemon) SelectDrive(drive int) error {
	return d.drives.Select(drive)
}

//
func (d *Daemon) DeselectDrive() {
	d.drives.Deselect()
}

//
func (d *Daemon) SelectedDrive() int {
	return d.drives.Selected()
}

//
func (d *Daemon) SetHeadLoaded(drive int, loaded bool) {
	d.drives.SetHeadLoaded(drive, loaded)
}

//
func (d *Daemon) HeadLoaded(drive int) bool {
	return d.drives.HeadLoaded(drive)
}

// Mounted reports whether drive has an image mounted, according to the last
// good STAT response.
func (d *Daemon) Mounted(drive int) bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.mounted&(1<<drive) != 0
}

//
func (d *Daemon) Synced() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.synced
}

//
func (d *Daemon) Geometry() fdc.Geometry {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.session.Geometry()
}

// SetGeometry switches disk geometry; fixed otherwise for the session's
// lifetime.
func (d *Daemon) SetGeometry(g fdc.Geometry) error {
	if g == fdc.UNKNOWN {
		return fmt.Errorf("unknown geometry")
	}
	d.lock.RLock()
	defer d.lock.RUnlock()
	d.session.SetGeometry(g)
	return nil
}

//
func (d *Daemon) Polling() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.polling
}

//
func (d *Daemon) SetPolling(on bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.polling = on
}

//
func (d *Daemon) PollInterval() time.Duration {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.interval
}

//
func (d *Daemon) SetPollInterval(interval time.Duration) error {
	if interval < minPollInterval {
		return fmt.Errorf("poll interval too short: %v", interval)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.interval = interval
	return nil
}
