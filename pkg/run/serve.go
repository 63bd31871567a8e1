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

package run

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fdcplus/pkg/control"
	"github.com/xelalexv/fdcplus/pkg/daemon"
	"github.com/xelalexv/fdcplus/pkg/fdc"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve -d|--device {device} [-b|--baud {rate}] [-g|--geometry {8|mini}]
      [-a|--address {address}] [-i|--interval {ms}] [--no-poll]`,
		"daemon & API server command",
		`Use the serve command for running the FDC+ daemon and API server. The daemon
keeps polling the disk server with STAT exchanges, at the configured interval,
and runs READ and WRIT exchanges on behalf of API clients.`,
		s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Device, "device", "d", "FDCPLUS_DEVICE", nil,
		"serial port device of the disk server link", true)
	s.AddSetting(&s.Baud, "baud", "b", "FDCPLUS_BAUD", daemon.DefaultBaudRate,
		"baud rate; FDC+ supports 230400, 403200, and 460800", false)
	s.AddSetting(&s.Geometry, "geometry", "g", "FDCPLUS_GEOMETRY", "8",
		"disk geometry, '8' or 'mini'", false)
	s.AddSetting(&s.Address, "address", "a", "FDCPLUS_ADDRESS", "",
		"listen address of API server", false)
	s.AddSetting(&s.Interval, "interval", "i", "", 100,
		"STAT polling interval in milliseconds", false)
	s.AddSetting(&s.NoPoll, "no-poll", "", "", false,
		"start with STAT polling off", false)

	return s
}

//
type Serve struct {
	//
	Runner
	//
	Device   string
	Baud     int
	Geometry string
	Address  string
	Interval int
	NoPoll   bool
}

//
func (s *Serve) Run() error {

	s.ParseSettings()

	geometry := fdc.GetGeometry(s.Geometry)
	if geometry == fdc.UNKNOWN {
		return fmt.Errorf("unknown geometry: %s", s.Geometry)
	}

	wg := &sync.WaitGroup{}
	wg.Add(2)

	d := daemon.NewDaemon(s.Device, s.Baud, geometry)
	if err := d.SetPollInterval(
		time.Duration(s.Interval) * time.Millisecond); err != nil {
		return err
	}
	d.SetPolling(!s.NoPoll)

	go func() {
		defer wg.Done()
		err := d.Serve()
		if err != nil && err != daemon.ErrDaemonStopped {
			log.Errorf("daemon closed with error: %v", err)
		} else {
			log.Info("daemon stopped")
		}
	}()

	api := control.NewAPIServer(s.Address, d)
	go func() {
		defer wg.Done()
		if err := api.Serve(); err != nil {
			log.Errorf("API server closed with error: %v", err)
		} else {
			log.Info("API server stopped")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sigCount := 0
	done := make(chan bool)

	for {

		select {

		case sig := <-sigs: // interrupt signal
			log.WithField("signal", sig).Info("signal received")
			sigCount++

			switch sigCount {

			case 1:
				go func() {
					log.Info("shutting down, hit Ctrl-C twice to force exit...")
					api.Stop()
					d.Stop()
					wg.Wait()
					log.Info("FdcPlus stopped")
					done <- true
				}()

			case 2:
				log.Warn("shutdown in progress, hit Ctrl-C again to force exit")

			default:
				log.Warn("forcing daemon to stop immediately")
				os.Exit(1)
			}

		case <-done: // shutdown sequence complete
			return nil
		}
	}
}
