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

package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fdcplus/pkg/daemon"
	"github.com/xelalexv/fdcplus/pkg/fdc"
)

//
type APIServer interface {
	Serve() error
	Stop() error
}

//
func NewAPIServer(addr string, d *daemon.Daemon) APIServer {
	return &api{address: addr, daemon: d}
}

//
type api struct {
	address string
	daemon  *daemon.Daemon
	server  *http.Server
}

//
func (a *api) Serve() error {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "status", "GET", "/status", a.status)
	addRoute(router, "stat", "PUT", "/stat", a.stat)
	addRoute(router, "select", "PUT", "/select/{drive:[0-3]}", a.selectDrive)
	addRoute(router, "deselect", "PUT", "/deselect", a.deselectDrive)
	addRoute(router, "head", "PUT", "/drive/{drive:[0-3]}/head", a.head)
	addRoute(router, "read", "GET",
		"/drive/{drive:[0-3]}/track/{track:[0-9]+}", a.readTrack)
	addRoute(router, "write", "PUT",
		"/drive/{drive:[0-3]}/track/{track:[0-9]+}", a.writeTrack)
	addRoute(router, "config", "PUT", "/config", a.config)

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8888", a.address)
	}

	log.Infof("FdcPlus API starts listening on %s", addr)
	a.server = &http.Server{Addr: addr, Handler: router}

	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

//
func (a *api) Stop() error {
	if a.server != nil {
		log.Info("API server stopping...")
		err := a.server.Shutdown(context.Background())
		a.server = nil
		return err
	}
	return nil
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

//
func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

//
func (a *api) status(w http.ResponseWriter, req *http.Request) {

	stat := &Status{
		Geometry: a.daemon.Geometry().String(),
		Selected: a.daemon.SelectedDrive(),
		Synced:   a.daemon.Synced(),
		Polling:  a.daemon.Polling(),
	}

	for drive := 0; drive < fdc.DriveCount; drive++ {
		stat.Drives = append(stat.Drives, Drive{
			Drive:      drive,
			Mounted:    a.daemon.Mounted(drive),
			HeadLoaded: a.daemon.HeadLoaded(drive),
			Selected:   drive == a.daemon.SelectedDrive(),
		})
	}

	if wantsJSON(req) {
		sendJSONReply(stat, http.StatusOK, w)
	} else {
		sendReply([]byte(stat.String()), http.StatusOK, w)
	}
}

// stat triggers one manual STAT exchange, for setups with polling off.
func (a *api) stat(w http.ResponseWriter, req *http.Request) {

	mounted, err := a.daemon.Stat()
	if err != nil {
		handleExchangeError(err, w)
		return
	}

	sendReply([]byte(
		fmt.Sprintf("mount bitmap: 0x%04x", mounted)), http.StatusOK, w)
}

//
func (a *api) selectDrive(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	if handleError(a.daemon.SelectDrive(drive),
		http.StatusUnprocessableEntity, w) {
		return
	}

	sendReply([]byte(
		fmt.Sprintf("selected drive %d", drive)), http.StatusOK, w)
}

//
func (a *api) deselectDrive(w http.ResponseWriter, req *http.Request) {
	a.daemon.DeselectDrive()
	sendReply([]byte("deselected drive"), http.StatusOK, w)
}

//
func (a *api) head(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	loaded := isFlagSet(req, "loaded")
	a.daemon.SetHeadLoaded(drive, loaded)

	sendReply([]byte(fmt.Sprintf(
		"head of drive %d %s", drive, onOff(loaded, "loaded", "unloaded"))),
		http.StatusOK, w)
}

//
func (a *api) readTrack(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}
	track := getTrack(w, req)
	if track == -1 {
		return
	}

	if handleError(a.daemon.SelectDrive(drive),
		http.StatusUnprocessableEntity, w) {
		return
	}

	payload, err := a.daemon.ReadTrack(track)
	if err != nil {
		handleExchangeError(err, w)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Errorf("problem sending track: %v", err)
	}
}

//
func (a *api) writeTrack(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}
	track := getTrack(w, req)
	if track == -1 {
		return
	}

	payload, err := ioutil.ReadAll(
		io.LimitReader(req.Body, fdc.MaxTrackLength+1))
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	if handleError(req.Body.Close(), http.StatusInternalServerError, w) {
		return
	}

	if handleError(a.daemon.SelectDrive(drive),
		http.StatusUnprocessableEntity, w) {
		return
	}

	if err := a.daemon.WriteTrack(track, payload); err != nil {
		handleExchangeError(err, w)
		return
	}

	sendReply([]byte(fmt.Sprintf(
		"wrote track %d to drive %d", track, drive)), http.StatusOK, w)
}

//
func (a *api) config(w http.ResponseWriter, req *http.Request) {

	if arg, _ := getArg(req, "geometry"); arg != "" {
		g := fdc.GetGeometry(arg)
		if g == fdc.UNKNOWN {
			handleError(fmt.Errorf("unknown geometry: %s", arg),
				http.StatusUnprocessableEntity, w)
			return
		}
		if handleError(a.daemon.SetGeometry(g),
			http.StatusUnprocessableEntity, w) {
			return
		}
	}

	if arg, _ := getArg(req, "interval"); arg != "" {
		ms, err := strconv.Atoi(arg)
		if handleError(err, http.StatusUnprocessableEntity, w) {
			return
		}
		if handleError(
			a.daemon.SetPollInterval(time.Duration(ms)*time.Millisecond),
			http.StatusUnprocessableEntity, w) {
			return
		}
	}

	if arg, _ := getArg(req, "poll"); arg != "" {
		a.daemon.SetPolling(arg == "true")
	}

	sendReply([]byte("configured"), http.StatusOK, w)
}

//
func getDrive(w http.ResponseWriter, req *http.Request) int {
	vars := mux.Vars(req)
	drive, err := strconv.Atoi(vars["drive"])
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return -1
	}
	return drive
}

//
func getTrack(w http.ResponseWriter, req *http.Request) int {
	vars := mux.Vars(req)
	track, err := strconv.Atoi(vars["track"])
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return -1
	}
	return track
}

//
func isFlagSet(req *http.Request, flag string) bool {
	return req.URL.Query().Get(flag) == "true"
}

//
func getArg(req *http.Request, arg string) (string, error) {
	return req.URL.Query().Get(arg), nil
}

/*
	handleExchangeError maps a failed exchange onto an HTTP status: problems
	on the far side of the serial link are gateway errors, a refused drive
	number is the client's fault.
*/
func handleExchangeError(err error, w http.ResponseWriter) {

	switch {

	case errors.Is(err, fdc.ErrInvalidDrive):
		handleError(err, http.StatusUnprocessableEntity, w)
		return

	case errors.Is(err, fdc.ErrTimeout):
		handleError(err, http.StatusGatewayTimeout, w)
		return

	case errors.Is(err, fdc.ErrChecksum), errors.Is(err, fdc.ErrLengthMismatch):
		handleError(err, http.StatusBadGateway, w)
		return
	}

	switch err.(type) {

	case *fdc.TagError, *fdc.PartialError, *fdc.StatusError:
		handleError(err, http.StatusBadGateway, w)

	default:
		handleError(err, http.StatusInternalServerError, w)
	}
}

//
func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	log.Errorf("%v", e)

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing reply: %v", err)
	}
}

// FIXME: make more tolerant
func wantsJSON(req *http.Request) bool {
	return req.Header.Get("Content-Type") == "application/json"
}
