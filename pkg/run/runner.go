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
	"io"
	"io/ioutil"
	"net/http"

	"github.com/xelalexv/fdcplus/pkg/fdc"
)

/*
	NewRunner creates a base runner for commands to use. The parameters are
	passed to the base command wrapped by this runner.
*/
func NewRunner(use, short, long string, exec func() error) *Runner {
	return &Runner{
		Command: *NewCommand(use, short, long, exec),
	}
}

//
type Runner struct {
	//
	Command
	//
	Port int
}

//
func (r *Runner) AddBaseSettings() {
	// Implementation Note: This cannot be included in NewRunner, but rather
	// has to be called from the top level command type. Otherwise, we will
	// confuse Cobra/Viper and the settings will not be filled with their
	// values.
	r.AddSetting(&r.Port, "port", "p", "FDCPLUS_PORT", 8888,
		"port of daemon's API server", false)
}

//
func (r *Runner) apiCall(method, path string,
	body io.Reader) (*http.Response, error) {

	req, err := http.NewRequest(
		method, fmt.Sprintf("http://127.0.0.1:%d%s", r.Port, path), body)
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "text/plain")
	req.Header.Add("Accept", "text/plain")

	return (&http.Client{}).Do(req)
}

// apiText runs an API call and returns the reply body as text, turning
// non-2xx replies into errors.
func (r *Runner) apiText(method, path string, body io.Reader) (string, error) {

	resp, err := r.apiCall(method, path, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	msg, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s", msg)
	}

	return string(msg), nil
}

//
func validateDrive(d int) error {
	if d < 0 || d >= fdc.DriveCount {
		return fmt.Errorf(
			"invalid drive number: %d; valid numbers are 0 through %d",
			d, fdc.DriveCount-1)
	}
	return nil
}
