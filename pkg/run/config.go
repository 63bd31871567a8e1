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
	"net/url"
)

//
func NewConfig() *Config {

	c := &Config{}
	c.Runner = *NewRunner(
		"config [-g|--geometry {8|mini}] [-i|--interval {ms}] [--poll {on|off}]",
		"change configuration of the daemon",
		`
Use the config command to change daemon settings at runtime. Changes are not
persisted and revert when the daemon restarts.`,
		c.Run)

	c.AddBaseSettings()
	c.AddSetting(&c.Geometry, "geometry", "g", "", "",
		"disk geometry, '8' or 'mini'", false)
	c.AddSetting(&c.Interval, "interval", "i", "", -1,
		"STAT polling interval in milliseconds", false)
	c.AddSetting(&c.Poll, "poll", "", "", "",
		"STAT polling, 'on' or 'off'", false)

	return c
}

//
type Config struct {
	//
	Runner
	//
	Geometry string
	Interval int
	Poll     string
}

//
func (c *Config) Run() error {

	c.ParseSettings()

	query := url.Values{}

	if c.Geometry != "" {
		query.Set("geometry", c.Geometry)
	}
	if c.Interval != -1 {
		query.Set("interval", fmt.Sprintf("%d", c.Interval))
	}

	switch c.Poll {
	case "":
	case "on":
		query.Set("poll", "true")
	case "off":
		query.Set("poll", "false")
	default:
		return fmt.Errorf("invalid poll setting: %s", c.Poll)
	}

	if len(query) == 0 {
		fmt.Println("\nnothing to configure")
		return nil
	}

	msg, err := c.apiText("PUT", "/config?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}
