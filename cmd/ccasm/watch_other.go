// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

//go:build !linux

package main

import (
	"os"
	"time"

	"github.com/golang/glog"
)

const pollInterval = 500 * time.Millisecond

// watchFile calls changed every time the modification time of path moves.
func watchFile(path string, changed func()) error {
	stat, err := os.Stat(path)

	if err != nil {
		return err
	}

	modified := stat.ModTime()

	glog.V(1).Infof("Polling %s every %s", path, pollInterval)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		stat, err := os.Stat(path)

		if err != nil {
			glog.V(1).Infof("Stat %s: %s", path, err)
			continue
		}

		if !stat.ModTime().Equal(modified) {
			modified = stat.ModTime()
			glog.V(1).Infof("%s changed", path)
			changed()
		}
	}

	return nil
}
