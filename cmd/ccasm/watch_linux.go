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

package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"
)

// watchFile calls changed every time path is rewritten. The parent directory
// is watched so editors that replace the file by renaming are still seen.
func watchFile(path string, changed func()) error {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)

	if err != nil {
		return fmt.Errorf("inotify: %w", err)
	}

	defer unix.Close(fd)

	dir, name := filepath.Split(path)

	if dir == "" {
		dir = "."
	}

	if _, err := unix.InotifyAddWatch(
		fd, dir, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO,
	); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	glog.V(1).Infof("Watching %s", path)

	buffer := make([]byte, 64*(unix.SizeofInotifyEvent+unix.NAME_MAX+1))

	for {
		n, err := unix.Read(fd, buffer)

		if err == unix.EINTR {
			continue
		}

		if err != nil {
			return fmt.Errorf("reading inotify events: %w", err)
		}

		modified := false

		for offset := 0; offset+unix.SizeofInotifyEvent <= n; {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buffer[offset]))
			start := offset + unix.SizeofInotifyEvent
			end := start + int(event.Len)

			if end > n {
				break
			}

			if string(bytes.TrimRight(buffer[start:end], "\x00")) == name {
				modified = true
			}

			offset = end
		}

		if modified {
			glog.V(1).Infof("%s changed", path)
			changed()
		}
	}
}
