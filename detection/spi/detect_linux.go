// go-rc522
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rc522.
//
// go-rc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

//go:build linux

package spi

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/go-rc522/detection"
	"golang.org/x/sys/unix"
)

// isCharDevice reports whether path is a character device node
func isCharDevice(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFCHR
}

// canOpen checks that the node can be opened read-write without touching the bus
func canOpen(path string) bool {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC|unix.O_NONBLOCK, 0)
	if err != nil {
		return false
	}
	_ = unix.Close(fd)
	return true
}

func detectLinux(ctx context.Context, glob string, opts *detection.Options) ([]detection.DeviceInfo, error) {
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("failed to list spidev nodes: %w", err)
	}
	if len(paths) == 0 {
		return nil, detection.ErrNoDevicesFound
	}

	devices := make([]detection.DeviceInfo, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		name := detection.BusNameFromPath(path)
		if name == "" || !isCharDevice(path) {
			continue
		}
		if opts.Mode == detection.Safe && !canOpen(path) {
			continue
		}

		devices = append(devices, detection.DeviceInfo{
			Name:      name,
			Path:      path,
			Transport: "spi",
			Metadata:  map[string]string{"mode": modeName(opts.Mode)},
		})
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func modeName(m detection.Mode) string {
	if m == detection.Safe {
		return "safe"
	}
	return "passive"
}
