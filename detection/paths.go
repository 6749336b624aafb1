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

package detection

import (
	"path/filepath"
	"strings"
)

// IsPathIgnored reports whether devicePath appears in ignorePaths. Paths are
// cleaned and compared case-insensitively.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}

	want := normalizedPath(devicePath)
	for _, ignorePath := range ignorePaths {
		if ignorePath != "" && normalizedPath(ignorePath) == want {
			return true
		}
	}
	return false
}

// IsIgnored reports whether a device is excluded by either its node path or
// its bus name
func IsIgnored(dev DeviceInfo, ignore []string) bool {
	if IsPathIgnored(dev.Path, ignore) {
		return true
	}
	for _, name := range ignore {
		if name != "" && strings.EqualFold(name, dev.Name) {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}

// BusNameFromPath converts a spidev node such as /dev/spidev0.1 into the
// periph port name SPI0.1. It returns "" for anything else.
func BusNameFromPath(path string) string {
	base := filepath.Base(path)
	rest, ok := strings.CutPrefix(base, "spidev")
	if !ok {
		return ""
	}
	bus, cs, ok := strings.Cut(rest, ".")
	if !ok || !isDigits(bus) || !isDigits(cs) {
		return ""
	}
	return "SPI" + bus + "." + cs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
