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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		devicePath  string
		ignorePaths []string
		expected    bool
	}{
		{name: "empty ignore list", devicePath: "/dev/spidev0.0", ignorePaths: []string{}, expected: false},
		{name: "nil ignore list", devicePath: "/dev/spidev0.0", ignorePaths: nil, expected: false},
		{name: "exact match", devicePath: "/dev/spidev0.0", ignorePaths: []string{"/dev/spidev0.0"}, expected: true},
		{name: "no match", devicePath: "/dev/spidev0.0", ignorePaths: []string{"/dev/spidev0.1"}, expected: false},
		{name: "case insensitive", devicePath: "/dev/SPIDEV0.0", ignorePaths: []string{"/dev/spidev0.0"}, expected: true},
		{name: "unclean path", devicePath: "/dev/spidev1.0", ignorePaths: []string{"/dev/../dev/spidev1.0/"}, expected: true},
		{name: "empty device path", devicePath: "", ignorePaths: []string{""}, expected: false},
		{name: "empty entries skipped", devicePath: "/dev/spidev0.0", ignorePaths: []string{"", "/dev/spidev0.0"}, expected: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsPathIgnored(tt.devicePath, tt.ignorePaths))
		})
	}
}

func TestIsIgnored(t *testing.T) {
	t.Parallel()
	dev := DeviceInfo{Name: "SPI0.1", Path: "/dev/spidev0.1", Transport: "spi"}

	assert.True(t, IsIgnored(dev, []string{"/dev/spidev0.1"}))
	assert.True(t, IsIgnored(dev, []string{"spi0.1"}))
	assert.False(t, IsIgnored(dev, []string{"SPI0.0", "/dev/spidev0.0"}))
	assert.False(t, IsIgnored(dev, nil))
}

func TestBusNameFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/dev/spidev0.0": "SPI0.0",
		"/dev/spidev1.2": "SPI1.2",
		"spidev10.11":    "SPI10.11",
		"/dev/spidev0":   "",
		"/dev/spidevX.0": "",
		"/dev/spidev0.":  "",
		"/dev/ttyUSB0":   "",
		"/dev/i2c-1":     "",
		"":               "",
	}

	for path, want := range tests {
		assert.Equal(t, want, BusNameFromPath(path), path)
	}
}
