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

package rc522

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZaparooProject/go-rc522/detection"
)

// Pin numbers used when none are given. They match the common ESP32 VSPI
// wiring of RC522 breakout boards.
const (
	DefaultMISO = 25
	DefaultMOSI = 23
	DefaultSCK  = 19
	DefaultSDA  = 22

	// PinNone marks an optional pin as not wired
	PinNone = -1

	// DefaultScanInterval is the delay between two reads of the field
	DefaultScanInterval = 125 * time.Millisecond

	// GainDefault keeps the chip's power-on antenna gain
	GainDefault = -1
)

// Config describes how an RC522 reader is wired to the host.
//
// Config is passed by value and copied by Create, so a caller can not change
// the configuration of a live device. Pin numbers are not checked here; they
// are forwarded to the transport and fail there when the hardware rejects them.
type Config struct {
	// Bus selects the SPI controller, e.g. "SPI0.0" or "/dev/spidev0.0".
	// An empty string selects the first available bus.
	Bus string `yaml:"bus"`

	MISO int `yaml:"miso"`
	MOSI int `yaml:"mosi"`
	SCK  int `yaml:"sck"`
	// SDA is the chip select line, labelled SDA on most RC522 boards.
	SDA int `yaml:"sda"`

	// RST and IRQ are optional; PinNone leaves them unused.
	RST int `yaml:"rst"`
	IRQ int `yaml:"irq"`

	ScanInterval time.Duration `yaml:"scan_interval"`

	// AntennaGain is the receiver gain index 0..7, GainDefault leaves it alone.
	AntennaGain int `yaml:"antenna_gain"`
}

// DefaultConfig returns the stock wiring
func DefaultConfig() Config {
	return Config{
		MISO:         DefaultMISO,
		MOSI:         DefaultMOSI,
		SCK:          DefaultSCK,
		SDA:          DefaultSDA,
		RST:          PinNone,
		IRQ:          PinNone,
		ScanInterval: DefaultScanInterval,
		AntennaGain:  GainDefault,
	}
}

// BusName returns the bus identifier used for ownership tracking. A spidev
// node path and its periph port name map to the same identifier, so
// "/dev/spidev0.0" and "SPI0.0" claim one bus. An empty Bus is tracked as
// "default"; it is not resolved to the port the transport will pick.
func (c Config) BusName() string {
	if c.Bus == "" {
		return "default"
	}
	if name := detection.BusNameFromPath(c.Bus); name != "" {
		return name
	}
	if strings.HasPrefix(strings.ToUpper(c.Bus), "SPI") {
		return strings.ToUpper(c.Bus)
	}
	return c.Bus
}

// scanInterval returns the configured interval, falling back to the default
func (c Config) scanInterval() time.Duration {
	if c.ScanInterval <= 0 {
		return DefaultScanInterval
	}
	return c.ScanInterval
}

func (c Config) String() string {
	return fmt.Sprintf("bus=%s miso=%d mosi=%d sck=%d sda=%d rst=%d irq=%d interval=%s",
		c.BusName(), c.MISO, c.MOSI, c.SCK, c.SDA, c.RST, c.IRQ, c.scanInterval())
}
