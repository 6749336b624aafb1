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

package main

import (
	"fmt"
	"os"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// fileConfig is the layout of the YAML file given with --config
type fileConfig struct {
	IgnorePaths []string     `yaml:"ignore_paths"`
	Reader      rc522.Config `yaml:"reader"`
	Debug       bool         `yaml:"debug"`
}

// flagValues holds the raw command line values
type flagValues struct {
	configPath string
	bus        string
	ignore     []string
	interval   time.Duration
	miso       int
	mosi       int
	sck        int
	sda        int
	rst        int
	irq        int
	gain       int
	debug      bool
}

func (f *flagValues) register(fs *pflag.FlagSet) {
	defaults := rc522.DefaultConfig()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	fs.StringVar(&f.bus, "bus", "", "SPI bus, e.g. SPI0.0 (empty: auto-detect)")
	fs.StringSliceVar(&f.ignore, "ignore", nil, "bus names or device paths to skip during auto-detection")
	fs.DurationVar(&f.interval, "interval", defaults.ScanInterval, "delay between reads of the field")
	fs.IntVar(&f.miso, "miso", defaults.MISO, "MISO GPIO number")
	fs.IntVar(&f.mosi, "mosi", defaults.MOSI, "MOSI GPIO number")
	fs.IntVar(&f.sck, "sck", defaults.SCK, "SCK GPIO number")
	fs.IntVar(&f.sda, "sda", defaults.SDA, "SDA (chip select) GPIO number")
	fs.IntVar(&f.rst, "rst", defaults.RST, "RST GPIO number (-1: not wired)")
	fs.IntVar(&f.irq, "irq", defaults.IRQ, "IRQ GPIO number (-1: not wired)")
	fs.IntVar(&f.gain, "gain", defaults.AntennaGain, "antenna gain 0..7 (-1: chip default)")
	fs.BoolVar(&f.debug, "debug", false, "enable debug output")
}

// settings is the resolved configuration for one run
type settings struct {
	ignore []string
	reader rc522.Config
	debug  bool
}

// loadFile decodes path over base, keeping base values for absent keys
func loadFile(path string, base fileConfig) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return base, nil
}

// resolveSettings layers defaults, the config file and explicitly set flags
func resolveSettings(fs *pflag.FlagSet, f *flagValues) (settings, error) {
	file := fileConfig{Reader: rc522.DefaultConfig()}
	if f.configPath != "" {
		var err error
		if file, err = loadFile(f.configPath, file); err != nil {
			return settings{}, err
		}
	}

	s := settings{
		reader: file.Reader,
		ignore: file.IgnorePaths,
		debug:  file.Debug,
	}

	if fs.Changed("bus") {
		s.reader.Bus = f.bus
	}
	if fs.Changed("ignore") {
		s.ignore = f.ignore
	}
	if fs.Changed("interval") {
		s.reader.ScanInterval = f.interval
	}
	for name, dst := range map[string]struct {
		field *int
		value int
	}{
		"miso": {&s.reader.MISO, f.miso},
		"mosi": {&s.reader.MOSI, f.mosi},
		"sck":  {&s.reader.SCK, f.sck},
		"sda":  {&s.reader.SDA, f.sda},
		"rst":  {&s.reader.RST, f.rst},
		"irq":  {&s.reader.IRQ, f.irq},
		"gain": {&s.reader.AntennaGain, f.gain},
	} {
		if fs.Changed(name) {
			*dst.field = dst.value
		}
	}
	if fs.Changed("debug") {
		s.debug = f.debug
	}

	return s, nil
}
