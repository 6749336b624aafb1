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
	"os"
	"path/filepath"
	"testing"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) (*pflag.FlagSet, *flagValues) {
	t.Helper()
	f := &flagValues{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse(args))
	return fs, f
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rc522.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestResolveSettings_Defaults(t *testing.T) {
	t.Parallel()
	fs, f := parseFlags(t)

	s, err := resolveSettings(fs, f)
	require.NoError(t, err)
	assert.Equal(t, rc522.DefaultConfig(), s.reader)
	assert.False(t, s.debug)
	assert.Empty(t, s.ignore)
}

func TestResolveSettings_File(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
debug: true
ignore_paths:
  - /dev/spidev0.1
reader:
  bus: SPI0.0
  sda: 8
  rst: 25
  irq: 24
  scan_interval: 250ms
`)
	fs, f := parseFlags(t, "--config", path)

	s, err := resolveSettings(fs, f)
	require.NoError(t, err)
	assert.True(t, s.debug)
	assert.Equal(t, []string{"/dev/spidev0.1"}, s.ignore)
	assert.Equal(t, "SPI0.0", s.reader.Bus)
	assert.Equal(t, 8, s.reader.SDA)
	assert.Equal(t, 25, s.reader.RST)
	assert.Equal(t, 24, s.reader.IRQ)
	assert.Equal(t, 250*time.Millisecond, s.reader.ScanInterval)
	// keys absent from the file keep their defaults
	assert.Equal(t, rc522.DefaultMISO, s.reader.MISO)
	assert.Equal(t, rc522.GainDefault, s.reader.AntennaGain)
}

func TestResolveSettings_FlagsOverrideFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "reader:\n  bus: SPI0.0\n  sda: 8\n")
	fs, f := parseFlags(t, "-c", path, "--bus", "SPI1.0", "--gain", "6", "--interval", "50ms", "--debug")

	s, err := resolveSettings(fs, f)
	require.NoError(t, err)
	assert.Equal(t, "SPI1.0", s.reader.Bus)
	assert.Equal(t, 8, s.reader.SDA, "flag not given, file value kept")
	assert.Equal(t, 6, s.reader.AntennaGain)
	assert.Equal(t, 50*time.Millisecond, s.reader.ScanInterval)
	assert.True(t, s.debug)
}

func TestResolveSettings_Errors(t *testing.T) {
	t.Parallel()

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		fs, f := parseFlags(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := resolveSettings(fs, f)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("BadYAML", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "reader: [unterminated")
		fs, f := parseFlags(t, "--config", path)
		_, err := resolveSettings(fs, f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})
}
