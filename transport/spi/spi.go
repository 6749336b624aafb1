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

// Package spi provides the periph.io SPI transport for RC522 readers
package spi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/mfrc522"
	"periph.io/x/host/v3"
)

const (
	// defaultReadTimeout is used when ReadUID gets a context without deadline
	defaultReadTimeout = 100 * time.Millisecond

	maxAntennaGain = 7

	// singleSizeUID is the length of a single size ISO14443A UID without BCC
	singleSizeUID = 4
)

// reader is the subset of the mfrc522 driver used by Transport
type reader interface {
	ReadUID(timeout time.Duration) ([]byte, error)
	SetAntennaGain(gain int) error
	Halt() error
}

// Transport implements rc522.Transport on top of periph.io's mfrc522 driver
type Transport struct {
	dev     reader
	port    spi.PortCloser
	busName string
	mu      sync.Mutex
	closed  bool
}

// Factory is an rc522.TransportFactory opening the SPI transport
func Factory(cfg rc522.Config) (rc522.Transport, error) {
	t, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// New opens the SPI port named by cfg.Bus and attaches the mfrc522 driver.
// RST and IRQ are resolved as GPIO<n> and must both be wired.
func New(cfg rc522.Config) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(cfg.Bus)
	if err != nil {
		return nil, rc522.NewTransportError("open", cfg.BusName(),
			fmt.Errorf("%w: %w", rc522.ErrDeviceNotFound, err), rc522.ErrorTypePermanent)
	}

	checkBusPins(port, cfg)

	resetPin, err := outPin(cfg.RST)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("reset pin: %w", err)
	}
	irqPin, err := inPin(cfg.IRQ)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("irq pin: %w", err)
	}

	dev, err := mfrc522.NewSPI(port, resetPin, irqPin, mfrc522.WithSync())
	if err != nil {
		_ = port.Close()
		return nil, rc522.NewTransportError("open", cfg.BusName(), err, rc522.ErrorTypeTransient)
	}

	return &Transport{
		dev:     dev,
		port:    port,
		busName: cfg.BusName(),
	}, nil
}

// ReadUID implements rc522.Transport
func (t *Transport) ReadUID(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, rc522.ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := defaultReadTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, rc522.ErrNoTag
		}
	}

	uid, err := t.dev.ReadUID(timeout)
	if err != nil {
		return nil, classifyReadError(t.busName, err)
	}
	if len(uid) == 0 {
		return nil, rc522.ErrNoTag
	}
	return withBCC(uid), nil
}

// withBCC restores the check byte the driver strips from single size UIDs,
// so a 4-byte UID is reported as the 5-byte anticollision response the
// serial number is derived from. Longer UIDs are returned unchanged.
func withBCC(uid []byte) []byte {
	if len(uid) != singleSizeUID {
		return uid
	}
	out := make([]byte, 0, singleSizeUID+1)
	out = append(out, uid...)
	return append(out, uid[0]^uid[1]^uid[2]^uid[3])
}

// classifyReadError maps driver errors onto the rc522 error set. The driver
// reports an empty field as a timeout waiting for the card.
func classifyReadError(busName string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return rc522.ErrNoTag
	case strings.Contains(msg, "closed"):
		return rc522.NewTransportError("read", busName, errors.Join(rc522.ErrTransportClosed, err), rc522.ErrorTypePermanent)
	default:
		return rc522.NewTransportError("read", busName, errors.Join(rc522.ErrCommunicationFailed, err), rc522.ErrorTypeTransient)
	}
}

// SetAntennaGain implements rc522.GainSetter
func (t *Transport) SetAntennaGain(gain int) error {
	if gain < 0 || gain > maxAntennaGain {
		return fmt.Errorf("antenna gain %d out of range 0..%d: %w", gain, maxAntennaGain, rc522.ErrInvalidParameter)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return rc522.ErrTransportClosed
	}
	if err := t.dev.SetAntennaGain(gain); err != nil {
		return fmt.Errorf("failed to set antenna gain: %w", err)
	}
	return nil
}

// Close halts the reader and releases the SPI port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	haltErr := t.dev.Halt()
	var portErr error
	if t.port != nil {
		portErr = t.port.Close()
	}
	if err := errors.Join(haltErr, portErr); err != nil {
		return fmt.Errorf("failed to close SPI transport: %w", err)
	}
	return nil
}

// Type implements rc522.Transport
func (*Transport) Type() rc522.TransportType {
	return rc522.TransportSPI
}

// checkBusPins compares the configured bus pins with what the port reports.
// The host decides the SPI pins, so a mismatch is only logged.
func checkBusPins(port spi.Port, cfg rc522.Config) {
	pins, ok := port.(spi.Pins)
	if !ok {
		return
	}

	for _, p := range []struct {
		pin  gpio.PinIO
		name string
		want int
	}{
		{name: "miso", pin: asPinIO(pins.MISO()), want: cfg.MISO},
		{name: "mosi", pin: asPinIO(pins.MOSI()), want: cfg.MOSI},
		{name: "sck", pin: asPinIO(pins.CLK()), want: cfg.SCK},
		{name: "sda", pin: asPinIO(pins.CS()), want: cfg.SDA},
	} {
		got, known := pinNumber(p.pin)
		if !known || got == p.want {
			continue
		}
		slog.Warn("configured SPI pin differs from bus wiring",
			"bus", cfg.BusName(), "pin", p.name, "configured", p.want, "actual", got)
	}
}

func asPinIO(p any) gpio.PinIO {
	if io, ok := p.(gpio.PinIO); ok {
		return io
	}
	return nil
}

func pinNumber(p gpio.PinIO) (int, bool) {
	if p == nil || p == gpio.INVALID {
		return 0, false
	}
	n := p.Number()
	return n, n >= 0
}

// pinName returns the periph registry name for a GPIO number
func pinName(n int) string {
	return "GPIO" + strconv.Itoa(n)
}

func outPin(n int) (gpio.PinOut, error) {
	if n == rc522.PinNone {
		return nil, fmt.Errorf("not wired: %w", rc522.ErrInvalidParameter)
	}
	p := gpioreg.ByName(pinName(n))
	if p == nil {
		return nil, fmt.Errorf("%s not found: %w", pinName(n), rc522.ErrDeviceNotFound)
	}
	return p, nil
}

func inPin(n int) (gpio.PinIn, error) {
	if n == rc522.PinNone {
		return nil, fmt.Errorf("not wired: %w", rc522.ErrInvalidParameter)
	}
	p := gpioreg.ByName(pinName(n))
	if p == nil {
		return nil, fmt.Errorf("%s not found: %w", pinName(n), rc522.ErrDeviceNotFound)
	}
	return p, nil
}

var (
	_ rc522.Transport  = (*Transport)(nil)
	_ rc522.GainSetter = (*Transport)(nil)
)
