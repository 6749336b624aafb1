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

/*
Package rc522 provides a pure Go binding for RC522 (MFRC522) RFID readers.

The RC522 is a 13.56 MHz ISO14443A reader IC usually sold on small breakout
boards wired to a host over SPI. This package does not speak the chip
protocol itself: a Transport (see package transport/spi) hands it the UID of
the card in the field, and the package turns those reads into a stream of
events delivered to registered handlers.

Lifecycle:

A Device moves through its states in one direction only:

	Uninitialized -> Created -> Registered -> Running -> Closed

Create (or Open) claims the bus and yields a Created device. Register adds a
handler for a set of event kinds. Start launches scanning. Each call checks
the state it expects and fails with ErrNotInitialized, ErrNotRegistered or
ErrAlreadyRunning otherwise. Close stops everything and releases the bus.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-rc522"
	    "github.com/ZaparooProject/go-rc522/transport/spi"
	)

	cfg := rc522.DefaultConfig()
	cfg.Bus = "SPI0.0"
	cfg.RST = 25
	cfg.IRQ = 24

	device, err := rc522.Open(cfg, spi.Factory)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Register(rc522.EventAny, rc522.LogHandler(slog.Default())); err != nil {
	    log.Fatal(err)
	}
	if err := device.Start(ctx); err != nil {
	    log.Fatal(err)
	}

Events:

EventTagScanned fires once each time a tag enters the field. EventTagRemoved
fires when it leaves, or when a different tag replaces it. Tag.SerialNumber
folds the UID into a uint64, first byte least significant.

Handlers run on a goroutine owned by the Device, one event at a time. They
never run on the goroutine that called Start and should return quickly;
events published while the queue is full are dropped and counted in Metrics.

Error Handling:

	if errors.Is(err, rc522.ErrBusClaimed) {
	    // another Device owns this bus
	}
*/
package rc522
