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
	"context"
)

// Transport is the boundary to the RC522 driver. Everything below it (SPI
// framing, anticollision, CRC) belongs to the driver.
type Transport interface {
	// ReadUID returns the UID of the card currently in the field, or
	// ErrNoTag when the field is empty before ctx expires.
	ReadUID(ctx context.Context) ([]byte, error)

	// Close releases the bus and any pins held by the transport
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportSPI represents SPI bus transport.
	TransportSPI TransportType = "spi"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// Initializer is implemented by transports that need a chip reset or self
// test before the first read.
type Initializer interface {
	Init(ctx context.Context) error
}

// GainSetter is implemented by transports that can change the antenna gain
type GainSetter interface {
	SetAntennaGain(gain int) error
}

// TransportFactory creates a transport for a bus configuration
type TransportFactory func(cfg Config) (Transport, error)
