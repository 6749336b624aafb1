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
	"sync"
)

// busClaims records which buses have a live Device. The hardware allows a
// single owner per bus and this mirrors that rule inside the process.
var busClaims = struct {
	held map[string]struct{}
	mu   sync.Mutex
}{held: make(map[string]struct{})}

func claimBus(name string) error {
	busClaims.mu.Lock()
	defer busClaims.mu.Unlock()

	if _, ok := busClaims.held[name]; ok {
		return ErrBusClaimed
	}
	busClaims.held[name] = struct{}{}
	return nil
}

func releaseBus(name string) {
	busClaims.mu.Lock()
	defer busClaims.mu.Unlock()
	delete(busClaims.held, name)
}

// IsBusClaimed reports whether a live Device owns the named bus. name may be
// a port name or a spidev path, as in Config.Bus.
func IsBusClaimed(name string) bool {
	key := Config{Bus: name}.BusName()
	busClaims.mu.Lock()
	defer busClaims.mu.Unlock()
	_, ok := busClaims.held[key]
	return ok
}
