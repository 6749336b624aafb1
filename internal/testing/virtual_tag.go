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

// Package testing provides a simulated reader field for hardware-free tests
package testing

import (
	"sync"
)

// Common test UIDs
var (
	// TestMifare1KUID is a 4-byte UID followed by its BCC, as the RC522
	// anticollision step returns it
	TestMifare1KUID = []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x22}
	// TestNTAG213UID is a 7-byte UID
	TestNTAG213UID = []byte{0x04, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}
)

// VirtualTag represents a simulated card that can be moved in and out of
// the reader field
type VirtualTag struct {
	UID     []byte
	mu      sync.Mutex
	present bool
}

// NewVirtualTag creates a tag that starts outside the field
func NewVirtualTag(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestMifare1KUID
	}
	return &VirtualTag{UID: append([]byte(nil), uid...)}
}

// Present moves the tag into the field
func (v *VirtualTag) Present() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.present = true
}

// Remove takes the tag out of the field
func (v *VirtualTag) Remove() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.present = false
}

// IsPresent reports whether the tag is in the field
func (v *VirtualTag) IsPresent() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.present
}

// Read returns a copy of the UID when the tag is in the field
func (v *VirtualTag) Read() ([]byte, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.present {
		return nil, false
	}
	return append([]byte(nil), v.UID...), true
}
