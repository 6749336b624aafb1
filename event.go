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
	"encoding/hex"
	"log/slog"
	"strings"
	"time"
)

// EventKind identifies what happened on the reader
type EventKind uint8

const (
	// EventNone is never published by the scan loop. It exists so callers
	// can build zero-valued events without claiming a tag was seen.
	EventNone EventKind = iota
	// EventTagScanned fires once per physical presentation of a tag
	EventTagScanned
	// EventTagRemoved fires when a previously scanned tag leaves the field
	EventTagRemoved

	maxEventKind = 31
)

// String returns a readable name for the event kind
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventTagScanned:
		return "tag_scanned"
	case EventTagRemoved:
		return "tag_removed"
	default:
		return "unknown"
	}
}

// EventFilter is a bitmask of event kinds a handler wants
type EventFilter uint32

// EventAny matches every event kind
const EventAny EventFilter = 0xFFFFFFFF

// FilterOf builds a filter matching the given kinds
func FilterOf(kinds ...EventKind) EventFilter {
	var f EventFilter
	for _, k := range kinds {
		if k > maxEventKind {
			continue
		}
		f |= 1 << k
	}
	return f
}

// Matches reports whether kind is selected by the filter
func (f EventFilter) Matches(kind EventKind) bool {
	if kind > maxEventKind {
		return f == EventAny
	}
	return f&(1<<kind) != 0
}

// Tag is a card seen in the reader field
type Tag struct {
	UID          []byte
	SerialNumber uint64
}

// NewTag builds a Tag from the raw UID bytes returned by the reader
func NewTag(uid []byte) *Tag {
	return &Tag{
		UID:          append([]byte(nil), uid...),
		SerialNumber: SerialNumber(uid),
	}
}

// UIDString returns the UID as upper-case hex
func (t *Tag) UIDString() string {
	return strings.ToUpper(hex.EncodeToString(t.UID))
}

// SerialNumber folds up to eight UID bytes into an integer, first byte least
// significant. For the five-byte anticollision response (four UID bytes plus
// BCC) this is the serial number printed by the RC522 reference firmware.
func SerialNumber(uid []byte) uint64 {
	var sn uint64
	for i, b := range uid {
		if i == 8 {
			break
		}
		sn |= uint64(b) << (8 * i)
	}
	return sn
}

// Event is delivered to handlers. Tag is nil for kinds that carry no tag.
type Event struct {
	Time time.Time
	Tag  *Tag
	Kind EventKind
}

// Handler receives events. Handlers run on the device's dispatch goroutine,
// never on the goroutine that called Start, and must return quickly.
type Handler func(Event)

// LogHandler returns a handler that writes one info record per scanned tag
// and ignores every other event kind.
func LogHandler(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev Event) {
		if ev.Kind != EventTagScanned || ev.Tag == nil {
			return
		}
		logger.Info("Tag scanned", "sn", ev.Tag.SerialNumber)
	}
}
