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
	"bytes"
	"context"
	"errors"
	"time"
)

// presence tracks the tag currently in the field. It is only touched by the
// scan loop goroutine.
type presence struct {
	lastSeen time.Time
	tag      *Tag
}

func (p *presence) present() bool {
	return p.tag != nil
}

func (p *presence) same(uid []byte) bool {
	return p.tag != nil && bytes.Equal(p.tag.UID, uid)
}

func (p *presence) set(tag *Tag, now time.Time) {
	p.tag = tag
	p.lastSeen = now
}

func (p *presence) clear() *Tag {
	tag := p.tag
	p.tag = nil
	p.lastSeen = time.Time{}
	return tag
}

// scanLoop polls the transport every scan interval until ctx is done
func (d *Device) scanLoop(ctx context.Context) {
	ticker := time.NewTicker(d.busCfg.scanInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if d.paused.Load() {
			continue
		}
		d.pollOnce(ctx)
	}
}

// pollOnce reads the field once and publishes presence changes
func (d *Device) pollOnce(ctx context.Context) {
	readCtx, cancel := context.WithTimeout(ctx, d.config.ReadTimeout)
	start := time.Now()
	uid, err := d.transport.ReadUID(readCtx)
	cancel()

	d.pollCycles.Add(1)
	d.lastPollLatency.Store(int64(time.Since(start)))

	now := time.Now()
	switch {
	case err == nil && len(uid) > 0:
		d.handleTagSeen(uid, now)
	case err == nil, errors.Is(err, ErrNoTag):
		d.handleFieldEmpty(now)
	case ctx.Err() != nil:
		// shutting down
	case errors.Is(err, context.DeadlineExceeded):
		d.handleFieldEmpty(now)
	default:
		d.pollErrors.Add(1)
		debugf("read failed: %v", err)
		if !IsRetryable(err) {
			d.dropTag(now)
		}
	}
}

func (d *Device) handleTagSeen(uid []byte, now time.Time) {
	if d.presence.same(uid) {
		d.presence.lastSeen = now
		return
	}

	if d.presence.present() {
		d.dropTag(now)
	}

	tag := NewTag(uid)
	d.presence.set(tag, now)
	d.tagsScanned.Add(1)
	debugf("tag scanned: uid=%s sn=%d", tag.UIDString(), tag.SerialNumber)
	d.publish(EventTagScanned, tag, now)
}

func (d *Device) handleFieldEmpty(now time.Time) {
	if !d.presence.present() {
		return
	}
	if now.Sub(d.presence.lastSeen) < d.config.RemovalTimeout {
		return
	}
	d.dropTag(now)
}

// dropTag clears presence and publishes the removal of the previous tag
func (d *Device) dropTag(now time.Time) {
	tag := d.presence.clear()
	if tag == nil {
		return
	}
	d.tagsRemoved.Add(1)
	debugf("tag removed: uid=%s", tag.UIDString())
	d.publish(EventTagRemoved, tag, now)
}

func (d *Device) publish(kind EventKind, tag *Tag, now time.Time) {
	ev := Event{Kind: kind, Tag: tag, Time: now}
	if !d.events.Publish(uint8(kind), ev) {
		d.logger.Warn("event queue full, dropping event", "kind", kind.String())
	}
}
