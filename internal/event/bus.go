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

// Package event provides the publish/subscribe queue that separates the
// reader's scan loop from the goroutine running user handlers.
package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// MaxSubscribers is the fixed subscriber capacity of a Bus
const MaxSubscribers = 8

// AllKinds is the mask matching every kind, including kinds above 31
const AllKinds uint32 = 0xFFFFFFFF

// ErrFull is returned by Subscribe once MaxSubscribers is reached
var ErrFull = errors.New("event bus full")

type subscriber[T any] struct {
	fn   func(T)
	mask uint32
}

type envelope[T any] struct {
	msg  T
	kind uint8
}

// Bus queues published messages and delivers them, in order, to every
// subscriber whose mask selects the message kind. Publishers never block;
// a full queue drops the message and counts it.
//
// Publish and Subscribe are safe for concurrent use. Delivery happens only
// on the goroutine running Run.
type Bus[T any] struct {
	queue   chan envelope[T]
	subs    [MaxSubscribers]subscriber[T]
	n       int
	mu      sync.RWMutex
	dropped atomic.Uint64
}

// New creates a Bus with the given queue capacity
func New[T any](queueSize int) *Bus[T] {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Bus[T]{
		queue: make(chan envelope[T], queueSize),
	}
}

// Subscribe registers fn for messages whose kind is selected by mask
func (b *Bus[T]) Subscribe(mask uint32, fn func(T)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.n >= len(b.subs) {
		return ErrFull
	}

	b.subs[b.n] = subscriber[T]{mask: mask, fn: fn}
	b.n++
	return nil
}

// Subscribers returns the number of registered subscribers
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.n
}

// Publish enqueues msg. It returns false when the queue was full and the
// message was dropped.
func (b *Bus[T]) Publish(kind uint8, msg T) bool {
	select {
	case b.queue <- envelope[T]{kind: kind, msg: msg}:
		return true
	default:
		b.dropped.Add(1)
		return false
	}
}

// Dropped returns how many messages were dropped on a full queue
func (b *Bus[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Run delivers queued messages until ctx is done
func (b *Bus[T]) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-b.queue:
			b.deliver(env)
		}
	}
}

func (b *Bus[T]) deliver(env envelope[T]) {
	b.mu.RLock()
	subs := b.subs
	n := b.n
	b.mu.RUnlock()

	for i := 0; i < n; i++ {
		if matches(subs[i].mask, env.kind) {
			subs[i].fn(env.msg)
		}
	}
}

func matches(mask uint32, kind uint8) bool {
	if kind > 31 {
		return mask == AllKinds
	}
	return mask&(1<<kind) != 0
}
