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
	"sync"
	"time"

	testutil "github.com/ZaparooProject/go-rc522/internal/testing"
)

type readResult struct {
	err error
	uid []byte
}

// MockTransport is an in-memory transport for tests. Reads first drain the
// queued results, then report the virtual tag in the field.
type MockTransport struct {
	field     *testutil.VirtualTag
	readErr   error
	initErr   error
	queue     []readResult
	gain      int
	reads     int
	initCalls int
	mu        sync.Mutex
	closed    bool
}

// NewMockTransport creates a mock transport with an empty field
func NewMockTransport() *MockTransport {
	return &MockTransport{
		field: testutil.NewVirtualTag(nil),
		gain:  GainDefault,
	}
}

// PlaceTag puts a tag with the given UID in the field
func (m *MockTransport) PlaceTag(uid []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.field = testutil.NewVirtualTag(uid)
	m.field.Present()
}

// RemoveTag empties the field
func (m *MockTransport) RemoveTag() {
	m.mu.Lock()
	field := m.field
	m.mu.Unlock()
	field.Remove()
}

// QueueResult queues a single read result served before the field is consulted
func (m *MockTransport) QueueResult(uid []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, readResult{uid: append([]byte(nil), uid...), err: err})
}

// SetError makes every read fail with err until cleared with nil
func (m *MockTransport) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// SetInitError makes Init fail with err
func (m *MockTransport) SetInitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initErr = err
}

// Init implements Initializer
func (m *MockTransport) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.initErr
}

// SetAntennaGain implements GainSetter
func (m *MockTransport) SetAntennaGain(gain int) error {
	if gain < 0 || gain > 7 {
		return ErrInvalidParameter
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gain = gain
	return nil
}

// ReadUID implements Transport
func (m *MockTransport) ReadUID(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++

	if m.closed {
		return nil, ErrTransportClosed
	}
	if len(m.queue) > 0 {
		res := m.queue[0]
		m.queue = m.queue[1:]
		if res.err != nil {
			return nil, res.err
		}
		return res.uid, nil
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	if uid, ok := m.field.Read(); ok {
		return uid, nil
	}
	return nil, ErrNoTag
}

// Close implements Transport
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type implements Transport
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// IsClosed reports whether Close was called
func (m *MockTransport) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ReadCount returns the number of ReadUID calls
func (m *MockTransport) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// InitCount returns the number of Init calls
func (m *MockTransport) InitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initCalls
}

// Gain returns the last antenna gain set
func (m *MockTransport) Gain() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gain
}

// BlockingMockTransport blocks every read until Unblock, the read context
// ends, or the transport is closed. It is used to test shutdown while a read
// is in flight.
type BlockingMockTransport struct {
	blockChan chan struct{}
	started   chan struct{}
	uid       []byte
	mu        sync.Mutex
	closed    bool
}

// NewBlockingMockTransport creates a new blocking mock transport
func NewBlockingMockTransport(uid []byte) *BlockingMockTransport {
	return &BlockingMockTransport{
		blockChan: make(chan struct{}),
		started:   make(chan struct{}, 1),
		uid:       uid,
	}
}

// ReadUID blocks until released
func (m *BlockingMockTransport) ReadUID(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	blockChan := m.blockChan
	closed := m.closed
	m.mu.Unlock()

	if closed {
		return nil, ErrTransportClosed
	}

	select {
	case m.started <- struct{}{}:
	default:
	}

	select {
	case <-blockChan:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrTransportClosed
	}
	if m.uid == nil {
		return nil, ErrNoTag
	}
	return append([]byte(nil), m.uid...), nil
}

// WaitStarted waits until a read is in flight
func (m *BlockingMockTransport) WaitStarted(timeout time.Duration) bool {
	select {
	case <-m.started:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Unblock releases every read currently blocked
func (m *BlockingMockTransport) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		close(m.blockChan)
		m.blockChan = make(chan struct{})
	}
}

// Close unblocks all reads and marks the transport closed
func (m *BlockingMockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.blockChan)
	}
	return nil
}

// Type returns TransportMock
func (*BlockingMockTransport) Type() TransportType {
	return TransportMock
}

var (
	_ Transport   = (*MockTransport)(nil)
	_ Initializer = (*MockTransport)(nil)
	_ GainSetter  = (*MockTransport)(nil)
	_ Transport   = (*BlockingMockTransport)(nil)
)
