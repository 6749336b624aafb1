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

package spi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader stands in for the mfrc522 driver
type fakeReader struct {
	readErr  error
	haltErr  error
	uid      []byte
	timeouts []time.Duration
	gain     int
	halts    int
	mu       sync.Mutex
}

func (f *fakeReader) ReadUID(timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeouts = append(f.timeouts, timeout)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.uid, nil
}

func (f *fakeReader) SetAntennaGain(gain int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gain = gain
	return nil
}

func (f *fakeReader) Halt() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.halts++
	return f.haltErr
}

func newTestTransport(dev *fakeReader) *Transport {
	return &Transport{dev: dev, busName: "SPI0.0"}
}

func TestReadUID(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsUID", func(t *testing.T) {
		t.Parallel()
		dev := &fakeReader{uid: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x22}}
		tr := newTestTransport(dev)

		uid, err := tr.ReadUID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, dev.uid, uid)
		assert.Equal(t, []time.Duration{defaultReadTimeout}, dev.timeouts)
	})

	t.Run("UsesContextDeadline", func(t *testing.T) {
		t.Parallel()
		dev := &fakeReader{uid: []byte{1, 2, 3, 4}}
		tr := newTestTransport(dev)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := tr.ReadUID(ctx)
		require.NoError(t, err)
		require.Len(t, dev.timeouts, 1)
		assert.LessOrEqual(t, dev.timeouts[0], 30*time.Millisecond)
		assert.Positive(t, dev.timeouts[0])
	})

	t.Run("EmptyUIDIsNoTag", func(t *testing.T) {
		t.Parallel()
		tr := newTestTransport(&fakeReader{})
		_, err := tr.ReadUID(context.Background())
		require.ErrorIs(t, err, rc522.ErrNoTag)
	})

	t.Run("DriverTimeoutIsNoTag", func(t *testing.T) {
		t.Parallel()
		tr := newTestTransport(&fakeReader{readErr: errors.New("mfrc522: timeout waiting for IRQ edge")})
		_, err := tr.ReadUID(context.Background())
		require.ErrorIs(t, err, rc522.ErrNoTag)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		t.Parallel()
		dev := &fakeReader{}
		tr := newTestTransport(dev)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := tr.ReadUID(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, dev.timeouts)
	})

	t.Run("AfterClose", func(t *testing.T) {
		t.Parallel()
		tr := newTestTransport(&fakeReader{uid: []byte{1}})
		require.NoError(t, tr.Close())
		_, err := tr.ReadUID(context.Background())
		require.ErrorIs(t, err, rc522.ErrTransportClosed)
	})
}

func TestReadUID_SerialNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fromDev []byte
		wantUID []byte
		wantSN  uint64
	}{
		{
			name:    "single size gets bcc",
			fromDev: []byte{0xDE, 0xAD, 0xBE, 0xEF},
			wantUID: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x22},
			wantSN:  150051139038,
		},
		{
			name:    "already with bcc",
			fromDev: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x22},
			wantUID: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x22},
			wantSN:  150051139038,
		},
		{
			name:    "double size unchanged",
			fromDev: []byte{0x04, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC},
			wantUID: []byte{0x04, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC},
			wantSN:  0xBC9A7856341204,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dev := &fakeReader{uid: tt.fromDev}
			tr := newTestTransport(dev)

			uid, err := tr.ReadUID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, uid)
			assert.Equal(t, tt.wantSN, rc522.NewTag(uid).SerialNumber)
		})
	}
}

func TestClassifyReadError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err       error
		want      error
		name      string
		retryable bool
	}{
		{name: "timeout", err: errors.New("Timeout"), want: rc522.ErrNoTag},
		{name: "timed out", err: errors.New("wait timed out"), want: rc522.ErrNoTag},
		{name: "closed", err: errors.New("port closed"), want: rc522.ErrTransportClosed},
		{name: "crc", err: errors.New("CRC mismatch"), want: rc522.ErrCommunicationFailed, retryable: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := classifyReadError("SPI0.0", tt.err)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.retryable, rc522.IsRetryable(err))
		})
	}
}

func TestSetAntennaGain(t *testing.T) {
	t.Parallel()

	dev := &fakeReader{}
	tr := newTestTransport(dev)

	require.NoError(t, tr.SetAntennaGain(5))
	assert.Equal(t, 5, dev.gain)

	require.ErrorIs(t, tr.SetAntennaGain(8), rc522.ErrInvalidParameter)
	require.ErrorIs(t, tr.SetAntennaGain(-1), rc522.ErrInvalidParameter)
	assert.Equal(t, 5, dev.gain)

	require.NoError(t, tr.Close())
	require.ErrorIs(t, tr.SetAntennaGain(3), rc522.ErrTransportClosed)
}

func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("HaltsOnce", func(t *testing.T) {
		t.Parallel()
		dev := &fakeReader{}
		tr := newTestTransport(dev)

		require.NoError(t, tr.Close())
		require.NoError(t, tr.Close())
		assert.Equal(t, 1, dev.halts)
	})

	t.Run("ReportsHaltError", func(t *testing.T) {
		t.Parallel()
		haltErr := errors.New("spi write failed")
		tr := newTestTransport(&fakeReader{haltErr: haltErr})
		require.ErrorIs(t, tr.Close(), haltErr)
	})
}

func TestType(t *testing.T) {
	t.Parallel()
	assert.Equal(t, rc522.TransportSPI, (&Transport{}).Type())
}

func TestPins(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GPIO22", pinName(22))

	_, err := outPin(rc522.PinNone)
	require.ErrorIs(t, err, rc522.ErrInvalidParameter)
	_, err = inPin(rc522.PinNone)
	require.ErrorIs(t, err, rc522.ErrInvalidParameter)

	_, known := pinNumber(nil)
	assert.False(t, known)
	assert.Nil(t, asPinIO("not a pin"))
}
