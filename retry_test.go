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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        2 * time.Millisecond,
		BackoffMultiplier: 2,
	}
}

func TestRetryWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("SucceedsFirstTry", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := RetryWithConfig(context.Background(), fastRetryConfig(3), func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("RetriesTransient", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := RetryWithConfig(context.Background(), fastRetryConfig(5), func() error {
			calls++
			if calls < 3 {
				return ErrCommunicationFailed
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("StopsOnPermanent", func(t *testing.T) {
		t.Parallel()
		calls := 0
		permanent := errors.New("wiring fault")
		err := RetryWithConfig(context.Background(), fastRetryConfig(5), func() error {
			calls++
			return permanent
		})
		require.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("Exhausted", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := RetryWithConfig(context.Background(), fastRetryConfig(3), func() error {
			calls++
			return ErrTransportTimeout
		})
		require.ErrorIs(t, err, ErrTransportTimeout)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("Cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := RetryWithConfig(ctx, fastRetryConfig(3), func() error {
			calls++
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("NilConfigUsesDefault", func(t *testing.T) {
		t.Parallel()
		err := RetryWithConfig(context.Background(), nil, func() error { return nil })
		require.NoError(t, err)
	})
}

func TestNextBackoff(t *testing.T) {
	t.Parallel()
	cfg := &RetryConfig{MaxBackoff: 100 * time.Millisecond, BackoffMultiplier: 2}

	assert.Equal(t, 20*time.Millisecond, nextBackoff(10*time.Millisecond, cfg))
	assert.Equal(t, 100*time.Millisecond, nextBackoff(80*time.Millisecond, cfg))

	flat := &RetryConfig{BackoffMultiplier: 0.5}
	assert.Equal(t, 10*time.Millisecond, nextBackoff(10*time.Millisecond, flat))
}

func TestAddJitter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50*time.Millisecond, addJitter(50*time.Millisecond, 0))
	for i := 0; i < 100; i++ {
		got := addJitter(100*time.Millisecond, 0.1)
		assert.GreaterOrEqual(t, got, 90*time.Millisecond)
		assert.LessOrEqual(t, got, 110*time.Millisecond)
	}
}
