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
	"log/slog"
	"time"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithLogger sets the logger used for device diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(d *Device) error {
		if logger == nil {
			return ErrInvalidParameter
		}
		d.logger = logger
		return nil
	}
}

// WithRetryConfig sets the retry configuration used while opening and
// initializing the transport
func WithRetryConfig(config *RetryConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return ErrInvalidParameter
		}
		d.config.RetryConfig = config
		return nil
	}
}

// WithMaxRetries sets the maximum number of attempts for transport setup
func WithMaxRetries(maxAttempts int) Option {
	return func(d *Device) error {
		if maxAttempts < 1 {
			return ErrInvalidParameter
		}
		if d.config.RetryConfig == nil {
			d.config.RetryConfig = DefaultRetryConfig()
		}
		d.config.RetryConfig.MaxAttempts = maxAttempts
		return nil
	}
}

// WithReadTimeout bounds a single read of the reader field
func WithReadTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.config.ReadTimeout = timeout
		return nil
	}
}

// WithRemovalTimeout sets how long a tag may go unseen before it is reported
// removed. Zero reports removal on the first empty read.
func WithRemovalTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout < 0 {
			return ErrInvalidParameter
		}
		d.config.RemovalTimeout = timeout
		return nil
	}
}

// WithQueueSize sets how many events may wait for the dispatcher before new
// ones are dropped
func WithQueueSize(size int) Option {
	return func(d *Device) error {
		if size < 1 {
			return ErrInvalidParameter
		}
		d.config.QueueSize = size
		return nil
	}
}
