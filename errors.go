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
	"errors"
	"fmt"
)

// Lifecycle errors
var (
	ErrNotInitialized   = errors.New("device not initialized")
	ErrNotRegistered    = errors.New("no event handler registered")
	ErrAlreadyRunning   = errors.New("device already running")
	ErrBusClaimed       = errors.New("bus already claimed by another device")
	ErrBusFull          = errors.New("maximum number of event handlers reached")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Transport errors
var (
	ErrNoTag               = errors.New("no tag in field")
	ErrTransportClosed     = errors.New("transport closed")
	ErrTransportTimeout    = errors.New("transport timeout")
	ErrCommunicationFailed = errors.New("communication failed")
	ErrDeviceNotFound      = errors.New("device not found")
)

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by retrying
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on a later attempt
	ErrorTypeTransient
	// ErrorTypeTimeout errors are transient errors caused by a deadline
	ErrorTypeTimeout
)

// String returns a readable name for the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "permanent"
	}
}

// TransportError describes a failed transport operation
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError, deriving retryability from the type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a retryable timeout error
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// IsRetryable reports whether an operation that failed with err may be retried.
// A TransportError's own Retryable flag wins over the wrapped error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrCommunicationFailed):
		return true
	default:
		return false
	}
}

// GetErrorType classifies err
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrCommunicationFailed):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
