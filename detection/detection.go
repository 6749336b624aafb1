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

// Package detection finds buses an RC522 reader may be attached to
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrDetectionTimeout    = errors.New("detection timed out")
)

// Mode controls how intrusive detection may be
type Mode int

const (
	// Passive only enumerates device nodes
	Passive Mode = iota
	// Safe also checks that nodes can be opened
	Safe
)

// DeviceInfo describes a candidate bus
type DeviceInfo struct {
	Metadata map[string]string
	// Name is the identifier understood by the transport, e.g. "SPI0.0"
	Name string
	// Path is the device node, e.g. "/dev/spidev0.0"
	Path      string
	Transport string
}

// String returns a short description of the device
func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s %s (%s)", d.Transport, d.Name, d.Path)
}

// Options configures detection
type Options struct {
	IgnorePaths []string
	Timeout     time.Duration
	Mode        Mode
}

// DefaultOptions returns default detection options
func DefaultOptions() Options {
	return Options{
		Mode:    Passive,
		Timeout: 2 * time.Second,
	}
}

// Detector finds devices for one transport type
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var registry = struct {
	detectors []Detector
	mu        sync.RWMutex
}{}

// RegisterDetector adds a detector. Detector packages call it from init.
func RegisterDetector(d Detector) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.detectors = append(registry.detectors, d)
}

func detectors() []Detector {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return append([]Detector(nil), registry.detectors...)
}

// DetectAll runs every registered detector
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultOptions().Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return DetectAllContext(ctx, opts)
}

// DetectAllContext runs every registered detector until ctx is done.
// Unsupported platforms are skipped; ErrNoDevicesFound is returned only when
// no detector found anything.
func DetectAllContext(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	var (
		found []DeviceInfo
		errs  []error
	)
	for _, d := range detectors() {
		devices, err := d.Detect(ctx, opts)
		switch {
		case err == nil:
		case errors.Is(err, ErrUnsupportedPlatform), errors.Is(err, ErrNoDevicesFound):
			continue
		default:
			errs = append(errs, fmt.Errorf("%s: %w", d.Transport(), err))
			continue
		}

		for _, dev := range devices {
			if IsIgnored(dev, opts.IgnorePaths) {
				continue
			}
			found = append(found, dev)
		}
	}

	if len(found) == 0 {
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return nil, ErrNoDevicesFound
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}
