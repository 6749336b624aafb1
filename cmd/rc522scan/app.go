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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/detection"
)

// app owns everything a run needs. It replaces process-wide state: the
// device handle lives here for as long as run does.
type app struct {
	factory rc522.TransportFactory
	detect  func(*detection.Options) ([]detection.DeviceInfo, error)
	log     *slog.Logger
	device  *rc522.Device
	cfg     settings
}

func newApp(cfg settings, logger *slog.Logger, factory rc522.TransportFactory) *app {
	return &app{
		cfg:     cfg,
		log:     logger,
		factory: factory,
		detect:  detection.DetectAll,
	}
}

// resolveBus fills in the bus from auto-detection when none was configured.
// If nothing is found the empty name is kept and the transport picks the
// first bus it knows.
func (a *app) resolveBus() {
	if a.cfg.reader.Bus != "" {
		return
	}

	opts := detection.DefaultOptions()
	opts.IgnorePaths = a.cfg.ignore
	devices, err := a.detect(&opts)
	if err != nil {
		if !errors.Is(err, detection.ErrNoDevicesFound) {
			a.log.Warn("bus detection failed", "error", err)
		}
		return
	}

	a.cfg.reader.Bus = devices[0].Name
	a.log.Info("detected bus", "bus", devices[0].Name, "path", devices[0].Path)
}

// run creates the reader, subscribes the logging handler and blocks until
// ctx is done. Any failure while setting up is returned and ends the process.
func (a *app) run(ctx context.Context) error {
	a.resolveBus()

	device, err := rc522.OpenContext(ctx, a.cfg.reader, a.factory, rc522.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	a.device = device
	defer func() {
		if closeErr := device.Close(); closeErr != nil {
			a.log.Error("failed to close reader", "error", closeErr)
		}
	}()

	if err := device.Register(rc522.EventAny, a.handler()); err != nil {
		return fmt.Errorf("failed to register handler: %w", err)
	}
	if err := device.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reader: %w", err)
	}

	a.log.Info("reader running", "config", a.cfg.reader.String())
	<-ctx.Done()

	m := device.Metrics()
	a.log.Info("reader stopped",
		"polls", m.PollCycles, "errors", m.PollErrors, "scanned", m.TagsScanned, "dropped", m.DroppedEvents)
	return nil
}

// handler logs scanned tags at info level and removals at debug level
func (a *app) handler() rc522.Handler {
	logScan := rc522.LogHandler(a.log)
	return func(ev rc522.Event) {
		if ev.Kind == rc522.EventTagRemoved && ev.Tag != nil {
			a.log.Debug("Tag removed", "sn", ev.Tag.SerialNumber, "uid", ev.Tag.UIDString())
			return
		}
		logScan(ev)
	}
}
