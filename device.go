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
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-rc522/internal/event"
)

// State is the lifecycle state of a Device. Transitions only move forward.
type State int32

const (
	StateUninitialized State = iota
	StateCreated
	StateRegistered
	StateRunning
	StateClosed
)

// String returns a readable name for the state
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCreated:
		return "created"
	case StateRegistered:
		return "registered"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig configures retries while opening and initializing the transport
	RetryConfig *RetryConfig
	// ReadTimeout bounds a single read of the field
	ReadTimeout time.Duration
	// RemovalTimeout is how long a tag may go unseen before it is removed
	RemovalTimeout time.Duration
	// QueueSize is the dispatcher queue capacity
	QueueSize int
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		RetryConfig: DefaultRetryConfig(),
		ReadTimeout: 100 * time.Millisecond,
		QueueSize:   16,
	}
}

// Metrics is a snapshot of scan loop counters
type Metrics struct {
	PollCycles      int64
	PollErrors      int64
	TagsScanned     int64
	TagsRemoved     int64
	DroppedEvents   uint64
	LastPollLatency time.Duration
}

// Device is the handle to one RC522 reader. It can only be obtained from
// Create or Open and lives until Close.
//
// Thread Safety: the lifecycle methods may be called from any goroutine.
// Handlers run on a dispatch goroutine owned by the Device and must not call
// Close.
type Device struct {
	transport Transport
	config    *DeviceConfig
	logger    *slog.Logger
	events    *event.Bus[Event]
	cancel    context.CancelFunc
	presence  presence
	busCfg    Config
	wg        sync.WaitGroup
	mu        sync.Mutex
	state     State
	paused    atomic.Bool

	pollCycles      atomic.Int64
	pollErrors      atomic.Int64
	tagsScanned     atomic.Int64
	tagsRemoved     atomic.Int64
	lastPollLatency atomic.Int64
}

func newDevice(cfg Config, opts []Option) (*Device, error) {
	device := &Device{
		config: DefaultDeviceConfig(),
		logger: slog.Default(),
		busCfg: cfg,
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	device.logger = device.logger.With("bus", cfg.BusName())
	device.events = event.New[Event](device.config.QueueSize)
	return device, nil
}

// Create builds a Device on an already opened transport and claims the bus
// named by cfg.
func Create(cfg Config, transport Transport, opts ...Option) (*Device, error) {
	return CreateContext(context.Background(), cfg, transport, opts...)
}

// CreateContext is Create with a context bounding transport initialization
func CreateContext(ctx context.Context, cfg Config, transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport is nil: %w", ErrInvalidParameter)
	}

	device, err := newDevice(cfg, opts)
	if err != nil {
		return nil, err
	}

	if err := claimBus(cfg.BusName()); err != nil {
		return nil, fmt.Errorf("failed to claim bus %s: %w", cfg.BusName(), err)
	}

	if err := device.attach(ctx, transport); err != nil {
		releaseBus(cfg.BusName())
		return nil, err
	}

	return device, nil
}

// Open claims the bus, creates a transport with factory and builds a Device
// on it. Transient factory errors are retried per the device RetryConfig.
// The transport is closed again if anything after its creation fails.
func Open(cfg Config, factory TransportFactory, opts ...Option) (*Device, error) {
	return OpenContext(context.Background(), cfg, factory, opts...)
}

// OpenContext is Open with a context bounding transport setup
func OpenContext(ctx context.Context, cfg Config, factory TransportFactory, opts ...Option) (*Device, error) {
	if factory == nil {
		return nil, fmt.Errorf("transport factory is nil: %w", ErrInvalidParameter)
	}

	device, err := newDevice(cfg, opts)
	if err != nil {
		return nil, err
	}

	if err := claimBus(cfg.BusName()); err != nil {
		return nil, fmt.Errorf("failed to claim bus %s: %w", cfg.BusName(), err)
	}

	var transport Transport
	err = RetryWithConfig(ctx, device.config.RetryConfig, func() error {
		var openErr error
		transport, openErr = factory(cfg)
		return openErr
	})
	if err != nil {
		releaseBus(cfg.BusName())
		return nil, fmt.Errorf("failed to open transport: %w", err)
	}

	if err := device.attach(ctx, transport); err != nil {
		_ = transport.Close()
		releaseBus(cfg.BusName())
		return nil, err
	}

	return device, nil
}

// attach initializes the transport and moves the device to StateCreated
func (d *Device) attach(ctx context.Context, transport Transport) error {
	if initializer, ok := transport.(Initializer); ok {
		err := RetryWithConfig(ctx, d.config.RetryConfig, func() error {
			return initializer.Init(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to initialize transport: %w", err)
		}
	}

	if d.busCfg.AntennaGain != GainDefault {
		setter, ok := transport.(GainSetter)
		if !ok {
			d.logger.Warn("transport does not support antenna gain, ignoring", "gain", d.busCfg.AntennaGain)
		} else if err := setter.SetAntennaGain(d.busCfg.AntennaGain); err != nil {
			return fmt.Errorf("failed to set antenna gain: %w", err)
		}
	}

	d.transport = transport
	d.state = StateCreated
	debugf("device created: %s", d.busCfg)
	return nil
}

// Register associates handler with the event kinds selected by filter. It
// may be called more than once; the first call moves the device to
// StateRegistered. Handlers added while running see later events only.
func (d *Device) Register(filter EventFilter, handler Handler) error {
	if d == nil {
		return ErrNotInitialized
	}
	if handler == nil || filter == 0 {
		return ErrInvalidParameter
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateUninitialized || d.state == StateClosed {
		return ErrNotInitialized
	}

	if err := d.events.Subscribe(uint32(filter), d.guard(handler)); err != nil {
		if errors.Is(err, event.ErrFull) {
			return ErrBusFull
		}
		return fmt.Errorf("failed to register handler: %w", err)
	}

	if d.state == StateCreated {
		d.state = StateRegistered
	}
	return nil
}

// guard wraps a handler so a panic is logged instead of killing the dispatcher
func (d *Device) guard(handler Handler) func(Event) {
	return func(ev Event) {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("event handler panicked", "kind", ev.Kind.String(), "panic", r)
			}
		}()
		handler(ev)
	}
}

// Start begins scanning. Handlers are invoked asynchronously from then on.
// Cancelling ctx stops scanning; Close is still needed to release the bus.
func (d *Device) Start(ctx context.Context) error {
	if d == nil {
		return ErrNotInitialized
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateUninitialized, StateClosed:
		return ErrNotInitialized
	case StateCreated:
		return ErrNotRegistered
	case StateRunning:
		return ErrAlreadyRunning
	case StateRegistered:
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.state = StateRunning

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.events.Run(runCtx)
	}()
	go func() {
		defer d.wg.Done()
		d.scanLoop(runCtx)
	}()

	d.logger.Debug("scanning started", "interval", d.busCfg.scanInterval())
	return nil
}

// Pause suspends scanning without leaving StateRunning
func (d *Device) Pause() {
	if d == nil {
		return
	}
	if !d.paused.Swap(true) {
		debugln("scanning paused")
	}
}

// Resume continues scanning after Pause
func (d *Device) Resume() {
	if d == nil {
		return
	}
	if d.paused.Swap(false) {
		debugln("scanning resumed")
	}
}

// IsPaused reports whether scanning is paused
func (d *Device) IsPaused() bool {
	return d != nil && d.paused.Load()
}

// Close stops scanning, closes the transport and releases the bus. Calling
// Close more than once is safe.
func (d *Device) Close() error {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	if d.state == StateUninitialized || d.state == StateClosed {
		d.mu.Unlock()
		return nil
	}
	cancel := d.cancel
	d.cancel = nil
	d.state = StateClosed
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	d.wg.Wait()

	// the port must be closed before another Device can claim the bus
	err := d.transport.Close()
	releaseBus(d.busCfg.BusName())
	if err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// State returns the current lifecycle state
func (d *Device) State() State {
	if d == nil {
		return StateUninitialized
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Config returns a copy of the bus configuration
func (d *Device) Config() Config {
	if d == nil {
		return Config{}
	}
	return d.busCfg
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	if d == nil {
		return nil
	}
	return d.transport
}

// Metrics returns a snapshot of the scan loop counters
func (d *Device) Metrics() Metrics {
	if d == nil {
		return Metrics{}
	}
	m := Metrics{
		PollCycles:      d.pollCycles.Load(),
		PollErrors:      d.pollErrors.Load(),
		TagsScanned:     d.tagsScanned.Load(),
		TagsRemoved:     d.tagsRemoved.Load(),
		LastPollLatency: time.Duration(d.lastPollLatency.Load()),
	}
	if d.events != nil {
		m.DroppedEvents = d.events.Dropped()
	}
	return m
}
