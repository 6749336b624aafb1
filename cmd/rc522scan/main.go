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
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	// Register the spidev detector
	_ "github.com/ZaparooProject/go-rc522/detection/spi"
	"github.com/ZaparooProject/go-rc522/transport/spi"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// logTag is attached to every record
const logTag = "rc522scan"

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})).With("tag", logTag)
}

func newRootCmd() *cobra.Command {
	flags := &flagValues{}

	cmd := &cobra.Command{
		Use:   "rc522scan",
		Short: "Log the serial number of every RFID tag presented to an RC522 reader",
		Long: "rc522scan configures an RC522 reader on an SPI bus, subscribes to its events\n" +
			"and logs each scanned tag until interrupted.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveSettings(cmd.Flags(), flags)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.debug)
			slog.SetDefault(logger)
			rc522.SetDebugEnabled(cfg.debug)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return newApp(cfg, logger, spi.Factory).run(ctx)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
