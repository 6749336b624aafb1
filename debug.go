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
	"fmt"
	"log/slog"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// SetDebugEnabled turns library debug tracing on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// IsDebugEnabled reports whether debug tracing is on
func IsDebugEnabled() bool {
	return debugEnabled.Load()
}

func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	slog.Default().Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...), "pkg", "rc522")
}

func debugln(args ...any) {
	if !debugEnabled.Load() {
		return
	}
	slog.Default().Log(context.Background(), slog.LevelDebug, fmt.Sprint(args...), "pkg", "rc522")
}
