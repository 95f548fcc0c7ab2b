// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"os"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the leveled, structured logger type used for runtime
// lifecycle events. It is a plain [logiface.Logger] wired to a zerolog
// backend via [izerolog.WithZerolog], matching the retrieval pack's own
// real-world usage (joeycumines-go-utilpkg/sql/export).
type Logger = logiface.Logger[*izerolog.Event]

// NewLogger builds a Logger writing newline-delimited JSON to w.
func NewLogger(w zerolog.Logger) *Logger {
	return logiface.New[*izerolog.Event](izerolog.WithZerolog(w))
}

func defaultLogger() *Logger {
	return NewLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// runtimeLog narrows the ambient Logger down to the handful of lifecycle
// events this runtime reports: scheduler start/stop, process crashes and
// exits, and arena exhaustion. Per-message traffic is never logged, to
// keep the scheduler hot path allocation-free.
type runtimeLog struct {
	l *Logger
}

func (rl *runtimeLog) schedulerStarted(id int) {
	if rl == nil || rl.l == nil {
		return
	}
	rl.l.Info().Int("scheduler", id).Log("scheduler started")
}

func (rl *runtimeLog) schedulerStopped(id int) {
	if rl == nil || rl.l == nil {
		return
	}
	rl.l.Info().Int("scheduler", id).Log("scheduler stopped")
}

func (rl *runtimeLog) processCrashed(ref Ref, panicValue string) {
	if rl == nil || rl.l == nil {
		return
	}
	rl.l.Err().Uint64("pid", ref.Pid).Int64("slot", int64(ref.Slot)).Str("panic", panicValue).Log("process crashed")
}

func (rl *runtimeLog) processExited(ref Ref, reason int32) {
	if rl == nil || rl.l == nil {
		return
	}
	rl.l.Debug().Uint64("pid", ref.Pid).Int64("reason", int64(reason)).Log("process exited")
}

func (rl *runtimeLog) arenaExhausted() {
	if rl == nil || rl.l == nil {
		return
	}
	rl.l.Warning().Log("arena exhausted")
}
