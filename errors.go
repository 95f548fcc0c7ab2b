// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation could not complete
// immediately. It is a control flow signal, not a failure.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency with
// the rest of this module's dependency stack.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrArenaExhausted is returned by Spawn when every process slot and/or
// heap block in the arena is in use.
var ErrArenaExhausted = errors.New("swarmrt: arena exhausted")

// ErrInvalidName is returned by Register when a name is empty or exceeds
// MaxNameLength bytes.
var ErrInvalidName = errors.New("swarmrt: invalid registered name")

// ErrNameTaken is returned by Register when the name is already bound to
// a different, still-live process.
var ErrNameTaken = errors.New("swarmrt: name already registered")

// ErrAlreadyRegistered is returned by Register when the calling process
// already owns a different registered name.
var ErrAlreadyRegistered = errors.New("swarmrt: process already has a registered name")

// ErrUnknownName is returned by Unregister when there is no live binding
// to remove. Whereis reports a missing name through its bool result.
var ErrUnknownName = errors.New("swarmrt: name not registered")

// ErrNotFound is returned by operations that address a process by Ref
// when the slot's occupant no longer matches the Ref's generation, i.e.
// the process has already exited.
var ErrNotFound = errors.New("swarmrt: process not found")

// ErrNotRunning denotes a call made without a current process context on
// the calling goroutine. No function in this package returns it: Yield,
// Send and Receive are methods on *Process and return no error.
var ErrNotRunning = errors.New("swarmrt: no current process on this goroutine")

// ErrShutdown denotes an operation attempted after Shutdown has been
// called on the Runtime. No function in this package returns it; no
// operation checks whether its Runtime has been shut down.
var ErrShutdown = errors.New("swarmrt: runtime is shut down")

// ErrAlreadyInitialized is returned by Init when a package-level Runtime
// has already been installed by a prior call. Init is idempotent failure
// in this case: the existing Runtime (and its schedulers/timers/task
// pool goroutines) is left running untouched.
var ErrAlreadyInitialized = errors.New("swarmrt: already initialized")

// IsWouldBlock reports whether err indicates an operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped-error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control-flow signal rather than a
// failure. Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}
