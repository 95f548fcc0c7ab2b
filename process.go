// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"code.hybscloud.com/atomix"
)

// State is a process's position in the lifecycle state machine described
// by spec.md §4.4.
type State int32

const (
	StateFree State = iota
	StateRunnable
	StateRunning
	StateWaiting
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateRunnable:
		return "runnable"
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Priority selects which of the four per-scheduler run queues a process
// is scheduled on.
type Priority int32

const (
	PriorityMax Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
	numPriorities
)

// Process flags.
const (
	flagTrapExit uint32 = 1 << iota
)

type pad [64]byte

// Ref identifies a process by the (slot, generation) pair described in
// spec.md's "Arena and stable indices" design note. A Ref is only valid
// for the lifetime of the process it was obtained from; once the
// occupant of Slot exits and the slot is recycled, operations against a
// stale Ref return ErrNotFound rather than silently addressing the new
// occupant.
type Ref struct {
	Slot int32
	Pid  uint64
}

// Process is the process control block (PCB). Its layout interleaves
// cache-line pad fields around the atomically-touched words, following
// the teacher's own padding idiom for fields that are hammered from
// multiple goroutines (run queue push/pop, mailbox push, state reads).
type Process struct {
	_ pad

	pid      uint64
	slot     int32
	heapSlot int32

	_ pad

	state atomix.Int32

	_ pad

	// rqNext links this process into whichever per-priority run queue it
	// is currently enqueued on. Touched by the scheduler that owns the
	// queue (push) and by any scheduler performing a steal (pop).
	rqNext atomix.Pointer[Process]

	_ pad

	mailbox Mailbox

	// Fields below are touched mostly by the process's own goroutine while
	// it is StateRunning, or by its owning scheduler while the process is
	// parked. Exceptions: Kill sets exitReason from another goroutine and
	// publishes it through the atomic killFlag, and links/monitors/
	// monitoring are mutated under the runtime's link lock.
	entry      func(*Process, any)
	arg        any
	priority   Priority
	flags      uint32
	fcalls     int64
	exitReason int32
	killFlag   atomix.Bool

	schedulerHint int32 // partition/scheduler this process was allocated from

	registryName string
	pendingName  string // set by WithRegisteredName, consumed by Spawn

	parent Ref

	heap    []byte
	heapOff int

	links      []Ref
	monitors   []monitorEdge // processes monitoring this one
	monitoring []monitorEdge // processes this one monitors

	rt *Runtime

	coro *coroutine
}

type monitorEdge struct {
	ref Ref
	tag uint64 // opaque reference value returned to the monitoring caller
}

// Ref returns the stable (slot, generation) identity of p.
func (p *Process) Ref() Ref {
	return Ref{Slot: p.slot, Pid: p.pid}
}

// State returns the process's current lifecycle state.
func (p *Process) State() State {
	return State(p.state.Load())
}

// TrapExit reports whether the process has enabled trap_exit.
func (p *Process) TrapExit() bool {
	return p.flags&flagTrapExit != 0
}

// SetTrapExit enables or disables trap_exit for the process. Must only be
// called by the process itself.
func (p *Process) SetTrapExit(on bool) {
	if on {
		p.flags |= flagTrapExit
	} else {
		p.flags &^= flagTrapExit
	}
}

// allocHeapBlock hands out n bytes from the process's private 2 KiB heap
// block, bump-allocating within it. Returns nil once exhausted; callers
// fall back to ordinary Go allocation for anything past the initial
// budget, matching spec.md's "initial heap is a hint, not a hard cap."
func (p *Process) allocHeapBlock(n int) []byte {
	if p.heapOff+n > len(p.heap) {
		return nil
	}
	b := p.heap[p.heapOff : p.heapOff+n : p.heapOff+n]
	p.heapOff += n
	return b
}

func (p *Process) reset() {
	p.entry = nil
	p.arg = nil
	p.priority = PriorityNormal
	p.flags = 0
	p.fcalls = 0
	p.exitReason = 0
	p.killFlag.Store(false)
	p.registryName = ""
	p.pendingName = ""
	p.parent = Ref{}
	p.heapOff = 0
	p.links = p.links[:0]
	p.monitors = p.monitors[:0]
	p.monitoring = p.monitoring[:0]
	p.mailbox.reset()
	p.coro = nil
}
