// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"fmt"

	"github.com/skyblanket/swarmrt/internal/asm"
)

// coroutine is the rendezvous standing in for spec.md's register-level
// context_swap (see SPEC_FULL.md §4.2 for why): one goroutine per
// process, handed control by its owning scheduler over resumeCh and
// handing control back over doneCh. Exactly one side is ever runnable at
// a time, which is all context_swap's callers actually depend on.
type coroutine struct {
	resumeCh  chan struct{}
	doneCh    chan doneSignal
	baselineSP uintptr
}

type doneSignal struct {
	state State
}

// killSignal is the panic value used to unwind a process's goroutine
// stack when Kill is called while it is parked waiting or runnable.
// recovered only by runBody; never escapes a process's own goroutine.
type killSignal struct{ reason int32 }

func newCoroutine() *coroutine {
	return &coroutine{
		resumeCh: make(chan struct{}),
		doneCh:   make(chan doneSignal, 1),
	}
}

// start launches the goroutine that will run p's entry function. The
// goroutine blocks immediately until the scheduler sends the first
// resume.
func (p *Process) start() {
	co := newCoroutine()
	p.coro = co
	go p.runBody(co)
}

func (p *Process) runBody(co *coroutine) {
	<-co.resumeCh
	co.baselineSP = asm.CurrentSP()

	defer func() {
		if r := recover(); r != nil {
			if k, ok := r.(killSignal); ok {
				p.exitReason = k.reason
			} else {
				p.exitReason = reasonCrashed
				if p.rt != nil && p.rt.log != nil {
					p.rt.log.processCrashed(p.Ref(), fmt.Sprint(r))
				}
			}
		}
		p.state.Store(int32(StateExiting))
		co.doneCh <- doneSignal{state: StateExiting}
	}()

	p.entry(p, p.arg)
	p.exitReason = ReasonNormal
}

// reasonCrashed marks a death caused by an uncaught Go panic in the
// entry function, distinct from both ReasonNormal and ReasonKilled.
const reasonCrashed int32 = -2

// checkpoint is called from every public per-process API entry point.
// It observes an external Kill, decrements the reduction budget, and
// reschedules the process once the budget is exhausted, matching
// spec.md §4.5's "every scheduler-observable operation decrements
// fcalls" rule.
func checkpoint(p *Process) {
	if p == nil {
		return
	}
	if p.killFlag.LoadAcquire() {
		panic(killSignal{reason: p.exitReason})
	}
	p.fcalls--
	if p.fcalls <= 0 {
		p.suspend(StateRunnable)
	}
}

// suspend hands control back to the scheduler, recording why, and blocks
// until the scheduler resumes this process. It is the only place a
// process's goroutine ever yields control.
func (p *Process) suspend(state State) {
	p.state.Store(int32(state))
	p.coro.doneCh <- doneSignal{state: state}
	<-p.coro.resumeCh
	p.state.Store(int32(StateRunning))
	if p.killFlag.LoadAcquire() {
		panic(killSignal{reason: p.exitReason})
	}
}

// stackDepth returns how many bytes of stack the process has used since
// it was first resumed, as a diagnostic only: Go's goroutine stacks grow
// on demand, so there is no fixed stack_limit to enforce the way spec.md
// describes for a manually managed stack. Supported architectures return
// a real delta; others return 0 (see internal/asm's generic fallback).
func (p *Process) stackDepth() uintptr {
	if p.coro == nil || p.coro.baselineSP == 0 {
		return 0
	}
	cur := asm.CurrentSP()
	if cur == 0 || cur > p.coro.baselineSP {
		return 0
	}
	return p.coro.baselineSP - cur
}
