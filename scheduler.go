// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"runtime"
	"time"

	"code.hybscloud.com/atomix"
)

const idleParkTimeout = 500 * time.Microsecond

// Scheduler owns one OS thread (via runtime.LockOSThread) and one set of
// per-priority run queues. It repeatedly picks a runnable process,
// resumes its coroutine until it yields, waits, or exits, and parks
// briefly when it finds nothing to do, per spec.md §4.5.
type Scheduler struct {
	id       int
	rt       *Runtime
	queues   *runQueues
	wake     chan struct{}
	stopping atomix.Bool
	current  atomix.Pointer[Process]
}

func newScheduler(id int, rt *Runtime) *Scheduler {
	return &Scheduler{
		id:     id,
		rt:     rt,
		queues: newRunQueues(),
		wake:   make(chan struct{}, 1),
	}
}

// enqueue makes p runnable on this scheduler and nudges it awake if
// idle. Callers may be any goroutine (a sender delivering a message to a
// waiting process, a sibling scheduler stealing, the timer goroutine).
func (s *Scheduler) enqueue(p *Process) {
	p.state.Store(int32(StateRunnable))
	s.queues.push(p)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run is the scheduler's main loop. It returns once Stop is called and
// the current process (if any) has yielded control.
func (s *Scheduler) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if s.rt.log != nil {
		s.rt.log.schedulerStarted(s.id)
	}
	for !s.stopping.Load() {
		p := s.queues.pick()
		if p == nil {
			p = s.steal()
		}
		if p == nil {
			s.park()
			continue
		}
		s.runProcess(p)
	}
	if s.rt.log != nil {
		s.rt.log.schedulerStopped(s.id)
	}
}

// Stop requests the scheduler loop to exit after its current process (if
// any) next yields.
func (s *Scheduler) Stop() {
	s.stopping.Store(true)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) runProcess(p *Process) {
	if p.coro == nil {
		p.start()
	}
	p.fcalls = s.rt.cfg.reductionBudget
	s.current.Store(p)
	p.state.Store(int32(StateRunning))

	p.coro.resumeCh <- struct{}{}
	sig := <-p.coro.doneCh

	s.current.Store(nil)

	switch sig.state {
	case StateRunnable:
		s.enqueue(p)
	case StateWaiting:
		// Left parked; a future Send or timer delivery re-enqueues it.
	case StateExiting:
		s.rt.deathRoutine(p)
	}
}

// steal takes one process from a sibling scheduler's queues, scanning
// round-robin starting at (self+1) mod N, per spec.md §4.5. It calls
// queues.steal rather than queues.pick: pick's tick counter is owned by
// the victim's own Run loop and would race under a concurrent stealer,
// whereas steal only touches the per-priority queues, each already safe
// for a second concurrent popper via its consumerLock.
func (s *Scheduler) steal() *Process {
	sibs := s.rt.schedulers
	n := len(sibs)
	for i := 1; i < n; i++ {
		victim := sibs[(s.id+i)%n]
		if p := victim.queues.steal(); p != nil {
			return p
		}
	}
	return nil
}

// park waits briefly for work to arrive, waking early if nudged by
// enqueue/Stop, otherwise retrying the scan after idleParkTimeout.
func (s *Scheduler) park() {
	select {
	case <-s.wake:
	case <-time.After(idleParkTimeout):
	}
}

// depth reports this scheduler's approximate queue occupancy, for Stats.
func (s *Scheduler) depth() int {
	return s.queues.depth()
}
