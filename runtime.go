// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Runtime is one self-contained actor system: an arena, a set of
// schedulers, a registry, a timer service, and the link/monitor graph
// that ties them together. Most programs create exactly one via Init.
type Runtime struct {
	cfg        Config
	arena      *Arena
	schedulers []*Scheduler
	registry   *registry
	timers     *timers
	tasks      *TaskPool
	log        *runtimeLog

	linkLock   sync.Mutex
	monitorTag atomix.Uint64
	spawnHint  atomix.Uint64

	wg sync.WaitGroup
}

var current atomic.Pointer[Runtime]

// Init builds and starts a Runtime from opts, installs it as the
// package-level default Runtime (see Default), and returns it.
//
// Init is idempotent failure per spec.md §4.9: if a Runtime is already
// installed, Init returns ErrAlreadyInitialized and leaves the existing
// Runtime (and its schedulers/timers/task pool goroutines) untouched
// rather than silently replacing it and leaking the old one.
func Init(opts ...func(*Builder)) (*Runtime, error) {
	if current.Load() != nil {
		return nil, ErrAlreadyInitialized
	}
	b := NewConfig()
	for _, opt := range opts {
		opt(b)
	}
	rt, err := b.Init()
	if err != nil {
		return nil, err
	}
	if !current.CompareAndSwap(nil, rt) {
		rt.Shutdown()
		return nil, ErrAlreadyInitialized
	}
	return rt, nil
}

// Default returns the Runtime most recently installed by Init, or nil
// if none has been installed yet.
func Default() *Runtime {
	return current.Load()
}

func newRuntime(cfg Config) (*Runtime, error) {
	if cfg.schedulers < 1 {
		cfg.schedulers = 1
	}
	if cfg.taskWorkers < 1 {
		cfg.taskWorkers = 1
	}
	if cfg.taskQueueDepth < 2 {
		cfg.taskQueueDepth = 2
	}
	logger := cfg.logger
	if logger == nil {
		logger = defaultLogger()
	}

	rt := &Runtime{
		cfg:      cfg,
		arena:    newArena(cfg.capacity, cfg.schedulers),
		registry: newRegistry(),
		log:      &runtimeLog{l: logger},
	}
	rt.timers = newTimers(rt)
	rt.tasks = newTaskPool(rt, cfg.taskWorkers, cfg.taskQueueDepth)

	rt.schedulers = make([]*Scheduler, cfg.schedulers)
	for i := range rt.schedulers {
		rt.schedulers[i] = newScheduler(i, rt)
	}
	for _, s := range rt.schedulers {
		rt.wg.Add(1)
		go func(s *Scheduler) {
			defer rt.wg.Done()
			s.Run()
		}(s)
	}
	go rt.timers.run()

	return rt, nil
}

// resolve looks up the live process identified by ref, returning nil if
// the slot is free or has since been recycled for a different pid.
func (rt *Runtime) resolve(ref Ref) *Process {
	if ref.Slot < 0 || int(ref.Slot) >= len(rt.arena.slab) {
		return nil
	}
	p := &rt.arena.slab[ref.Slot]
	if p.pid != ref.Pid {
		return nil
	}
	if State(p.state.Load()) == StateFree {
		return nil
	}
	return p
}

// sendSignal delivers msg to the process identified by ref, if it still
// exists. If the target is parked (StateWaiting) it is transitioned back
// to StateRunnable and re-enqueued on its home scheduler.
func (rt *Runtime) sendSignal(ref Ref, msg Message) {
	p := rt.resolve(ref)
	if p == nil {
		return
	}
	p.mailbox.push(&Message{Tag: msg.Tag, Payload: msg.Payload, From: msg.From})
	rt.wake(p)
}

// wake transitions a parked process back onto its home scheduler's run
// queue. It is a no-op for processes that are not currently waiting.
func (rt *Runtime) wake(p *Process) {
	if State(p.state.Load()) != StateWaiting {
		return
	}
	if !p.state.CompareAndSwapAcqRel(int32(StateWaiting), int32(StateRunnable)) {
		return
	}
	hint := int(p.schedulerHint) % len(rt.schedulers)
	rt.schedulers[hint].enqueue(p)
}

// killInternal asynchronously terminates the process identified by ref
// with reason: it sets the kill flag, consulted by checkpoint on every
// scheduler-observable operation, and forces an immediate wake if the
// process is currently parked in Receive.
func (rt *Runtime) killInternal(ref Ref, reason int32) bool {
	p := rt.resolve(ref)
	if p == nil {
		return false
	}
	// exitReason must be visible to p's own goroutine before it observes
	// killFlag set, or checkpoint/suspend could re-panic with a stale
	// reason; the store/load pair below is the release/acquire fence that
	// guarantees it.
	p.exitReason = reason
	p.killFlag.StoreRelease(true)
	rt.wake(p)
	return true
}

// Shutdown stops every scheduler and the timer service, then waits for
// all scheduler goroutines to return. In-flight processes are not
// forcibly killed; Shutdown only stops scheduling new work once the
// current quantum on each scheduler ends.
func (rt *Runtime) Shutdown() {
	for _, s := range rt.schedulers {
		s.Stop()
	}
	rt.timers.shutdown()
	rt.tasks.shutdown()
	rt.wg.Wait()
}

// Snapshot reports coarse runtime occupancy, exposed via Stats.
type Snapshot struct {
	ProcessesUsed int
	ProcessesCap  int
	QueueDepth    []int
}

// Stats returns a point-in-time snapshot of arena occupancy and, for each
// scheduler, how many of its priority run queues are non-empty.
func (rt *Runtime) Stats() Snapshot {
	used, capc := rt.arena.occupancy()
	depths := make([]int, len(rt.schedulers))
	for i, s := range rt.schedulers {
		depths[i] = s.depth()
	}
	return Snapshot{ProcessesUsed: used, ProcessesCap: capc, QueueDepth: depths}
}
