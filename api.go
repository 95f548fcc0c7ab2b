// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import "time"

// SpawnOption configures a newly allocated process before it is first
// scheduled. Applied in order, after entry/arg are set.
type SpawnOption func(*Process)

// WithPriority sets the process's scheduling priority. Default is
// PriorityNormal.
func WithPriority(pr Priority) SpawnOption {
	return func(p *Process) { p.priority = pr }
}

// WithTrapExit enables trap_exit before the process runs its first
// instruction, so it never misses an EXIT signal from a link established
// immediately after Spawn returns.
func WithTrapExit(on bool) SpawnOption {
	return func(p *Process) { p.SetTrapExit(on) }
}

// WithRegisteredName registers name for the new process as part of
// spawning it. If registration fails (name taken or invalid), Spawn
// still succeeds but the returned error reports the registration
// failure; the process itself was not rolled back.
func WithRegisteredName(name string) SpawnOption {
	return func(p *Process) { p.pendingName = name }
}

// Spawn allocates a process from rt's arena, wires entry and arg, and
// makes it runnable. entry receives the new process (as self) and arg
// exactly once, when first scheduled; its priority defaults to
// PriorityNormal.
func Spawn(rt *Runtime, entry func(*Process, any), arg any, opts ...SpawnOption) (Ref, error) {
	hint := int(rt.spawnHint.AddAcqRel(1)-1) % len(rt.schedulers)
	p, ok := rt.arena.alloc(hint)
	if !ok {
		rt.log.arenaExhausted()
		return Ref{}, ErrArenaExhausted
	}
	p.entry = entry
	p.arg = arg
	p.priority = PriorityNormal
	p.rt = rt

	for _, opt := range opts {
		opt(p)
	}

	ref := p.Ref()

	var regErr error
	if p.pendingName != "" {
		name := p.pendingName
		p.pendingName = ""
		regErr = rt.registry.register(name, p)
	}

	rt.schedulers[hint].enqueue(p)
	return ref, regErr
}

// Send delivers a message tagged tag, carrying payload, to the process
// identified by to. Send never blocks and never fails even if to no
// longer exists: delivery to a dead process is silently dropped, matching
// the semantics of the original actor model this runtime implements.
// Calling Send decrements self's reduction budget.
func (self *Process) Send(to Ref, tag Tag, payload any) {
	checkpoint(self)
	self.rt.sendSignal(to, Message{Tag: tag, Payload: payload, From: self.Ref()})
}

// Receive performs a selective receive: it returns the first pending
// message for which match returns true (a nil match accepts any
// message), blocking the calling process until one arrives or timeout
// elapses. A negative timeout blocks indefinitely; a zero timeout checks
// the mailbox once without waiting.
func (self *Process) Receive(match func(*Message) bool, timeout time.Duration) (*Message, bool) {
	checkpoint(self)

	var deadline time.Time
	hasDeadline := timeout >= 0
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	for {
		if msg := self.mailbox.popMatching(match); msg != nil {
			return msg, true
		}
		if self.mailbox.drainSignalStack() {
			continue
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return nil, false
		}
		var deadlineWake *time.Timer
		if hasDeadline {
			deadlineWake = time.AfterFunc(time.Until(deadline), func() { self.rt.wake(self) })
		}
		self.suspend(StateWaiting)
		if deadlineWake != nil {
			deadlineWake.Stop()
		}
		checkpoint(self)
	}
}

// Yield voluntarily gives up the remainder of self's reduction budget,
// letting the scheduler run other work before resuming self.
func (self *Process) Yield() {
	if self == nil {
		return
	}
	self.fcalls = 0
	checkpoint(self)
}

// Link establishes a bidirectional link between self and other: when
// either exits, the other receives an EXIT signal (if trap_exit is set)
// or is itself killed (otherwise), unless the death was ReasonNormal.
func (self *Process) Link(other Ref) error {
	checkpoint(self)
	o := self.rt.resolve(other)
	if o == nil {
		return ErrNotFound
	}
	self.rt.link(self, o)
	return nil
}

// Unlink removes any link between self and other. A no-op if none
// exists.
func (self *Process) Unlink(other Ref) error {
	checkpoint(self)
	o := self.rt.resolve(other)
	if o == nil {
		return ErrNotFound
	}
	self.rt.unlink(self, o)
	return nil
}

// Monitor makes self a one-shot monitor of target: when target exits,
// self receives exactly one DOWN message carrying the returned tag,
// regardless of self's trap_exit setting.
func (self *Process) Monitor(target Ref) (uint64, error) {
	checkpoint(self)
	t := self.rt.resolve(target)
	if t == nil {
		return 0, ErrNotFound
	}
	return self.rt.monitor(self, t), nil
}

// Demonitor cancels a monitor established by Monitor, identified by the
// tag Monitor returned. A DOWN message already in flight may still
// arrive; recipients should tolerate a stray DOWN with an unrecognized
// tag.
func (self *Process) Demonitor(tag uint64) {
	checkpoint(self)
	self.rt.demonitor(self, tag)
}

// Register binds name to self in the runtime's registry.
func (self *Process) Register(name string) error {
	checkpoint(self)
	return self.rt.registry.register(name, self)
}

// Unregister removes self's registered name, if any.
func (self *Process) Unregister() error {
	checkpoint(self)
	if self.registryName == "" {
		return ErrUnknownName
	}
	return self.rt.registry.unregister(self.registryName)
}

// Whereis resolves a registered name to the Ref it currently denotes.
func Whereis(rt *Runtime, name string) (Ref, bool) {
	p, ok := rt.registry.whereis(name)
	if !ok {
		return Ref{}, false
	}
	return p.Ref(), true
}

// Exit terminates self with reason, running the death routine (link and
// monitor propagation, registry cleanup, arena reclamation) exactly as
// if the entry function had returned. Exit never returns.
func (self *Process) Exit(reason int32) {
	panic(killSignal{reason: reason})
}

// Kill asynchronously terminates the process identified by target with
// reason, per spec.md §4.9's process_kill(proc, reason). Unlike Exit,
// Kill may be called by any process (or any goroutine) against any
// other process, and does not block waiting for the target to actually
// stop. Callers that want the conventional "forced kill" reason should
// pass ReasonKilled explicitly.
func Kill(rt *Runtime, target Ref, reason int32) bool {
	return rt.killInternal(target, reason)
}

// SendAfter schedules payload to be delivered to dest, tagged TagTimer,
// after d elapses. The returned TimerRef may be passed to CancelTimer.
func SendAfter(rt *Runtime, dest Ref, payload any, d time.Duration) TimerRef {
	return rt.timers.sendAfter(dest, payload, d)
}

// CancelTimer cancels a pending timer. A TIMER message already in
// flight may still be delivered.
func CancelTimer(rt *Runtime, ref TimerRef) {
	rt.timers.cancel(ref)
}
