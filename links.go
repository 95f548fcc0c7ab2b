// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

// Signal is the payload carried by EXIT and DOWN messages.
type Signal struct {
	From   Ref
	Reason int32
	Tag    uint64 // monitor reference; zero for EXIT
}

// link establishes a bidirectional link between a and b, guarded by the
// single global link lock spec.md's Design Note calls for ("a link lock
// shared across all processes avoids lock-ordering problems in cyclic
// link graphs").
func (rt *Runtime) link(a, b *Process) {
	ra, rb := a.Ref(), b.Ref()
	rt.linkLock.Lock()
	defer rt.linkLock.Unlock()
	if !containsRef(a.links, rb) {
		a.links = append(a.links, rb)
	}
	if !containsRef(b.links, ra) {
		b.links = append(b.links, ra)
	}
}

func (rt *Runtime) unlink(a, b *Process) {
	ra, rb := a.Ref(), b.Ref()
	rt.linkLock.Lock()
	defer rt.linkLock.Unlock()
	a.links = removeRef(a.links, rb)
	b.links = removeRef(b.links, ra)
}

// monitor makes watcher a one-shot monitor of target, returning an
// opaque reference used to match the eventual DOWN message and, if
// needed, demonitor early.
func (rt *Runtime) monitor(watcher, target *Process) uint64 {
	tag := rt.monitorTag.AddAcqRel(1)
	rt.linkLock.Lock()
	defer rt.linkLock.Unlock()
	target.monitors = append(target.monitors, monitorEdge{ref: watcher.Ref(), tag: tag})
	watcher.monitoring = append(watcher.monitoring, monitorEdge{ref: target.Ref(), tag: tag})
	return tag
}

func (rt *Runtime) demonitor(watcher *Process, tag uint64) {
	rt.linkLock.Lock()
	defer rt.linkLock.Unlock()
	for _, m := range watcher.monitoring {
		if m.tag != tag {
			continue
		}
		if target := rt.resolve(m.ref); target != nil {
			target.monitors = removeTag(target.monitors, tag)
		}
	}
	watcher.monitoring = removeTag(watcher.monitoring, tag)
}

func containsRef(s []Ref, r Ref) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

func removeRef(s []Ref, r Ref) []Ref {
	out := s[:0]
	for _, x := range s {
		if x != r {
			out = append(out, x)
		}
	}
	return out
}

func removeTag(s []monitorEdge, tag uint64) []monitorEdge {
	out := s[:0]
	for _, x := range s {
		if x.tag != tag {
			out = append(out, x)
		}
	}
	return out
}

// deathRoutine runs once, exactly when a process transitions into
// StateExiting: it snapshots and clears the process's link/monitor
// lists under the global link lock, then — outside the lock, per
// spec.md's deadlock-avoidance note — propagates EXIT to linked
// processes (trap_exit ones get a message, others are killed in turn
// unless the death was ReasonNormal) and DOWN to every monitor, before
// finally returning the slot and heap block to the arena.
func (rt *Runtime) deathRoutine(p *Process) {
	rt.linkLock.Lock()
	links := append([]Ref(nil), p.links...)
	mons := append([]monitorEdge(nil), p.monitors...)
	p.links = nil
	p.monitors = nil
	rt.linkLock.Unlock()

	rt.registry.unregisterProcess(p)

	reason := p.exitReason
	self := p.Ref()

	for _, l := range links {
		other := rt.resolve(l)
		if other == nil {
			continue
		}
		rt.unlink(p, other)
		if other.TrapExit() {
			rt.sendSignal(l, Message{Tag: TagExit, Payload: Signal{From: self, Reason: reason}})
		} else if reason != ReasonNormal {
			rt.killInternal(l, reason)
		}
	}

	for _, m := range mons {
		rt.sendSignal(m.ref, Message{Tag: TagDown, Payload: Signal{From: self, Reason: reason, Tag: m.tag}})
	}

	if rt.log != nil {
		rt.log.processExited(self, reason)
	}

	p.state.Store(int32(StateFree))
	rt.arena.free(p)
}
