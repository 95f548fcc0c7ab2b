// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"sync"
	"time"
)

// timerEntry is one node of the sorted singly-linked timer list
// described in spec.md §4.8.
type timerEntry struct {
	deadline time.Time
	dest     Ref
	payload  any
	canceled bool
	next     *timerEntry
}

// TimerRef identifies a pending timer for cancel_timer.
type TimerRef struct {
	entry *timerEntry
}

// timers is a mutex-guarded sorted list plus one dedicated servicing
// goroutine, matching spec.md's description of the timer subsystem
// exactly: a background thread peeks the head and fires a TIMER message
// at (or shortly after) its deadline; cancellation marks the entry, which
// fireDue then skips, and a timer that races its own cancellation is
// tolerated as a spurious TIMER delivery rather than treated as an error.
type timers struct {
	mu    sync.Mutex
	head  *timerEntry
	wake  chan struct{}
	stop  chan struct{}
	rt    *Runtime
}

func newTimers(rt *Runtime) *timers {
	return &timers{
		rt:   rt,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// sendAfter schedules payload to be delivered to dest, tagged TagTimer,
// after d elapses.
func (t *timers) sendAfter(dest Ref, payload any, d time.Duration) TimerRef {
	e := &timerEntry{deadline: time.Now().Add(d), dest: dest, payload: payload}
	t.mu.Lock()
	t.insertLocked(e)
	t.mu.Unlock()
	select {
	case t.wake <- struct{}{}:
	default:
	}
	return TimerRef{entry: e}
}

func (t *timers) insertLocked(e *timerEntry) {
	if t.head == nil || e.deadline.Before(t.head.deadline) {
		e.next = t.head
		t.head = e
		return
	}
	prev := t.head
	for prev.next != nil && !e.deadline.Before(prev.next.deadline) {
		prev = prev.next
	}
	e.next = prev.next
	prev.next = e
}

// cancel marks a timer canceled. A TIMER message that was already in
// flight when cancel is called may still be delivered; recipients must
// tolerate spurious TIMER messages, per spec.md.
func (t *timers) cancel(ref TimerRef) {
	if ref.entry == nil {
		return
	}
	t.mu.Lock()
	ref.entry.canceled = true
	t.mu.Unlock()
}

// run is the background servicing loop; it sleeps until the head
// deadline (or a wake signal moves the head earlier) and fires due
// timers.
func (t *timers) run() {
	for {
		t.mu.Lock()
		var wait time.Duration
		if t.head == nil {
			wait = time.Hour
		} else {
			wait = time.Until(t.head.deadline)
			if wait < 0 {
				wait = 0
			}
		}
		t.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-t.stop:
			timer.Stop()
			return
		case <-t.wake:
			timer.Stop()
		case <-timer.C:
			t.fireDue()
		}
	}
}

func (t *timers) fireDue() {
	now := time.Now()
	var due []*timerEntry
	t.mu.Lock()
	for t.head != nil && !t.head.deadline.After(now) {
		e := t.head
		t.head = t.head.next
		if !e.canceled {
			due = append(due, e)
		}
	}
	t.mu.Unlock()

	for _, e := range due {
		t.rt.sendSignal(e.dest, Message{Tag: TagTimer, Payload: e.payload})
	}
}

func (t *timers) shutdown() {
	close(t.stop)
}
